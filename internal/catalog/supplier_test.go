package catalog_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mavlib/libris/internal/catalog"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/*
TestIngest_Remote verifies a successful ingestion: the fetched works land in
the catalog, mapped onto Book records, and the readiness gate flips to Ready.
*/
func TestIngest_Remote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/search.json", request.URL.Path)
		subject := request.URL.Query().Get("subject")

		writer.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(writer, `{"docs":[
			{"key":"/works/%[1]s-1","title":"%[1]s One","author_name":["Author A"],"isbn":["111"],"first_publish_year":1970,"first_sentence":"It begins."},
			{"key":"/works/%[1]s-2","title":"%[1]s Two","author_name":["Author B"],"cover_i":42},
			{"key":"/works/%[1]s-3","title":""}
		]}`, subject)
	}))
	defer server.Close()

	repository := catalog.NewMemoryRepository()
	supplier := catalog.NewSupplier(server.URL, repository, []string{"Fantasy", "Mystery"}, 3, discardLogger())

	supplier.Ingest(context.Background())

	assert.Equal(t, catalog.StateReady, repository.State())

	books, err := repository.All(context.Background())
	require.NoError(t, err)
	// Two usable docs per genre; the untitled one is dropped.
	require.Len(t, books, 4)

	fetched, err := repository.Get(context.Background(), "fantasy-1")
	require.NoError(t, err)
	assert.Equal(t, "fantasy One", fetched.Title)
	assert.Equal(t, "Author A", fetched.Author)
	assert.Equal(t, "111", fetched.ISBN)
	assert.Equal(t, "Fantasy", fetched.Category)
	assert.Equal(t, 1970, fetched.PublishedYear)
	assert.Equal(t, "It begins.", fetched.Description)
	assert.Equal(t, 5, fetched.TotalCopies)
	assert.Equal(t, 5, fetched.AvailableCopies)
}

/*
TestIngest_Fallback verifies the failure policy: when every genre fetch
fails, the bundled default set is installed and the catalog still becomes
Ready.
*/
func TestIngest_Fallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	repository := catalog.NewMemoryRepository()
	supplier := catalog.NewSupplier(server.URL, repository, []string{"Fantasy"}, 5, discardLogger())

	supplier.Ingest(context.Background())

	assert.Equal(t, catalog.StateReady, repository.State())

	books, err := repository.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, books, len(catalog.DefaultBooks()))

	dune, err := repository.Get(context.Background(), "fallback-dune")
	require.NoError(t, err)
	assert.Equal(t, "Dune", dune.Title)
	assert.True(t, dune.IsAvailable)
}

/*
TestIngest_EmptyPayload verifies an empty remote result set also routes to
the fallback dataset instead of leaving an empty catalog.
*/
func TestIngest_EmptyPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		fmt.Fprint(writer, `{"docs":[]}`)
	}))
	defer server.Close()

	repository := catalog.NewMemoryRepository()
	supplier := catalog.NewSupplier(server.URL, repository, []string{"Fantasy"}, 5, discardLogger())

	supplier.Ingest(context.Background())

	books, err := repository.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, books, len(catalog.DefaultBooks()))
	assert.Equal(t, catalog.StateReady, repository.State())
}
