package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table          string
	ID             string
	Name           string
	Email          string
	Password       string
	Role           string
	MembershipDate string
	CreatedAt      string
	UpdatedAt      string
	DeletedAt      string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:          "users.account",
	ID:             "id",
	Name:           "name",
	Email:          "email",
	Password:       "passwordhash",
	Role:           "role",
	MembershipDate: "membershipdate",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
	DeletedAt:      "deletedat",
}
