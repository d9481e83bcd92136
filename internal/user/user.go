// Package user defines the identity record of an authenticated account
// as returned by the shortening API and kept in the client session.
package user

// User represents an account of the shortening API.
type User struct {
	// ID is the API's internal identifier of the account.
	ID string `json:"_id"`

	// Name is the display name given at signup.
	Name string `json:"name"`

	// Email is the login of the account.
	Email string `json:"email"`
}

// IsZero reports whether no identity fields are set.
func (u User) IsZero() bool {
	return u.ID == "" && u.Name == "" && u.Email == ""
}
