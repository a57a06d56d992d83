package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyUsername = errors.New("username is required")
	ErrUnknownRole   = errors.New("role is not recognised")
	// ErrInvalidCustomerID is returned when a requesting user id is missing or does not resolve.
	ErrInvalidCustomerID = errors.New("the supplied user id is not valid")
)

// Address is the postal address kept on a user profile.
type Address struct {
	City    string
	Street  string
	Number  int32
	Zipcode string
}

// User is a storefront account. The order engine only reads its roles.
type User struct {
	ID        int64
	Username  string
	FirstName string
	Surname   string
	Address   Address
	Roles     RoleSet
}

// NewUser builds a user ensuring required invariants.
func NewUser(id int64, username string, roles ...Role) (*User, error) {
	user := &User{ID: id}
	if err := user.SetUsername(username); err != nil {
		return nil, err
	}
	set, err := NewRoleSet(roles...)
	if err != nil {
		return nil, err
	}
	user.Roles = set
	return user, nil
}

// SetUsername trims and validates the username.
func (u *User) SetUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrEmptyUsername
	}
	u.Username = username
	return nil
}

// UpdateProfile applies the optional name fields.
func (u *User) UpdateProfile(firstName, surname string, address Address) {
	u.FirstName = strings.TrimSpace(firstName)
	u.Surname = strings.TrimSpace(surname)
	address.City = strings.TrimSpace(address.City)
	address.Street = strings.TrimSpace(address.Street)
	address.Zipcode = strings.TrimSpace(address.Zipcode)
	u.Address = address
}

// HasRole reports whether the user holds role.
func (u *User) HasRole(role Role) bool {
	if u == nil {
		return false
	}
	return u.Roles.Has(role)
}

// Validate re-applies core invariants for persistence.
func (u *User) Validate() error {
	if err := u.SetUsername(u.Username); err != nil {
		return err
	}
	for role := range u.Roles {
		if !role.Valid() {
			return ErrUnknownRole
		}
	}
	return nil
}
