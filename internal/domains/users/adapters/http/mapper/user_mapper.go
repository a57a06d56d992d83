package mapper

import userdomain "github.com/Apurer/go-gin-shop-server/internal/domains/users/domain"

// Address is the transport-level address payload.
type Address struct {
	City    string
	Street  string
	Number  int32
	Zipcode string
}

// User represents the transport-level user payload.
type User struct {
	ID        int64
	Username  string
	FirstName string
	Surname   string
	Address   Address
	Roles     []string
}

// ToDomainUser converts a transport user to its domain counterpart.
func ToDomainUser(model User) (*userdomain.User, error) {
	roles := make([]userdomain.Role, 0, len(model.Roles))
	for _, raw := range model.Roles {
		role, err := userdomain.ParseRole(raw)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	user, err := userdomain.NewUser(model.ID, model.Username, roles...)
	if err != nil {
		return nil, err
	}
	user.UpdateProfile(model.FirstName, model.Surname, userdomain.Address(model.Address))
	return user, nil
}

// FromDomainUser converts a domain user into a transport representation.
func FromDomainUser(user *userdomain.User) User {
	if user == nil {
		return User{}
	}
	roles := make([]string, 0, len(user.Roles))
	for _, role := range user.Roles.Slice() {
		roles = append(roles, string(role))
	}
	return User{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		Surname:   user.Surname,
		Address:   Address(user.Address),
		Roles:     roles,
	}
}

// FromDomainUsers converts a slice of domain users to transport representation.
func FromDomainUsers(users []*userdomain.User) []User {
	result := make([]User, 0, len(users))
	for _, user := range users {
		result = append(result, FromDomainUser(user))
	}
	return result
}
