package shopserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userhttpmapper "github.com/Apurer/go-gin-shop-server/internal/domains/users/adapters/http/mapper"
	userports "github.com/Apurer/go-gin-shop-server/internal/domains/users/ports"
)

// UserAPI implements the user directory endpoints.
type UserAPI struct {
	service userports.Service
}

// NewUserAPI wires dependencies.
func NewUserAPI(service userports.Service) UserAPI {
	return UserAPI{service: service}
}

func toTransportUser(model User) userhttpmapper.User {
	return userhttpmapper.User{
		ID:        model.Id,
		Username:  model.Username,
		FirstName: model.FirstName,
		Surname:   model.Surname,
		Address:   userhttpmapper.Address(model.Address),
		Roles:     model.Roles,
	}
}

func fromTransportUser(user userhttpmapper.User) User {
	return User{
		Id:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		Surname:   user.Surname,
		Address:   Address(user.Address),
		Roles:     user.Roles,
	}
}

func fromTransportUsers(users []userhttpmapper.User) []User {
	result := make([]User, 0, len(users))
	for _, user := range users {
		result = append(result, fromTransportUser(user))
	}
	return result
}

// Post /user
// Create user
func (api *UserAPI) CreateUser(c *gin.Context) {
	var payload User
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	user, err := userhttpmapper.ToDomainUser(toTransportUser(payload))
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	saved, err := api.service.CreateUser(c.Request.Context(), user)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromTransportUser(userhttpmapper.FromDomainUser(saved)))
}

// Get /user/:userId
// Get user by id
func (api *UserAPI) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	user, err := api.service.GetUser(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromTransportUser(userhttpmapper.FromDomainUser(user)))
}

// Get /user
// List users
func (api *UserAPI) ListUsers(c *gin.Context) {
	users, err := api.service.ListUsers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromTransportUsers(userhttpmapper.FromDomainUsers(users)))
}
