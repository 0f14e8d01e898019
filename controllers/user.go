package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"skyview-backend/repository"
	"skyview-backend/services"
	"skyview-backend/utils"
)

type UserController struct {
	users UserService
	log   Logger
}

func NewUserController(users UserService, log Logger) *UserController {
	return &UserController{users: users, log: log}
}

func (uc *UserController) GetUsers(c *gin.Context) {
	users, err := uc.users.List(c.Request.Context())
	if err != nil {
		uc.respondUserError(c, err, "Failed to retrieve users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

func (uc *UserController) GetUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	user, err := uc.users.Get(c.Request.Context(), id)
	if err != nil {
		uc.respondUserError(c, err, "Failed to retrieve user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (uc *UserController) CreateUser(c *gin.Context) {
	var input services.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	user, err := uc.users.Create(c.Request.Context(), input)
	if err != nil {
		uc.respondUserError(c, err, "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User created successfully",
		"user":    user,
	})
}

func (uc *UserController) UpdateUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	var input services.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	user, err := uc.users.Update(c.Request.Context(), id, input)
	if errors.Is(err, services.ErrLastAdmin) {
		utils.RespondWithError(c, http.StatusBadRequest, "Cannot change the role of the last admin user")
		return
	}
	if err != nil {
		uc.respondUserError(c, err, "Failed to update user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User updated successfully",
		"user":    user,
	})
}

func (uc *UserController) DeleteUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	if err := uc.users.Delete(c.Request.Context(), id); err != nil {
		uc.respondUserError(c, err, "Failed to delete user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted successfully"})
}

func parseUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return uuid.Nil, false
	}
	return id, true
}

func (uc *UserController) respondUserError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUsernameTaken):
		utils.RespondWithError(c, http.StatusBadRequest, "Username already exists")
	case errors.Is(err, services.ErrLastAdmin):
		utils.RespondWithError(c, http.StatusBadRequest, "Cannot delete the last admin user")
	case errors.Is(err, repository.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
	default:
		uc.log.Error("%s: %v", fallback, err)
		utils.RespondWithError(c, http.StatusInternalServerError, fallback)
	}
}
