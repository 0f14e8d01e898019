package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"skyview-backend/models"
	"skyview-backend/services"
	"skyview-backend/utils"
)

type AuthController struct {
	users UserService
	log   Logger
}

func NewAuthController(users UserService, log Logger) *AuthController {
	return &AuthController{users: users, log: log}
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SetupInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func userPayload(u *models.User) gin.H {
	return gin.H{
		"id":       u.ID,
		"username": u.Username,
		"role":     u.Role,
	}
}

func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Username and password are required")
		return
	}

	result, err := ac.users.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrInvalidCredentials):
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		default:
			ac.log.Error("Login failed: %v", err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Login failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"token":     result.Token,
		"expiresAt": result.ExpiresAt,
		"user":      userPayload(result.User),
	})
}

// Setup creates the first admin account; it is refused once an admin exists.
func (ac *AuthController) Setup(c *gin.Context) {
	var input SetupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	user, err := ac.users.SetupAdmin(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAdminExists):
			utils.RespondWithError(c, http.StatusBadRequest, "Admin user already exists")
		case errors.Is(err, services.ErrValidation):
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		default:
			ac.log.Error("Admin setup failed: %v", err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create admin user")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Admin user created successfully",
		"user":    userPayload(user),
	})
}

func (ac *AuthController) Logout(c *gin.Context) {
	claims, _ := c.Get(utils.CtxClaims)
	tokenClaims, _ := claims.(*utils.Claims)

	if err := ac.users.Logout(c.Request.Context(), tokenClaims); err != nil {
		ac.log.Error("Logout failed: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Logout failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

func (ac *AuthController) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":       c.GetString(utils.CtxUserID),
			"username": c.GetString(utils.CtxUsername),
			"role":     c.GetString(utils.CtxRole),
		},
	})
}
