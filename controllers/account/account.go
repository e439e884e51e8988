package account

import (
	"errors"
	"net/http"

	"meal-tracker/middlewares"
	"meal-tracker/services/auth"
	"meal-tracker/structs"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	provider auth.Provider
}

func NewController(provider auth.Provider) *Controller {
	return &Controller{provider: provider}
}

func (a *Controller) Register(c *gin.Context) {
	var param structs.RegisterParam
	if err := c.ShouldBindJSON(&param); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := a.provider.SignUp(c.Request.Context(), param.Email, param.Password, param.DisplayName)
	if errors.Is(err, auth.ErrEmailTaken) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (a *Controller) Login(c *gin.Context) {
	var param structs.LoginParam
	if err := c.ShouldBindJSON(&param); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session, token, err := a.provider.SignIn(c.Request.Context(), param.Email, param.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "session": session})
}

// Logout revokes the bearer token of the request. Must run behind AuthMiddleware.
func (a *Controller) Logout(c *gin.Context) {
	err := a.provider.SignOut(c.Request.Context(), c.GetString(middlewares.TokenKey))
	if errors.Is(err, auth.ErrSessionNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}
