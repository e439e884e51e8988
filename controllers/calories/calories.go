package calories

import (
	"errors"
	"net/http"

	"meal-tracker/middlewares"
	"meal-tracker/services/calorie"
	"meal-tracker/structs"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	profiles *calorie.ProfileService
}

func NewController(profiles *calorie.ProfileService) *Controller {
	return &Controller{profiles: profiles}
}

// Calculate returns the daily calorie need without storing anything.
func (k *Controller) Calculate(c *gin.Context) {
	var param structs.CalorieParam
	if err := c.ShouldBindJSON(&param); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	calories, err := calorie.Calculate(param)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, structs.CalorieResult{CalorieParam: param, Calories: calories})
}

func (k *Controller) Profile(c *gin.Context) {
	session, _ := middlewares.CurrentSession(c)
	result, err := k.profiles.Load(c.Request.Context(), session.UserID)
	if errors.Is(err, calorie.ErrNoProfile) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (k *Controller) SaveProfile(c *gin.Context) {
	var param structs.CalorieParam
	if err := c.ShouldBindJSON(&param); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session, _ := middlewares.CurrentSession(c)
	result, err := k.profiles.Save(c.Request.Context(), session.UserID, param)
	if errors.Is(err, calorie.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
