package router

import (
	"meal-tracker/controllers/account"
	"meal-tracker/controllers/calories"
	"meal-tracker/controllers/check"
	"meal-tracker/controllers/meals"
	"meal-tracker/controllers/readProbe"
	"meal-tracker/middlewares"

	"github.com/gin-gonic/gin"
)

// Controllers groups the handlers mounted by Router.
type Controllers struct {
	Resolver middlewares.Resolver
	Account  *account.Controller
	Meals    *meals.Controller
	Calories *calories.Controller
	Check    *check.Controller
}

func Router(ctl Controllers) *gin.Engine {
	route := gin.Default()

	route.GET("/read-probe", readProbe.Probe)
	route.GET("/check-live", ctl.Check.CheckAlive)

	requireAuth := middlewares.AuthMiddleware(ctl.Resolver)

	authGroup := route.Group("/auth")
	authGroup.POST("/register", ctl.Account.Register)
	authGroup.POST("/login", ctl.Account.Login)
	authGroup.POST("/logout", requireAuth, ctl.Account.Logout)

	today := route.Group("/meals/today", middlewares.OptionalAuthMiddleware(ctl.Resolver))
	today.GET("", ctl.Meals.Today)
	today.POST("/:meal/toggle", ctl.Meals.Toggle)
	today.PUT("/:meal/note", ctl.Meals.Note)

	mealGroup := route.Group("/meals", requireAuth)
	mealGroup.GET("/day/:date", ctl.Meals.Day)
	mealGroup.GET("/history", ctl.Meals.History)
	mealGroup.GET("/calendar", ctl.Meals.Calendar)
	mealGroup.POST("/sync", ctl.Meals.Sync)

	route.POST("/calories/calculate", ctl.Calories.Calculate)
	profile := route.Group("/profile", requireAuth)
	profile.GET("/calories", ctl.Calories.Profile)
	profile.PUT("/calories", ctl.Calories.SaveProfile)

	return route
}
