package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskvault/backend/api/handler"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	User    *apiHandler.UserHandler
	Profile *apiHandler.ProfileHandler
	Task    *apiHandler.TaskHandler
	Health  *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Public routes
	r.POST("/users/create", handlers.User.Create)
	r.POST("/auth/login", handlers.Auth.Login)

	// Protected routes
	r.GET("/profile", authMiddleware(handlers.Profile.Get))

	r.GET("/tasks", authMiddleware(handlers.Task.List))
	r.POST("/tasks", authMiddleware(handlers.Task.Create))
	r.GET("/tasks/{id}", authMiddleware(handlers.Task.Get))
	r.PUT("/tasks/{id}", authMiddleware(handlers.Task.Update))

	return r
}
