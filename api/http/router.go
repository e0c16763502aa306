package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/animelist/api/http/handlers"
	"github.com/artem13815/animelist/pkg/security/jwt"
)

// Register wires all HTTP routes onto given Fiber app. authMW must populate
// the user id local (see jwt.NewAuthMiddleware).
func Register(app *fiber.App, auth *handlers.AuthHandler, health *handlers.HealthHandler, animes *handlers.AnimeHandler, authMW fiber.Handler) {
	// Health and readiness endpoints for probes/monitoring
	app.Get("/health", health.Health)
	app.Get("/ready", health.Ready)

	app.Post("/signup", auth.Signup)
	app.Post("/login", auth.Login)
	app.Post("/logout", authMW, auth.Logout)

	// every user-scoped route checks the token subject against :userId
	owner := jwt.RequireOwner("userId")
	u := app.Group("/users/:userId")
	u.Get("/animes", authMW, owner, animes.List)
	u.Post("/animes", authMW, owner, animes.Add)
	u.Put("/animes/:animeId", authMW, owner, animes.UpdateProgress)
	u.Delete("/animes/:animeId", authMW, owner, animes.Remove)
}
