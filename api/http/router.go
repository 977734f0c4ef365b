package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/ats/api/http/handlers"
)

// Register wires all HTTP routes onto given Fiber app.
func Register(
	app *fiber.App,
	authMW fiber.Handler,
	auth *handlers.AuthHandler,
	users *handlers.UserHandler,
	health *handlers.HealthHandler,
	listings *handlers.ListingHandler,
	applications *handlers.ApplicationHandler,
	screens *handlers.ScreenHandler,
	resumes *handlers.ResumeHandler,
	files *handlers.FileHandler,
) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", health.Health)
	v1.Get("/ready", health.Ready)

	a := v1.Group("/auth")
	a.Post("/register", auth.Register)
	a.Post("/login", auth.Login)
	a.Post("/logout", authMW, auth.Logout)

	u := v1.Group("/users", authMW)
	u.Get("/me", users.Me)
	u.Patch("/me", users.UpdateMe)

	// Просмотр вакансий открыт, публикация и парсинг требуют токен.
	jobs := v1.Group("/jobs/listings")
	jobs.Get("/", listings.List)
	jobs.Post("/", authMW, listings.Create)
	jobs.Post("/parse", authMW, listings.Parse)
	jobs.Post("/parse-file", authMW, listings.ParseFile)
	jobs.Get("/:id", listings.GetByID)
	jobs.Delete("/:id", authMW, listings.Delete)

	apps := v1.Group("/applications", authMW)
	apps.Post("/", applications.Submit)
	apps.Get("/", applications.List)
	apps.Get("/:id", applications.GetByID)
	apps.Put("/:id/status", applications.UpdateStatus)
	apps.Post("/:id/withdraw", applications.Withdraw)

	sc := v1.Group("/screens", authMW)
	sc.Post("/", screens.Create)
	sc.Get("/", screens.List)
	sc.Put("/application/:id", screens.SaveManual)
	sc.Get("/application/:id/comparison", screens.Compare)
	sc.Get("/:id", screens.GetByID)

	rs := v1.Group("/resumes", authMW)
	rs.Post("/", resumes.Upload)
	rs.Get("/", resumes.List)
	rs.Get("/:id", resumes.GetByID)
	rs.Delete("/:id", resumes.Delete)

	f := v1.Group("/files", authMW)
	f.Get("/:id", files.Download)
}
