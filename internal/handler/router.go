package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"cakeshop/internal/app"
	"cakeshop/internal/mw"
	"cakeshop/internal/service"
)

func NewRouter(shop *app.Shop, authSvc *service.AuthService, jwtSecret string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Storefront
	r.Get("/", IndexHandler())
	r.Post("/order", PlaceOrderHandler(shop))
	r.Get("/thanks", ThanksHandler(shop))
	r.Get("/healthz", HealthHandler())

	// Staff
	r.Get("/admin/login", LoginPageHandler())
	r.Post("/admin/login", LoginHandler(authSvc, jwtSecret))
	r.Group(func(r chi.Router) {
		r.Use(mw.AdminAuth(authSvc, jwtSecret))

		r.Get("/admin", AdminHandler(shop))
		r.Post("/admin/actuator/pause", PauseMachineHandler(shop))
		r.Post("/admin/actuator/stop", StopMachineHandler(shop))
	})

	// Read-only status API for boards on other origins
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))

		r.Get("/orders", ListOrdersHandler(shop))
		r.Get("/orders/{id}", GetOrderHandler(shop))
		r.Get("/worker", WorkerStatusHandler(shop))
	})

	return r
}
