package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hansol-dev/leaguedesk/handlers"
	"github.com/hansol-dev/leaguedesk/middleware"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Team         *handlers.TeamHandler
	Player       *handlers.PlayerHandler
	Record       *handlers.RecordHandler
	Registration *handlers.RegistrationHandler
	Live         *handlers.LiveHandler
}

// InitRoutes wires the HTTP surface: reads are public, mutations sit behind
// the session gate.
func InitRoutes(h Handlers, jwtSecret []byte) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Post("/auth/signup", h.Auth.Register)
	router.Post("/auth/signin", h.Auth.Login)

	router.Get("/ws", h.Live.Subscribe)

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", h.Team.ListTeams)
		r.Get("/categories", h.Team.ListCategories)
		r.Get("/{teamID}", h.Team.GetTeam)
		r.Get("/{teamID}/detail", h.Player.GetTeamDetail)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))

			r.Post("/", h.Team.CreateTeam)
			r.Patch("/{teamID}", h.Team.UpdateTeamField)
			r.Delete("/{teamID}", h.Team.DeleteTeam)
		})
	})

	router.Route("/players", func(r chi.Router) {
		r.Get("/", h.Player.ListPlayers)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))

			r.Post("/", h.Player.CreatePlayer)
			r.Put("/{playerID}", h.Player.UpdatePlayer)
			r.Delete("/{playerID}", h.Player.DeletePlayer)
		})
	})

	router.Route("/records", func(r chi.Router) {
		r.Get("/", h.Record.ListRecords)
		r.Get("/titles", h.Registration.ListGameTitles)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))

			r.Post("/", h.Registration.RegisterGame)
			r.Post("/fixture", h.Registration.RegisterFixture)
			r.Patch("/{recordID}", h.Record.SaveCell)
			r.Post("/{recordID}/photo", h.Record.AttachPhoto)
			r.Delete("/{recordID}", h.Record.DeleteRecord)
		})
	})

	return router
}
