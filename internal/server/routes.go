package server

import (
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/geohunt/internal/handler/health"
)

func addRoutes(r chi.Router, a *app) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", handleSwaggerUI())
	r.Mount("/healthz", health.NewHandler(a.logger, a.checks).Routes())

	// Stateless spawn/verify boundary.
	r.Post("/api/game/generate", handleGenerate(a.logger, a.store))
	r.Post("/api/game/verify", handleVerify(a.logger, a.text))
	r.Post("/api/game/verify-photo", handleVerifyPhoto(a.photo))

	r.Get("/api/questions", handleListQuestions(a.logger, a.store))
	r.Get("/api/questions/{id}", handleGetQuestion(a.logger, a.store))

	r.Get("/api/checkpoints/custom", handleListCustomCheckpoints(a.logger, a.store))
	r.Post("/api/checkpoints/custom", handleCreateCustomCheckpoint(a.logger, a.store))

	r.Get("/api/settings", handleGetSettings(a.logger, a.store))
	r.Put("/api/settings", handlePutSettings(a.logger, a.store))

	r.Route("/api/players/{player}", func(r chi.Router) {
		r.Use(playerMiddleware)
		r.Get("/session", handleGetSession(a.logger, a.games, a.positions))
		r.Post("/session/start", handleStartSession(a.logger, a.games, a.store, a.positions))
		r.Post("/session/collect", handleCollect(a.logger, a.games))
		r.Post("/session/close", handleCloseSession(a.games))
		r.Put("/position", handlePutPosition(a.logger, a.games, a.positions))
		r.Get("/position/ws", handlePositionWS(a.logger, a.games, a.positions))
		r.Get("/events", handleEvents(a.broker, a.games))
		r.Get("/stats", handleStats(a.logger, a.store, a.now))
	})

	r.Post("/api/admin/login", handleAdminLogin(a.logger, a.store))
	r.Post("/api/admin/logout", handleAdminLogout(a.store))
	r.Get("/api/admin/me", handleAdminMe(a.store))

	r.Route("/api/admin/questions", func(r chi.Router) {
		r.Use(adminAuthMiddleware(a.store))
		r.Get("/", handleAdminListQuestions(a.logger, a.store))
		r.Post("/", handleAdminCreateQuestion(a.logger, a.store))
		r.Delete("/{id}", handleAdminDeleteQuestion(a.logger, a.store))
	})

	r.With(adminAuthMiddleware(a.store)).
		Delete("/api/admin/checkpoints/{id}", handleAdminDeleteCustomCheckpoint(a.logger, a.store))

	if a.spaDir != "" {
		if info, err := os.Stat(a.spaDir); err == nil && info.IsDir() {
			a.logger.Info("serving SPA", "dir", a.spaDir)
			r.NotFound(handleSPA(a.spaDir))
		}
	}
}
