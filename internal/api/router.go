package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// Health check (no auth required)
	r.Get("/health", s.handleHealth)

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Token endpoints carry their own credentials.
		r.Post("/auth/tokens", s.handleCreateTokens)
		r.Get("/auth/refresh", s.handleRefresh)

		// Liveness ping (no auth required)
		r.Get("/network/ping", s.handlePing)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/network/internet", s.handleInternet)
			r.Get("/network/websocket", s.handleWebsocket)

			r.Route("/skills", func(r chi.Router) {
				r.Get("/", s.handleListSkills)
				r.Put("/update", s.handleUpdateSkills)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/settings", s.handleSkillSettings)
					r.Put("/activate", s.handleActivateSkill)
					r.Put("/deactivate", s.handleDeactivateSkill)
				})
			})

			r.Route("/system", func(r chi.Router) {
				r.Get("/info", s.handleSystemInfo)
				r.Get("/config", s.handleGetConfig)
				r.Put("/config", s.handleReloadConfig)
				r.Put("/log", s.handleSetLogLevel)
				r.Post("/sleep", s.handleSleep)
				r.Get("/sleep", s.handleSleepStatus)
				r.Post("/wakeup", s.handleWakeUp)
				r.Post("/cache", s.handleClearCache)
			})

			r.Route("/voice", func(r chi.Router) {
				r.Post("/speech", s.handleSpeech)
				r.Delete("/speech", s.handleStopSpeech)
				r.Put("/microphone/mute", s.handleMuteMicrophone)
				r.Put("/microphone/unmute", s.handleUnmuteMicrophone)
				r.Put("/listen", s.handleListen)
			})
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
