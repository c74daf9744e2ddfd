package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/claude/liftlog/internal/ingest/alpha"
	liftmcp "github.com/claude/liftlog/internal/mcp"
	"github.com/claude/liftlog/internal/sessions"
	"github.com/claude/liftlog/internal/storage"
	"github.com/claude/liftlog/internal/workout"
	"github.com/go-chi/chi/v5"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	archive storage.Archive
	live    *sessions.Registry
	editor  *workout.Editor
	alpha   *alpha.Provider
	whois   WhoIsClient
	log     *slog.Logger
	router  chi.Router
}

// New creates a new Server with all routes configured.
func New(archive storage.Archive, live *sessions.Registry, editor *workout.Editor, alphaProvider *alpha.Provider, log *slog.Logger) *Server {
	s := &Server{
		archive: archive,
		live:    live,
		editor:  editor,
		alpha:   alphaProvider,
		log:     log,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetTailscale makes every request resolve its user through Tailscale WhoIs.
// Without it all requests act as the local dev user.
func (s *Server) SetTailscale(lc WhoIsClient) {
	s.whois = lc
}

// SetMCP mounts an MCP server at /mcp over the streamable HTTP transport.
// Tool calls run as the user identified for the HTTP request.
func (s *Server) SetMCP(m *mcpserver.MCPServer) {
	h := mcpserver.NewStreamableHTTPServer(m,
		mcpserver.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			return liftmcp.WithUserID(ctx, userIDFromContext(r))
		}),
	)
	s.router.With(s.identity).Handle("/mcp", h)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.identity)

		r.Get("/me", s.handleMe)
		r.Get("/catalog", s.handleCatalog)
		r.Get("/convert", s.handleConvert)

		r.Route("/calculator", func(r chi.Router) {
			r.Get("/", s.handleGetCalculator)
			r.Patch("/", s.handlePatchCalculator)
			r.Post("/plates", s.handleAddPlate)
			r.Delete("/plates", s.handleClearPlates)
			r.Delete("/plates/{weight}", s.handleRemovePlate)
			r.Get("/breakdown", s.handleBreakdown)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleStartSession)
			r.Get("/", s.handleListSessions)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Patch("/", s.handlePatchSession)
				r.Delete("/", s.handleDeleteSession)
				r.Post("/end", s.handleEndSession)

				r.Post("/exercises", s.handleAddExercise)
				r.Patch("/exercises/{exerciseID}", s.handlePatchExercise)
				r.Delete("/exercises/{exerciseID}", s.handleDeleteExercise)
				r.Post("/exercises/{exerciseID}/toggle-unit", s.handleToggleUnit)
				r.Post("/exercises/{exerciseID}/convert-unit", s.handleConvertUnit)

				r.Post("/exercises/{exerciseID}/sets", s.handleAddSet)
				r.Patch("/exercises/{exerciseID}/sets/{setID}", s.handlePatchSet)
				r.Delete("/exercises/{exerciseID}/sets/{setID}", s.handleDeleteSet)
			})
		})

		r.Get("/workouts", s.handleQueryWorkouts)
		r.Get("/workouts/{id}", s.handleGetWorkout)
		r.Get("/sets", s.handleQuerySets)
		r.Get("/stats", s.handleStats)

		r.Post("/import/alpha", s.handleAlphaImport)
	})
}
