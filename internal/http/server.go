package httpapp

import (
	"net/http"
	"time"

	"github.com/alphabot-ai/remarks/internal/auth"
	"github.com/alphabot-ai/remarks/internal/comment"
	"github.com/alphabot-ai/remarks/internal/config"
	"github.com/alphabot-ai/remarks/internal/rate"

	_ "github.com/alphabot-ai/remarks/docs" // swagger docs

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"
)

type Server struct {
	comments *comment.Service
	auth     *auth.Service
	limiter  rate.Limiter
	cfg      config.Config
	log      logrus.FieldLogger
	router   chi.Router
}

func NewServer(comments *comment.Service, authSvc *auth.Service, limiter rate.Limiter, cfg config.Config, log logrus.FieldLogger) *Server {
	s := &Server{
		comments: comments,
		auth:     authSvc,
		limiter:  limiter,
		cfg:      cfg,
		log:      log,
	}
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.logRequests)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Location", "Retry-After", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not found", Kind: "not_found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/openapi.json", s.serveOpenAPIJSON)

		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit("auth", s.cfg.RateLimits.AuthPerMinute))
			r.Post("/auth", s.handleAuth)
			r.Post("/register", s.handleRegister)
		})

		r.Get("/comments", s.handleListComments)
		r.Get("/comments/{commentId}", s.handleGetComment)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/logout", s.handleLogout)
			r.Get("/me", s.handleMe)
			r.Put("/me", s.handleUpdateMe)
			r.Patch("/changePassword", s.handleChangePassword)
			r.Get("/comments/{commentId}/history", s.handleCommentHistory)

			r.Group(func(r chi.Router) {
				r.Use(s.rateLimit("comment", s.cfg.RateLimits.CommentPerMinute))
				r.Post("/comments", s.handleCreateComment)
				r.Put("/comments/{commentId}", s.handleUpdateComment)
				r.Delete("/comments", s.handleDeleteAllComments)
				r.Delete("/comments/{commentId}", s.handleDeleteComment)
			})
		})
	})
	return r
}

// handleHealth godoc
//
//	@Summary	Health check
//	@Tags		Meta
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Router		/healthz [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}

func (s *Server) serveOpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write([]byte(doc))
}
