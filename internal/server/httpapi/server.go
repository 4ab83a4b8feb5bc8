// Package httpapi exposes the REST surface over chi. Handlers own transport
// concerns only: decoding, parameter parsing, status mapping. Authorization
// and business rules live in the services layer and are never duplicated
// here.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ShrinivasInamdar/Hackathon-2025/internal/logging"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/config"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	address        string
	logger         logging.Logger
	users          *services.UserService
	documents      *services.DocumentService
	workflows      *services.WorkflowService
	audits         *services.AuditService
	jwtSecret      []byte
	maxUploadBytes int64
}

func NewServer(cfg *config.Config, l logging.Logger, us *services.UserService, ds *services.DocumentService, ws *services.WorkflowService, as *services.AuditService) *Server {
	return &Server{
		address:        cfg.EndpointAddrHTTP,
		logger:         l.With("module", "http_server"),
		users:          us,
		documents:      ds,
		workflows:      ws,
		audits:         as,
		jwtSecret:      []byte(cfg.SecretKey),
		maxUploadBytes: cfg.MaxUploadBytes,
	}
}

// Router assembles the full route table. Everything except the token
// endpoints sits behind the bearer-token middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/api/token", s.login)
	r.Post("/api/token/refresh", s.refreshToken)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Post("/api/admin/users", s.createUser)
		r.Delete("/api/admin/users/{userID}", s.deleteUser)

		r.Post("/api/documents", s.createDocument)
		r.Get("/api/documents", s.listDocuments)
		r.Get("/api/documents/{documentID}", s.getDocument)
		r.Put("/api/documents/{documentID}", s.updateDocument)
		r.Delete("/api/documents/{documentID}", s.deleteDocument)
		r.Get("/api/documents/{documentID}/download", s.downloadDocument)
		r.Post("/api/documents/{documentID}/encrypt", s.encryptDocument)
		r.Post("/api/documents/{documentID}/decrypt", s.decryptDocument)
		r.Post("/api/documents/{documentID}/share", s.shareDocument)

		r.Post("/api/workflows", s.createWorkflow)
		r.Get("/api/workflows", s.listWorkflows)
		r.Get("/api/workflows/{workflowID}", s.getWorkflow)
		r.Put("/api/workflows/{workflowID}", s.updateWorkflow)
		r.Delete("/api/workflows/{workflowID}", s.deleteWorkflow)
		r.Put("/api/workflows/{workflowID}/steps/{stepID}", s.updateWorkflowStep)

		r.Get("/api/audit/trail", s.auditTrail)

		r.Get("/api/dashboard/stats", s.dashboardStats)
		r.Get("/api/dashboard/recent-documents", s.recentDocuments)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.address, Handler: s.Router()}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
