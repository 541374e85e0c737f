package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/markdave123-py/Conversa/internal/api/handlers"
	"github.com/markdave123-py/Conversa/internal/config"
	db "github.com/markdave123-py/Conversa/internal/core/database"
	"github.com/markdave123-py/Conversa/internal/core/ingest"
	"github.com/markdave123-py/Conversa/internal/core/objectclient"
	"github.com/markdave123-py/Conversa/internal/core/orchestrator"
	"github.com/markdave123-py/Conversa/internal/core/vectorindex"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
	log        *zap.Logger
}

// NewServer builds and wires all routes.
func NewServer(
	cfg *config.Config,
	dbClient db.DbClient,
	objClient objectclient.ObjectClient,
	pipeline *ingest.Pipeline,
	index vectorindex.Index,
	orch *orchestrator.Orchestrator,
	log *zap.Logger,
) *Server {
	convHandler := handlers.NewConversationHandler(dbClient, log)
	docHandler := handlers.NewDocumentHandler(dbClient, objClient, pipeline, index, log)
	chatHandler := handlers.NewChatHandler(orch, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api", func(api chi.Router) {
		api.Route("/conversations", func(convs chi.Router) {
			convs.Post("/", convHandler.CreateConversation)
			convs.Get("/", convHandler.ListConversations)

			convs.Route("/{conversationID}", func(conv chi.Router) {
				conv.Get("/messages", convHandler.ListMessages)

				conv.Post("/documents", docHandler.UploadDocuments)
				conv.Get("/documents", docHandler.ListDocuments)
				conv.Delete("/documents/{documentID}", docHandler.DeleteDocument)

				conv.Post("/query", chatHandler.QueryConversation)
			})
		})
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv, log: log}
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.log.Info("http server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down http server")
	return s.httpServer.Shutdown(ctx)
}
