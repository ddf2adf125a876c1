package server

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/smokinadorabulls/kennel-cms/pkg/document"
)

// Pinger is implemented by stores that can report connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	Router *mux.Router
	Store  document.Store
	Schema document.Schema
	// PublicRoleType is the role whose permissions gate anonymous reads
	PublicRoleType string
	Logger         *slog.Logger
	// AccessLog receives Apache combined-format request lines
	AccessLog io.Writer
	srv       *http.Server
}

func NewServer(
	store document.Store,
	schema document.Schema,
	host string,
	port string,
) *Server {
	router := mux.NewRouter().UseEncodedPath()
	s := &Server{
		Router:         router,
		Store:          store,
		Schema:         schema,
		PublicRoleType: "public",
		Logger:         slog.Default(),
		AccessLog:      os.Stdout,
	}
	s.srv = &http.Server{
		Addr:         net.JoinHostPort(host, port),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	return s
}

// Handler returns the router wrapped in access logging and panic recovery
func (s *Server) Handler() http.Handler {
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(s.Logger.Handler(), slog.LevelError)),
	)
	return handlers.LoggingHandler(s.AccessLog, recovery(s.Router))
}

// Addr is the address the server listens on
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.srv.Handler = s.Handler()
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
