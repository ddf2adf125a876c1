package endpoints

import (
	"net/http"

	"github.com/smokinadorabulls/kennel-cms/pkg/server"
)

// StatusResponse is the body of GET /
type StatusResponse struct {
	Status string `json:"status"`
}

// RegisterStatusEndpoints registers the status endpoint (no permission required)
func RegisterStatusEndpoints(s *server.Server) {
	s.Router.HandleFunc("/", handleStatus(s)).Methods("GET")
}

func handleStatus(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if pinger, ok := s.Store.(server.Pinger); ok {
			if err := pinger.Ping(r.Context()); err != nil {
				s.Logger.Error("database connectivity check failed", "error", err)
				respondWithError(w, http.StatusServiceUnavailable, "database connectivity check failed")
				return
			}
		}
		respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
	}
}
