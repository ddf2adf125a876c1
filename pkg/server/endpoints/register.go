package endpoints

import (
	"github.com/smokinadorabulls/kennel-cms/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterContentEndpoints(srv)
}
