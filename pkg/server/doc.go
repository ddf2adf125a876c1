// Package server provides the HTTP server for the public content API.
//
// Routing uses gorilla/mux; every request passes through gorilla/handlers
// access logging and panic recovery.
//
// # Server Setup
//
//	srv := server.NewServer(store, content.Schema(), "0.0.0.0", "1337")
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    return err
//	}
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//   - GET / - status
//   - GET /api/{uid} - list a collection type, or read a single type
//   - GET /api/{uid}/{documentId} - read one document
//
// Content reads are allowed only when the public role holds the matching
// "<uid>.find" or "<uid>.findOne" permission.
package server
