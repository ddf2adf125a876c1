// Command kennelctl runs the kennel site's content server.
//
// The server exposes the read-only public content API (puppies, studs,
// testimonials, hero slides, site settings and the about page). On startup
// it migrates the database and provisions the public role's permissions and
// the default content, then starts listening.
//
// # Quick Start
//
//	# Run database migrations (also creates the public and authenticated roles)
//	kennelctl db migrate
//
//	# Preview what provisioning would do against an empty store
//	kennelctl seed --memory
//
//	# Start the server
//	kennelctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - KENNEL_SEED_ENABLED: run the provisioner on server start (default: true)
//   - KENNEL_SEED_DATA_DIR: directory with YAML files overriding the built-in seed data
//   - KENNEL_PUBLIC_ROLE_TYPE: role receiving the public permissions (default: public)
//   - KENNEL_FEATURED_PUPPIES: puppies featured on the about page (default: 3)
//   - KENNEL_LOG_LEVEL: Log level (debug, info, warn, error)
//   - KENNEL_LOG_FORMAT: Log format (text, json)
//   - KENNEL_AUDIT_ENABLED: emit audit events (default: true)
//   - KENNEL_AUDIT_DATABASE_URL: also persist audit events to this database
//   - PORT: Server port (default: 1337)
package main
