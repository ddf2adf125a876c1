// Package config provides configuration management for kennel-cms.
//
// Settings are read from $KENNEL_CONFIG_PATH/kennel.yml (default
// /etc/kennel/config/kennel.yml) and then from the environment, which
// wins. Every attribute remembers where its value came from, as shown by
// "kennelctl configuration show".
//
// # Key Configuration Options
//
//   - DATABASE_URL: Database connection
//   - KENNEL_SEED_ENABLED: Run the provisioner on server start
//   - KENNEL_SEED_DATA_DIR: Directory replacing the built-in seed files
//   - KENNEL_PUBLIC_ROLE_TYPE: Role granted public read access
//   - KENNEL_FEATURED_PUPPIES: Puppies featured on the about page
//   - KENNEL_LOG_LEVEL, KENNEL_LOG_FORMAT: Logging verbosity and format
package config
