// Package config handles configuration loading for jacksond.
//
// # Configuration File
//
// Configuration is YAML, loaded from the path in the JACKSON_CONFIG
// environment variable or ./jacksond.yaml.
//
// # Environment Variable Expansion
//
// Values can reference environment variables with ${VAR_NAME} or $VAR_NAME:
//
//	auth:
//	  jwt_secret: "${JACKSON_JWT_SECRET}"
//
// # Sections
//
//	server:
//	  http_addr: "0.0.0.0:5225"
//
//	database:
//	  path: "/var/lib/jackson/jackson.db"
//
//	license:
//	  key: "${BOXYHQ_LICENSE_KEY}"
//	  valid_keys: ["dev-license"]
//
//	auth:
//	  jwt_secret: "${JACKSON_JWT_SECRET}"
//
//	audit:
//	  enabled: true
//	  buffer: 256
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Validation
//
// Load() requires server.http_addr, database.path, and auth.jwt_secret.
package config
