// Package config handles configuration loading, parsing, and validation
// from environment variables, an optional .env file and an optional
// config.yaml. Settings are grouped by the component that consumes them
// (server, database, auth, review) and validated before use.
package config
