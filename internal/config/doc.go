// Package config loads, normalizes, and validates album proxy configuration.
//
// Values come from repository defaults, then an optional TOML file, then
// environment variables (IMMICH_URL, IMMICH_API_KEY and friends), so a
// container deployment can run without a file at all. The Config type is
// built once in main and passed down; nothing reads the environment later.
package config
