// Package config handles loading and parsing of configuration from YAML files
// and environment variables. It defines the application configuration structure
// including the target base URL, check tuning, report paths, and endpoint list.
package config
