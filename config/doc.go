// Package config loads configuration for the adapters binary.
//
// LoadConfig reads a config.yml and a .env file, found in the usual places
// or given explicitly, and decodes them with Viper into any struct tagged
// for mapstructure. Every leaf key of that struct can be overridden from
// the environment. Load does this for Config with the ADAPTERS prefix, so
// ADAPTERS_SERVER_PORT=9090 sets server.port and
// ADAPTERS_DECLARATIONS_DIRS=/etc/adapters,./local sets declarations.dirs.
package config
