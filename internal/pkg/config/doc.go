// Package config holds the validated settings structs of the engine, the logger and the keyring database,
// and loads the REST API configuration from YAML and the environment with viper.
package config
