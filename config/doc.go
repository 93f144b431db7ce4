// Package config provides configuration loading and validation for hpcparser.
//
// It uses Viper to load configuration from a YAML (or JSON/TOML) file, an
// optional .env file, and environment variables. When an env prefix is set,
// only variables carrying that prefix are bound, with the prefix stripped:
// HPCPARSER_ENGINE_WORKERS=8 sets engine.workers.
//
// # Usage
//
//	var cfg AppConfig
//	err := config.LoadConfig("hpcparser", &cfg,
//	    config.WithConfigFile(path),
//	    config.WithEnvPrefix("HPCPARSER"),
//	)
package config
