// Package validation checks configuration and command-line input.
//
// Struct tag validation (go-playground/validator) covers configuration
// structs; field names in messages follow the mapstructure tags so they read
// like configuration keys:
//
//	type EngineConfig struct {
//	    Workers int `mapstructure:"workers" validate:"gte=0"`
//	}
//	err := validation.Validate(cfg) // "engine.workers: must be at least 0"
//
// The fluent Validator collects errors for values that are not structs, such
// as positional arguments:
//
//	err := validation.New().
//	    Required("input_path", args[0]).
//	    OneOf("format", format, sink.Formats()).
//	    Validate()
package validation
