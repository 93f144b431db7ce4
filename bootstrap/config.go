package bootstrap

import (
	"github.com/kbukum/hpcparser/config"
)

// Config is the interface constraint for application configuration types.
// Any struct that embeds config.ServiceConfig satisfies it via promoted
// methods; embedding structs usually override ApplyDefaults and Validate to
// cover their own sections.
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Engine engine.Config `yaml:"engine" mapstructure:"engine"`
//	}
//
//	app, err := bootstrap.NewApp[*AppConfig](&cfg)
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
