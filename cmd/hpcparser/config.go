package main

import (
	"github.com/kbukum/hpcparser/config"
	"github.com/kbukum/hpcparser/engine"
	"github.com/kbukum/hpcparser/errors"
	"github.com/kbukum/hpcparser/observability"
	"github.com/kbukum/hpcparser/sink"
	"github.com/kbukum/hpcparser/source"
	"github.com/kbukum/hpcparser/validation"
)

const serviceName = "hpcparser"

// AppConfig is the full configuration of the hpcparser binary.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Engine    engine.Config        `yaml:"engine" mapstructure:"engine"`
	Source    source.Config        `yaml:"source" mapstructure:"source"`
	Sink      sink.Config          `yaml:"sink" mapstructure:"sink"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults fills every section.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Engine.ApplyDefaults()
	c.Source.ApplyDefaults()
	c.Sink.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
}

// Validate checks the base service fields, then struct tags of every section.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return errors.Validation(err.Error())
	}
	if err := validation.Validate(c); err != nil {
		return err
	}
	return c.Source.Validate()
}
