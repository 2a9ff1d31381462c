package main

import (
	"fmt"
	"io/ioutil"

	"github.com/go-playground/validator/v10"
	"github.com/wampkit/anonauth/wamp"
	"gopkg.in/yaml.v3"
)

// Config is the authd configuration file.
type Config struct {
	NATS struct {
		URL string `yaml:"url" validate:"required"`
		// Queue group shared by authd instances serving the same procedure.
		Queue string `yaml:"queue"`
	} `yaml:"nats"`

	// Procedure is the authenticator procedure URI routers are configured
	// with.
	Procedure wamp.URI `yaml:"procedure" validate:"required"`

	Rules []Rule `yaml:"rules" validate:"required,dive"`

	LogPath string `yaml:"log_path"`
	Debug   bool   `yaml:"debug"`
}

var validate = validator.New()

// LoadConfig reads and validates the configuration file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config file missing: %w", err)
	}
	var config Config
	if err = yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("config parse error: %w", err)
	}
	if err = validate.Struct(&config); err != nil {
		return nil, fmt.Errorf("config invalid: %w", err)
	}
	if !config.Procedure.ValidURI(false) {
		return nil, fmt.Errorf("config invalid: bad procedure URI %q", config.Procedure)
	}
	return &config, nil
}
