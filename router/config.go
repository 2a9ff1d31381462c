package router

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/wampkit/anonauth/router/auth"
	"github.com/wampkit/anonauth/wamp"
	"gopkg.in/yaml.v3"
)

const defaultHelloTimeout = 5 * time.Second

// Config configures the router with realms and their authentication.
type Config struct {
	// RealmConfigs defines the configurations for realms within the router.
	RealmConfigs []*RealmConfig `json:"realms" yaml:"realms" validate:"required,dive,required"`

	// HelloTimeout bounds how long a handshake may wait for a dynamic
	// authenticator.  Defaults to 5s.
	HelloTimeout Duration `json:"hello_timeout" yaml:"hello_timeout"`

	// Enable debug logging of handshakes.
	Debug bool `json:"debug" yaml:"debug"`
}

// RealmConfig configures a single realm in the router.
type RealmConfig struct {
	// URI that identifies the realm.
	URI wamp.URI `json:"uri" yaml:"uri" validate:"required"`
	// Enforce strict URI format validation of the realm URI.
	StrictURI bool `json:"strict_uri" yaml:"strict_uri"`
	// Roles that exist on the realm.  A principal is only accepted with one
	// of these roles.
	Roles []string `json:"roles" yaml:"roles" validate:"dive,required"`
	// Anonymous enables the "anonymous" authmethod.
	Anonymous *auth.Config `json:"anonymous,omitempty" yaml:"anonymous,omitempty"`
	// AnonymousProxy enables the "anonymous-proxy" authmethod.  It is only
	// offered on attachments marked as coming from a trusted proxy.
	AnonymousProxy *auth.Config `json:"anonymous_proxy,omitempty" yaml:"anonymous_proxy,omitempty"`
}

// Duration is a time.Duration read from strings such as "5s".
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration as a string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

var validate = validator.New()

// Validate checks the structure of the configuration.  Authentication
// configurations are checked when the router creates their methods.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return configError{Err: err}
	}
	for _, rc := range c.RealmConfigs {
		if !rc.URI.ValidURI(rc.StrictURI) {
			return configError{Err: fmt.Errorf(
				"invalid realm URI %v (URI strict checking %v)", rc.URI, rc.StrictURI)}
		}
	}
	return nil
}

// LoadConfig reads a router configuration from a YAML or JSON file, chosen
// by the file extension.
func LoadConfig(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var config Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &config)
	default:
		err = yaml.Unmarshal(data, &config)
	}
	if err != nil {
		return nil, fmt.Errorf("config parse error: %w", err)
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

type configError struct {
	Err error
}

func (e configError) Error() string {
	return fmt.Sprintf("configuration error: %v", e.Err)
}

func (e configError) Unwrap() error {
	return e.Err
}
