package config

import (
	"bytes"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvAPIURL overrides the GraphQL endpoint.
const EnvAPIURL = "HARDCOVER_API_URL"

// Config is the configuration of a sync. It can be read from a YAML file;
// the command line flags take precedence over it.
type Config struct {
	Version string `yaml:"version" validate:"eq=v1"`

	// Endpoint is the GraphQL endpoint URL.
	Endpoint string `yaml:"endpoint" validate:"required,url"`

	// Filename is the name of the file written inside the backup directory.
	Filename string `yaml:"filename" validate:"required,ne=.,ne=..,excludesall=/\\"`
}

// Default returns a copy of the default configuration.
func Default() *Config {
	c := defaults
	return &c
}

type versionOnly struct {
	Version string `yaml:"version"`
}

// ParseYAML reads data on top of the defaults. Unknown keys are rejected.
func ParseYAML(data []byte) (*Config, error) {
	var v versionOnly
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal version")
	}
	switch v.Version {
	case "v1", "":
	default:
		return nil, errors.Errorf("unknown version: %s", v.Version)
	}

	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "failed to unmarshal yaml")
	}
	cfg.Version = "v1"

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads and parses the YAML file at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	cfg, err := ParseYAML(data)
	return cfg, errors.WithMessagef(err, "invalid config file %s", path)
}

// ApplyEnv overrides fields from the environment. lookup is usually
// [os.LookupEnv].
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if url, ok := lookup(EnvAPIURL); ok && url != "" {
		c.Endpoint = url
	}
}

func (c *Config) Validate() error {
	return errors.Wrap(validator.New().Struct(c), "failed to validate config")
}
