package diag

import (
	"os"

	"github.com/BurntSushi/toml"
)

// AllowEmptyGuards is the one named boolean option spec §6 defines.
const AllowEmptyGuards = "allow-empty-guards"

// Config is the open-ended bag of named booleans spec §6 calls for
// ("Configuration options (boolean, keyed by name)"), rather than a fixed
// struct: new options can be added without a Config shape change.
type Config struct {
	Options map[string]bool `toml:"options"`
}

// NewConfig builds an empty Config, with every known option defaulted to
// false (which is the correct default for allow-empty-guards: empty guards
// warn unless explicitly allowed).
func NewConfig() *Config {
	return &Config{Options: make(map[string]bool)}
}

// Get returns the value of the named option, false if never set.
func (c *Config) Get(name string) bool {
	return c.Options[name]
}

// Set assigns the named option.
func (c *Config) Set(name string, value bool) {
	if c.Options == nil {
		c.Options = make(map[string]bool)
	}
	c.Options[name] = value
}

// LoadConfigFile reads and parses a TOML config file, the same way
// dekarrin-tunaq's tqw package unmarshals its save files via
// toml.Unmarshal(data, &target).
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := NewConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
