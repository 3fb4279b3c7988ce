package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// LoadConfigFile reads a flat TOML or YAML file whose keys are flag names.
func LoadConfigFile(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	values := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(raw, &values)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &values)
	default:
		return nil, fmt.Errorf("unsupported config format %q (use .toml, .yaml or .yml)", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return values, nil
}

// ApplyConfig sets every flag named in values that was not set on the
// command line or through its environment variable.
func ApplyConfig(c *cli.Command, values map[string]any) error {
	known := map[string]bool{}
	for _, f := range c.Flags {
		for _, name := range f.Names() {
			known[name] = true
		}
	}

	for key, value := range values {
		if !known[key] {
			return fmt.Errorf("unknown config key %q", key)
		}
		if key == "config" || c.IsSet(key) {
			continue
		}
		if err := c.Set(key, fmt.Sprint(value)); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

// applyConfigFlag loads the file named by --config, if any, into c.
func applyConfigFlag(c *cli.Command) error {
	path := c.String("config")
	if path == "" {
		return nil
	}
	values, err := LoadConfigFile(path)
	if err != nil {
		return err
	}
	return ApplyConfig(c, values)
}
