package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/citymap/pkg/merge"
)

// Load loads configuration with priority: defaults < files < flags.
// Files are layered in order: the user config directory, the working
// directory, then the --config path. Later files win key by key.
func Load() (*Config, error) {
	paths := findConfigFiles()
	if p := ConfigPath(); p != "" {
		paths = append(paths, p)
	}

	cfg, err := LoadFiles(paths...)
	if err != nil {
		return nil, err
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFiles layers the given files over the defaults.
func LoadFiles(paths ...string) (*Config, error) {
	base, err := toTree(Default())
	if err != nil {
		return nil, err
	}

	layers := make([]map[string]any, 0, len(paths))
	for _, path := range paths {
		tree, err := readTree(path)
		if err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
		layers = append(layers, tree)
	}

	cfg := &Config{}
	if err := decodeTree(merge.Trees(base, layers...), cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// findConfigFiles returns the existing config files in standard locations,
// lowest priority first.
func findConfigFiles() []string {
	var found []string
	for _, dir := range []string{ConfigDir(), "."} {
		for _, name := range []string{"config.yaml", "config.yml", "config.toml"} {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				found = append(found, path)
			}
		}
	}
	return found
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "CityMap")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "CityMap")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "citymap")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "citymap")
	}
}

type format int

const (
	formatYAML format = iota
	formatTOML
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".toml":
		return formatTOML, nil
	default:
		return 0, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

// readTree decodes a YAML or TOML file into a generic tree.
func readTree(path string) (map[string]any, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	tree := map[string]any{}
	switch f {
	case formatTOML:
		err = toml.Unmarshal(data, &tree)
	default:
		err = yaml.Unmarshal(data, &tree)
	}
	if err != nil {
		return nil, err
	}
	return tree, nil
}

func toTree(v any) (map[string]any, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, err
	}
	tree := map[string]any{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// decodeTree decodes a tree into out, rejecting keys out does not have.
func decodeTree(tree map[string]any, out any) error {
	data, err := yaml.Marshal(tree)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
