// Package config loads the project configuration file and the site
// data tree.
package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"

	"github.com/gorgon-dev/gorgon/common/maps"
)

// Config is the project configuration, read from gorgon.yaml or
// gorgon.toml at the project root. Missing files fall back to Default.
type Config struct {
	OutputDir   string   `mapstructure:"output_dir"`
	Port        int      `mapstructure:"port"`
	RootURL     string   `mapstructure:"root_url"`
	Ignore      []string `mapstructure:"ignore"`
	EnableEmoji bool     `mapstructure:"enable_emoji"`
}

func Default() Config {
	return Config{
		OutputDir: "output",
		Port:      4000,
	}
}

// Load reads the project config, preferring YAML over TOML when both
// exist. A missing config is not an error; a malformed one is.
func Load(fs afero.Fs, projectRoot string) (Config, error) {
	cfg := Default()

	for _, name := range []string{"gorgon.yaml", "gorgon.toml"} {
		p := filepath.Join(projectRoot, name)
		exists, err := afero.Exists(fs, p)
		if err != nil || !exists {
			continue
		}
		raw, err := afero.ReadFile(fs, p)
		if err != nil {
			return cfg, fmt.Errorf("read %s: %w", name, err)
		}

		var parsed map[string]any
		if strings.HasSuffix(name, ".toml") {
			err = toml.Unmarshal(raw, &parsed)
		} else {
			err = yamlToStringMap(raw, &parsed)
		}
		if err != nil {
			return cfg, fmt.Errorf("parse %s: %w", name, err)
		}

		if err := decode(parsed, &cfg); err != nil {
			return cfg, fmt.Errorf("decode %s: %w", name, err)
		}
		return cfg, nil
	}
	return cfg, nil
}

// LoadData reads data/*.yaml into one Params tree. site.yaml merges at
// the top level; any other file is keyed by its stem. Non-mapping
// files are skipped.
func LoadData(fs afero.Fs, projectRoot string) (maps.Params, error) {
	data := maps.Params{}
	dataDir := filepath.Join(projectRoot, "data")

	exists, err := afero.DirExists(fs, dataDir)
	if err != nil || !exists {
		return data, err
	}

	entries, err := afero.ReadDir(fs, dataDir)
	if err != nil {
		return data, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && (strings.HasSuffix(e.Name(), ".yaml") || strings.HasSuffix(e.Name(), ".yml")) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		raw, err := afero.ReadFile(fs, filepath.Join(dataDir, name))
		if err != nil {
			return data, fmt.Errorf("read data/%s: %w", name, err)
		}
		var parsed any
		if err := yaml.Unmarshal(raw, &parsed); err != nil {
			return data, fmt.Errorf("parse data/%s: %w", name, err)
		}
		params, ok := maps.ToParamsAndPrepare(parsed)
		if !ok {
			continue
		}
		stem := strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml")
		if stem == "site" {
			data.Set(params)
		} else {
			data[stem] = params
		}
	}
	return data, nil
}

func decode(in map[string]any, out *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

func yamlToStringMap(raw []byte, out *map[string]any) error {
	var parsed map[string]any
	var generic map[any]any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return err
	}
	parsed = make(map[string]any, len(generic))
	for k, v := range generic {
		parsed[fmt.Sprintf("%v", k)] = v
	}
	*out = parsed
	return nil
}
