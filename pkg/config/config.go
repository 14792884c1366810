// Package config loads project configuration for template scanning.
package config

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up in the scan root when no config path is given.
const DefaultFileName = "glimtok.hcl"

// Config controls which files a project scan treats as templates.
type Config struct {
	// Templates are doublestar globs, relative to the scan root, selecting
	// template files.
	Templates []string `json:"templates,omitempty" hcl:"templates,optional" yaml:"templates,omitempty"`

	// Ignore globs exclude files matched by Templates.
	Ignore []string `json:"ignore,omitempty" hcl:"ignore,optional" yaml:"ignore,omitempty"`
}

// Default returns the configuration used when a project carries none.
func Default() *Config {
	return &Config{
		Templates: []string{"**/*.hbs"},
		Ignore:    []string{"node_modules/**", "dist/**", "tmp/**"},
	}
}

// Load reads a config file from fs, decoding by extension: .yaml/.yml,
// .json, anything else as HCL.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	var cfg Config
	switch {
	case strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml"):
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, errors.Errorf("parsing YAML config: %w", err)
		}
	case strings.HasSuffix(path, ".json"):
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Errorf("parsing JSON config: %w", err)
		}
	default:
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCL(data, path)
		if diags.HasErrors() {
			return nil, errors.Errorf("parsing HCL config: %s", diags.Error())
		}
		evalCtx := &hcl.EvalContext{Variables: map[string]cty.Value{}}
		if diags := gohcl.DecodeBody(file.Body, evalCtx, &cfg); diags.HasErrors() {
			return nil, errors.Errorf("decoding HCL config: %s", diags.Error())
		}
	}

	if len(cfg.Templates) == 0 {
		cfg.Templates = Default().Templates
	}
	return &cfg, nil
}
