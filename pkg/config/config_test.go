package config_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glimtools/glimtok/pkg/config"
)

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func TestLoadHCL(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "glimtok.hcl", `
templates = ["app/**/*.hbs", "addon/**/*.hbs"]
ignore    = ["app/vendor/**"]
`)

	cfg, err := config.Load(fs, "glimtok.hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{"app/**/*.hbs", "addon/**/*.hbs"}, cfg.Templates)
	assert.Equal(t, []string{"app/vendor/**"}, cfg.Ignore)
}

func TestLoadYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "glimtok.yaml", `
templates:
  - "**/*.hbs"
ignore:
  - "node_modules/**"
`)

	cfg, err := config.Load(fs, "glimtok.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"**/*.hbs"}, cfg.Templates)
	assert.Equal(t, []string{"node_modules/**"}, cfg.Ignore)
}

func TestLoadJSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "glimtok.json", `{"templates": ["src/**/*.hbs"]}`)

	cfg, err := config.Load(fs, "glimtok.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"src/**/*.hbs"}, cfg.Templates)
}

func TestLoadDefaultsWhenTemplatesMissing(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "glimtok.hcl", `ignore = ["x/**"]`)

	cfg, err := config.Load(fs, "glimtok.hcl")
	require.NoError(t, err)
	assert.Equal(t, config.Default().Templates, cfg.Templates)
	assert.Equal(t, []string{"x/**"}, cfg.Ignore)
}

func TestLoadErrors(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := config.Load(fs, "missing.hcl")
	assert.Error(t, err)

	writeFile(t, fs, "bad.hcl", `templates = [`)
	_, err = config.Load(fs, "bad.hcl")
	assert.Error(t, err)

	writeFile(t, fs, "bad.yaml", "templates: [unclosed")
	_, err = config.Load(fs, "bad.yaml")
	assert.Error(t, err)
}
