package scanner_test

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glimtools/glimtok/pkg/config"
	"github.com/glimtools/glimtok/pkg/scanner"
	"github.com/glimtools/glimtok/pkg/tokens"
)

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func TestScan(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "proj/app/components/list.hbs", `<My::Item />{{format-date now}}`)
	writeFile(t, fs, "proj/app/templates/index.hbs", `{{#page-layout}}{{/page-layout}}`)
	writeFile(t, fs, "proj/app/styles/main.css", `body {}`)
	writeFile(t, fs, "proj/node_modules/dep/bad.hbs", `<Broken>`)

	results, err := scanner.New(fs).Scan(context.Background(), "proj", config.Default())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "app/components/list.hbs", results[0].Path)
	assert.Equal(t, []string{"my/item", "format-date"}, tokens.Names(results[0].Tokens))

	assert.Equal(t, "app/templates/index.hbs", results[1].Path)
	assert.Equal(t, []string{"page-layout"}, tokens.Names(results[1].Tokens))
}

func TestScanAggregatesSyntaxErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "proj/ok.hbs", `{{fine-helper}}`)
	writeFile(t, fs, "proj/broken.hbs", `{{#foo}}never closed`)

	results, err := scanner.New(fs).Scan(context.Background(), "proj", config.Default())

	require.Error(t, err, "broken file is reported")
	assert.Contains(t, err.Error(), "broken.hbs")

	require.Len(t, results, 1, "remaining files still produce results")
	assert.Equal(t, "ok.hbs", results[0].Path)
}

func TestScanCustomGlobs(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "proj/a/x.glimmer", `{{one}}`)
	writeFile(t, fs, "proj/b/y.glimmer", `{{two}}`)
	writeFile(t, fs, "proj/b/z.hbs", `{{three}}`)

	cfg := &config.Config{
		Templates: []string{"**/*.glimmer"},
		Ignore:    []string{"b/**"},
	}
	results, err := scanner.New(fs).Scan(context.Background(), "proj", cfg)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a/x.glimmer", results[0].Path)
}

func TestScanInvalidGlob(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := scanner.New(fs).Scan(context.Background(), ".", &config.Config{
		Templates: []string{"[bad"},
	})
	assert.Error(t, err)
}

func TestScanEmptyTree(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("proj", 0o755))

	results, err := scanner.New(fs).Scan(context.Background(), "proj", config.Default())
	require.NoError(t, err)
	assert.Empty(t, results)
}
