package scan_cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanTextOutput(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "proj/app/list.hbs", []byte(`<My::Item />{{format-date now}}`), 0o644))

	var out bytes.Buffer
	me := &Handler{format: "text"}
	require.NoError(t, me.Run(context.Background(), fs, "proj", &out))

	assert.Equal(t, "app/list.hbs\tmy/item\napp/list.hbs\tformat-date\n", out.String())
}

func TestScanJSONOutput(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "proj/index.hbs", []byte(`{{page-title}}`), 0o644))

	var out bytes.Buffer
	me := &Handler{format: "json"}
	require.NoError(t, me.Run(context.Background(), fs, "proj", &out))

	var files []fileJSON
	require.NoError(t, json.Unmarshal(out.Bytes(), &files))
	require.Len(t, files, 1)
	assert.Equal(t, "index.hbs", files[0].Path)
	require.Len(t, files[0].Tokens, 1)
	assert.Equal(t, "page-title", files[0].Tokens[0].Name)
	assert.Equal(t, "invocable", files[0].Tokens[0].Kind)
}

func TestScanStrictFailsOnSyntaxError(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "proj/bad.hbs", []byte(`{{#foo}}`), 0o644))

	var out bytes.Buffer
	me := &Handler{format: "text", strict: true}
	err := me.Run(context.Background(), fs, "proj", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.hbs")

	me.strict = false
	out.Reset()
	require.NoError(t, me.Run(context.Background(), fs, "proj", &out))
	assert.Empty(t, out.String())
}

func TestScanUsesProjectConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "proj/glimtok.hcl", []byte(`templates = ["only/**/*.hbs"]`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "proj/only/a.hbs", []byte(`{{keep-me}}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "proj/other/b.hbs", []byte(`{{drop-me}}`), 0o644))

	var out bytes.Buffer
	me := &Handler{format: "text"}
	require.NoError(t, me.Run(context.Background(), fs, "proj", &out))

	assert.Equal(t, "only/a.hbs\tkeep-me\n", out.String())
}
