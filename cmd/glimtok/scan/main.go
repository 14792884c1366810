package scan_cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/glimtools/glimtok/pkg/config"
	"github.com/glimtools/glimtok/pkg/scanner"
	"github.com/glimtools/glimtok/pkg/tokens"
)

type Handler struct {
	configPath string
	globs      []string
	ignore     []string
	format     string
	strict     bool
}

func NewScanCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "scan [root]",
		Short: "extract invocation tokens from every template in a project",
		Args:  cobra.MaximumNArgs(1),
	}

	cmd.Flags().StringVar(&me.configPath, "config", "", "config file (defaults to <root>/"+config.DefaultFileName+" when present)")
	cmd.Flags().StringSliceVar(&me.globs, "glob", nil, "template globs (overrides config)")
	cmd.Flags().StringSliceVar(&me.ignore, "ignore", nil, "ignore globs (overrides config)")
	cmd.Flags().StringVar(&me.format, "format", "text", "output format: text or json")
	cmd.Flags().BoolVar(&me.strict, "strict", false, "fail when any template does not parse")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		return me.Run(cmd.Context(), afero.NewOsFs(), root, cmd.OutOrStdout())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, fs afero.Fs, root string, out io.Writer) error {
	cfg, err := me.loadConfig(fs, root)
	if err != nil {
		return err
	}

	results, scanErr := scanner.New(fs).Scan(ctx, root, cfg)
	if scanErr != nil {
		if me.strict {
			return errors.Errorf("scanning %s: %w", root, scanErr)
		}
		zerolog.Ctx(ctx).Warn().Err(scanErr).Msg("some templates were skipped")
	}

	switch me.format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(toJSON(results))
	case "text":
		for _, res := range results {
			for _, name := range tokens.Names(res.Tokens) {
				fmt.Fprintf(out, "%s\t%s\n", res.Path, name)
			}
		}
		return nil
	default:
		return errors.Errorf("unknown output format %q", me.format)
	}
}

func (me *Handler) loadConfig(fs afero.Fs, root string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case me.configPath != "":
		loaded, err := config.Load(fs, me.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	default:
		defaultPath := filepath.Join(root, config.DefaultFileName)
		if ok, _ := afero.Exists(fs, defaultPath); ok {
			loaded, err := config.Load(fs, defaultPath)
			if err != nil {
				return nil, err
			}
			cfg = loaded
		} else {
			cfg = config.Default()
		}
	}

	if len(me.globs) > 0 {
		cfg.Templates = me.globs
	}
	if len(me.ignore) > 0 {
		cfg.Ignore = me.ignore
	}
	return cfg, nil
}

type fileJSON struct {
	Path   string      `json:"path"`
	Tokens []tokenJSON `json:"tokens"`
}

type tokenJSON struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

func toJSON(results []scanner.FileTokens) []fileJSON {
	files := make([]fileJSON, 0, len(results))
	for _, res := range results {
		encoded := make([]tokenJSON, 0, len(res.Tokens))
		for _, tok := range res.Tokens {
			encoded = append(encoded, tokenJSON{
				Name:  tok.Name,
				Kind:  tok.Kind.String(),
				Start: tok.Span.Start,
				End:   tok.Span.End,
			})
		}
		files = append(files, fileJSON{Path: res.Path, Tokens: encoded})
	}
	return files
}
