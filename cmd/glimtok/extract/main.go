package extract_cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/glimtools/glimtok/pkg/tokens"
)

type Handler struct {
	format string
}

func NewExtractCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "extract invocation tokens from one template",
		Long:  "Extract the ordered component/helper/modifier tokens from a template file, or from stdin when no file is given.",
		Args:  cobra.MaximumNArgs(1),
	}

	cmd.Flags().StringVar(&me.format, "format", "text", "output format: text or json")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		file := ""
		if len(args) == 1 {
			file = args[0]
		}
		return me.Run(cmd.Context(), afero.NewOsFs(), file, cmd.OutOrStdout())
	}

	return cmd
}

// tokenJSON is the stable output shape for --format=json.
type tokenJSON struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

func (me *Handler) Run(ctx context.Context, fs afero.Fs, file string, out io.Writer) error {
	var (
		source []byte
		err    error
	)
	if file == "" || file == "-" {
		source, err = io.ReadAll(os.Stdin)
		if err != nil {
			return errors.Errorf("reading stdin: %w", err)
		}
	} else {
		source, err = afero.ReadFile(fs, file)
		if err != nil {
			return errors.Errorf("reading %s: %w", file, err)
		}
	}

	toks, err := tokens.Extract(ctx, string(source))
	if err != nil {
		return errors.Errorf("extracting tokens: %w", err)
	}

	switch me.format {
	case "json":
		encoded := make([]tokenJSON, 0, len(toks))
		for _, tok := range toks {
			encoded = append(encoded, tokenJSON{
				Name:  tok.Name,
				Kind:  tok.Kind.String(),
				Start: tok.Span.Start,
				End:   tok.Span.End,
			})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(encoded)
	case "text":
		for _, name := range tokens.Names(toks) {
			fmt.Fprintln(out, name)
		}
		return nil
	default:
		return errors.Errorf("unknown output format %q", me.format)
	}
}
