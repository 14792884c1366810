// Package scanner walks a project tree and extracts invocation tokens from
// every template file matching the project configuration.
//
// The scanner is a consumer of pkg/tokens, one independent extraction per
// file. It performs no cross-file aggregation: each result carries the
// per-file ordered token sequence, and mapping tokens to defining files is
// left to whatever sits downstream.
package scanner

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"

	"github.com/glimtools/glimtok/pkg/config"
	"github.com/glimtools/glimtok/pkg/tokens"
)

// FileTokens is the extraction result for one template file. Path is
// slash-separated and relative to the scan root.
type FileTokens struct {
	Path   string
	Tokens []tokens.Token
}

// Scanner scans a filesystem for template files.
type Scanner struct {
	fs afero.Fs
}

func New(fs afero.Fs) *Scanner {
	return &Scanner{fs: fs}
}

// Scan extracts tokens from every file under root selected by cfg, in
// stable (path-sorted) order.
//
// A file that fails to read or parse does not abort the scan: its error is
// aggregated into the returned error while the remaining files still
// produce results. Callers get both the results and, possibly, a combined
// error describing the files that were skipped.
func (s *Scanner) Scan(ctx context.Context, root string, cfg *config.Config) ([]FileTokens, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := validateGlobs(cfg); err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().
		Str("scan_id", uuid.NewString()).
		Str("root", root).
		Logger()
	ctx = logger.WithContext(ctx)

	var (
		results []FileTokens
		skipped error
		scanned int
		matched int
	)

	walkErr := afero.Walk(s.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		scanned++

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !selected(cfg, rel) {
			return nil
		}
		matched++

		data, err := afero.ReadFile(s.fs, path)
		if err != nil {
			skipped = multierr.Append(skipped, errors.Errorf("reading %s: %w", rel, err))
			return nil
		}

		toks, err := tokens.Extract(ctx, string(data))
		if err != nil {
			logger.Warn().Str("file", rel).Err(err).Msg("skipping template that does not parse")
			skipped = multierr.Append(skipped, errors.Errorf("%s: %w", rel, err))
			return nil
		}

		results = append(results, FileTokens{Path: rel, Tokens: toks})
		return nil
	})
	if walkErr != nil {
		return nil, errors.Errorf("walking %s: %w", root, walkErr)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })

	logger.Debug().
		Int("files_seen", scanned).
		Int("files_matched", matched).
		Int("files_extracted", len(results)).
		Msg("scan complete")
	return results, skipped
}

// selected reports whether rel matches an include glob and no ignore glob.
func selected(cfg *config.Config, rel string) bool {
	included := false
	for _, glob := range cfg.Templates {
		if ok, _ := doublestar.Match(glob, rel); ok {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, glob := range cfg.Ignore {
		if ok, _ := doublestar.Match(glob, rel); ok {
			return false
		}
	}
	return true
}

func validateGlobs(cfg *config.Config) error {
	for _, glob := range cfg.Templates {
		if !doublestar.ValidatePattern(glob) {
			return errors.Errorf("invalid template glob %q", glob)
		}
	}
	for _, glob := range cfg.Ignore {
		if !doublestar.ValidatePattern(glob) {
			return errors.Errorf("invalid ignore glob %q", glob)
		}
	}
	return nil
}
