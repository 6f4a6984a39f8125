package author

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/catalogmd/catalogmd/catalog"
	"github.com/catalogmd/catalogmd/internal/logging"
	"github.com/catalogmd/catalogmd/internal/markdown"
	"github.com/catalogmd/catalogmd/pkg/interfaces"
)

// GenerateOptions tune one generate invocation.
type GenerateOptions struct {
	// Header is a caller-supplied YAML header mapping merged into every
	// control's front matter. Control-owned keys win on conflict.
	Header map[string]any
	// Profile optionally supplies parameter overrides from a source profile.
	Profile *catalog.Profile
	// ParamSeparator joins multi-valued parameters in their rendered display
	// form; empty selects the default.
	ParamSeparator string
}

// Generator writes a catalog out as one markdown file per control, nested
// under group-id directories.
type Generator struct {
	logger interfaces.Logger
}

// NewGenerator builds a generator; provider may be nil for silent operation.
func NewGenerator(provider interfaces.LoggerProvider) *Generator {
	return &Generator{logger: logging.AuthorLogger(provider)}
}

// WriteCatalogAsMarkdown renders every non-withdrawn control of the catalog
// to dir, at <group-path>/<control-id>.md. Withdrawn controls are skipped.
func (g *Generator) WriteCatalogAsMarkdown(ctx context.Context, cat *catalog.Catalog, dir string, opts GenerateOptions) error {
	if cat == nil {
		return wrapGenerateError(catalog.ErrNilCatalog)
	}
	fullDict := catalog.FullProfileParamDict(opts.Profile)

	if err := g.writeControls(ctx, cat.Controls, dir, fullDict, opts); err != nil {
		return wrapGenerateError(err)
	}
	var walk func(groups []*catalog.Group, base string) error
	walk = func(groups []*catalog.Group, base string) error {
		for _, group := range groups {
			groupDir := filepath.Join(base, group.ID)
			if err := g.writeControls(ctx, group.Controls, groupDir, fullDict, opts); err != nil {
				return err
			}
			if err := walk(group.Groups, groupDir); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(cat.Groups, dir); err != nil {
		return wrapGenerateError(err)
	}
	return nil
}

func (g *Generator) writeControls(ctx context.Context, controls []*catalog.Control, dir string, fullDict map[string]catalog.SetParameter, opts GenerateOptions) error {
	for _, ctl := range controls {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		log := logging.WithAuthorContext(g.logger, ctl.ID, dir, "")
		if ctl.IsWithdrawn() {
			log.Debug("skipping withdrawn control")
			continue
		}

		params := catalog.ControlParamDict(ctl, fullDict)
		data, err := markdown.WriteControl(ctl, params, opts.ParamSeparator, opts.Header)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("author: mkdir %s: %w", dir, err)
		}
		path := filepath.Join(dir, ctl.ID+".md")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("author: write %s: %w", path, err)
		}
		log.Debug("wrote control markdown", "path", path)
	}
	return nil
}
