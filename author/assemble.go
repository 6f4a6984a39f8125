package author

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/catalogmd/catalogmd/catalog"
	"github.com/catalogmd/catalogmd/internal/logging"
	"github.com/catalogmd/catalogmd/internal/markdown"
	"github.com/catalogmd/catalogmd/pkg/interfaces"
)

// AssembleOptions tune one assemble invocation.
type AssembleOptions struct {
	// Original, when supplied, is the catalog the markdown was generated
	// from. Edited controls merge into it; without it a fresh catalog is
	// built from the markdown alone.
	Original *catalog.Catalog
	// SetParameters makes edited header parameter values overwrite the
	// original control's values on merge.
	SetParameters bool
	// Version overrides the assembled catalog's version string.
	Version string
	// Title names a fresh catalog; defaults to the markdown directory name.
	Title string
}

// Assembler reads a directory of edited control markdown back into a catalog.
type Assembler struct {
	logger interfaces.Logger
}

// NewAssembler builds an assembler; provider may be nil for silent operation.
func NewAssembler(provider interfaces.LoggerProvider) *Assembler {
	return &Assembler{logger: logging.AuthorLogger(provider)}
}

// Assemble walks every control markdown file under dir, in sorted order, and
// produces the assembled catalog. IO and merge failures abort; there is no
// partial result.
func (a *Assembler) Assemble(ctx context.Context, dir string, opts AssembleOptions) (*catalog.Catalog, error) {
	paths, err := catalog.SortedControlPaths(dir)
	if err != nil {
		return nil, wrapAssembleError(err)
	}
	if len(paths) == 0 {
		return nil, wrapAssembleError(fmt.Errorf("%w: %s", ErrNoMarkdownControls, dir))
	}

	edited := make([]*editedControl, 0, len(paths))
	for _, path := range paths {
		select {
		case <-ctx.Done():
			return nil, wrapAssembleError(ctx.Err())
		default:
		}
		ec, err := a.readControl(dir, path)
		if err != nil {
			return nil, wrapAssembleError(err)
		}
		edited = append(edited, ec)
	}

	var assembled *catalog.Catalog
	if opts.Original != nil {
		assembled, err = a.mergeIntoOriginal(opts.Original, edited, opts.SetParameters)
	} else {
		assembled, err = a.buildFresh(dir, edited, opts.Title)
	}
	if err != nil {
		return nil, wrapAssembleError(err)
	}

	if opts.Version != "" {
		assembled.Metadata.Version = opts.Version
	}
	assembled.Metadata.LastModified = time.Now().UTC().Format(time.RFC3339)
	return assembled, nil
}

type editedControl struct {
	control *catalog.Control
	groups  []string
}

func (a *Assembler) readControl(dir, path string) (*editedControl, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("author: read %s: %w", path, err)
	}
	_, ctl, err := markdown.ReadControl(data)
	if err != nil {
		return nil, fmt.Errorf("author: parse %s: %w", path, err)
	}
	if stem := catalog.ControlIDFromPath(path); stem != ctl.ID {
		return nil, fmt.Errorf("%w: %s names %q", ErrControlIDMismatch, path, ctl.ID)
	}

	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return nil, fmt.Errorf("author: relativize %s: %w", path, err)
	}
	var groups []string
	if parent := filepath.Dir(rel); parent != "." {
		groups = strings.Split(filepath.ToSlash(parent), "/")
	}
	logging.WithAuthorContext(a.logger, ctl.ID, dir, path).Debug("read control markdown")
	return &editedControl{control: ctl, groups: groups}, nil
}

// mergeIntoOriginal folds the edits into the original catalog. Withdrawn
// controls are dropped first since they were never generated and cannot have
// edits.
func (a *Assembler) mergeIntoOriginal(original *catalog.Catalog, edited []*editedControl, setParameters bool) (*catalog.Catalog, error) {
	idx, err := catalog.NewIndex(original)
	if err != nil {
		return nil, err
	}
	if err := idx.DeleteWithdrawnControls(); err != nil {
		return nil, err
	}
	for _, ec := range edited {
		base, err := idx.GetControl(ec.control.ID)
		if err != nil {
			return nil, err
		}
		catalog.MergeControls(base, ec.control, setParameters)
		if err := idx.ReplaceControl(base); err != nil {
			return nil, err
		}
	}
	return idx.Catalog(), nil
}

// buildFresh assembles a catalog from the markdown alone. Group titles are
// unknowable from directory names, so they repeat the group id.
func (a *Assembler) buildFresh(dir string, edited []*editedControl, title string) (*catalog.Catalog, error) {
	if title == "" {
		title = filepath.Base(dir)
	}
	cat := &catalog.Catalog{
		Metadata: catalog.Metadata{Title: title},
	}

	groupsByPath := map[string]*catalog.Group{}
	groupFor := func(chain []string) *catalog.Group {
		var parent *catalog.Group
		for i := range chain {
			key := strings.Join(chain[:i+1], "/")
			group, ok := groupsByPath[key]
			if !ok {
				group = &catalog.Group{ID: chain[i], Title: chain[i]}
				groupsByPath[key] = group
				if parent == nil {
					cat.Groups = append(cat.Groups, group)
				} else {
					parent.Groups = append(parent.Groups, group)
				}
			}
			parent = group
		}
		return parent
	}

	for _, ec := range edited {
		if len(ec.groups) == 0 {
			cat.Controls = append(cat.Controls, ec.control)
			continue
		}
		group := groupFor(ec.groups)
		group.Controls = append(group.Controls, ec.control)
	}

	// surface duplicate ids now rather than on the next read
	if _, err := catalog.NewIndex(cat); err != nil {
		return nil, err
	}
	return cat, nil
}
