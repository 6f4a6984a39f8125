package catalog

import (
	"fmt"
	"iter"
)

// slot records where a control sits in the catalog tree so a replacement can
// land in the exact same position. A nil group means the control lives in the
// catalog root sequence.
type slot struct {
	group *Group
	pos   int
}

// Index flattens a catalog into a lookup surface over its controls. Replaced
// controls are staged in the index and written back into the catalog tree by
// UpdateCatalogControls; Catalog always returns a synchronized view.
//
// The index is not safe for concurrent use. Each generate or assemble
// invocation owns its own transient index.
type Index struct {
	catalog  *Catalog
	controls map[string]*Control
	slots    map[string]slot
	dirty    bool
}

// NewIndex builds an index over the supplied catalog. A duplicate control id
// anywhere in the tree indicates a corrupt catalog and fails the build.
func NewIndex(cat *Catalog) (*Index, error) {
	if cat == nil {
		return nil, ErrNilCatalog
	}

	idx := &Index{
		catalog:  cat,
		controls: map[string]*Control{},
		slots:    map[string]slot{},
	}
	if err := idx.reindex(); err != nil {
		return nil, err
	}
	return idx, nil
}

func (x *Index) reindex() error {
	clear(x.controls)
	clear(x.slots)

	register := func(owner *Group, controls []*Control) error {
		for pos, ctl := range controls {
			if _, exists := x.controls[ctl.ID]; exists {
				return fmt.Errorf("%w: %s", ErrDuplicateControl, ctl.ID)
			}
			x.controls[ctl.ID] = ctl
			x.slots[ctl.ID] = slot{group: owner, pos: pos}
		}
		return nil
	}

	if err := register(nil, x.catalog.Controls); err != nil {
		return err
	}
	for group := range x.AllGroups() {
		if err := register(group, group.Controls); err != nil {
			return err
		}
	}
	return nil
}

// GetControl returns the indexed control with the given id.
func (x *Index) GetControl(id string) (*Control, error) {
	ctl, ok := x.controls[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrControlNotFound, id)
	}
	return ctl, nil
}

// ReplaceControl stages a replacement for an already-indexed control. The
// control keeps its original position in its owning group or root sequence.
// The backing catalog is updated on the next UpdateCatalogControls or
// Catalog call.
func (x *Index) ReplaceControl(ctl *Control) error {
	if _, ok := x.slots[ctl.ID]; !ok {
		return fmt.Errorf("%w: %s", ErrControlNotFound, ctl.ID)
	}
	x.controls[ctl.ID] = ctl
	x.dirty = true
	return nil
}

// UpdateCatalogControls writes every staged replacement back into its slot in
// the catalog tree.
func (x *Index) UpdateCatalogControls() {
	if !x.dirty {
		return
	}
	for id, s := range x.slots {
		if s.group == nil {
			x.catalog.Controls[s.pos] = x.controls[id]
		} else {
			s.group.Controls[s.pos] = x.controls[id]
		}
	}
	x.dirty = false
}

// Catalog returns the backing catalog with all replacements applied.
func (x *Index) Catalog() *Catalog {
	x.UpdateCatalogControls()
	return x.catalog
}

// AllGroups iterates the group tree in pre-order, parents before children.
// The sequence is restartable; each range starts a fresh traversal.
func (x *Index) AllGroups() iter.Seq[*Group] {
	return func(yield func(*Group) bool) {
		var walk func(groups []*Group) bool
		walk = func(groups []*Group) bool {
			for _, group := range groups {
				if !yield(group) {
					return false
				}
				if !walk(group.Groups) {
					return false
				}
			}
			return true
		}
		walk(x.catalog.Groups)
	}
}

// CountControls counts every control in the catalog, transitively through all
// groups plus the root sequence. Withdrawn controls are skipped unless
// includeWithdrawn is set.
func (x *Index) CountControls(includeWithdrawn bool) int {
	count := countControls(x.catalog.Controls, includeWithdrawn)
	for group := range x.AllGroups() {
		count += countControls(group.Controls, includeWithdrawn)
	}
	return count
}

func countControls(controls []*Control, includeWithdrawn bool) int {
	count := 0
	for _, ctl := range controls {
		if includeWithdrawn || !ctl.IsWithdrawn() {
			count++
		}
	}
	return count
}

// DeleteWithdrawnControls removes every withdrawn control from its owning
// sequence. Idempotent; the index is rebuilt afterwards since slot positions
// shift.
func (x *Index) DeleteWithdrawnControls() error {
	x.UpdateCatalogControls()

	x.catalog.Controls = pruneWithdrawn(x.catalog.Controls)
	for group := range x.AllGroups() {
		group.Controls = pruneWithdrawn(group.Controls)
	}
	return x.reindex()
}

func pruneWithdrawn(controls []*Control) []*Control {
	kept := controls[:0]
	for _, ctl := range controls {
		if !ctl.IsWithdrawn() {
			kept = append(kept, ctl)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}
