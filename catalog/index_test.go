package catalog

import (
	"errors"
	"testing"
)

// sampleCatalog mirrors a small but structurally rich document: a group of
// two controls, a group holding a nested group with one control each, and a
// control at the catalog root.
func sampleCatalog() *Catalog {
	return &Catalog{
		Metadata: Metadata{Title: "Sample Catalog", Version: "1.0.0"},
		Groups: []*Group{
			{
				ID: "ac", Title: "Access Control",
				Controls: []*Control{
					{
						ID: "ac-1", Title: "Policy and Procedures",
						Params: []Parameter{
							{ID: "ac-1_prm_1", Values: []string{"param_0_val"}},
							{ID: "ac-1_prm_2", Label: "organization-defined frequency"},
						},
						Parts: []*Part{
							{
								ID: "ac-1_smt", Name: "statement", Prose: "The organization:",
								Parts: []*Part{
									{
										ID: "ac-1_smt.a", Name: "item", Prose: "Develops a policy.",
										Props: []Property{{Name: "label", Value: "a."}},
									},
									{
										ID: "ac-1_smt.b", Name: "item", Prose: "Reviews the policy.",
										Props: []Property{{Name: "label", Value: "b."}},
									},
								},
							},
						},
					},
					{ID: "ac-2", Title: "Account Management"},
				},
			},
			{
				ID: "d", Title: "Derived",
				Groups: []*Group{
					{
						ID: "d1", Title: "Derived One",
						Controls: []*Control{{ID: "control_d1", Title: "D1 Control"}},
					},
				},
				Controls: []*Control{{ID: "control_d", Title: "D Control"}},
			},
		},
		Controls: []*Control{{ID: "root-1", Title: "Root Control"}},
	}
}

func TestIndexCountAndLookup(t *testing.T) {
	idx, err := NewIndex(sampleCatalog())
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}

	if got := idx.CountControls(true); got != 5 {
		t.Fatalf("CountControls(true) = %d, want 5", got)
	}

	ctl, err := idx.GetControl("control_d1")
	if err != nil {
		t.Fatalf("GetControl: %v", err)
	}
	if ctl.Title != "D1 Control" {
		t.Fatalf("GetControl title = %q", ctl.Title)
	}

	if _, err := idx.GetControl("nope"); !errors.Is(err, ErrControlNotFound) {
		t.Fatalf("GetControl unknown id error = %v, want ErrControlNotFound", err)
	}
}

func TestIndexReplaceControl(t *testing.T) {
	cat := sampleCatalog()
	idx, err := NewIndex(cat)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}

	ctl, err := idx.GetControl("control_d1")
	if err != nil {
		t.Fatalf("GetControl: %v", err)
	}
	ctl.Title = "updated d1"
	if err := idx.ReplaceControl(ctl); err != nil {
		t.Fatalf("ReplaceControl: %v", err)
	}
	idx.UpdateCatalogControls()
	if got := cat.Groups[1].Groups[0].Controls[0].Title; got != "updated d1" {
		t.Fatalf("catalog control title = %q after replace", got)
	}

	if err := idx.ReplaceControl(&Control{ID: "nope"}); !errors.Is(err, ErrControlNotFound) {
		t.Fatalf("ReplaceControl unknown id error = %v, want ErrControlNotFound", err)
	}
}

func TestIndexReplacePreservesPosition(t *testing.T) {
	cat := sampleCatalog()
	idx, err := NewIndex(cat)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}

	replacement := &Control{ID: "ac-1", Title: "Replaced"}
	if err := idx.ReplaceControl(replacement); err != nil {
		t.Fatalf("ReplaceControl: %v", err)
	}

	got := idx.Catalog()
	if got.Groups[0].Controls[0] != replacement {
		t.Fatalf("replacement not in original slot")
	}
	if got.Groups[0].Controls[1].ID != "ac-2" {
		t.Fatalf("sibling moved: slot 1 holds %q", got.Groups[0].Controls[1].ID)
	}
}

func TestIndexAllGroups(t *testing.T) {
	idx, err := NewIndex(sampleCatalog())
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}

	var ids []string
	for group := range idx.AllGroups() {
		ids = append(ids, group.ID)
	}
	want := []string{"ac", "d", "d1"}
	if len(ids) != len(want) {
		t.Fatalf("AllGroups ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("AllGroups order = %v, want %v", ids, want)
		}
	}

	// the sequence restarts cleanly
	count := 0
	for range idx.AllGroups() {
		count++
	}
	if count != 3 {
		t.Fatalf("second traversal visited %d groups, want 3", count)
	}
}

func TestIndexWithdrawn(t *testing.T) {
	cat := sampleCatalog()
	cat.Groups[0].Controls[1].Props = append(cat.Groups[0].Controls[1].Props,
		Property{Name: "status", Value: "Withdrawn"})

	idx, err := NewIndex(cat)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}

	if got := idx.CountControls(true); got != 5 {
		t.Fatalf("CountControls(true) = %d, want 5", got)
	}
	if got := idx.CountControls(false); got != 4 {
		t.Fatalf("CountControls(false) = %d, want 4", got)
	}

	if err := idx.DeleteWithdrawnControls(); err != nil {
		t.Fatalf("DeleteWithdrawnControls: %v", err)
	}
	if got := idx.CountControls(true); got != 4 {
		t.Fatalf("count after delete = %d, want 4", got)
	}
	if _, err := idx.GetControl("ac-2"); !errors.Is(err, ErrControlNotFound) {
		t.Fatalf("withdrawn control still indexed: %v", err)
	}

	// idempotent
	if err := idx.DeleteWithdrawnControls(); err != nil {
		t.Fatalf("second DeleteWithdrawnControls: %v", err)
	}
	if got := idx.CountControls(true); got != 4 {
		t.Fatalf("count after second delete = %d, want 4", got)
	}
}

func TestIndexDuplicateControlID(t *testing.T) {
	cat := sampleCatalog()
	cat.Controls = append(cat.Controls, &Control{ID: "ac-1", Title: "dupe"})

	if _, err := NewIndex(cat); !errors.Is(err, ErrDuplicateControl) {
		t.Fatalf("NewIndex duplicate id error = %v, want ErrDuplicateControl", err)
	}
}
