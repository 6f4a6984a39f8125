package catalog

// MergeControls reconciles an edited control (incoming) into its original
// (base), in place.
//
// Narrative parts follow the edit wholesale: incoming's part tree replaces
// base's, so additions and removals in the edited source both land.
//
// Parameters are matched by id. Base ordering wins for parameters present in
// both; parameters whose ids were removed from incoming are dropped, and ids
// new in incoming are appended in incoming order. For a parameter present in
// both, replaceParams decides whose values survive: true takes incoming's,
// false keeps base's.
//
// Properties are never altered by a merge.
func MergeControls(base, incoming *Control, replaceParams bool) {
	base.Parts = incoming.Parts

	incomingByID := make(map[string]Parameter, len(incoming.Params))
	for _, param := range incoming.Params {
		incomingByID[param.ID] = param
	}

	merged := make([]Parameter, 0, len(incoming.Params))
	seen := make(map[string]struct{}, len(incoming.Params))
	for _, param := range base.Params {
		edited, ok := incomingByID[param.ID]
		if !ok {
			continue
		}
		if replaceParams {
			param.Values = edited.Values
		}
		merged = append(merged, param)
		seen[param.ID] = struct{}{}
	}
	for _, param := range incoming.Params {
		if _, ok := seen[param.ID]; !ok {
			merged = append(merged, param)
		}
	}
	if len(merged) == 0 {
		merged = nil
	}
	base.Params = merged
}
