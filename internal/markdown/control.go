package markdown

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/catalogmd/catalogmd/catalog"
)

// ParamsHeaderKey is the front-matter key carrying a control's editable
// parameter block.
const ParamsHeaderKey = "x-catalogmd-params"

// sectionNames maps semantic part names onto their display headings. Names
// without an entry appear in headings verbatim.
var sectionNames = map[string]string{
	"statement": "Control Statement",
	"guidance":  "Control Guidance",
	"objective": "Control Objective",
}

// sectionShortIDs gives the id suffix a reconstructed section part uses, so
// edited markdown maps back onto conventional part ids like "ac-1_smt".
var sectionShortIDs = map[string]string{
	"statement": "smt",
	"guidance":  "gdn",
	"objective": "obj",
}

var headingsByName = invert(sectionNames)

func invert(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for name, heading := range in {
		out[heading] = name
	}
	return out
}

// WriteControl renders one control, with its resolved parameters, to a
// markdown document: a YAML front-matter header merged over extraHeader, the
// control title line, then one section per top-level part with nested parts
// as labelled list items. sep joins multi-valued parameters in their display
// form; empty selects the default.
func WriteControl(ctl *catalog.Control, params map[string]catalog.Parameter, sep string, extraHeader map[string]any) ([]byte, error) {
	header := map[string]any{}
	if len(params) > 0 {
		header[ParamsHeaderKey] = paramsToHeader(ctl, params, sep)
	}
	if len(extraHeader) > 0 {
		header = MergeHeaders(header, extraHeader)
	}

	var b strings.Builder
	front, err := RenderHeader(header)
	if err != nil {
		return nil, err
	}
	b.Write(front)

	fmt.Fprintf(&b, "# %s - %s\n", ctl.ID, ctl.Title)
	for _, part := range ctl.Parts {
		b.WriteString("\n")
		fmt.Fprintf(&b, "## %s\n", sectionHeading(part))
		if prose := strings.TrimSpace(part.Prose); prose != "" {
			b.WriteString("\n")
			b.WriteString(prose)
			b.WriteString("\n")
		}
		if len(part.Parts) > 0 {
			b.WriteString("\n")
			writeItems(&b, part.Parts, 0)
		}
	}
	return []byte(b.String()), nil
}

func sectionHeading(part *catalog.Part) string {
	if heading, ok := sectionNames[part.Name]; ok {
		return heading
	}
	return part.Name
}

func writeItems(b *strings.Builder, parts []*catalog.Part, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, part := range parts {
		if label := part.Label(); label != "" {
			fmt.Fprintf(b, "%s- [%s] %s\n", indent, label, part.Prose)
		} else {
			fmt.Fprintf(b, "%s- %s\n", indent, part.Prose)
		}
		writeItems(b, part.Parts, depth+1)
	}
}

// paramsToHeader builds the header parameter block in control declaration
// order; YAML encoding takes care of deterministic key ordering on output.
// Each entry carries the parameter's resolved display form so editors see
// the value an embedding document would substitute.
func paramsToHeader(ctl *catalog.Control, params map[string]catalog.Parameter, sep string) map[string]any {
	block := make(map[string]any, len(params))
	add := func(param catalog.Parameter) {
		entry := map[string]any{}
		if len(param.Values) > 0 {
			entry["values"] = toAnySlice(param.Values)
		}
		if param.Label != "" {
			entry["label"] = param.Label
		}
		if len(param.Choices) > 0 {
			entry["choices"] = toAnySlice(param.Choices)
		}
		entry["display"] = catalog.ParamToString(param, sep)
		block[param.ID] = entry
	}
	for _, declared := range ctl.Params {
		if resolved, ok := params[declared.ID]; ok {
			add(resolved)
		}
	}
	// params resolved from elsewhere than the control's own declarations
	for id, param := range params {
		if _, ok := block[id]; !ok {
			add(param)
		}
	}
	return block
}

func toAnySlice(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

var (
	titleLineRe = regexp.MustCompile(`^#\s+(\S+)\s+-\s+(.*)$`)
	itemLineRe  = regexp.MustCompile(`^(\s*)-\s+(?:\[([^\]]+)\]\s+)?(.*)$`)
)

// ReadControl parses an edited control markdown document back into its
// front-matter header and a control fragment. The fragment's parts come from
// the body sections; its parameters come from the header block.
func ReadControl(source []byte) (map[string]any, *catalog.Control, error) {
	header, body, err := ParseDocument(source)
	if err != nil {
		return nil, nil, err
	}

	tree := ParseTree(body)
	titles := tree.AllHeadersForLevel(1)
	if len(titles) == 0 {
		return nil, nil, fmt.Errorf("markdown: control document has no title heading")
	}
	match := titleLineRe.FindStringSubmatch("# " + titles[0])
	if match == nil {
		return nil, nil, fmt.Errorf("markdown: control title %q is not \"id - title\"", titles[0])
	}

	ctl := &catalog.Control{
		ID:    match[1],
		Title: match[2],
	}
	titleNode := tree.GetNodeForKey(titles[0], true)
	for _, section := range titleNode.Children {
		if section.Level != 2 {
			continue
		}
		ctl.Parts = append(ctl.Parts, readSection(ctl.ID, section))
	}
	ctl.Params = headerParams(header)
	return header, ctl, nil
}

func readSection(controlID string, section *Node) *catalog.Part {
	name := section.Key
	if mapped, ok := headingsByName[section.Key]; ok {
		name = mapped
	}
	short := name
	if s, ok := sectionShortIDs[name]; ok {
		short = s
	}

	part := &catalog.Part{
		ID:   fmt.Sprintf("%s_%s", controlID, short),
		Name: name,
	}

	var prose []string
	itemStack := []*catalog.Part{part}
	for _, line := range section.Content() {
		match := itemLineRe.FindStringSubmatch(line)
		if match == nil || !strings.HasPrefix(strings.TrimSpace(line), "-") {
			prose = append(prose, line)
			continue
		}
		depth := len(match[1])/2 + 1
		if depth > len(itemStack) {
			depth = len(itemStack)
		}
		parent := itemStack[depth-1]
		item := &catalog.Part{
			Name:  "item",
			Prose: match[3],
		}
		if label := match[2]; label != "" {
			item.ID = fmt.Sprintf("%s.%s", parent.ID, strings.TrimSuffix(label, "."))
			item.Props = []catalog.Property{{Name: "label", Value: label}}
		}
		parent.Parts = append(parent.Parts, item)
		itemStack = append(itemStack[:depth], item)
	}
	part.Prose = strings.TrimSpace(strings.Join(prose, "\n"))
	return part
}

// headerParams decodes the front-matter parameter block into parameters
// sorted by id; merge restores catalog declaration order downstream.
func headerParams(header map[string]any) []catalog.Parameter {
	block, ok := header[ParamsHeaderKey].(map[string]any)
	if !ok || len(block) == 0 {
		return nil
	}

	ids := make([]string, 0, len(block))
	for id := range block {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	params := make([]catalog.Parameter, 0, len(ids))
	for _, id := range ids {
		param := catalog.Parameter{ID: id}
		if entry, ok := block[id].(map[string]any); ok {
			param.Label, _ = entry["label"].(string)
			param.Values = toStringSlice(entry["values"])
			param.Choices = toStringSlice(entry["choices"])
		} else if value, ok := block[id].(string); ok {
			param.Values = []string{value}
		}
		params = append(params, param)
	}
	return params
}

func toStringSlice(value any) []string {
	switch typed := value.(type) {
	case []any:
		out := make([]string, 0, len(typed))
		for _, v := range typed {
			out = append(out, fmt.Sprintf("%v", v))
		}
		return out
	case string:
		return []string{typed}
	default:
		return nil
	}
}
