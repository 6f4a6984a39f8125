package catalog

// Catalog is the root of a compliance document: an ordered tree of groups
// holding controls, plus controls that live directly at the root. Metadata is
// carried through untouched; the core never interprets it beyond title and
// version.
type Catalog struct {
	UUID     string     `json:"uuid,omitempty" yaml:"uuid,omitempty"`
	Metadata Metadata   `json:"metadata" yaml:"metadata"`
	Groups   []*Group   `json:"groups,omitempty" yaml:"groups,omitempty"`
	Controls []*Control `json:"controls,omitempty" yaml:"controls,omitempty"`
}

// Metadata carries catalog identification fields as pass-through values.
type Metadata struct {
	Title        string `json:"title" yaml:"title"`
	Version      string `json:"version" yaml:"version"`
	LastModified string `json:"last-modified,omitempty" yaml:"last-modified,omitempty"`
}

// Group collects controls and nested groups. Groups form a tree: every group
// has exactly one parent, either another group or the catalog root.
type Group struct {
	ID       string     `json:"id" yaml:"id"`
	Class    string     `json:"class,omitempty" yaml:"class,omitempty"`
	Title    string     `json:"title" yaml:"title"`
	Groups   []*Group   `json:"groups,omitempty" yaml:"groups,omitempty"`
	Controls []*Control `json:"controls,omitempty" yaml:"controls,omitempty"`
}

// Control is a single compliance requirement. Its id must be unique across
// the whole catalog; the Index enforces that invariant.
type Control struct {
	ID     string      `json:"id" yaml:"id"`
	Class  string      `json:"class,omitempty" yaml:"class,omitempty"`
	Title  string      `json:"title" yaml:"title"`
	Params []Parameter `json:"params,omitempty" yaml:"params,omitempty"`
	Parts  []*Part     `json:"parts,omitempty" yaml:"parts,omitempty"`
	Props  []Property  `json:"props,omitempty" yaml:"props,omitempty"`
}

// Parameter declares an organization-defined value slot on a control. A
// parameter with no values falls back to its label, then to its choices, for
// display.
type Parameter struct {
	ID      string   `json:"id" yaml:"id"`
	Class   string   `json:"class,omitempty" yaml:"class,omitempty"`
	Label   string   `json:"label,omitempty" yaml:"label,omitempty"`
	Values  []string `json:"values,omitempty" yaml:"values,omitempty"`
	Choices []string `json:"choices,omitempty" yaml:"choices,omitempty"`
}

// Part holds a piece of control narrative. Parts nest, e.g. a statement part
// owning its lettered items. A part's props may tag it with a display label
// such as "d.".
type Part struct {
	ID    string     `json:"id,omitempty" yaml:"id,omitempty"`
	Name  string     `json:"name" yaml:"name"`
	Title string     `json:"title,omitempty" yaml:"title,omitempty"`
	Prose string     `json:"prose,omitempty" yaml:"prose,omitempty"`
	Parts []*Part    `json:"parts,omitempty" yaml:"parts,omitempty"`
	Props []Property `json:"props,omitempty" yaml:"props,omitempty"`
}

// Property is a name/value/class triple attached to controls and parts.
type Property struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
	Class string `json:"class,omitempty" yaml:"class,omitempty"`
}

const (
	statusProperty = "status"
	withdrawnValue = "Withdrawn"
	labelProperty  = "label"
)

// IsWithdrawn reports whether the control carries a status=Withdrawn property.
func (c *Control) IsWithdrawn() bool {
	for _, prop := range c.Props {
		if prop.Name == statusProperty && prop.Value == withdrawnValue {
			return true
		}
	}
	return false
}

// Label returns the display label property of the part, or "" when untagged.
func (p *Part) Label() string {
	for _, prop := range p.Props {
		if prop.Name == labelProperty {
			return prop.Value
		}
	}
	return ""
}

// PropValue returns the value of the named property, or "" when absent.
func (c *Control) PropValue(name string) string {
	for _, prop := range c.Props {
		if prop.Name == name {
			return prop.Value
		}
	}
	return ""
}
