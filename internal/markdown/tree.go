package markdown

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Node is one heading in a parsed markdown document. The root node has level
// zero and an empty key; every other node's key is its heading text. Children
// are sub-headings in document order, and content holds the raw body lines
// sitting directly under the heading, before the next heading of any level.
type Node struct {
	Key      string
	Level    int
	Children []*Node
	content  []string
}

// ParseTree builds the heading hierarchy for a markdown body. Parsing rides
// on the goldmark AST so constructs that merely look like headings, such as
// comment lines inside fenced code blocks, are not mistaken for structure.
func ParseTree(source []byte) *Node {
	lines := splitLines(source)
	offsets := lineOffsets(source)

	engine := goldmark.New()
	doc := engine.Parser().Parse(text.NewReader(source))

	type heading struct {
		level int
		key   string
		line  int
	}
	var headings []heading

	for child := doc.FirstChild(); child != nil; child = child.NextSibling() {
		h, ok := child.(*ast.Heading)
		if !ok {
			continue
		}
		if h.Lines().Len() == 0 {
			continue
		}
		seg := h.Lines().At(0)
		headings = append(headings, heading{
			level: h.Level,
			key:   string(h.Text(source)),
			line:  lineAt(offsets, seg.Start),
		})
	}

	root := &Node{}
	if len(headings) == 0 {
		root.content = lines
		return root
	}

	root.content = lines[:headings[0].line]
	stack := []*Node{root}
	for i, h := range headings {
		end := len(lines)
		if i+1 < len(headings) {
			end = headings[i+1].line
		}
		node := &Node{
			Key:     h.key,
			Level:   h.level,
			content: lines[h.line+1 : end],
		}
		for len(stack) > 1 && stack[len(stack)-1].Level >= h.level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, node)
		stack = append(stack, node)
	}
	return root
}

// GetNodeForKey locates the first node, in document order, whose heading
// matches key. With exact set the heading must equal key; otherwise a heading
// containing key matches. Returns nil when absent.
func (n *Node) GetNodeForKey(key string, exact bool) *Node {
	if n.Level > 0 {
		if exact && n.Key == key {
			return n
		}
		if !exact && strings.Contains(n.Key, key) {
			return n
		}
	}
	for _, child := range n.Children {
		if found := child.GetNodeForKey(key, exact); found != nil {
			return found
		}
	}
	return nil
}

// AllHeaderKeys returns every heading key beneath the node in document order,
// all levels included.
func (n *Node) AllHeaderKeys() []string {
	var keys []string
	var walk func(node *Node)
	walk = func(node *Node) {
		for _, child := range node.Children {
			keys = append(keys, child.Key)
			walk(child)
		}
	}
	walk(n)
	return keys
}

// AllHeadersForLevel returns the headings at the given markdown level in
// document order.
func (n *Node) AllHeadersForLevel(level int) []string {
	var keys []string
	var walk func(node *Node)
	walk = func(node *Node) {
		for _, child := range node.Children {
			if child.Level == level {
				keys = append(keys, child.Key)
			}
			walk(child)
		}
	}
	walk(n)
	return keys
}

// Content returns the raw body lines directly under the heading.
func (n *Node) Content() []string {
	return n.content
}

// GovernedKeys extracts the ordered key names from "key: value" lines in the
// node's body. Lines without a colon, and list or quote continuations, are
// skipped.
func (n *Node) GovernedKeys() []string {
	var keys []string
	for _, line := range n.content {
		if key, _, ok := governedLine(line); ok {
			keys = append(keys, key)
		}
	}
	return keys
}

// GovernedValues extracts the key/value mapping from "key: value" lines in
// the node's body. Later duplicates win.
func (n *Node) GovernedValues() map[string]string {
	values := map[string]string{}
	for _, line := range n.content {
		if key, value, ok := governedLine(line); ok {
			values[key] = value
		}
	}
	return values
}

func governedLine(line string) (key, value string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, ">") {
		return "", "", false
	}
	before, after, found := strings.Cut(trimmed, ":")
	if !found || strings.TrimSpace(before) == "" {
		return "", "", false
	}
	return strings.TrimSpace(before), strings.TrimSpace(after), true
}

func splitLines(source []byte) []string {
	normalized := strings.ReplaceAll(string(source), "\r\n", "\n")
	return strings.Split(normalized, "\n")
}

func lineOffsets(source []byte) []int {
	offsets := []int{0}
	for i, b := range source {
		if b == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

func lineAt(offsets []int, pos int) int {
	return sort.Search(len(offsets), func(i int) bool { return offsets[i] > pos }) - 1
}
