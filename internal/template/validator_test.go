package template

import (
	"errors"
	"strings"
	"testing"

	"github.com/catalogmd/catalogmd/internal/markdown"
)

const templateDoc = `# Overview

Type: {{type}}
Owner: {{owner}}

## Purpose

Describe the purpose.

## {{section}}

# Review

## Sign-off
`

func newTestValidator(t *testing.T, cfg Config) *Validator {
	t.Helper()
	if cfg.Tree == nil {
		cfg.Tree = markdown.ParseTree([]byte(templateDoc))
	}
	v, err := NewValidator(cfg)
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	return v
}

func instanceTree(t *testing.T, doc string) *markdown.Node {
	t.Helper()
	return markdown.ParseTree([]byte(doc))
}

func TestValidateBodyHeadingsValid(t *testing.T) {
	v := newTestValidator(t, Config{ValidateBody: true})

	instance := `# Overview

Type: catalog
Owner: security team

## Purpose

We keep policy close to the catalog.

## Extra Notes

## Change Management

# Review

## Sign-off
`
	result := v.Validate("doc.md", nil, instanceTree(t, instance))
	if !result.Valid {
		t.Fatalf("expected valid, got %s: %s", result.Pass, result.Reason)
	}
	if result.Pass != PassBodyHeadings {
		t.Fatalf("decided by %q, want %q", result.Pass, PassBodyHeadings)
	}
}

func TestValidateBodyHeadingsShuffled(t *testing.T) {
	v := newTestValidator(t, Config{ValidateBody: true})

	instance := `# Overview

## {{section}}

## Purpose

## Sign-off

# Review
`
	result := v.Validate("doc.md", nil, instanceTree(t, instance))
	if result.Valid {
		t.Fatal("reordered headings must fail")
	}
	if result.Pass != PassBodyHeadings {
		t.Fatalf("decided by %q, want %q", result.Pass, PassBodyHeadings)
	}
	if !strings.Contains(result.Reason, "shuffled") {
		t.Fatalf("unexpected reason: %s", result.Reason)
	}
}

func TestValidateBodyHeadingsRemoved(t *testing.T) {
	v := newTestValidator(t, Config{ValidateBody: true})

	instance := `# Overview

## Purpose

# Review
`
	result := v.Validate("doc.md", nil, instanceTree(t, instance))
	if result.Valid {
		t.Fatal("dropped heading must fail")
	}
	if result.Pass != PassBodyHeadings {
		t.Fatalf("decided by %q, want %q", result.Pass, PassBodyHeadings)
	}
}

func TestValidateBodyHeadingsNewLevelOne(t *testing.T) {
	v := newTestValidator(t, Config{ValidateBody: true})

	instance := `# Overview

## Purpose

## Risk Register

# Review

## Sign-off

# Appendix

## Sources
`
	result := v.Validate("doc.md", nil, instanceTree(t, instance))
	if result.Valid {
		t.Fatal("added level-1 heading must fail")
	}
	if !strings.Contains(result.Reason, "level-1") {
		t.Fatalf("unexpected reason: %s", result.Reason)
	}
}

func TestValidatePlaceholderHeadingSkipped(t *testing.T) {
	// The {{section}} template heading is a slot; an instance that simply
	// drops it still conforms as long as the fixed headings stay in order.
	v := newTestValidator(t, Config{ValidateBody: true})

	instance := `# Overview

## Purpose

# Review

## Sign-off
`
	result := v.Validate("doc.md", nil, instanceTree(t, instance))
	if !result.Valid {
		t.Fatalf("placeholder heading should not be required: %s", result.Reason)
	}
}

func TestValidateTrailingPlaceholderHeadingSkipped(t *testing.T) {
	// A slot heading at the very end of the template is also optional; the
	// walk must not demand anything after the last fixed heading.
	tree := markdown.ParseTree([]byte("# Overview\n\n## {{section}}\n"))
	v := newTestValidator(t, Config{ValidateBody: true, Tree: tree})

	result := v.Validate("doc.md", nil, instanceTree(t, "# Overview\n"))
	if !result.Valid {
		t.Fatalf("trailing placeholder should not be required: %s", result.Reason)
	}
	if result.Pass != PassBodyHeadings {
		t.Fatalf("decided by %q, want %q", result.Pass, PassBodyHeadings)
	}
}

func TestValidateHeaderKeysOnly(t *testing.T) {
	header := map[string]any{"title": "Policy", "status": map[string]any{"stage": "draft"}}
	v := newTestValidator(t, Config{ValidateHeader: true, Header: header})

	good := map[string]any{"title": "Access Control Policy", "status": map[string]any{"stage": "final"}}
	result := v.Validate("doc.md", good, instanceTree(t, templateDoc))
	if !result.Valid || result.Pass != PassHeaderKeys {
		t.Fatalf("got %+v, want valid header-keys result", result)
	}

	bad := map[string]any{"title": "Access Control Policy"}
	result = v.Validate("doc.md", bad, instanceTree(t, templateDoc))
	if result.Valid {
		t.Fatal("missing header key must fail")
	}
	if result.Pass != PassHeaderKeys {
		t.Fatalf("decided by %q, want %q", result.Pass, PassHeaderKeys)
	}
}

func TestValidateTemplateVersionShortCircuit(t *testing.T) {
	// With version enforcement on, header validation is the version check and
	// nothing else: neither key structure nor body headings are consulted.
	header := map[string]any{TemplateVersionKey: "1.2.0", VersionKey: "1.2.0"}
	v := newTestValidator(t, Config{
		ValidateHeader:  true,
		ValidateBody:    true,
		TemplateVersion: true,
		Header:          header,
	})

	mangled := instanceTree(t, "# Something Else Entirely\n")
	result := v.Validate("policies/1.2.0/doc.md", map[string]any{"unrelated": true}, mangled)
	if !result.Valid {
		t.Fatalf("version match must decide alone: %s", result.Reason)
	}
	if result.Pass != PassTemplateVersion {
		t.Fatalf("decided by %q, want %q", result.Pass, PassTemplateVersion)
	}
}

func TestValidateTemplateVersionMissingFromInstanceID(t *testing.T) {
	header := map[string]any{TemplateVersionKey: "1.2.0", VersionKey: "1.2.0"}
	v := newTestValidator(t, Config{ValidateHeader: true, TemplateVersion: true, Header: header})

	result := v.Validate("policies/doc.md", nil, instanceTree(t, templateDoc))
	if result.Valid {
		t.Fatal("instance path without the version must fail")
	}
	if result.Pass != PassTemplateVersion {
		t.Fatalf("decided by %q, want %q", result.Pass, PassTemplateVersion)
	}
}

func TestValidateTemplateVersionFieldMismatch(t *testing.T) {
	header := map[string]any{TemplateVersionKey: "1.2.0", VersionKey: "2.0.0"}
	v := newTestValidator(t, Config{ValidateHeader: true, TemplateVersion: true, Header: header})

	result := v.Validate("policies/1.2.0/doc.md", nil, instanceTree(t, templateDoc))
	if result.Valid {
		t.Fatal("disagreeing version fields must fail")
	}
	if !strings.Contains(result.Reason, VersionKey) {
		t.Fatalf("unexpected reason: %s", result.Reason)
	}
}

func TestValidateBodyRechecksVersion(t *testing.T) {
	header := map[string]any{TemplateVersionKey: "3.1.4"}
	v := newTestValidator(t, Config{ValidateBody: true, TemplateVersion: true, Header: header})

	result := v.Validate("policies/doc.md", nil, instanceTree(t, templateDoc))
	if result.Valid {
		t.Fatal("body validation with versioning needs the version in the path")
	}
	if result.Pass != PassTemplateVersion {
		t.Fatalf("decided by %q, want %q", result.Pass, PassTemplateVersion)
	}

	result = v.Validate("policies/3.1.4/doc.md", nil, instanceTree(t, templateDoc))
	if !result.Valid {
		t.Fatalf("expected valid: %s", result.Reason)
	}
}

func TestValidateGovernedSection(t *testing.T) {
	v := newTestValidator(t, Config{ValidateBody: true, GovernedHeading: "Overview"})

	missing := `# Overview

Type: catalog

## Purpose

# Review

## Sign-off
`
	result := v.Validate("doc.md", nil, instanceTree(t, missing))
	if result.Valid {
		t.Fatal("dropped governed key must fail")
	}
	if result.Pass != PassGovernedSection {
		t.Fatalf("decided by %q, want %q", result.Pass, PassGovernedSection)
	}

	complete := `# Overview

Type: catalog
Owner: platform team

## Purpose

# Review

## Sign-off
`
	result = v.Validate("doc.md", nil, instanceTree(t, complete))
	if !result.Valid {
		t.Fatalf("expected valid: %s", result.Reason)
	}
	if result.Pass != PassBodyHeadings {
		t.Fatalf("governed pass must hand off to body check, decided by %q", result.Pass)
	}
}

func TestValidateGovernedSectionAbsentInstance(t *testing.T) {
	v := newTestValidator(t, Config{ValidateBody: true, GovernedHeading: "Overview"})

	result := v.Validate("doc.md", nil, instanceTree(t, "# Summary\n"))
	if result.Valid {
		t.Fatal("instance without the governed section must fail")
	}
	if result.Pass != PassGovernedSection {
		t.Fatalf("decided by %q, want %q", result.Pass, PassGovernedSection)
	}
}

func TestNewValidatorRejectsMissingPieces(t *testing.T) {
	if _, err := NewValidator(Config{}); !errors.Is(err, ErrMalformedTemplate) {
		t.Fatalf("nil tree: got %v", err)
	}

	cfg := Config{Tree: markdown.ParseTree([]byte(templateDoc)), GovernedHeading: "No Such Heading"}
	if _, err := NewValidator(cfg); !errors.Is(err, ErrMalformedTemplate) {
		t.Fatalf("absent governed heading: got %v", err)
	}
}

func TestPlaceholderFromPattern(t *testing.T) {
	match, err := PlaceholderFromPattern(DefaultPlaceholderPattern)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !match("{{anything here}}") {
		t.Fatal("moustache heading should match")
	}
	if match("Purpose") {
		t.Fatal("plain heading should not match")
	}

	if _, err := PlaceholderFromPattern("("); err == nil {
		t.Fatal("invalid pattern must error")
	}
}
