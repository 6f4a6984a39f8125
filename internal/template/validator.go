package template

import (
	"errors"
	"fmt"
	"strings"

	"github.com/catalogmd/catalogmd/internal/markdown"
)

// Front-matter keys governing template version enforcement.
const (
	TemplateVersionKey = "x-template-version"
	VersionKey         = "Version"
)

// Pass names, in evaluation order. A Result records which pass decided it so
// callers and tests can pin failures to a specific rule.
const (
	PassTemplateVersion = "template-version"
	PassHeaderKeys      = "header-keys"
	PassGovernedSection = "governed-section"
	PassBodyHeadings    = "body-headings"
)

var ErrMalformedTemplate = errors.New("template: template missing expected structure")

// Config assembles a validator. The template header and tree are supplied by
// the caller that owns template storage; the validator never loads files.
type Config struct {
	// TemplatePath identifies the template in reasons, nothing more.
	TemplatePath string
	Header       map[string]any
	Tree         *markdown.Node

	ValidateHeader  bool
	ValidateBody    bool
	TemplateVersion bool

	// GovernedHeading names the heading whose key/value body is checked for
	// completeness. Empty disables the check.
	GovernedHeading string

	// IsPlaceholder decides whether a template heading is a substitution
	// slot. Defaults to the moustache pattern.
	IsPlaceholder PlaceholderMatcher
}

// Validator decides structural conformance of markdown instances against one
// template. Construct once per template and reuse across instances.
type Validator struct {
	cfg            Config
	header         Mapping
	governed       string
	isPlaceholder  PlaceholderMatcher
	templateKeys   []string
	governedKeys   []string
	lvl1TotalCount int
}

// Result reports one instance's conformance: valid or not, the pass that
// decided, and a human-readable reason on failure. Validation failures are
// results, never errors, so callers can evaluate many instances and continue.
type Result struct {
	Valid  bool
	Pass   string
	Reason string
}

func valid(pass string) Result {
	return Result{Valid: true, Pass: pass}
}

func invalid(pass, format string, args ...any) Result {
	return Result{Pass: pass, Reason: fmt.Sprintf(format, args...)}
}

// NewValidator checks the template itself for the structure the configured
// passes need, then returns a validator over it.
func NewValidator(cfg Config) (*Validator, error) {
	if cfg.Tree == nil {
		return nil, fmt.Errorf("%w: no markdown tree", ErrMalformedTemplate)
	}
	matcher := cfg.IsPlaceholder
	if matcher == nil {
		var err error
		matcher, err = PlaceholderFromPattern(DefaultPlaceholderPattern)
		if err != nil {
			return nil, err
		}
	}

	v := &Validator{
		cfg:            cfg,
		header:         NormalizeHeader(cfg.Header),
		governed:       strings.TrimSpace(cfg.GovernedHeading),
		isPlaceholder:  matcher,
		templateKeys:   cfg.Tree.AllHeaderKeys(),
		lvl1TotalCount: len(cfg.Tree.AllHeadersForLevel(1)),
	}

	if v.governed != "" {
		node := cfg.Tree.GetNodeForKey(v.governed, false)
		if node == nil {
			return nil, fmt.Errorf("%w: governed heading %q not in template %s",
				ErrMalformedTemplate, v.governed, cfg.TemplatePath)
		}
		v.governedKeys = node.GovernedKeys()
	}
	return v, nil
}

// Validate runs the configured passes, in order, against one instance.
// instanceID is the instance's identity (typically its path); the
// template-version pass requires the version to appear in it verbatim.
func (v *Validator) Validate(instanceID string, header map[string]any, tree *markdown.Node) Result {
	passes := []func(string, map[string]any, *markdown.Node) (Result, bool){
		v.headerVersionPass,
		v.headerKeysPass,
		v.governedSectionPass,
		v.bodyHeadingsPass,
	}
	for _, pass := range passes {
		if result, done := pass(instanceID, header, tree); done {
			return result
		}
	}
	return Result{Valid: true}
}

// headerVersionPass enforces template versioning. When enabled it is the
// whole of header validation and always decides the outcome, matching the
// strict short-circuit the version check has always had.
func (v *Validator) headerVersionPass(instanceID string, _ map[string]any, _ *markdown.Node) (Result, bool) {
	if !v.cfg.ValidateHeader || !v.cfg.TemplateVersion {
		return Result{}, false
	}
	version, result := v.requireTemplateVersion(instanceID)
	if !result.Valid {
		return result, true
	}
	declared, ok := v.cfg.Header[VersionKey]
	if !ok {
		return invalid(PassTemplateVersion, "template %s declares no %s field", v.cfg.TemplatePath, VersionKey), true
	}
	if fmt.Sprintf("%v", declared) != version {
		return invalid(PassTemplateVersion, "template %s field %s does not match %s",
			v.cfg.TemplatePath, VersionKey, TemplateVersionKey), true
	}
	return valid(PassTemplateVersion), true
}

func (v *Validator) requireTemplateVersion(instanceID string) (string, Result) {
	raw, ok := v.cfg.Header[TemplateVersionKey]
	if !ok {
		return "", invalid(PassTemplateVersion, "template %s has no %s key", v.cfg.TemplatePath, TemplateVersionKey)
	}
	version := fmt.Sprintf("%v", raw)
	if !strings.Contains(instanceID, version) {
		return "", invalid(PassTemplateVersion, "instance %s does not carry template version %s", instanceID, version)
	}
	return version, valid(PassTemplateVersion)
}

func (v *Validator) headerKeysPass(instanceID string, header map[string]any, _ *markdown.Node) (Result, bool) {
	if !v.cfg.ValidateHeader || v.cfg.TemplateVersion {
		return Result{}, false
	}
	if !CompareKeys(v.header, NormalizeHeader(header)) {
		return invalid(PassHeaderKeys, "header mismatch between template %s and instance %s",
			v.cfg.TemplatePath, instanceID), true
	}
	if !v.cfg.ValidateBody {
		return valid(PassHeaderKeys), true
	}
	return Result{}, false
}

func (v *Validator) governedSectionPass(instanceID string, _ map[string]any, tree *markdown.Node) (Result, bool) {
	if v.governed == "" {
		return Result{}, false
	}
	node := tree.GetNodeForKey(v.governed, false)
	if node == nil {
		return invalid(PassGovernedSection, "governed section %q not found in instance %s", v.governed, instanceID), true
	}
	if result := v.matchOrderedKeys(PassGovernedSection, instanceID, v.governedKeys, node.GovernedKeys()); !result.Valid {
		return result, true
	}
	return Result{}, false
}

func (v *Validator) bodyHeadingsPass(instanceID string, _ map[string]any, tree *markdown.Node) (Result, bool) {
	if !v.cfg.ValidateBody {
		return Result{}, false
	}
	if v.cfg.TemplateVersion {
		if _, result := v.requireTemplateVersion(instanceID); !result.Valid {
			return result, true
		}
	}

	instanceKeys := tree.AllHeaderKeys()
	if v.lvl1TotalCount < len(tree.AllHeadersForLevel(1)) {
		return invalid(PassBodyHeadings, "new level-1 headings were added to instance %s", instanceID), true
	}
	if result := v.matchOrderedKeys(PassBodyHeadings, instanceID, v.templateKeys, instanceKeys); !result.Valid {
		return result, true
	}
	return valid(PassBodyHeadings), true
}

// matchOrderedKeys walks the instance keys against the template keys as a
// placeholder-tolerant ordered subsequence. Instances may add headings but
// never drop, rename, or reorder a required one. A placeholder heading is
// satisfied by template position alone and does not consume an instance key,
// so an instance may be shorter than its template and still conform.
func (v *Validator) matchOrderedKeys(pass, instanceID string, templateKeys, instanceKeys []string) Result {
	inTemplate := make(map[string]struct{}, len(templateKeys))
	for _, key := range templateKeys {
		inTemplate[key] = struct{}{}
	}

	pointer := 0
	for i := 0; i < len(instanceKeys); {
		if pointer >= len(templateKeys) {
			break
		}
		key := instanceKeys[i]
		switch {
		case key == templateKeys[pointer]:
			pointer++
			i++
		case v.isPlaceholder(templateKeys[pointer]):
			pointer++
		default:
			if _, present := inTemplate[key]; present {
				return invalid(pass, "headings in instance %s were shuffled or modified", instanceID)
			}
			i++
		}
	}
	for pointer < len(templateKeys) && v.isPlaceholder(templateKeys[pointer]) {
		pointer++
	}
	if pointer != len(templateKeys) {
		return invalid(pass, "headings in instance %s were removed", instanceID)
	}
	return valid(pass)
}
