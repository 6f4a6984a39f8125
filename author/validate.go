package author

import (
	"context"
	"fmt"
	"os"

	"github.com/catalogmd/catalogmd/catalog"
	"github.com/catalogmd/catalogmd/internal/logging"
	"github.com/catalogmd/catalogmd/internal/markdown"
	"github.com/catalogmd/catalogmd/internal/template"
	"github.com/catalogmd/catalogmd/pkg/interfaces"
)

// TemplateOptions configure a template validation walk.
type TemplateOptions struct {
	ValidateHeader  bool
	ValidateBody    bool
	TemplateVersion bool
	// GovernedHeading names the heading whose key/value body must stay
	// complete. Empty disables the governed check.
	GovernedHeading string
	// PlaceholderPattern overrides the substitution-heading regex.
	PlaceholderPattern string
}

// InstanceResult pairs one validated instance with its conformance result.
type InstanceResult struct {
	Path   string
	Result template.Result
}

// TemplateValidator walks instance directories against one markdown template.
type TemplateValidator struct {
	logger interfaces.Logger
}

// NewTemplateValidator builds a walker; provider may be nil.
func NewTemplateValidator(provider interfaces.LoggerProvider) *TemplateValidator {
	return &TemplateValidator{logger: logging.TemplateLogger(provider)}
}

// ValidateDirectory checks every markdown file under instanceDir against the
// template at templatePath. Non-conformance never aborts the walk; each
// instance gets its own result and a logged reason. IO failures do abort.
func (t *TemplateValidator) ValidateDirectory(ctx context.Context, templatePath, instanceDir string, opts TemplateOptions) ([]InstanceResult, error) {
	validator, err := t.loadTemplate(templatePath, opts)
	if err != nil {
		return nil, err
	}

	paths, err := catalog.SortedControlPaths(instanceDir)
	if err != nil {
		return nil, wrapTemplateError(err)
	}

	results := make([]InstanceResult, 0, len(paths))
	for _, path := range paths {
		select {
		case <-ctx.Done():
			return nil, wrapTemplateError(ctx.Err())
		default:
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, wrapTemplateError(fmt.Errorf("author: read %s: %w", path, err))
		}

		result := t.validateInstance(validator, path, data)
		if !result.Valid {
			logging.WithAuthorContext(t.logger, "", instanceDir, path).
				Info("instance failed template validation", "pass", result.Pass, "reason", result.Reason)
		}
		results = append(results, InstanceResult{Path: path, Result: result})
	}
	return results, nil
}

func (t *TemplateValidator) validateInstance(validator *template.Validator, path string, data []byte) template.Result {
	header, body, err := markdown.ParseDocument(data)
	if err != nil {
		return template.Result{Reason: fmt.Sprintf("instance %s is not parseable: %v", path, err)}
	}
	return validator.Validate(path, header, markdown.ParseTree(body))
}

func (t *TemplateValidator) loadTemplate(templatePath string, opts TemplateOptions) (*template.Validator, error) {
	data, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, wrapTemplateError(fmt.Errorf("author: read template %s: %w", templatePath, err))
	}
	header, body, err := markdown.ParseDocument(data)
	if err != nil {
		return nil, wrapTemplateError(err)
	}

	matcher, err := template.PlaceholderFromPattern(opts.PlaceholderPattern)
	if err != nil {
		return nil, wrapTemplateError(err)
	}
	validator, err := template.NewValidator(template.Config{
		TemplatePath:    templatePath,
		Header:          header,
		Tree:            markdown.ParseTree(body),
		ValidateHeader:  opts.ValidateHeader,
		ValidateBody:    opts.ValidateBody,
		TemplateVersion: opts.TemplateVersion,
		GovernedHeading: opts.GovernedHeading,
		IsPlaceholder:   matcher,
	})
	if err != nil {
		return nil, wrapTemplateError(err)
	}
	return validator, nil
}
