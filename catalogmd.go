// Package catalogmd maintains a bidirectional mapping between a structured
// compliance catalog and a human-editable markdown rendition of the same
// content, plus structural validation of edited markdown against templates.
package catalogmd

import (
	"context"

	"github.com/catalogmd/catalogmd/author"
	"github.com/catalogmd/catalogmd/catalog"
	"github.com/catalogmd/catalogmd/internal/logging"
	"github.com/catalogmd/catalogmd/internal/logging/gologger"
	"github.com/catalogmd/catalogmd/pkg/interfaces"
)

// Re-exported contracts so consumers wire against one package.
type (
	Catalog        = catalog.Catalog
	Control        = catalog.Control
	Profile        = catalog.Profile
	InstanceResult = author.InstanceResult
)

// Toolkit bundles the generate, assemble, and validate services behind one
// configured entry point.
type Toolkit struct {
	cfg        Config
	provider   interfaces.LoggerProvider
	catalogLog interfaces.Logger
	generator  *author.Generator
	assembler  *author.Assembler
	validator  *author.TemplateValidator
}

// Option adjusts toolkit construction.
type Option func(*Toolkit)

// WithLoggerProvider substitutes the logging backend, e.g. for tests.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(t *Toolkit) {
		t.provider = provider
	}
}

// New validates the configuration and wires the services.
func New(cfg Config, opts ...Option) (*Toolkit, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t := &Toolkit{cfg: cfg}
	for _, opt := range opts {
		opt(t)
	}

	if t.provider == nil && cfg.Logging.Enabled {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
		if err != nil {
			return nil, err
		}
		t.provider = provider
	}

	t.catalogLog = logging.CatalogLogger(t.provider)
	t.generator = author.NewGenerator(t.provider)
	t.assembler = author.NewAssembler(t.provider)
	t.validator = author.NewTemplateValidator(t.provider)
	return t, nil
}

// Generate renders catalogPath's controls as markdown under outDir. The
// optional header mapping is merged into every control's front matter and an
// optional profile supplies parameter overrides.
func (t *Toolkit) Generate(ctx context.Context, catalogPath, outDir string, header map[string]any, profile *catalog.Profile) error {
	cat, err := catalog.ReadFile(catalogPath, catalog.ReadOptions{ValidateSchema: t.cfg.Schema.Validate})
	if err != nil {
		return err
	}
	t.catalogLog.Debug("catalog document loaded", "path", catalogPath)
	return t.generator.WriteCatalogAsMarkdown(ctx, cat, outDir, author.GenerateOptions{
		Header:         header,
		Profile:        profile,
		ParamSeparator: t.cfg.Markdown.ParamSeparator,
	})
}

// Assemble reads edited markdown under mdDir back into a catalog document at
// outPath, merging against the optional original catalog.
func (t *Toolkit) Assemble(ctx context.Context, mdDir, outPath, originalPath string) error {
	var original *catalog.Catalog
	if originalPath != "" {
		var err error
		original, err = catalog.ReadFile(originalPath, catalog.ReadOptions{ValidateSchema: t.cfg.Schema.Validate})
		if err != nil {
			return err
		}
		t.catalogLog.Debug("original catalog loaded", "path", originalPath)
	}

	assembled, err := t.assembler.Assemble(ctx, mdDir, author.AssembleOptions{
		Original:      original,
		SetParameters: t.cfg.Assemble.SetParameters,
		Version:       t.cfg.Assemble.Version,
	})
	if err != nil {
		return err
	}
	if err := catalog.WriteFile(outPath, assembled); err != nil {
		return err
	}
	t.catalogLog.Info("assembled catalog written", "path", outPath)
	return nil
}

// Validate checks every markdown instance under instanceDir against the
// template at templatePath, returning one result per instance.
func (t *Toolkit) Validate(ctx context.Context, templatePath, instanceDir string) ([]InstanceResult, error) {
	return t.validator.ValidateDirectory(ctx, templatePath, instanceDir, author.TemplateOptions{
		ValidateHeader:     t.cfg.Template.ValidateHeader,
		ValidateBody:       t.cfg.Template.ValidateBody,
		TemplateVersion:    t.cfg.Template.TemplateVersion,
		GovernedHeading:    t.cfg.Template.GovernedHeading,
		PlaceholderPattern: t.cfg.Template.PlaceholderPattern,
	})
}

// Logger exposes the module root logger, mostly for embedding applications.
func (t *Toolkit) Logger() interfaces.Logger {
	return logging.ModuleLogger(t.provider, "")
}
