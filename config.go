package catalogmd

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/catalogmd/catalogmd/internal/template"
)

// Config is the full configuration surface of the toolkit.
type Config struct {
	Markdown MarkdownConfig
	Template TemplateConfig
	Assemble AssembleConfig
	Schema   SchemaConfig
	Logging  LoggingConfig
}

// MarkdownConfig tunes how controls render to markdown.
type MarkdownConfig struct {
	// ParamSeparator joins multiple parameter values for display.
	ParamSeparator string
}

// TemplateConfig carries the template validation surface.
type TemplateConfig struct {
	ValidateHeader  bool
	ValidateBody    bool
	TemplateVersion bool
	GovernedHeading string
	// PlaceholderPattern recognizes substitution headings; empty selects
	// the default moustache pattern.
	PlaceholderPattern string
}

// AssembleConfig carries assemble-time behavior.
type AssembleConfig struct {
	// SetParameters lets edited markdown overwrite parameter values.
	SetParameters bool
	// Version overrides the assembled catalog's version string.
	Version string
}

// SchemaConfig enables structural validation of catalog JSON input.
type SchemaConfig struct {
	Validate bool
}

// LoggingConfig selects the go-logger backend behavior.
type LoggingConfig struct {
	Enabled   bool
	Level     string
	Format    string
	AddSource bool
	// Focus limits debug output to the named modules, e.g. "catalogmd.author".
	Focus []string
}

// DefaultConfig returns the configuration generate/assemble use out of the
// box: header and body validation on, no governed heading, JSON logging at
// info.
func DefaultConfig() Config {
	return Config{
		Markdown: MarkdownConfig{ParamSeparator: ", "},
		Template: TemplateConfig{
			ValidateHeader:     true,
			ValidateBody:       true,
			PlaceholderPattern: template.DefaultPlaceholderPattern,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			Format:  "json",
		},
	}
}

// Validate checks the configuration for values the runtime cannot honor.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c.Logging,
		validation.Field(&c.Logging.Level,
			validation.In("", "trace", "debug", "info", "warn", "warning", "error", "fatal")),
		validation.Field(&c.Logging.Format,
			validation.In("", "json", "console", "pretty")),
	)
	if err != nil {
		return err
	}
	return validation.ValidateStruct(&c.Template,
		validation.Field(&c.Template.PlaceholderPattern, validation.By(compilable)),
	)
}

func compilable(value any) error {
	pattern, _ := value.(string)
	if pattern == "" {
		return nil
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return validation.NewError("catalogmd.placeholder_pattern_invalid",
			"placeholder pattern must be a valid regular expression")
	}
	return nil
}
