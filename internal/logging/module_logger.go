package logging

import (
	"context"
	"strings"

	"github.com/catalogmd/catalogmd/pkg/interfaces"
)

const (
	rootModule     = "catalogmd"
	catalogModule  = "catalogmd.catalog"
	authorModule   = "catalogmd.author"
	templateModule = "catalogmd.template"
)

const (
	fieldControlID   = "control_id"
	fieldMarkdownDir = "markdown_dir"
	fieldInstance    = "instance"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// CatalogLogger returns the logger namespace reserved for catalog indexing.
func CatalogLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, catalogModule)
}

// AuthorLogger returns the logger namespace reserved for generate/assemble.
func AuthorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, authorModule)
}

// TemplateLogger returns the logger namespace reserved for template validation.
func TemplateLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, templateModule)
}

// WithAuthorContext enriches the provided logger with common authoring fields
// such as the control id, the markdown directory, and the instance under
// validation. Empty values are ignored.
func WithAuthorContext(logger interfaces.Logger, controlID, markdownDir, instance string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(controlID); trimmed != "" {
		fields[fieldControlID] = trimmed
	}
	if trimmed := strings.TrimSpace(markdownDir); trimmed != "" {
		fields[fieldMarkdownDir] = trimmed
	}
	if trimmed := strings.TrimSpace(instance); trimmed != "" {
		fields[fieldInstance] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
