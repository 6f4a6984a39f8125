package author

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

var (
	ErrNoMarkdownControls = errors.New("author: no control markdown found")
	ErrControlIDMismatch  = errors.New("author: file name does not match control id")
)

const (
	generateFailedCode = "CATALOG_GENERATE_FAILED"
	assembleFailedCode = "CATALOG_ASSEMBLE_FAILED"
	templateLoadCode   = "TEMPLATE_LOAD_FAILED"
)

func wrapGenerateError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "catalog generate failed").
		WithTextCode(generateFailedCode)
}

func wrapAssembleError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "catalog assemble failed").
		WithTextCode(assembleFailedCode)
}

func wrapTemplateError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "template load failed").
		WithTextCode(templateLoadCode)
}
