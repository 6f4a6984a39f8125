package catalog

import "errors"

var (
	ErrControlNotFound  = errors.New("catalog: control not found")
	ErrDuplicateControl = errors.New("catalog: duplicate control id")
	ErrNilCatalog       = errors.New("catalog: catalog is required")
	ErrUnknownFormat    = errors.New("catalog: unknown document format")
)
