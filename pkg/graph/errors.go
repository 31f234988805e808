package graph

import "errors"

var (
	// ErrMissingIdNum rejects a row without a catalog identifier.
	ErrMissingIdNum = errors.New("missing IdNum")

	// ErrMissingTitle rejects a row without a title.
	ErrMissingTitle = errors.New("missing Title")

	// ErrUnknownMaterial marks a material code outside the code table. The
	// row is still processed, only the material is dropped.
	ErrUnknownMaterial = errors.New("unrecognized material code")
)
