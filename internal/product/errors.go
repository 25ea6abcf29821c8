package product

import "errors"

var (
	// ErrDuplicateName is returned when a product with the same name already exists
	ErrDuplicateName = errors.New("product name already exists")
	// ErrNotFound is returned when no product matches the given id
	ErrNotFound = errors.New("product not found")
)
