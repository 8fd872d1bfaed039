package domain

import "errors"

var (
	// ErrNotFound covers unknown instance ids and runtimes that are absent
	// because the instance is not Ready.
	ErrNotFound = errors.New("not found")

	// ErrInvalidOperation covers caller errors such as deleting a static
	// instance or exceeding the instance quota.
	ErrInvalidOperation = errors.New("invalid operation")
)
