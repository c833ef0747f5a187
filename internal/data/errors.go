package data

import "errors"

// Shared sentinel errors for data-layer adapters.
var (
	ErrConnectorRequired = errors.New("record store connector is required")
	ErrTableRequired     = errors.New("record store table is required")
	ErrPathRequired      = errors.New("expected backups path is required")
)
