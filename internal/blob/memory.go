package blob

import (
	memorystore "biochemreg/internal/infra/blob/memory"
)

// NewMemory returns an in-memory report sink suitable for tests.
func NewMemory() Store { return memorystore.New() }
