package blob

import (
	"biochemreg/internal/infra/blob/fs"
)

// NewFilesystem constructs a report sink rooted at the provided directory.
func NewFilesystem(root string) (Store, error) {
	return fs.New(root)
}
