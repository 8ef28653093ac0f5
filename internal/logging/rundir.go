package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// NewRunDir creates <base>/<run-id> and returns both
func NewRunDir(base string) (id, dir string, err error) {
	id = uuid.NewString()
	dir = filepath.Join(base, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("creating run directory: %w", err)
	}
	return id, dir, nil
}
