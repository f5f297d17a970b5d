package filesystem

import (
	"os"

	"scheduled-uploader/domain/schedule"
)

// Checker implements schedule.FileChecker using the os package
type Checker struct{}

// NewChecker creates a new filesystem checker
func NewChecker() *Checker {
	return &Checker{}
}

// Exists returns true if path names an existing file that is not a directory
func (c *Checker) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Ensure Checker implements schedule.FileChecker
var _ schedule.FileChecker = (*Checker)(nil)
