package verstat

import (
	"io/fs"
	"os"
)

// FileSystem abstracts filesystem operations for testability.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	IsNotExist(err error) bool
}

type osFS struct{}

func (osFS) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }
func (osFS) IsNotExist(err error) bool             { return os.IsNotExist(err) }
