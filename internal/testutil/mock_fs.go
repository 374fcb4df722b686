package testutil

import (
	"io/fs"
	"os"
)

// MockFS is a mock implementation of verstat.FileSystem for testing.
type MockFS struct {
	StatFunc       func(name string) (fs.FileInfo, error)
	IsNotExistFunc func(err error) bool
}

func (m *MockFS) Stat(name string) (fs.FileInfo, error) {
	if m.StatFunc != nil {
		return m.StatFunc(name)
	}
	return os.Stat(".")
}

func (m *MockFS) IsNotExist(err error) bool {
	if m.IsNotExistFunc != nil {
		return m.IsNotExistFunc(err)
	}
	return os.IsNotExist(err)
}
