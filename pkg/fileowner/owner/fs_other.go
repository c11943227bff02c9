//go:build !unix

package owner

type unsupportedFileSystem struct{}

func newFileSystem() fileSystem {
	return unsupportedFileSystem{}
}

func (unsupportedFileSystem) Chown(path string, _, _ int, _ bool) error {
	return newError("chown", path, ErrUnsupported, nil)
}

func (unsupportedFileSystem) Stat(path string, _ bool) (uint32, uint32, error) {
	return 0, 0, newError("stat", path, ErrUnsupported, nil)
}
