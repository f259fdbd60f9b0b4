package assets

import (
	"fmt"
	"os"
	"path/filepath"
)

// Root is the directory bundled assets are read from.
var Root = "assets"

// Path returns the on-disk location of a bundled asset.
func Path(name string) string { return filepath.Join(Root, name) }

// Read loads a bundled asset fully into memory.
func Read(name string) ([]byte, error) {
	b, err := os.ReadFile(Path(name))
	if err != nil {
		return nil, fmt.Errorf("read asset %q: %w", name, err)
	}
	return b, nil
}
