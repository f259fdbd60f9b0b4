package assets

import (
	"bytes"
	"fmt"

	"github.com/qmuntal/gltf"
)

// LoadModel reads a binary glTF (GLB) asset.
func LoadModel(name string) (*gltf.Document, error) {
	b, err := Read(name)
	if err != nil {
		return nil, err
	}
	doc, err := DecodeModel(b)
	if err != nil {
		return nil, fmt.Errorf("decode model %q: %w", name, err)
	}
	return doc, nil
}

// DecodeModel parses a GLB held in memory. External buffer URIs are not
// resolved; the binary chunk must carry all data.
func DecodeModel(b []byte) (*gltf.Document, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(b)).Decode(doc); err != nil {
		return nil, err
	}
	return doc, nil
}
