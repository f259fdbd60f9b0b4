package assets

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
)

func TestLoadModel(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Nodes = []*gltf.Node{{Name: "root"}}
	doc.Animations = []*gltf.Animation{{Name: "idle"}}

	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		t.Fatalf("encode: %v", err)
	}

	old := Root
	Root = t.TempDir()
	t.Cleanup(func() { Root = old })
	if err := os.WriteFile(filepath.Join(Root, "skeleton.glb"), buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := LoadModel("skeleton.glb")
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	if len(got.Nodes) != 1 || got.Nodes[0].Name != "root" {
		t.Fatalf("nodes %v", got.Nodes)
	}
	if len(got.Animations) != 1 || got.Animations[0].Name != "idle" {
		t.Fatalf("animations %v", got.Animations)
	}

	if _, err := LoadModel("missing.glb"); err == nil {
		t.Fatalf("missing asset loaded")
	}
}

func TestDecodeModelRejectsGarbage(t *testing.T) {
	if _, err := DecodeModel([]byte{0x00, 0x01, 0x02}); err == nil {
		t.Fatalf("garbage decoded as a model")
	}
}
