package main

import (
	"fmt"
	"io"
	"os"

	"github.com/hubastard/skelview/engine/anim"
	"github.com/hubastard/skelview/engine/assets"
	"github.com/hubastard/skelview/engine/scene"
	"github.com/qmuntal/gltf"
	"github.com/spf13/cobra"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <model.glb>",
		Short: "List the skeleton and animation clips of a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			doc, err := assets.DecodeModel(b)
			if err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}
			return describeModel(cmd.OutOrStdout(), args[0], doc)
		},
	}
}

func describeModel(w io.Writer, name string, doc *gltf.Document) error {
	a, err := anim.NewAnimator(doc)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Model: %s\n", name)
	fmt.Fprintf(w, "Nodes: %d (%d root)\n", len(doc.Nodes), len(scene.RootEntities(doc)))
	fmt.Fprintf(w, "Bones: %d\n", len(a.Bones()))
	if _, _, ok := scene.Bounds(doc); ok {
		fmt.Fprintln(w, "Meshes: yes")
	} else {
		fmt.Fprintln(w, "Meshes: none, framed by joints")
	}
	n := a.AnimationCount()
	fmt.Fprintf(w, "Animations: %d\n", n)
	for i := 0; i < n; i++ {
		fmt.Fprintf(w, "  %d. %s (%.2fs)\n", i+1, a.Name(i), a.Duration(i))
	}
	return nil
}
