package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/dhamidi/stubgen/classfile"
	"github.com/dhamidi/stubgen/format"
	"github.com/dhamidi/stubgen/jar"
	"github.com/dhamidi/stubgen/java"
	"github.com/dhamidi/stubgen/mappings"
)

func newDumpCmd() *cobra.Command {
	var (
		dumpFormat   string
		mappingsPath string
		namespace    string
	)

	cmd := &cobra.Command{
		Use:   "dump <input> [<class>]",
		Short: "Print the generated stub of one class, or of every class in a jar",
		Long: `Dump generates stubs like generate does but prints them to standard output.
<input> is a jar, a class directory, or a single .class file. <class> selects
one class by internal (p/Outer$Inner) or source (p.Outer.Inner) name.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := mappings.Empty()
			if mappingsPath != "" {
				var err error
				if store, err = mappings.Load(mappingsPath, namespace); err != nil {
					return err
				}
			}
			nodes, err := readInput(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			gen := java.NewGenerator(java.NewEnvironment(nodes), store)
			roots, err := gen.Generate(nodes)
			if err != nil {
				return err
			}
			if len(args) == 2 {
				class := findClass(roots, args[1])
				if class == nil {
					return errors.Errorf("class %s not found in %s", args[1], args[0])
				}
				roots = []*java.ClassModel{class}
			}

			enc, err := format.NewEncoder(dumpFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			for _, root := range roots {
				if err := enc.Encode(root); err != nil {
					return errors.Errorf("encode %s: %w", root.Name, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dumpFormat, "format", "f", "java", "output format (java, line, json)")
	cmd.Flags().StringVarP(&mappingsPath, "mappings", "m", "", "Tiny v2 mappings file")
	cmd.Flags().StringVarP(&namespace, "namespace", "n", mappings.DefaultNamespace, "mapping namespace to read names from")

	return cmd
}

func readInput(ctx context.Context, path string) ([]*classfile.ClassNode, error) {
	if filepath.Ext(path) != ".class" {
		return jar.ReadClasses(ctx, path, 0)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	node, err := classfile.ReadClassBytes(data)
	if err != nil {
		return nil, errors.Errorf("parse class file %s: %w", path, err)
	}
	return []*classfile.ClassNode{node}, nil
}

func findClass(roots []*java.ClassModel, name string) *java.ClassModel {
	var found *java.ClassModel
	for _, root := range roots {
		root.Walk(func(c *java.ClassModel) {
			if found == nil && (c.Name == name || sourceName(c) == name) {
				found = c
			}
		})
	}
	return found
}

func sourceName(c *java.ClassModel) string {
	return strings.NewReplacer("/", ".", "$", ".").Replace(c.Name)
}
