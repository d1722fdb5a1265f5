// Package jar reads class files out of jar archives and directories.
package jar

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/mholt/archives"
	"github.com/tliron/commonlog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/stubgen/classfile"
)

var log = commonlog.GetLogger("stubgen.jar")

type entry struct {
	name string
	data []byte
}

// ReadClasses decodes every class file in the jar or directory at path.
// Entries are decoded by up to workers goroutines, or one per CPU when
// workers is zero. The result follows class name order.
func ReadClasses(ctx context.Context, path string, workers int) ([]*classfile.ClassNode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	var entries []entry
	if info.IsDir() {
		entries, err = readDir(path)
	} else {
		entries, err = readArchive(ctx, path)
	}
	if err != nil {
		return nil, err
	}
	sortEntries(entries)
	nodes, err := decode(ctx, entries, workers)
	if err != nil {
		return nil, err
	}
	log.Infof("read %d classes from %s", len(nodes), path)
	return nodes, nil
}

func isClassEntry(name string) bool {
	if !strings.HasSuffix(name, ".class") || strings.HasPrefix(name, "META-INF/") {
		return false
	}
	base := name[strings.LastIndexByte(name, '/')+1:]
	return base != "module-info.class"
}

func readArchive(ctx context.Context, path string) ([]entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	var entries []entry
	var zip archives.Zip
	err = zip.Extract(ctx, f, func(ctx context.Context, info archives.FileInfo) error {
		if info.IsDir() || !isClassEntry(info.NameInArchive) {
			return nil
		}
		rc, err := info.Open()
		if err != nil {
			return errors.WithStack(err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return errors.Errorf("failed to read %s: %w", info.NameInArchive, err)
		}
		entries = append(entries, entry{name: info.NameInArchive, data: data})
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("failed to extract %s: %w", path, err)
	}
	return entries, nil
}

// sortEntries orders entries by class name, so an outer class comes
// before the classes nested in it.
func sortEntries(entries []entry) {
	sort.Slice(entries, func(i, j int) bool {
		return strings.TrimSuffix(entries[i].name, ".class") < strings.TrimSuffix(entries[j].name, ".class")
	})
}

func readDir(root string) ([]entry, error) {
	var entries []entry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !isClassEntry(rel) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		entries = append(entries, entry{name: rel, data: data})
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return entries, nil
}

func decode(ctx context.Context, entries []entry, workers int) ([]*classfile.ClassNode, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	nodes := make([]*classfile.ClassNode, len(entries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, e := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			node, err := classfile.ReadClassBytes(e.data)
			if err != nil {
				return errors.Errorf("failed to decode %s: %w", e.name, err)
			}
			nodes[i] = node
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return nodes, nil
}

// ScanLibraries reads every jar under dir and returns the nesting records
// found in the InnerClasses attributes of their classes. Jars are read
// concurrently; the records keep jar path order.
func ScanLibraries(ctx context.Context, dir string, workers int) ([]classfile.InnerClassNode, error) {
	var jars []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".jar") {
			jars = append(jars, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("failed to scan libraries in %s: %w", dir, err)
	}
	sort.Strings(jars)

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	found := make([][]classfile.InnerClassNode, len(jars))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range jars {
		g.Go(func() error {
			entries, err := readArchive(ctx, path)
			if err != nil {
				return err
			}
			sortEntries(entries)
			for _, e := range entries {
				node, err := classfile.ReadClassBytes(e.data)
				if err != nil {
					log.Warningf("skipping %s in %s: %s", e.name, path, err)
					continue
				}
				found[i] = append(found[i], node.InnerClasses...)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var records []classfile.InnerClassNode
	for _, list := range found {
		records = append(records, list...)
	}
	log.Infof("scanned %d library jars in %s", len(jars), dir)
	return records, nil
}
