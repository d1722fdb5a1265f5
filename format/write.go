package format

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/stubgen/java"
)

// TreeWriter writes one .java file per top-level class, laid out in
// package directories under Dir.
type TreeWriter struct {
	Dir string
	// Clean removes Dir before writing.
	Clean   bool
	Workers int
}

// Path returns the file a top-level class is written to.
func (w *TreeWriter) Path(class *java.ClassModel) string {
	return filepath.Join(w.Dir, filepath.FromSlash(strings.ReplaceAll(class.Package, ".", "/")), class.SimpleName+".java")
}

// Write renders classes concurrently and returns the number of files
// written.
func (w *TreeWriter) Write(ctx context.Context, classes []*java.ClassModel) (int, error) {
	if w.Dir == "" {
		return 0, errors.New("no output directory")
	}
	if w.Clean {
		if filepath.Clean(w.Dir) == string(filepath.Separator) {
			return 0, errors.Errorf("refusing to clean %s", w.Dir)
		}
		if err := os.RemoveAll(w.Dir); err != nil {
			return 0, errors.Errorf("failed to clean output directory: %w", err)
		}
	}

	workers := w.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, class := range classes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return w.writeFile(class)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	log.Infof("wrote %d files to %s", len(classes), w.Dir)
	return len(classes), nil
}

func (w *TreeWriter) writeFile(class *java.ClassModel) error {
	path := w.Path(class)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WithStack(err)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := NewJavaEncoder(f).Encode(class); err != nil {
		f.Close()
		return errors.Errorf("failed to write %s: %w", class.Name, err)
	}
	if err := f.Close(); err != nil {
		return errors.WithStack(err)
	}
	log.Debugf("wrote %s", path)
	return nil
}
