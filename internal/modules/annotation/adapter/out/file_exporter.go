package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	annotationout "folio/internal/modules/annotation/port/out"
	"folio/internal/platform/slug"
)

// FileExporter writes exports as markdown files, by default into dir.
type FileExporter struct {
	dir string
}

func NewFileExporter(dir string) annotationout.Exporter {
	return &FileExporter{dir: dir}
}

func (e *FileExporter) Write(_ context.Context, path, name, content string) (string, error) {
	if path == "" {
		path = filepath.Join(e.dir, slug.Make(name)+".md")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
