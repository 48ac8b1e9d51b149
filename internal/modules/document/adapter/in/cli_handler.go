package in

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"folio/internal/modules/document/dto"
	documentin "folio/internal/modules/document/port/in"
)

type CLIHandler struct {
	usecase documentin.Usecase
}

func NewCLIHandler(usecase documentin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// ImportFile imports the file at path. An empty name falls back to the file
// name without its extension.
func (h CLIHandler) ImportFile(ctx context.Context, path, name string, tags []string) (dto.EntryOutput, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return dto.EntryOutput{}, fmt.Errorf("read %s: %w", path, err)
	}
	if strings.TrimSpace(name) == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return h.usecase.Import(ctx, dto.ImportInput{DisplayName: name, Bytes: raw, Tags: tags})
}
