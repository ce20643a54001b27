package workbook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/klytics/sheetkit/internal/sheet"
)

// Build forces every queued sheet in registration order and writes the
// workbook to the destination. Sheet ids are assigned 1, 2, 3... in the order
// sheets were queued. The package is saved to a temporary file next to the
// destination and renamed into place, so a failed build leaves the
// destination as it was. The queue is emptied only once the workbook is in
// place; after a failure it is kept so the build can be retried.
func (b *Builder) Build() (*Manifest, error) {
	start := time.Now()

	if b.path == "" {
		return nil, ErrMissingPath
	}

	info, err := os.Stat(b.path)
	switch {
	case err == nil && info.IsDir():
		return nil, fmt.Errorf("destination %s is a directory", b.path)
	case err == nil && b.policy == FailIfExists:
		return nil, fmt.Errorf("%w: %s — use the overwrite policy or choose another path", ErrAlreadyExists, b.path)
	case err != nil && !os.IsNotExist(err):
		return nil, fmt.Errorf("could not check %s: %w", b.path, err)
	}
	replacing := err == nil
	mode := os.FileMode(0644)
	if replacing {
		mode = info.Mode().Perm()
	}

	pending := b.sheets

	tmp, err := tempPath(b.path)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmp)
		}
	}()

	manifest, err := b.assemble(tmp, pending)
	if err != nil {
		return nil, err
	}

	if err := os.Chmod(tmp, mode); err != nil {
		return nil, fmt.Errorf("could not set permissions on %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		return nil, fmt.Errorf("could not move workbook into place at %s: %w", b.path, err)
	}
	committed = true
	b.sheets = nil
	manifest.Path = b.path

	log.Info().
		Str("path", b.path).
		Int("sheets", len(manifest.Sheets)).
		Int("rows", manifest.RowCount()).
		Bool("replaced", replacing).
		Dur("elapsed", time.Since(start)).
		Msg("built workbook")

	return manifest, nil
}

func (b *Builder) assemble(tmp string, pending []*sheet.Lazy) (*Manifest, error) {
	pkg, err := b.open(tmp)
	if err != nil {
		return nil, fmt.Errorf("could not create workbook package: %w", err)
	}
	defer pkg.Close()

	idx, err := pkg.AddStyle(b.headerStyle)
	if err != nil {
		return nil, err
	}
	if idx != sheet.HeaderStyleIndex {
		return nil, fmt.Errorf("header style landed at index %d, expected %d", idx, sheet.HeaderStyleIndex)
	}

	manifest := &Manifest{Sheets: make([]SheetEntry, 0, len(pending))}
	names := make(map[string]int, len(pending))
	for i, h := range pending {
		id := i + 1

		s, err := h.Force()
		if err != nil {
			return nil, fmt.Errorf("could not build sheet %d: %w", id, err)
		}
		key := strings.ToLower(s.Name)
		if prev, ok := names[key]; ok {
			return nil, fmt.Errorf("%w: sheet %d %q collides with sheet %d", ErrDuplicateSheet, id, s.Name, prev)
		}
		names[key] = id

		part, err := pkg.AddWorksheet(s.Rows)
		if err != nil {
			return nil, fmt.Errorf("could not add sheet %q: %w", s.Name, err)
		}
		if err := pkg.RegisterSheet(part, id, s.Name); err != nil {
			return nil, fmt.Errorf("could not register sheet %q: %w", s.Name, err)
		}

		log.Debug().Int("id", id).Str("sheet", s.Name).Str("part", part).Int("rows", len(s.Rows)).Msg("registered sheet")
		manifest.Sheets = append(manifest.Sheets, SheetEntry{
			ID:    id,
			Name:  s.Name,
			Part:  part,
			Rows:  len(s.Rows),
			Cells: s.CellCount(),
		})
	}

	if err := pkg.Save(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// tempPath reserves a file name in the destination's directory so the final
// rename stays on one file system. The extension is kept because excelize
// picks the content type from it. The file is created 0600; Build sets the
// final mode before the rename.
func tempPath(dest string) (string, error) {
	dir := filepath.Dir(dest)
	f, err := os.CreateTemp(dir, ".sheetkit-*"+filepath.Ext(dest))
	if err != nil {
		return "", fmt.Errorf("could not create temporary file in %s: %w", dir, err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}
