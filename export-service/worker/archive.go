package worker

import (
	"fmt"
	"os"
	"path/filepath"

	"flightlink/shared/export"
	sharedmodels "flightlink/shared/models"

	"github.com/gosimple/slug"
)

// Archiver writes export workbooks into a directory.
type Archiver struct {
	dir string
}

func NewArchiver(dir string) (*Archiver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir %s: %w", dir, err)
	}
	return &Archiver{dir: dir}, nil
}

// FileName is <origin>-<destination>-<search id>.xlsx with the cities slugged.
func FileName(result sharedmodels.SearchResult) string {
	return fmt.Sprintf("%s-%s-%s.xlsx",
		slug.Make(result.Request.From),
		slug.Make(result.Request.To),
		result.SearchID,
	)
}

func (a *Archiver) Write(result sharedmodels.SearchResult) (string, error) {
	path := filepath.Join(a.dir, FileName(result))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if err := export.WriteExcel(f, result); err != nil {
		f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}
