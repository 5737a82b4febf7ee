package opiniao

import (
	"fmt"
	"os"
	"path/filepath"
)

// Source reads questionnaire exports from a directory.
type Source struct {
	Dir string
}

// Raw returns the export of an audience exactly as stored.
func (s Source) Raw(a Audience) ([]byte, error) {
	q, err := For(a)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(s.Dir, q.File)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return raw, nil
}

// Records returns the decoded records of an audience's export.
func (s Source) Records(a Audience) ([]Record, error) {
	raw, err := s.Raw(a)
	if err != nil {
		return nil, err
	}
	return Decode(raw)
}
