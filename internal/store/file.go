package store

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/smartbooker/backend/internal/model"
)

// FileStore persists the snapshot as an indented JSON array in a single
// file. Absent or corrupt files are treated as an empty snapshot rather
// than an error, so a damaged file never takes the service down.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Ensure creates the backing file with an empty snapshot if it does not
// exist yet.
func (s *FileStore) Ensure(ctx context.Context) error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return s.Save(ctx, nil)
}

func (s *FileStore) Load(_ context.Context) ([]model.Appointment, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []model.Appointment{}, nil
		}
		return nil, err
	}

	var appointments []model.Appointment
	if err := json.Unmarshal(raw, &appointments); err != nil {
		// Fail soft: a malformed file reads as empty.
		return []model.Appointment{}, nil
	}
	if appointments == nil {
		appointments = []model.Appointment{}
	}
	return appointments, nil
}

func (s *FileStore) Save(_ context.Context, appointments []model.Appointment) error {
	if appointments == nil {
		appointments = []model.Appointment{}
	}
	raw, err := json.MarshalIndent(appointments, "", "  ")
	if err != nil {
		return err
	}

	// Write via a temp file + rename so a crash mid-write never leaves a
	// truncated snapshot behind.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
