package artifact

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// FileStore keeps artifacts under dir/<kind>/<name> with a JSON sidecar
// holding the metadata.
type FileStore struct {
	dir string
	now func() time.Time
}

// NewFileStore creates the kind directories under dir.
func NewFileStore(dir string) (*FileStore, error) {
	for _, kind := range []Kind{KindCompressed, KindDecompressed} {
		if err := os.MkdirAll(filepath.Join(dir, string(kind)), 0755); err != nil {
			return nil, err
		}
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

type fileMeta struct {
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *FileStore) Put(ctx context.Context, kind Kind, filename string, data []byte) (Ref, error) {
	ref, err := NewRef(kind, filename)
	if err != nil {
		return Ref{}, err
	}
	ref.Size = int64(len(data))

	meta, err := json.Marshal(fileMeta{Filename: ref.Filename, CreatedAt: s.now().UTC()})
	if err != nil {
		return Ref{}, err
	}
	path := s.path(kind, ref.Name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return Ref{}, err
	}
	if err := os.WriteFile(path+".meta.json", meta, 0644); err != nil {
		os.Remove(path)
		return Ref{}, err
	}
	return ref, nil
}

func (s *FileStore) Get(ctx context.Context, kind Kind, name string) (*Artifact, error) {
	if err := validate(kind, name); err != nil {
		return nil, err
	}
	path := s.path(kind, name)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	a := &Artifact{
		Ref:  Ref{Kind: kind, Name: name, Filename: name, Size: int64(len(data))},
		Data: data,
	}
	if raw, err := os.ReadFile(path + ".meta.json"); err == nil {
		var meta fileMeta
		if json.Unmarshal(raw, &meta) == nil {
			if meta.Filename != "" {
				a.Filename = meta.Filename
			}
			a.CreatedAt = meta.CreatedAt
		}
	}
	return a, nil
}

func (s *FileStore) Delete(ctx context.Context, kind Kind, name string) error {
	if err := validate(kind, name); err != nil {
		return err
	}
	path := s.path(kind, name)
	for _, p := range []string{path, path + ".meta.json"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Close does nothing for the file store.
func (s *FileStore) Close() error { return nil }

// Dir returns the root directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(kind Kind, name string) string {
	return filepath.Join(s.dir, string(kind), name)
}

var _ Store = (*FileStore)(nil)
