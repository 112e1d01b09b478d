package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrNotFound is returned when a named project does not exist.
var ErrNotFound = errors.New("project not found")

// Store saves and loads named projects.
type Store interface {
	Save(ctx context.Context, name string, p Project) error
	Load(ctx context.Context, name string) (Project, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
}

var validName = regexp.MustCompile(`^[\p{L}\p{N}_. -]+$`)

func checkName(name string) error {
	if strings.TrimSpace(name) == "" || !validName.MatchString(name) || strings.Contains(name, "..") {
		return fmt.Errorf("invalid project name %q", name)
	}
	return nil
}

// FileStore keeps each project as an indented JSON file in a directory.
type FileStore struct {
	mu  sync.RWMutex
	dir string
	log zerolog.Logger
}

// NewFileStore creates a new file store rooted at dir
func NewFileStore(dir string, log zerolog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return &FileStore{
		dir: dir,
		log: log.With().Str("component", "FileStore").Logger(),
	}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Save writes the project to <dir>/<name>.json.
func (s *FileStore) Save(_ context.Context, name string, p Project) error {
	if err := checkName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Metadata == nil {
		p.Metadata = &Metadata{}
	}
	p.Metadata.LastModified = time.Now().UTC().Format(time.RFC3339)

	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		return err
	}

	// write through a temp file, then rename over the old project
	tmp := s.path(name) + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write project: %w", err)
	}
	if err := os.Rename(tmp, s.path(name)); err != nil {
		return fmt.Errorf("failed to write project: %w", err)
	}
	s.log.Debug().Str("project", name).Int("guests", len(p.Guests)).Int("tables", len(p.Tables)).Msg("Saved project")
	return nil
}

// Load reads and adapts <dir>/<name>.json.
func (s *FileStore) Load(_ context.Context, name string) (Project, error) {
	if err := checkName(name); err != nil {
		return Project{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return Project{}, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	if err != nil {
		return Project{}, fmt.Errorf("failed to read file: %w", err)
	}
	defer f.Close()

	p, err := Decode(f)
	if err != nil {
		return Project{}, fmt.Errorf("failed to load project %q: %w", name, err)
	}
	s.log.Debug().Str("project", name).Str("version", p.Version).Msg("Loaded project")
	return p, nil
}

// List returns the saved project names in alphabetical order.
func (s *FileStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes <dir>/<name>.json.
func (s *FileStore) Delete(_ context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to delete project %q: %w", name, err)
	}
	s.log.Info().Str("project", name).Msg("Deleted project")
	return nil
}
