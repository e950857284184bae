// Package store persists named scripts: a TOML registry mapping each name to its
// question and code, plus one executable file per name in the same directory.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"wanna/internal/logger"
	"wanna/internal/naming"
	"wanna/pkg/wannatypes"
)

// RegistryFile is the registry's file name inside the store directory.
const RegistryFile = "config.toml"

// EnvFile is the credentials file the configuration layer reads from the same directory.
const EnvFile = ".env"

var (
	// ErrNotFound is returned for names missing from the registry.
	ErrNotFound = errors.New("script not found")
	// ErrInvalidName is returned for names that cannot be used as file names.
	ErrInvalidName = errors.New("invalid script name")
)

// Store is the registry of saved scripts. It assumes a single process mutates the directory.
type Store struct {
	dir     string
	scripts map[string]wannatypes.NamedScript
}

// Open loads the registry in dir, creating the directory and an empty registry when absent.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create script directory: %w", err)
	}
	s := &Store{dir: dir, scripts: make(map[string]wannatypes.NamedScript)}

	data, err := os.ReadFile(s.RegistryPath())
	if errors.Is(err, os.ErrNotExist) {
		if err := writeAtomic(s.RegistryPath(), nil, 0644); err != nil {
			return nil, fmt.Errorf("failed to create registry: %w", err)
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}

	if err := toml.Unmarshal(data, &s.scripts); err != nil {
		return nil, fmt.Errorf("failed to parse registry %s: %w", s.RegistryPath(), err)
	}
	for name, script := range s.scripts {
		script.Name = name
		s.scripts[name] = script
	}
	logger.Debug("Registry loaded", "path", s.RegistryPath(), "scripts", len(s.scripts))
	return s, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

// RegistryPath returns the path of the registry file.
func (s *Store) RegistryPath() string {
	return filepath.Join(s.dir, RegistryFile)
}

// Path returns the location of the executable for name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// ValidateName rejects names that are not plain file names or that collide with the registry.
func ValidateName(name string) error {
	if !naming.IsSafeName(name) || name == RegistryFile || name == EnvFile {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Save writes code to an executable file named name and records it with question.
// An existing script of the same name is replaced. When the registry cannot be written
// the artifact is restored to its previous state.
func (s *Store) Save(name, code, question string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	path := s.Path(name)
	previous, hadPrevious := s.readArtifact(path)

	if err := writeAtomic(path, []byte(code), 0755); err != nil {
		return fmt.Errorf("failed to write script %s: %w", name, err)
	}

	next := s.copyScripts()
	next[name] = wannatypes.NamedScript{Name: name, Question: question, Code: code}
	if err := s.writeRegistry(next); err != nil {
		s.restoreArtifact(path, previous, hadPrevious)
		return err
	}

	s.scripts = next
	logger.Debug("Script saved", "name", name, "path", path)
	return nil
}

// Remove deletes the executable and the registry entry of name.
// Unknown names return ErrNotFound.
func (s *Store) Remove(name string) error {
	if !s.Exists(name) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	next := s.copyScripts()
	delete(next, name)
	if err := s.writeRegistry(next); err != nil {
		return err
	}
	s.scripts = next

	if err := os.Remove(s.Path(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove script %s: %w", name, err)
	}
	logger.Debug("Script removed", "name", name)
	return nil
}

// Exists reports whether name is registered.
func (s *Store) Exists(name string) bool {
	_, ok := s.scripts[name]
	return ok
}

// Get returns the script registered as name.
func (s *Store) Get(name string) (wannatypes.NamedScript, error) {
	script, ok := s.scripts[name]
	if !ok {
		return wannatypes.NamedScript{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return script, nil
}

// Names returns every registered name in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.scripts))
	for name := range s.scripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns every script sorted by name.
func (s *Store) List() []wannatypes.NamedScript {
	names := s.Names()
	scripts := make([]wannatypes.NamedScript, 0, len(names))
	for _, name := range names {
		scripts = append(scripts, s.scripts[name])
	}
	return scripts
}

// Ideas returns "name ~ question" lines sorted by name.
func (s *Store) Ideas() []string {
	scripts := s.List()
	ideas := make([]string, 0, len(scripts))
	for _, script := range scripts {
		ideas = append(ideas, script.Idea())
	}
	return ideas
}

func (s *Store) copyScripts() map[string]wannatypes.NamedScript {
	next := make(map[string]wannatypes.NamedScript, len(s.scripts)+1)
	for name, script := range s.scripts {
		next[name] = script
	}
	return next
}

func (s *Store) writeRegistry(scripts map[string]wannatypes.NamedScript) error {
	data, err := toml.Marshal(scripts)
	if err != nil {
		return fmt.Errorf("failed to encode registry: %w", err)
	}
	if err := writeAtomic(s.RegistryPath(), data, 0644); err != nil {
		return fmt.Errorf("failed to write registry: %w", err)
	}
	return nil
}

func (s *Store) readArtifact(path string) ([]byte, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (s *Store) restoreArtifact(path string, previous []byte, hadPrevious bool) {
	var err error
	if hadPrevious {
		err = writeAtomic(path, previous, 0755)
	} else {
		err = os.Remove(path)
	}
	if err != nil {
		logger.Error("Could not roll back script", "path", path, "error", err)
	}
}

// writeAtomic writes data to a temporary file next to path and renames it into place.
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
