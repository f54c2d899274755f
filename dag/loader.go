package dag

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// declarationExts are tried in order when a file is loaded by name.
var declarationExts = []string{".yaml", ".yml", ".hcl"}

// DeclarationLoader loads declaration files by name.
type DeclarationLoader interface {
	Load(name string) (*DeclarationFile, error)
}

// FileDeclarationLoader loads declaration files from YAML files on disk.
type FileDeclarationLoader struct {
	dirs []string
}

// NewFileDeclarationLoader creates a loader that searches the given directories.
func NewFileDeclarationLoader(dirs ...string) DeclarationLoader {
	return &FileDeclarationLoader{dirs: dirs}
}

// Load searches for {name}.yaml, {name}.yml and {name}.hcl in each
// directory, then in their immediate subdirectories. A file that exists but
// does not parse is an error, not a miss.
func (l *FileDeclarationLoader) Load(name string) (*DeclarationFile, error) {
	for _, dir := range l.dirs {
		for _, ext := range declarationExts {
			candidates := []string{filepath.Join(dir, name+ext)}
			matches, _ := filepath.Glob(filepath.Join(dir, "*", name+ext))
			candidates = append(candidates, matches...)

			for _, path := range candidates {
				f, err := loadDeclarationFile(path)
				if err == nil {
					return f, nil
				}
				if !errors.Is(err, fs.ErrNotExist) {
					return nil, fmt.Errorf("dag: loading %s: %w", path, err)
				}
			}
		}
	}
	return nil, fmt.Errorf("dag: declaration file %q not found in %v", name, l.dirs)
}

func loadDeclarationFile(path string) (*DeclarationFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if filepath.Ext(path) == ".hcl" {
		return ParseHCLDeclarationFile(data, path)
	}
	return ParseDeclarationFile(data)
}

// ParseDeclarationFile decodes a YAML declaration document.
func ParseDeclarationFile(data []byte) (*DeclarationFile, error) {
	var f DeclarationFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("dag: parsing declarations: %w", err)
	}
	return &f, nil
}

// LoadDeclarationFile loads a declaration file from explicit paths,
// returning the first one that parses.
func LoadDeclarationFile(name string, paths ...string) (*DeclarationFile, error) {
	var lastErr error
	for _, path := range paths {
		f, err := loadDeclarationFile(path)
		if err == nil {
			return f, nil
		}
		lastErr = err
	}
	if lastErr != nil {
		return nil, fmt.Errorf("dag: declaration file %q not found in provided paths: %w", name, lastErr)
	}
	return nil, fmt.Errorf("dag: declaration file %q not found in provided paths", name)
}
