// Package compiledb loads a clang compilation database and selects the
// translation units to analyse.
//
// See: https://clang.llvm.org/docs/JSONCompilationDatabase.html
package compiledb

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileName is the name CMake and mach give the database.
const DefaultFileName = "compile_commands.json"

// Entry is one compile command. Only File is required by tidyrun;
// the rest is kept for diagnostics and for clang-tidy itself (-p).
type Entry struct {
	Directory string   `json:"directory"`
	File      string   `json:"file"`
	Command   string   `json:"command,omitempty"`
	Arguments []string `json:"arguments,omitempty"`
	Output    string   `json:"output,omitempty"`
}

// Database is a loaded compilation database.
type Database struct {
	// Path is the file the database was loaded from.
	Path    string
	Entries []Entry
}

// LoadError is returned when the database cannot be read or decoded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("cannot load compile database %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

var errNoFile = errors.New("entry has no file")

// Load reads a compile_commands.json file.
func Load(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	for i, e := range entries {
		if e.File == "" {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("entry %d: %w", i, errNoFile)}
		}
	}

	return &Database{Path: path, Entries: entries}, nil
}

// Files returns the file of every entry, in database order. Relative files
// are resolved against the entry's directory. A file compiled more than
// once is listed once.
func (db *Database) Files() []string {
	seen := make(map[string]bool, len(db.Entries))
	files := make([]string, 0, len(db.Entries))
	for _, e := range db.Entries {
		file := e.File
		if !filepath.IsAbs(file) && e.Directory != "" {
			file = filepath.Join(e.Directory, file)
		}
		if seen[file] {
			continue
		}
		seen[file] = true
		files = append(files, file)
	}
	return files
}
