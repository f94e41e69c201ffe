// Package source holds the assembly files handed to the assembler.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File is one named input.
type File struct {
	Name    string
	Content string
}

// Lines splits the content into lines without their terminators.
func (f *File) Lines() []string {
	lines := strings.Split(f.Content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Source is the set of files making up one program.
// The first file is the main one.
type Source struct {
	Files []*File
	dir   string
}

// Load reads the main file from disk.
func Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return &Source{
		Files: []*File{{Name: path, Content: string(data)}},
		dir:   filepath.Dir(path),
	}, nil
}

// FromString builds a source from memory. Includes resolve against the working directory.
func FromString(name, content string) *Source {
	return &Source{Files: []*File{{Name: name, Content: content}}, dir: "."}
}

// Main returns the main file.
func (s *Source) Main() *File {
	if len(s.Files) == 0 {
		return &File{}
	}
	return s.Files[0]
}

// SetDir changes the directory includes are resolved against.
func (s *Source) SetDir(dir string) { s.dir = dir }

// Resolve returns the path of an included file.
func (s *Source) Resolve(include string) string {
	if filepath.IsAbs(include) {
		return include
	}
	return filepath.Join(s.dir, include)
}
