// Package openscad turns OpenSCAD sources into STL models by running the
// openscad binary.
package openscad

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// use <file.scad>, include <file.scad>
var dependencyPattern = regexp.MustCompile(`^\s*(?:use|include)\s*<([^>]+)>`)

// Renderer renders OpenSCAD files to STL
type Renderer struct {
	workDir string
	binary  string
}

// NewRenderer creates a renderer that resolves relative paths against
// workDir and runs binary (looked up in PATH when not absolute).
func NewRenderer(workDir, binary string) *Renderer {
	if binary == "" {
		binary = "openscad"
	}
	return &Renderer{workDir: workDir, binary: binary}
}

// IsSource reports whether path names an OpenSCAD source file
func IsSource(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".scad")
}

// RenderToSTL renders scadFile into outputFile
func (r *Renderer) RenderToSTL(scadFile, outputFile string) error {
	bin, err := exec.LookPath(r.binary)
	if err != nil {
		return fmt.Errorf("%s not found in PATH, install OpenSCAD from https://openscad.org/: %w", r.binary, err)
	}

	cmd := exec.Command(bin, "-o", outputFile, r.abs(scadFile))
	cmd.Dir = r.workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var msg strings.Builder
		fmt.Fprintf(&msg, "failed to render %s: %v", scadFile, err)
		if stderr.Len() > 0 {
			fmt.Fprintf(&msg, "\nstderr: %s", stderr.String())
		}
		if stdout.Len() > 0 {
			fmt.Fprintf(&msg, "\nstdout: %s", stdout.String())
		}
		return fmt.Errorf("%s", msg.String())
	}
	return nil
}

// RenderToTemp renders scadFile into a new temporary STL file and returns
// its path. The caller removes the file.
func (r *Renderer) RenderToTemp(scadFile string) (string, error) {
	tmp, err := os.CreateTemp("", "stl2vrml-*.stl")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary STL file: %w", err)
	}
	path := tmp.Name()
	tmp.Close()

	if err := r.RenderToSTL(scadFile, path); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// ResolveDependencies returns scadFile and every file it reaches through
// use/include statements, as absolute paths, each listed once.
func (r *Renderer) ResolveDependencies(scadFile string) ([]string, error) {
	visited := make(map[string]bool)
	var deps []string
	if err := r.collect(r.abs(scadFile), visited, &deps); err != nil {
		return nil, err
	}
	return deps, nil
}

func (r *Renderer) collect(file string, visited map[string]bool, deps *[]string) error {
	if visited[file] {
		return nil
	}
	visited[file] = true
	*deps = append(*deps, file)

	direct, err := r.parseDependencies(file)
	if err != nil {
		return err
	}
	for _, dep := range direct {
		if err := r.collect(dep, visited, deps); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) parseDependencies(scadFile string) ([]string, error) {
	file, err := os.Open(scadFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", scadFile, err)
	}
	defer file.Close()

	dir := filepath.Dir(scadFile)
	var deps []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		if m := dependencyPattern.FindStringSubmatch(line); m != nil {
			deps = append(deps, r.resolve(m[1], dir))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", scadFile, err)
	}
	return deps, nil
}

// resolve finds a dependency next to the including file first, then in
// the work directory.
func (r *Renderer) resolve(dep, dir string) string {
	local := filepath.Clean(filepath.Join(dir, dep))
	if strings.HasPrefix(dep, "./") || strings.HasPrefix(dep, "../") {
		return local
	}
	if _, err := os.Stat(local); err == nil {
		return local
	}
	return filepath.Clean(filepath.Join(r.workDir, dep))
}

func (r *Renderer) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.workDir, path)
}
