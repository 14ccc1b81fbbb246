package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ConnectionDir is the directory, relative to a workspace root, where BSP connection files live.
const ConnectionDir = ".bsp"

// ConnectionDetails is the content of a BSP connection file, which tells a client how to start
// a build server for a workspace.
type ConnectionDetails struct {
	Name       string   `json:"name"`
	Version    string   `json:"version"`
	BspVersion string   `json:"bspVersion"`
	Languages  []string `json:"languages"`
	Argv       []string `json:"argv"`
}

// ConnectionFile is a connection file found in a workspace.
type ConnectionFile struct {
	Path    string
	Details ConnectionDetails
}

// ErrNoConnectionFile means that a workspace has no usable connection file.
var ErrNoConnectionFile = errors.New("no BSP connection file found")

// ReadConnectionFile parses and validates one connection file.
func ReadConnectionFile(path string) (ConnectionDetails, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ConnectionDetails{}, err
	}
	var details ConnectionDetails
	if err := json.Unmarshal(data, &details); err != nil {
		return ConnectionDetails{}, fmt.Errorf("malformed connection file %s: %w", path, err)
	}
	if details.Name == "" {
		return ConnectionDetails{}, fmt.Errorf("connection file %s has no name", path)
	}
	if len(details.Argv) == 0 {
		return ConnectionDetails{}, fmt.Errorf("connection file %s has no argv", path)
	}
	return details, nil
}

// DiscoverConnectionFiles returns every valid connection file in the workspace's .bsp directory,
// sorted by file name. Invalid files are reported in the returned error but do not prevent valid
// ones from being returned.
func DiscoverConnectionFiles(workspaceRoot string) ([]ConnectionFile, error) {
	dir := filepath.Join(workspaceRoot, ConnectionDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w in %s", ErrNoConnectionFile, dir)
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var files []ConnectionFile
	var errs []error
	for _, name := range names {
		path := filepath.Join(dir, name)
		details, err := ReadConnectionFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		files = append(files, ConnectionFile{Path: path, Details: details})
	}
	if len(files) == 0 {
		errs = append([]error{fmt.Errorf("%w in %s", ErrNoConnectionFile, dir)}, errs...)
	}
	return files, errors.Join(errs...)
}

// FindConnectionFile picks the connection file to use. If name is empty, the first discovered
// file is used. Otherwise name may be a path to a file, or the name of a file in the .bsp
// directory with or without its .json suffix, or the "name" property of a connection file.
func FindConnectionFile(workspaceRoot, name string) (ConnectionFile, error) {
	if name != "" {
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			details, err := ReadConnectionFile(name)
			return ConnectionFile{Path: name, Details: details}, err
		}
	}
	files, err := DiscoverConnectionFiles(workspaceRoot)
	if len(files) == 0 {
		return ConnectionFile{}, err
	}
	if name == "" {
		return files[0], nil
	}
	for _, f := range files {
		base := filepath.Base(f.Path)
		if base == name || strings.TrimSuffix(base, ".json") == name || f.Details.Name == name {
			return f, nil
		}
	}
	return ConnectionFile{}, fmt.Errorf("%w named %q in %s", ErrNoConnectionFile, name,
		filepath.Join(workspaceRoot, ConnectionDir))
}
