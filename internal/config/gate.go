package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Status is the result of the configuration precondition check.
type Status int

const (
	// StatusReady means a configuration file was already present.
	StatusReady Status = iota
	// StatusWroteDefault means no file was present and a default one was
	// written. The service must not start: the operator has to fill it in first.
	StatusWroteDefault
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusWroteDefault:
		return "wrote-default"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Outcome reports what Ensure found at Path.
type Outcome struct {
	Status Status
	Path   string
}

// Ensure makes sure a configuration file exists at path. An existing file is
// never read or modified; a missing one is created with the defaults. The
// create is exclusive, so a file that appears concurrently is kept.
func Ensure(path string) (Outcome, error) {
	ready := Outcome{Status: StatusReady, Path: path}

	info, err := os.Stat(path)
	switch {
	case err == nil:
		if !info.Mode().IsRegular() {
			return Outcome{}, fmt.Errorf("config path %s is not a regular file", path)
		}
		return ready, nil
	case !errors.Is(err, fs.ErrNotExist):
		return Outcome{}, fmt.Errorf("failed to check config file: %w", err)
	}

	err = Default().SetPath(path).Create()
	if errors.Is(err, fs.ErrExist) {
		// lost a race, or path is a dangling symlink
		if Exists(path) {
			return ready, nil
		}
		return Outcome{}, fmt.Errorf("config path %s is not a regular file", path)
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to write default config: %w", err)
	}

	return Outcome{Status: StatusWroteDefault, Path: path}, nil
}
