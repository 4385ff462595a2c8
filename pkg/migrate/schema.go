// Package migrate keeps a SQLite database in step with a versioned schema
// shipped as numbered SQL files, usually through embed.FS.
package migrate

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ErrSchema reports a malformed set of migration files
var ErrSchema = errors.New("invalid migration schema")

// 001_initial_schema.up.sql / 001_initial_schema.down.sql
var stepFile = regexp.MustCompile(`^(\d+)_(.+)\.(up|down)\.sql$`)

// Step is one schema version. Down may be empty for steps that cannot be
// reverted.
type Step struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// Schema is the ordered list of steps. Versions run 1..N without gaps.
type Schema struct {
	steps []Step
}

// LoadSchema reads every step file in dir. Files not named like a step are
// ignored.
func LoadSchema(fsys fs.FS, dir string) (*Schema, error) {
	if dir == "" {
		dir = "."
	}
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations in %s: %w", dir, err)
	}

	byVersion := make(map[int]*Step)
	for _, entry := range entries {
		m := stepFile.FindStringSubmatch(entry.Name())
		if entry.IsDir() || m == nil {
			continue
		}

		version, err := strconv.Atoi(m[1])
		if err != nil || version < 1 {
			return nil, fmt.Errorf("%w: bad version in %s", ErrSchema, entry.Name())
		}
		content, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}

		name := strings.ReplaceAll(m[2], "_", " ")
		step := byVersion[version]
		if step == nil {
			step = &Step{Version: version, Name: name}
			byVersion[version] = step
		} else if step.Name != name {
			return nil, fmt.Errorf("%w: version %d is both %q and %q", ErrSchema, version, step.Name, name)
		}

		if m[3] == "up" {
			step.Up = string(content)
		} else {
			step.Down = string(content)
		}
	}

	s := &Schema{steps: make([]Step, 0, len(byVersion))}
	for _, step := range byVersion {
		s.steps = append(s.steps, *step)
	}
	sort.Slice(s.steps, func(i, j int) bool {
		return s.steps[i].Version < s.steps[j].Version
	})

	for i, step := range s.steps {
		if step.Version != i+1 {
			return nil, fmt.Errorf("%w: expected version %d, found %d", ErrSchema, i+1, step.Version)
		}
		if strings.TrimSpace(step.Up) == "" {
			return nil, fmt.Errorf("%w: version %d has no up SQL", ErrSchema, step.Version)
		}
	}

	return s, nil
}

// Latest returns the newest version, 0 for an empty schema
func (s *Schema) Latest() int {
	return len(s.steps)
}

// Steps returns a copy of the steps in version order
func (s *Schema) Steps() []Step {
	return append([]Step(nil), s.steps...)
}

// step returns version v; versions are contiguous from 1
func (s *Schema) step(v int) Step {
	return s.steps[v-1]
}
