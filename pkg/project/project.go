// Package project loads the project file that names a room store and the
// attribute names used inside it.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/budova/aptgraph/pkg/schedule"
	"github.com/budova/aptgraph/pkg/typecode"
	"github.com/budova/aptgraph/pkg/writeback"
)

// FileName is the project file looked up inside a project directory.
const FileName = "project.yaml"

// Store drivers.
const (
	DriverXLSX     = "xlsx"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var ErrInvalidProject = errors.New("invalid project")

// Project is the top-level project definition.
type Project struct {
	Version    string                  `yaml:"version" json:"version"`
	Name       string                  `yaml:"name" json:"name"`
	Store      StoreDef                `yaml:"store" json:"store"`
	Attributes writeback.Attributes    `yaml:"attributes" json:"attributes"`
	Overflow   typecode.OverflowPolicy `yaml:"overflow" json:"overflow"`

	// Dir is the directory relative store paths are resolved against.
	Dir string `yaml:"-" json:"-"`
}

// StoreDef says where the rooms live.
type StoreDef struct {
	Driver string `yaml:"driver" json:"driver"`
	Path   string `yaml:"path,omitempty" json:"path,omitempty"`
	DSN    string `yaml:"dsn,omitempty" json:"dsn,omitempty"`
	Sheet  string `yaml:"sheet,omitempty" json:"sheet,omitempty"`
}

// Load reads a project from a YAML file.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing project YAML: %w", err)
	}
	p.Dir = filepath.Dir(path)
	p.Attributes = p.Attributes.WithDefaults()
	if p.Overflow == "" {
		p.Overflow = typecode.OverflowFail
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadProject loads project.yaml from a project directory.
func LoadProject(projectDir string) (*Project, error) {
	return Load(filepath.Join(projectDir, FileName))
}

// Validate checks the store definition and the overflow policy.
func (p *Project) Validate() error {
	switch p.Store.Driver {
	case DriverXLSX, DriverSQLite:
		if p.Store.Path == "" {
			return fmt.Errorf("%w: store.path is required for driver %q", ErrInvalidProject, p.Store.Driver)
		}
	case DriverPostgres:
		if p.Store.DSN == "" {
			return fmt.Errorf("%w: store.dsn is required for driver %q", ErrInvalidProject, p.Store.Driver)
		}
	case "":
		return fmt.Errorf("%w: store.driver is required", ErrInvalidProject)
	default:
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalidProject, p.Store.Driver)
	}

	switch p.Overflow {
	case typecode.OverflowFail, typecode.OverflowNumbered:
	default:
		return fmt.Errorf("%w: unknown overflow policy %q", ErrInvalidProject, p.Overflow)
	}
	return nil
}

// StorePath returns the store file, resolved against the project directory.
func (p *Project) StorePath() string {
	if p.Store.Path == "" || filepath.IsAbs(p.Store.Path) {
		return p.Store.Path
	}
	return filepath.Join(p.Dir, p.Store.Path)
}

// Options returns the schedule options the project asks for.
func (p *Project) Options() schedule.Options {
	return schedule.Options{Overflow: p.Overflow}
}
