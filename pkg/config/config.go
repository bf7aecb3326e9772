// Package config loads and saves the per-project .parseltongue/project.yaml
// file: project identity, ingestion knobs, and the graph store's engine
// and path.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Dir is the fixed subdirectory name every project keeps its config,
// checkpoints, and (by default) its graph store data under.
const Dir = ".parseltongue"

// FileName is the config file's name within Dir.
const FileName = "project.yaml"

// Project holds one project's persisted configuration.
type Project struct {
	ProjectID    string   `yaml:"project_id"`
	Root         string   `yaml:"root"`
	ExcludeGlobs []string `yaml:"exclude_globs,omitempty"`
	Workers      int      `yaml:"workers,omitempty"`
	Engine       string   `yaml:"engine,omitempty"`
	DBPath       string   `yaml:"db_path,omitempty"`
}

// Path returns the project.yaml path for a project rooted at root.
func Path(root string) string {
	return filepath.Join(root, Dir, FileName)
}

// Load reads root's project.yaml. Returns os.ErrNotExist (wrapped) if the
// project hasn't been initialized yet.
func Load(root string) (*Project, error) {
	data, err := os.ReadFile(Path(root))
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", Path(root), err)
	}
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", Path(root), err)
	}
	return &p, nil
}

// Init creates a fresh project.yaml for root, generating a new project ID.
// Returns the existing config unchanged if one is already present.
func Init(root string) (*Project, error) {
	if existing, err := Load(root); err == nil {
		return existing, nil
	}

	p := &Project{
		ProjectID: uuid.NewString(),
		Root:      root,
		Workers:   8,
		Engine:    "rocksdb",
		DBPath:    filepath.Join(Dir, "db"),
	}
	if err := p.Save(); err != nil {
		return nil, err
	}
	return p, nil
}

// Save writes p to its project.yaml, creating the .parseltongue directory
// if needed.
func (p *Project) Save() error {
	dir := filepath.Join(p.Root, Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: create %s: %w", dir, err)
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("config: marshal project config: %w", err)
	}

	path := Path(p.Root)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// AbsDBPath resolves DBPath relative to Root, the path pkg/graphstore.Open
// expects.
func (p *Project) AbsDBPath() string {
	if filepath.IsAbs(p.DBPath) {
		return p.DBPath
	}
	return filepath.Join(p.Root, p.DBPath)
}
