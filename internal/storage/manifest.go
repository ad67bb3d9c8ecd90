package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bdougie/pagecap/internal/models"
)

const ManifestFileName = "session.yaml"

// Manifest records what a capture session produced
type Manifest struct {
	Mode     string          `yaml:"mode"`
	Window   string          `yaml:"window"`
	App      string          `yaml:"app,omitempty"`
	Key      string          `yaml:"key"`
	Trim     models.TrimSpec `yaml:"trim"`
	Started  time.Time       `yaml:"started"`
	Finished time.Time       `yaml:"finished"`
	Total    int             `yaml:"total"`
	PDF      string          `yaml:"pdf,omitempty"`
	Pages    []ManifestPage  `yaml:"pages"`
}

// ManifestPage is a page entry, stored relative to the session directory
type ManifestPage struct {
	Number int    `yaml:"number"`
	File   string `yaml:"file"`
	Digest string `yaml:"digest,omitempty"`
}

// ManifestPages converts captured pages to manifest entries
func ManifestPages(pages []models.Page) []ManifestPage {
	out := make([]ManifestPage, len(pages))
	for i, p := range pages {
		out[i] = ManifestPage{Number: p.Number, File: filepath.Base(p.Path), Digest: p.Digest}
	}
	return out
}

// WriteManifest writes dir/session.yaml
func WriteManifest(dir string, m Manifest) error {
	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	path := filepath.Join(dir, ManifestFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest '%s': %w", path, err)
	}
	return nil
}

// ReadManifest loads dir/session.yaml
func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest '%s': %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest '%s': %w", path, err)
	}
	return &m, nil
}
