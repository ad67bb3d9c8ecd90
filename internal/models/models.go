package models

import "fmt"

// WindowRef identifies an application window picked for capture
type WindowRef struct {
	ID     uint64 `yaml:"id"`
	Title  string `yaml:"title"`
	App    string `yaml:"app"`
	PID    int    `yaml:"pid"`
	Bounds [4]int `yaml:"bounds"` // x, y, width, height
}

// CaptureHandle is what the frame capturer needs to grab a window.
// ByID is set on platforms that capture a window by its id rather than by screen region.
type CaptureHandle struct {
	Window   WindowRef
	WindowID uint64
	ByID     bool
}

// TrimSpec holds the pixels removed from each edge of a page
type TrimSpec struct {
	Top    int `yaml:"top" mapstructure:"top"`
	Bottom int `yaml:"bottom" mapstructure:"bottom"`
	Left   int `yaml:"left" mapstructure:"left"`
	Right  int `yaml:"right" mapstructure:"right"`
}

// IsZero reports whether the trim removes nothing
func (t TrimSpec) IsZero() bool {
	return t == TrimSpec{}
}

func (t TrimSpec) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", t.Top, t.Bottom, t.Left, t.Right)
}

// Page is one captured page on disk
type Page struct {
	Number int    `yaml:"number"`
	Path   string `yaml:"file"`
	Digest string `yaml:"digest,omitempty"`
}

// WorkItem represents a page to be analyzed
type WorkItem struct {
	PagePath string
	PageNum  int
	Total    int
}

// AnalysisResult represents the result of analyzing a page
type AnalysisResult struct {
	Page    string `json:"page"`
	Content string `json:"content"`
	// Path is where the image was read from; the results file keeps only Page
	Path string `json:"-"`
}

// PageSearchResult is a catalog hit for a similarity lookup
type PageSearchResult struct {
	Book       string
	PageNumber int
	PagePath   string
	Similarity float64
}
