package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/bdougie/pagecap/internal/models"
)

const (
	batchSize       = 10 // Number of results to batch write
	ResultsFileName = "analysis_results.json"
)

// Storage defines the interface for storing analysis results
type Storage interface {
	// AddResult adds a single analysis result
	AddResult(ctx context.Context, result models.AnalysisResult) error

	// Flush ensures all pending results are saved
	Flush() error
}

// FileStorage batches analysis results into a JSON file next to the pages
type FileStorage struct {
	results []models.AnalysisResult
	mu      sync.Mutex
	path    string
	logger  *slog.Logger
}

// NewFileStorage creates a storage writing to dir/analysis_results.json
func NewFileStorage(dir string, logger *slog.Logger) *FileStorage {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStorage{
		path:   filepath.Join(dir, ResultsFileName),
		logger: logger,
	}
}

// AddResult adds a result to the batch and flushes if the batch is full
func (s *FileStorage) AddResult(ctx context.Context, result models.AnalysisResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)

	if len(s.results) >= batchSize {
		if err := s.flush(); err != nil {
			s.logger.Error("flushing results", "error", err)
			return err
		}
	}
	return nil
}

// Flush writes all pending results to disk
func (s *FileStorage) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flush()
}

func (s *FileStorage) flush() error {
	if len(s.results) == 0 {
		return nil
	}

	existing, err := readResults(s.path)
	if err != nil {
		return err
	}
	all := append(existing, s.results...)

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for results: %w", err)
	}

	file, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create results file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(all); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	s.results = nil
	return nil
}

// ReadResults loads the analysis results stored in dir
func ReadResults(dir string) ([]models.AnalysisResult, error) {
	return readResults(filepath.Join(dir, ResultsFileName))
}

func readResults(path string) ([]models.AnalysisResult, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	var results []models.AnalysisResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to unmarshal existing results: %w", err)
	}
	return results, nil
}
