package embeddings

import (
	"fmt"
	"image"
	"os"
	"sync"

	_ "image/jpeg"
	_ "image/png"

	"github.com/bdougie/pagecap/internal/fingerprint"
)

// GridSize is the side of the thumbnail grid; vectors have GridSize*GridSize entries
const GridSize = 8

// Result represents the result of embedding generation
type Result struct {
	Path      string
	Embedding []float32
	Error     error
}

// Work represents a unit of embedding work
type Work struct {
	Path   string
	Result chan<- Result
}

// Service computes page thumbnail vectors with a pool of workers,
// caching them by file digest so repeated pages are decoded once
type Service struct {
	numWorkers int
	workQueue  chan Work
	cache      sync.Map // Thread-safe map for caching embeddings
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

// NewService creates a new embedding service with the specified number of workers
func NewService(numWorkers int) *Service {
	if numWorkers <= 0 {
		numWorkers = 4 // Default to 4 workers if not specified
	}

	service := &Service{
		numWorkers: numWorkers,
		workQueue:  make(chan Work, 100), // Buffer size for embedding requests
	}

	service.startWorkers()

	return service
}

func (s *Service) startWorkers() {
	for i := 0; i < s.numWorkers; i++ {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for work := range s.workQueue {
				embedding, err := s.embed(work.Path)
				work.Result <- Result{
					Path:      work.Path,
					Embedding: embedding,
					Error:     err,
				}
			}
		}()
	}
}

// GetEmbedding requests an embedding generation asynchronously
func (s *Service) GetEmbedding(path string) <-chan Result {
	resultChan := make(chan Result, 1)

	select {
	case s.workQueue <- Work{
		Path:   path,
		Result: resultChan,
	}:
	default:
		resultChan <- Result{
			Path:  path,
			Error: fmt.Errorf("embedding queue is full, try again later"),
		}
		close(resultChan)
	}

	return resultChan
}

func (s *Service) embed(path string) ([]float32, error) {
	digest, err := fingerprint.Fingerprint(path)
	if err != nil {
		return nil, err
	}
	if cached, ok := s.cache.Load(digest); ok {
		if embedding, valid := cached.([]float32); valid {
			return embedding, nil
		}
	}

	embedding, err := Thumbnail(path)
	if err != nil {
		return nil, err
	}
	s.cache.Store(digest, embedding)
	return embedding, nil
}

// Thumbnail decodes the image at path and averages its luminance over a
// GridSize x GridSize grid, giving values in [0, 1] row by row
func Thumbnail(path string) ([]float32, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image '%s': %w", path, err)
	}
	return thumbnail(img), nil
}

func thumbnail(img image.Image) []float32 {
	b := img.Bounds()
	sums := make([]float64, GridSize*GridSize)
	counts := make([]int, GridSize*GridSize)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		gy := (y - b.Min.Y) * GridSize / b.Dy()
		for x := b.Min.X; x < b.Max.X; x++ {
			gx := (x - b.Min.X) * GridSize / b.Dx()
			r, g, bl, _ := img.At(x, y).RGBA()
			// ITU-R BT.601 luma on 16-bit channels
			lum := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(bl)) / 0xffff
			sums[gy*GridSize+gx] += lum
			counts[gy*GridSize+gx]++
		}
	}

	out := make([]float32, GridSize*GridSize)
	for i := range out {
		if counts[i] > 0 {
			out[i] = float32(sums[i] / float64(counts[i]))
		}
	}
	return out
}

// Close shuts down the embedding service and waits for all workers to finish
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		close(s.workQueue)
	})
	s.wg.Wait()
}
