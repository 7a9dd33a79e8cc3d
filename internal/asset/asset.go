// Package asset loads and caches the images referenced by project
// layers: regular image files, PDF pages and generated QR codes.
//
// References:
//
//	photo.png          decoded image file (png/jpeg)
//	poster.pdf#2       page 2 of a PDF, rasterized at a fixed DPI
//	qr:https://a.b/c   QR code generated from the payload
package asset

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/gen2brain/go-fitz"
	"github.com/skip2/go-qrcode"
	"golang.org/x/sync/errgroup"
)

const (
	pdfDPI = 150
	qrSize = 512
)

// Store is a bounded image cache. Get is the render-path accessor and
// never touches the filesystem; Load and Preload fill the cache up
// front. Eviction is FIFO by insertion order.
type Store struct {
	mu    sync.Mutex
	cache map[string]image.Image
	order []string
	limit int
}

// NewStore creates a cache holding at most limit decoded images.
func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = 64
	}
	return &Store{
		cache: make(map[string]image.Image),
		limit: limit,
	}
}

// Get returns the cached image for ref. It performs no I/O: a miss
// means the asset was never loaded or has been evicted.
func (s *Store) Get(ref string) (image.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.cache[ref]
	return img, ok
}

// Load decodes ref and caches the result. Reloading a cached ref is a
// cheap hit.
func (s *Store) Load(ref string) (image.Image, error) {
	s.mu.Lock()
	if img, ok := s.cache[ref]; ok {
		s.mu.Unlock()
		return img, nil
	}
	s.mu.Unlock()

	img, err := decode(ref)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cache[ref]; !ok {
		s.cache[ref] = img
		s.order = append(s.order, ref)
		for len(s.order) > s.limit {
			evict := s.order[0]
			s.order = s.order[1:]
			delete(s.cache, evict)
		}
	}
	return s.cache[ref], nil
}

// Preload loads every distinct ref concurrently and returns the first
// failure. The scene is ready to render once Preload succeeds.
func (s *Store) Preload(ctx context.Context, refs []string) error {
	seen := make(map[string]bool, len(refs))
	g, ctx := errgroup.WithContext(ctx)
	for _, ref := range refs {
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if _, err := s.Load(ref); err != nil {
				return fmt.Errorf("preload %s: %w", ref, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Invalidate drops one cached entry.
func (s *Store) Invalidate(ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cache[ref]; !ok {
		return
	}
	delete(s.cache, ref)
	for i, r := range s.order {
		if r == ref {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// InvalidateAll empties the cache.
func (s *Store) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]image.Image)
	s.order = s.order[:0]
}

// Len reports the number of cached images.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}

func decode(ref string) (image.Image, error) {
	switch {
	case strings.HasPrefix(ref, "qr:"):
		return decodeQR(strings.TrimPrefix(ref, "qr:"))
	case isPDFRef(ref):
		path, page := splitPDFRef(ref)
		return decodePDF(path, page)
	default:
		return decodeFile(ref)
	}
}

func decodeQR(payload string) (image.Image, error) {
	if payload == "" {
		return nil, fmt.Errorf("empty qr payload")
	}
	q, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("generate qr: %w", err)
	}
	return q.Image(qrSize), nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open asset: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

func decodePDF(path string, page int) (image.Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()
	if page < 1 || page > doc.NumPage() {
		return nil, fmt.Errorf("pdf %s has no page %d", filepath.Base(path), page)
	}
	img, err := doc.ImageDPI(page-1, pdfDPI)
	if err != nil {
		return nil, fmt.Errorf("render pdf page %d: %w", page, err)
	}
	return img, nil
}

func isPDFRef(ref string) bool {
	path, _ := splitPDFRef(ref)
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// splitPDFRef splits "poster.pdf#3" into the file path and a 1-based
// page number. No fragment means page 1.
func splitPDFRef(ref string) (string, int) {
	idx := strings.LastIndexByte(ref, '#')
	if idx < 0 {
		return ref, 1
	}
	page, err := strconv.Atoi(ref[idx+1:])
	if err != nil || page < 1 {
		return ref[:idx], 1
	}
	return ref[:idx], page
}
