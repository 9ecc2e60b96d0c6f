// Package videos manages the shared guided-meditation video library.
package videos

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/dearme/internal/constants"
	"github.com/julianstephens/dearme/internal/logger"
	"github.com/julianstephens/dearme/internal/models"
	"github.com/julianstephens/dearme/internal/storage"
)

// Catalog is the YAML document accepted by Import.
//
//	videos:
//	  - title: Body scan
//	    url: https://example.com/body-scan
//	    thumbnail: https://example.com/body-scan.jpg
//	    duration_min: 12
type Catalog struct {
	Videos []models.Video `yaml:"videos"`
}

type Service struct {
	store    storage.Provider
	validate *validator.Validate
	now      func() time.Time
}

func NewService(store storage.Provider) *Service {
	return &Service{store: store, validate: validator.New(), now: time.Now}
}

// ImportResult reports what an import did.
type ImportResult struct {
	Added   int
	Skipped int
}

func (s *Service) ImportFile(ctx context.Context, path string) (ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return s.Import(ctx, f)
}

// Import adds every catalog video whose URL is not already in the library.
// The whole catalog is validated before anything is written.
func (s *Service) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	var catalog Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&catalog); err != nil && err != io.EOF {
		return ImportResult{}, fmt.Errorf("failed to parse catalog: %w", err)
	}

	for i := range catalog.Videos {
		v := &catalog.Videos[i]
		v.Title = strings.TrimSpace(v.Title)
		v.URL = strings.TrimSpace(v.URL)
		if err := s.validate.Struct(v); err != nil {
			return ImportResult{}, fmt.Errorf("video %d (%q): %w", i+1, v.Title, err)
		}
	}

	existing, err := s.List(ctx)
	if err != nil {
		return ImportResult{}, err
	}
	seen := make(map[string]bool, len(existing))
	for _, v := range existing {
		seen[v.URL] = true
	}

	var result ImportResult
	var bodies []any
	now := s.now().UTC()
	for _, v := range catalog.Videos {
		if seen[v.URL] {
			result.Skipped++
			continue
		}
		seen[v.URL] = true
		v.CreatedAt = now
		bodies = append(bodies, v)
	}

	if len(bodies) > 0 {
		if _, err := s.store.CreateDocuments(ctx, constants.CollectionVideos, constants.GlobalOwner, bodies); err != nil {
			return ImportResult{}, fmt.Errorf("failed to store videos: %w", err)
		}
	}
	result.Added = len(bodies)

	logger.Info("Video catalog imported", "added", result.Added, "skipped", result.Skipped)
	return result, nil
}

// List returns the library ordered by title.
func (s *Service) List(ctx context.Context) ([]models.Video, error) {
	docs, err := s.store.QueryDocuments(ctx, constants.CollectionVideos, constants.GlobalOwner)
	if err != nil {
		return nil, err
	}
	videos, err := storage.DecodeAll(docs, func(v *models.Video, id string) { v.ID = id })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(videos, func(i, j int) bool {
		return strings.ToLower(videos[i].Title) < strings.ToLower(videos[j].Title)
	})
	return videos, nil
}
