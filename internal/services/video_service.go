// Package services – VideoService
//
// This file implements VideoService, the read-only face of the workout
// catalog: filtered listing, lookup by id, and keyword search backed by the
// in-memory search.Index. The index is rebuilt whenever the catalog's
// catalog version changes.
package services

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/tbourn/trainflow-backend/internal/domain"
	"github.com/tbourn/trainflow-backend/internal/repo"
	"github.com/tbourn/trainflow-backend/internal/search"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// EquipmentNone matches videos that need no equipment.
const EquipmentNone = "none"

// searchStopwords are catalog words too common to rank on.
var searchStopwords = []string{"a", "and", "the", "with", "for", "of", "workout", "minute", "min"}

// VideoFilter narrows a catalog listing. Empty fields do not filter.
//
//   - Title: case-insensitive substring of the title.
//   - MuscleGroups: the video trains at least one of them.
//   - Equipment: the video needs every listed item; "none" matches videos
//     without equipment.
//   - Intensity: the video's tier is one of them.
//   - MinMinutes / MaxMinutes: whole minutes of the video, inclusive.
type VideoFilter struct {
	Title        string
	MuscleGroups []string
	Equipment    []string
	Intensity    []string
	MinMinutes   *int
	MaxMinutes   *int
}

// VideoService serves the workout catalog.
type VideoService struct {
	DB *gorm.DB

	mu    sync.Mutex
	index search.Index
	byID  map[string]domain.WorkoutVideo
	fp    string
}

// NewVideoService constructs a VideoService.
func NewVideoService(db *gorm.DB) *VideoService {
	return &VideoService{DB: db}
}

// List returns catalog videos matching f, ordered by title.
func (s *VideoService) List(ctx context.Context, f VideoFilter) ([]domain.WorkoutVideo, error) {
	tr := otel.Tracer("services/VideoService")
	ctx, span := tr.Start(ctx, "List", trace.WithAttributes(attribute.String("filter.title", f.Title)))
	defer span.End()

	all, err := repo.ListVideos(ctx, s.DB, f.Title)
	if err != nil {
		return nil, err
	}
	out := make([]domain.WorkoutVideo, 0, len(all))
	for _, v := range all {
		if f.Match(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// Get returns one catalog video or ErrVideoNotFound.
func (s *VideoService) Get(ctx context.Context, id string) (*domain.WorkoutVideo, error) {
	v, err := repo.GetVideo(ctx, s.DB, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	return v, nil
}

// Search ranks videos against q. Title hits outrank hits on channel,
// muscle groups, equipment and exercise names. At most k videos are returned.
func (s *VideoService) Search(ctx context.Context, q string, k int) ([]domain.WorkoutVideo, error) {
	tr := otel.Tracer("services/VideoService")
	ctx, span := tr.Start(ctx, "Search",
		trace.WithAttributes(attribute.String("query", q), attribute.Int("k", k)),
	)
	defer span.End()

	idx, byID, err := s.currentIndex(ctx)
	if err != nil {
		return nil, err
	}
	results := idx.TopK(q, k)
	out := make([]domain.WorkoutVideo, 0, len(results))
	for _, r := range results {
		if v, ok := byID[r.ID]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *VideoService) currentIndex(ctx context.Context) (search.Index, map[string]domain.WorkoutVideo, error) {
	ver, err := repo.CatalogVersion(ctx, s.DB)
	if err != nil {
		return nil, nil, err
	}
	fp := ver.String()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index != nil && s.fp == fp {
		return s.index, s.byID, nil
	}

	all, err := repo.ListVideos(ctx, s.DB, "")
	if err != nil {
		return nil, nil, err
	}
	docs := make([]search.Document, 0, len(all))
	byID := make(map[string]domain.WorkoutVideo, len(all))
	for _, v := range all {
		byID[v.ID] = v
		docs = append(docs, searchDoc(v))
	}
	s.index = search.NewIndex(docs, search.WithStopwords(searchStopwords))
	s.byID = byID
	s.fp = fp
	return s.index, s.byID, nil
}

// searchDoc indexes the title on its own; everything else a user might type
// ("dumbbells", "burpees", "high") is a tag.
func searchDoc(v domain.WorkoutVideo) search.Document {
	tags := []string{v.ChannelName, v.Intensity}
	tags = append(tags, v.MuscleGroups...)
	tags = append(tags, v.EquipmentNeeded...)
	for _, e := range v.Exercises {
		tags = append(tags, e.Name, e.MuscleGroup)
	}
	return search.Document{ID: v.ID, Title: v.Title, Tags: tags}
}

// Match reports whether v passes every non-empty criterion of f except
// Title, which is applied by the store.
func (f VideoFilter) Match(v domain.WorkoutVideo) bool {
	if len(f.MuscleGroups) > 0 && !anyIn(f.MuscleGroups, v.MuscleGroups) {
		return false
	}
	for _, eq := range f.Equipment {
		if contains(v.EquipmentNeeded, eq) {
			continue
		}
		if eq == EquipmentNone && len(v.EquipmentNeeded) == 0 {
			continue
		}
		return false
	}
	if len(f.Intensity) > 0 && !contains(f.Intensity, v.Intensity) {
		return false
	}
	minutes := v.Duration / 60
	if f.MinMinutes != nil && minutes < *f.MinMinutes {
		return false
	}
	if f.MaxMinutes != nil && minutes > *f.MaxMinutes {
		return false
	}
	return true
}

func anyIn(want, have []string) bool {
	for _, w := range want {
		if contains(have, w) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
