package services

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/trainflow-backend/internal/domain"
)

func intp(n int) *int { return &n }

func seedCatalog(t *testing.T, s *VideoService) (upper, hiit, core *domain.WorkoutVideo) {
	t.Helper()
	upper = seedVideo(t, s.DB, "Upper Body Strength", func(v *domain.WorkoutVideo) {
		v.Duration = 1200
		v.Intensity = domain.IntensityMedium
		v.MuscleGroups = []string{"chest", "shoulders", "arms"}
		v.EquipmentNeeded = []string{"dumbbells"}
		v.Exercises = []domain.Exercise{{Name: "Push-ups", StartTime: 0, EndTime: 60, MuscleGroup: "chest"}}
	})
	hiit = seedVideo(t, s.DB, "HIIT Cardio Blast", func(v *domain.WorkoutVideo) {
		v.Duration = 900
		v.Intensity = domain.IntensityHigh
		v.MuscleGroups = []string{"full-body", "legs"}
		v.Exercises = []domain.Exercise{{Name: "Burpees", StartTime: 0, EndTime: 45, MuscleGroup: "full-body"}}
	})
	core = seedVideo(t, s.DB, "Core Crusher", func(v *domain.WorkoutVideo) {
		v.Duration = 659
		v.Intensity = domain.IntensityMedium
		v.MuscleGroups = []string{"core", "abs"}
		v.EquipmentNeeded = []string{"mat"}
		v.Exercises = []domain.Exercise{{Name: "Plank", StartTime: 0, EndTime: 60, MuscleGroup: "core"}}
	})
	return upper, hiit, core
}

func titles(vs []domain.WorkoutVideo) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Title
	}
	return out
}

func TestVideoService_List_Filters(t *testing.T) {
	s := NewVideoService(newSvcDB(t))
	seedCatalog(t, s)

	cases := []struct {
		name string
		f    VideoFilter
		want []string
	}{
		{"all", VideoFilter{}, []string{"Core Crusher", "HIIT Cardio Blast", "Upper Body Strength"}},
		{"title substring", VideoFilter{Title: "cardio"}, []string{"HIIT Cardio Blast"}},
		{"muscle any-of", VideoFilter{MuscleGroups: []string{"abs", "arms"}}, []string{"Core Crusher", "Upper Body Strength"}},
		{"equipment all-of", VideoFilter{Equipment: []string{"dumbbells"}}, []string{"Upper Body Strength"}},
		{"equipment none", VideoFilter{Equipment: []string{"none"}}, []string{"HIIT Cardio Blast"}},
		{"equipment unmet", VideoFilter{Equipment: []string{"dumbbells", "mat"}}, []string{}},
		{"intensity", VideoFilter{Intensity: []string{"high"}}, []string{"HIIT Cardio Blast"}},
		// 659s floors to 10 minutes.
		{"duration range", VideoFilter{MinMinutes: intp(10), MaxMinutes: intp(15)}, []string{"Core Crusher", "HIIT Cardio Blast"}},
		{"duration max", VideoFilter{MaxMinutes: intp(10)}, []string{"Core Crusher"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.List(context.Background(), tc.f)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			g := titles(got)
			if len(g) != len(tc.want) {
				t.Fatalf("got %v, want %v", g, tc.want)
			}
			for i := range g {
				if g[i] != tc.want[i] {
					t.Fatalf("got %v, want %v", g, tc.want)
				}
			}
		})
	}
}

func TestVideoService_Get(t *testing.T) {
	s := NewVideoService(newSvcDB(t))
	upper, _, _ := seedCatalog(t, s)

	v, err := s.Get(context.Background(), upper.ID)
	if err != nil || v.Title != upper.Title || len(v.Exercises) != 1 {
		t.Fatalf("Get = %+v, %v", v, err)
	}
	if _, err := s.Get(context.Background(), "missing"); !errors.Is(err, ErrVideoNotFound) {
		t.Fatalf("expected ErrVideoNotFound, got %v", err)
	}
}

func TestVideoService_Search_RanksAndRefreshes(t *testing.T) {
	s := NewVideoService(newSvcDB(t))
	_, hiit, core := seedCatalog(t, s)
	ctx := context.Background()

	got, err := s.Search(ctx, "plank abs", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].ID != core.ID {
		t.Fatalf("unexpected results: %v", titles(got))
	}

	got, _ = s.Search(ctx, "burpees", 5)
	if len(got) != 1 || got[0].ID != hiit.ID {
		t.Fatalf("exercise names should be searchable: %v", titles(got))
	}

	if got, _ := s.Search(ctx, "yoga", 5); len(got) != 0 {
		t.Fatalf("expected no results, got %v", titles(got))
	}

	// New catalog entries become searchable without restarting.
	seedVideo(t, s.DB, "Morning Yoga Flow", func(v *domain.WorkoutVideo) { v.MuscleGroups = []string{"flexibility"} })
	got, _ = s.Search(ctx, "yoga", 5)
	if len(got) != 1 || got[0].Title != "Morning Yoga Flow" {
		t.Fatalf("index not refreshed: %v", titles(got))
	}
}
