package repo

import (
	"context"
	"testing"

	"github.com/tbourn/trainflow-backend/internal/domain"
)

func TestListVideos_TitleFilterAndOrder(t *testing.T) {
	db := newTestDB(t, &domain.WorkoutVideo{})
	ctx := context.Background()
	seedVideo(t, db, "v1", "yt1", "Upper Body Strength")
	seedVideo(t, db, "v2", "yt2", "HIIT Cardio Blast")
	seedVideo(t, db, "v3", "yt3", "100% Core_Burn")

	all, err := ListVideos(ctx, db, "")
	if err != nil || len(all) != 3 {
		t.Fatalf("ListVideos all = %d, %v", len(all), err)
	}
	if all[0].Title != "100% Core_Burn" || all[1].Title != "HIIT Cardio Blast" || all[2].Title != "Upper Body Strength" {
		t.Fatalf("unexpected order: %v, %v, %v", all[0].Title, all[1].Title, all[2].Title)
	}

	got, err := ListVideos(ctx, db, "  cardio ")
	if err != nil || len(got) != 1 || got[0].ID != "v2" {
		t.Fatalf("cardio filter = %+v, %v", got, err)
	}

	// Wildcards are matched literally.
	got, err = ListVideos(ctx, db, "%")
	if err != nil || len(got) != 1 || got[0].ID != "v3" {
		t.Fatalf("percent filter = %+v, %v", got, err)
	}
	got, err = ListVideos(ctx, db, "e_b")
	if err != nil || len(got) != 1 || got[0].ID != "v3" {
		t.Fatalf("underscore filter = %+v, %v", got, err)
	}
}

func TestGetVideo(t *testing.T) {
	db := newTestDB(t, &domain.WorkoutVideo{})
	seedVideo(t, db, "v1", "yt1", "Core")

	v, err := GetVideo(context.Background(), db, "v1")
	if err != nil || v.YouTubeID != "yt1" || len(v.MuscleGroups) != 1 {
		t.Fatalf("GetVideo = %+v, %v", v, err)
	}
	if _, err := GetVideo(context.Background(), db, "missing"); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpsertVideo_InsertThenRefresh(t *testing.T) {
	db := newTestDB(t, &domain.WorkoutVideo{})
	ctx := context.Background()

	in := domain.WorkoutVideo{
		YouTubeID:       "abc",
		Title:           "Mobility",
		ChannelName:     "Coach",
		Duration:        600,
		Intensity:       domain.IntensityLow,
		MuscleGroups:    []string{"hips"},
		EquipmentNeeded: []string{"mat"},
		Exercises:       []domain.Exercise{{Name: "Stretch", StartTime: 0, EndTime: 60}},
	}
	first, err := UpsertVideo(ctx, db, in)
	if err != nil {
		t.Fatalf("UpsertVideo insert: %v", err)
	}
	if first.ID == "" || first.Title != "Mobility" || len(first.Exercises) != 1 {
		t.Fatalf("unexpected insert: %+v", first)
	}

	in.Title = "Mobility Flow"
	in.Duration = 900
	second, err := UpsertVideo(ctx, db, in)
	if err != nil {
		t.Fatalf("UpsertVideo refresh: %v", err)
	}
	if second.ID != first.ID || second.Title != "Mobility Flow" || second.Duration != 900 {
		t.Fatalf("expected refreshed row with same id, got %+v", second)
	}

	var n int64
	db.Model(&domain.WorkoutVideo{}).Count(&n)
	if n != 1 {
		t.Fatalf("expected one row, got %d", n)
	}
}
