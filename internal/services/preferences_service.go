package services

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/tbourn/trainflow-backend/internal/domain"
	"github.com/tbourn/trainflow-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MaxPreferredDuration caps the preferred session length in minutes.
const MaxPreferredDuration = 240

// PreferencesInput is the editable part of Preferences.
type PreferencesInput struct {
	Goal               string   `json:"goal"`
	PreferredDuration  int      `json:"preferred_duration"`
	PreferredIntensity string   `json:"preferred_intensity"`
	AvailableEquipment []string `json:"available_equipment"`
	PreferredDays      []string `json:"preferred_days"`
}

// PreferencesService reads and writes the per-user settings row. A user
// without a row is given the defaults on first read.
type PreferencesService struct {
	DB *gorm.DB

	// Locale drives lower-casing of goals, equipment and day names.
	Locale language.Tag
}

// NewPreferencesService constructs a PreferencesService.
func NewPreferencesService(db *gorm.DB) *PreferencesService {
	return &PreferencesService{DB: db, Locale: language.Und}
}

// Get returns userID's preferences, persisting the defaults when none exist.
// Repeated and concurrent calls observe the same row.
func (s *PreferencesService) Get(ctx context.Context, userID string) (*domain.Preferences, error) {
	tr := otel.Tracer("services/PreferencesService")
	ctx, span := tr.Start(ctx, "Get", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	p, err := repo.GetPreferences(ctx, s.DB, userID)
	if err == nil {
		return p, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	span.AddEvent("defaults")
	return repo.EnsurePreferences(ctx, s.DB, domain.DefaultPreferences(userID))
}

// Save validates and normalizes in, then upserts it as userID's preferences.
func (s *PreferencesService) Save(ctx context.Context, userID string, in PreferencesInput) (*domain.Preferences, error) {
	tr := otel.Tracer("services/PreferencesService")
	ctx, span := tr.Start(ctx, "Save", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	p, err := s.normalize(userID, in)
	if err != nil {
		return nil, err
	}
	return repo.UpsertPreferences(ctx, s.DB, p)
}

func (s *PreferencesService) normalize(userID string, in PreferencesInput) (domain.Preferences, error) {
	// Casers are stateful; one per call.
	lower := cases.Lower(s.Locale)

	goal := lower.String(strings.TrimSpace(in.Goal))
	if goal == "" {
		return domain.Preferences{}, invalid("goal", "is required")
	}
	if !domain.ValidGoal(goal) {
		return domain.Preferences{}, invalid("goal", "must be one of %s", strings.Join(domain.Goals, ", "))
	}
	if in.PreferredDuration <= 0 || in.PreferredDuration > MaxPreferredDuration {
		return domain.Preferences{}, invalid("preferred_duration", "must be between 1 and %d minutes", MaxPreferredDuration)
	}
	intensity := lower.String(strings.TrimSpace(in.PreferredIntensity))
	if !domain.ValidIntensity(intensity) {
		return domain.Preferences{}, invalid("preferred_intensity", "must be low, medium or high")
	}

	days := normalizeSet(lower, in.PreferredDays)
	for _, d := range days {
		if !domain.ValidWeekday(d) {
			return domain.Preferences{}, invalid("preferred_days", "unknown weekday %q", d)
		}
	}

	return domain.Preferences{
		UserID:             userID,
		Goal:               goal,
		PreferredDuration:  in.PreferredDuration,
		PreferredIntensity: intensity,
		AvailableEquipment: normalizeSet(lower, in.AvailableEquipment),
		PreferredDays:      days,
	}, nil
}

// normalizeSet lower-cases, trims and de-duplicates items, keeping first-seen order.
func normalizeSet(lower cases.Caser, items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		v := lower.String(strings.TrimSpace(it))
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
