// Package domain defines the persistence models for accounts, preferences,
// the workout video catalog, scheduled workouts, and the chat log. These
// types are mapped with GORM and form the core data layer of the service.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// User is a registered account.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Email: lower-cased login address, unique across accounts.
//   - Name / AvatarURL: profile fields editable by the owner.
//   - PasswordHash: bcrypt hash; never serialized.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type User struct {
	ID           string    `json:"id"                   gorm:"type:char(36);primaryKey"`
	Email        string    `json:"email"                gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	Name         string    `json:"name"                 gorm:"type:varchar(255);not null"`
	AvatarURL    string    `json:"avatar_url,omitempty" gorm:"type:varchar(1024)"`
	PasswordHash string    `json:"-"                    gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Preferences holds one user's planning settings. There is at most one row
// per user (unique user_id); the row is created lazily with defaults.
type Preferences struct {
	ID                 string                      `json:"id"                  gorm:"type:char(36);primaryKey"`
	UserID             string                      `json:"user_id"             gorm:"type:varchar(64);not null;uniqueIndex:ux_preferences_user"`
	Goal               string                      `json:"goal"                gorm:"type:varchar(64);not null"`
	PreferredDuration  int                         `json:"preferred_duration"  gorm:"not null;check:preferred_duration > 0"`
	PreferredIntensity string                      `json:"preferred_intensity" gorm:"type:varchar(16);not null;check:preferred_intensity IN ('low','medium','high')"`
	AvailableEquipment datatypes.JSONSlice[string] `json:"available_equipment"`
	PreferredDays      datatypes.JSONSlice[string] `json:"preferred_days"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
}

// TableName returns the database table name for Preferences.
func (Preferences) TableName() string { return "preferences" }

// DefaultPreferences returns the settings a user starts with.
func DefaultPreferences(userID string) Preferences {
	return Preferences{
		UserID:             userID,
		Goal:               GoalGeneralFitness,
		PreferredDuration:  30,
		PreferredIntensity: IntensityMedium,
		AvailableEquipment: datatypes.JSONSlice[string]{},
		PreferredDays:      datatypes.JSONSlice[string]{},
	}
}

// ScheduledWorkout binds a catalog video to a user on a calendar date.
//
// Fields:
//   - ScheduledDate: always midnight UTC; only the date portion is meaningful.
//   - IsCompleted / CompletedAt: CompletedAt is non-nil iff IsCompleted.
//   - Video: the joined catalog entry. Deleting a referenced video is
//     rejected by the database (ON DELETE RESTRICT).
//
// (user_id, video_id, scheduled_date) is unique: a video cannot be booked
// twice for the same user on the same day.
type ScheduledWorkout struct {
	ID            string     `json:"id"             gorm:"type:char(36);primaryKey"`
	UserID        string     `json:"user_id"        gorm:"type:varchar(64);not null;uniqueIndex:ux_schedule_user_video_date,priority:1;index:idx_schedule_user_date,priority:1"`
	VideoID       string     `json:"video_id"       gorm:"type:char(36);not null;uniqueIndex:ux_schedule_user_video_date,priority:2"`
	ScheduledDate time.Time  `json:"scheduled_date" gorm:"not null;uniqueIndex:ux_schedule_user_video_date,priority:3;index:idx_schedule_user_date,priority:2"`
	IsCompleted   bool       `json:"is_completed"   gorm:"not null;default:false"`
	CompletedAt   *time.Time `json:"completed_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Video *WorkoutVideo `json:"video,omitempty" gorm:"foreignKey:VideoID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the database table name for ScheduledWorkout.
func (ScheduledWorkout) TableName() string { return "scheduled_workouts" }

// ChatMessage is one entry of a user's append-only chat log.
type ChatMessage struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id"    gorm:"type:varchar(64);not null;index:idx_user_chat_msgs,priority:1"`
	Role      string    `json:"role"       gorm:"type:varchar(16);not null;check:role IN ('user','assistant')"`
	Content   string    `json:"content"    gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_user_chat_msgs,priority:2"`
}

// TableName returns the database table name for ChatMessage.
func (ChatMessage) TableName() string { return "chat_messages" }
