// Package profile defines child profiles and the service that creates them.
//
// The onboarding wizard only ever sees the Creator interface; Store is the
// persistent implementation backed by the embedded JetStream event log.
package profile

import (
	"context"
	"slices"
	"time"
)

// Gender of a child. The empty value means "not chosen yet".
type Gender string

const (
	GenderBoy         Gender = "boy"
	GenderGirl        Gender = "girl"
	GenderUnspecified Gender = "unspecified"
)

// Genders lists the selectable genders in display order.
var Genders = []Gender{GenderBoy, GenderGirl, GenderUnspecified}

// Valid reports whether g is one of the known genders.
func (g Gender) Valid() bool {
	return slices.Contains(Genders, g)
}

// AvatarType identifies one of the built-in avatar illustrations.
type AvatarType string

// Avatars lists the fixed avatar set. The first entry is the default.
var Avatars = []AvatarType{"bear", "bunny", "cat", "dog", "fox", "owl", "penguin", "unicorn"}

// DefaultAvatar is the avatar preselected for a new profile.
var DefaultAvatar = Avatars[0]

// Valid reports whether a is one of the known avatars.
func (a AvatarType) Valid() bool {
	return slices.Contains(Avatars, a)
}

// AppearanceMethod records how the appearance description was produced.
// The empty value means the parent skipped the appearance step.
type AppearanceMethod string

const (
	AppearanceManual AppearanceMethod = "manual"
	AppearancePhoto  AppearanceMethod = "photo"
)

// Valid reports whether m is empty or a known method.
func (m AppearanceMethod) Valid() bool {
	return m == "" || m == AppearanceManual || m == AppearancePhoto
}

// Genres is the fixed catalog of story genres a child can favor.
var Genres = []string{
	"adventure",
	"animals",
	"bedtime",
	"dinosaurs",
	"fairy_tales",
	"fantasy",
	"friendship",
	"mystery",
	"ocean",
	"science",
	"space",
	"superheroes",
}

// IsGenre reports whether id is in the genre catalog.
func IsGenre(id string) bool {
	return slices.Contains(Genres, id)
}

// Age bounds accepted by the profile service.
const (
	MinAge     = 3
	MaxAge     = 12
	DefaultAge = 5
)

// MaxNameLength is the longest accepted child name, in runes.
const MaxNameLength = 50

// CreateRequest carries the fields of a new child profile.
// Optional text fields are nil when the parent left them empty.
type CreateRequest struct {
	OwnerID               string           `json:"owner_id"`
	Name                  string           `json:"name"`
	Age                   int              `json:"age"`
	Gender                Gender           `json:"gender"`
	AvatarType            AvatarType       `json:"avatar_type"`
	AppearanceMethod      AppearanceMethod `json:"appearance_method,omitempty"`
	AppearanceDescription *string          `json:"appearance_description"`
	FavoriteGenres        []string         `json:"favorite_genres"`
	ParentNotes           *string          `json:"parent_notes"`
	PreferredLanguage     string           `json:"preferred_language"`
}

// Profile is a stored child profile.
type Profile struct {
	ID                    string           `json:"id"`
	Handle                string           `json:"handle"`
	OwnerID               string           `json:"owner_id"`
	Name                  string           `json:"name"`
	Age                   int              `json:"age"`
	Gender                Gender           `json:"gender"`
	AvatarType            AvatarType       `json:"avatar_type"`
	AppearanceMethod      AppearanceMethod `json:"appearance_method,omitempty"`
	AppearanceDescription *string          `json:"appearance_description,omitempty"`
	FavoriteGenres        []string         `json:"favorite_genres"`
	ParentNotes           *string          `json:"parent_notes,omitempty"`
	PreferredLanguage     string           `json:"preferred_language"`
	CreatedAt             time.Time        `json:"created_at"`
}

// Creator creates child profiles. It is the single external operation the
// onboarding wizard depends on.
type Creator interface {
	CreateChildProfile(ctx context.Context, req CreateRequest) (*Profile, error)
}
