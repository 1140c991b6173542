package profile

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Validate checks a create request the way the profile service does before
// storing it. Missing ownership is an auth failure; everything else is a
// validation failure naming the offending field.
func Validate(req CreateRequest) error {
	if strings.TrimSpace(req.OwnerID) == "" {
		return &Error{Kind: KindAuth, Err: errors.New("no signed-in owner")}
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return validationError("name", "name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return validationError("name", "name too long (max %d characters)", MaxNameLength)
	}
	if req.Age < MinAge || req.Age > MaxAge {
		return validationError("age", "age must be between %d and %d, got %d", MinAge, MaxAge, req.Age)
	}
	if !req.Gender.Valid() {
		return validationError("gender", "unknown gender %q", req.Gender)
	}
	if !req.AvatarType.Valid() {
		return validationError("avatar_type", "unknown avatar %q", req.AvatarType)
	}
	if !req.AppearanceMethod.Valid() {
		return validationError("appearance_method", "unknown appearance method %q", req.AppearanceMethod)
	}
	seen := make(map[string]bool, len(req.FavoriteGenres))
	for _, g := range req.FavoriteGenres {
		if !IsGenre(g) {
			return validationError("favorite_genres", "unknown genre %q", g)
		}
		if seen[g] {
			return validationError("favorite_genres", "duplicate genre %q", g)
		}
		seen[g] = true
	}
	return nil
}
