package nats

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

const (
	streamName = "mira_events"

	// Event types
	EventTypeProfile = "profile"
)

// OwnerToken encodes an owner id into a single subject token.
// Owner ids are opaque (emails, UUIDs) and may contain '.', '*' or '>'.
func OwnerToken(owner string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(owner))
}

// SubjectForOwner returns the wildcard subject pattern for all events of an owner.
// Example: "mira.cGFyZW50LTE.>"
func SubjectForOwner(owner string) string {
	return fmt.Sprintf("mira.%s.>", OwnerToken(owner))
}

// SubjectForEvent returns the specific subject for an event type of an owner.
// Example: "mira.cGFyZW50LTE.profile"
func SubjectForEvent(owner, eventType string) string {
	return fmt.Sprintf("mira.%s.%s", OwnerToken(owner), eventType)
}

// SetupStream creates or updates the JetStream stream for mira events.
// Profiles live for as long as the stream does, so there is no MaxAge.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{"mira.>"},
		Storage:  jetstream.FileStorage,
	})
}
