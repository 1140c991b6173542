package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/mirastory/mira/internal/logger"
	"github.com/mirastory/mira/internal/nats"
	"github.com/nats-io/nats.go/jetstream"
)

// Event is a single entry in the profile event log.
// Profiles are never updated in place: a create event carries the full
// profile and a delete event tombstones it.
type Event struct {
	ID        string          `json:"id"`        // Stream sequence
	Timestamp time.Time       `json:"timestamp"` // When the event occurred
	Owner     string          `json:"owner"`     // Owning parent account
	Type      string          `json:"type"`      // Always "profile" for now
	Action    string          `json:"action"`    // create, delete
	Meta      json.RawMessage `json:"meta"`      // Full profile for create
	Data      string          `json:"data"`      // Profile id
}

const (
	actionCreate = "create"
	actionDelete = "delete"
)

// Store persists child profiles as events in the embedded JetStream stream.
type Store struct {
	js     jetstream.JetStream
	stream jetstream.Stream
	now    func() time.Time
}

// NewStore creates a Store on top of an existing JetStream context and stream.
func NewStore(js jetstream.JetStream, stream jetstream.Stream) *Store {
	return &Store{
		js:     js,
		stream: stream,
		now:    time.Now,
	}
}

// CreateChildProfile validates the request, assigns an id and handle, and
// appends a create event. It implements Creator.
func (s *Store) CreateChildProfile(ctx context.Context, req CreateRequest) (*Profile, error) {
	if err := Validate(req); err != nil {
		logger.Warn("Rejected profile for owner %s: %v", req.OwnerID, err)
		return nil, err
	}

	existing, err := s.ListProfiles(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	p := &Profile{
		ID:                    uuid.NewString(),
		Handle:                uniqueHandle(name, existing),
		OwnerID:               req.OwnerID,
		Name:                  name,
		Age:                   req.Age,
		Gender:                req.Gender,
		AvatarType:            req.AvatarType,
		AppearanceMethod:      req.AppearanceMethod,
		AppearanceDescription: req.AppearanceDescription,
		FavoriteGenres:        append([]string{}, req.FavoriteGenres...),
		ParentNotes:           req.ParentNotes,
		PreferredLanguage:     req.PreferredLanguage,
		CreatedAt:             s.now().UTC(),
	}

	meta, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := s.publish(ctx, Event{
		Owner:  req.OwnerID,
		Type:   nats.EventTypeProfile,
		Action: actionCreate,
		Meta:   meta,
		Data:   p.ID,
	}); err != nil {
		return nil, err
	}

	logger.Info("Created profile %s (%s) for owner %s", p.ID, p.Handle, p.OwnerID)
	return p, nil
}

// DeleteProfile tombstones a profile. Returns ErrNotFound if the owner has no
// profile with that id or handle.
func (s *Store) DeleteProfile(ctx context.Context, owner, idOrHandle string) error {
	p, err := s.GetProfile(ctx, owner, idOrHandle)
	if err != nil {
		return err
	}
	return s.publish(ctx, Event{
		Owner:  owner,
		Type:   nats.EventTypeProfile,
		Action: actionDelete,
		Data:   p.ID,
	})
}

// GetProfile returns one profile by id or handle.
func (s *Store) GetProfile(ctx context.Context, owner, idOrHandle string) (*Profile, error) {
	profiles, err := s.ListProfiles(ctx, owner)
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		if p.ID == idOrHandle || p.Handle == idOrHandle {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, idOrHandle)
}

// ListProfiles reduces the owner's event log into the live profiles, oldest first.
func (s *Store) ListProfiles(ctx context.Context, owner string) ([]*Profile, error) {
	if strings.TrimSpace(owner) == "" {
		return nil, nil
	}

	consumer, err := s.stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject: nats.SubjectForOwner(owner),
		DeliverPolicy: jetstream.DeliverAllPolicy,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		logger.Error("Failed to create consumer for owner %s: %v", owner, err)
		return nil, &Error{Kind: KindNetwork, Err: fmt.Errorf("failed to create consumer: %w", err)}
	}
	defer func() {
		_ = s.stream.DeleteConsumer(context.Background(), consumer.CachedInfo().Name)
	}()

	live := make(map[string]*Profile)
	const batchSize = 500
	malformed := 0
	for {
		msgs, err := consumer.FetchNoWait(batchSize)
		if err != nil {
			logger.Error("Failed to fetch profile events for owner %s: %v", owner, err)
			return nil, &Error{Kind: KindNetwork, Err: fmt.Errorf("failed to fetch events: %w", err)}
		}

		count := 0
		for msg := range msgs.Messages() {
			count++
			var event Event
			if err := json.Unmarshal(msg.Data(), &event); err != nil {
				malformed++
				_ = msg.Ack()
				continue
			}
			applyEvent(live, event)
			_ = msg.Ack()
		}

		if count < batchSize {
			break
		}
	}

	if malformed > 0 {
		logger.Warn("Skipped %d malformed profile events for owner %s", malformed, owner)
	}

	profiles := make([]*Profile, 0, len(live))
	for _, p := range live {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].CreatedAt.Equal(profiles[j].CreatedAt) {
			return profiles[i].ID < profiles[j].ID
		}
		return profiles[i].CreatedAt.Before(profiles[j].CreatedAt)
	})
	return profiles, nil
}

func applyEvent(live map[string]*Profile, event Event) {
	if event.Type != nats.EventTypeProfile {
		return
	}
	switch event.Action {
	case actionCreate:
		var p Profile
		if err := json.Unmarshal(event.Meta, &p); err != nil {
			logger.Warn("Skipping create event with bad profile payload: %v", err)
			return
		}
		live[p.ID] = &p
	case actionDelete:
		delete(live, event.Data)
	}
}

func (s *Store) publish(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := nats.SubjectForEvent(event.Owner, event.Type)
	logger.Debug("Publishing event: subject=%s action=%s", subject, event.Action)

	ack, err := s.js.Publish(ctx, subject, data)
	if err != nil {
		logger.Error("Failed to publish event to subject %s: %v", subject, err)
		return &Error{Kind: KindNetwork, Err: fmt.Errorf("failed to publish event: %w", err)}
	}

	logger.Debug("Event published: seq=%d", ack.Sequence)
	return nil
}

// uniqueHandle slugs the name and appends a counter if the owner already
// has a profile with that handle.
func uniqueHandle(name string, existing []*Profile) string {
	base := slug.Make(name)
	if base == "" {
		base = "child"
	}
	taken := make(map[string]bool, len(existing))
	for _, p := range existing {
		taken[p.Handle] = true
	}
	handle := base
	for i := 2; taken[handle]; i++ {
		handle = fmt.Sprintf("%s-%d", base, i)
	}
	return handle
}
