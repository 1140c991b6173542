package nats

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOwnerTokenIsSubjectSafe(t *testing.T) {
	for _, owner := range []string{"parent-1", "a.b@example.com", "*", ">", "père"} {
		tok := OwnerToken(owner)
		require.NotEmpty(t, tok)
		require.False(t, strings.ContainsAny(tok, ".*> "), "token %q for %q", tok, owner)
	}
	require.NotEqual(t, OwnerToken("a"), OwnerToken("b"))
}

func TestSubjects(t *testing.T) {
	require.Equal(t, "mira.cGFyZW50LTE.>", SubjectForOwner("parent-1"))
	require.Equal(t, "mira.cGFyZW50LTE.profile", SubjectForEvent("parent-1", EventTypeProfile))
}

func TestOpenAndReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := Open(ctx, dir)
	require.NoError(t, err)
	_, err = first.JS.Publish(ctx, SubjectForEvent("parent-1", EventTypeProfile), []byte(`{}`))
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(ctx, dir)
	require.NoError(t, err)
	defer second.Close()

	info, err := second.Stream.Info(ctx)
	require.NoError(t, err)
	require.Equal(t, streamName, info.Config.Name)
	require.Equal(t, uint64(1), info.State.Msgs, "events survive a restart")
}

func TestShutdownNil(t *testing.T) {
	require.NoError(t, Shutdown(nil, nil))
}
