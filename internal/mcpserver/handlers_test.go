package mcpserver

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mirastory/mira/internal/nats"
	"github.com/mirastory/mira/internal/profile"
	"github.com/stretchr/testify/require"
)

// setupTestServer creates a server backed by an embedded profile store.
func setupTestServer(t *testing.T) (*Server, *profile.Store) {
	t.Helper()
	embedded, err := nats.Open(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = embedded.Close() })

	store := profile.NewStore(embedded.JS, embedded.Stream)
	return New(store, "parent-1", "en"), store
}

// extractText extracts text from CallToolResult.Content[0].
func extractText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	if textContent, ok := result.Content[0].(mcp.TextContent); ok {
		return textContent.Text
	}
	return ""
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), name string, args map[string]any) string {
	t.Helper()
	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	return extractText(result)
}

func TestHandleListProfiles_Empty(t *testing.T) {
	srv, _ := setupTestServer(t)
	require.Equal(t, "No profiles", callTool(t, srv.handleListProfiles, "list-child-profiles", nil))
}

func TestHandleCreateProfile_Success(t *testing.T) {
	srv, store := setupTestServer(t)

	text := callTool(t, srv.handleCreateProfile, "create-child-profile", map[string]any{
		"name":       "Mia",
		"gender":     "girl",
		"age":        float64(7),
		"avatar":     "fox",
		"appearance": "curly hair",
		"genres":     []any{"space", "ocean"},
		"notes":      "afraid of the dark",
	})
	require.True(t, strings.HasPrefix(text, "Created profile mia"), text)

	profiles, err := store.ListProfiles(context.Background(), "parent-1")
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	p := profiles[0]
	require.Equal(t, 7, p.Age)
	require.Equal(t, profile.AvatarType("fox"), p.AvatarType)
	require.Equal(t, profile.AppearanceManual, p.AppearanceMethod)
	require.Equal(t, []string{"ocean", "space"}, p.FavoriteGenres, "catalog order")
	require.Equal(t, "en", p.PreferredLanguage)

	list := callTool(t, srv.handleListProfiles, "list-child-profiles", nil)
	require.Contains(t, list, "mia ("+p.ID+"): Mia, age 7")
}

func TestHandleCreateProfile_RepeatedGenre(t *testing.T) {
	srv, store := setupTestServer(t)

	text := callTool(t, srv.handleCreateProfile, "create-child-profile", map[string]any{
		"name":   "Leo",
		"gender": "boy",
		"genres": []any{"space", "space"},
	})
	require.True(t, strings.HasPrefix(text, "Created profile leo"), text)

	profiles, err := store.ListProfiles(context.Background(), "parent-1")
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	require.Equal(t, []string{"space"}, profiles[0].FavoriteGenres)
}

func TestHandleCreateProfile_Rejects(t *testing.T) {
	srv, _ := setupTestServer(t)

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"no arguments", nil, "error: no arguments provided"},
		{"blank name", map[string]any{"name": "  ", "gender": "boy"}, `error: step "name" is incomplete`},
		{"missing gender", map[string]any{"name": "Leo"}, `error: step "gender" is incomplete`},
		{"bad gender", map[string]any{"name": "Leo", "gender": "robot"}, `error: unknown gender "robot"`},
		{"bad avatar", map[string]any{"name": "Leo", "gender": "boy", "avatar": "dragon"}, `error: unknown avatar "dragon"`},
		{"bad genre", map[string]any{"name": "Leo", "gender": "boy", "genres": []any{"horror"}}, `error: unknown genre "horror"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, callTool(t, srv.handleCreateProfile, "create-child-profile", tt.args))
		})
	}
}

func TestHandleGetProfile(t *testing.T) {
	srv, _ := setupTestServer(t)
	callTool(t, srv.handleCreateProfile, "create-child-profile", map[string]any{"name": "Leo", "gender": "boy"})

	text := callTool(t, srv.handleGetProfile, "get-child-profile", map[string]any{"id": "leo"})
	var p profile.Profile
	require.NoError(t, json.Unmarshal([]byte(text), &p))
	require.Equal(t, "Leo", p.Name)
	require.Equal(t, profile.DefaultAge, p.Age)

	require.Equal(t, `error: no profile "nobody"`,
		callTool(t, srv.handleGetProfile, "get-child-profile", map[string]any{"id": "nobody"}))
	require.Equal(t, "error: missing or invalid 'id' parameter",
		callTool(t, srv.handleGetProfile, "get-child-profile", map[string]any{}))
}

func TestServerStartStop(t *testing.T) {
	srv, _ := setupTestServer(t)
	ctx := context.Background()

	port, err := srv.Start(ctx, 0)
	require.NoError(t, err)
	require.NotZero(t, port)
	require.Equal(t, "http://127.0.0.1:"+strconv.Itoa(port)+"/mcp", srv.URL())

	_, err = srv.Start(ctx, 0)
	require.Error(t, err, "second start fails")

	require.NoError(t, srv.Stop(ctx))
	require.NoError(t, srv.Stop(ctx), "stop is idempotent")
}
