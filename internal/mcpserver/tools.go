package mcpserver

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mirastory/mira/internal/profile"
)

func avatarNames() []string {
	out := make([]string, len(profile.Avatars))
	for i, a := range profile.Avatars {
		out[i] = string(a)
	}
	return out
}

func genderNames() []string {
	out := make([]string, len(profile.Genders))
	for i, g := range profile.Genders {
		out[i] = string(g)
	}
	return out
}

// registerTools registers the profile tools with the MCP server.
func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("list-child-profiles",
			mcp.WithDescription("List the child profiles of the configured parent"),
		),
		s.handleListProfiles,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get-child-profile",
			mcp.WithDescription("Show one child profile as JSON"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Profile id or handle")),
		),
		s.handleGetProfile,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("create-child-profile",
			mcp.WithDescription("Create a child profile by walking the onboarding steps"),
			mcp.WithString("name", mcp.Required(), mcp.Description("Child's name (max 50 characters)")),
			mcp.WithString("gender", mcp.Required(),
				mcp.Description("One of: "+strings.Join(genderNames(), ", ")),
				mcp.Enum(genderNames()...)),
			mcp.WithNumber("age", mcp.Description("Age in years, 3 to 12 (default 5)")),
			mcp.WithString("avatar",
				mcp.Description("Avatar (default "+string(profile.DefaultAvatar)+")"),
				mcp.Enum(avatarNames()...)),
			mcp.WithString("appearance", mcp.Description("Free-text appearance description")),
			mcp.WithArray("genres",
				mcp.Description("Favorite story genres: "+strings.Join(profile.Genres, ", ")),
				mcp.WithStringItems()),
			mcp.WithString("notes", mcp.Description("Notes for the storyteller")),
			mcp.WithString("language", mcp.Description("Preferred story language code")),
		),
		s.handleCreateProfile,
	)
}
