package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mirastory/mira/internal/onboarding"
	"github.com/mirastory/mira/internal/profile"
)

// handleListProfiles lists the owner's profiles, one per line.
func (s *Server) handleListProfiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profiles, err := s.store.ListProfiles(ctx, s.ownerID)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}
	if len(profiles) == 0 {
		return mcp.NewToolResultText("No profiles"), nil
	}

	lines := make([]string, 0, len(profiles))
	for _, p := range profiles {
		lines = append(lines, fmt.Sprintf("%s (%s): %s, age %d", p.Handle, p.ID, p.Name, p.Age))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

// handleGetProfile returns one profile as indented JSON.
func (s *Server) handleGetProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil || strings.TrimSpace(id) == "" {
		return mcp.NewToolResultText("error: missing or invalid 'id' parameter"), nil
	}

	p, err := s.store.GetProfile(ctx, s.ownerID, strings.TrimSpace(id))
	if errors.Is(err, profile.ErrNotFound) {
		return mcp.NewToolResultText(fmt.Sprintf("error: no profile %q", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}

	output, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: failed to marshal profile: %v", err)), nil
	}
	return mcp.NewToolResultText(string(output)), nil
}

// handleCreateProfile fills an onboarding state from the arguments, walks it
// to the review step and submits it.
func (s *Server) handleCreateProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultText("error: no arguments provided"), nil
	}

	language := request.GetString("language", s.language)
	state := onboarding.New(onboarding.Options{
		OwnerID:           s.ownerID,
		PreferredLanguage: language,
	})
	defer state.Dispose()

	state.SetName(request.GetString("name", ""))
	state.SetAge(request.GetInt("age", profile.DefaultAge))
	if g := request.GetString("gender", ""); !state.SetGender(profile.Gender(g)) {
		return mcp.NewToolResultText(fmt.Sprintf("error: unknown gender %q", g)), nil
	}
	if a := request.GetString("avatar", ""); a != "" && !state.SetAvatar(profile.AvatarType(a)) {
		return mcp.NewToolResultText(fmt.Sprintf("error: unknown avatar %q", a)), nil
	}
	if desc := request.GetString("appearance", ""); desc != "" {
		state.SetAppearanceMethod(profile.AppearanceManual)
		state.SetAppearanceDescription(desc)
	}
	for _, g := range request.GetStringSlice("genres", nil) {
		if !profile.IsGenre(g) {
			return mcp.NewToolResultText(fmt.Sprintf("error: unknown genre %q", g)), nil
		}
		state.SelectGenre(g)
	}
	state.SetNotes(request.GetString("notes", ""))

	for state.CurrentStep() != onboarding.LastStep {
		if !state.Advance() {
			return mcp.NewToolResultText(fmt.Sprintf("error: step %q is incomplete", state.CurrentStep())), nil
		}
	}

	created, err := state.Submit(ctx, s.store)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Created profile %s (%s) for %s", created.Handle, created.ID, created.Name)), nil
}
