package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mirastory/mira/internal/profile"
	"github.com/spf13/cobra"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List, show and delete child profiles",
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the owner's child profiles",
	Args:  cobra.NoArgs,
	RunE:  runProfilesList,
}

var profilesShowCmd = &cobra.Command{
	Use:   "show <id|handle>",
	Short: "Print one profile as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesShow,
}

var profilesDeleteCmd = &cobra.Command{
	Use:   "delete <id|handle>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesDelete,
}

func init() {
	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesShowCmd)
	profilesCmd.AddCommand(profilesDeleteCmd)
}

func runProfilesList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	profiles, err := store.ListProfiles(cmd.Context(), cfg.OwnerID)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		fmt.Println("No profiles yet. Run 'mira onboard' to create one.")
		return nil
	}
	fmt.Println(profilesTable(profiles))
	return nil
}

func profilesTable(profiles []*profile.Profile) string {
	rows := make([][]string, 0, len(profiles))
	for _, p := range profiles {
		rows = append(rows, []string{
			p.Handle,
			p.Name,
			strconv.Itoa(p.Age),
			string(p.Gender),
			string(p.AvatarType),
			strings.Join(p.FavoriteGenres, ", "),
			p.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return renderTable(
		[]string{"Handle", "Name", "Age", "Gender", "Avatar", "Genres", "Created"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight},
	)
}

func runProfilesShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	p, err := store.GetProfile(cmd.Context(), cfg.OwnerID, args[0])
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func runProfilesDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	p, err := store.GetProfile(cmd.Context(), cfg.OwnerID, args[0])
	if err != nil {
		return err
	}
	if err := store.DeleteProfile(cmd.Context(), cfg.OwnerID, p.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted %s (%s)\n", p.Name, p.Handle)
	return nil
}
