package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"streamdock/internal/library"
	"streamdock/internal/media"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "List saved videos",
	RunE:  libraryRun,
}

var libraryRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a saved video",
	Args:  cobra.ExactArgs(1),
	RunE:  libraryRmRun,
}

var libraryTagCmd = &cobra.Command{
	Use:   "tag <id> <tag>...",
	Short: "Replace the tags on a saved video",
	Args:  cobra.MinimumNArgs(2),
	RunE:  libraryTagRun,
}

func init() {
	libraryCmd.AddCommand(libraryRmCmd)
	libraryCmd.AddCommand(libraryTagCmd)
}

func libraryRun(cmd *cobra.Command, args []string) error {
	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	videos, err := store.List()
	if err != nil {
		return fmt.Errorf("loading library: %w", err)
	}

	if len(videos) == 0 {
		fmt.Println("Library is empty.")
		return nil
	}

	for _, v := range videos {
		fmt.Println(formatLibraryLine(v))
	}
	return nil
}

// formatLibraryLine renders one library entry for terminal listing.
func formatLibraryLine(v media.LibraryVideo) string {
	line := fmt.Sprintf("%s  %s  %s", v.ID, v.DateAdded.Format("2006-01-02"), v.Title)
	if v.WatchProgress > 0 {
		line += fmt.Sprintf(" [%.0f%%]", v.WatchProgress*100)
	}
	if len(v.Tags) > 0 {
		line += "  #" + strings.Join(v.Tags, " #")
	}
	return line
}

func libraryRmRun(cmd *cobra.Command, args []string) error {
	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := resolveID(store, args[0])
	if err != nil {
		return err
	}
	if err := store.Delete(id); err != nil {
		return fmt.Errorf("removing video: %w", err)
	}

	fmt.Printf("Removed %s\n", id)
	return nil
}

func libraryTagRun(cmd *cobra.Command, args []string) error {
	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := resolveID(store, args[0])
	if err != nil {
		return err
	}

	tags := args[1:]
	if err := store.Update(id, mediaTags(tags)); err != nil {
		return fmt.Errorf("tagging video: %w", err)
	}

	fmt.Printf("Tagged %s: #%s\n", id, strings.Join(tags, " #"))
	return nil
}

func mediaTags(tags []string) library.Updates {
	return library.Updates{Tags: &tags}
}

// resolveID matches a full record id or a unique id prefix.
func resolveID(store *library.Store, arg string) (string, error) {
	if _, err := store.Get(arg); err == nil {
		return arg, nil
	}

	videos, err := store.List()
	if err != nil {
		return "", fmt.Errorf("loading library: %w", err)
	}

	var matches []string
	for _, v := range videos {
		if strings.HasPrefix(v.ID, arg) {
			matches = append(matches, v.ID)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("no video matches id %q", arg)
	default:
		return "", fmt.Errorf("id prefix %q is ambiguous (%d matches)", arg, len(matches))
	}
}
