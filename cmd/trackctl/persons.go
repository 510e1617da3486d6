package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/your-org/campustrack/internal/tracking"
)

var personsCmd = &cobra.Command{
	Use:   "persons",
	Short: "List tracked persons",
	Long: `List tracked persons, optionally filtered. All filters combine.

Example:
  trackctl persons --camera CAM_1 --duration 5
  trackctl persons --date-from "2025-10-23 14:20" --status active`,
	Args: cobra.NoArgs,
	RunE: runPersons,
}

var camerasCmd = &cobra.Command{
	Use:   "cameras",
	Short: "List cameras",
	Args:  cobra.NoArgs,
	RunE:  runCameras,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show dashboard stats",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Ask the API to reload its data",
	Args:  cobra.NoArgs,
	RunE:  runRefresh,
}

func init() {
	rootCmd.AddCommand(personsCmd, camerasCmd, statsCmd, refreshCmd)

	personsCmd.Flags().String("date-from", "", "Only persons first seen at or after this time")
	personsCmd.Flags().String("date-to", "", "Only persons last seen at or before this time")
	personsCmd.Flags().String("camera", "", "Only persons on this camera")
	personsCmd.Flags().String("duration", "", "Minimum duration in minutes")
	personsCmd.Flags().String("max-duration", "", "Maximum duration in minutes")
	personsCmd.Flags().String("status", "", "active or inactive")
	personsCmd.Flags().String("person-id", "", "Case-insensitive substring of the person id")
}

func runPersons(cmd *cobra.Command, args []string) error {
	raw := tracking.RawCriteria{
		DateFrom:    mustGetString(cmd, "date-from"),
		DateTo:      mustGetString(cmd, "date-to"),
		Camera:      mustGetString(cmd, "camera"),
		Duration:    mustGetString(cmd, "duration"),
		MaxDuration: mustGetString(cmd, "max-duration"),
		Status:      mustGetString(cmd, "status"),
		PersonID:    mustGetString(cmd, "person-id"),
	}
	// Catch bad input before the round trip.
	if _, err := tracking.ParseCriteria(raw); err != nil {
		return err
	}

	resp, err := newClient().Persons(cmd.Context(), raw)
	if err != nil {
		return fmt.Errorf("failed to list persons: %w", err)
	}
	if jsonOutput {
		return printJSON(resp)
	}

	if resp.Total == 0 {
		fmt.Println("No persons match the current filters.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCAMERA\tFIRST SEEN\tLAST SEEN\tDURATION\tCAMERAS\tSTATUS\tCONFIDENCE")
	for _, p := range resp.Persons {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\t%d%%\n",
			p.ID, p.Camera, p.FirstSeen, p.LastSeen, tracking.FormatDuration(p.Duration),
			p.TotalCameras, p.Status, p.Confidence)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d person(s)\n", resp.Total)
	return nil
}

func runCameras(cmd *cobra.Command, args []string) error {
	resp, err := newClient().Cameras(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list cameras: %w", err)
	}
	if jsonOutput {
		return printJSON(resp)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tOCCUPANCY\tLAST ACTIVITY")
	for _, c := range resp.Cameras {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", c.ID, c.Status, c.Occupancy, c.LastActivity)
	}
	return w.Flush()
}

func runStats(cmd *cobra.Command, args []string) error {
	st, err := newClient().Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}
	if jsonOutput {
		return printJSON(st)
	}

	fmt.Printf("Persons tracked: %d\n", st.TotalPersons)
	fmt.Printf("Active cameras:  %d\n", st.ActiveCameras)
	fmt.Printf("Total duration:  %s\n", st.TotalDuration)
	fmt.Printf("Recent searches: %d\n", st.RecentSearches)
	if st.LoadedAt != "" {
		fmt.Printf("Data loaded at:  %s\n", st.LoadedAt)
	}
	return nil
}

func runRefresh(cmd *cobra.Command, args []string) error {
	resp, err := newClient().Refresh(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to refresh: %w", err)
	}
	if jsonOutput {
		return printJSON(resp)
	}
	fmt.Printf("Reloaded %d persons and %d cameras at %s\n", resp.Persons, resp.Cameras, resp.LoadedAt)
	return nil
}
