package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/your-org/campustrack/internal/models"
	"github.com/your-org/campustrack/internal/tracking"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for a person by face, id or time range",
}

var searchFaceCmd = &cobra.Command{
	Use:   "face [image]",
	Short: "Search by a face image",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearchFace,
}

var searchIDCmd = &cobra.Command{
	Use:   "id [person-id]",
	Short: "Search by person id",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearchID,
}

var searchTimeCmd = &cobra.Command{
	Use:   "time",
	Short: "Search by time range",
	Long: `Search for persons seen within a time range.

Example:
  trackctl search time --from "2025-10-23 14:00" --to "2025-10-23 15:00" --camera CAM_1`,
	Args: cobra.NoArgs,
	RunE: runSearchTime,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent searches, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(searchCmd, historyCmd)
	searchCmd.AddCommand(searchFaceCmd, searchIDCmd, searchTimeCmd)

	searchTimeCmd.Flags().String("from", "", "Start of the range")
	searchTimeCmd.Flags().String("to", "", "End of the range")
	searchTimeCmd.Flags().String("camera", "", "Limit to one camera")
}

func runSearchFace(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	img := models.FaceImage{
		Filename:    filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Data:        data,
	}

	results, err := newClient().SearchByFace(cmd.Context(), img)
	if err != nil {
		return fmt.Errorf("face search failed: %w", err)
	}
	return printResults(results)
}

func runSearchID(cmd *cobra.Command, args []string) error {
	results, err := newClient().SearchByID(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("id search failed: %w", err)
	}
	return printResults(results)
}

func runSearchTime(cmd *cobra.Command, args []string) error {
	r := models.TimeRange{
		From:   mustGetString(cmd, "from"),
		To:     mustGetString(cmd, "to"),
		Camera: mustGetString(cmd, "camera"),
	}
	results, err := newClient().SearchByTime(cmd.Context(), r)
	if err != nil {
		return fmt.Errorf("time search failed: %w", err)
	}
	return printResults(results)
}

func runHistory(cmd *cobra.Command, args []string) error {
	resp, err := newClient().History(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}
	if jsonOutput {
		return printJSON(resp)
	}
	if resp.Total == 0 {
		fmt.Println("No searches yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tTYPE\tQUERY\tRESULTS")
	for _, e := range resp.Entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", e.Timestamp, e.Type, e.Query, e.ResultCount)
	}
	return w.Flush()
}

func printResults(results []models.SearchResult) error {
	if jsonOutput {
		return printJSON(results)
	}
	if len(results) == 0 {
		fmt.Println("No matches found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCAMERA\tTIME\tCONFIDENCE\tDURATION\tMATCH")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d%%\t%s\t%s\n",
			r.ID, r.Camera, r.Time, r.Confidence, tracking.FormatDuration(r.Duration), r.MatchType)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d match(es)\n", len(results))
	return nil
}
