package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/your-org/campustrack/internal/queue"
)

var notifyCmd = &cobra.Command{
	Use:   "notify-update",
	Short: "Publish a snapshots.updated notice so running servers reload",
	Long: `Publish a snapshots.updated notice on NATS JetStream. Every campustrack API
consuming the SNAPSHOTS stream reloads its data (throttled).

The NATS address is taken from --nats or CT_NATS_URL.`,
	Args: cobra.NoArgs,
	RunE: runNotify,
}

func init() {
	rootCmd.AddCommand(notifyCmd)
	notifyCmd.Flags().String("nats", "", "NATS URL (default $CT_NATS_URL)")
	notifyCmd.Flags().String("reason", "", "Free-form reason recorded in the notice")
}

func runNotify(cmd *cobra.Command, args []string) error {
	natsURL := mustGetString(cmd, "nats")
	if natsURL == "" {
		natsURL = os.Getenv("CT_NATS_URL")
	}
	if natsURL == "" {
		return fmt.Errorf("no NATS URL: pass --nats or set CT_NATS_URL")
	}

	producer, err := queue.NewProducer(natsURL)
	if err != nil {
		return err
	}
	defer producer.Close()

	n := queue.SnapshotNotice{
		Source:    "trackctl",
		Reason:    mustGetString(cmd, "reason"),
		Timestamp: time.Now().UTC(),
	}
	if err := producer.PublishSnapshotUpdated(cmd.Context(), n); err != nil {
		return err
	}
	fmt.Println("Published", queue.SnapshotUpdated)
	return nil
}
