package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"s3sync/internal/model"

	"github.com/spf13/cobra"
)

var historyDetails bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View recent sync runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := http.Get(daemonURL("/history"))
		if err != nil {
			return fmt.Errorf("daemon not running: %w", err)
		}

		defer func(Body io.ReadCloser) {
			_ = Body.Close()
		}(resp.Body)

		var runs []model.SyncRunResult
		if err := json.NewDecoder(resp.Body).Decode(&runs); err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("no history yet")
			return nil
		}

		for _, run := range runs {
			status := "✓"
			if !run.Success {
				status = "✗"
			}

			fmt.Printf("%s [%s] %s -> %s/%s: %s\n",
				status,
				run.Timestamp.Format("2006-01-02 15:04:05"),
				run.LocalPath,
				run.BucketName,
				run.Prefix,
				run.Status,
			)

			if historyDetails {
				for _, line := range run.Details {
					fmt.Printf("    %s\n", line)
				}
			}
		}

		return nil
	},
}

func init() {
	historyCmd.Flags().BoolVar(&historyDetails, "details", false, "show per-file outcomes")
	rootCmd.AddCommand(historyCmd)
}
