package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"s3sync/internal/model"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync [id]",
	Short: "Run a sync job now, regardless of its schedule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := http.Post(daemonURL("/jobs/"+args[0]+"/sync"), "application/json", nil)
		if err != nil {
			return fmt.Errorf("daemon not running: %w", err)
		}

		defer func(Body io.ReadCloser) {
			_ = Body.Close()
		}(resp.Body)

		if resp.StatusCode != http.StatusOK {
			var result map[string]string
			_ = json.NewDecoder(resp.Body).Decode(&result)
			return fmt.Errorf("sync failed: %s", result["error"])
		}

		var run model.SyncRunResult
		if err := json.NewDecoder(resp.Body).Decode(&run); err != nil {
			return err
		}

		for _, line := range run.Details {
			fmt.Println(line)
		}
		fmt.Println(run.Status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
