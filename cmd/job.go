package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"s3sync/internal/model"

	"github.com/spf13/cobra"
)

var jobPrefix string

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Manage sync jobs",
}

var jobListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sync jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := http.Get(daemonURL("/jobs"))
		if err != nil {
			return fmt.Errorf("daemon not running: %w", err)
		}

		defer func(Body io.ReadCloser) {
			_ = Body.Close()
		}(resp.Body)

		var result struct {
			Jobs []model.SyncJob `json:"jobs"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return err
		}

		if len(result.Jobs) == 0 {
			fmt.Println("no jobs configured")
			return nil
		}

		fmt.Printf("%-36s %-8s %-6s %-30s %s\n", "ID", "ENABLED", "TIME", "FOLDER", "TARGET")
		for _, j := range result.Jobs {
			enabled := "no"
			if j.IsEnabled {
				enabled = "yes"
			}
			fmt.Printf("%-36s %-8s %-6s %-30s %s/%s\n",
				j.ID, enabled, j.SyncTime, j.LocalFolderPath, j.BucketName, j.Prefix)
		}

		return nil
	},
}

var jobAddCmd = &cobra.Command{
	Use:   "add [folder] [bucket] [HH:MM]",
	Short: "Add a new sync job",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, _ := json.Marshal(map[string]string{
			"local_folder_path": args[0],
			"bucket_name":       args[1],
			"sync_time":         args[2],
			"prefix":            jobPrefix,
		})

		resp, err := http.Post(daemonURL("/jobs"), "application/json", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("daemon not running: %w", err)
		}

		defer func(Body io.ReadCloser) {
			_ = Body.Close()
		}(resp.Body)

		if resp.StatusCode != http.StatusCreated {
			var result map[string]string
			_ = json.NewDecoder(resp.Body).Decode(&result)
			return fmt.Errorf("failed to add job: %s", result["error"])
		}

		var job model.SyncJob
		_ = json.NewDecoder(resp.Body).Decode(&job)
		fmt.Printf("job added: id=%s folder=%s target=%s/%s at %s\n",
			job.ID, job.LocalFolderPath, job.BucketName, job.Prefix, job.SyncTime)
		return nil
	},
}

var jobToggleCmd = &cobra.Command{
	Use:   "toggle [id]",
	Short: "Enable or disable a sync job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := http.Post(daemonURL("/jobs/"+args[0]+"/toggle"), "application/json", nil)
		if err != nil {
			return fmt.Errorf("daemon not running: %w", err)
		}

		defer func(Body io.ReadCloser) {
			_ = Body.Close()
		}(resp.Body)

		if resp.StatusCode != http.StatusOK {
			var result map[string]string
			_ = json.NewDecoder(resp.Body).Decode(&result)
			return fmt.Errorf("failed to toggle job: %s", result["error"])
		}

		var job model.SyncJob
		_ = json.NewDecoder(resp.Body).Decode(&job)
		state := "disabled"
		if job.IsEnabled {
			state = "enabled"
		}
		fmt.Printf("job %s %s\n", job.ID, state)
		return nil
	},
}

var jobRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a sync job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, _ := http.NewRequest(http.MethodDelete, daemonURL("/jobs/"+args[0]), nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return fmt.Errorf("daemon not running: %w", err)
		}

		defer func(Body io.ReadCloser) {
			_ = Body.Close()
		}(resp.Body)

		fmt.Printf("job %s removed\n", args[0])
		return nil
	},
}

func init() {
	jobAddCmd.Flags().StringVar(&jobPrefix, "prefix", "", "remote key prefix")
	jobCmd.AddCommand(jobListCmd, jobAddCmd, jobToggleCmd, jobRemoveCmd)
	rootCmd.AddCommand(jobCmd)
}
