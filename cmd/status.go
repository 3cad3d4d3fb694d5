package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "View scheduler status",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := http.Get(daemonURL("/status"))
		if err != nil {
			return fmt.Errorf("daemon not running: %w", err)
		}

		defer func(Body io.ReadCloser) {
			_ = Body.Close()
		}(resp.Body)

		var status struct {
			Running  bool       `json:"running"`
			AutoSync bool       `json:"auto_sync"`
			LastSync *time.Time `json:"last_sync"`
			Jobs     int        `json:"jobs"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
			return fmt.Errorf("failed to decode status response: %w", err)
		}

		lastSync := "-"
		if status.LastSync != nil {
			lastSync = status.LastSync.Format("2006-01-02 15:04:05")
		}

		fmt.Printf("scheduler:  %s\n", onOff(status.Running, "running", "stopped"))
		fmt.Printf("auto-sync:  %s\n", onOff(status.AutoSync, "enabled", "disabled"))
		fmt.Printf("jobs:       %d\n", status.Jobs)
		fmt.Printf("last sync:  %s\n", lastSync)
		return nil
	},
}

var autoSyncCmd = &cobra.Command{
	Use:   "autosync [on|off]",
	Short: "Enable or disable scheduled syncs globally",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[0] != "on" && args[0] != "off" {
			return fmt.Errorf("expected 'on' or 'off', got %q", args[0])
		}

		body := `{"enabled":true}`
		if args[0] == "off" {
			body = `{"enabled":false}`
		}

		resp, err := http.Post(daemonURL("/status/autosync"), "application/json", strings.NewReader(body))
		if err != nil {
			return fmt.Errorf("daemon not running: %w", err)
		}

		defer func(Body io.ReadCloser) {
			_ = Body.Close()
		}(resp.Body)

		fmt.Printf("auto-sync %s\n", args[0])
		return nil
	},
}

func onOff(v bool, on, off string) string {
	if v {
		return on
	}
	return off
}

func init() {
	rootCmd.AddCommand(statusCmd, autoSyncCmd)
}
