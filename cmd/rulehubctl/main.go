package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	apiKey    string
	authToken string
)

func main() {
	root := &cobra.Command{
		Use:   "rulehubctl",
		Short: "Operational CLI for a running rulehub server",
	}

	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "base URL of the rulehub server")
	root.PersistentFlags().StringVar(&apiKey, "api-key", os.Getenv("RULEHUB_API_KEY"), "API secret key for sync endpoints")
	root.PersistentFlags().StringVar(&authToken, "token", os.Getenv("RULEHUB_TOKEN"), "admin JWT for authenticated endpoints")

	root.AddCommand(syncCmd(), statusCmd(), statsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func syncCmd() *cobra.Command {
	var force bool
	var category string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Trigger a rule sync from the source repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]interface{}{"force": force}
			if category != "" {
				body["category"] = category
			}
			return callAPI(http.MethodPost, "/api/v1/admin/sync", body)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "re-import all files even when fingerprints match")
	cmd.Flags().StringVar(&category, "category", "", "limit the sync to one category directory")

	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the most recent sync run",
		RunE: func(cmd *cobra.Command, args []string) error {
			return callAPI(http.MethodGet, "/api/v1/admin/sync/status", nil)
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show database record counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return callAPI(http.MethodGet, "/api/v1/admin/database/stats", nil)
		},
	}
}

func callAPI(method, path string, body interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, serverURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
	} else {
		fmt.Println(pretty.String())
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}
