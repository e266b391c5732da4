package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <file name>",
	Short: "Look up which peers hold a file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := "/search?name=" + url.QueryEscape(args[0])
		resp, err := adminRequest(http.MethodGet, path, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(os.Stderr, "Error: server returned %s: %s\n", resp.Status, body)
			os.Exit(1)
		}

		var holders []struct {
			PeerID   string `json:"peer_id"`
			Endpoint string `json:"endpoint"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&holders); err != nil {
			fmt.Fprintf(os.Stderr, "Error decoding response: %v\n", err)
			os.Exit(1)
		}

		if len(holders) == 0 {
			fmt.Println("no peers currently hold that file")
			return
		}
		for _, h := range holders {
			fmt.Printf("%s  %s\n", h.PeerID, h.Endpoint)
		}
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
