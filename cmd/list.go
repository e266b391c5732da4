package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every file known to the tracker's index",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := adminRequest(http.MethodGet, "/index", nil)
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

		var index map[string][]struct {
			PeerID   string `json:"peer_id"`
			Endpoint string `json:"endpoint"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&index); err != nil {
			fmt.Fprintf(os.Stderr, "Error decoding response: %v\n", err)
			os.Exit(1)
		}

		if len(index) == 0 {
			fmt.Println("the index is empty")
			return
		}

		names := make([]string, 0, len(index))
		for name := range index {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			fmt.Printf("%s\n", name)
			for _, h := range index[name] {
				fmt.Printf("  %s  %s\n", h.PeerID, h.Endpoint)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
