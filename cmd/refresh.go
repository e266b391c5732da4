package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Force an immediate rescan of the shared directory",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := adminRequest(http.MethodPost, "/refresh", nil)
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
		fmt.Println("rescan triggered")
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
