package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

var electionCmd = &cobra.Command{
	Use:   "election",
	Short: "Force this peer to treat the tracker as unreachable and start an election",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := adminRequest(http.MethodPost, "/election", nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusAccepted {
			body, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(os.Stderr, "Error: server returned %s: %s\n", resp.Status, body)
			os.Exit(1)
		}
		fmt.Println("election triggered")
	},
}

func init() {
	rootCmd.AddCommand(electionCmd)
}
