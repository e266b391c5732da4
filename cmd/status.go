package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show this peer's election and tracker view",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := adminRequest(http.MethodGet, "/status", nil)
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

		var st struct {
			PeerID               string
			SelfEndpoint         string
			IsTracker            bool
			KnownTrackerEndpoint string
			KnownTrackerEpoch    int64
			CandidateActive      bool
			CandidateEpoch       int64
		}
		if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
			fmt.Fprintf(os.Stderr, "Error decoding response: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("peer:       %s\n", st.PeerID)
		fmt.Printf("endpoint:   %s\n", st.SelfEndpoint)
		if st.IsTracker {
			color.Green("role:       tracker (epoch %d)", st.KnownTrackerEpoch)
		} else {
			fmt.Printf("role:       follower\n")
			fmt.Printf("tracker:    %s (epoch %d)\n", st.KnownTrackerEndpoint, st.KnownTrackerEpoch)
		}
		if st.CandidateActive {
			color.Yellow("candidacy:  active for epoch %d", st.CandidateEpoch)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
