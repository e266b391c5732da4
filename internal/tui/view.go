package tui

import (
	"fmt"
	"sort"
	"strings"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("meshare") + "\n\n")

	if m.err != nil {
		b.WriteString(errStyle.Render(fmt.Sprintf("error talking to peer: %v", m.err)) + "\n")
		return paneStyle.Render(b.String())
	}

	b.WriteString(labelStyle.Render("peer") + valueStyle.Render(m.status.PeerID) + "\n")
	b.WriteString(labelStyle.Render("endpoint") + valueStyle.Render(m.status.SelfEndpoint) + "\n")

	if m.status.IsTracker {
		b.WriteString(labelStyle.Render("role") + trackerStyle.Render(fmt.Sprintf("tracker (epoch %d)", m.status.KnownTrackerEpoch)) + "\n")
	} else {
		b.WriteString(labelStyle.Render("role") + followerStyle.Render("follower") + "\n")
		b.WriteString(labelStyle.Render("tracker") + valueStyle.Render(fmt.Sprintf("%s (epoch %d)", m.status.KnownTrackerEndpoint, m.status.KnownTrackerEpoch)) + "\n")
	}

	if m.status.CandidateActive {
		b.WriteString(labelStyle.Render("candidacy") + followerStyle.Render(fmt.Sprintf("active for epoch %d", m.status.CandidateEpoch)) + "\n")
	}

	b.WriteString("\n" + titleStyle.Render("index") + "\n")
	if len(m.index) == 0 {
		b.WriteString("  (empty)\n")
	} else {
		names := make([]string, 0, len(m.index))
		for name := range m.index {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b.WriteString(fmt.Sprintf("  %s (%d holder(s))\n", name, len(m.index[name])))
		}
	}

	b.WriteString("\npress q to quit\n")

	return paneStyle.Render(b.String())
}
