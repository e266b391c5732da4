package tui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// pollInterval mirrors the cadence surge's reporter polled a download's
// progress state at, just aimed at a peer's admin API instead.
const pollInterval = 500 * time.Millisecond

type statusSnapshot struct {
	PeerID               string
	SelfEndpoint         string
	IsTracker            bool
	KnownTrackerEndpoint string
	KnownTrackerEpoch    int64
	CandidateActive      bool
	CandidateEpoch       int64
}

type holder struct {
	PeerID   string
	Endpoint string
}

type snapshotMsg struct {
	status statusSnapshot
	index  map[string][]holder
	err    error
}

type tickMsg time.Time

// Model is the root Bubble Tea model for the peer status dashboard.
type Model struct {
	adminBaseURL string
	client       *http.Client

	status statusSnapshot
	index  map[string][]holder
	err    error
	width  int
}

// New builds a dashboard that polls the admin API at adminBaseURL.
func New(adminBaseURL string) Model {
	return Model{
		adminBaseURL: adminBaseURL,
		client:       &http.Client{Timeout: 2 * time.Second},
	}
}

func (m Model) Init() tea.Cmd {
	return m.poll()
}

func (m Model) poll() tea.Cmd {
	return func() tea.Msg {
		var status statusSnapshot
		if err := m.getJSON("/status", &status); err != nil {
			return snapshotMsg{err: err}
		}
		var index map[string][]holder
		if err := m.getJSON("/index", &index); err != nil {
			return snapshotMsg{err: err}
		}
		return snapshotMsg{status: status, index: index}
	}
}

func (m Model) getJSON(path string, out any) error {
	resp, err := m.client.Get(m.adminBaseURL + path)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		return m, nil

	case snapshotMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.status
			m.index = msg.index
		}
		return m, tick()

	case tickMsg:
		return m, m.poll()
	}
	return m, nil
}
