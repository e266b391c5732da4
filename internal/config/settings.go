package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Settings holds every user-configurable parameter, organized by category
// the way the teacher repo's Settings type groups General/Network/Torrent.
type Settings struct {
	General  GeneralSettings  `json:"general"`
	Cohort   CohortSettings   `json:"cohort"`
	Timing   TimingSettings   `json:"timing"`
	Registry RegistrySettings `json:"registry"`
}

// GeneralSettings contains peer-identity and logging behavior.
type GeneralSettings struct {
	PeerID            string `json:"peer_id"`
	SharedDir         string `json:"shared_dir"`
	ListenAddr        string `json:"listen_addr"`
	Verbose           bool   `json:"verbose"`
	LogRetentionCount int    `json:"log_retention_count"`
}

// CohortSettings describes the fixed, known set of peers (spec.md section 1:
// "No support for dynamic cohort size at runtime").
type CohortSettings struct {
	TotalPeersExpected int  `json:"total_peers_expected"`
	Bootstrap          bool `json:"bootstrap"`
	MaxEpochSearch      int `json:"max_epoch_search"`
}

// Quorum returns floor(N/2)+1, the quorum constant from spec.md section 6.
func (c CohortSettings) Quorum() int {
	return c.TotalPeersExpected/2 + 1
}

// TimingSettings carries the recommended-default constants from spec.md
// section 6. Units are durations, so there is no ambiguity about seconds vs.
// milliseconds as there would be with the bare float recommendations in the
// original spec.
type TimingSettings struct {
	HeartbeatInterval          time.Duration `json:"heartbeat_interval"`
	TrackerDetectionTimeoutMin time.Duration `json:"tracker_detection_timeout_min"`
	TrackerDetectionTimeoutMax time.Duration `json:"tracker_detection_timeout_max"`
	ElectionRequestTimeout     time.Duration `json:"election_request_timeout"`

	PingTimeout     time.Duration `json:"ping_timeout"`
	VoteTimeout     time.Duration `json:"vote_timeout"`
	HeartbeatTimeout time.Duration `json:"heartbeat_timeout"`
	RegisterTimeout time.Duration `json:"register_timeout"`
	DownloadTimeout time.Duration `json:"download_timeout"`

	// BootstrapDelayMax/DiscoveryDelayMin/Max implement spec.md section 4.1's
	// "small randomized delay (bootstrap peer uses a shorter range)",
	// supplemented with concrete ranges from original_source/peer.py.
	BootstrapDelayMax time.Duration `json:"bootstrap_delay_max"`
	DiscoveryDelayMin time.Duration `json:"discovery_delay_min"`
	DiscoveryDelayMax time.Duration `json:"discovery_delay_max"`

	FileWatchInterval time.Duration `json:"file_watch_interval"`
}

// RegistrySettings points a peer at its name-registry backend.
type RegistrySettings struct {
	URL string `json:"url"`
}

const DownloadChunkSize = 1024 * 1024 // spec.md section 6 DOWNLOAD_CHUNK_SIZE

// DefaultSettings returns the recommended defaults from spec.md section 6.
func DefaultSettings() *Settings {
	return &Settings{
		General: GeneralSettings{
			SharedDir:         filepath.Join(GetDataDir(), "shared"),
			ListenAddr:        "127.0.0.1:0",
			LogRetentionCount: 10,
		},
		Cohort: CohortSettings{
			TotalPeersExpected: 5,
			MaxEpochSearch:     100,
		},
		Timing: TimingSettings{
			HeartbeatInterval:          2 * time.Second,
			TrackerDetectionTimeoutMin: 5 * time.Second,
			TrackerDetectionTimeoutMax: 10 * time.Second,
			ElectionRequestTimeout:     3 * time.Second,
			PingTimeout:                1500 * time.Millisecond,
			VoteTimeout:                2 * time.Second,
			HeartbeatTimeout:           500 * time.Millisecond,
			RegisterTimeout:            5 * time.Second,
			DownloadTimeout:            10 * time.Second,
			BootstrapDelayMax:          time.Second,
			DiscoveryDelayMin:          time.Second,
			DiscoveryDelayMax:          3 * time.Second,
			FileWatchInterval:          5 * time.Second,
		},
		Registry: RegistrySettings{
			URL: "http://127.0.0.1:9090",
		},
	}
}

func settingsPath() string {
	return filepath.Join(GetMeshareDir(), "settings.json")
}

// LoadSettings reads settings.json, falling back to defaults for any field
// left unset and for a missing file entirely.
func LoadSettings() (*Settings, error) {
	data, err := os.ReadFile(settingsPath())
	if os.IsNotExist(err) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// SaveSettings persists settings to settings.json.
func SaveSettings(settings *Settings) error {
	if err := os.MkdirAll(GetMeshareDir(), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(settingsPath(), data, 0o644)
}
