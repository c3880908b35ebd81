package domain

// SlotStatus is the display status of one actuator slot.
type SlotStatus int

const (
	StatusIdle SlotStatus = iota
	StatusRunning
	StatusError
)

// String returns the display label for the status.
func (s SlotStatus) String() string {
	switch s {
	case StatusRunning:
		return "Running"
	case StatusError:
		return "Error"
	default:
		return "Idle"
	}
}

// UpdateOutcome classifies the result of an update check or apply attempt.
type UpdateOutcome string

const (
	OutcomeUpToDate        UpdateOutcome = "up_to_date"
	OutcomeUpdateAvailable UpdateOutcome = "update_available"
	OutcomeVerifying       UpdateOutcome = "verifying"
	OutcomeApplied         UpdateOutcome = "applied"
	OutcomeAborted         UpdateOutcome = "aborted"
	OutcomeFailed          UpdateOutcome = "failed"
)

// UpdateNotification is the outcome report emitted by the update pipeline.
type UpdateNotification struct {
	Outcome UpdateOutcome `json:"outcome"`
	Version string        `json:"version,omitempty"`
	// Reason carries the human-readable explanation for Aborted and Failed.
	Reason string `json:"reason,omitempty"`
	// Checksum is a truncated fingerprint of the applied artifact.
	Checksum   string `json:"checksum,omitempty"`
	BackupPath string `json:"backup_path,omitempty"`
}

// VersionInfo describes the latest release published on the feed.
type VersionInfo struct {
	// Tag is the published version tag, possibly prefixed with "v".
	Tag string
	// Notes holds the release notes body (markdown), when the feed provides one.
	Notes string
}
