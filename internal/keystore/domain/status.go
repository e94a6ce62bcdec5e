package domain

// State is the lifecycle state of the keystore.
type State string

const (
	// StateUnconfigured means no passphrase has been set; keys use the legacy scheme.
	StateUnconfigured State = "unconfigured"
	// StateLocked means metadata exists but no derived key is held in memory.
	StateLocked State = "locked"
	// StateUnlocked means the derived key is held in memory.
	StateUnlocked State = "unlocked"
)

// Status is a point-in-time view of the keystore used by status endpoints and the CLI.
type Status struct {
	State      State
	Configured bool
	Locked     bool
	Providers  map[Provider]bool
}
