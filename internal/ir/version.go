package ir

// Version constants stamped on journaled actions.
const (
	// JournalVersion is the session journal record version.
	JournalVersion = "1"

	// EngineVersion is the ministore engine version.
	EngineVersion = "0.1.0"
)
