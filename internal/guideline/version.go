package guideline

// Version constants for the guideline schema and evaluation engine.
const (
	// SchemaVersion is the guideline document schema version.
	SchemaVersion = "1"

	// EngineVersion is the compliance engine version.
	EngineVersion = "0.1.0"
)
