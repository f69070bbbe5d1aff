package constants

// SourceMethod records how a canonical part came into existence.
type SourceMethod string

// Stable values (these exact strings are persisted in audit trails).
const (
	SourceShorthand SourceMethod = "SHORTHAND" // deterministic grammar parse
	SourceAI        SourceMethod = "AI"        // external AI provider extraction
	SourceManual    SourceMethod = "MANUAL"    // typed in by a person
)

// SessionStatus is the lifecycle state of one accuracy session.
type SessionStatus string

const (
	SessionStarted   SessionStatus = "STARTED"
	SessionOriginal  SessionStatus = "ORIGINAL_RECORDED"
	SessionCorrected SessionStatus = "CORRECTED_RECORDED"
	SessionFinalized SessionStatus = "FINALIZED"
	SessionDiscarded SessionStatus = "DISCARDED"
)

// Difficulty is the operator-declared difficulty of a source document.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// Grain direction of a part relative to its L axis.
type Grain string

const (
	GrainNone   Grain = "none"
	GrainAlongL Grain = "along_L"
	GrainAlongW Grain = "along_W"
)
