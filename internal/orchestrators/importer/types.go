package importer

import (
	"github.com/KirkDiggler/rpg-spellcanon/internal/canon"
	canonicalspell "github.com/KirkDiggler/rpg-spellcanon/internal/repositories/canonical_spell"
)

// Status is the outcome of importing one record
type Status string

// Import statuses
const (
	StatusImported  Status = "imported"
	StatusDuplicate Status = "duplicate"
	StatusConflict  Status = "conflict"
	StatusRejected  Status = "rejected"
)

// Event types published on the bus, one per record
const (
	EventSpellImported = "spellcanon.spell_imported"
	EventSpellConflict = "spellcanon.spell_conflict"
	EventSpellRejected = "spellcanon.spell_rejected"
)

// ImportSpellsInput defines the request for importing a batch of raw records
type ImportSpellsInput struct {
	Records []canon.RawRecord
	// Source is recorded as metadata on records that do not carry their own
	Source string
}

// RecordResult reports what happened to one input record
type RecordResult struct {
	Index       int
	Name        string
	Level       int
	Hash        string
	Status      Status
	Warnings    []canon.Warning
	FieldIssues []canon.FieldIssue

	// Set for conflicts: the stored hashes sharing this name and level and
	// the top-level canonical keys that differ from the first of them.
	ConflictsWith  []string
	ConflictFields []string

	// Set for rejections
	ErrorKind canon.AssemblyErrorKind
	Error     string
}

// ImportSpellsOutput defines the response for importing a batch
type ImportSpellsOutput struct {
	BatchID string
	Results []*RecordResult

	Imported   int
	Duplicates int
	Conflicts  int
	Rejected   int
}

// GetSpellInput defines the request for fetching a stored spell
type GetSpellInput struct {
	Hash string
}

// GetSpellOutput defines the response for fetching a stored spell
type GetSpellOutput struct {
	Spell *canonicalspell.StoredSpell
}

// VerifySpellInput defines the request for verifying a stored spell
type VerifySpellInput struct {
	Hash string
}

// VerifySpellOutput reports whether stored bytes still match their hash
type VerifySpellOutput struct {
	Hash         string
	ComputedHash string
	// Canonical is false when the stored bytes are not in canonical form
	Canonical bool
	Valid     bool
}
