// Package canonicalspell stores assembled canonical spells keyed by content hash
package canonicalspell

//go:generate mockgen -destination=mock/mock_repository.go -package=canonicalspellmock github.com/KirkDiggler/rpg-spellcanon/internal/repositories/canonical_spell Repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/KirkDiggler/rpg-spellcanon/internal/entities/spell"
)

// Repository defines the interface for canonical spell persistence
type Repository interface {
	// Put stores a spell under its hash and indexes it by identity
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.AlreadyExists if the hash is already stored
	// Returns a wrapped errors.CodeInternal error for storage failures
	Put(ctx context.Context, input PutInput) (*PutOutput, error)

	// Get retrieves a spell by hash
	// Returns errors.InvalidArgument for an empty hash
	// Returns errors.NotFound if the hash is not stored
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// ListByIdentity retrieves every stored version of a name and level,
	// ordered by hash
	// Returns errors.InvalidArgument for an empty name
	ListByIdentity(ctx context.Context, input ListByIdentityInput) (*ListByIdentityOutput, error)

	// Delete removes a spell and its identity index entry
	// Returns errors.NotFound if the hash is not stored
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// StoredSpell is one canonical spell as persisted
type StoredSpell struct {
	Hash          string          `json:"hash"`
	Name          string          `json:"name"`
	Level         int             `json:"level"`
	Tradition     spell.Tradition `json:"tradition"`
	CanonicalJSON json.RawMessage `json:"canonical_json"`
	Metadata      spell.Metadata  `json:"metadata"`
	BatchID       string          `json:"batch_id,omitempty"`
	StoredAt      time.Time       `json:"stored_at"`
}

// PutInput defines the input for storing a spell
type PutInput struct {
	Spell *StoredSpell
}

// PutOutput defines the output for storing a spell
type PutOutput struct {
	Spell *StoredSpell
}

// GetInput defines the input for getting a spell
type GetInput struct {
	Hash string
}

// GetOutput defines the output for getting a spell
type GetOutput struct {
	Spell *StoredSpell
}

// ListByIdentityInput defines the input for listing spells by identity
type ListByIdentityInput struct {
	Name  string
	Level int
}

// ListByIdentityOutput defines the output for listing spells by identity
type ListByIdentityOutput struct {
	Spells []*StoredSpell
}

// DeleteInput defines the input for deleting a spell
type DeleteInput struct {
	Hash string
}

// DeleteOutput defines the output for deleting a spell
type DeleteOutput struct{}
