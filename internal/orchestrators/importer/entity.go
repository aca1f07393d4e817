package importer

import (
	"fmt"

	"github.com/KirkDiggler/rpg-toolkit/core"
)

// spellEntity is the event source for import events
type spellEntity struct {
	id string
}

// GetID returns the spell hash, or the record index for rejected records
func (e *spellEntity) GetID() string {
	return e.id
}

// GetType returns the entity type for rpg-toolkit
func (e *spellEntity) GetType() string {
	return "canonical_spell"
}

func newSpellEntity(result *RecordResult) *spellEntity {
	if result.Hash != "" {
		return &spellEntity{id: result.Hash}
	}
	return &spellEntity{id: fmt.Sprintf("record-%d", result.Index)}
}

var _ core.Entity = (*spellEntity)(nil)
