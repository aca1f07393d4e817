package canon

import (
	stderrors "errors"
	"fmt"

	"github.com/KirkDiggler/rpg-spellcanon/internal/entities/spell"
	"github.com/KirkDiggler/rpg-spellcanon/internal/errors"
)

// WarningCode identifies a data-quality finding
type WarningCode string

// Warning codes
const (
	WarningScalarAboveAdvisoryMax  WarningCode = "scalar_above_advisory_max"
	WarningOverlappingLevelBands   WarningCode = "overlapping_level_bands"
	WarningDiceCountCapped         WarningCode = "dice_count_capped"
	WarningLegacyAliasConflict     WarningCode = "legacy_alias_conflict"
	WarningDamagePartIDRegenerated WarningCode = "damage_part_id_regenerated"
	WarningCantripLevel            WarningCode = "cantrip_not_level_zero"
	WarningQuestSpellLevel         WarningCode = "quest_spell_not_level_eight"
	WarningQuestSpellTradition     WarningCode = "quest_spell_not_divine"
	WarningHighLevelTradition      WarningCode = "high_level_spell_not_arcane"
	WarningUnknownMRPartID         WarningCode = "unknown_mr_part_id"
	WarningLegacyParseFailed       WarningCode = "legacy_parse_failed"
)

// Warning is a non-fatal data-quality finding returned beside a result.
// Field is empty for record-level findings.
type Warning struct {
	Field   spell.Field `json:"field,omitempty"`
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	if w.Field == "" {
		return fmt.Sprintf("%s: %s", w.Code, w.Message)
	}
	return fmt.Sprintf("%s: %s: %s", w.Field, w.Code, w.Message)
}

// FieldIssue records a structured value that was present but rejected. The
// field falls back to its legacy text.
type FieldIssue struct {
	Field   spell.Field `json:"field"`
	Key     string      `json:"key,omitempty"`
	Message string      `json:"message"`
}

func (i FieldIssue) String() string {
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}

// AssemblyErrorKind classifies why a record could not be assembled
type AssemblyErrorKind string

// Assembly error kinds
const (
	MissingTraditionField      AssemblyErrorKind = "MissingTraditionField"
	ConflictingTraditionFields AssemblyErrorKind = "ConflictingTraditionFields"
	InvalidIdentityField       AssemblyErrorKind = "InvalidIdentityField"
)

// AssemblyError aborts assembly. No partial spell accompanies it.
type AssemblyError struct {
	Kind      AssemblyErrorKind
	SpellName string
	Message   string
	cause     *errors.Error
}

func newAssemblyError(kind AssemblyErrorKind, spellName, format string, args ...any) *AssemblyError {
	msg := fmt.Sprintf(format, args...)
	return &AssemblyError{
		Kind:      kind,
		SpellName: spellName,
		Message:   msg,
		cause: errors.InvalidArgument(msg).
			WithMeta("kind", string(kind)).
			WithMeta("spell_name", spellName),
	}
}

func (e *AssemblyError) Error() string {
	if e.SpellName == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.SpellName, e.Message)
}

// Unwrap exposes the underlying InvalidArgument error so callers can use the
// errors package helpers and the gRPC conversion.
func (e *AssemblyError) Unwrap() error {
	return e.cause
}

// AsAssemblyError extracts an AssemblyError from an error chain
func AsAssemblyError(err error) (*AssemblyError, bool) {
	var ae *AssemblyError
	if stderrors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsMissingTraditionField reports whether err is a missing tradition failure
func IsMissingTraditionField(err error) bool {
	ae, ok := AsAssemblyError(err)
	return ok && ae.Kind == MissingTraditionField
}

// IsConflictingTraditionFields reports whether err is a tradition conflict
func IsConflictingTraditionFields(err error) bool {
	ae, ok := AsAssemblyError(err)
	return ok && ae.Kind == ConflictingTraditionFields
}

// IsInvalidIdentityField reports whether err is a bad name or level
func IsInvalidIdentityField(err error) bool {
	ae, ok := AsAssemblyError(err)
	return ok && ae.Kind == InvalidIdentityField
}

// structuralError is a normalization failure for a structurally impossible
// value, such as a kind outside the closed set.
func structuralError(path, format string, args ...any) error {
	return errors.InvalidArgumentf("%s: %s", path, fmt.Sprintf(format, args...)).
		WithMeta("path", path)
}
