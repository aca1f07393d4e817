// Package importer assembles raw spell records and stores them as canonical
// spells
package importer

//go:generate mockgen -destination=mock/mock_service.go -package=importermock github.com/KirkDiggler/rpg-spellcanon/internal/orchestrators/importer Service

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"maps"
	"sort"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/rpg-spellcanon/internal/canon"
	"github.com/KirkDiggler/rpg-spellcanon/internal/errors"
	"github.com/KirkDiggler/rpg-spellcanon/internal/pkg/idgen"
	canonicalspell "github.com/KirkDiggler/rpg-spellcanon/internal/repositories/canonical_spell"
)

// DefaultConcurrency bounds concurrent assembly when Config.Concurrency is unset
const DefaultConcurrency = 4

// Service defines the interface for spell import operations
type Service interface {
	// ImportSpells assembles every record and stores the ones that are new.
	// Per-record failures are reported in the results; an error is returned
	// only when storage itself fails.
	ImportSpells(ctx context.Context, input *ImportSpellsInput) (*ImportSpellsOutput, error)
	GetSpell(ctx context.Context, input *GetSpellInput) (*GetSpellOutput, error)
	VerifySpell(ctx context.Context, input *VerifySpellInput) (*VerifySpellOutput, error)
}

// Config holds the dependencies for the import orchestrator
type Config struct {
	Repository  canonicalspell.Repository
	IDGenerator idgen.Generator
	// EventBus is optional; without it no events are published
	EventBus        events.EventBus
	Concurrency     int
	AssembleOptions []canon.Option
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()

	if c.Repository == nil {
		vb.RequiredField("Repository")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Concurrency < 0 {
		vb.InvalidField("Concurrency", "cannot be negative")
	}

	return vb.Build()
}

type orchestrator struct {
	repo        canonicalspell.Repository
	idGen       idgen.Generator
	bus         events.EventBus
	concurrency int
	opts        []canon.Option
}

// NewOrchestrator creates a new import orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	concurrency := cfg.Concurrency
	if concurrency == 0 {
		concurrency = DefaultConcurrency
	}

	return &orchestrator{
		repo:        cfg.Repository,
		idGen:       cfg.IDGenerator,
		bus:         cfg.EventBus,
		concurrency: concurrency,
		opts:        cfg.AssembleOptions,
	}, nil
}

type assembled struct {
	result *canon.Result
	err    error
}

func (o *orchestrator) ImportSpells(ctx context.Context, input *ImportSpellsInput) (*ImportSpellsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	batchID := o.idGen.Generate()
	slog.InfoContext(ctx, "importing spell batch",
		"batch_id", batchID,
		"records", len(input.Records))

	// Assembly is pure and runs in parallel. Storage runs afterwards in input
	// order so that identity conflicts inside one batch resolve the same way
	// every time.
	assemblies := make([]assembled, len(input.Records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, record := range input.Records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := canon.Assemble(withSource(record, input.Source), o.opts...)
			assemblies[i] = assembled{result: res, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeCanceled, "import canceled")
	}

	output := &ImportSpellsOutput{
		BatchID: batchID,
		Results: make([]*RecordResult, 0, len(input.Records)),
	}
	for i, a := range assemblies {
		var result *RecordResult
		if a.err != nil {
			result = rejected(i, input.Records[i], a.err)
		} else {
			var err error
			result, err = o.store(ctx, batchID, i, a.result)
			if err != nil {
				return nil, err
			}
		}

		switch result.Status {
		case StatusImported:
			output.Imported++
		case StatusDuplicate:
			output.Duplicates++
		case StatusConflict:
			output.Conflicts++
		case StatusRejected:
			output.Rejected++
		}
		output.Results = append(output.Results, result)
		o.publish(ctx, batchID, result)
	}

	slog.InfoContext(ctx, "imported spell batch",
		"batch_id", batchID,
		"imported", output.Imported,
		"duplicates", output.Duplicates,
		"conflicts", output.Conflicts,
		"rejected", output.Rejected)

	return output, nil
}

func (o *orchestrator) store(ctx context.Context, batchID string, index int, res *canon.Result) (*RecordResult, error) {
	result := &RecordResult{
		Index:       index,
		Name:        res.Spell.Name,
		Level:       res.Spell.Level,
		Hash:        res.Hash,
		Warnings:    res.Warnings,
		FieldIssues: res.FieldIssues,
	}

	existing, err := o.repo.ListByIdentity(ctx, canonicalspell.ListByIdentityInput{
		Name:  res.Spell.Name,
		Level: res.Spell.Level,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to look up %s", res.Spell.Name)
	}

	for _, stored := range existing.Spells {
		if stored.Hash == res.Hash {
			result.Status = StatusDuplicate
			return result, nil
		}
	}
	if len(existing.Spells) > 0 {
		result.Status = StatusConflict
		for _, stored := range existing.Spells {
			result.ConflictsWith = append(result.ConflictsWith, stored.Hash)
		}
		result.ConflictFields = diffTopLevel(existing.Spells[0].CanonicalJSON, res.CanonicalJSON)
		return result, nil
	}

	_, err = o.repo.Put(ctx, canonicalspell.PutInput{Spell: &canonicalspell.StoredSpell{
		Hash:          res.Hash,
		Name:          res.Spell.Name,
		Level:         res.Spell.Level,
		Tradition:     res.Spell.Tradition,
		CanonicalJSON: res.CanonicalJSON,
		Metadata:      res.Metadata,
		BatchID:       batchID,
	}})
	if err != nil {
		if errors.IsAlreadyExists(err) {
			result.Status = StatusDuplicate
			return result, nil
		}
		return nil, errors.Wrapf(err, "failed to store %s", res.Spell.Name)
	}

	result.Status = StatusImported
	return result, nil
}

func rejected(index int, record canon.RawRecord, err error) *RecordResult {
	result := &RecordResult{
		Index:  index,
		Status: StatusRejected,
		Error:  err.Error(),
	}
	if name, ok := record["name"].(string); ok {
		result.Name = strings.Join(strings.Fields(name), " ")
	}
	if ae, ok := canon.AsAssemblyError(err); ok {
		result.ErrorKind = ae.Kind
	}
	return result
}

func (o *orchestrator) publish(ctx context.Context, batchID string, result *RecordResult) {
	if o.bus == nil {
		return
	}

	eventType := EventSpellImported
	switch result.Status {
	case StatusDuplicate:
		// Nothing changed
		return
	case StatusConflict:
		eventType = EventSpellConflict
	case StatusRejected:
		eventType = EventSpellRejected
	}

	event := events.NewGameEvent(eventType, newSpellEntity(result), nil)
	event.Context().Set("batch_id", batchID)
	event.Context().Set("index", result.Index)
	event.Context().Set("name", result.Name)
	event.Context().Set("status", string(result.Status))
	switch result.Status {
	case StatusImported:
		event.Context().Set("warnings", len(result.Warnings))
	case StatusConflict:
		event.Context().Set("conflicts_with", result.ConflictsWith)
	case StatusRejected:
		event.Context().Set("error", result.Error)
	}

	if err := o.bus.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish import event",
			"event", eventType,
			"batch_id", batchID,
			"error", err)
	}
}

func (o *orchestrator) GetSpell(ctx context.Context, input *GetSpellInput) (*GetSpellOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out, err := o.repo.Get(ctx, canonicalspell.GetInput{Hash: input.Hash})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get spell %s", input.Hash)
	}

	return &GetSpellOutput{Spell: out.Spell}, nil
}

func (o *orchestrator) VerifySpell(ctx context.Context, input *VerifySpellInput) (*VerifySpellOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out, err := o.repo.Get(ctx, canonicalspell.GetInput{Hash: input.Hash})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get spell %s", input.Hash)
	}

	stored := []byte(out.Spell.CanonicalJSON)
	var decoded any
	if err := json.Unmarshal(stored, &decoded); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "stored canonical JSON is unreadable")
	}
	recanonical, err := canon.CanonicalJSON(decoded)
	if err != nil {
		return nil, errors.Wrap(err, "failed to re-encode stored spell")
	}

	computed := canon.Hash(stored)
	result := &VerifySpellOutput{
		Hash:         input.Hash,
		ComputedHash: computed,
		Canonical:    bytes.Equal(stored, recanonical),
	}
	result.Valid = result.Canonical && computed == input.Hash

	if !result.Valid {
		slog.WarnContext(ctx, "stored spell failed verification",
			"hash", input.Hash,
			"computed_hash", computed,
			"canonical", result.Canonical)
	}

	return result, nil
}

func withSource(record canon.RawRecord, source string) canon.RawRecord {
	if source == "" {
		return record
	}
	if s, ok := record["source"].(string); ok && strings.TrimSpace(s) != "" {
		return record
	}
	out := make(canon.RawRecord, len(record)+1)
	maps.Copy(out, record)
	out["source"] = source
	return out
}

// diffTopLevel lists the top-level keys whose canonical values differ
func diffTopLevel(existing, incoming []byte) []string {
	var a, b map[string]json.RawMessage
	if json.Unmarshal(existing, &a) != nil || json.Unmarshal(incoming, &b) != nil {
		return nil
	}

	var fields []string
	for k, v := range a {
		if w, ok := b[k]; !ok || !bytes.Equal(v, w) {
			fields = append(fields, k)
		}
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			fields = append(fields, k)
		}
	}
	sort.Strings(fields)
	return fields
}
