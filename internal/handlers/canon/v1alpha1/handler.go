// Package v1alpha1 handles the spell canon gRPC service interface
package v1alpha1

import (
	"context"
	"encoding/json"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-spellcanon/internal/canon"
	"github.com/KirkDiggler/rpg-spellcanon/internal/entities/spell"
	"github.com/KirkDiggler/rpg-spellcanon/internal/errors"
	"github.com/KirkDiggler/rpg-spellcanon/internal/orchestrators/importer"
)

// HandlerConfig holds dependencies for the canon handler
type HandlerConfig struct {
	ImportService   importer.Service
	AssembleOptions []canon.Option
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}
	if c.ImportService == nil {
		return errors.InvalidArgument("import service is required")
	}
	return nil
}

// Handler implements the canon gRPC service.
//
//	Assemble     {record}           -> {hash, canonical, warnings, field_issues, sources}
//	FieldText    {field, value}     -> {text}
//	ImportSpells {records, source}  -> {batch_id, results, imported, duplicates, conflicts, rejected}
type Handler struct {
	importService importer.Service
	opts          []canon.Option
}

var _ CanonServiceServer = (*Handler)(nil)

// NewHandler creates a new canon handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{
		importService: cfg.ImportService,
		opts:          cfg.AssembleOptions,
	}, nil
}

// Assemble builds the canonical form of one raw record
func (h *Handler) Assemble(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	record, err := structField(req, "record")
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	result, err := canon.Assemble(canon.RawRecord(record), h.opts...)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	var canonical map[string]any
	if err := json.Unmarshal(result.CanonicalJSON, &canonical); err != nil {
		return nil, errors.ToGRPCError(errors.Wrap(err, "failed to decode canonical spell"))
	}

	sources := make(map[string]any, len(result.Sources))
	for field, source := range result.Sources {
		sources[field.String()] = string(source)
	}

	return toStruct(map[string]any{
		"hash":         result.Hash,
		"canonical":    canonical,
		"warnings":     warningsToList(result.Warnings),
		"field_issues": issuesToList(result.FieldIssues),
		"sources":      sources,
	})
}

// FieldText projects one structured value to display text
func (h *Handler) FieldText(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	field := strings.TrimSpace(req.GetFields()["field"].GetStringValue())
	if field == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("field is required"))
	}
	value, err := structField(req, "value")
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	normalized, err := canon.NormalizeField(spell.Field(field), value)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return toStruct(map[string]any{"text": canon.FieldToText(normalized)})
}

// ImportSpells assembles and stores a batch of raw records
func (h *Handler) ImportSpells(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	list := req.GetFields()["records"].GetListValue()
	if list == nil {
		return nil, errors.ToGRPCError(errors.InvalidArgument("records is required"))
	}

	records := make([]canon.RawRecord, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		s := v.GetStructValue()
		if s == nil {
			return nil, errors.ToGRPCError(errors.InvalidArgumentf("records[%d] must be an object", i))
		}
		records = append(records, canon.RawRecord(s.AsMap()))
	}

	out, err := h.importService.ImportSpells(ctx, &importer.ImportSpellsInput{
		Records: records,
		Source:  req.GetFields()["source"].GetStringValue(),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	results := make([]any, 0, len(out.Results))
	for _, r := range out.Results {
		results = append(results, resultToMap(r))
	}

	return toStruct(map[string]any{
		"batch_id":   out.BatchID,
		"results":    results,
		"imported":   out.Imported,
		"duplicates": out.Duplicates,
		"conflicts":  out.Conflicts,
		"rejected":   out.Rejected,
	})
}
