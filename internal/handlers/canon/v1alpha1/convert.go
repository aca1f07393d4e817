package v1alpha1

import (
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-spellcanon/internal/canon"
	"github.com/KirkDiggler/rpg-spellcanon/internal/errors"
	"github.com/KirkDiggler/rpg-spellcanon/internal/orchestrators/importer"
)

// structField returns a nested object from the request
func structField(req *structpb.Struct, key string) (map[string]any, error) {
	s := req.GetFields()[key].GetStructValue()
	if s == nil {
		return nil, errors.InvalidArgumentf("%s must be an object", key)
	}
	return s.AsMap(), nil
}

func toStruct(m map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, errors.ToGRPCError(errors.Wrap(err, "failed to encode response"))
	}
	return s, nil
}

func warningsToList(warnings []canon.Warning) []any {
	out := make([]any, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, map[string]any{
			"field":   w.Field.String(),
			"code":    string(w.Code),
			"message": w.Message,
		})
	}
	return out
}

func issuesToList(issues []canon.FieldIssue) []any {
	out := make([]any, 0, len(issues))
	for _, i := range issues {
		out = append(out, map[string]any{
			"field":   i.Field.String(),
			"key":     i.Key,
			"message": i.Message,
		})
	}
	return out
}

func stringsToList(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

func resultToMap(r *importer.RecordResult) map[string]any {
	m := map[string]any{
		"index":        r.Index,
		"name":         r.Name,
		"level":        r.Level,
		"status":       string(r.Status),
		"warnings":     warningsToList(r.Warnings),
		"field_issues": issuesToList(r.FieldIssues),
	}
	if r.Hash != "" {
		m["hash"] = r.Hash
	}
	switch r.Status {
	case importer.StatusConflict:
		m["conflicts_with"] = stringsToList(r.ConflictsWith)
		m["conflict_fields"] = stringsToList(r.ConflictFields)
	case importer.StatusRejected:
		m["error_kind"] = string(r.ErrorKind)
		m["error"] = r.Error
	}
	return m
}
