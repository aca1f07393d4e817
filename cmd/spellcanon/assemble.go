package main

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-spellcanon/internal/canon"
	"github.com/KirkDiggler/rpg-spellcanon/internal/entities/spell"
)

var assembleCmd = &cobra.Command{
	Use:   "assemble <file>",
	Short: "Assemble raw records into canonical spells",
	Long:  `Assemble reads a JSON or YAML file holding one record or a list of records and prints each canonical spell with its hash, warnings and field issues.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAssemble,
}

func assembleOptions() []canon.Option {
	return []canon.Option{canon.WithAdvisoryMax(cfg.AdvisoryMax)}
}

func runAssemble(cmd *cobra.Command, args []string) error {
	records, err := readRecords(args[0])
	if err != nil {
		return err
	}

	failed := 0
	out := make([]map[string]any, 0, len(records))
	for i, record := range records {
		result, err := canon.Assemble(record, assembleOptions()...)
		if err != nil {
			log.Printf("record %d rejected: %v", i, err)
			failed++
			out = append(out, map[string]any{"index": i, "error": err.Error()})
			continue
		}

		out = append(out, map[string]any{
			"index":        i,
			"hash":         result.Hash,
			"spell":        json.RawMessage(result.CanonicalJSON),
			"metadata":     result.Metadata,
			"warnings":     result.Warnings,
			"field_issues": result.FieldIssues,
			"sources":      sourcesByName(result.Sources),
		})
	}

	if err := printJSON(out); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d records rejected", failed, len(records))
	}
	return nil
}

func sourcesByName(sources map[spell.Field]canon.Source) map[string]canon.Source {
	out := make(map[string]canon.Source, len(sources))
	for field, source := range sources {
		out[field.String()] = source
	}
	return out
}
