package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-spellcanon/internal/canon"
	"github.com/KirkDiggler/rpg-spellcanon/internal/clients/srd"
	"github.com/KirkDiggler/rpg-spellcanon/internal/orchestrators/importer"
)

var (
	srdLevel int
	srdClass string
	srdStore bool
)

var srdCmd = &cobra.Command{
	Use:   "import-srd",
	Short: "Pull spells from the 5e SRD API and assemble or import them",
	RunE:  runSRD,
}

func init() {
	srdCmd.Flags().IntVar(&srdLevel, "level", -1, "only spells of this level (0-9)")
	srdCmd.Flags().StringVar(&srdClass, "class", "", "only spells on this class list, e.g. wizard")
	srdCmd.Flags().BoolVar(&srdStore, "store", false, "import into the canonical store instead of printing")
}

func runSRD(cmd *cobra.Command, args []string) error {
	client, err := srd.New(&srd.Config{
		BaseURL:     cfg.SRDBaseURL,
		HTTPTimeout: cfg.HTTPTimeout,
		CacheTTL:    cfg.SRDCacheTTL,
	})
	if err != nil {
		return err
	}

	input := &srd.ListSpellRecordsInput{Class: srdClass}
	if srdLevel >= 0 {
		input.Level = &srdLevel
	}

	listed, err := client.ListSpellRecords(cmd.Context(), input)
	if err != nil {
		return err
	}
	log.Printf("loaded %d spells from the SRD", len(listed.Records))

	if !srdStore {
		out := make([]map[string]any, 0, len(listed.Records))
		for _, record := range listed.Records {
			result, err := canon.Assemble(record, assembleOptions()...)
			if err != nil {
				log.Printf("skipping %v: %v", record["name"], err)
				continue
			}
			out = append(out, map[string]any{
				"hash":     result.Hash,
				"spell":    result.Spell,
				"warnings": result.Warnings,
			})
		}
		return printJSON(out)
	}

	svc, closeFn, err := newImportService(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	out, err := svc.ImportSpells(cmd.Context(), &importer.ImportSpellsInput{
		Records: listed.Records,
		Source:  srd.SourceName,
	})
	if err != nil {
		return err
	}

	log.Printf("batch %s: %d imported, %d duplicates, %d conflicts, %d rejected",
		out.BatchID, out.Imported, out.Duplicates, out.Conflicts, out.Rejected)
	return nil
}
