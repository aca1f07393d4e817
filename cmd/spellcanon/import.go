package main

import (
	"context"
	"fmt"
	"log"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-spellcanon/internal/orchestrators/importer"
	"github.com/KirkDiggler/rpg-spellcanon/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-spellcanon/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/rpg-spellcanon/internal/redis"
	canonicalspell "github.com/KirkDiggler/rpg-spellcanon/internal/repositories/canonical_spell"
)

var importSource string

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a batch of raw records into the canonical store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := readRecords(args[0])
		if err != nil {
			return err
		}

		svc, closeFn, err := newImportService(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		out, err := svc.ImportSpells(cmd.Context(), &importer.ImportSpellsInput{
			Records: records,
			Source:  importSource,
		})
		if err != nil {
			return err
		}

		log.Printf("batch %s: %d imported, %d duplicates, %d conflicts, %d rejected",
			out.BatchID, out.Imported, out.Duplicates, out.Conflicts, out.Rejected)
		return printJSON(out.Results)
	},
}

var getCmd = &cobra.Command{
	Use:   "get <hash>",
	Short: "Print a stored canonical spell",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeFn, err := newImportService(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		out, err := svc.GetSpell(cmd.Context(), &importer.GetSpellInput{Hash: args[0]})
		if err != nil {
			return err
		}
		return printJSON(out.Spell)
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify <hash>",
	Short: "Recompute the hash of a stored spell",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeFn, err := newImportService(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		out, err := svc.VerifySpell(cmd.Context(), &importer.VerifySpellInput{Hash: args[0]})
		if err != nil {
			return err
		}
		if err := printJSON(out); err != nil {
			return err
		}
		if !out.Valid {
			return fmt.Errorf("stored spell %s does not match its hash", args[0])
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importSource, "source", "", "source book applied to records that carry none")
}

// newImportService wires the Redis store and event bus behind the importer
func newImportService(ctx context.Context) (importer.Service, func(), error) {
	client, err := redisclient.NewClient(cfg.RedisAddr, &redisclient.Options{UseTLS: cfg.RedisUseTLS})
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Printf("failed to close redis client: %v", err)
		}
	}

	if err := redisclient.Ping(ctx, client); err != nil {
		closeFn()
		return nil, nil, err
	}

	repo, err := canonicalspell.NewRedis(&canonicalspell.RedisConfig{
		Client: client,
		Clock:  clock.New(),
	})
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	bus := events.NewBus()
	for _, eventType := range []string{importer.EventSpellConflict, importer.EventSpellRejected} {
		bus.SubscribeFunc(eventType, 0, func(_ context.Context, e events.Event) error {
			name, _ := e.Context().Get("name")
			log.Printf("%s: %v (%s)", e.Type(), name, e.Source().GetID())
			return nil
		})
	}

	svc, err := importer.NewOrchestrator(&importer.Config{
		Repository:      repo,
		IDGenerator:     idgen.NewUUID("batch"),
		EventBus:        bus,
		Concurrency:     cfg.ImportConcurrency,
		AssembleOptions: assembleOptions(),
	})
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	return svc, closeFn, nil
}
