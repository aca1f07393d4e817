// Package srd loads 5e SRD spells from the dnd5e-api and converts them into
// raw spell records
package srd

//go:generate mockgen -destination=mock/mock_client.go -package=srdmock github.com/KirkDiggler/rpg-spellcanon/internal/clients/srd Client

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fadedpez/dnd5e-api/clients/dnd5e"
	"github.com/fadedpez/dnd5e-api/entities"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/rpg-spellcanon/internal/canon"
	"github.com/KirkDiggler/rpg-spellcanon/internal/errors"
)

// Record metadata for every converted spell
const (
	SourceName = "dnd5eapi"
	Edition    = "5e"
	License    = "OGL-1.0a"
	SRDBook    = "System Reference Document 5.1"
)

// D&D 5e class names accepted by the spell filter
var classNames = map[string]bool{
	"bard":     true,
	"cleric":   true,
	"druid":    true,
	"paladin":  true,
	"ranger":   true,
	"sorcerer": true,
	"warlock":  true,
	"wizard":   true,
}

// Client defines the interface for loading SRD spells
type Client interface {
	// ListSpellRecords returns one raw record per matching spell, in the
	// order the API lists them
	// Returns errors.InvalidArgument for an unknown class or level
	// Returns errors.Unavailable when the API cannot be reached
	ListSpellRecords(ctx context.Context, input *ListSpellRecordsInput) (*ListSpellRecordsOutput, error)
}

// SpellSource is the part of the dnd5e-api client used here
type SpellSource interface {
	ListSpells(input *dnd5e.ListSpellsInput) ([]*entities.ReferenceItem, error)
	GetSpell(key string) (*entities.Spell, error)
}

// ListSpellRecordsInput filters the spells to load
type ListSpellRecordsInput struct {
	Level *int
	Class string
}

// ListSpellRecordsOutput holds the converted records
type ListSpellRecordsOutput struct {
	Records []canon.RawRecord
}

// Config contains configuration options for the SRD client.
type Config struct {
	// BaseURL for the D&D 5e API (optional, defaults to https://www.dnd5eapi.co/api/2014/)
	BaseURL string
	// HTTPTimeout for API requests (optional, defaults to 30 seconds)
	HTTPTimeout time.Duration
	// CacheTTL for the cached client (optional, defaults to 24 hours)
	CacheTTL time.Duration
	// Concurrency bounds parallel detail requests (optional, defaults to 8)
	Concurrency int
	// Source replaces the dnd5e-api client, mostly for tests
	Source SpellSource
}

// Validate validates the Config and sets defaults if not provided.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.dnd5eapi.co/api/2014/"
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = 8
	}
	if cfg.Concurrency < 0 {
		return errors.InvalidArgument("concurrency cannot be negative")
	}
	return nil
}

type client struct {
	source      SpellSource
	concurrency int
}

// New creates a new SRD client with the given configuration.
func New(cfg *Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	source := cfg.Source
	if source == nil {
		baseClient, err := dnd5e.NewDND5eAPI(&dnd5e.DND5eAPIConfig{
			Client:  &http.Client{Timeout: cfg.HTTPTimeout},
			BaseURL: cfg.BaseURL,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create D&D 5e API client")
		}
		source = dnd5e.NewCachedClient(baseClient, cfg.CacheTTL)
	}

	return &client{
		source:      source,
		concurrency: cfg.Concurrency,
	}, nil
}

func (c *client) ListSpellRecords(ctx context.Context, input *ListSpellRecordsInput) (*ListSpellRecordsOutput, error) {
	filter := &dnd5e.ListSpellsInput{}
	if input != nil {
		if input.Level != nil {
			if *input.Level < 0 || *input.Level > 9 {
				return nil, errors.InvalidArgumentf("spell level %d is out of range", *input.Level)
			}
			level := *input.Level
			filter.Level = &level
		}
		if input.Class != "" {
			class := strings.ToLower(strings.TrimSpace(input.Class))
			if !classNames[class] {
				return nil, errors.InvalidArgumentf("unknown class %s", input.Class)
			}
			filter.Class = class
		}
	}

	// Step 1: Get spell references
	refs, err := c.source.ListSpells(filter)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to list spells from D&D 5e API")
	}
	slog.InfoContext(ctx, "got spell references", "count", len(refs))

	// Step 2: Concurrently load full details for each spell
	records := make([]canon.RawRecord, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, ref := range refs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			apiSpell, err := c.source.GetSpell(ref.Key)
			if err != nil {
				slog.ErrorContext(gctx, "failed to get spell details", "spell", ref.Key, "error", err)
				return errors.WrapWithCodef(err, errors.CodeUnavailable, "failed to get spell %s", ref.Key)
			}
			if apiSpell == nil {
				return errors.NotFoundf("spell %s not found", ref.Key)
			}
			records[i] = ToRawRecord(apiSpell)
			slog.DebugContext(gctx, "loaded spell details", "spell", ref.Name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "failed to load spell details")
	}

	return &ListSpellRecordsOutput{Records: records}, nil
}
