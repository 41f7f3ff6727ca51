package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jsamuelsen/quotesboard/internal/domain"
)

// SeedFile is the YAML layout accepted by the seeder.
//
//	authors:
//	  - leroy_jenkins
//	quotes:
//	  - before_context: raid night
//	    lines:
//	      - author: leroy_jenkins
//	        text: Leeeroy Jenkins!
type SeedFile struct {
	Authors []string    `yaml:"authors"`
	Quotes  []SeedQuote `yaml:"quotes"`
}

// SeedQuote is one quote entry of a seed file.
type SeedQuote struct {
	BeforeContext *string    `yaml:"before_context"`
	AfterContext  *string    `yaml:"after_context"`
	Lines         []SeedLine `yaml:"lines"`
}

// SeedLine names its speaker by raw name.
type SeedLine struct {
	Author string `yaml:"author"`
	Text   string `yaml:"text"`
}

// SeedReport summarises a seeding run.
type SeedReport struct {
	Authors int
	Quotes  int
}

// Seeder loads fixture data through the services so the usual rules apply.
type Seeder struct {
	authors *AuthorService
	quotes  *QuoteService
	logger  *slog.Logger
}

// NewSeeder wires a Seeder. Logger defaults to slog.Default().
func NewSeeder(authors *AuthorService, quotes *QuoteService, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}

	return &Seeder{authors: authors, quotes: quotes, logger: logger.With(slog.String("component", "app.Seeder"))}
}

// ParseSeedFile reads and decodes a seed file.
func ParseSeedFile(path string) (SeedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SeedFile{}, fmt.Errorf("reading seed file: %w", err)
	}

	var seed SeedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return SeedFile{}, fmt.Errorf("decoding seed file %s: %w", path, err)
	}

	return seed, nil
}

// Seed stores every author and quote in seed. Authors are found or created, so
// rerunning only duplicates quotes; use SeedIfEmpty to avoid that.
func (s *Seeder) Seed(ctx context.Context, seed SeedFile) (SeedReport, error) {
	var report SeedReport

	ids := make(map[string]uint)

	resolve := func(raw string) (uint, error) {
		if id, ok := ids[raw]; ok {
			return id, nil
		}

		author, err := s.authors.FindOrCreate(ctx, raw)
		if err != nil {
			return 0, err
		}

		ids[raw] = author.ID
		report.Authors++

		return author.ID, nil
	}

	for _, raw := range seed.Authors {
		if _, err := resolve(raw); err != nil {
			return report, fmt.Errorf("seeding author %q: %w", raw, err)
		}
	}

	for i, sq := range seed.Quotes {
		draft := domain.QuoteDraft{BeforeContext: sq.BeforeContext, AfterContext: sq.AfterContext}

		for _, line := range sq.Lines {
			id, err := resolve(line.Author)
			if err != nil {
				return report, fmt.Errorf("seeding quote %d: %w", i, err)
			}

			draft.Lines = append(draft.Lines, domain.LineDraft{Text: line.Text, AuthorID: id})
		}

		if _, err := s.quotes.Create(ctx, draft); err != nil {
			return report, fmt.Errorf("seeding quote %d: %w", i, err)
		}

		report.Quotes++
	}

	s.logger.InfoContext(ctx, "seed applied",
		slog.Int("authors", report.Authors),
		slog.Int("quotes", report.Quotes),
	)

	return report, nil
}

// SeedIfEmpty applies the seed file at path only when no quote is stored yet.
// It reports whether seeding happened.
func (s *Seeder) SeedIfEmpty(ctx context.Context, path string) (bool, error) {
	n, err := s.quotes.Count(ctx)
	if err != nil {
		return false, err
	}

	if n > 0 {
		s.logger.DebugContext(ctx, "store already populated, skipping seed", slog.Int64("quotes", n))
		return false, nil
	}

	seed, err := ParseSeedFile(path)
	if err != nil {
		return false, err
	}

	if _, err := s.Seed(ctx, seed); err != nil {
		return false, err
	}

	return true, nil
}
