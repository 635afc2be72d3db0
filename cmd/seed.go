package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/GrooVITy-Community/groovity-backend/internal/repository"
	"github.com/GrooVITy-Community/groovity-backend/internal/service"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// catalogFile is the seed document: lists of events and beats using the same
// field names as the admin API.
type catalogFile struct {
	Events []map[string]any `yaml:"events"`
	Beats  []map[string]any `yaml:"beats"`
}

type seedResult struct {
	Created int
	Skipped int
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load events and beats from a YAML catalog file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log := opts.bootstrap()

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer f.Close()

			h, err := openStore(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer h.Close()

			repo := repository.NewRepository(h.DB, h.Variant, log)
			res, err := seedCatalog(cmd.Context(), f, service.NewCatalogService(repo, log), log)
			if err != nil {
				return err
			}
			log.Info().Int("created", res.Created).Int("skipped", res.Skipped).Msg("seed complete")
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "catalog.yaml", "YAML catalog to load")
	return cmd
}

// seedCatalog inserts every entry of r. Entries whose id already exists are
// skipped so the same file can be applied repeatedly.
func seedCatalog(ctx context.Context, r io.Reader, catalog service.CatalogService, log *zerolog.Logger) (seedResult, error) {
	var doc catalogFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return seedResult{}, fmt.Errorf("decode catalog: %w", err)
	}

	var res seedResult
	apply := func(kind string, i int, err error) error {
		switch {
		case err == nil:
			res.Created++
			return nil
		case errors.Is(err, repository.ErrDuplicate):
			res.Skipped++
			log.Debug().Str("kind", kind).Int("index", i).Msg("already present, skipped")
			return nil
		default:
			return fmt.Errorf("%s #%d: %w", kind, i, err)
		}
	}

	for i, raw := range doc.Events {
		_, err := catalog.CreateEvent(ctx, raw)
		if err := apply("event", i, err); err != nil {
			return res, err
		}
	}
	for i, raw := range doc.Beats {
		_, err := catalog.CreateBeat(ctx, raw)
		if err := apply("beat", i, err); err != nil {
			return res, err
		}
	}
	return res, nil
}
