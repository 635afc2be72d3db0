package cmd

import (
	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the tables of the configured backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log := opts.bootstrap()
			h, err := openStore(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer h.Close()

			log.Info().Str("backend", string(h.Backend)).Msg("migration complete")
			return nil
		},
	}
}
