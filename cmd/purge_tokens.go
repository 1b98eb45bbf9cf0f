package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"condominio_backend/internals/configs"
	database "condominio_backend/internals/databases"
	helper "condominio_backend/internals/helpers"
	helperAuth "condominio_backend/internals/helpers/auth"
)

// purge-tokens dijalankan lewat cron; entri redis kedaluwarsa sendiri lewat TTL.
var purgeTokensCmd = &cobra.Command{
	Use:   "purge-tokens",
	Short: "Hapus entri token_blacklist yang sudah kedaluwarsa",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openDB(configs.Cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		n, err := helperAuth.NewDBBlacklist(db, configs.Cfg.JWTSecret, helper.SystemClock{}).PurgeExpired(ctx)
		if err != nil {
			return err
		}
		log := configs.WithComponent("purge-tokens")
		log.Info().Int64("deleted", n).Msg("blacklist purged")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(purgeTokensCmd)
}
