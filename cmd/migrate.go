package cmd

import (
	"github.com/spf13/cobra"

	"condominio_backend/internals/configs"
	database "condominio_backend/internals/databases"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Jalankan AutoMigrate untuk semua model",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openDB(configs.Cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := database.AutoMigrate(db); err != nil {
			return err
		}
		log := configs.WithComponent("migrate")
		log.Info().Int("models", len(database.Models())).Msg("migration done")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
