package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"condominio_backend/internals/configs"
	database "condominio_backend/internals/databases"
	"condominio_backend/internals/seeds"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Isi role dan akun super admin awal",
	Long: `Membuat semua role lalu akun super admin dari SUPER_ADMIN_EMAIL dan
SUPER_ADMIN_PASSWORD. User yang sudah ada dilewati, aman dijalankan berulang.`,
	Example: `  condominio seed
  condominio seed --users internals/seeds/users/auth/data_users.json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		usersFile, _ := cmd.Flags().GetString("users")

		db, err := openDB(configs.Cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := database.AutoMigrate(db); err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return seeds.RunAllSeeds(ctx, db, seeds.Options{
			SuperAdminEmail:    configs.Cfg.SuperAdminEmail,
			SuperAdminPassword: configs.Cfg.SuperAdminPassword,
			UsersFile:          usersFile,
		})
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().String("users", "", "Optional JSON file with extra users")
}
