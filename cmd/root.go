package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"condominio_backend/internals/configs"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "condominio",
	Short: "Condominio backend - administrasi kondominium",
	Long: `Backend administrasi kondominium: tagihan & pembayaran, akuntansi,
asamblea dengan voting & kuorum, rapat, dokumen dan notifikasi.

Tanpa subcommand, server HTTP dijalankan (sama dengan "condominio serve").`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := configs.LoadEnv()
		configs.SetupLogger(configs.LogConfig{Level: cfg.LogLevel, Format: cfg.LogFormat})
	},
	RunE: runServe,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log := configs.WithComponent("cmd")
		log.Error().Err(err).Msg("command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
