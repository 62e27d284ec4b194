package main

import (
	"fmt"

	intdb "tiketbus/internal/db"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Buat tabel yang belum ada",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer shutdown()

		created, err := intdb.EnsureSchema(cmd.Context(), db)
		if err != nil {
			return err
		}
		if len(created) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "schema sudah lengkap")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "tabel dibuat: %v\n", created)
		return nil
	},
}
