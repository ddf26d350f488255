package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Create or update the database schema for the configured DB_DRIVER.

Migrations are additive and safe to run repeatedly. 'serve' runs them on
start as well.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, closeDB, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB()

		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Schema up to date (%s)", cfg.DBDriver))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
