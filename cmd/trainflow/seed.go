package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tbourn/trainflow-backend/internal/auth"
	"github.com/tbourn/trainflow-backend/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo account and starter catalog",
	Long: `Load the demo account, its preferences, three catalog videos, a few
scheduled workouts around today and a short chat history.

Running it again refreshes the catalog and resets the demo schedule's
completion state without creating duplicates.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, closeDB, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB()

		res, err := seed.Run(cmd.Context(), db, auth.NewPasswordHasher(cfg.Auth.BcryptCost), time.Now())
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}

		out := cmd.OutOrStdout()
		faint := color.New(color.Faint)
		fmt.Fprintln(out, color.GreenString("✓ Seeded demo data"))
		fmt.Fprintf(out, "  videos %d, new workouts %d, new messages %d\n", res.Videos, res.Scheduled, res.Messages)
		fmt.Fprintln(out, faint.Sprintf("  sign in as %s / %s", seed.DemoEmail, seed.DemoPassword))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
