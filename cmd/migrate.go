/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"

	"github.com/artsfest/festsync/internal/ioschema"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getMigrateCmd returns the migrate command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getMigrateCmd() *cobra.Command {
	var force bool

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the festival database schema",
		Long: `Migrate creates the festival tables (festival_info, teams,
candidates, programmes, results) or updates them to the latest version.

GORM AutoMigrate:
  - Adds new tables if they don't exist
  - Adds new columns and indexes to existing tables
  - Does NOT delete columns or tables

Use --force to drop the festival tables first. Their data is lost,
other tables of the database are kept.

Examples:
  festsync migrate
  festsync migrate --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context(), force)
		},
	}

	migrateCmd.Flags().BoolVarP(&force, "force", "f",
		false, "drop existing tables before migration")

	return migrateCmd
}

func runMigrate(ctx context.Context, force bool) error {
	op, err := connect(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer op.Close()

	gn.Info("Connected to database <em>%s</em>", cfg.Database.Database)

	if force {
		hasTables, err := op.HasTables(ctx)
		if err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		if hasTables {
			gn.Warn("Dropping festival tables (--force enabled)...")
			if err = op.DropTables(ctx); err != nil {
				gn.PrintErrorMessage(err)
				return err
			}
		}
	}

	sm := ioschema.NewManager(op)

	gn.Info("Migrating schema to latest version...")
	if err := sm.Migrate(ctx); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info("Schema is now up to date.")
	return nil
}
