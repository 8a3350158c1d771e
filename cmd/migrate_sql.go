package cmd

import (
	"github.com/spf13/cobra"
)

// migrateSQLCmd applies the db/migrations plans (users schema) against
// PostgreSQL. Without an argument the configured DATABASE_URL is used.
var migrateSQLCmd = &cobra.Command{
	Use:   "sql [database-url]",
	Short: "Create the chatline SQL schema and apply pending migrations",
	Run:   cmdHandler.Migration.MigrateSQL,
}

func init() {
	migrateCmd.AddCommand(migrateSQLCmd)
}
