package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/iliyamo/learning-mentor/internal/config"
	"github.com/iliyamo/learning-mentor/internal/database"
	"github.com/iliyamo/learning-mentor/internal/mirror"
	"github.com/iliyamo/learning-mentor/internal/repository"
)

// initCmd creates missing tables
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create any missing CSV table with its header row",
	Long: `Create the data directory and every missing table file with its header.
Existing files are never modified.

Examples:
  mentorctl init
  mentorctl init --data-dir /srv/mentor/data`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := repository.Init(dataDir); err != nil {
			return err
		}
		for _, s := range repository.Schemas {
			fmt.Fprintf(cmd.OutOrStdout(), "%s ok\n", s.File)
		}
		return nil
	},
}

// statsCmd prints a user's activity summary
var statsCmd = &cobra.Command{
	Use:   "stats <email>",
	Short: "Print a user's activity summary as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		repos, err := repository.Open(dataDir, log)
		if err != nil {
			return err
		}
		st, err := repos.Stats(args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	},
}

var batchSize int

// mirrorCmd copies every table into MySQL
var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Replace the MySQL copy of every table",
	Long: `Copy all five tables into MySQL tables of the same name and column
order. Each table is loaded into <name>__stage and then swapped in with
a single RENAME TABLE, so a failed load leaves the previous copy in
place. Connection settings come from DB_USER, DB_PASS, DB_HOST, DB_PORT
and DB_NAME.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		repos, err := repository.Open(dataDir, log)
		if err != nil {
			return err
		}
		dbc := config.LoadDBConfig()
		db, err := database.Open(database.DSN(dbc.User, dbc.Pass, dbc.Host, dbc.Port, dbc.Name))
		if err != nil {
			return fmt.Errorf("connect mysql: %w", err)
		}
		defer db.Close()

		res, err := mirror.Run(cmd.Context(), mirror.Sources(repos.Tables), &mirror.MySQLSink{DB: db, BatchSize: batchSize}, log)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(res))
		for name := range res {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(cmd.OutOrStdout(), "%-14s %d rows\n", name, res[name])
		}
		return nil
	},
}

func init() {
	mirrorCmd.Flags().IntVar(&batchSize, "batch", 200, "rows per INSERT statement")
}
