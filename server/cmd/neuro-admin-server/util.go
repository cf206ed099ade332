package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/neuromation/neuro-admin/pkg/token"
	"github.com/neuromation/neuro-admin/server/internal/database"
)

const utilUsage = `util command requires a subcommand

Available subcommands:
  compact-db   Compact and optimize the database
  gen-token    Print a new random admin token`

// executeUtil runs a maintenance subcommand.
func executeUtil(args []string, out io.Writer) error {
	if len(args) < 1 {
		return errors.New(utilUsage)
	}

	switch args[0] {
	case "compact-db":
		return executeCompactDB(args[1:], out)
	case "gen-token":
		tok, err := token.Generate()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, tok)
		return err
	default:
		return fmt.Errorf("unknown util subcommand: %s", args[0])
	}
}

// executeCompactDB runs VACUUM (and optionally ANALYZE) and reports table sizes.
func executeCompactDB(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("compact-db", flag.ContinueOnError)
	fs.SetOutput(out)
	dbPath := fs.String("db", envOr(envPrefix+"DB_PATH", "./neuro-admin.db"), "Path to SQLite database")
	analyze := fs.Bool("analyze", true, "Run ANALYZE after VACUUM")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	db, err := database.Open(ctx, *dbPath, zap.NewNop())
	if err != nil {
		return err
	}
	defer db.Close()

	sizeBefore, err := databaseSize(ctx, db)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Database size before: %s\n", humanize.IBytes(uint64(sizeBefore)))

	if _, err := db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("VACUUM failed: %w", err)
	}

	sizeAfter, err := databaseSize(ctx, db)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Database size after:  %s\n", humanize.IBytes(uint64(sizeAfter)))

	if *analyze {
		if _, err := db.ExecContext(ctx, "ANALYZE"); err != nil {
			return fmt.Errorf("ANALYZE failed: %w", err)
		}
		fmt.Fprintln(out, "ANALYZE completed")
	}

	fmt.Fprintln(out, "Table statistics:")
	for _, table := range []string{"clusters", "cluster_users", "resource_presets"} {
		var count int64
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			return fmt.Errorf("failed to count %s: %w", table, err)
		}
		fmt.Fprintf(out, "  %-18s %s rows\n", table+":", humanize.Comma(count))
	}
	return nil
}

type sizeQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func databaseSize(ctx context.Context, db sizeQuerier) (int64, error) {
	var pageCount, pageSize int64
	if err := db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err != nil {
		return 0, fmt.Errorf("failed to get page count: %w", err)
	}
	if err := db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0, fmt.Errorf("failed to get page size: %w", err)
	}
	return pageCount * pageSize, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
