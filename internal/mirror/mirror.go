// Package mirror copies the CSV tables into MySQL for reporting. Each run
// replaces the destination tables wholesale; the CSV files stay the
// source of truth.
package mirror

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/learning-mentor/internal/logger"
	"github.com/iliyamo/learning-mentor/internal/repository"
)

// Source is a table that can be read in full.
type Source interface {
	Name() string
	Rows() ([]string, []map[string]string, error)
}

// Sink receives one table at a time.
type Sink interface {
	ReplaceTable(ctx context.Context, name string, columns []string, rows [][]string) error
}

// Result reports how many rows were copied per table.
type Result map[string]int

// Run copies every source into sink concurrently. The first failure
// cancels the remaining copies.
func Run(ctx context.Context, sources []Source, sink Sink, log *logger.Logger) (Result, error) {
	counts := make([]int, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(2)
	for i, src := range sources {
		g.Go(func() error {
			header, rows, err := src.Rows()
			if err != nil {
				return fmt.Errorf("read %s: %w", src.Name(), err)
			}
			if err := sink.ReplaceTable(ctx, src.Name(), header, flatten(header, rows)); err != nil {
				return fmt.Errorf("write %s: %w", src.Name(), err)
			}
			counts[i] = len(rows)
			log.Info("table mirrored", "table", src.Name(), "rows", len(rows))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	res := Result{}
	for i, src := range sources {
		res[src.Name()] = counts[i]
	}
	return res, nil
}

// Sources adapts the repository tables.
func Sources(tables []*repository.Table) []Source {
	out := make([]Source, len(tables))
	for i, t := range tables {
		out[i] = t
	}
	return out
}

func flatten(header []string, rows []map[string]string) [][]string {
	out := make([][]string, len(rows))
	for i, rw := range rows {
		rec := make([]string, len(header))
		for j, col := range header {
			rec[j] = rw[col]
		}
		out[i] = rec
	}
	return out
}

// MySQLSink writes tables into MySQL. Every column is TEXT, matching the
// untyped CSV cells.
type MySQLSink struct {
	DB        *sql.DB
	BatchSize int
}

// execer is the part of *sql.DB the table swap needs.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ReplaceTable loads rows into a staging table and swaps it in with one
// RENAME TABLE. MySQL commits DDL implicitly, so only the inserts share
// a transaction. A failed load drops the staging table and leaves the
// destination as it was.
func (s *MySQLSink) ReplaceTable(ctx context.Context, name string, columns []string, rows [][]string) error {
	return swapTable(ctx, s.DB, name, columns, func(ctx context.Context, stage string) error {
		return s.insertAll(ctx, stage, columns, rows)
	})
}

func swapTable(ctx context.Context, db execer, name string, columns []string, load func(ctx context.Context, stage string) error) error {
	stage, old := name+"__stage", name+"__old"

	for _, q := range []string{dropStmt(stage), createStmt(stage, columns, false)} {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	if err := load(ctx, stage); err != nil {
		_, _ = db.ExecContext(context.WithoutCancel(ctx), dropStmt(stage))
		return err
	}
	// RENAME TABLE needs the destination to exist on the first run.
	for _, q := range []string{
		createStmt(name, columns, true),
		fmt.Sprintf("RENAME TABLE %s TO %s, %s TO %s", quoteIdent(name), quoteIdent(old), quoteIdent(stage), quoteIdent(name)),
		dropStmt(old),
	} {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (s *MySQLSink) insertAll(ctx context.Context, table string, columns []string, rows [][]string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	batch := s.BatchSize
	if batch <= 0 {
		batch = 200
	}
	for start := 0; start < len(rows); start += batch {
		end := min(start+batch, len(rows))
		args := make([]any, 0, (end-start)*len(columns))
		for _, rec := range rows[start:end] {
			for _, v := range rec {
				args = append(args, v)
			}
		}
		if _, err := tx.ExecContext(ctx, insertStmt(table, columns, end-start), args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func quoteIdent(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

func dropStmt(name string) string {
	return "DROP TABLE IF EXISTS " + quoteIdent(name)
}

func createStmt(name string, columns []string, ifNotExists bool) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = quoteIdent(c) + " TEXT"
	}
	create := "CREATE TABLE "
	if ifNotExists {
		create += "IF NOT EXISTS "
	}
	return fmt.Sprintf("%s%s (%s) DEFAULT CHARSET=utf8mb4", create, quoteIdent(name), strings.Join(defs, ", "))
}

func insertStmt(name string, columns []string, n int) string {
	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = quoteIdent(c)
	}
	one := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"
	values := strings.TrimSuffix(strings.Repeat(one+", ", n), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", quoteIdent(name), strings.Join(cols, ", "), values)
}
