package mirror

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/learning-mentor/internal/logger"
	"github.com/iliyamo/learning-mentor/internal/model"
	"github.com/iliyamo/learning-mentor/internal/repository"
)

type fakeSink struct {
	mu     sync.Mutex
	tables map[string][][]string
	cols   map[string][]string
	fail   string
}

func (f *fakeSink) ReplaceTable(_ context.Context, name string, columns []string, rows [][]string) error {
	if name == f.fail {
		return errors.New("boom")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables[name] = rows
	f.cols[name] = columns
	return nil
}

func newSink() *fakeSink {
	return &fakeSink{tables: map[string][][]string{}, cols: map[string][]string{}}
}

func TestRun_CopiesEveryTable(t *testing.T) {
	repos, err := repository.Open(t.TempDir(), logger.Nop())
	require.NoError(t, err)
	_, err = repos.Users.SaveUser(model.User{Name: "Ann", Email: "a@x.com", Password: "h"})
	require.NoError(t, err)
	_, err = repos.Progress.Save(model.ProgressEntry{UserEmail: "a@x.com", Description: "d", Timestamp: "2024-01-01 00:00:00"})
	require.NoError(t, err)

	sink := newSink()
	res, err := Run(context.Background(), Sources(repos.Tables), sink, logger.Nop())
	require.NoError(t, err)
	require.Equal(t, Result{"users": 1, "roadmaps": 0, "interactions": 0, "chat_history": 0, "progress": 1}, res)

	require.Equal(t, repository.UsersSchema.Columns, sink.cols["users"])
	require.Equal(t, "a@x.com", sink.tables["users"][0][1])
	require.Equal(t, "1", sink.tables["progress"][0][0])
}

func TestRun_ReportsFailures(t *testing.T) {
	repos, err := repository.Open(t.TempDir(), logger.Nop())
	require.NoError(t, err)

	sink := newSink()
	sink.fail = "roadmaps"
	_, err = Run(context.Background(), Sources(repos.Tables), sink, logger.Nop())
	require.ErrorContains(t, err, "write roadmaps")

	require.NoError(t, os.WriteFile(filepath.Join(repos.Dir, repository.ChatSchema.File), []byte("id\n\"1\n"), 0o644))
	_, err = Run(context.Background(), Sources(repos.Tables), newSink(), logger.Nop())
	require.ErrorContains(t, err, "read chat_history")
}

func TestStatements(t *testing.T) {
	require.Equal(t, "CREATE TABLE `users` (`name` TEXT, `e``mail` TEXT) DEFAULT CHARSET=utf8mb4",
		createStmt("users", []string{"name", "e`mail"}, false))
	require.Equal(t, "CREATE TABLE IF NOT EXISTS `t` (`a` TEXT) DEFAULT CHARSET=utf8mb4",
		createStmt("t", []string{"a"}, true))
	require.Equal(t, "INSERT INTO `t` (`a`, `b`) VALUES (?, ?), (?, ?)",
		insertStmt("t", []string{"a", "b"}, 2))
}

func TestFlatten_FollowsHeaderOrder(t *testing.T) {
	got := flatten([]string{"b", "a", "extra"}, []map[string]string{{"a": "1", "b": "2"}})
	require.Equal(t, [][]string{{"2", "1", ""}}, got)
}

type recordingDB struct {
	stmts  []string
	failOn string
}

func (r *recordingDB) ExecContext(_ context.Context, query string, _ ...any) (sql.Result, error) {
	r.stmts = append(r.stmts, query)
	if r.failOn != "" && strings.HasPrefix(query, r.failOn) {
		return nil, errors.New("exec failed")
	}
	return nil, nil
}

func TestSwapTable_LoadsStageThenRenames(t *testing.T) {
	db := &recordingDB{}
	var loaded string
	err := swapTable(context.Background(), db, "users", []string{"email"}, func(_ context.Context, stage string) error {
		loaded = stage
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, "users__stage", loaded)
	require.Equal(t, []string{
		"DROP TABLE IF EXISTS `users__stage`",
		"CREATE TABLE `users__stage` (`email` TEXT) DEFAULT CHARSET=utf8mb4",
		"CREATE TABLE IF NOT EXISTS `users` (`email` TEXT) DEFAULT CHARSET=utf8mb4",
		"RENAME TABLE `users` TO `users__old`, `users__stage` TO `users`",
		"DROP TABLE IF EXISTS `users__old`",
	}, db.stmts)
}

func TestSwapTable_FailedLoadLeavesDestination(t *testing.T) {
	db := &recordingDB{}
	err := swapTable(context.Background(), db, "users", []string{"email"}, func(context.Context, string) error {
		return errors.New("insert batch 2 failed")
	})
	require.ErrorContains(t, err, "insert batch 2 failed")
	require.Equal(t, []string{
		"DROP TABLE IF EXISTS `users__stage`",
		"CREATE TABLE `users__stage` (`email` TEXT) DEFAULT CHARSET=utf8mb4",
		"DROP TABLE IF EXISTS `users__stage`",
	}, db.stmts)
}

func TestSwapTable_StopsOnDDLError(t *testing.T) {
	db := &recordingDB{failOn: "RENAME"}
	err := swapTable(context.Background(), db, "t", []string{"a"}, func(context.Context, string) error { return nil })
	require.Error(t, err)
	require.Len(t, db.stmts, 4, "the old table is not dropped after a failed swap")
}
