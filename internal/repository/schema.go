package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Schema names a table, its file and its column order. The order is
// written once as the header row and must be kept by anything that
// rewrites the file.
type Schema struct {
	Name    string
	File    string
	Columns []string
}

var (
	UsersSchema = Schema{
		Name: "users",
		File: "users.csv",
		Columns: []string{
			"name", "email", "password", "experience_level", "age_group",
			"interests", "skills", "time_commitment", "learning_style",
			"short_term_goals", "long_term_goals", "created_at", "updated_at",
		},
	}
	RoadmapsSchema = Schema{
		Name: "roadmaps",
		File: "roadmaps.csv",
		Columns: []string{
			"id", "user_email", "title", "goal", "timeline", "difficulty_level",
			"content", "progress", "created_at", "updated_at",
		},
	}
	InteractionsSchema = Schema{
		Name:    "interactions",
		File:    "interactions.csv",
		Columns: []string{"id", "user_email", "interaction_type", "details", "timestamp"},
	}
	ChatSchema = Schema{
		Name:    "chat_history",
		File:    "chat_history.csv",
		Columns: []string{"id", "user_email", "role", "content", "timestamp"},
	}
	ProgressSchema = Schema{
		Name: "progress",
		File: "progress.csv",
		Columns: []string{
			"id", "user_email", "progress_type", "description", "time_spent",
			"difficulty_rating", "skills_gained", "next_steps", "timestamp",
		},
	}
)

// tableFileMode is the permission of every table file.
const tableFileMode os.FileMode = 0o644

// Schemas lists every table in creation order.
var Schemas = []Schema{UsersSchema, RoadmapsSchema, InteractionsSchema, ChatSchema, ProgressSchema}

// Init creates dir and every missing table file with a header row only.
// Files that already exist are left untouched, so calling Init on a
// populated directory is a no-op. Failing to create dir is returned;
// nothing else in this package can work without it.
func Init(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir %s: %w", dir, err)
	}
	for _, s := range Schemas {
		path := filepath.Join(dir, s.File)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if err := writeHeaderOnly(path, s.Columns); err != nil {
			return fmt.Errorf("init %s: %w", s.Name, err)
		}
	}
	return nil
}

func writeHeaderOnly(path string, columns []string) error {
	// O_EXCL keeps a concurrent Init from clobbering a file created in between.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, tableFileMode)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil
		}
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		_ = f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
