package repository

import (
	"sort"
	"time"

	"github.com/iliyamo/learning-mentor/internal/logger"
	"github.com/iliyamo/learning-mentor/internal/model"
)

// ProgressRepo stores manually logged learning activity in progress.csv.
type ProgressRepo struct {
	t   *Table
	log *logger.Logger
	now func() time.Time
}

func NewProgressRepo(t *Table, log *logger.Logger) *ProgressRepo {
	return &ProgressRepo{t: t, log: log, now: time.Now}
}

// Save appends e and returns its id, or 0 on failure. A caller-supplied
// Timestamp is kept.
func (r *ProgressRepo) Save(e model.ProgressEntry) (int, error) {
	if e.Timestamp == "" {
		e.Timestamp = model.FormatTime(r.now())
	}
	id, err := r.t.appendRow(func(id int) row {
		return row{
			"id":                itoa(id),
			"user_email":        e.UserEmail,
			"progress_type":     e.ProgressType,
			"description":       e.Description,
			"time_spent":        e.TimeSpent,
			"difficulty_rating": e.DifficultyRating,
			"skills_gained":     e.SkillsGained,
			"next_steps":        e.NextSteps,
			"timestamp":         e.Timestamp,
		}
	}, 0)
	if err != nil {
		r.log.Error("save progress entry failed", "email", e.UserEmail, "error", err)
		return 0, &StorageError{Op: "save", Table: r.t.Name(), Err: err}
	}
	return id, nil
}

// LoadForUser returns email's entries newest first. If any timestamp
// cannot be parsed the entries come back in file order instead.
func (r *ProgressRepo) LoadForUser(email string) ([]model.ProgressEntry, error) {
	_, rows, err := r.t.read()
	if err != nil {
		r.log.Error("load progress entries failed", "email", email, "error", err)
		return []model.ProgressEntry{}, &StorageError{Op: "load", Table: r.t.Name(), Err: err}
	}
	out := []model.ProgressEntry{}
	for _, rw := range rows {
		if rw["user_email"] != email {
			continue
		}
		out = append(out, model.ProgressEntry{
			ID:               atoi(rw["id"]),
			UserEmail:        rw["user_email"],
			ProgressType:     rw["progress_type"],
			Description:      rw["description"],
			TimeSpent:        rw["time_spent"],
			DifficultyRating: rw["difficulty_rating"],
			SkillsGained:     rw["skills_gained"],
			NextSteps:        rw["next_steps"],
			Timestamp:        rw["timestamp"],
		})
	}
	if !sortNewestFirst(out) {
		r.log.Warn("progress timestamps unsortable, keeping file order", "email", email)
	}
	return out, nil
}

// sortNewestFirst orders entries by timestamp descending. It leaves the
// slice untouched and reports false if any timestamp is malformed.
func sortNewestFirst(entries []model.ProgressEntry) bool {
	keys := make([]time.Time, len(entries))
	for i, e := range entries {
		ts, err := model.ParseTime(e.Timestamp)
		if err != nil {
			return false
		}
		keys[i] = ts
	}
	idx := make([]int, len(entries))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return keys[idx[a]].After(keys[idx[b]]) })
	sorted := make([]model.ProgressEntry, len(entries))
	for i, j := range idx {
		sorted[i] = entries[j]
	}
	copy(entries, sorted)
	return true
}
