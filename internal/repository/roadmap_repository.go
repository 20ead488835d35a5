package repository

import (
	"time"

	"github.com/iliyamo/learning-mentor/internal/logger"
	"github.com/iliyamo/learning-mentor/internal/model"
)

// RoadmapRepo stores generated learning roadmaps in roadmaps.csv.
type RoadmapRepo struct {
	t   *Table
	log *logger.Logger
	now func() time.Time
}

func NewRoadmapRepo(t *Table, log *logger.Logger) *RoadmapRepo {
	return &RoadmapRepo{t: t, log: log, now: time.Now}
}

// Save appends rm and returns its id (row count + 1), or 0 on failure.
// CreatedAt is stamped when empty and UpdatedAt always mirrors it.
func (r *RoadmapRepo) Save(rm model.Roadmap) (int, error) {
	if rm.CreatedAt == "" {
		rm.CreatedAt = model.FormatTime(r.now())
	}
	rm.UpdatedAt = rm.CreatedAt
	id, err := r.t.appendRow(func(id int) row {
		rm.ID = id
		return roadmapToRow(rm)
	}, 0)
	if err != nil {
		r.log.Error("save roadmap failed", "email", rm.UserEmail, "error", err)
		return 0, &StorageError{Op: "save", Table: r.t.Name(), Err: err}
	}
	return id, nil
}

// LoadForUser returns the roadmaps owned by email in file order.
func (r *RoadmapRepo) LoadForUser(email string) ([]model.Roadmap, error) {
	_, rows, err := r.t.read()
	if err != nil {
		r.log.Error("load roadmaps failed", "email", email, "error", err)
		return []model.Roadmap{}, &StorageError{Op: "load", Table: r.t.Name(), Err: err}
	}
	out := []model.Roadmap{}
	for _, rw := range rows {
		if rw["user_email"] == email {
			out = append(out, roadmapFromRow(rw))
		}
	}
	return out, nil
}

func roadmapFromRow(rw row) model.Roadmap {
	return model.Roadmap{
		ID:              atoi(rw["id"]),
		UserEmail:       rw["user_email"],
		Title:           rw["title"],
		Goal:            rw["goal"],
		Timeline:        rw["timeline"],
		DifficultyLevel: rw["difficulty_level"],
		Content:         rw["content"],
		Progress:        atoi(rw["progress"]),
		CreatedAt:       rw["created_at"],
		UpdatedAt:       rw["updated_at"],
	}
}

func roadmapToRow(rm model.Roadmap) row {
	return row{
		"id":               itoa(rm.ID),
		"user_email":       rm.UserEmail,
		"title":            rm.Title,
		"goal":             rm.Goal,
		"timeline":         rm.Timeline,
		"difficulty_level": rm.DifficultyLevel,
		"content":          rm.Content,
		"progress":         itoa(rm.Progress),
		"created_at":       rm.CreatedAt,
		"updated_at":       rm.UpdatedAt,
	}
}
