package repository

import (
	"time"

	"github.com/iliyamo/learning-mentor/internal/logger"
	"github.com/iliyamo/learning-mentor/internal/model"
)

// InteractionRepo is the append-only interactions.csv log.
type InteractionRepo struct {
	t   *Table
	log *logger.Logger
	now func() time.Time
}

func NewInteractionRepo(t *Table, log *logger.Logger) *InteractionRepo {
	return &InteractionRepo{t: t, log: log, now: time.Now}
}

// Save appends in and returns its id, or 0 on failure.
func (r *InteractionRepo) Save(in model.Interaction) (int, error) {
	if in.Timestamp == "" {
		in.Timestamp = model.FormatTime(r.now())
	}
	id, err := r.t.appendRow(func(id int) row {
		return row{
			"id":               itoa(id),
			"user_email":       in.UserEmail,
			"interaction_type": in.InteractionType,
			"details":          in.Details,
			"timestamp":        in.Timestamp,
		}
	}, 0)
	if err != nil {
		r.log.Error("save interaction failed", "email", in.UserEmail, "error", err)
		return 0, &StorageError{Op: "save", Table: r.t.Name(), Err: err}
	}
	return id, nil
}

// LoadForUser returns the interactions owned by email in file order.
func (r *InteractionRepo) LoadForUser(email string) ([]model.Interaction, error) {
	_, rows, err := r.t.read()
	if err != nil {
		r.log.Error("load interactions failed", "email", email, "error", err)
		return []model.Interaction{}, &StorageError{Op: "load", Table: r.t.Name(), Err: err}
	}
	out := []model.Interaction{}
	for _, rw := range rows {
		if rw["user_email"] != email {
			continue
		}
		out = append(out, model.Interaction{
			ID:              atoi(rw["id"]),
			UserEmail:       rw["user_email"],
			InteractionType: rw["interaction_type"],
			Details:         rw["details"],
			Timestamp:       rw["timestamp"],
		})
	}
	return out, nil
}
