package repository

import (
	"github.com/iliyamo/learning-mentor/internal/logger"
	"github.com/iliyamo/learning-mentor/internal/model"
)

// UserRepo is the credential store backed by users.csv.
type UserRepo struct {
	t   *Table
	log *logger.Logger
}

func NewUserRepo(t *Table, log *logger.Logger) *UserRepo { return &UserRepo{t: t, log: log} }

// LoadUsers returns every user in file order. A missing or empty file
// yields an empty slice and no error.
func (r *UserRepo) LoadUsers() ([]model.User, error) {
	_, rows, err := r.t.read()
	if err != nil {
		r.log.Error("load users failed", "error", err)
		return []model.User{}, &StorageError{Op: "load", Table: r.t.Name(), Err: err}
	}
	users := make([]model.User, 0, len(rows))
	for _, rw := range rows {
		users = append(users, userFromRow(rw))
	}
	return users, nil
}

// FindByEmail scans for the first row whose email equals email exactly.
func (r *UserRepo) FindByEmail(email string) (model.User, bool, error) {
	users, err := r.LoadUsers()
	if err != nil {
		return model.User{}, false, err
	}
	for _, u := range users {
		if u.Email == email {
			return u, true, nil
		}
	}
	return model.User{}, false, nil
}

// SaveUser appends u as a new row. It does not look for an existing
// row with the same email; registration does that before calling.
func (r *UserRepo) SaveUser(u model.User) (bool, error) {
	_, err := r.t.appendRow(func(int) row { return userToRow(u) }, 0)
	if err != nil {
		r.log.Error("save user failed", "email", u.Email, "error", err)
		return false, &StorageError{Op: "save", Table: r.t.Name(), Err: err}
	}
	return true, nil
}

// SaveUserProfile overwrites the supplied columns of the row whose email
// equals p.Email. When no row matches it returns false with
// ErrUserNotFound and the file is not rewritten.
func (r *UserRepo) SaveUserProfile(p model.ProfileUpdate) (bool, error) {
	found := false
	ok, err := r.t.update(func(rows []row) bool {
		for i, rw := range rows {
			if rw["email"] != p.Email {
				continue
			}
			u := userFromRow(rw)
			p.Apply(&u)
			for col, v := range userToRow(u) {
				rows[i][col] = v
			}
			found = true
			return true
		}
		return false
	})
	if err != nil {
		r.log.Error("update user profile failed", "email", p.Email, "error", err)
		return false, &StorageError{Op: "update", Table: r.t.Name(), Err: err}
	}
	if !found {
		return false, ErrUserNotFound
	}
	return ok, nil
}

func userFromRow(rw row) model.User {
	return model.User{
		Name:            rw["name"],
		Email:           rw["email"],
		Password:        rw["password"],
		ExperienceLevel: rw["experience_level"],
		AgeGroup:        rw["age_group"],
		Interests:       rw["interests"],
		Skills:          rw["skills"],
		TimeCommitment:  rw["time_commitment"],
		LearningStyle:   rw["learning_style"],
		ShortTermGoals:  rw["short_term_goals"],
		LongTermGoals:   rw["long_term_goals"],
		CreatedAt:       rw["created_at"],
		UpdatedAt:       rw["updated_at"],
	}
}

func userToRow(u model.User) row {
	return row{
		"name":             u.Name,
		"email":            u.Email,
		"password":         u.Password,
		"experience_level": u.ExperienceLevel,
		"age_group":        u.AgeGroup,
		"interests":        u.Interests,
		"skills":           u.Skills,
		"time_commitment":  u.TimeCommitment,
		"learning_style":   u.LearningStyle,
		"short_term_goals": u.ShortTermGoals,
		"long_term_goals":  u.LongTermGoals,
		"created_at":       u.CreatedAt,
		"updated_at":       u.UpdatedAt,
	}
}
