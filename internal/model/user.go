package model

import "strings"

// User represents a registered learner as stored in `users.csv`.
// Each field corresponds to a column of that file. Interests and
// Skills are comma-joined lists kept as a single text column, the
// same way they are entered on the profile form.
//
// Fields:
//
//	Name            – display name.
//	Email           – identifying key; matched exactly (case-sensitive).
//	Password        – SHA-256 hex digest, bcrypt hash, or legacy plain text.
//	ExperienceLevel – Beginner / Intermediate / Advanced / Expert.
//	AgeGroup        – self-reported age bracket.
//	Interests       – comma-joined interest list.
//	Skills          – comma-joined skill list.
//	TimeCommitment  – e.g. "4-7 hours" per week.
//	LearningStyle   – preferred learning style.
//	ShortTermGoals  – free text.
//	LongTermGoals   – free text.
//	CreatedAt       – registration timestamp (TimeLayout).
//	UpdatedAt       – last profile save (TimeLayout).
type User struct {
	Name            string `json:"name"`             // users.name
	Email           string `json:"email"`            // users.email
	Password        string `json:"-"`                // users.password
	ExperienceLevel string `json:"experience_level"` // users.experience_level
	AgeGroup        string `json:"age_group"`        // users.age_group
	Interests       string `json:"interests"`        // users.interests
	Skills          string `json:"skills"`           // users.skills
	TimeCommitment  string `json:"time_commitment"`  // users.time_commitment
	LearningStyle   string `json:"learning_style"`   // users.learning_style
	ShortTermGoals  string `json:"short_term_goals"` // users.short_term_goals
	LongTermGoals   string `json:"long_term_goals"`  // users.long_term_goals
	CreatedAt       string `json:"created_at"`       // users.created_at
	UpdatedAt       string `json:"updated_at"`       // users.updated_at
}

// InterestList splits the comma-joined Interests column.
func (u User) InterestList() []string { return SplitList(u.Interests) }

// SkillList splits the comma-joined Skills column.
func (u User) SkillList() []string { return SplitList(u.Skills) }

// ProfileUpdate carries the columns to overwrite on a profile save.
// Email selects the row; every nil field keeps its stored value.
type ProfileUpdate struct {
	Email           string
	Name            *string
	Password        *string
	ExperienceLevel *string
	AgeGroup        *string
	Interests       *string
	Skills          *string
	TimeCommitment  *string
	LearningStyle   *string
	ShortTermGoals  *string
	LongTermGoals   *string
	CreatedAt       *string
	UpdatedAt       *string
}

// Apply copies every supplied field of p onto u.
func (p ProfileUpdate) Apply(u *User) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&u.Name, p.Name)
	set(&u.Password, p.Password)
	set(&u.ExperienceLevel, p.ExperienceLevel)
	set(&u.AgeGroup, p.AgeGroup)
	set(&u.Interests, p.Interests)
	set(&u.Skills, p.Skills)
	set(&u.TimeCommitment, p.TimeCommitment)
	set(&u.LearningStyle, p.LearningStyle)
	set(&u.ShortTermGoals, p.ShortTermGoals)
	set(&u.LongTermGoals, p.LongTermGoals)
	set(&u.CreatedAt, p.CreatedAt)
	set(&u.UpdatedAt, p.UpdatedAt)
}

// Str returns a pointer to s, for building a ProfileUpdate inline.
func Str(s string) *string { return &s }

// SplitList splits a comma-joined column into trimmed, non-empty items.
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinList is the inverse of SplitList.
func JoinList(items []string) string {
	var kept []string
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			kept = append(kept, it)
		}
	}
	return strings.Join(kept, ", ")
}
