package model

// Roadmap is a generated learning plan saved in `roadmaps.csv`.
// Content holds the serialized plan returned by the advisor. Progress
// exists in the file layout but nothing mutates it after creation.
//
// Fields:
//
//	ID              – row count + 1 at save time.
//	UserEmail       – owning user's email.
//	Title           – plan title.
//	Goal            – the learning goal the user typed.
//	Timeline        – requested duration, e.g. "3 months".
//	DifficultyLevel – requested difficulty.
//	Content         – serialized plan (JSON).
//	Progress        – completion percentage, always 0 today.
//	CreatedAt       – creation timestamp (TimeLayout).
//	UpdatedAt       – equal to CreatedAt.
type Roadmap struct {
	ID              int    `json:"id"`               // roadmaps.id
	UserEmail       string `json:"user_email"`       // roadmaps.user_email
	Title           string `json:"title"`            // roadmaps.title
	Goal            string `json:"goal"`             // roadmaps.goal
	Timeline        string `json:"timeline"`         // roadmaps.timeline
	DifficultyLevel string `json:"difficulty_level"` // roadmaps.difficulty_level
	Content         string `json:"content"`          // roadmaps.content
	Progress        int    `json:"progress"`         // roadmaps.progress
	CreatedAt       string `json:"created_at"`       // roadmaps.created_at
	UpdatedAt       string `json:"updated_at"`       // roadmaps.updated_at
}
