package model

// Interaction types recorded in `interactions.csv`.
const InteractionProjectSuggestion = "project_suggestion"

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Interaction is an append-only log row written each time a user asks
// for project suggestions.
type Interaction struct {
	ID              int    `json:"id"`               // interactions.id
	UserEmail       string `json:"user_email"`       // interactions.user_email
	InteractionType string `json:"interaction_type"` // interactions.interaction_type
	Details         string `json:"details"`          // interactions.details
	Timestamp       string `json:"timestamp"`        // interactions.timestamp
}

// ChatMessage is one turn of a mentor conversation.
type ChatMessage struct {
	ID        int    `json:"id"`         // chat_history.id
	UserEmail string `json:"user_email"` // chat_history.user_email
	Role      string `json:"role"`       // chat_history.role
	Content   string `json:"content"`    // chat_history.content
	Timestamp string `json:"timestamp"`  // chat_history.timestamp
}

// ProgressEntry is a manually logged learning activity.
type ProgressEntry struct {
	ID               int    `json:"id"`                // progress.id
	UserEmail        string `json:"user_email"`        // progress.user_email
	ProgressType     string `json:"progress_type"`     // progress.progress_type
	Description      string `json:"description"`       // progress.description
	TimeSpent        string `json:"time_spent"`        // progress.time_spent
	DifficultyRating string `json:"difficulty_rating"` // progress.difficulty_rating
	SkillsGained     string `json:"skills_gained"`     // progress.skills_gained
	NextSteps        string `json:"next_steps"`        // progress.next_steps
	Timestamp        string `json:"timestamp"`         // progress.timestamp
}

// UserStats summarizes a user's activity across all tables.
// JoinDate and LastActivity are empty when unknown.
type UserStats struct {
	TotalRoadmaps        int    `json:"total_roadmaps"`
	TotalInteractions    int    `json:"total_interactions"`
	TotalChatMessages    int    `json:"total_chat_messages"`
	TotalProgressEntries int    `json:"total_progress_entries"`
	JoinDate             string `json:"join_date"`
	LastActivity         string `json:"last_activity"`
}
