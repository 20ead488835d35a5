package advisor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iliyamo/learning-mentor/internal/model"
)

func or(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func profileBlock(u model.User) string {
	var b strings.Builder
	b.WriteString("User Profile:\n")
	fmt.Fprintf(&b, "- Name: %s\n", or(u.Name, "User"))
	fmt.Fprintf(&b, "- Experience Level: %s\n", or(u.ExperienceLevel, "Beginner"))
	fmt.Fprintf(&b, "- Interests: %s\n", or(u.Interests, "Not specified"))
	fmt.Fprintf(&b, "- Current Skills: %s\n", or(u.Skills, "Not specified"))
	fmt.Fprintf(&b, "- Time Commitment: %s\n", or(u.TimeCommitment, "Not specified"))
	fmt.Fprintf(&b, "- Learning Style: %s\n", or(u.LearningStyle, "Mixed approach"))
	fmt.Fprintf(&b, "- Short-term Goals: %s\n", or(u.ShortTermGoals, "Not specified"))
	fmt.Fprintf(&b, "- Long-term Goals: %s\n", or(u.LongTermGoals, "Not specified"))
	return b.String()
}

func projectPrompt(u model.User, p ProjectParams) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert learning mentor and project advisor. Based on the user profile below, generate %d personalized project suggestions.\n\n", p.NumProjects)
	b.WriteString(profileBlock(u))
	b.WriteString("\nProject Requirements:\n")
	fmt.Fprintf(&b, "- Focus Area: %s\n", p.FocusArea)
	fmt.Fprintf(&b, "- Difficulty Level: %s\n", p.DifficultyLevel)
	fmt.Fprintf(&b, "- Project Type: %s\n", p.ProjectType)
	fmt.Fprintf(&b, "- Timeline: %s\n", p.Timeline)
	fmt.Fprintf(&b, "- Additional Requirements: %s\n", or(p.AdditionalRequirements, "None"))
	b.WriteString(`
Generate projects that match the user's skill level and interests, are achievable within the timeline,
have clear learning outcomes, give hands-on experience and are relevant to their goals.

Return a JSON array. Each element is an object with the keys:
"title" (string), "description" (string), "learning_objectives" (3-5 strings),
"technologies" (strings), "key_features" (4-6 strings), "timeline" (string),
"difficulty" (string), "resources" (strings).
`)
	return b.String()
}

func roadmapPrompt(u model.User, p RoadmapParams) string {
	var b strings.Builder
	b.WriteString("You are an expert learning strategist. Create a comprehensive, personalized learning roadmap for the following user and goal.\n\n")
	b.WriteString(profileBlock(u))
	fmt.Fprintf(&b, "\nLearning Goal: %s\n", p.Goal)
	fmt.Fprintf(&b, "Timeline: %s\n", or(p.Timeline, "3 months"))
	fmt.Fprintf(&b, "Difficulty Level: %s\n", or(p.DifficultyLevel, "Intermediate"))
	fmt.Fprintf(&b, "Focus Areas: %s\n", strings.Join(p.FocusAreas, ", "))
	fmt.Fprintf(&b, "Preferred Learning Style: %s\n", or(p.LearningStyle, "Mixed approach"))
	fmt.Fprintf(&b, "Time per week: %s\n", or(p.TimePerWeek, "1-3 hours"))
	fmt.Fprintf(&b, "Prior Knowledge: %s\n", or(p.PriorKnowledge, "Not specified"))
	fmt.Fprintf(&b, "Additional Preferences: %s\n", or(p.Preferences, "None"))
	if p.ProjectContext != "" {
		fmt.Fprintf(&b, "Build the roadmap around this project: %s\n", p.ProjectContext)
	}
	b.WriteString(`
The roadmap must be realistic for the timeline and weekly time, fit the experience level,
and progress from basic to advanced concepts.

Return a JSON object with the keys:
"title" (string), "overview" (string),
"phases" (3-6 objects with "title", "duration", "objective", "topics", "activities", "resources", "milestones"),
"additional_resources" (strings), "tips" (strings).
`)
	return b.String()
}

func chatSystemPrompt(u model.User, history []Turn) string {
	var b strings.Builder
	b.WriteString(`You are an expert AI learning mentor and career advisor. You help students and professionals
learn new skills, solve problems, and advance their careers in technology.

`)
	b.WriteString(profileBlock(u))
	b.WriteString(`
Be friendly, encouraging and practical. Give specific, actionable advice, ask clarifying
questions when needed, suggest concrete next steps and refer to the user's goals when relevant.
Keep responses focused.
`)
	if len(history) > 0 {
		b.WriteString("\nRecent conversation context:\n")
		for _, t := range history {
			who := "Mentor"
			if t.Role == model.RoleUser {
				who = "User"
			}
			fmt.Fprintf(&b, "%s: %s\n", who, t.Content)
		}
	}
	return b.String()
}

func insightsPrompt(entries []model.ProgressEntry) (string, error) {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`Analyze the following learning progress data and provide insights and recommendations.

Progress Data:
%s

Return a JSON object with the keys "learning_patterns", "strengths", "areas_for_improvement",
"recommendations" and "motivation".
`, data), nil
}
