// Package advisor produces project suggestions, learning roadmaps, mentor
// chat replies and progress insights from a text-generation model. Every
// operation degrades to a canned answer when the model is missing or its
// output cannot be used; the boolean result reports whether the model
// answer was used.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/iliyamo/learning-mentor/internal/logger"
	"github.com/iliyamo/learning-mentor/internal/model"
)

// ChatContextTurns is how many prior messages are sent with a chat turn.
const ChatContextTurns = 5

// MaxProjects caps the number of suggestions in one request.
const MaxProjects = 5

// Models names the model used by each operation.
type Models struct {
	Project  string
	Roadmap  string
	Chat     string
	Insights string
}

// Advisor wraps a Generator. A nil Generator makes every call fall back.
type Advisor struct {
	gen    Generator
	models Models
	log    *logger.Logger
}

func New(gen Generator, models Models, log *logger.Logger) *Advisor {
	return &Advisor{gen: gen, models: models, log: log}
}

// Enabled reports whether a live model is configured.
func (a *Advisor) Enabled() bool { return a.gen != nil }

// SuggestProjects asks for p.NumProjects (clamped to 1..MaxProjects)
// projects tailored to profile.
func (a *Advisor) SuggestProjects(ctx context.Context, profile model.User, p ProjectParams) ([]Project, bool) {
	p.NumProjects = clamp(p.NumProjects, 1, MaxProjects)
	if a.gen == nil {
		return FallbackProjects(p.FocusArea, p.NumProjects), false
	}

	text, err := a.gen.Generate(ctx, a.models.Project, Request{
		Prompt:      projectPrompt(profile, p),
		JSON:        true,
		Temperature: 0.7,
	})
	if err != nil {
		a.log.Warn("project suggestions failed", "email", profile.Email, "error", err)
		return FallbackProjects(p.FocusArea, p.NumProjects), false
	}
	projects, err := parseProjects(text)
	if err != nil || len(projects) == 0 {
		a.log.Warn("project suggestions unparsable", "email", profile.Email, "error", err)
		return FallbackProjects(p.FocusArea, p.NumProjects), false
	}
	if len(projects) > p.NumProjects {
		projects = projects[:p.NumProjects]
	}
	return projects, true
}

// GenerateRoadmap builds a phased plan for p.Goal. The fallback is a
// three-phase outline derived from the request.
func (a *Advisor) GenerateRoadmap(ctx context.Context, profile model.User, p RoadmapParams) (RoadmapPlan, bool) {
	if a.gen == nil {
		return fallbackRoadmap(p), false
	}
	text, err := a.gen.Generate(ctx, a.models.Roadmap, Request{
		Prompt:      roadmapPrompt(profile, p),
		JSON:        true,
		Temperature: 0.7,
	})
	if err != nil {
		a.log.Warn("roadmap generation failed", "email", profile.Email, "error", err)
		return fallbackRoadmap(p), false
	}
	var plan RoadmapPlan
	if err := json.Unmarshal([]byte(stripFences(text)), &plan); err != nil || len(plan.Phases) == 0 {
		a.log.Warn("roadmap unparsable", "email", profile.Email, "error", err)
		return fallbackRoadmap(p), false
	}
	if plan.Title == "" {
		plan.Title = p.Goal
	}
	return plan, true
}

// Chat answers message using the last ChatContextTurns messages of
// history as context. history is oldest first.
func (a *Advisor) Chat(ctx context.Context, profile model.User, history []Turn, message string) (string, bool) {
	if a.gen == nil {
		return FallbackChatReply, false
	}
	if len(history) > ChatContextTurns {
		history = history[len(history)-ChatContextTurns:]
	}
	text, err := a.gen.Generate(ctx, a.models.Chat, Request{
		System:      chatSystemPrompt(profile, history),
		Prompt:      message,
		Temperature: 0.7,
		MaxTokens:   1000,
	})
	if err != nil {
		a.log.Warn("mentor chat failed", "email", profile.Email, "error", err)
		return FallbackChatReply, false
	}
	return strings.TrimSpace(text), true
}

// AnalyzeProgress summarizes entries into a free-form insight object.
// An empty history yields nil without calling the model.
func (a *Advisor) AnalyzeProgress(ctx context.Context, entries []model.ProgressEntry) (map[string]any, bool) {
	if len(entries) == 0 {
		return nil, false
	}
	if a.gen == nil {
		return fallbackInsights(entries), false
	}
	prompt, err := insightsPrompt(entries)
	if err != nil {
		return fallbackInsights(entries), false
	}
	text, err := a.gen.Generate(ctx, a.models.Insights, Request{
		Prompt:      prompt,
		JSON:        true,
		Temperature: 0.5,
	})
	if err != nil {
		a.log.Warn("progress analysis failed", "error", err)
		return fallbackInsights(entries), false
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(stripFences(text)), &out); err != nil || len(out) == 0 {
		a.log.Warn("progress analysis unparsable", "error", err)
		return fallbackInsights(entries), false
	}
	return out, true
}

var errNotJSON = errors.New("response is not a JSON object or array")

// parseProjects accepts either a JSON array of projects or a single
// project object.
func parseProjects(text string) ([]Project, error) {
	text = stripFences(text)
	switch {
	case strings.HasPrefix(text, "["):
		var list []Project
		if err := json.Unmarshal([]byte(text), &list); err != nil {
			return nil, err
		}
		out := list[:0]
		for _, p := range list {
			if p.Title != "" {
				out = append(out, p)
			}
		}
		return out, nil
	case strings.HasPrefix(text, "{"):
		var one Project
		if err := json.Unmarshal([]byte(text), &one); err != nil {
			return nil, err
		}
		if one.Title == "" {
			return nil, nil
		}
		return []Project{one}, nil
	}
	return nil, errNotJSON
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func fallbackRoadmap(p RoadmapParams) RoadmapPlan {
	goal := or(p.Goal, "your goal")
	return RoadmapPlan{
		Title:    "Roadmap: " + goal,
		Overview: "A three-stage plan to reach " + goal + " within " + or(p.Timeline, "3 months") + ".",
		Phases: []Phase{
			{
				Title:      "Foundations",
				Duration:   "First third",
				Objective:  "Learn the core concepts behind " + goal + ".",
				Topics:     []string{"Terminology", "Core concepts", "Tooling setup"},
				Activities: []string{"Follow an introductory course", "Take notes and summarize each topic"},
				Milestones: []string{"Explain the basics in your own words"},
			},
			{
				Title:      "Practice",
				Duration:   "Second third",
				Objective:  "Apply the concepts in small exercises.",
				Topics:     []string{"Common patterns", "Debugging"},
				Activities: []string{"Complete guided exercises", "Build a small prototype"},
				Milestones: []string{"Finish one working prototype"},
			},
			{
				Title:      "Project",
				Duration:   "Final third",
				Objective:  "Build and share a complete project.",
				Topics:     []string{"Project planning", "Review and iteration"},
				Activities: []string{"Plan scope", "Build", "Ask for feedback"},
				Milestones: []string{"Publish the project"},
			},
		},
		Tips: []string{"Log your progress after each session", "Review the plan every week"},
	}
}

func fallbackInsights(entries []model.ProgressEntry) map[string]any {
	types := map[string]int{}
	for _, e := range entries {
		types[e.ProgressType]++
	}
	return map[string]any{
		"learning_patterns":     "Logged " + strconv.Itoa(len(entries)) + " activities.",
		"activity_types":        types,
		"strengths":             []string{"Consistent logging"},
		"areas_for_improvement": []string{},
		"recommendations":       []string{"Keep logging sessions to see trends over time"},
		"motivation":            "Every session counts. Keep going!",
	}
}
