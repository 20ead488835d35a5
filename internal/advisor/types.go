package advisor

// Project is one suggested project.
type Project struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	LearningObjectives []string `json:"learning_objectives"`
	Technologies       []string `json:"technologies"`
	KeyFeatures        []string `json:"key_features"`
	Timeline           string   `json:"timeline"`
	Difficulty         string   `json:"difficulty"`
	Resources          []string `json:"resources"`
}

// ProjectParams are the task parameters of a suggestion request.
type ProjectParams struct {
	FocusArea              string `json:"focus_area"`
	DifficultyLevel        string `json:"difficulty_level"`
	ProjectType            string `json:"project_type"`
	Timeline               string `json:"timeline"`
	NumProjects            int    `json:"num_projects"`
	AdditionalRequirements string `json:"additional_requirements"`
}

// RoadmapParams are the task parameters of a roadmap request.
type RoadmapParams struct {
	Goal            string   `json:"goal"`
	Timeline        string   `json:"timeline"`
	DifficultyLevel string   `json:"difficulty_level"`
	FocusAreas      []string `json:"focus_areas"`
	LearningStyle   string   `json:"learning_style"`
	TimePerWeek     string   `json:"time_per_week"`
	PriorKnowledge  string   `json:"prior_knowledge"`
	Preferences     string   `json:"preferences"`
	ProjectContext  string   `json:"project_context"`
}

// Phase is one stage of a roadmap.
type Phase struct {
	Title      string   `json:"title"`
	Duration   string   `json:"duration"`
	Objective  string   `json:"objective"`
	Topics     []string `json:"topics"`
	Activities []string `json:"activities"`
	Resources  []string `json:"resources"`
	Milestones []string `json:"milestones"`
}

// RoadmapPlan is the structured roadmap the model returns.
type RoadmapPlan struct {
	Title               string   `json:"title"`
	Overview            string   `json:"overview"`
	Phases              []Phase  `json:"phases"`
	AdditionalResources []string `json:"additional_resources"`
	Tips                []string `json:"tips"`
}

// Turn is one message of the rolling chat history sent as context.
type Turn struct {
	Role    string
	Content string
}
