package advisor

// GenericFocus is the catalog key served for unrecognized focus areas.
const GenericFocus = "Based on my profile"

// fallbackCatalog is served when the model is unavailable or returns
// something that does not parse. Keys are the focus areas offered by the
// suggestion form.
var fallbackCatalog = map[string][]Project{
	GenericFocus: {
		{
			Title:              "Personal Learning Journal",
			Description:        "A small web app to log what you study each day, tag entries by topic and review your week.",
			LearningObjectives: []string{"CRUD application design", "Data modeling", "Basic UI layout"},
			Technologies:       []string{"HTML", "CSS", "JavaScript", "SQLite"},
			KeyFeatures:        []string{"Daily entries", "Topic tags", "Weekly summary", "Search"},
			Timeline:           "2-3 weeks",
			Difficulty:         "Beginner",
			Resources:          []string{"MDN Web Docs", "SQLite documentation"},
		},
		{
			Title:              "Command-Line Habit Tracker",
			Description:        "A CLI that records habits, shows streaks and exports a CSV report.",
			LearningObjectives: []string{"Argument parsing", "File I/O", "Testing small programs"},
			Technologies:       []string{"Python or Go", "CSV"},
			KeyFeatures:        []string{"Add habit", "Check in", "Streak view", "CSV export"},
			Timeline:           "1-2 weeks",
			Difficulty:         "Beginner",
			Resources:          []string{"Official language tutorial", "Testing guide for your language"},
		},
	},
	"Programming & Software Development": {
		{
			Title:              "Task Manager API",
			Description:        "A REST API for tasks with users, due dates and filtering, backed by a relational database.",
			LearningObjectives: []string{"HTTP API design", "Persistence", "Authentication", "Automated tests"},
			Technologies:       []string{"Go or Node.js", "PostgreSQL", "Docker"},
			KeyFeatures:        []string{"Sign up and login", "Task CRUD", "Filtering and paging", "Integration tests"},
			Timeline:           "1 month",
			Difficulty:         "Intermediate",
			Resources:          []string{"REST API design guides", "PostgreSQL tutorial"},
		},
	},
	"Data Science & Analytics": {
		{
			Title:              "Public Dataset Dashboard",
			Description:        "Clean a public dataset, explore it and publish an interactive dashboard of the findings.",
			LearningObjectives: []string{"Data cleaning", "Exploratory analysis", "Visualization"},
			Technologies:       []string{"Python", "pandas", "Plotly"},
			KeyFeatures:        []string{"Cleaning notebook", "Summary statistics", "Interactive charts", "Written findings"},
			Timeline:           "2-3 weeks",
			Difficulty:         "Beginner",
			Resources:          []string{"Kaggle Learn", "pandas user guide"},
		},
	},
	"Web Development": {
		{
			Title:              "Portfolio Website",
			Description:        "A responsive personal site that showcases your projects with a contact form.",
			LearningObjectives: []string{"Responsive layout", "Accessibility", "Deployment"},
			Technologies:       []string{"HTML", "CSS", "JavaScript"},
			KeyFeatures:        []string{"Project gallery", "Contact form", "Dark mode", "Hosted deployment"},
			Timeline:           "1-2 weeks",
			Difficulty:         "Beginner",
			Resources:          []string{"MDN Web Docs", "web.dev"},
		},
	},
	"Mobile App Development": {
		{
			Title:              "Expense Tracker App",
			Description:        "A mobile app to record expenses, group them by category and chart monthly spending.",
			LearningObjectives: []string{"Mobile UI", "Local storage", "Charts"},
			Technologies:       []string{"Flutter or React Native"},
			KeyFeatures:        []string{"Add expense", "Categories", "Monthly chart", "Export"},
			Timeline:           "1 month",
			Difficulty:         "Intermediate",
			Resources:          []string{"Flutter docs", "React Native docs"},
		},
	},
	"Machine Learning & AI": {
		{
			Title:              "Text Sentiment Classifier",
			Description:        "Train and evaluate a sentiment model on product reviews and serve it behind a small API.",
			LearningObjectives: []string{"Feature extraction", "Model evaluation", "Model serving"},
			Technologies:       []string{"Python", "scikit-learn", "FastAPI"},
			KeyFeatures:        []string{"Training pipeline", "Metrics report", "Prediction endpoint", "Error analysis"},
			Timeline:           "1 month",
			Difficulty:         "Intermediate",
			Resources:          []string{"scikit-learn tutorials", "Hugging Face course"},
		},
	},
	"Game Development": {
		{
			Title:              "2D Platformer Level",
			Description:        "Build one complete platformer level with a player, enemies, collectibles and a score.",
			LearningObjectives: []string{"Game loop", "Collision detection", "Sprite animation"},
			Technologies:       []string{"Godot or Unity"},
			KeyFeatures:        []string{"Player movement", "Enemies", "Collectibles", "Score and restart"},
			Timeline:           "2-3 weeks",
			Difficulty:         "Beginner",
			Resources:          []string{"Godot docs", "Unity Learn"},
		},
	},
	"UI/UX Design": {
		{
			Title:              "App Redesign Case Study",
			Description:        "Pick an app you use, research its pain points and produce a tested redesign prototype.",
			LearningObjectives: []string{"User research", "Wireframing", "Usability testing"},
			Technologies:       []string{"Figma"},
			KeyFeatures:        []string{"Interviews", "Wireframes", "Clickable prototype", "Case study write-up"},
			Timeline:           "1 month",
			Difficulty:         "Beginner",
			Resources:          []string{"Nielsen Norman Group articles", "Figma tutorials"},
		},
	},
	"Digital Marketing": {
		{
			Title:              "Content Campaign Experiment",
			Description:        "Plan, publish and measure a four-week content campaign for a real or mock product.",
			LearningObjectives: []string{"Audience research", "Content planning", "Analytics"},
			Technologies:       []string{"Google Analytics", "Social media schedulers"},
			KeyFeatures:        []string{"Persona", "Content calendar", "Tracking links", "Results report"},
			Timeline:           "1 month",
			Difficulty:         "Beginner",
			Resources:          []string{"Google Analytics Academy", "HubSpot Academy"},
		},
	},
	"Business & Entrepreneurship": {
		{
			Title:              "Lean Startup Validation",
			Description:        "Validate a business idea with customer interviews, a landing page and a simple financial model.",
			LearningObjectives: []string{"Customer discovery", "Value proposition", "Unit economics"},
			Technologies:       []string{"Landing page builder", "Spreadsheets"},
			KeyFeatures:        []string{"Interview notes", "Landing page", "Sign-up tracking", "Financial model"},
			Timeline:           "1 month",
			Difficulty:         "Beginner",
			Resources:          []string{"The Lean Startup", "Y Combinator Startup School"},
		},
	},
	"Creative Arts": {
		{
			Title:              "30-Day Creative Challenge",
			Description:        "Produce one small piece every day for 30 days and curate the best into an online gallery.",
			LearningObjectives: []string{"Consistency", "Technique practice", "Curation"},
			Technologies:       []string{"Any medium", "Online portfolio site"},
			KeyFeatures:        []string{"Daily prompt list", "Progress log", "Gallery", "Reflection"},
			Timeline:           "1 month",
			Difficulty:         "Beginner",
			Resources:          []string{"Skillshare classes", "Community critique forums"},
		},
	},
	"Science & Research": {
		{
			Title:              "Replicate a Published Result",
			Description:        "Pick a short paper with open data, reproduce its main figure and write up any differences.",
			LearningObjectives: []string{"Reading papers", "Reproducible analysis", "Scientific writing"},
			Technologies:       []string{"Python or R", "Jupyter"},
			KeyFeatures:        []string{"Data retrieval", "Analysis notebook", "Reproduced figure", "Report"},
			Timeline:           "1 month",
			Difficulty:         "Intermediate",
			Resources:          []string{"Papers with Code", "The Turing Way"},
		},
	},
}

// FallbackProjects returns up to n canned projects for focus. Unknown
// focus areas get the generic entry. The result is a fresh slice.
func FallbackProjects(focus string, n int) []Project {
	list, ok := fallbackCatalog[focus]
	if !ok {
		list = fallbackCatalog[GenericFocus]
	}
	if n <= 0 || n > len(list) {
		n = len(list)
	}
	out := make([]Project, n)
	copy(out, list[:n])
	return out
}

// FallbackChatReply is sent when the mentor model cannot answer.
const FallbackChatReply = "I'm experiencing some technical difficulties right now. Please try again in a moment."
