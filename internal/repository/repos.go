package repository

import (
	"github.com/iliyamo/learning-mentor/internal/logger"
)

// Repos bundles one repository per table. Each table is opened once so
// that all writers in the process share its lock.
type Repos struct {
	Dir          string
	Users        *UserRepo
	Roadmaps     *RoadmapRepo
	Interactions *InteractionRepo
	Chats        *ChatRepo
	Progress     *ProgressRepo
	Tables       []*Table
}

// Open runs Init on dir and wires a repository to each table.
func Open(dir string, log *logger.Logger) (*Repos, error) {
	if err := Init(dir); err != nil {
		return nil, err
	}
	users := NewTable(dir, UsersSchema)
	roadmaps := NewTable(dir, RoadmapsSchema)
	interactions := NewTable(dir, InteractionsSchema)
	chats := NewTable(dir, ChatSchema)
	progress := NewTable(dir, ProgressSchema)
	return &Repos{
		Dir:          dir,
		Users:        NewUserRepo(users, log.With("table", users.Name())),
		Roadmaps:     NewRoadmapRepo(roadmaps, log.With("table", roadmaps.Name())),
		Interactions: NewInteractionRepo(interactions, log.With("table", interactions.Name())),
		Chats:        NewChatRepo(chats, log.With("table", chats.Name())),
		Progress:     NewProgressRepo(progress, log.With("table", progress.Name())),
		Tables:       []*Table{users, roadmaps, interactions, chats, progress},
	}, nil
}
