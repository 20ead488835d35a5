package repository

import (
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/learning-mentor/internal/model"
)

// Stats aggregates a user's activity across every table. The tables are
// read concurrently. Counts from tables that failed to load are zero and
// the first error is returned alongside the partial result.
func (r *Repos) Stats(email string) (model.UserStats, error) {
	var (
		user         model.User
		found        bool
		roadmaps     []model.Roadmap
		interactions []model.Interaction
		chats        []model.ChatMessage
		progress     []model.ProgressEntry
	)

	var g errgroup.Group
	g.Go(func() (err error) { user, found, err = r.Users.FindByEmail(email); return err })
	g.Go(func() (err error) { roadmaps, err = r.Roadmaps.LoadForUser(email); return err })
	g.Go(func() (err error) { interactions, err = r.Interactions.LoadForUser(email); return err })
	g.Go(func() (err error) { chats, err = r.Chats.LoadForUser(email); return err })
	g.Go(func() (err error) { progress, err = r.Progress.LoadForUser(email); return err })
	err := g.Wait()

	st := model.UserStats{
		TotalRoadmaps:        len(roadmaps),
		TotalInteractions:    len(interactions),
		TotalProgressEntries: len(progress),
	}
	if found {
		st.JoinDate = user.CreatedAt
	}
	for _, m := range chats {
		if m.Role == model.RoleUser {
			st.TotalChatMessages++
		}
	}

	// TimeLayout sorts lexically in time order.
	latest := func(ts string) {
		if ts > st.LastActivity {
			st.LastActivity = ts
		}
	}
	for _, in := range interactions {
		latest(in.Timestamp)
	}
	for _, m := range chats {
		latest(m.Timestamp)
	}
	for _, p := range progress {
		latest(p.Timestamp)
	}
	return st, err
}
