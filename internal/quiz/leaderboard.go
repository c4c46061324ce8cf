package quiz

import (
	"sort"
	"time"

	"github.com/kunalroy0223/liveiq/internal/domain"
)

// ActiveWindow is how recently a user must have been seen to count as active.
const ActiveWindow = 7 * 24 * time.Hour

var medals = []string{"gold", "silver", "bronze"}

// BuildLeaderboard is a pure function over a users snapshot: stable sort by
// score descending, 1-based ranks, medal markers for the top three, and an
// active-user count. Ties keep the input order, so any permutation-stable
// input yields identical output.
func BuildLeaderboard(users []domain.User, now time.Time) domain.Leaderboard {
	entries := make([]domain.LeaderboardEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, domain.LeaderboardEntry{
			UserID:   u.ID,
			Username: u.Username,
			Score:    u.Score,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	for i := range entries {
		entries[i].Rank = i + 1
		if i < len(medals) {
			entries[i].Medal = medals[i]
		}
	}

	return domain.Leaderboard{
		Entries:     entries,
		TotalUsers:  len(users),
		ActiveUsers: countActive(users, now),
		UpdatedAt:   now,
	}
}

// countActive counts users seen within ActiveWindow. A user with no
// lastActive falls back to createdAt, matching the original dashboard.
func countActive(users []domain.User, now time.Time) int {
	active := 0
	for _, u := range users {
		last := u.LastActive
		if last.IsZero() || u.CreatedAt.After(last) {
			last = u.CreatedAt
		}
		if last.IsZero() {
			continue
		}
		if now.Sub(last) < ActiveWindow {
			active++
		}
	}
	return active
}
