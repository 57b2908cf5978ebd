package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(offset int) time.Time {
	base := time.Date(2025, time.March, 10, 15, 4, 5, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func TestUpdateStreakFirstActivity(t *testing.T) {
	u := &User{}

	u.UpdateStreak(day(0))

	assert.Equal(t, 1, u.Streak.Current)
	assert.Equal(t, 1, u.Streak.Longest)
	assert.Equal(t, day(0), u.LastActive)
}

func TestUpdateStreakConsecutiveDays(t *testing.T) {
	u := &User{}

	u.UpdateStreak(day(0))
	u.UpdateStreak(day(1))
	u.UpdateStreak(day(2))

	assert.Equal(t, 3, u.Streak.Current)
	assert.Equal(t, 3, u.Streak.Longest)
}

func TestUpdateStreakSameDayNoChange(t *testing.T) {
	u := &User{}

	u.UpdateStreak(day(0))
	// A second activity within the same day keeps the streak intact but
	// still moves LastActive to the untruncated later timestamp.
	later := day(0).Add(5 * time.Hour)
	u.UpdateStreak(later)

	assert.Equal(t, 1, u.Streak.Current)
	assert.Equal(t, 1, u.Streak.Longest)
	assert.Equal(t, later, u.LastActive)
}

func TestUpdateStreakGapResets(t *testing.T) {
	u := &User{}

	u.UpdateStreak(day(0))
	u.UpdateStreak(day(1))
	require.Equal(t, 2, u.Streak.Current)

	// Skipping a day resets the current streak but keeps the record.
	u.UpdateStreak(day(3))

	assert.Equal(t, 1, u.Streak.Current)
	assert.Equal(t, 2, u.Streak.Longest)
}

func TestUpdateStreakLongestTracksRecord(t *testing.T) {
	u := &User{}

	for i := 0; i < 5; i++ {
		u.UpdateStreak(day(i))
	}
	require.Equal(t, 5, u.Streak.Longest)

	u.UpdateStreak(day(10))
	u.UpdateStreak(day(11))

	assert.Equal(t, 2, u.Streak.Current)
	assert.Equal(t, 5, u.Streak.Longest)
}

func TestAddActivityNewDay(t *testing.T) {
	u := &User{}

	u.AddActivity(day(0))
	u.AddActivity(day(1))

	require.Len(t, u.ActivityHeatmap, 2)
	assert.Equal(t, 1, u.ActivityHeatmap[0].Count)
	assert.Equal(t, 1, u.ActivityHeatmap[1].Count)
}

func TestAddActivitySameDayIncrements(t *testing.T) {
	u := &User{}

	u.AddActivity(day(0))
	u.AddActivity(day(0).Add(2 * time.Hour))
	u.AddActivity(day(0).Add(8 * time.Hour))

	require.Len(t, u.ActivityHeatmap, 1)
	assert.Equal(t, 3, u.ActivityHeatmap[0].Count)
}

func TestAddActivityCapsAtOneYear(t *testing.T) {
	u := &User{}

	for i := 0; i < MaxHeatmapEntries+10; i++ {
		u.AddActivity(day(i))
	}

	require.Len(t, u.ActivityHeatmap, MaxHeatmapEntries)
	// Oldest entries are dropped first.
	first := u.ActivityHeatmap[0].Date
	assert.Equal(t, day(10).Truncate(24*time.Hour).Format("2006-01-02"), first.Format("2006-01-02"))
}

func TestPublicProjection(t *testing.T) {
	u := &User{
		Username:       "alice",
		Email:          "alice@example.com",
		HashedPassword: "secret-hash",
		Bio:            "hello",
		FollowersCount: 7,
		Streak:         Streak{Current: 2, Longest: 4},
	}

	p := u.Public()

	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, "hello", p.Bio)
	assert.Equal(t, 7, p.FollowersCount)
	assert.Equal(t, Streak{Current: 2, Longest: 4}, p.Streak)
}

func TestBriefProjection(t *testing.T) {
	u := &User{Username: "bob", Avatar: "https://img.example/bob.png"}

	b := u.Brief()

	assert.Equal(t, "bob", b.Username)
	assert.Equal(t, "https://img.example/bob.png", b.Avatar)
}
