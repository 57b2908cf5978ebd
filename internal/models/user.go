package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Streak tracks consecutive posting days for a user.
type Streak struct {
	Current int `bson:"current" json:"current"`
	Longest int `bson:"longest" json:"longest"`
}

// HeatmapEntry is one day of posting activity.
type HeatmapEntry struct {
	Date  time.Time `bson:"date" json:"date"`
	Count int       `bson:"count" json:"count"`
}

// MaxHeatmapEntries bounds the activity history kept per user.
const MaxHeatmapEntries = 365

// User represents an account in Bloom.
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username          string             `bson:"username" json:"username"`
	Email             string             `bson:"email" json:"email"`
	HashedPassword    string             `bson:"password" json:"-"`
	PasswordChangedAt time.Time          `bson:"passwordChangedAt,omitempty" json:"-"`

	Bio      string `bson:"bio" json:"bio"`
	Avatar   string `bson:"avatar" json:"avatar"`
	CoverImg string `bson:"coverImg" json:"coverImg"`
	Role     string `bson:"role" json:"role"`

	// Denormalized counters. Best-effort caches of the underlying
	// follow/post documents, never the source of truth.
	FollowersCount int `bson:"followersCount" json:"followersCount"`
	FollowingCount int `bson:"followingCount" json:"followingCount"`
	PostsCount     int `bson:"postsCount" json:"postsCount"`

	LastActive      time.Time      `bson:"lastActive" json:"lastActive"`
	Streak          Streak         `bson:"streak" json:"streak"`
	ActivityHeatmap []HeatmapEntry `bson:"activityHeatmap" json:"activityHeatmap"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PublicUser is the profile projection exposed to other users.
type PublicUser struct {
	ID             primitive.ObjectID `json:"id"`
	Username       string             `json:"username"`
	Avatar         string             `json:"avatar"`
	Bio            string             `json:"bio"`
	FollowersCount int                `json:"followersCount"`
	FollowingCount int                `json:"followingCount"`
	PostsCount     int                `json:"postsCount"`
	Streak         Streak             `json:"streak"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// BriefUser is the minimal projection attached to posts, comments and
// notifications.
type BriefUser struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
	Avatar   string             `json:"avatar"`
}

// Public returns the public projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:             u.ID,
		Username:       u.Username,
		Avatar:         u.Avatar,
		Bio:            u.Bio,
		FollowersCount: u.FollowersCount,
		FollowingCount: u.FollowingCount,
		PostsCount:     u.PostsCount,
		Streak:         u.Streak,
		CreatedAt:      u.CreatedAt,
	}
}

// Brief returns the minimal projection of the user.
func (u *User) Brief() BriefUser {
	return BriefUser{
		ID:       u.ID,
		Username: u.Username,
		Avatar:   u.Avatar,
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// UpdateStreak recomputes the posting streak relative to now. Posting on
// consecutive calendar days grows the streak, a gap resets it to 1, and a
// second action on the same day leaves it alone (unless the streak is
// brand new). LastActive is always set to the untruncated now, so a later
// action today shifts what tomorrow's distance calculation sees.
func (u *User) UpdateStreak(now time.Time) {
	today := midnight(now)
	lastDay := midnight(u.LastActive)

	diffDays := int(today.Sub(lastDay).Round(24*time.Hour) / (24 * time.Hour))

	switch {
	case diffDays == 1:
		u.Streak.Current++
	case diffDays > 1:
		u.Streak.Current = 1
	case u.Streak.Current == 0:
		u.Streak.Current = 1
	}

	if u.Streak.Current > u.Streak.Longest {
		u.Streak.Longest = u.Streak.Current
	}

	u.LastActive = now
}

// AddActivity records one more action on today's heatmap entry, keeping at
// most MaxHeatmapEntries days (oldest dropped first).
func (u *User) AddActivity(now time.Time) {
	today := midnight(now)

	for i := range u.ActivityHeatmap {
		if u.ActivityHeatmap[i].Date.Equal(today) {
			u.ActivityHeatmap[i].Count++
			return
		}
	}

	u.ActivityHeatmap = append(u.ActivityHeatmap, HeatmapEntry{Date: today, Count: 1})
	if len(u.ActivityHeatmap) > MaxHeatmapEntries {
		u.ActivityHeatmap = u.ActivityHeatmap[len(u.ActivityHeatmap)-MaxHeatmapEntries:]
	}
}
