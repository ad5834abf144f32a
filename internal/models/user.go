// Package models holds the cached entity records and the pure functions that
// compute their derived fields. Remote-sourced fields carry JSON tags and are
// overwritten by reconciliation merges; everything local lives on the
// `Derived` structs, which are invisible to the JSON layer (`json:"-"`) so a
// merge can never clobber them.
package models

import "time"

// User is the cached record for a remote user. One instance exists per id;
// reconciliation mutates it in place so references held by readers keep
// observing updates.
type User struct {
	ID                             string   `json:"id"`
	DisplayName                    string   `json:"displayName"`
	Bio                            string   `json:"bio"`
	BioLinks                       []string `json:"bioLinks"`
	State                          string   `json:"state"`
	Status                         string   `json:"status"`
	StatusDescription              string   `json:"statusDescription"`
	Location                       string   `json:"location"`
	TravelingToLocation            string   `json:"travelingToLocation"`
	WorldID                        string   `json:"worldId"`
	InstanceID                     string   `json:"instanceId"`
	Tags                           []string `json:"tags"`
	DeveloperType                  string   `json:"developerType"`
	LastLogin                      string   `json:"last_login"`
	LastPlatform                   string   `json:"last_platform"`
	DateJoined                     string   `json:"date_joined"`
	IsFriend                       bool     `json:"isFriend"`
	FriendKey                      string   `json:"friendKey"`
	CurrentAvatarImageURL          string   `json:"currentAvatarImageUrl"`
	CurrentAvatarThumbnailImageURL string   `json:"currentAvatarThumbnailImageUrl"`
	ProfilePicOverride             string   `json:"profilePicOverride"`
	AllowAvatarCopying             bool     `json:"allowAvatarCopying"`

	Derived UserDerived `json:"-"`
}

// UserDerived holds the locally computed view of a user. Recomputed on every
// merge except for the presence markers, which move only on real transitions.
type UserDerived struct {
	Trust     Trust
	Languages []string

	// Location resolved with live-signal precedence; see ResolveLocation.
	Location string

	// Presence markers. Zero until the first observed transition.
	OnlineSince  time.Time
	OfflineSince time.Time

	// Memo is the locally persisted note attached to this user.
	Memo string
}

func (u *User) EntityID() string { return u.ID }

// NewUser returns a default-shaped record: every slice non-nil, every scalar
// zero. Consumers can read any field of a freshly created record without
// nil-checking, even before the remote system has populated it.
func NewUser() *User {
	return &User{
		BioLinks: []string{},
		Tags:     []string{},
		Derived: UserDerived{
			Languages: []string{},
		},
	}
}

// Presence is the live-session block the identity endpoint reports for the
// current user. It leads the REST location fields while a session is active.
type Presence struct {
	World    string `json:"world"`
	Instance string `json:"instance"`
	Status   string `json:"status"`
	Platform string `json:"platform"`
}

// Location joins the presence block into a single location string, or ""
// when no live session is reported.
func (p Presence) LocationString() string {
	if p.World == "" || p.World == "offline" {
		return ""
	}
	if p.Instance == "" {
		return p.World
	}
	return p.World + ":" + p.Instance
}

// CurrentUser is the singleton record for the authenticated identity. It is
// created once, on the first successful identity fetch, and mutated for the
// rest of the session.
type CurrentUser struct {
	User

	TwoFactorAuthEnabled bool     `json:"twoFactorAuthEnabled"`
	EmailVerified        bool     `json:"emailVerified"`
	HasEmail             bool     `json:"hasEmail"`
	HasPendingEmail      bool     `json:"hasPendingEmail"`
	HomeLocation         string   `json:"homeLocation"`
	Friends              []string `json:"friends"`
	Presence             Presence `json:"presence"`

	Buckets FriendBuckets `json:"-"`
}

// NewCurrentUser returns a default-shaped current-user record.
func NewCurrentUser() *CurrentUser {
	cu := &CurrentUser{Friends: []string{}}
	cu.User = *NewUser()
	cu.Buckets = FriendBuckets{Online: []string{}, Active: []string{}, Offline: []string{}}
	return cu
}

// FriendBuckets partitions friend ids by their known state. Always recomputed
// wholesale from the friend list, never patched incrementally.
type FriendBuckets struct {
	Online  []string
	Active  []string
	Offline []string
}

// BucketFriends partitions friends deterministically, preserving the order of
// the input list inside each bucket. lookup reports a friend's current state
// ("online", "active", anything else meaning offline); a friend with no
// cached record goes to the offline bucket.
func BucketFriends(friends []string, lookup func(id string) (state string, ok bool)) FriendBuckets {
	b := FriendBuckets{Online: []string{}, Active: []string{}, Offline: []string{}}
	for _, id := range friends {
		state, ok := lookup(id)
		if !ok {
			b.Offline = append(b.Offline, id)
			continue
		}
		switch state {
		case "online":
			b.Online = append(b.Online, id)
		case "active":
			b.Active = append(b.Active, id)
		default:
			b.Offline = append(b.Offline, id)
		}
	}
	return b
}
