package models

// Avatar is the cached record for an avatar.
type Avatar struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	AuthorID          string   `json:"authorId"`
	AuthorName        string   `json:"authorName"`
	ImageURL          string   `json:"imageUrl"`
	ThumbnailImageURL string   `json:"thumbnailImageUrl"`
	ReleaseStatus     string   `json:"releaseStatus"`
	Version           int      `json:"version"`
	Tags              []string `json:"tags"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

func (a *Avatar) EntityID() string { return a.ID }

func NewAvatar() *Avatar {
	return &Avatar{Tags: []string{}}
}

// World is the cached record for a world.
type World struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	AuthorID          string   `json:"authorId"`
	AuthorName        string   `json:"authorName"`
	ImageURL          string   `json:"imageUrl"`
	ThumbnailImageURL string   `json:"thumbnailImageUrl"`
	ReleaseStatus     string   `json:"releaseStatus"`
	Capacity          int      `json:"capacity"`
	Occupants         int      `json:"occupants"`
	Visits            int      `json:"visits"`
	Favorites         int      `json:"favorites"`
	Tags              []string `json:"tags"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

func (w *World) EntityID() string { return w.ID }

func NewWorld() *World {
	return &World{Tags: []string{}}
}

// Notification is the cached record for a notification. Details stays raw:
// its shape differs per notification type and only the UI interprets it.
type Notification struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	SenderUserID   string `json:"senderUserId"`
	SenderUsername string `json:"senderUsername"`
	ReceiverUserID string `json:"receiverUserId"`
	Message        string `json:"message"`
	Details        any    `json:"details"`
	Seen           bool   `json:"seen"`
	CreatedAt      string `json:"created_at"`
}

func (n *Notification) EntityID() string { return n.ID }

func NewNotification() *Notification {
	return &Notification{}
}

// Group is the cached record for a group.
type Group struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ShortCode   string `json:"shortCode"`
	Description string `json:"description"`
	OwnerID     string `json:"ownerId"`
	IconURL     string `json:"iconUrl"`
	BannerURL   string `json:"bannerUrl"`
	MemberCount int    `json:"memberCount"`

	MembershipStatus string `json:"membershipStatus"`
}

func (g *Group) EntityID() string { return g.ID }

func NewGroup() *Group {
	return &Group{}
}

// Favorite is the cached record for a favorite. FavoriteID points at the
// favorited entity; Type names its kind (friend, world, avatar).
type Favorite struct {
	ID         string   `json:"id"`
	Type       string   `json:"type"`
	FavoriteID string   `json:"favoriteId"`
	Tags       []string `json:"tags"`
}

func (f *Favorite) EntityID() string { return f.ID }

func NewFavorite() *Favorite {
	return &Favorite{Tags: []string{}}
}
