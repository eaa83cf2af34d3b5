package models

import "time"

// Manga is one catalog entry. Column names follow the platform schema
// (mangas table).
type Manga struct {
	MangaID   int64     `json:"manga_id"`
	Name      string    `json:"manga_name"`
	Disc      *string   `json:"manga_disc"`
	BgImg     *string   `json:"manga_bg_img"`
	Slug      string    `json:"manga_slug"`
	TagID     *int64    `json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Tag is a catalog tag (tags table).
type Tag struct {
	TagID     int64     `json:"tag_id"`
	Name      string    `json:"tag_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment moderation states (comment_on_episode.status).
const (
	CommentPending   = "pending"
	CommentPublished = "published"
	CommentRejected  = "rejected"
)

// Comment is a reader comment on an episode, subject to moderation.
type Comment struct {
	CommentID   int64     `json:"comment_id"`
	MangaID     int64     `json:"manga_id"`
	Episode     int       `json:"episode"`
	Commenter   string    `json:"commenter"`
	Comment     string    `json:"comment"`
	Status      string    `json:"status"`
	CreatedDate time.Time `json:"created_date"`
}

// Favorite links a user to a manga (favorite_manga table).
type Favorite struct {
	UserID    int64     `json:"user_id"`
	MangaID   int64     `json:"manga_id"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoriteManga is a favorite joined with its catalog entry for listing.
type FavoriteManga struct {
	MangaID   int64     `json:"manga_id"`
	Name      string    `json:"manga_name"`
	Slug      string    `json:"manga_slug"`
	BgImg     *string   `json:"manga_bg_img"`
	CreatedAt time.Time `json:"favorited_at"`
}
