package models

import "time"

// Episode is per-chapter metadata (manga_episodes table). Page images live
// in the episodes table and are counted into TotalPages.
type Episode struct {
	EpisodeID   int64     `json:"id"`
	MangaID     int64     `json:"manga_id"`
	Episode     int       `json:"episode"`
	Name        *string   `json:"episode_name"`
	TotalPages  int       `json:"total_pages"`
	Views       int64     `json:"view"`
	CreatedDate time.Time `json:"created_date"`
	UpdatedDate time.Time `json:"updated_date"`
}

// EpisodePage is one stored page image of an episode (episodes table).
type EpisodePage struct {
	PageID        int64  `json:"page_id"`
	MangaID       int64  `json:"manga_id"`
	MangaSlug     string `json:"manga_slug"`
	Episode       int    `json:"episode"`
	PageNumber    int    `json:"page_number"`
	ImageURL      string `json:"image_url"`
	ImageFilename string `json:"image_filename"`
}

// LatestEpisode is an episode joined with its manga for the recency feed.
type LatestEpisode struct {
	EpisodeID   int64     `json:"id"`
	MangaID     int64     `json:"manga_id"`
	Episode     int       `json:"episode"`
	Name        *string   `json:"episode_name"`
	Views       int64     `json:"view"`
	CreatedDate time.Time `json:"created_date"`
	MangaName   string    `json:"manga_name"`
	MangaSlug   string    `json:"manga_slug"`
	MangaBgImg  *string   `json:"manga_bg_img"`
}
