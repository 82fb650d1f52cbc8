package models

import "time"

// SearchResult is one hit returned by GET /search.
type SearchResult struct {
	ID            int64            `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Category      MaterialCategory `json:"category"`
	CourseName    string           `json:"course_name"`
	Tags          []string         `json:"tags"`
	FileSize      int64            `json:"file_size"`
	DownloadCount int64            `json:"download_count"`
	FavoriteCount int64            `json:"favorite_count"`
	ViewCount     int64            `json:"view_count"`
	UploaderID    int64            `json:"uploader_id"`
	UploaderName  string           `json:"uploader_name"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func (r SearchResult) EntityID() int64 { return r.ID }

// SearchHistoryEntry is a keyword remembered locally.
type SearchHistoryEntry struct {
	Keyword    string
	SearchedAt time.Time
}
