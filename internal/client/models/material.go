package models

import "time"

type MaterialStatus string

const (
	MaterialPending  MaterialStatus = "pending"
	MaterialApproved MaterialStatus = "approved"
	MaterialRejected MaterialStatus = "rejected"
)

type MaterialCategory string

const (
	CategoryCourseware MaterialCategory = "courseware"
	CategoryExam       MaterialCategory = "exam"
	CategoryExperiment MaterialCategory = "experiment"
	CategoryExercise   MaterialCategory = "exercise"
	CategoryReference  MaterialCategory = "reference"
	CategoryOther      MaterialCategory = "other"
)

// Material is an uploaded study document.
type Material struct {
	ID              int64            `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description,omitempty"`
	Category        MaterialCategory `json:"category,omitempty"`
	CourseName      string           `json:"course_name,omitempty"`
	Tags            []string         `json:"tags,omitempty"`
	FileName        string           `json:"file_name,omitempty"`
	FileKey         string           `json:"file_key,omitempty"`
	FileSize        int64            `json:"file_size,omitempty"`
	MimeType        string           `json:"mime_type,omitempty"`
	Status          MaterialStatus   `json:"status,omitempty"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
	DownloadCount   int64            `json:"download_count"`
	FavoriteCount   int64            `json:"favorite_count"`
	ViewCount       int64            `json:"view_count"`
	IsFavorited     bool             `json:"is_favorited"`
	UploaderID      int64            `json:"uploader_id,omitempty"`
	UploaderName    string           `json:"uploader_name,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func (m Material) EntityID() int64 { return m.ID }

// CreateMaterialRequest commits a file that has already been transferred to
// storage. FileKey is the key returned by the upload pipeline.
type CreateMaterialRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Category    MaterialCategory `json:"category"`
	CourseName  string           `json:"course_name,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
	FileName    string           `json:"file_name"`
	FileKey     string           `json:"file_key"`
	FileSize    int64            `json:"file_size"`
	MimeType    string           `json:"mime_type"`
}

// ReviewMaterialRequest is the admin decision on a pending material.
type ReviewMaterialRequest struct {
	Status          MaterialStatus `json:"status"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
}
