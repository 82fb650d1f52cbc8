package models

import "time"

type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationApproved  ApplicationStatus = "approved"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationCancelled ApplicationStatus = "cancelled"
)

// CommitteeApplication is a student's request to become a study committee
// member.
type CommitteeApplication struct {
	ID            int64             `json:"id"`
	UserID        int64             `json:"user_id"`
	Username      string            `json:"username,omitempty"`
	Status        ApplicationStatus `json:"status"`
	Reason        string            `json:"reason"`
	ReviewerID    *int64            `json:"reviewer_id,omitempty"`
	ReviewedAt    *time.Time        `json:"reviewed_at,omitempty"`
	ReviewComment string            `json:"review_comment,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func (a CommitteeApplication) EntityID() int64 { return a.ID }

type CreateApplicationRequest struct {
	Reason string `json:"reason"`
}

type ReviewApplicationRequest struct {
	Approved bool   `json:"approved"`
	Comment  string `json:"comment,omitempty"`
}
