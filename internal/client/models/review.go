package models

import "time"

type ReviewAction string

const (
	ReviewApprove ReviewAction = "approve"
	ReviewReject  ReviewAction = "reject"
)

type ReviewTarget string

const (
	TargetMaterial  ReviewTarget = "material"
	TargetCommittee ReviewTarget = "committee"
	TargetReport    ReviewTarget = "report"
)

// ReviewRecord is one past admin decision.
type ReviewRecord struct {
	ID         int64        `json:"id"`
	ReviewerID int64        `json:"reviewer_id"`
	Reviewer   *UserInfo    `json:"reviewer,omitempty"`
	TargetType ReviewTarget `json:"target_type"`
	TargetID   int64        `json:"target_id"`
	Action     ReviewAction `json:"action"`
	Comment    string       `json:"comment,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}

func (r ReviewRecord) EntityID() int64 { return r.ID }
