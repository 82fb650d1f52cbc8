// Package services is the composition layer of the client. Each service owns
// the collection stores of one feature, runs its optimistic mutations and
// talks to the backend through a narrow slice of client.Client.
package services

import (
	"context"

	"github.com/study-upc/studyclient/internal/client/collection"
	"github.com/study-upc/studyclient/internal/client/models"
)

type SessionAPI interface {
	Login(ctx context.Context, username, password string) (models.LoginResponse, error)
	Logout(ctx context.Context, token string) error
	SetToken(token string)
	Token() string
}

type MaterialAPI interface {
	ListMaterials(ctx context.Context, q collection.Query) (collection.Page[models.Material], error)
	CreateMaterial(ctx context.Context, req models.CreateMaterialRequest) (models.Material, error)
	AddFavorite(ctx context.Context, materialID int64) error
	RemoveFavorite(ctx context.Context, materialID int64) error
}

type NotificationAPI interface {
	ListNotifications(ctx context.Context, q collection.Query) (collection.Page[models.Notification], error)
	UnreadCount(ctx context.Context) (int64, error)
	MarkNotificationRead(ctx context.Context, id int64) error
	MarkAllNotificationsRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id int64) error
}

type ReviewAPI interface {
	PendingMaterials(ctx context.Context, q collection.Query) (collection.Page[models.Material], error)
	ReviewMaterial(ctx context.Context, id int64, req models.ReviewMaterialRequest) error
	ReviewHistory(ctx context.Context, q collection.Query) (collection.Page[models.ReviewRecord], error)
}

type CommitteeAPI interface {
	ApplyCommittee(ctx context.Context, reason string) (models.CommitteeApplication, error)
	MyApplications(ctx context.Context, q collection.Query) (collection.Page[models.CommitteeApplication], error)
	CancelApplication(ctx context.Context, id int64) error
	AllApplications(ctx context.Context, q collection.Query) (collection.Page[models.CommitteeApplication], error)
	ReviewApplication(ctx context.Context, id int64, req models.ReviewApplicationRequest) (models.CommitteeApplication, error)
	PendingApplicationCount(ctx context.Context) (int64, error)
}

type SearchAPI interface {
	Search(ctx context.Context, q collection.Query) (collection.Page[models.SearchResult], error)
}

type UploadConfigAPI interface {
	UploadConfig(ctx context.Context) (models.UploadConfig, error)
}

// Resetter is implemented by every service that holds per-user state.
type Resetter interface {
	Reset()
}
