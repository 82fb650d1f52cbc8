package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/study-upc/studyclient/internal/client/collection"
	"github.com/study-upc/studyclient/internal/client/migrations"
	"github.com/study-upc/studyclient/internal/client/models"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sql.Open("sqlite", "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(context.Background(), db))
	return db
}

// fakeAPI implements every narrow API interface of this package. Errors are
// configured per method name; calls are recorded in order.
type fakeAPI struct {
	mu    sync.Mutex
	errs  map[string]error
	calls []string
	token string

	loginResp models.LoginResponse
	logouts   []string

	materials collection.Page[models.Material]
	created   []models.CreateMaterialRequest

	notifications collection.Page[models.Notification]
	unread        int64

	pending  collection.Page[models.Material]
	reviewed []models.ReviewMaterialRequest
	history  collection.Page[models.ReviewRecord]
	historyQ []collection.Query

	applied     models.CommitteeApplication
	myApps      collection.Page[models.CommitteeApplication]
	allApps     collection.Page[models.CommitteeApplication]
	reviewedApp models.CommitteeApplication
	pendingApps int64

	results  collection.Page[models.SearchResult]
	searched []collection.Query

	uploadConfig models.UploadConfig
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{errs: map[string]error{}}
}

func (f *fakeAPI) fail(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[method] = err
}

func (f *fakeAPI) record(method string, args ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := method
	for _, a := range args {
		call += fmt.Sprintf(" %v", a)
	}
	f.calls = append(f.calls, call)
	return f.errs[method]
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) Login(ctx context.Context, username, password string) (models.LoginResponse, error) {
	if err := f.record("Login", username); err != nil {
		return models.LoginResponse{}, err
	}
	return f.loginResp, nil
}

func (f *fakeAPI) Logout(ctx context.Context, token string) error {
	err := f.record("Logout")
	f.mu.Lock()
	f.logouts = append(f.logouts, token)
	f.mu.Unlock()
	return err
}

func (f *fakeAPI) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}

func (f *fakeAPI) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeAPI) ListMaterials(ctx context.Context, q collection.Query) (collection.Page[models.Material], error) {
	if err := f.record("ListMaterials", q.Page); err != nil {
		return collection.Page[models.Material]{}, err
	}
	return f.materials, nil
}

func (f *fakeAPI) CreateMaterial(ctx context.Context, req models.CreateMaterialRequest) (models.Material, error) {
	if err := f.record("CreateMaterial", req.FileKey); err != nil {
		return models.Material{}, err
	}
	f.mu.Lock()
	f.created = append(f.created, req)
	f.mu.Unlock()
	return models.Material{ID: 99, Title: req.Title, FileKey: req.FileKey, Status: models.MaterialPending}, nil
}

func (f *fakeAPI) AddFavorite(ctx context.Context, materialID int64) error {
	return f.record("AddFavorite", materialID)
}

func (f *fakeAPI) RemoveFavorite(ctx context.Context, materialID int64) error {
	return f.record("RemoveFavorite", materialID)
}

func (f *fakeAPI) ListNotifications(ctx context.Context, q collection.Query) (collection.Page[models.Notification], error) {
	if err := f.record("ListNotifications", q.Filters["status"]); err != nil {
		return collection.Page[models.Notification]{}, err
	}
	return f.notifications, nil
}

func (f *fakeAPI) UnreadCount(ctx context.Context) (int64, error) {
	if err := f.record("UnreadCount"); err != nil {
		return 0, err
	}
	return f.unread, nil
}

func (f *fakeAPI) MarkNotificationRead(ctx context.Context, id int64) error {
	return f.record("MarkNotificationRead", id)
}

func (f *fakeAPI) MarkAllNotificationsRead(ctx context.Context) error {
	return f.record("MarkAllNotificationsRead")
}

func (f *fakeAPI) DeleteNotification(ctx context.Context, id int64) error {
	return f.record("DeleteNotification", id)
}

func (f *fakeAPI) PendingMaterials(ctx context.Context, q collection.Query) (collection.Page[models.Material], error) {
	if err := f.record("PendingMaterials"); err != nil {
		return collection.Page[models.Material]{}, err
	}
	return f.pending, nil
}

func (f *fakeAPI) ReviewHistory(ctx context.Context, q collection.Query) (collection.Page[models.ReviewRecord], error) {
	if err := f.record("ReviewHistory"); err != nil {
		return collection.Page[models.ReviewRecord]{}, err
	}
	f.mu.Lock()
	f.historyQ = append(f.historyQ, q)
	f.mu.Unlock()
	return f.history, nil
}

func (f *fakeAPI) ReviewMaterial(ctx context.Context, id int64, req models.ReviewMaterialRequest) error {
	if err := f.record("ReviewMaterial", id, req.Status); err != nil {
		return err
	}
	f.mu.Lock()
	f.reviewed = append(f.reviewed, req)
	f.mu.Unlock()
	return nil
}

func (f *fakeAPI) ApplyCommittee(ctx context.Context, reason string) (models.CommitteeApplication, error) {
	if err := f.record("ApplyCommittee", reason); err != nil {
		return models.CommitteeApplication{}, err
	}
	return f.applied, nil
}

func (f *fakeAPI) MyApplications(ctx context.Context, q collection.Query) (collection.Page[models.CommitteeApplication], error) {
	if err := f.record("MyApplications"); err != nil {
		return collection.Page[models.CommitteeApplication]{}, err
	}
	return f.myApps, nil
}

func (f *fakeAPI) CancelApplication(ctx context.Context, id int64) error {
	return f.record("CancelApplication", id)
}

func (f *fakeAPI) AllApplications(ctx context.Context, q collection.Query) (collection.Page[models.CommitteeApplication], error) {
	if err := f.record("AllApplications", q.Filters["status"]); err != nil {
		return collection.Page[models.CommitteeApplication]{}, err
	}
	return f.allApps, nil
}

func (f *fakeAPI) ReviewApplication(ctx context.Context, id int64, req models.ReviewApplicationRequest) (models.CommitteeApplication, error) {
	if err := f.record("ReviewApplication", id, req.Approved); err != nil {
		return models.CommitteeApplication{}, err
	}
	return f.reviewedApp, nil
}

func (f *fakeAPI) PendingApplicationCount(ctx context.Context) (int64, error) {
	if err := f.record("PendingApplicationCount"); err != nil {
		return 0, err
	}
	return f.pendingApps, nil
}

func (f *fakeAPI) Search(ctx context.Context, q collection.Query) (collection.Page[models.SearchResult], error) {
	if err := f.record("Search", q.Filters["keyword"]); err != nil {
		return collection.Page[models.SearchResult]{}, err
	}
	f.mu.Lock()
	f.searched = append(f.searched, q)
	f.mu.Unlock()
	return f.results, nil
}

func (f *fakeAPI) UploadConfig(ctx context.Context) (models.UploadConfig, error) {
	if err := f.record("UploadConfig"); err != nil {
		return models.UploadConfig{}, err
	}
	return f.uploadConfig, nil
}

var (
	_ SessionAPI      = (*fakeAPI)(nil)
	_ MaterialAPI     = (*fakeAPI)(nil)
	_ NotificationAPI = (*fakeAPI)(nil)
	_ ReviewAPI       = (*fakeAPI)(nil)
	_ CommitteeAPI    = (*fakeAPI)(nil)
	_ SearchAPI       = (*fakeAPI)(nil)
	_ UploadConfigAPI = (*fakeAPI)(nil)
)
