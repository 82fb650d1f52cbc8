package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/study-upc/studyclient/internal/client/collection"
	"github.com/study-upc/studyclient/internal/client/models"
)

// Client is the backend API used by the services.
type Client interface {
	SetToken(token string)
	Token() string

	Login(ctx context.Context, username, password string) (models.LoginResponse, error)
	Logout(ctx context.Context, token string) error

	UploadConfig(ctx context.Context) (models.UploadConfig, error)
	AuthorizeUpload(ctx context.Context, req models.UploadAuthorizeRequest) (models.UploadTicket, error)
	CreateMaterial(ctx context.Context, req models.CreateMaterialRequest) (models.Material, error)
	ListMaterials(ctx context.Context, q collection.Query) (collection.Page[models.Material], error)
	AddFavorite(ctx context.Context, materialID int64) error
	RemoveFavorite(ctx context.Context, materialID int64) error

	ListNotifications(ctx context.Context, q collection.Query) (collection.Page[models.Notification], error)
	UnreadCount(ctx context.Context) (int64, error)
	MarkNotificationRead(ctx context.Context, id int64) error
	MarkAllNotificationsRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id int64) error

	PendingMaterials(ctx context.Context, q collection.Query) (collection.Page[models.Material], error)
	ReviewMaterial(ctx context.Context, id int64, req models.ReviewMaterialRequest) error
	ReviewHistory(ctx context.Context, q collection.Query) (collection.Page[models.ReviewRecord], error)

	ApplyCommittee(ctx context.Context, reason string) (models.CommitteeApplication, error)
	MyApplications(ctx context.Context, q collection.Query) (collection.Page[models.CommitteeApplication], error)
	CancelApplication(ctx context.Context, id int64) error
	AllApplications(ctx context.Context, q collection.Query) (collection.Page[models.CommitteeApplication], error)
	ReviewApplication(ctx context.Context, id int64, req models.ReviewApplicationRequest) (models.CommitteeApplication, error)
	PendingApplicationCount(ctx context.Context) (int64, error)

	Search(ctx context.Context, q collection.Query) (collection.Page[models.SearchResult], error)
}

var _ Client = (*HTTPClient)(nil)

func id(n int64) string {
	return strconv.FormatInt(n, 10)
}

// Login authenticates and keeps the returned access token for later calls.
func (c *HTTPClient) Login(ctx context.Context, username, password string) (models.LoginResponse, error) {
	var resp models.LoginResponse
	err := c.post(ctx, "/auth/login", models.LoginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return models.LoginResponse{}, err
	}
	c.SetToken(resp.AccessToken)
	return resp, nil
}

// Logout invalidates token on the backend. An empty token means the
// client's current one. Passing the token explicitly lets the call run after
// the client has already forgotten it.
func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	if token != "" {
		ctx = context.WithValue(ctx, tokenKey{}, token)
	}
	return c.post(ctx, "/auth/logout", nil, nil)
}

func (c *HTTPClient) UploadConfig(ctx context.Context) (models.UploadConfig, error) {
	var cfg models.UploadConfig
	err := c.get(ctx, "/system/upload-config", nil, &cfg)
	return cfg, err
}

func (c *HTTPClient) AuthorizeUpload(ctx context.Context, req models.UploadAuthorizeRequest) (models.UploadTicket, error) {
	var t models.UploadTicket
	err := c.post(ctx, "/materials/upload-authorize", req, &t)
	return t, err
}

func (c *HTTPClient) CreateMaterial(ctx context.Context, req models.CreateMaterialRequest) (models.Material, error) {
	var m models.Material
	err := c.post(ctx, "/materials", req, &m)
	return m, err
}

func (c *HTTPClient) ListMaterials(ctx context.Context, q collection.Query) (collection.Page[models.Material], error) {
	return getPage[models.Material](ctx, c, "/materials", q, q.Values())
}

func (c *HTTPClient) AddFavorite(ctx context.Context, materialID int64) error {
	return c.post(ctx, "/materials/"+id(materialID)+"/favorite", nil, nil)
}

func (c *HTTPClient) RemoveFavorite(ctx context.Context, materialID int64) error {
	return c.delete(ctx, "/materials/"+id(materialID)+"/favorite")
}

func (c *HTTPClient) ListNotifications(ctx context.Context, q collection.Query) (collection.Page[models.Notification], error) {
	return getPage[models.Notification](ctx, c, "/notifications", q, q.Values())
}

func (c *HTTPClient) UnreadCount(ctx context.Context) (int64, error) {
	return c.count(ctx, "/notifications/unread/count")
}

func (c *HTTPClient) MarkNotificationRead(ctx context.Context, nid int64) error {
	return c.post(ctx, "/notifications/"+id(nid)+"/read", nil, nil)
}

func (c *HTTPClient) MarkAllNotificationsRead(ctx context.Context) error {
	return c.post(ctx, "/notifications/read-all", nil, nil)
}

func (c *HTTPClient) DeleteNotification(ctx context.Context, nid int64) error {
	return c.delete(ctx, "/notifications/"+id(nid))
}

func (c *HTTPClient) PendingMaterials(ctx context.Context, q collection.Query) (collection.Page[models.Material], error) {
	return getPage[models.Material](ctx, c, "/admin/materials/pending", q, q.Values())
}

func (c *HTTPClient) ReviewMaterial(ctx context.Context, mid int64, req models.ReviewMaterialRequest) error {
	return c.post(ctx, "/admin/materials/"+id(mid)+"/review", req, nil)
}

func (c *HTTPClient) ReviewHistory(ctx context.Context, q collection.Query) (collection.Page[models.ReviewRecord], error) {
	return getPage[models.ReviewRecord](ctx, c, "/admin/review/history", q, q.Values())
}

func (c *HTTPClient) ApplyCommittee(ctx context.Context, reason string) (models.CommitteeApplication, error) {
	var a models.CommitteeApplication
	err := c.post(ctx, "/user/apply-committee", models.CreateApplicationRequest{Reason: reason}, &a)
	return a, err
}

func (c *HTTPClient) MyApplications(ctx context.Context, q collection.Query) (collection.Page[models.CommitteeApplication], error) {
	return getPage[models.CommitteeApplication](ctx, c, "/user/applications", q, q.Values())
}

func (c *HTTPClient) CancelApplication(ctx context.Context, aid int64) error {
	return c.post(ctx, "/user/applications/"+id(aid)+"/cancel", nil, nil)
}

func (c *HTTPClient) AllApplications(ctx context.Context, q collection.Query) (collection.Page[models.CommitteeApplication], error) {
	return getPage[models.CommitteeApplication](ctx, c, "/admin/applications", q, q.Values())
}

// ReviewApplication records the decision. The backend may answer with the
// updated application or with no data; in the latter case the zero value is
// returned and callers keep their local copy.
func (c *HTTPClient) ReviewApplication(ctx context.Context, aid int64, req models.ReviewApplicationRequest) (models.CommitteeApplication, error) {
	var a models.CommitteeApplication
	err := c.post(ctx, "/admin/applications/"+id(aid)+"/review", req, &a)
	return a, err
}

func (c *HTTPClient) PendingApplicationCount(ctx context.Context) (int64, error) {
	return c.count(ctx, "/admin/applications/pending/count")
}

// Search queries GET /search. The backend names the page size "page_size".
func (c *HTTPClient) Search(ctx context.Context, q collection.Query) (collection.Page[models.SearchResult], error) {
	params := q.Values()
	if size := params.Get("size"); size != "" {
		params.Del("size")
		params.Set("page_size", size)
	}
	return getPage[models.SearchResult](ctx, c, "/search", q, params)
}

// count reads a counter that is either a bare number or {"count": n}.
func (c *HTTPClient) count(ctx context.Context, path string) (int64, error) {
	var raw json.RawMessage
	if err := c.get(ctx, path, nil, &raw); err != nil {
		return 0, err
	}
	if len(raw) == 0 {
		return 0, nil
	}

	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var obj struct {
		Count int64 `json:"count"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return 0, fmt.Errorf("%w: count: %w", ErrMalformedResponse, err)
	}
	return obj.Count, nil
}
