package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/study-upc/studyclient/internal/client/collection"
	"github.com/study-upc/studyclient/internal/client/models"
)

type recorded struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   string
}

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*HTTPClient, *[]recorded) {
	t.Helper()
	var reqs []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		reqs = append(reqs, recorded{r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("Authorization"), string(b)})
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := NewHTTPClient(srv.URL+"/api/v1/", WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c, &reqs
}

func writeEnvelope(w http.ResponseWriter, code int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"code": code, "message": message, "data": data})
}

func TestNewHTTPClient_RejectsBadURL(t *testing.T) {
	_, err := NewHTTPClient("ftp://example.com")
	require.Error(t, err)
	_, err = NewHTTPClient("://")
	require.Error(t, err)
}

func TestLogin_StoresTokenAndSendsBearer(t *testing.T) {
	c, reqs := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/auth/login" {
			writeEnvelope(w, 0, "success", models.LoginResponse{AccessToken: "tok", User: models.UserInfo{ID: 3, Username: "alice"}})
			return
		}
		writeEnvelope(w, 0, "success", nil)
	})

	resp, err := c.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, "tok", c.Token())

	require.NoError(t, c.MarkNotificationRead(context.Background(), 12))

	require.Len(t, *reqs, 2)
	assert.Empty(t, (*reqs)[0].Auth)
	assert.JSONEq(t, `{"username":"alice","password":"secret"}`, (*reqs)[0].Body)
	assert.Equal(t, "POST", (*reqs)[1].Method)
	assert.Equal(t, "/api/v1/notifications/12/read", (*reqs)[1].Path)
	assert.Equal(t, "Bearer tok", (*reqs)[1].Auth)
}

func TestDecode_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantIs  error
		wantAPI int
	}{
		{name: "domain error", status: 200, body: `{"code":10003,"message":"not pending"}`, wantAPI: 10003},
		{name: "auth code in envelope", status: 200, body: `{"code":10104,"message":"token expired"}`, wantIs: ErrUnauthorized, wantAPI: 10104},
		{name: "401", status: 401, body: `{"code":10002,"message":"login required"}`, wantIs: ErrUnauthorized},
		{name: "403 without body", status: 403, body: ``, wantIs: ErrUnauthorized},
		{name: "5xx", status: 502, body: `bad gateway`, wantIs: ErrUnavailable},
		{name: "garbage 200", status: 200, body: `<html>`, wantIs: ErrMalformedResponse},
		{name: "garbage 404", status: 404, body: `not found`, wantAPI: 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := decode(tt.status, []byte(tt.body), nil)
			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			if tt.wantAPI != 0 {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.wantAPI, apiErr.Code)
			}
		})
	}
}

func TestDecode_SuccessWithNullData(t *testing.T) {
	var out models.Material
	require.NoError(t, decode(200, []byte(`{"code":0,"message":"success","data":null}`), &out))
	assert.Zero(t, out.ID)
}

func TestNetworkErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c, err := NewHTTPClient(srv.URL)
	require.NoError(t, err)
	_, err = c.UploadConfig(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	assert.True(t, IsUnavailable(err))
}

func TestListNotifications_PageAndQuery(t *testing.T) {
	c, reqs := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 0, "success", map[string]any{
			"list":  []models.Notification{{ID: 1, Status: models.NotificationUnread}, {ID: 2}},
			"total": 9, "page": 2, "size": 2,
		})
	})

	q := collection.NewQuery(2).WithFilter("status", "unread").WithPage(2)
	page, err := c.ListNotifications(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.EqualValues(t, 9, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.Size)

	assert.Equal(t, "/api/v1/notifications", (*reqs)[0].Path)
	assert.Contains(t, (*reqs)[0].Query, "status=unread")
	assert.Contains(t, (*reqs)[0].Query, "page=2")
}

func TestPendingMaterials_AcceptsAlternativeShape(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 0, "success", map[string]any{
			"materials": []models.Material{{ID: 5, Title: "Linear algebra"}},
			"total":     1, "page": 1, "page_size": 10,
		})
	})

	page, err := c.PendingMaterials(context.Background(), collection.NewQuery(20))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Linear algebra", page.Items[0].Title)
	assert.Equal(t, 10, page.Size)
}

func TestReviewHistory_SendsFilters(t *testing.T) {
	c, reqs := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 0, "success", map[string]any{
			"list":  []models.ReviewRecord{{ID: 4, TargetType: models.TargetMaterial, TargetID: 12, Action: models.ReviewReject}},
			"total": 1, "page": 1, "size": 10,
		})
	})

	page, err := c.ReviewHistory(context.Background(), collection.NewQuery(10).WithFilter("action", "reject"))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, models.ReviewReject, page.Items[0].Action)
	assert.EqualValues(t, 12, page.Items[0].TargetID)

	assert.Equal(t, "/api/v1/admin/review/history", (*reqs)[0].Path)
	assert.Contains(t, (*reqs)[0].Query, "action=reject")
}

func TestSearch_UsesPageSizeParam(t *testing.T) {
	c, reqs := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 0, "success", map[string]any{
			"results": []models.SearchResult{{ID: 1}, {ID: 2}},
			"total":   2, "page": 1, "page_size": 5, "total_pages": 1,
		})
	})

	page, err := c.Search(context.Background(), collection.NewQuery(5).WithFilter("keyword", "graph"))
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	q := (*reqs)[0].Query
	assert.Contains(t, q, "page_size=5")
	assert.NotContains(t, q, "&size=")
	assert.Contains(t, q, "keyword=graph")
}

func TestEmptyPageHasNonNilItems(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 0, "success", map[string]any{"list": nil, "total": 0})
	})

	page, err := c.MyApplications(context.Background(), collection.NewQuery(10))
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Size)
}

func TestCounts_NumberOrObject(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/notifications/unread/count" {
			writeEnvelope(w, 0, "success", 4)
			return
		}
		writeEnvelope(w, 0, "success", map[string]int{"count": 7})
	})

	n, err := c.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)

	n, err = c.PendingApplicationCount(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 7, n)
}

func TestUploadEndpoints(t *testing.T) {
	c, reqs := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/materials/upload-authorize":
			writeEnvelope(w, 0, "success", models.UploadTicket{UploadURL: "https://s3/put", FileKey: "materials/k.pdf"})
		case "/api/v1/materials":
			writeEnvelope(w, 0, "success", models.Material{ID: 40, Title: "Notes", Status: models.MaterialPending})
		default:
			writeEnvelope(w, 10001, "bad request", nil)
		}
	})
	ctx := context.Background()

	ticket, err := c.AuthorizeUpload(ctx, models.UploadAuthorizeRequest{FileName: "k.pdf", FileSize: 3, MimeType: "application/pdf"})
	require.NoError(t, err)
	assert.Equal(t, "materials/k.pdf", ticket.FileKey)
	assert.JSONEq(t, `{"file_name":"k.pdf","file_size":3,"mime_type":"application/pdf"}`, (*reqs)[0].Body)

	m, err := c.CreateMaterial(ctx, models.CreateMaterialRequest{Title: "Notes", FileKey: ticket.FileKey})
	require.NoError(t, err)
	assert.EqualValues(t, 40, m.ID)

	err = c.RemoveFavorite(ctx, 40)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "bad request", Message(err))
	assert.Equal(t, http.MethodDelete, (*reqs)[2].Method)
	assert.Equal(t, "/api/v1/materials/40/favorite", (*reqs)[2].Path)
}

func TestMessage_FallsBackToErrorText(t *testing.T) {
	assert.Equal(t, "boom", Message(errors.New("boom")))
}

func TestLogout_UsesExplicitToken(t *testing.T) {
	c, reqs := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 0, "success", nil)
	})
	c.SetToken("")

	require.NoError(t, c.Logout(context.Background(), "old-token"))
	assert.Equal(t, "Bearer old-token", (*reqs)[0].Auth)
	assert.Equal(t, "/api/v1/auth/logout", (*reqs)[0].Path)
}
