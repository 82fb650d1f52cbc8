package upload

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/study-upc/studyclient/internal/client/models"
	"github.com/study-upc/studyclient/internal/client/notify"
)

type fakeAuthorizer struct {
	mu    sync.Mutex
	calls []models.UploadAuthorizeRequest
	err   func(req models.UploadAuthorizeRequest) error
}

func (f *fakeAuthorizer) AuthorizeUpload(_ context.Context, req models.UploadAuthorizeRequest) (models.UploadTicket, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	if f.err != nil {
		if err := f.err(req); err != nil {
			return models.UploadTicket{}, err
		}
	}
	return models.UploadTicket{UploadURL: "https://storage.test/put/" + req.FileName, FileKey: "materials/" + req.FileName}, nil
}

type fakeTransferer struct {
	mu      sync.Mutex
	urls    []string
	types   []string
	bodies  []string
	chunk   int
	failFor string
}

func (f *fakeTransferer) Transfer(_ context.Context, url, contentType string, body io.Reader, size int64, onSent func(int64)) error {
	f.mu.Lock()
	f.urls = append(f.urls, url)
	f.types = append(f.types, contentType)
	f.mu.Unlock()

	chunk := f.chunk
	if chunk <= 0 {
		chunk = 1
	}
	var sb strings.Builder
	buf := make([]byte, chunk)
	var sent int64
	for {
		n, err := body.Read(buf)
		if n > 0 {
			sb.Write(buf[:n])
			sent += int64(n)
			onSent(sent)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}

	f.mu.Lock()
	f.bodies = append(f.bodies, sb.String())
	f.mu.Unlock()

	if f.failFor != "" && strings.HasSuffix(url, f.failFor) {
		return errors.New("connection reset")
	}
	return nil
}

func TestResolveMIME(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		declared string
		want     string
		wantErr  bool
	}{
		{name: "declared wins", file: "notes.rar", declared: "application/vnd.rar", want: "application/vnd.rar"},
		{name: "rar from extension", file: "notes.rar", want: "application/x-rar-compressed"},
		{name: "upper case extension", file: "SLIDES.PPTX", want: "application/vnd.openxmlformats-officedocument.presentationml.presentation"},
		{name: "markdown", file: "readme.md", want: "text/markdown"},
		{name: "unknown extension", file: "data.xyz", wantErr: true},
		{name: "no extension", file: "notes", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveMIME(tt.file, tt.declared)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllowedExtensions(t *testing.T) {
	exts := AllowedExtensions()
	assert.Len(t, exts, 20)
	assert.Contains(t, exts, ".rar")
	assert.IsIncreasing(t, exts)

	assert.Equal(t, []string{"application/pdf", "application/zip"}, MIMETypes([]string{"pdf", ".ZIP", "exe", "pdf"}))
}

// A .rar file without a declared type is authorized as
// application/x-rar-compressed.
func TestUpload_InfersMIMEFromExtension(t *testing.T) {
	auth := &fakeAuthorizer{}
	tr := &fakeTransferer{}
	p := NewPipeline(auth, tr)

	key, err := p.Upload(context.Background(), MemFile{FileName: "notes.rar", Data: []byte("RAR!")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "materials/notes.rar", key)

	require.Len(t, auth.calls, 1)
	assert.Equal(t, models.UploadAuthorizeRequest{FileName: "notes.rar", FileSize: 4, MimeType: "application/x-rar-compressed"}, auth.calls[0])
	assert.Equal(t, []string{"application/x-rar-compressed"}, tr.types)
	assert.Equal(t, []string{"RAR!"}, tr.bodies)
}

// An unknown extension fails before any network call.
func TestUpload_UnsupportedTypeMakesNoCalls(t *testing.T) {
	auth := &fakeAuthorizer{}
	tr := &fakeTransferer{}
	q := notify.NewQueue(4)
	p := NewPipeline(auth, tr, WithNotifier(q))

	_, err := p.Upload(context.Background(), MemFile{FileName: "dump.xyz", Data: []byte("x")}, nil)
	require.ErrorIs(t, err, ErrUnsupportedType)
	assert.Empty(t, auth.calls)
	assert.Empty(t, tr.urls)

	msgs := q.Drain()
	require.Len(t, msgs, 1)
	assert.Equal(t, notify.LevelError, msgs[0].Level)
}

func TestUpload_AuthorizationDeniedSkipsTransfer(t *testing.T) {
	quota := errors.New("quota exceeded")
	auth := &fakeAuthorizer{err: func(models.UploadAuthorizeRequest) error { return quota }}
	tr := &fakeTransferer{}
	p := NewPipeline(auth, tr)

	_, err := p.Upload(context.Background(), MemFile{FileName: "a.pdf", Data: []byte("x")}, nil)
	require.ErrorIs(t, err, ErrAuthorizationDenied)
	require.ErrorIs(t, err, quota, "the backend reason stays in the chain")
	assert.Empty(t, tr.urls)
	assert.False(t, p.Uploading())
}

func TestUpload_IncompleteTicketIsDenied(t *testing.T) {
	p := NewPipeline(incompleteAuthorizer{}, &fakeTransferer{})
	_, err := p.Upload(context.Background(), MemFile{FileName: "a.pdf", Data: []byte("x")}, nil)
	require.ErrorIs(t, err, ErrAuthorizationDenied)
}

type incompleteAuthorizer struct{}

func (incompleteAuthorizer) AuthorizeUpload(context.Context, models.UploadAuthorizeRequest) (models.UploadTicket, error) {
	return models.UploadTicket{FileKey: "k"}, nil
}

func TestUpload_PolicyChecksRunLocally(t *testing.T) {
	auth := &fakeAuthorizer{}
	p := NewPipeline(auth, &fakeTransferer{}, WithPolicy(Policy{MaxSize: 3, AllowedTypes: []string{"pdf"}}))

	_, err := p.Upload(context.Background(), MemFile{FileName: "big.pdf", Data: []byte("1234")}, nil)
	require.ErrorIs(t, err, ErrFileTooLarge)

	_, err = p.Upload(context.Background(), MemFile{FileName: "small.zip", Data: []byte("1")}, nil)
	require.ErrorIs(t, err, ErrUnsupportedType)
	assert.Empty(t, auth.calls)

	p.SetPolicy(Policy{})
	_, err = p.Upload(context.Background(), MemFile{FileName: "small.zip", Data: []byte("1")}, nil)
	require.NoError(t, err)
}

func TestUpload_ProgressOnlyOnChange(t *testing.T) {
	tr := &fakeTransferer{chunk: 1}
	p := NewPipeline(&fakeAuthorizer{}, tr)

	// 200 bytes in 1-byte reads: each percentage is reached twice.
	var seen []int
	_, err := p.Upload(context.Background(), MemFile{FileName: "a.txt", Data: make([]byte, 200)}, func(pct int) {
		assert.True(t, p.Uploading())
		seen = append(seen, pct)
	})
	require.NoError(t, err)

	require.Len(t, seen, 100)
	assert.Equal(t, 1, seen[0])
	assert.Equal(t, 100, seen[len(seen)-1])
	assert.IsIncreasing(t, seen)
	assert.False(t, p.Uploading())
	assert.Equal(t, 0, p.Progress())
}

func TestUpload_EmptyFileReportsCompletion(t *testing.T) {
	var seen []int
	_, err := NewPipeline(&fakeAuthorizer{}, &fakeTransferer{}).
		Upload(context.Background(), MemFile{FileName: "empty.txt"}, func(pct int) { seen = append(seen, pct) })
	require.NoError(t, err)
	assert.Equal(t, []int{100}, seen)
}

// A failure in the middle of a batch does not stop later files.
func TestUploadBatch_ContinuesAfterFailure(t *testing.T) {
	auth := &fakeAuthorizer{}
	tr := &fakeTransferer{failFor: "b.pdf"}
	p := NewPipeline(auth, tr)

	files := []File{
		MemFile{FileName: "a.pdf", Data: []byte("a")},
		MemFile{FileName: "b.pdf", Data: []byte("b")},
		MemFile{FileName: "c.xyz", Data: []byte("c")},
		MemFile{FileName: "d.pdf", Data: []byte("d")},
	}

	var progressIdx []int
	results := p.UploadBatch(context.Background(), files, func(i, pct int) {
		if pct == 100 {
			progressIdx = append(progressIdx, i)
		}
	})

	require.Len(t, results, 4)
	assert.True(t, results[0].OK())
	assert.Equal(t, "materials/a.pdf", results[0].Key)
	assert.ErrorIs(t, results[1].Err, ErrTransferFailed)
	assert.ErrorIs(t, results[2].Err, ErrUnsupportedType)
	assert.True(t, results[3].OK())
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, files[i].Name(), r.Name)
	}

	assert.Len(t, auth.calls, 3)
	assert.Equal(t, []int{0, 1, 3}, progressIdx)
}

func TestUploadBatch_CancelledContextSkipsRemaining(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	auth := &fakeAuthorizer{err: func(req models.UploadAuthorizeRequest) error {
		cancel()
		return nil
	}}
	p := NewPipeline(auth, &fakeTransferer{})

	results := p.UploadBatch(ctx, []File{
		MemFile{FileName: "a.pdf", Data: []byte("a")},
		MemFile{FileName: "b.pdf", Data: []byte("b")},
		MemFile{FileName: "c.pdf", Data: []byte("c")},
	}, nil)

	require.Len(t, results, 3)
	assert.True(t, results[0].OK())
	assert.ErrorIs(t, results[1].Err, context.Canceled)
	assert.ErrorIs(t, results[2].Err, context.Canceled)
	assert.Len(t, auth.calls, 1)
}

func TestUpload_HTTPTransfererEndToEnd(t *testing.T) {
	var gotCT, gotBody string
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCT = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		if strings.Contains(r.URL.Path, "denied") {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer storage.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "lecture.PDF")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.7"), 0o600))
	f, err := OpenFile(path)
	require.NoError(t, err)
	assert.Equal(t, "lecture.PDF", f.Name())
	assert.EqualValues(t, 8, f.Size())

	p := NewPipeline(urlAuthorizer{base: storage.URL}, HTTPTransferer{Client: storage.Client()})

	key, err := p.Upload(context.Background(), f, nil)
	require.NoError(t, err)
	assert.Equal(t, "k/lecture.PDF", key)
	assert.Equal(t, "application/pdf", gotCT)
	assert.Equal(t, "%PDF-1.7", gotBody)

	_, err = p.Upload(context.Background(), MemFile{FileName: "denied.txt", Data: []byte("x")}, nil)
	require.ErrorIs(t, err, ErrTransferFailed)
}

type urlAuthorizer struct{ base string }

func (a urlAuthorizer) AuthorizeUpload(_ context.Context, req models.UploadAuthorizeRequest) (models.UploadTicket, error) {
	return models.UploadTicket{UploadURL: a.base + "/" + req.FileName, FileKey: "k/" + req.FileName}, nil
}

func TestOpenFile_Errors(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)

	_, err = OpenFile(t.TempDir())
	require.Error(t, err)
}
