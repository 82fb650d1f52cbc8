// Package upload moves local files to object storage in two phases: the
// backend authorizes the upload and issues a presigned URL, then the bytes
// go straight to storage. The returned storage key is what the caller commits
// to the backend afterwards.
package upload

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/study-upc/studyclient/internal/client/models"
	"github.com/study-upc/studyclient/internal/client/notify"
	"github.com/study-upc/studyclient/internal/logging"
	"github.com/study-upc/studyclient/internal/netx"
)

// Policy is an optional local pre-check mirroring the server's upload config.
// Zero values disable the corresponding check.
type Policy struct {
	MaxSize int64
	// AllowedTypes holds bare extensions such as "pdf".
	AllowedTypes []string
}

func (p Policy) check(f File) error {
	if p.MaxSize > 0 && f.Size() > p.MaxSize {
		return fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrFileTooLarge, f.Name(), f.Size(), p.MaxSize)
	}
	if len(p.AllowedTypes) > 0 {
		ext := strings.TrimPrefix(Extension(f.Name()), ".")
		if !slices.ContainsFunc(p.AllowedTypes, func(t string) bool { return strings.EqualFold(strings.TrimPrefix(t, "."), ext) }) {
			return fmt.Errorf("%w: .%s is not accepted", ErrUnsupportedType, ext)
		}
	}
	return nil
}

// ProgressFunc receives an integer percentage in 0..100. It is called only
// when the value changes.
type ProgressFunc func(percent int)

// Result is the outcome of one file in a batch.
type Result struct {
	Index int
	Name  string
	Key   string
	Err   error
}

func (r Result) OK() bool { return r.Err == nil }

type Option func(*Pipeline)

func WithNotifier(n notify.Notifier) Option {
	return func(p *Pipeline) { p.notifier = n }
}

func WithLogger(l logging.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

func WithPolicy(policy Policy) Option {
	return func(p *Pipeline) { p.policy = policy }
}

// Pipeline runs uploads. Upload may be called from several goroutines, but
// the Uploading/Progress view only tracks the latest transfer.
type Pipeline struct {
	auth     Authorizer
	transfer Transferer
	notifier notify.Notifier
	logger   logging.Logger

	mu        sync.Mutex
	policy    Policy
	uploading bool
	progress  int
}

func NewPipeline(auth Authorizer, transfer Transferer, opts ...Option) *Pipeline {
	p := &Pipeline{
		auth:     auth,
		transfer: transfer,
		notifier: notify.Discard{},
		logger:   logging.Nop{},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// SetPolicy replaces the local pre-check, e.g. after the upload config was
// refreshed.
func (p *Pipeline) SetPolicy(policy Policy) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.policy = policy
}

func (p *Pipeline) Uploading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.uploading
}

// Progress is the percentage of the running transfer, 0 when idle.
func (p *Pipeline) Progress() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.progress
}

// Upload authorizes and transfers f and returns its storage key.
//
// Errors wrap ErrUnsupportedType or ErrFileTooLarge (no network call was
// made), ErrAuthorizationDenied (no transfer was started) or
// ErrTransferFailed. Every failure is also published to the notifier.
func (p *Pipeline) Upload(ctx context.Context, f File, onProgress ProgressFunc) (string, error) {
	key, err := p.upload(ctx, f, onProgress)
	if err != nil {
		p.notifier.Error(err.Error())
		return "", err
	}
	return key, nil
}

func (p *Pipeline) upload(ctx context.Context, f File, onProgress ProgressFunc) (string, error) {
	mime, err := ResolveMIME(f.Name(), f.ContentType())
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	policy := p.policy
	p.mu.Unlock()
	if err := policy.check(f); err != nil {
		return "", err
	}

	log := p.logger.With("upload_id", uuid.NewString(), "file", f.Name())

	body, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", f.Name(), err)
	}
	defer body.Close()

	ticket, err := p.auth.AuthorizeUpload(ctx, models.UploadAuthorizeRequest{
		FileName: f.Name(),
		FileSize: f.Size(),
		MimeType: mime,
	})
	if err != nil {
		log.Warn(ctx, "upload not authorized", "error", err)
		return "", fmt.Errorf("%w: %w", ErrAuthorizationDenied, err)
	}
	if ticket.UploadURL == "" || ticket.FileKey == "" {
		return "", fmt.Errorf("%w: backend returned an incomplete ticket", ErrAuthorizationDenied)
	}
	log.Debug(ctx, "upload authorized", "key", ticket.FileKey, "mime", mime)

	p.begin()
	defer p.end()

	size := f.Size()
	last := 0
	emit := func(pct int) {
		if pct == last {
			return
		}
		last = pct
		p.setProgress(pct)
		if onProgress != nil {
			onProgress(pct)
		}
	}

	err = p.transfer.Transfer(ctx, ticket.UploadURL, mime, body, size, func(sent int64) {
		emit(netx.Percent(sent, size))
	})
	if err != nil {
		log.Warn(ctx, "transfer failed", "error", err)
		return "", fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	emit(100)

	log.Info(ctx, "upload finished", "key", ticket.FileKey, "bytes", size)
	return ticket.FileKey, nil
}

func (p *Pipeline) begin() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.uploading = true
	p.progress = 0
}

func (p *Pipeline) end() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.uploading = false
	p.progress = 0
}

func (p *Pipeline) setProgress(pct int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.progress = pct
}

// UploadBatch uploads files one after another. A failed file does not stop
// the batch. The result has one entry per file, in order. Once ctx is done
// the remaining files are marked with ctx's error without being attempted.
func (p *Pipeline) UploadBatch(ctx context.Context, files []File, onProgress func(index, percent int)) []Result {
	results := make([]Result, len(files))

	for i, f := range files {
		results[i] = Result{Index: i, Name: f.Name()}
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}

		var progress ProgressFunc
		if onProgress != nil {
			progress = func(pct int) { onProgress(i, pct) }
		}
		results[i].Key, results[i].Err = p.Upload(ctx, f, progress)
	}

	return results
}
