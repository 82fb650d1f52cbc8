package upload

import (
	"context"
	"io"
	"net/http"

	"github.com/study-upc/studyclient/internal/client/models"
	"github.com/study-upc/studyclient/internal/netx"
)

// Authorizer asks the backend for an upload ticket.
type Authorizer interface {
	AuthorizeUpload(ctx context.Context, req models.UploadAuthorizeRequest) (models.UploadTicket, error)
}

// Transferer writes the file body to the ticket's URL. onSent receives the
// running byte count.
type Transferer interface {
	Transfer(ctx context.Context, url, contentType string, body io.Reader, size int64, onSent func(sent int64)) error
}

// HTTPTransferer PUTs directly to object storage. It carries no auth header;
// the presigned URL is the credential.
type HTTPTransferer struct {
	Client *http.Client
}

func (t HTTPTransferer) Transfer(ctx context.Context, url, contentType string, body io.Reader, size int64, onSent func(int64)) error {
	return netx.PutPresigned(ctx, t.Client, url, contentType, netx.NewProgressReader(body, onSent), size)
}
