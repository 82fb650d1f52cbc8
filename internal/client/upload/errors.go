package upload

import "errors"

var (
	// ErrUnsupportedType means no MIME type could be resolved for the file.
	// Nothing was sent over the network.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrFileTooLarge means the file exceeds the configured policy. Nothing was
	// sent over the network.
	ErrFileTooLarge = errors.New("file too large")

	// ErrAuthorizationDenied means the backend refused to issue an upload
	// ticket, or could not be asked. The cause stays in the chain.
	ErrAuthorizationDenied = errors.New("upload authorization denied")

	// ErrTransferFailed means the PUT to storage failed. The ticket has been
	// discarded.
	ErrTransferFailed = errors.New("file transfer failed")
)
