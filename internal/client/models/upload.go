package models

// UploadAuthorizeRequest is phase one of an upload.
type UploadAuthorizeRequest struct {
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
	MimeType string `json:"mime_type"`
}

// UploadTicket authorizes exactly one PUT of the file to UploadURL. FileKey is
// the storage key to hand back when committing the material.
type UploadTicket struct {
	UploadURL string `json:"upload_url"`
	FileKey   string `json:"file_key"`
}

// UploadConfig is the server-side upload policy.
type UploadConfig struct {
	MaxSize      int64    `json:"max_size"`
	AllowedTypes []string `json:"allowed_types"`
	MaxSizeMB    int64    `json:"max_size_mb"`
	Accept       string   `json:"accept"`
}
