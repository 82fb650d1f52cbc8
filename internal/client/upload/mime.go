package upload

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// mimeByExtension must stay identical to the backend's upload allow-list.
// A file the table cannot type is rejected locally.
var mimeByExtension = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".txt":  "text/plain",
	".md":   "text/markdown",
	".csv":  "text/csv",
	".zip":  "application/zip",
	".rar":  "application/x-rar-compressed",
	".7z":   "application/x-7z-compressed",
	".tar":  "application/x-tar",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
}

// Extension returns the lower-cased extension of name including the dot, or
// "" when there is none.
func Extension(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// MIMEForExtension looks ext up in the allow-list. The leading dot is
// optional and case is ignored.
func MIMEForExtension(ext string) (string, bool) {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	m, ok := mimeByExtension[ext]
	return m, ok
}

// ResolveMIME picks the content type for an upload. A declared type wins;
// otherwise it is derived from the file name's extension.
func ResolveMIME(name, declared string) (string, error) {
	if declared = strings.TrimSpace(declared); declared != "" {
		return declared, nil
	}
	if m, ok := MIMEForExtension(Extension(name)); ok {
		return m, nil
	}

	ext := Extension(name)
	if ext == "" {
		ext = "(none)"
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
}

// AllowedExtensions lists the known extensions, sorted, with leading dots.
func AllowedExtensions() []string {
	out := make([]string, 0, len(mimeByExtension))
	for ext := range mimeByExtension {
		out = append(out, ext)
	}
	slices.Sort(out)
	return out
}

// MIMETypes maps bare extensions such as "pdf" to their MIME types, skipping
// the ones the table does not know.
func MIMETypes(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		if m, ok := MIMEForExtension(e); ok && !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	return out
}
