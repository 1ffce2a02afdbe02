package storage

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"
)

// DocumentKey builds {userId}/{startupId}/{docType}_{timestamp}.{ext}. The extension comes
// from the original filename, or from the content type when the name has none.
func DocumentKey(userID, startupID, docType, filename, contentType string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" || len(ext) > 10 {
		ext = ""
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}
	if ext == "" {
		ext = ".bin"
	}
	return fmt.Sprintf("%s/%s/%s_%d%s", userID, startupID, docType, now.UnixMilli(), ext)
}

// KeyOwner returns the user id segment of a document key.
func KeyOwner(key string) string {
	owner, _, _ := strings.Cut(key, "/")
	return owner
}
