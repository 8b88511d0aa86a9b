package capture

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// extensionTypes covers accepted formats that the system MIME table often
// lacks or names differently (audio/x-wav and friends).
var extensionTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".heic": "image/heic",
	".heif": "image/heif",
	".wav":  "audio/wav",
	".mp3":  "audio/mp3",
	".aif":  "audio/aiff",
	".aiff": "audio/aiff",
	".aac":  "audio/aac",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
}

// DetectMIME guesses a file's type from its name, then from its content.
func DetectMIME(name string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return NormalizeMIME(t)
	}
	return NormalizeMIME(http.DetectContentType(data))
}
