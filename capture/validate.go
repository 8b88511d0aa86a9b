package capture

import (
	"errors"
	"fmt"
	"mime"
	"slices"
	"strings"

	"github.com/andrewpaige1/flashcards-web/models"
)

const (
	MaxImageSize = 20 << 20
	MaxAudioSize = 50 << 20
)

type MediaKind string

const (
	KindImage MediaKind = "image"
	KindAudio MediaKind = "audio"
)

var (
	ErrTooLarge        = errors.New("file is too large")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrEmptyFile       = errors.New("file is empty")
)

var allowedTypes = map[MediaKind]map[string]bool{
	KindImage: {
		"image/png":  true,
		"image/jpeg": true,
		"image/webp": true,
		"image/heic": true,
		"image/heif": true,
	},
	KindAudio: {
		"audio/wav":  true,
		"audio/mp3":  true,
		"audio/aiff": true,
		"audio/aac":  true,
		"audio/ogg":  true,
		"audio/flac": true,
	},
}

var maxSizes = map[MediaKind]int64{
	KindImage: MaxImageSize,
	KindAudio: MaxAudioSize,
}

// ValidationError describes a rejected file. It unwraps to ErrTooLarge,
// ErrUnsupportedType or ErrEmptyFile.
type ValidationError struct {
	Kind     MediaKind
	Name     string
	MIMEType string
	Size     int64
	Err      error
}

func (e *ValidationError) Error() string {
	switch {
	case errors.Is(e.Err, ErrTooLarge):
		return fmt.Sprintf("%s %q is too large (max %dMB)", e.Kind, e.Name, maxSizes[e.Kind]>>20)
	case errors.Is(e.Err, ErrUnsupportedType):
		return fmt.Sprintf("%s %q has unsupported type %q", e.Kind, e.Name, e.MIMEType)
	default:
		return fmt.Sprintf("%s %q: %v", e.Kind, e.Name, e.Err)
	}
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NormalizeMIME lowercases a content type and strips its parameters.
func NormalizeMIME(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType, _, _ = strings.Cut(contentType, ";")
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func validate(kind MediaKind, m *models.Media) error {
	if m == nil || len(m.Data) == 0 {
		name := ""
		if m != nil {
			name = m.Name
		}
		return &ValidationError{Kind: kind, Name: name, Err: ErrEmptyFile}
	}
	if m.Size() > maxSizes[kind] {
		return &ValidationError{Kind: kind, Name: m.Name, MIMEType: m.MIMEType, Size: m.Size(), Err: ErrTooLarge}
	}
	if !allowedTypes[kind][NormalizeMIME(m.MIMEType)] {
		return &ValidationError{Kind: kind, Name: m.Name, MIMEType: m.MIMEType, Size: m.Size(), Err: ErrUnsupportedType}
	}
	return nil
}

// ValidateImage accepts png, jpeg, webp, heic and heif images up to 20MB.
func ValidateImage(m *models.Media) error { return validate(KindImage, m) }

// ValidateAudio accepts wav, mp3, aiff, aac, ogg and flac audio up to 50MB.
func ValidateAudio(m *models.Media) error { return validate(KindAudio, m) }

// AllowedTypes lists the accepted MIME types for kind, sorted.
func AllowedTypes(kind MediaKind) []string {
	types := make([]string, 0, len(allowedTypes[kind]))
	for t := range allowedTypes[kind] {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// MaxSize is the largest accepted file for kind, in bytes.
func MaxSize(kind MediaKind) int64 { return maxSizes[kind] }
