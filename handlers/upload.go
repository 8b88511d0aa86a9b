package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/andrewpaige1/flashcards-web/capture"
	"github.com/andrewpaige1/flashcards-web/models"
)

const (
	// maxUploadBody leaves room for form fields around the largest file.
	maxUploadBody   = capture.MaxAudioSize + 1<<20
	multipartMemory = 32 << 20
)

func parseUpload(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return fmt.Errorf("parse upload: %w", err)
	}
	return nil
}

// readUpload reads one file field, or returns nil if the field is absent.
// Reading stops one byte past limit so oversized files still fail
// validation without being held whole.
func readUpload(r *http.Request, field string, limit int64) (*models.Media, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || capture.NormalizeMIME(mimeType) == "application/octet-stream" {
		mimeType = capture.DetectMIME(header.Filename, data)
	}
	return &models.Media{Name: header.Filename, MIMEType: mimeType, Data: data}, nil
}
