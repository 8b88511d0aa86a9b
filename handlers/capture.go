package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/andrewpaige1/flashcards-web/capture"
)

type captureEntry struct {
	Modes        []string `json:"modes"`
	MaxCards     int      `json:"maxCards"`
	MaxImageSize int64    `json:"maxImageSize"`
	MaxAudioSize int64    `json:"maxAudioSize"`
	ImageTypes   []string `json:"imageTypes"`
	AudioTypes   []string `json:"audioTypes"`
}

type transcriptResponse struct {
	Text string `json:"text"`
}

// GET /app/cards/create/ai

func (h *Handler) GetCaptureEntry(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, captureEntry{
		Modes:        []string{"text", "image", "audio"},
		MaxCards:     capture.DefaultMaxCards,
		MaxImageSize: capture.MaxSize(capture.KindImage),
		MaxAudioSize: capture.MaxSize(capture.KindAudio),
		ImageTypes:   capture.AllowedTypes(capture.KindImage),
		AudioTypes:   capture.AllowedTypes(capture.KindAudio),
	})
}

// POST /app/cards/create/ai/transcribe

func (h *Handler) TranscribeAudio(w http.ResponseWriter, r *http.Request) {
	const op = "TranscribeAudio"
	if err := parseUpload(w, r); err != nil {
		h.writeError(w, r, op, err)
		return
	}
	audio, err := readUpload(r, "audio", capture.MaxAudioSize)
	if err != nil {
		h.writeError(w, r, op, err)
		return
	}

	form := capture.NewForm()
	if err := form.AttachAudio(audio); err != nil {
		h.writeError(w, r, op, err)
		return
	}
	text, err := form.TranscribeAttached(r.Context(), h.API)
	if err != nil {
		h.writeError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, transcriptResponse{Text: text})
}

// POST /app/cards/create/ai
//
// Takes exactly one of prompt, image, audio or recording. Audio is sent back
// as a transcript for the user to edit; a prompt or image starts a preview
// and redirects to the review page.

func (h *Handler) SubmitCapture(w http.ResponseWriter, r *http.Request) {
	const op = "SubmitCapture"
	key, ok := h.browserKey(w, r, op)
	if !ok {
		return
	}
	if err := parseUpload(w, r); err != nil {
		h.writeError(w, r, op, err)
		return
	}

	form := capture.NewForm()
	if prompt := r.FormValue("prompt"); strings.TrimSpace(prompt) != "" {
		if err := form.SetPrompt(prompt); err != nil {
			h.writeError(w, r, op, err)
			return
		}
	}

	image, err := readUpload(r, "image", capture.MaxImageSize)
	if err != nil {
		h.writeError(w, r, op, err)
		return
	}
	if image != nil {
		if err := form.AttachImage(image); err != nil {
			h.writeError(w, r, op, err)
			return
		}
	}

	audio, err := readUpload(r, "audio", capture.MaxAudioSize)
	if err != nil {
		h.writeError(w, r, op, err)
		return
	}
	recording, err := readUpload(r, "recording", capture.MaxAudioSize)
	if err != nil {
		h.writeError(w, r, op, err)
		return
	}

	switch {
	case audio != nil && recording != nil:
		h.writeError(w, r, op, capture.ErrModeLocked)
		return
	case audio != nil:
		if err := form.AttachAudio(audio); err != nil {
			h.writeError(w, r, op, err)
			return
		}
		text, err := form.TranscribeAttached(r.Context(), h.API)
		if err != nil {
			h.writeError(w, r, op, err)
			return
		}
		writeJSON(w, http.StatusOK, transcriptResponse{Text: text})
		return
	case recording != nil:
		text, err := form.AcceptRecording(r.Context(), h.API, recording)
		if err != nil {
			h.writeError(w, r, op, err)
			return
		}
		writeJSON(w, http.StatusOK, transcriptResponse{Text: text})
		return
	}

	sub, err := form.Submit()
	if err != nil {
		h.writeError(w, r, op, err)
		return
	}
	if n, err := strconv.Atoi(r.FormValue("maxCards")); err == nil && n > 0 && n < sub.MaxCards {
		sub.MaxCards = n
	}

	if _, err := h.Previews.Generate(r.Context(), key, sub); err != nil {
		h.writeError(w, r, op, err)
		return
	}
	h.Reviews.Reset(key)

	http.Redirect(w, r, PreviewPath, http.StatusSeeOther)
}
