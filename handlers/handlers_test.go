package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andrewpaige1/flashcards-web/api"
	"github.com/andrewpaige1/flashcards-web/capture"
	"github.com/andrewpaige1/flashcards-web/models"
	"github.com/andrewpaige1/flashcards-web/preview"
	"github.com/andrewpaige1/flashcards-web/review"
	"github.com/andrewpaige1/flashcards-web/study"
	"github.com/andrewpaige1/flashcards-web/utils"
)

const browserKey = "browser-1"

// fakeBackend stands in for the remote flashcard API.
type fakeBackend struct {
	mu               sync.Mutex
	calls            map[string]int
	regenerateStatus int
	statsStatus      int
}

func (b *fakeBackend) count(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[path]
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.calls[r.URL.Path]++
	regenerateStatus, statsStatus := b.regenerateStatus, b.statsStatus
	b.mu.Unlock()

	reply := func(status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}
	cards := func(prefix string, n int) []map[string]any {
		out := make([]map[string]any, n)
		for i := range out {
			out[i] = map[string]any{
				"sessionId":      "sess-1",
				"front":          fmt.Sprintf("%s front %d", prefix, i+1),
				"back":           fmt.Sprintf("%s back %d", prefix, i+1),
				"generationType": "text",
			}
		}
		return out
	}

	switch r.URL.Path {
	case "/api/cards/ai_preview":
		reply(http.StatusOK, map[string]any{"success": true, "data": map[string]any{
			"sessionId": "sess-1",
			"deckTitle": "Photosynthesis",
			"cards":     cards("Basic", 3),
		}})
	case "/api/cards/ai_regenerate":
		if regenerateStatus != 0 {
			reply(regenerateStatus, map[string]string{"message": "model overloaded"})
			return
		}
		reply(http.StatusOK, map[string]any{"success": true, "data": map[string]any{
			"sessionId": "sess-1",
			"deckTitle": "Photosynthesis",
			"cards":     cards("Harder", 2),
		}})
	case "/api/cards/ai_confirm":
		reply(http.StatusOK, map[string]any{"success": true, "data": map[string]any{"deck": map[string]any{"id": 42}}})
	case "/api/audio/transcribe":
		reply(http.StatusOK, map[string]any{"data": map[string]any{"text": "spoken words"}})
	case "/api/decks/7":
		reply(http.StatusOK, map[string]any{"id": 7, "title": "Biology"})
	case "/api/decks/7/cards":
		reply(http.StatusOK, []map[string]any{{"id": 1, "deckId": 7, "front": "Q", "back": "A", "status": "new"}})
	case "/api/decks/7/cards/1/answer":
		var in map[string]any
		json.NewDecoder(r.Body).Decode(&in)
		reply(http.StatusOK, map[string]any{"id": 1, "deckId": 7, "cardId": 1, "isCorrect": in["isCorrect"]})
	case "/api/decks/8":
		reply(http.StatusOK, map[string]any{"id": 8, "title": "Empty"})
	case "/api/decks/8/cards":
		reply(http.StatusOK, []map[string]any{})
	case "/api/decks/7/stats":
		if statsStatus != 0 {
			reply(statsStatus, map[string]string{"message": "Deck not found"})
			return
		}
		reply(http.StatusOK, map[string]any{"deckId": 7, "totalCards": 1, "newCards": 1})
	default:
		http.NotFound(w, r)
	}
}

type testServer struct {
	backend *fakeBackend
	store   preview.Store
	handler http.Handler
}

func newTestServer(t *testing.T, token string) *testServer {
	t.Helper()
	backend := &fakeBackend{calls: make(map[string]int)}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, api.WithHTTPClient(srv.Client()))
	store := preview.NewMemoryStore()
	previews := preview.NewOrchestrator(client, store, zap.NewNop())
	h := &Handler{
		API:      client,
		Previews: previews,
		Reviews:  review.NewRegistry(previews),
		Studies:  study.NewRegistry(client, zap.NewNop()),
		Logger:   zap.NewNop(),
	}
	mux := http.NewServeMux()
	h.Register(mux)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := utils.WithBrowserSession(r.Context(), browserKey)
		if token != "" {
			ctx = api.ContextWithToken(ctx, token)
		}
		mux.ServeHTTP(w, r.WithContext(ctx))
	})
	return &testServer{backend: backend, store: store, handler: handler}
}

func (s *testServer) do(t *testing.T, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) view(t *testing.T, method, path string) review.View {
	t.Helper()
	rec := s.do(t, method, path, nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeView(t, rec)
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) review.View {
	t.Helper()
	var v review.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

type testFile struct {
	field, name, mimeType string
	data                  []byte
}

func multipartBody(t *testing.T, fields map[string]string, files ...testFile) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.name))
		h.Set("Content-Type", f.mimeType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func (s *testServer) submitPrompt(t *testing.T, prompt string) {
	t.Helper()
	body, ct := multipartBody(t, map[string]string{"prompt": prompt})
	rec := s.do(t, http.MethodPost, review.CaptureEntryPath, body, ct)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, PreviewPath, rec.Header().Get("Location"))
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func TestCaptureEntryDescribesLimits(t *testing.T) {
	s := newTestServer(t, "tok")
	rec := s.do(t, http.MethodGet, review.CaptureEntryPath, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var entry captureEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	assert.Equal(t, capture.DefaultMaxCards, entry.MaxCards)
	assert.EqualValues(t, capture.MaxImageSize, entry.MaxImageSize)
	assert.Contains(t, entry.ImageTypes, "image/png")
}

func TestPromptSubmitLeadsToReview(t *testing.T) {
	s := newTestServer(t, "tok")
	s.submitPrompt(t, "Photosynthesis basics")

	v := s.view(t, http.MethodGet, PreviewPath)
	assert.Equal(t, review.StateReady, v.State)
	assert.Equal(t, 3, v.CardCount)
	assert.Equal(t, "1 / 3", v.Position)
	assert.Equal(t, "front", v.Side)
	assert.Equal(t, "Basic front 1", v.Text)
	assert.Equal(t, 1, s.backend.count("/api/cards/ai_preview"))
}

func TestPreviewWithoutStateRedirects(t *testing.T) {
	s := newTestServer(t, "tok")
	for _, path := range []string{PreviewPath, PreviewPath + "/next", PreviewPath + "/confirm"} {
		method := http.MethodPost
		if path == PreviewPath {
			method = http.MethodGet
		}
		rec := s.do(t, method, path, nil, "")
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, review.CaptureEntryPath, rec.Header().Get("Location"), path)
	}
	assert.Zero(t, s.backend.count("/api/cards/ai_confirm"))
}

func TestSubmitRejectsBadInputWithoutCallingBackend(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n")

	tests := []struct {
		name   string
		fields map[string]string
		files  []testFile
		status int
	}{
		{
			name:   "nothing",
			status: http.StatusBadRequest,
		},
		{
			name:   "prompt and image",
			fields: map[string]string{"prompt": "cells"},
			files:  []testFile{{"image", "cell.png", "image/png", png}},
			status: http.StatusBadRequest,
		},
		{
			name:   "unsupported image",
			files:  []testFile{{"image", "cell.gif", "image/gif", []byte("GIF89a")}},
			status: http.StatusBadRequest,
		},
		{
			name:   "oversized image",
			files:  []testFile{{"image", "big.png", "image/png", bytes.Repeat([]byte{1}, capture.MaxImageSize+1)}},
			status: http.StatusBadRequest,
		},
		{
			name:   "unsupported audio",
			files:  []testFile{{"audio", "talk.mid", "audio/midi", []byte("MThd")}},
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, "tok")
			body, ct := multipartBody(t, tt.fields, tt.files...)
			rec := s.do(t, http.MethodPost, review.CaptureEntryPath, body, ct)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, errorMessage(t, rec))
			assert.Zero(t, s.backend.count("/api/cards/ai_preview"))
			assert.Zero(t, s.backend.count("/api/audio/transcribe"))
		})
	}
}

func TestSubmitRejectsNonMultipart(t *testing.T) {
	s := newTestServer(t, "tok")
	rec := s.do(t, http.MethodPost, review.CaptureEntryPath, bytes.NewBufferString(`{"prompt":"x"}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAudioSubmitReturnsTranscript(t *testing.T) {
	s := newTestServer(t, "tok")
	body, ct := multipartBody(t, nil, testFile{"audio", "lecture.wav", "audio/wav", []byte("RIFF....WAVE")})
	rec := s.do(t, http.MethodPost, review.CaptureEntryPath, body, ct)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out transcriptResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "spoken words", out.Text)
	assert.Zero(t, s.backend.count("/api/cards/ai_preview"))

	rec = s.do(t, http.MethodGet, PreviewPath, nil, "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestTranscribeEndpoint(t *testing.T) {
	s := newTestServer(t, "tok")
	body, ct := multipartBody(t, nil, testFile{"audio", "memo.ogg", "audio/ogg; codecs=opus", []byte("OggS")})
	rec := s.do(t, http.MethodPost, review.CaptureEntryPath+"/transcribe", body, ct)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "spoken words")
}

func TestRecordingSubmitReturnsTranscript(t *testing.T) {
	s := newTestServer(t, "tok")
	body, ct := multipartBody(t, nil, testFile{"recording", "blob", "audio/wav", []byte("RIFF")})
	rec := s.do(t, http.MethodPost, review.CaptureEntryPath, body, ct)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, s.backend.count("/api/audio/transcribe"))
}

func TestMissingTokenIsUnauthorized(t *testing.T) {
	s := newTestServer(t, "")
	body, ct := multipartBody(t, map[string]string{"prompt": "Photosynthesis basics"})
	rec := s.do(t, http.MethodPost, review.CaptureEntryPath, body, ct)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, s.backend.count("/api/cards/ai_preview"))
}

func TestNavigationStaysInBounds(t *testing.T) {
	s := newTestServer(t, "tok")
	s.submitPrompt(t, "Photosynthesis basics")

	v := s.view(t, http.MethodPost, PreviewPath+"/prev")
	assert.Equal(t, 0, v.Index)
	assert.False(t, v.CanPrev)

	v = s.view(t, http.MethodPost, PreviewPath+"/flip")
	assert.True(t, v.Flipped)
	assert.Equal(t, "Basic back 1", v.Text)

	v = s.view(t, http.MethodPost, PreviewPath+"/next")
	assert.Equal(t, 1, v.Index)
	assert.False(t, v.Flipped, "moving resets to the front")

	s.view(t, http.MethodPost, PreviewPath+"/next")
	v = s.view(t, http.MethodPost, PreviewPath+"/next")
	assert.Equal(t, 2, v.Index)
	assert.False(t, v.CanNext)
	assert.Equal(t, "3 / 3", v.Position)
}

func TestRegenerate(t *testing.T) {
	s := newTestServer(t, "tok")
	s.submitPrompt(t, "Photosynthesis basics")
	s.view(t, http.MethodPost, PreviewPath+"/next")

	rec := s.do(t, http.MethodPost, PreviewPath+"/regenerate", bytes.NewBufferString(`{"feedback":"   "}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, s.backend.count("/api/cards/ai_regenerate"))

	rec = s.do(t, http.MethodPost, PreviewPath+"/regenerate", bytes.NewBufferString(`{"feedback":"make it harder"}`), "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	v := decodeView(t, rec)
	assert.Equal(t, review.StateReady, v.State)
	assert.Equal(t, 2, v.CardCount)
	assert.Equal(t, 0, v.Index)
	assert.Equal(t, "Harder front 1", v.Text)
}

func TestRegenerateFailureNeedsAcknowledge(t *testing.T) {
	s := newTestServer(t, "tok")
	s.submitPrompt(t, "Photosynthesis basics")
	s.backend.mu.Lock()
	s.backend.regenerateStatus = http.StatusInternalServerError
	s.backend.mu.Unlock()

	rec := s.do(t, http.MethodPost, PreviewPath+"/regenerate", bytes.NewBufferString(`{"feedback":"more"}`), "application/json")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "model overloaded", errorMessage(t, rec))

	v := s.view(t, http.MethodGet, PreviewPath)
	assert.Equal(t, review.StateError, v.State)
	assert.Equal(t, 3, v.CardCount, "the earlier cards are kept")
	assert.False(t, v.CanConfirm)

	rec = s.do(t, http.MethodPost, PreviewPath+"/confirm", nil, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	v = s.view(t, http.MethodPost, PreviewPath+"/ack")
	assert.Equal(t, review.StateReady, v.State)
	assert.True(t, v.CanConfirm)
}

func TestConfirmRedirectsToDeck(t *testing.T) {
	s := newTestServer(t, "tok")
	s.submitPrompt(t, "Photosynthesis basics")

	rec := s.do(t, http.MethodPost, PreviewPath+"/confirm", nil, "")
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/app/decks/42", rec.Header().Get("Location"))

	// The preview is gone after one confirm.
	rec = s.do(t, http.MethodPost, PreviewPath+"/confirm", nil, "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, review.CaptureEntryPath, rec.Header().Get("Location"))
	assert.Equal(t, 1, s.backend.count("/api/cards/ai_confirm"))
}

func TestDiscardPreview(t *testing.T) {
	s := newTestServer(t, "tok")
	s.submitPrompt(t, "Photosynthesis basics")

	rec := s.do(t, http.MethodDelete, PreviewPath, nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, PreviewPath, nil, "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestReviewFollowsSharedStore(t *testing.T) {
	s := newTestServer(t, "tok")
	s.submitPrompt(t, "Photosynthesis basics")
	s.view(t, http.MethodPost, PreviewPath+"/next")

	// Another replica generates a newer preview for the same browser.
	newer := &models.PreviewResponse{SessionID: "sess-2", DeckTitle: "Atoms", Cards: []models.CardPreview{
		{SessionID: "sess-2", Front: "Atom front", Back: "Atom back", GenerationType: models.GenerationText},
	}}
	require.NoError(t, s.store.Put(context.Background(), browserKey, newer))

	v := s.view(t, http.MethodGet, PreviewPath)
	assert.Equal(t, "sess-2", v.SessionID)
	assert.Equal(t, 1, v.CardCount)
	assert.Equal(t, 0, v.Index)
	assert.Equal(t, "Atom front", v.Text)

	// ...and then confirms it.
	require.NoError(t, s.store.Clear(context.Background(), browserKey))
	rec := s.do(t, http.MethodPost, PreviewPath+"/confirm", nil, "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, review.CaptureEntryPath, rec.Header().Get("Location"))
	assert.Zero(t, s.backend.count("/api/cards/ai_confirm"))
}

func TestDeckOverview(t *testing.T) {
	s := newTestServer(t, "tok")
	rec := s.do(t, http.MethodGet, "/app/decks/7", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var overview deckOverview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &overview))
	assert.Equal(t, "Biology", overview.Deck.Title)
	require.Len(t, overview.Cards, 1)
	assert.Equal(t, 1, overview.Stats.TotalCards)
}

func TestDeckOverviewPassesThroughNotFound(t *testing.T) {
	s := newTestServer(t, "tok")
	s.backend.statsStatus = http.StatusNotFound

	rec := s.do(t, http.MethodGet, "/app/decks/7", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Deck not found", errorMessage(t, rec))
}

func decodeStudyView(t *testing.T, rec *httptest.ResponseRecorder) study.View {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var v study.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestStudySession(t *testing.T) {
	s := newTestServer(t, "tok")
	const path = "/app/decks/7/study"

	v := decodeStudyView(t, s.do(t, http.MethodGet, path, nil, ""))
	assert.Equal(t, study.StateStudying, v.State)
	assert.Equal(t, "Biology", v.DeckTitle)
	assert.Equal(t, "1 / 1", v.Position)
	assert.Equal(t, "Q", v.Text)

	rec := s.do(t, http.MethodPost, path+"/answer", bytes.NewBufferString(`{"result":"correct"}`), "application/json")
	assert.Equal(t, http.StatusConflict, rec.Code, "answering needs the back side")

	rec = s.do(t, http.MethodPost, path+"/answer", bytes.NewBufferString(`{"result":"maybe"}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	v = decodeStudyView(t, s.do(t, http.MethodPost, path+"/flip", nil, ""))
	assert.Equal(t, "A", v.Text)
	assert.True(t, v.CanAnswer)

	v = decodeStudyView(t, s.do(t, http.MethodPost, path+"/answer", bytes.NewBufferString(`{"result":"correct"}`), "application/json"))
	assert.Equal(t, study.StateComplete, v.State)
	assert.Equal(t, 1, v.Results.Correct)
	assert.Zero(t, v.Results.Unrecorded)
	assert.Equal(t, "/app/decks/7", v.DeckPath)
	assert.Equal(t, 1, s.backend.count("/api/decks/7/cards/1/answer"))

	v = decodeStudyView(t, s.do(t, http.MethodPost, path+"/restart", nil, ""))
	assert.Equal(t, study.StateStudying, v.State)
	assert.Zero(t, v.Results.Total())

	// The deck is loaded once per session.
	assert.Equal(t, 1, s.backend.count("/api/decks/7/cards"))
	rec = s.do(t, http.MethodDelete, path, nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	decodeStudyView(t, s.do(t, http.MethodGet, path, nil, ""))
	assert.Equal(t, 2, s.backend.count("/api/decks/7/cards"))
}

func TestStudyEmptyDeck(t *testing.T) {
	s := newTestServer(t, "tok")

	v := decodeStudyView(t, s.do(t, http.MethodGet, "/app/decks/8/study", nil, ""))
	assert.Equal(t, study.StateEmpty, v.State)
	assert.Zero(t, v.CardCount)

	rec := s.do(t, http.MethodPost, "/app/decks/8/study/restart", nil, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestStudyMissingDeck(t *testing.T) {
	s := newTestServer(t, "tok")

	rec := s.do(t, http.MethodGet, "/app/decks/9/study", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/app/decks/abc/study", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeckInputValidation(t *testing.T) {
	s := newTestServer(t, "tok")

	rec := s.do(t, http.MethodPost, "/app/decks", bytes.NewBufferString(`{"title":"  "}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/app/decks/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/app/decks/7/cards", bytes.NewBufferString(`{"front":"Q"}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, s.backend.count("/api/decks"))
	assert.Zero(t, s.backend.count("/api/decks/7/cards"))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "")
	rec := s.do(t, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "ok"))
}
