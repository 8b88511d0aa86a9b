package capture

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewpaige1/flashcards-web/models"
)

func media(name, mimeType string, size int) *models.Media {
	return &models.Media{Name: name, MIMEType: mimeType, Data: bytes.Repeat([]byte{1}, size)}
}

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name string
		m    *models.Media
		want error
	}{
		{"png", media("a.png", "image/png", 10), nil},
		{"jpeg with params", media("a.jpg", "image/JPEG; q=1", 10), nil},
		{"heif", media("a.heif", "image/heif", 10), nil},
		{"at limit", media("a.webp", "image/webp", MaxImageSize), nil},
		{"over limit", media("a.png", "image/png", MaxImageSize+1), ErrTooLarge},
		{"gif", media("a.gif", "image/gif", 10), ErrUnsupportedType},
		{"audio as image", media("a.wav", "audio/wav", 10), ErrUnsupportedType},
		{"empty", media("a.png", "image/png", 0), ErrEmptyFile},
		{"nil", nil, ErrEmptyFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImage(tt.m)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, KindImage, verr.Kind)
		})
	}
}

func TestValidateAudio(t *testing.T) {
	tests := []struct {
		name string
		m    *models.Media
		want error
	}{
		{"wav", media("a.wav", "audio/wav", 10), nil},
		{"flac", media("a.flac", "audio/flac", 10), nil},
		{"at limit", media("a.mp3", "audio/mp3", MaxAudioSize), nil},
		{"over limit", media("a.mp3", "audio/mp3", MaxAudioSize+1), ErrTooLarge},
		{"webm", media("a.webm", "audio/webm", 10), ErrUnsupportedType},
		{"mpeg", media("a.mp3", "audio/mpeg", 10), ErrUnsupportedType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAudio(tt.m)
			if tt.want == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestRejectedFileLeavesFormUntouched(t *testing.T) {
	f := NewForm()
	good := media("a.png", "image/png", 10)
	require.NoError(t, f.AttachImage(good))

	err := f.AttachImage(media("b.png", "image/png", MaxImageSize+1))
	require.ErrorIs(t, err, ErrTooLarge)
	assert.Equal(t, ImageAttached{Image: good}, f.Input())

	err = f.AttachImage(media("b.bmp", "image/bmp", 10))
	require.ErrorIs(t, err, ErrUnsupportedType)
	assert.Equal(t, ImageAttached{Image: good}, f.Input())
}

func TestInputsAreMutuallyExclusive(t *testing.T) {
	f := NewForm()
	require.NoError(t, f.SetPrompt("cells"))
	assert.ErrorIs(t, f.AttachImage(media("a.png", "image/png", 1)), ErrModeLocked)
	assert.ErrorIs(t, f.AttachAudio(media("a.wav", "audio/wav", 1)), ErrModeLocked)
	assert.Equal(t, TextPrompt{Text: "cells"}, f.Input())

	require.NoError(t, f.SetPrompt("  "))
	assert.Equal(t, Empty{}, f.Input())

	img := media("a.png", "image/png", 1)
	require.NoError(t, f.AttachImage(img))
	assert.ErrorIs(t, f.SetPrompt("text"), ErrModeLocked)
	assert.ErrorIs(t, f.AttachAudio(media("a.wav", "audio/wav", 1)), ErrModeLocked)
	assert.Equal(t, "image", Mode(f.Input()))

	f.ClearMedia()
	assert.Equal(t, "empty", Mode(f.Input()))
}

func TestSubmit(t *testing.T) {
	f := NewForm()
	_, err := f.Submit()
	require.ErrorIs(t, err, ErrNothingToSubmit)

	require.NoError(t, f.SetPrompt("  Photosynthesis basics "))
	sub, err := f.Submit()
	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis basics", sub.Prompt)
	assert.Equal(t, DefaultMaxCards, sub.MaxCards)
	assert.Equal(t, models.GenerationText, sub.GenerationType())

	f = NewForm()
	img := media("a.png", "image/png", 1)
	require.NoError(t, f.AttachImage(img))
	sub, err = f.Submit()
	require.NoError(t, err)
	assert.Same(t, img, sub.Image)
	assert.Equal(t, models.GenerationImage, sub.GenerationType())

	f = NewForm()
	require.NoError(t, f.AttachAudio(media("a.wav", "audio/wav", 1)))
	_, err = f.Submit()
	require.ErrorIs(t, err, ErrNeedsTranscription)
}

type fakeTranscriber struct {
	text  string
	err   error
	calls int
	got   *models.Media
}

func (f *fakeTranscriber) TranscribeAudio(_ context.Context, audio *models.Media) (string, error) {
	f.calls++
	f.got = audio
	return f.text, f.err
}

func TestTranscribeAttached(t *testing.T) {
	f := NewForm()
	audio := media("lecture.mp3", "audio/mp3", 8)
	require.NoError(t, f.AttachAudio(audio))

	failing := &fakeTranscriber{err: errors.New("backend down")}
	_, err := f.TranscribeAttached(context.Background(), failing)
	require.Error(t, err)
	assert.Equal(t, AudioAttached{Audio: audio}, f.Input())

	tr := &fakeTranscriber{text: "mitochondria"}
	text, err := f.TranscribeAttached(context.Background(), tr)
	require.NoError(t, err)
	assert.Equal(t, "mitochondria", text)
	assert.Equal(t, TextPrompt{Text: "mitochondria"}, f.Input())
}

type fakeMic struct {
	openErr error
	rec     *fakeRecording
}

func (m *fakeMic) Open(context.Context) (Recording, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	return m.rec, nil
}

type fakeRecording struct {
	data     []byte
	stopErr  error
	released int
}

func (r *fakeRecording) Stop() ([]byte, error) { return r.data, r.stopErr }
func (r *fakeRecording) Release() error       { r.released++; return nil }

func TestRecordingTranscribesIntoPrompt(t *testing.T) {
	f := NewForm()
	rec := &fakeRecording{data: []byte("RIFF....")}
	require.NoError(t, f.StartRecording(context.Background(), &fakeMic{rec: rec}))
	assert.True(t, f.IsRecording())
	assert.ErrorIs(t, f.StartRecording(context.Background(), &fakeMic{rec: rec}), ErrAlreadyRecording)
	assert.ErrorIs(t, f.SetPrompt("typing"), ErrAlreadyRecording)

	tr := &fakeTranscriber{text: "the krebs cycle"}
	text, err := f.StopRecording(context.Background(), tr)
	require.NoError(t, err)
	assert.Equal(t, "the krebs cycle", text)
	assert.Equal(t, TextPrompt{Text: "the krebs cycle"}, f.Input())
	assert.Equal(t, 1, rec.released)
	assert.False(t, f.IsRecording())
	assert.Equal(t, RecordingName, tr.got.Name)
	assert.Equal(t, RecordingType, tr.got.MIMEType)
}

func TestRecordingReleasedOnTranscriptionError(t *testing.T) {
	f := NewForm()
	rec := &fakeRecording{data: []byte("RIFF")}
	require.NoError(t, f.StartRecording(context.Background(), &fakeMic{rec: rec}))

	_, err := f.StopRecording(context.Background(), &fakeTranscriber{err: errors.New("500")})
	require.Error(t, err)
	assert.Equal(t, 1, rec.released)
	assert.Equal(t, Empty{}, f.Input())
	assert.False(t, f.IsRecording())
}

func TestRecordingReleasedOnStopError(t *testing.T) {
	f := NewForm()
	rec := &fakeRecording{stopErr: errors.New("device vanished")}
	require.NoError(t, f.StartRecording(context.Background(), &fakeMic{rec: rec}))

	tr := &fakeTranscriber{}
	_, err := f.StopRecording(context.Background(), tr)
	require.Error(t, err)
	assert.Equal(t, 1, rec.released)
	assert.Zero(t, tr.calls)
}

func TestStartRecordingDenied(t *testing.T) {
	f := NewForm()
	err := f.StartRecording(context.Background(), &fakeMic{openErr: errors.New("permission denied")})
	require.ErrorIs(t, err, ErrMicrophoneUnavailable)
	assert.False(t, f.IsRecording())

	_, err = f.StopRecording(context.Background(), &fakeTranscriber{})
	require.ErrorIs(t, err, ErrNotRecording)
}

func TestAllowedTypes(t *testing.T) {
	assert.Equal(t, []string{"image/heic", "image/heif", "image/jpeg", "image/png", "image/webp"}, AllowedTypes(KindImage))
	assert.Contains(t, AllowedTypes(KindAudio), "audio/flac")
	assert.EqualValues(t, MaxAudioSize, MaxSize(KindAudio))
}

func TestDetectMIME(t *testing.T) {
	assert.Equal(t, "audio/wav", DetectMIME("Lecture.WAV", nil))
	assert.Equal(t, "image/heic", DetectMIME("photo.heic", nil))
	assert.Equal(t, "image/png", DetectMIME("blob", []byte("\x89PNG\r\n\x1a\n0000")))
	assert.NoError(t, ValidateAudio(&models.Media{Name: "a.flac", MIMEType: DetectMIME("a.flac", nil), Data: []byte("fLaC")}))
}
