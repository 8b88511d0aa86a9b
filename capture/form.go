package capture

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/andrewpaige1/flashcards-web/models"
)

// DefaultMaxCards caps how many cards a preview request asks for.
const DefaultMaxCards = 20

var (
	ErrNothingToSubmit       = errors.New("enter a prompt or attach an image")
	ErrNeedsTranscription    = errors.New("audio must be transcribed before generating")
	ErrModeLocked            = errors.New("another input is already attached")
	ErrAlreadyRecording      = errors.New("already recording")
	ErrNotRecording          = errors.New("not recording")
	ErrMicrophoneUnavailable = errors.New("microphone access was denied")
)

// Transcriber turns audio into text.
type Transcriber interface {
	TranscribeAudio(ctx context.Context, audio *models.Media) (string, error)
}

// Submission is a validated request for a preview: exactly one of Prompt,
// Image or Audio is set. Form.Submit never produces Audio; callers that
// already hold validated audio may send it directly.
type Submission struct {
	Prompt   string
	Image    *models.Media
	Audio    *models.Media
	MaxCards int
}

func (s Submission) GenerationType() models.GenerationType {
	switch {
	case s.Image != nil:
		return models.GenerationImage
	case s.Audio != nil:
		return models.GenerationAudio
	default:
		return models.GenerationText
	}
}

// Form is the input-capture state for one user. It is not safe for
// concurrent use.
type Form struct {
	input     Input
	recording Recording
}

func NewForm() *Form {
	return &Form{input: Empty{}}
}

func (f *Form) Input() Input { return f.input }

func (f *Form) IsRecording() bool { return f.recording != nil }

// SetPrompt replaces the text prompt. A blank prompt empties the form. Text
// cannot be entered while media is attached.
func (f *Form) SetPrompt(text string) error {
	switch f.input.(type) {
	case ImageAttached, AudioAttached:
		return ErrModeLocked
	}
	if f.recording != nil {
		return ErrAlreadyRecording
	}
	if strings.TrimSpace(text) == "" {
		f.input = Empty{}
		return nil
	}
	f.input = TextPrompt{Text: text}
	return nil
}

// AttachImage validates and attaches an image. On failure the form is left
// exactly as it was.
func (f *Form) AttachImage(m *models.Media) error {
	if err := ValidateImage(m); err != nil {
		return err
	}
	if !f.acceptsMedia(KindImage) {
		return ErrModeLocked
	}
	f.input = ImageAttached{Image: m}
	return nil
}

// AttachAudio validates and attaches an uploaded audio file.
func (f *Form) AttachAudio(m *models.Media) error {
	if err := ValidateAudio(m); err != nil {
		return err
	}
	if !f.acceptsMedia(KindAudio) {
		return ErrModeLocked
	}
	f.input = AudioAttached{Audio: m}
	return nil
}

// acceptsMedia allows attaching to an empty form or replacing media of the
// same kind.
func (f *Form) acceptsMedia(kind MediaKind) bool {
	if f.recording != nil {
		return false
	}
	switch f.input.(type) {
	case Empty:
		return true
	case ImageAttached:
		return kind == KindImage
	case AudioAttached:
		return kind == KindAudio
	default:
		return false
	}
}

// ClearMedia drops an attached image or audio file.
func (f *Form) ClearMedia() {
	switch f.input.(type) {
	case ImageAttached, AudioAttached:
		f.input = Empty{}
	}
}

// Submit returns the preview request for the current input. Attached audio
// is never sent for generation directly; it has to go through
// TranscribeAttached first.
func (f *Form) Submit() (Submission, error) {
	switch in := f.input.(type) {
	case TextPrompt:
		prompt := strings.TrimSpace(in.Text)
		if prompt == "" {
			return Submission{}, ErrNothingToSubmit
		}
		return Submission{Prompt: prompt, MaxCards: DefaultMaxCards}, nil
	case ImageAttached:
		return Submission{Image: in.Image, MaxCards: DefaultMaxCards}, nil
	case AudioAttached:
		return Submission{}, ErrNeedsTranscription
	default:
		return Submission{}, ErrNothingToSubmit
	}
}

// TranscribeAttached transcribes an uploaded audio file into the prompt. The
// audio stays attached if transcription fails.
func (f *Form) TranscribeAttached(ctx context.Context, tr Transcriber) (string, error) {
	in, ok := f.input.(AudioAttached)
	if !ok {
		return "", fmt.Errorf("transcribe: %w", ErrNothingToSubmit)
	}
	text, err := tr.TranscribeAudio(ctx, in.Audio)
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	f.setTranscript(text)
	return text, nil
}

// AcceptRecording handles a finished live recording: it is transcribed right
// away and the transcript becomes the prompt. The recording is discarded
// whether or not transcription succeeds.
func (f *Form) AcceptRecording(ctx context.Context, tr Transcriber, audio *models.Media) (string, error) {
	if err := ValidateAudio(audio); err != nil {
		return "", err
	}
	if _, ok := f.input.(Empty); !ok {
		return "", ErrModeLocked
	}
	text, err := tr.TranscribeAudio(ctx, audio)
	if err != nil {
		f.input = Empty{}
		return "", fmt.Errorf("transcribe recording: %w", err)
	}
	f.setTranscript(text)
	return text, nil
}

func (f *Form) setTranscript(text string) {
	if strings.TrimSpace(text) == "" {
		f.input = Empty{}
		return
	}
	f.input = TextPrompt{Text: text}
}
