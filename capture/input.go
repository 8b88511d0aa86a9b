package capture

import "github.com/andrewpaige1/flashcards-web/models"

// Input is the single thing the capture form currently holds. Only one
// variant can be active, so text and media can never be combined.
type Input interface {
	isInput()
}

type Empty struct{}

type TextPrompt struct {
	Text string
}

type ImageAttached struct {
	Image *models.Media
}

type AudioAttached struct {
	Audio *models.Media
}

func (Empty) isInput()         {}
func (TextPrompt) isInput()    {}
func (ImageAttached) isInput() {}
func (AudioAttached) isInput() {}

// Mode names the active variant, for views and logs.
func Mode(in Input) string {
	switch in.(type) {
	case TextPrompt:
		return "text"
	case ImageAttached:
		return "image"
	case AudioAttached:
		return "audio"
	default:
		return "empty"
	}
}
