package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrewpaige1/flashcards-web/capture"
	"github.com/andrewpaige1/flashcards-web/models"
	"github.com/andrewpaige1/flashcards-web/preview"
	"github.com/andrewpaige1/flashcards-web/review"
)

var (
	previewImage    string
	previewAudio    string
	previewMaxCards int
)

const noPreviewHint = "No preview in progress. Start one with: flashcardsctl preview generate <prompt>"

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Generate, review and confirm AI card previews",
	Long: `Work with an AI preview: provisional cards that only become a deck
once confirmed.

Subcommands:
  generate    - Generate a preview from a prompt, image or audio file
  show        - Print every card of the current preview
  review      - Step through the preview interactively
  regenerate  - Replace the cards using feedback
  confirm     - Save the preview as a new deck
  discard     - Forget the current preview`,
}

var previewGenerateCmd = &cobra.Command{
	Use:   "generate [prompt...]",
	Short: "Generate a preview from a prompt, --image or --audio",
	RunE:  runPreviewGenerate,
}

var previewShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every card of the current preview",
	Args:  cobra.NoArgs,
	RunE:  runPreviewShow,
}

var previewReviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Step through the preview one card at a time",
	Args:  cobra.NoArgs,
	RunE:  runPreviewReview,
}

var previewRegenerateCmd = &cobra.Command{
	Use:   "regenerate <feedback...>",
	Short: "Regenerate the preview using feedback",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPreviewRegenerate,
}

var previewConfirmCmd = &cobra.Command{
	Use:   "confirm",
	Short: "Save the preview as a new deck",
	Args:  cobra.NoArgs,
	RunE:  runPreviewConfirm,
}

var previewDiscardCmd = &cobra.Command{
	Use:   "discard",
	Short: "Forget the current preview",
	Args:  cobra.NoArgs,
	RunE:  runPreviewDiscard,
}

func init() {
	previewGenerateCmd.Flags().StringVar(&previewImage, "image", "", "image file to generate from")
	previewGenerateCmd.Flags().StringVar(&previewAudio, "audio", "", "audio file to transcribe and generate from")
	previewGenerateCmd.Flags().IntVar(&previewMaxCards, "max-cards", capture.DefaultMaxCards, "maximum number of cards")

	previewCmd.AddCommand(previewGenerateCmd, previewShowCmd, previewReviewCmd,
		previewRegenerateCmd, previewConfirmCmd, previewDiscardCmd)
}

func runPreviewGenerate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := commandContext(cmd)

	form := capture.NewForm()
	if err := form.SetPrompt(strings.Join(args, " ")); err != nil {
		return err
	}
	if previewImage != "" {
		image, err := loadMedia(previewImage)
		if err != nil {
			return err
		}
		if err := form.AttachImage(image); err != nil {
			return err
		}
	}
	if previewAudio != "" {
		audio, err := loadMedia(previewAudio)
		if err != nil {
			return err
		}
		if err := form.AttachAudio(audio); err != nil {
			return err
		}
		text, err := form.TranscribeAttached(ctx, a.client)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Transcript:\n%s\n\n", indent(text))
	}

	sub, err := form.Submit()
	if err != nil {
		return err
	}
	if previewMaxCards > 0 && previewMaxCards < sub.MaxCards {
		sub.MaxCards = previewMaxCards
	}

	p, err := a.previews.Generate(ctx, cliSessionKey, sub)
	if err != nil {
		return fmt.Errorf("failed to generate preview: %w", err)
	}
	printPreview(out, p)
	fmt.Fprintln(out, "\nNext: flashcardsctl preview review | regenerate <feedback> | confirm")
	return nil
}

func runPreviewShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.previews.Load(commandContext(cmd), cliSessionKey)
	if errors.Is(err, preview.ErrNoPreview) {
		fmt.Fprintln(cmd.OutOrStdout(), noPreviewHint)
		return nil
	}
	if err != nil {
		return err
	}
	printPreview(cmd.OutOrStdout(), p)
	return nil
}

// loadSession opens the stored preview for review. It reports false with a
// hint printed when there is nothing to review.
func loadSession(ctx context.Context, a *app, out io.Writer) (*review.Session, bool, error) {
	s := review.NewSession(a.previews, cliSessionKey)
	err := s.Load(ctx)
	var redirect *review.RedirectError
	if errors.As(err, &redirect) {
		fmt.Fprintln(out, noPreviewHint)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return s, true, nil
}

func runPreviewReview(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := commandContext(cmd)

	s, ok, err := loadSession(ctx, a, cmd.OutOrStdout())
	if !ok || err != nil {
		return err
	}
	return runReviewLoop(ctx, s, cmd.InOrStdin(), cmd.OutOrStdout())
}

func runPreviewRegenerate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := commandContext(cmd)

	s, ok, err := loadSession(ctx, a, out)
	if !ok || err != nil {
		return err
	}
	s.SetFeedback(strings.Join(args, " "))
	if err := s.Regenerate(ctx); err != nil {
		return fmt.Errorf("failed to regenerate: %w", err)
	}
	p, err := a.previews.Load(ctx, cliSessionKey)
	if err != nil {
		return err
	}
	printPreview(out, p)
	return nil
}

func runPreviewConfirm(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := commandContext(cmd)

	s, ok, err := loadSession(ctx, a, out)
	if !ok || err != nil {
		return err
	}
	deckID, err := s.Confirm(ctx)
	if err != nil {
		return fmt.Errorf("failed to confirm: %w", err)
	}
	fmt.Fprintf(out, "Created deck %d (%s)\n", deckID, s.Redirect())
	return nil
}

func runPreviewDiscard(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.previews.Discard(commandContext(cmd), cliSessionKey); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Preview discarded.")
	return nil
}

func printPreview(out io.Writer, p *models.PreviewResponse) {
	fmt.Fprintf(out, "%s\n", p.DeckTitle)
	if p.DeckDescription != "" {
		fmt.Fprintf(out, "%s\n", p.DeckDescription)
	}
	fmt.Fprintf(out, "%d cards, session %s, expires %s\n", len(p.Cards), p.SessionID, formatTime(p.ExpiresAt))
	fmt.Fprintln(out, strings.Repeat("─", 50))
	for i, c := range p.Cards {
		fmt.Fprintf(out, "%2d. %s\n%s\n", i+1, c.Front, indent(c.Back))
	}
}

const reviewHelp = "commands: n(ext) p(rev) f(lip) r(egenerate) <feedback> c(onfirm) a(ck) q(uit)"

// runReviewLoop reads review commands from in until the preview is confirmed
// or the user quits.
func runReviewLoop(ctx context.Context, s *review.Session, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, reviewHelp)
	renderView(out, s.View())

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		verb, rest, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")

		switch verb {
		case "n", "next":
			if !s.Next() {
				fmt.Fprintln(out, "Already at the last card.")
			}
		case "p", "prev":
			if !s.Prev() {
				fmt.Fprintln(out, "Already at the first card.")
			}
		case "f", "flip":
			s.Flip()
		case "r", "regenerate":
			s.SetFeedback(rest)
			if err := s.Regenerate(ctx); err != nil {
				fmt.Fprintf(out, "Regenerate failed: %v\n", err)
			}
		case "c", "confirm":
			deckID, err := s.Confirm(ctx)
			if err != nil {
				fmt.Fprintf(out, "Confirm failed: %v\n", err)
				break
			}
			fmt.Fprintf(out, "Created deck %d (%s)\n", deckID, s.Redirect())
			return nil
		case "a", "ack":
			s.Acknowledge()
		case "q", "quit", "exit":
			return nil
		case "":
			continue
		default:
			fmt.Fprintln(out, reviewHelp)
			continue
		}
		renderView(out, s.View())
	}
}

func renderView(out io.Writer, v review.View) {
	if v.DeckTitle != "" {
		fmt.Fprintf(out, "%s [%s]\n", v.DeckTitle, v.State)
	}
	if v.Position != "" {
		fmt.Fprintf(out, "%s  %s: %s\n", v.Position, v.Side, v.Text)
	}
	if v.Error != "" {
		fmt.Fprintf(out, "error: %s (type 'ack' to continue)\n", v.Error)
	}
}
