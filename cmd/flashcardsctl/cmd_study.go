package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrewpaige1/flashcards-web/study"
)

var studyCmd = &cobra.Command{
	Use:   "study <deck-id>",
	Short: "Study a deck one card at a time",
	Long: `Study a deck: flip each card, then answer correct, incorrect or
don't know. Every answer is recorded against the card.`,
	Args: cobra.ExactArgs(1),
	RunE: runStudy,
}

func runStudy(cmd *cobra.Command, args []string) error {
	deckID, err := parseDeckID(args[0])
	if err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := commandContext(cmd)

	s := study.NewSession(a.client, deckID, logger.Named("study"))
	if err := s.Load(ctx); err != nil {
		return fmt.Errorf("failed to load deck: %w", err)
	}
	return runStudyLoop(ctx, s, cmd.InOrStdin(), cmd.OutOrStdout())
}

const studyHelp = "commands: f(lip) c(orrect) i(ncorrect) d(on't know) a(gain) q(uit)"

// runStudyLoop reads study commands from in until the user quits or input
// ends.
func runStudyLoop(ctx context.Context, s *study.Session, in io.Reader, out io.Writer) error {
	v := s.View()
	if v.State == study.StateEmpty {
		fmt.Fprintf(out, "No cards to study in %q. Add some first.\n", v.DeckTitle)
		return nil
	}
	fmt.Fprintf(out, "Study: %s\n", v.DeckTitle)
	if v.DeckDescription != "" {
		fmt.Fprintln(out, v.DeckDescription)
	}
	fmt.Fprintln(out, studyHelp)
	renderStudyView(out, v)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		var answer study.Answer
		switch strings.TrimSpace(scanner.Text()) {
		case "f", "flip":
			s.Flip()
		case "c", "correct":
			answer = study.AnswerCorrect
		case "i", "incorrect":
			answer = study.AnswerIncorrect
		case "d", "dontknow", "don't know":
			answer = study.AnswerDontKnow
		case "a", "again":
			if err := s.Restart(); err != nil {
				fmt.Fprintf(out, "Cannot restart: %v\n", err)
			}
		case "q", "quit", "exit":
			return nil
		case "":
			continue
		default:
			fmt.Fprintln(out, studyHelp)
			continue
		}
		if answer != "" {
			if err := s.Answer(ctx, answer); err != nil {
				fmt.Fprintf(out, "%v\n", err)
			}
		}
		renderStudyView(out, s.View())
	}
}

func renderStudyView(out io.Writer, v study.View) {
	switch v.State {
	case study.StateStudying:
		fmt.Fprintf(out, "%s  %s: %s\n", v.Position, v.Side, v.Text)
		if v.Hint != "" {
			fmt.Fprintf(out, "    hint: %s\n", v.Hint)
		}
	case study.StateComplete:
		r := v.Results
		fmt.Fprintf(out, "Study complete! %d cards\n", v.CardCount)
		fmt.Fprintf(out, "  correct: %d  incorrect: %d  don't know: %d\n", r.Correct, r.Incorrect, r.DontKnow)
		if r.Unrecorded > 0 {
			fmt.Fprintf(out, "  %d answers could not be saved\n", r.Unrecorded)
		}
		fmt.Fprintln(out, "Type 'again' to study again or 'quit' to finish.")
	}
}
