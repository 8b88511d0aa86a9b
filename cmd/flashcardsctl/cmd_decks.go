package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/andrewpaige1/flashcards-web/capture"
	"github.com/andrewpaige1/flashcards-web/models"
)

var (
	deckDescription  string
	generateImage    string
	generateMaxCards int
)

var decksCmd = &cobra.Command{
	Use:   "decks",
	Short: "List and manage decks",
	Long: `List and manage decks.

Subcommands:
  list    - List your decks
  show    - Show a deck with its cards and stats
  create  - Create an empty deck
  delete  - Delete a deck`,
	RunE: runDecksList,
}

var decksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your decks",
	Args:  cobra.NoArgs,
	RunE:  runDecksList,
}

var decksShowCmd = &cobra.Command{
	Use:   "show <deck-id>",
	Short: "Show a deck with its cards and stats",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecksShow,
}

var decksCreateCmd = &cobra.Command{
	Use:   "create <title...>",
	Short: "Create an empty deck",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDecksCreate,
}

var decksDeleteCmd = &cobra.Command{
	Use:   "delete <deck-id>",
	Short: "Delete a deck",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecksDelete,
}

var generateCmd = &cobra.Command{
	Use:   "generate [prompt...]",
	Short: "Generate a deck directly, without a preview",
	RunE:  runGenerate,
}

func init() {
	decksCreateCmd.Flags().StringVar(&deckDescription, "description", "", "deck description")
	decksCmd.AddCommand(decksListCmd, decksShowCmd, decksCreateCmd, decksDeleteCmd)

	generateCmd.Flags().StringVar(&generateImage, "image", "", "image file to generate from")
	generateCmd.Flags().IntVar(&generateMaxCards, "max-cards", capture.DefaultMaxCards, "maximum number of cards")
}

func parseDeckID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 0)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid deck id %q", arg)
	}
	return uint(id), nil
}

func runDecksList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	decks, err := a.client.ListDecks(commandContext(cmd))
	if err != nil {
		return err
	}
	if len(decks) == 0 {
		fmt.Fprintln(out, "No decks yet.")
		return nil
	}
	for _, d := range decks {
		fmt.Fprintf(out, "%5d  %s\n", d.ID, d.Title)
	}
	return nil
}

func runDecksShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	deckID, err := parseDeckID(args[0])
	if err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var (
		deck  *models.Deck
		cards []models.Card
		stats *models.DeckStats
	)
	g, ctx := errgroup.WithContext(commandContext(cmd))
	g.Go(func() (err error) { deck, err = a.client.GetDeck(ctx, deckID); return })
	g.Go(func() (err error) { cards, err = a.client.ListCards(ctx, deckID); return })
	g.Go(func() (err error) { stats, err = a.client.GetDeckStats(ctx, deckID); return })
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s\n", deck.Title)
	if deck.Description != "" {
		fmt.Fprintf(out, "%s\n", deck.Description)
	}
	fmt.Fprintf(out, "%d cards: %d new, %d learning, %d mastered (%.0f%% accuracy)\n",
		stats.TotalCards, stats.NewCards, stats.LearningCards, stats.MasteredCards, stats.AccuracyRate)
	fmt.Fprintln(out, strings.Repeat("─", 50))
	for i, c := range cards {
		fmt.Fprintf(out, "%2d. [%s] %s\n%s\n", i+1, c.Status, c.Front, indent(c.Back))
	}
	return nil
}

func runDecksCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	deck, err := a.client.CreateDeck(commandContext(cmd), models.DeckInput{
		Title:       strings.Join(args, " "),
		Description: deckDescription,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created deck %d\n", deck.ID)
	return nil
}

func runDecksDelete(cmd *cobra.Command, args []string) error {
	deckID, err := parseDeckID(args[0])
	if err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.client.DeleteDeck(commandContext(cmd), deckID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted deck %d\n", deckID)
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	form := capture.NewForm()
	if err := form.SetPrompt(strings.Join(args, " ")); err != nil {
		return err
	}
	if generateImage != "" {
		image, err := loadMedia(generateImage)
		if err != nil {
			return err
		}
		if err := form.AttachImage(image); err != nil {
			return err
		}
	}
	sub, err := form.Submit()
	if err != nil {
		return err
	}
	if generateMaxCards > 0 && generateMaxCards < sub.MaxCards {
		sub.MaxCards = generateMaxCards
	}

	deckID, err := a.client.GenerateDeck(commandContext(cmd), sub.Prompt, sub.Image, sub.MaxCards)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created deck %d\n", deckID)
	return nil
}
