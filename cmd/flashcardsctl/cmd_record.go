package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrewpaige1/flashcards-web/capture"
)

var (
	recordDuration time.Duration
	recordCommand  string
	recordArgs     string
	recordGenerate bool
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record from the microphone and transcribe it",
	Long: `Record audio through an external recorder (arecord by default) until
--duration passes or Ctrl-C is pressed, then transcribe it. With --generate
the transcript is used as the prompt for a new preview.`,
	Args: cobra.NoArgs,
	RunE: runRecord,
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <audio-file>",
	Short: "Transcribe an audio file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTranscribe,
}

func init() {
	recordCmd.Flags().DurationVar(&recordDuration, "duration", 30*time.Second, "maximum recording length")
	recordCmd.Flags().StringVar(&recordCommand, "recorder", "arecord", "recording program; receives the output path as its last argument")
	recordCmd.Flags().StringVar(&recordArgs, "recorder-args", "-q -f cd -t wav", "arguments passed to the recorder")
	recordCmd.Flags().BoolVar(&recordGenerate, "generate", false, "generate a preview from the transcript")
}

func runRecord(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := commandContext(cmd)

	mic := capture.CommandMicrophone{Command: recordCommand, Args: strings.Fields(recordArgs)}
	form := capture.NewForm()
	if err := form.StartRecording(ctx, mic); err != nil {
		return err
	}

	fmt.Fprintf(out, "Recording for up to %s, press Ctrl-C to stop...\n", recordDuration)
	waitCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	waitCtx, cancel := context.WithTimeout(waitCtx, recordDuration)
	<-waitCtx.Done()
	cancel()
	stop()

	text, err := form.StopRecording(ctx, a.client)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Transcript:\n%s\n", indent(text))

	if !recordGenerate {
		return nil
	}
	sub, err := form.Submit()
	if err != nil {
		return err
	}
	p, err := a.previews.Generate(ctx, cliSessionKey, sub)
	if err != nil {
		return fmt.Errorf("failed to generate preview: %w", err)
	}
	fmt.Fprintln(out)
	printPreview(out, p)
	return nil
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	audio, err := loadMedia(args[0])
	if err != nil {
		return err
	}
	form := capture.NewForm()
	if err := form.AttachAudio(audio); err != nil {
		return err
	}
	text, err := form.TranscribeAttached(commandContext(cmd), a.client)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
