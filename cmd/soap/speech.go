package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/soapbox/internal/cli"
	"github.com/Veraticus/soapbox/internal/common"
	"github.com/Veraticus/soapbox/internal/config"
	"github.com/Veraticus/soapbox/internal/speech"
)

func speechCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "speech",
		Short: "Check the dictation input",
	}
	cmd.AddCommand(speechTestCmd())
	return cmd
}

func speechTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Listen for one utterance and echo it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			timeout := config.SpeechTimeout()
			fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%s Say something (waiting %s)...", cli.MicIcon, timeout)))

			source := speech.NewLineSource(cmd.InOrStdin(), timeout)
			text, err := source.Listen(cmd.Context())
			switch {
			case errors.Is(err, common.ErrNoSpeech):
				fmt.Fprintln(out, cli.FormatWarning("No speech detected"))
				return nil
			case errors.Is(err, common.ErrSourceClosed):
				fmt.Fprintln(out, cli.FormatWarning("Input closed"))
				return nil
			case err != nil:
				return err
			}

			fmt.Fprintln(out, cli.FormatSuccess("You said: "+text))
			return nil
		},
	}
}
