package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/soapbox/internal/cli"
	"github.com/Veraticus/soapbox/internal/common"
	"github.com/Veraticus/soapbox/internal/config"
	"github.com/Veraticus/soapbox/internal/model"
	"github.com/Veraticus/soapbox/internal/notes"
	"github.com/Veraticus/soapbox/internal/speech"
	"github.com/Veraticus/soapbox/internal/storage"
	"github.com/Veraticus/soapbox/internal/tui"
	"github.com/Veraticus/soapbox/internal/tui/themes"
)

func noteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Dictate, save and search SOAP notes",
	}
	cmd.AddCommand(noteNewCmd())
	cmd.AddCommand(noteManualCmd())
	cmd.AddCommand(noteListCmd())
	cmd.AddCommand(noteShowCmd())
	cmd.AddCommand(noteSearchCmd())
	return cmd
}

const dictationHelp = `Each line you type is one utterance. Commands:
  doctor | patient          switch speaker
  subjective | objective | assessment | plan
                            dictate into a fixed section
  auto                      detect the section from keywords
  save                      save the note and finish
  quit                      finish, asking whether to save`

func noteNewCmd() *cobra.Command {
	var patientID, doctorID string
	var useTUI bool

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a dictation session for a new SOAP note",
		Long: `Start a new SOAP note for a patient and doctor and dictate into it.

` + dictationHelp,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			mgr, err := initManager(store)
			if err != nil {
				return err
			}
			desk := notes.NewDesk(mgr)
			if _, err := desk.Start(ctx, patientID, doctorID); err != nil {
				return err
			}

			if useTUI {
				return runTUIDictation(ctx, cmd.OutOrStdout(), desk)
			}
			return runLineDictation(ctx, cmd, desk)
		},
	}

	cmd.Flags().StringVarP(&patientID, "patient", "p", "", "patient ID")
	cmd.Flags().StringVarP(&doctorID, "doctor", "d", "", "doctor ID")
	cmd.Flags().BoolVar(&useTUI, "tui", false, "use the full-screen dictation view")
	_ = cmd.MarkFlagRequired("patient")
	_ = cmd.MarkFlagRequired("doctor")
	return cmd
}

func runTUIDictation(ctx context.Context, out io.Writer, desk *notes.Desk) error {
	saved, err := tui.RunDictation(ctx, desk, themes.ByName(viper.GetString("ui.theme")))
	if err != nil {
		return err
	}
	if saved == nil {
		fmt.Fprintln(out, cli.FormatWarning("Note was not saved"))
		return nil
	}
	fmt.Fprintln(out, notes.FormatSummary(saved))
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Saved SOAP note #%d", saved.ID)))
	return nil
}

func runLineDictation(ctx context.Context, cmd *cobra.Command, desk *notes.Desk) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatTitle("Dictation"))
	fmt.Fprintln(out, cli.SubtleStyle.Render(dictationHelp))
	fmt.Fprintln(out)

	prompter := cli.NewPrompter(cmd.InOrStdin(), out)
	handler := cli.NewInterruptHandler(out)
	ctx = handler.HandleInterrupts(ctx, true)
	defer handler.Stop()

	source := speech.NewLineSourceFromReader(prompter.Reader(), config.SpeechTimeout())
	if err := notes.RunDictation(ctx, desk, source, out); err != nil {
		if handler.WasInterrupted() {
			return nil
		}
		return err
	}

	if desk.Current() == nil {
		return nil
	}

	save, err := prompter.Confirm(ctx, "Save the note before exiting?")
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if !save {
		_ = desk.Discard()
		fmt.Fprintln(out, cli.FormatWarning("Note discarded"))
		return nil
	}

	saved, err := desk.Save(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, notes.FormatSummary(saved))
	return nil
}

func noteManualCmd() *cobra.Command {
	var patientID, doctorID string
	var subjective, objective, assessment, plan, speakerName string

	cmd := &cobra.Command{
		Use:   "manual",
		Short: "Write a SOAP note section by section",
		Long: `Create and save a SOAP note from explicit section text. Sections not given
as flags are asked for interactively; leave an answer empty to skip it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			speaker, ok := model.ParseSpeaker(speakerName)
			if !ok {
				return common.NewUserError(fmt.Sprintf("Unknown speaker %q (use doctor or patient)", speakerName), common.ErrInvalidConfig)
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			mgr, err := initManager(store)
			if err != nil {
				return err
			}
			desk := notes.NewDesk(mgr)
			if _, err := desk.Start(ctx, patientID, doctorID); err != nil {
				return err
			}

			if !anyFlagChanged(cmd, "subjective", "objective", "assessment", "plan") {
				prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				for _, field := range []*struct {
					label string
					value *string
				}{
					{"Subjective", &subjective},
					{"Objective", &objective},
					{"Assessment", &assessment},
					{"Plan", &plan},
				} {
					answer, err := prompter.Ask(ctx, field.label, "")
					if err != nil && !errors.Is(err, io.EOF) {
						return err
					}
					*field.value = answer
				}
			}

			if err := desk.Manual(speaker, subjective, objective, assessment, plan); err != nil {
				return err
			}
			saved, err := desk.Save(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), notes.FormatSummary(saved))
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Saved SOAP note #%d", saved.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&patientID, "patient", "p", "", "patient ID")
	cmd.Flags().StringVarP(&doctorID, "doctor", "d", "", "doctor ID")
	cmd.Flags().StringVar(&subjective, "subjective", "", "subjective section text")
	cmd.Flags().StringVar(&objective, "objective", "", "objective section text")
	cmd.Flags().StringVar(&assessment, "assessment", "", "assessment section text")
	cmd.Flags().StringVar(&plan, "plan", "", "plan section text")
	cmd.Flags().StringVar(&speakerName, "speaker", string(model.SpeakerPractitioner), "who is speaking (doctor or patient)")
	_ = cmd.MarkFlagRequired("patient")
	_ = cmd.MarkFlagRequired("doctor")
	return cmd
}

func anyFlagChanged(cmd *cobra.Command, names ...string) bool {
	for _, name := range names {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func noteListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list <patient-id>",
		Short: "List a patient's most recent notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			mgr, err := initManager(store)
			if err != nil {
				return err
			}
			found, err := mgr.GetPatientNotes(ctx, args[0], limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), cli.FormatNoteList(found))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", storage.DefaultNoteLimit, "maximum number of notes")
	return cmd
}

func noteShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <note-id>",
		Short: "Show a saved note with its transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return common.NewUserError(fmt.Sprintf("Invalid note ID %q", args[0]), err)
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			note, err := store.GetNote(ctx, id)
			if err != nil {
				return err
			}
			if note == nil {
				return common.NewUserError(fmt.Sprintf("Note %d not found", id), common.ErrNotFound)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatNote(note))
			if len(note.Transcript) > 0 {
				fmt.Fprintln(out, cli.BoldStyle.Render("Transcript"))
			}
			for _, entry := range note.Transcript {
				section := string(entry.Section)
				if section == "" {
					section = "auto"
				}
				fmt.Fprintf(out, "  %s  %-12s %-10s %s\n",
					entry.Timestamp.Local().Format("15:04:05"), entry.Speaker, section, entry.Text)
			}
			return nil
		},
	}
}

func noteSearchCmd() *cobra.Command {
	var field string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search notes by section text",
		Long: `Search saved notes for a case-insensitive substring. Use --field to restrict
the search to subjective, objective, assessment or plan.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			mgr, err := initManager(store)
			if err != nil {
				return err
			}
			found, err := mgr.SearchNotes(ctx, args[0], field)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), cli.FormatNoteList(found))
			return nil
		},
	}

	cmd.Flags().StringVarP(&field, "field", "f", "all", "section to search, or all")
	return cmd
}
