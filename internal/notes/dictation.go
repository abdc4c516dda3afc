package notes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/soapbox/internal/common"
	"github.com/Veraticus/soapbox/internal/model"
	"github.com/Veraticus/soapbox/internal/service"
)

// CommandKind classifies a dictation utterance.
type CommandKind int

// Utterance kinds recognized by the dictation loop.
const (
	CommandDictate CommandKind = iota
	CommandSpeaker
	CommandSection
	CommandAuto
	CommandSave
	CommandQuit
)

// Command is an interpreted utterance.
type Command struct {
	Speaker model.Speaker
	Section model.Section
	Text    string
	Kind    CommandKind
}

var sectionAliases = map[string]model.Section{
	"subjective": model.SectionSubjective,
	"subject":    model.SectionSubjective,
	"objective":  model.SectionObjective,
	"object":     model.SectionObjective,
	"assessment": model.SectionAssessment,
	"assess":     model.SectionAssessment,
	"plan":       model.SectionPlan,
}

// ParseCommand interprets an utterance. Only a whole utterance is treated as a
// command; anything else is dictation.
func ParseCommand(text string) Command {
	word := strings.ToLower(strings.TrimSpace(text))

	if section, ok := sectionAliases[word]; ok {
		return Command{Kind: CommandSection, Section: section}
	}
	switch word {
	case "doctor", "dr", "practitioner":
		return Command{Kind: CommandSpeaker, Speaker: model.SpeakerPractitioner}
	case "patient", "pt":
		return Command{Kind: CommandSpeaker, Speaker: model.SpeakerSubject}
	case "auto":
		return Command{Kind: CommandAuto}
	case "save":
		return Command{Kind: CommandSave}
	case "quit", "exit", "stop":
		return Command{Kind: CommandQuit}
	}
	return Command{Kind: CommandDictate, Text: text}
}

// DictationState is the speaker and section applied to plain dictation.
type DictationState struct {
	Speaker model.Speaker
	Section model.Section // Empty means auto-detect
}

// Apply executes one utterance against the desk. It reports whether the loop should stop.
func (st *DictationState) Apply(ctx context.Context, desk *Desk, text string, out io.Writer) (bool, error) {
	cmd := ParseCommand(text)
	switch cmd.Kind {
	case CommandSpeaker:
		st.Speaker = cmd.Speaker
		fmt.Fprintf(out, "Switched to %s\n", cmd.Speaker)
	case CommandSection:
		st.Section = cmd.Section
		fmt.Fprintf(out, "Section set to %s\n", cmd.Section)
	case CommandAuto:
		st.Section = ""
		fmt.Fprintln(out, "Section detection set to automatic")
	case CommandSave:
		saved, err := desk.Save(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprint(out, FormatSummary(saved))
		// Nothing is left to dictate into once the note is saved.
		return true, nil
	case CommandQuit:
		fmt.Fprintln(out, "Ending dictation session")
		return true, nil
	case CommandDictate:
		if strings.TrimSpace(cmd.Text) == "" {
			return false, nil
		}
		section, err := desk.Dictate(cmd.Text, st.Speaker, string(st.Section))
		if err != nil {
			return false, err
		}
		fmt.Fprintf(out, "Added to %s\n", section)
	}
	return false, nil
}

// RunDictation reads utterances from source and applies them to the desk's
// current session until a save or quit command, source exhaustion or cancellation.
// Unrecognized speech is skipped. Errors from individual utterances are
// reported to out and the loop continues.
func RunDictation(ctx context.Context, desk *Desk, source service.SpeechSource, out io.Writer) error {
	if desk.Current() == nil {
		return ErrNoActiveNote
	}

	state := &DictationState{Speaker: model.SpeakerPractitioner}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		text, err := source.Listen(ctx)
		switch {
		case errors.Is(err, common.ErrNoSpeech):
			continue
		case errors.Is(err, common.ErrSourceClosed):
			return nil
		case err != nil:
			return fmt.Errorf("failed to listen: %w", err)
		}

		done, err := state.Apply(ctx, desk, text, out)
		if err != nil {
			fmt.Fprintf(out, "Error: %s\n", common.UserMessage(err))
		}
		if done {
			return nil
		}
	}
}
