package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompter asks the user for typed values on a terminal.
type Prompter struct {
	writer io.Writer
	reader *NonBlockingReader
}

// NewPrompter creates a prompter. Nil arguments default to stdin and stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader: NewNonBlockingReader(reader),
		writer: writer,
	}
}

// Reader exposes the line reader so other consumers share buffered input.
func (p *Prompter) Reader() *NonBlockingReader {
	return p.reader
}

// Ask prints label and returns the trimmed answer, or def when the answer is empty.
func (p *Prompter) Ask(ctx context.Context, label, def string) (string, error) {
	prompt := label
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]", label, def)
	}
	if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	answer, err := p.reader.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// AskRequired repeats the prompt until a non-empty answer is given.
func (p *Prompter) AskRequired(ctx context.Context, label string) (string, error) {
	for {
		answer, err := p.Ask(ctx, label, "")
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		if _, err := fmt.Fprintln(p.writer, FormatWarning(label+" is required")); err != nil {
			return "", fmt.Errorf("failed to write warning: %w", err)
		}
	}
}

// Confirm asks a yes/no question. Anything other than y or yes is no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := p.Ask(ctx, question+" (y/N)", "")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}
