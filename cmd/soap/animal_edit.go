package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/soapbox/internal/cli"
	"github.com/Veraticus/soapbox/internal/model"
)

type recordField struct {
	flag  string
	label string
	owner bool
}

var recordFields = []recordField{
	{flag: "owner", label: model.FieldOwnerName, owner: true},
	{flag: "home-phone", label: model.FieldHomePhone, owner: true},
	{flag: "other-phone", label: model.FieldOtherPhone, owner: true},
	{flag: "address", label: model.FieldAddress, owner: true},
	{flag: "entered-by", label: model.FieldDataEntryBy, owner: true},
	{flag: "animal", label: model.FieldAnimalName},
	{flag: "species", label: model.FieldSpecies},
	{flag: "breed", label: model.FieldBreed},
	{flag: "colors", label: model.FieldColors},
	{flag: "sex", label: model.FieldSex},
	{flag: "age", label: model.FieldAge},
	{flag: "dob", label: model.FieldDateOfBirth},
}

// promptFields is the interactive entry form, in the order it is asked.
var promptFields = []struct {
	label    string
	owner    bool
	required bool
}{
	{label: model.FieldOwnerName, owner: true, required: true},
	{label: model.FieldAnimalName, required: true},
	{label: model.FieldSpecies},
	{label: model.FieldBreed},
	{label: model.FieldAge},
}

// recordInput holds the record flags shared by add and edit.
type recordInput struct {
	values    map[string]*string
	treatment []string
	reminders []string
}

func addRecordFlags(cmd *cobra.Command) *recordInput {
	in := &recordInput{values: make(map[string]*string, len(recordFields))}
	for _, f := range recordFields {
		in.values[f.flag] = cmd.Flags().String(f.flag, "", strings.ToLower(f.label))
	}
	cmd.Flags().StringArrayVar(&in.treatment, "treatment", nil, `treatment row "date|weight|treatment|charge" (repeatable)`)
	cmd.Flags().StringArrayVar(&in.reminders, "reminder", nil, "reminder (repeatable)")
	return in
}

// set reports whether any record flag was given.
func (in *recordInput) set(cmd *cobra.Command) bool {
	for _, f := range recordFields {
		if cmd.Flags().Changed(f.flag) {
			return true
		}
	}
	return cmd.Flags().Changed("treatment") || cmd.Flags().Changed("reminder")
}

// apply copies the given flags onto draft. An empty value clears the field.
func (in *recordInput) apply(cmd *cobra.Command, draft *model.AnimalRecordDraft) {
	ensureMaps(draft)
	for _, f := range recordFields {
		if !cmd.Flags().Changed(f.flag) {
			continue
		}
		setField(fieldMap(draft, f.owner), f.label, *in.values[f.flag])
	}
	if cmd.Flags().Changed("treatment") {
		draft.TreatmentData = strings.Join(in.treatment, "\n")
	}
	if cmd.Flags().Changed("reminder") {
		draft.Reminders = in.reminders
	}
}

func ensureMaps(draft *model.AnimalRecordDraft) {
	if draft.OwnerInfo == nil {
		draft.OwnerInfo = map[string]string{}
	}
	if draft.AnimalInfo == nil {
		draft.AnimalInfo = map[string]string{}
	}
}

func fieldMap(draft *model.AnimalRecordDraft, owner bool) map[string]string {
	if owner {
		return draft.OwnerInfo
	}
	return draft.AnimalInfo
}

func setField(m map[string]string, label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		delete(m, label)
		return
	}
	m[label] = value
}

// promptRecord walks the entry form, offering current values as defaults.
func promptRecord(ctx context.Context, p *cli.Prompter, draft *model.AnimalRecordDraft) error {
	ensureMaps(draft)
	for _, f := range promptFields {
		target := fieldMap(draft, f.owner)
		var (
			answer string
			err    error
		)
		if f.required && target[f.label] == "" {
			answer, err = p.AskRequired(ctx, f.label)
		} else {
			answer, err = p.Ask(ctx, f.label, target[f.label])
		}
		if err != nil {
			return err
		}
		setField(target, f.label, answer)
	}

	answer, err := p.Ask(ctx, "Reminders (separate with ;)", strings.Join(draft.Reminders, "; "))
	if err != nil {
		return err
	}
	draft.Reminders = model.CleanReminders(strings.Split(answer, ";"))
	return nil
}

// promptMissingNames asks only for the names a record cannot be saved without.
func promptMissingNames(ctx context.Context, p *cli.Prompter, draft *model.AnimalRecordDraft) error {
	for _, f := range promptFields {
		target := fieldMap(draft, f.owner)
		if !f.required || strings.TrimSpace(target[f.label]) != "" {
			continue
		}
		answer, err := p.AskRequired(ctx, f.label)
		if err != nil {
			return err
		}
		setField(target, f.label, answer)
	}
	return nil
}

func animalAddCmd() *cobra.Command {
	var in *recordInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Enter an animal record by hand",
		Long: `Enter an animal record without a chart image. With no field flags the
owner name, animal name, species, breed, age and reminders are asked for
interactively. Otherwise the flags are used and only a missing owner or
animal name is asked for.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			svc, cleanup, err := initAnimalService(store, false)
			if err != nil {
				return err
			}
			defer cleanup()

			prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			draft := &model.AnimalRecordDraft{}
			if in.set(cmd) {
				in.apply(cmd, draft)
				err = promptMissingNames(ctx, prompter, draft)
			} else {
				err = promptRecord(ctx, prompter, draft)
			}
			if err != nil {
				return err
			}

			record, err := svc.Save(ctx, draft)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Saved record %s (%s)", record.SerialNumber, record.ID)))
			fmt.Fprintln(out, cli.FormatRecord(recordTitle(record), &record.AnimalRecordDraft))
			return nil
		},
	}

	in = addRecordFlags(cmd)
	return cmd
}

func animalEditCmd() *cobra.Command {
	var in *recordInput

	cmd := &cobra.Command{
		Use:   "edit <record-id|serial>",
		Short: "Edit a stored animal record",
		Long: `Edit a stored record. Field flags replace just the fields they name;
--treatment and --reminder replace all rows and reminders. With no field flags
the entry form is shown with the current values as defaults.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			svc, cleanup, err := initAnimalService(store, false)
			if err != nil {
				return err
			}
			defer cleanup()

			record, err := svc.Get(ctx, args[0])
			if err != nil {
				return err
			}

			if in.set(cmd) {
				in.apply(cmd, &record.AnimalRecordDraft)
			} else {
				prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				if err := promptRecord(ctx, prompter, &record.AnimalRecordDraft); err != nil {
					return err
				}
			}

			if err := svc.Update(ctx, record); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatSuccess("Updated record "+record.SerialNumber))
			fmt.Fprintln(out, cli.FormatRecord(recordTitle(record), &record.AnimalRecordDraft))
			return nil
		},
	}

	in = addRecordFlags(cmd)
	return cmd
}

func animalDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <record-id|serial>",
		Short: "Delete a stored animal record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			svc, cleanup, err := initAnimalService(store, false)
			if err != nil {
				return err
			}
			defer cleanup()

			record, err := svc.Get(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !yes {
				prompter := cli.NewPrompter(cmd.InOrStdin(), out)
				question := fmt.Sprintf("Delete record %s for %s owned by %s?",
					record.SerialNumber, record.AnimalName(), record.OwnerName())
				confirmed, err := prompter.Confirm(ctx, question)
				if err != nil && !errors.Is(err, io.EOF) {
					return err
				}
				if !confirmed {
					fmt.Fprintln(out, cli.FormatWarning("Deletion cancelled"))
					return nil
				}
			}

			if _, err := svc.Delete(ctx, record.ID); err != nil {
				return err
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Deleted record %s (%s)", record.SerialNumber, record.ID)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}

func recordTitle(record *model.AnimalRecord) string {
	return fmt.Sprintf("%s %s #%s (%s)", cli.PawIcon, record.AnimalName(), record.SerialNumber,
		record.CreatedAt.Local().Format("2006-01-02"))
}
