package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/soapbox/internal/cli"
)

func patientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patient",
		Short: "Manage patients",
	}
	cmd.AddCommand(patientAddCmd())
	cmd.AddCommand(patientListCmd())
	cmd.AddCommand(patientNextIDCmd())
	return cmd
}

func patientAddCmd() *cobra.Command {
	var id, name, dob, contact string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a patient",
		Long: `Register a patient. Missing values are asked for interactively; the
patient ID defaults to the next free P#### number.`,
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

			prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			if id == "" {
				next, err := mgr.NextPatientID(ctx)
				if err != nil {
					return err
				}
				if id, err = prompter.Ask(ctx, "Patient ID", next); err != nil {
					return err
				}
			}
			if name == "" {
				if name, err = prompter.AskRequired(ctx, "Name"); err != nil {
					return err
				}
			}

			patient, err := mgr.AddPatient(ctx, id, name, dob, contact)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added patient %s (%s)", patient.PatientID, patient.Name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "patient ID (default: next free ID)")
	cmd.Flags().StringVar(&name, "name", "", "patient name")
	cmd.Flags().StringVar(&dob, "dob", "", "date of birth (YYYY-MM-DD)")
	cmd.Flags().StringVar(&contact, "contact", "", "contact information")
	return cmd
}

func patientListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List patients",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			patients, err := store.GetPatients(ctx)
			if err != nil {
				return fmt.Errorf("failed to get patients: %w", err)
			}
			if len(patients) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.InfoStyle.Render("No patients found. Use 'soap patient add' or 'soap seed' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("ID"), cli.BoldStyle.Render("Name"),
				cli.BoldStyle.Render("Date of Birth"), cli.BoldStyle.Render("Contact"))
			for _, p := range patients {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.PatientID, p.Name, p.DateOfBirth, p.Contact)
			}
			return nil
		},
	}
}

func patientNextIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next-id",
		Short: "Print the next free patient ID",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			id, err := store.NextPatientID(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

func doctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Manage doctors",
	}
	cmd.AddCommand(doctorAddCmd())
	cmd.AddCommand(doctorListCmd())
	return cmd
}

func doctorAddCmd() *cobra.Command {
	var name, specialty, contact string

	cmd := &cobra.Command{
		Use:   "add <doctor-id>",
		Short: "Register a doctor",
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

			if name == "" {
				prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				if name, err = prompter.AskRequired(ctx, "Name"); err != nil {
					return err
				}
			}

			doctor, err := mgr.AddDoctor(ctx, args[0], name, specialty, contact)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added doctor %s (%s)", doctor.DoctorID, doctor.Name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "doctor name")
	cmd.Flags().StringVar(&specialty, "specialty", "", "specialty")
	cmd.Flags().StringVar(&contact, "contact", "", "contact information")
	return cmd
}

func doctorListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List doctors",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			doctors, err := store.GetDoctors(ctx)
			if err != nil {
				return fmt.Errorf("failed to get doctors: %w", err)
			}
			if len(doctors) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.InfoStyle.Render("No doctors found. Use 'soap doctor add' or 'soap seed' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("ID"), cli.BoldStyle.Render("Name"),
				cli.BoldStyle.Render("Specialty"), cli.BoldStyle.Render("Contact"))
			for _, d := range doctors {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.DoctorID, d.Name, d.Specialty, d.Contact)
			}
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the demo patient and doctor",
		Long:  `Create patient P0001 (John Doe) and doctor D001 (Dr. Smith) if they do not exist.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SeedDemo(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Demo patient P0001 and doctor D001 are ready"))
			return nil
		},
	}
}
