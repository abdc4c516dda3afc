package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Veraticus/soapbox/internal/animal"
	"github.com/Veraticus/soapbox/internal/cli"
	"github.com/Veraticus/soapbox/internal/model"
)

func animalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "animal",
		Short: "Veterinary animal records",
		Long: `Turn photographed or scanned veterinary charts into searchable records
and printable PDFs. Records can also be entered, edited and deleted by hand.
Each saved record gets a daily serial number (yyyymmdd-NNN) that any command
taking a record ID also accepts.`,
	}
	cmd.AddCommand(animalExtractCmd())
	cmd.AddCommand(animalAddCmd())
	cmd.AddCommand(animalEditCmd())
	cmd.AddCommand(animalDeleteCmd())
	cmd.AddCommand(animalListCmd())
	cmd.AddCommand(animalSearchCmd())
	cmd.AddCommand(animalShowCmd())
	cmd.AddCommand(animalPDFCmd())
	return cmd
}

func animalExtractCmd() *cobra.Command {
	var save bool
	var pdfDir string

	cmd := &cobra.Command{
		Use:   "extract <image>...",
		Short: "Extract records from chart images",
		Long: `Send each chart image to the configured vision provider and print the
extracted owner, animal and treatment information. Use --save to store the
records and --pdf-dir to render each one as a PDF.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			svc, cleanup, err := initAnimalService(store, true)
			if err != nil {
				return err
			}
			defer cleanup()

			if pdfDir != "" {
				if err := os.MkdirAll(pdfDir, 0o750); err != nil {
					return fmt.Errorf("failed to create %s: %w", pdfDir, err)
				}
			}

			out := cmd.OutOrStdout()
			bar := cli.NewProgressBar(out, len(args), "Extracting records...")
			var failed int
			for _, path := range args {
				if err := extractOne(cmd, svc, path, save, pdfDir); err != nil {
					failed++
					slog.Error("Failed to process chart image", "file", path, "error", err)
				}
				if err := bar.Add(1); err != nil {
					slog.Warn("Failed to update progress bar", "error", err)
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d images failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "store extracted records")
	cmd.Flags().StringVar(&pdfDir, "pdf-dir", "", "directory to write a PDF for each record")
	return cmd
}

func extractOne(cmd *cobra.Command, svc *animal.Service, path string, save bool, pdfDir string) error {
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied chart image
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	draft, err := svc.ExtractFromImage(cmd.Context(), filepath.Base(path), data)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.FormatRecord(filepath.Base(path), draft))

	record := &model.AnimalRecord{AnimalRecordDraft: *draft}
	if save {
		saved, err := svc.Save(cmd.Context(), draft)
		if err != nil {
			return err
		}
		record = saved
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Saved record %s (%s)", saved.SerialNumber, saved.ID)))
	}

	if pdfDir != "" {
		target := filepath.Join(pdfDir, pdfNameFor(record, path))
		if err := writePDF(svc, draft, target); err != nil {
			return err
		}
		fmt.Fprintln(out, cli.FormatSuccess("Wrote "+target))
	}
	return nil
}

func pdfNameFor(record *model.AnimalRecord, source string) string {
	if record.ID != "" {
		return animal.PDFFileName(record)
	}
	base := filepath.Base(source)
	return base[:len(base)-len(filepath.Ext(base))] + ".pdf"
}

func writePDF(svc *animal.Service, draft *model.AnimalRecordDraft, target string) error {
	data, err := svc.RenderPDF(draft)
	if err != nil {
		return err
	}
	if err := os.WriteFile(target, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}

func animalListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all animal records, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return searchRecords(cmd, "")
		},
	}
}

func animalSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Search records by serial number, owner, animal, species or breed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return searchRecords(cmd, args[0])
		},
	}
}

func searchRecords(cmd *cobra.Command, term string) error {
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

	records, err := svc.Search(ctx, term)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatRecordList(records))
	return nil
}

func animalShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <record-id|serial>",
		Short: "Show a stored animal record",
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
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatRecord(recordTitle(record), &record.AnimalRecordDraft))
			return nil
		},
	}
}

func animalPDFCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "pdf <record-id|serial>",
		Short: "Render a stored record as a PDF",
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
			if output == "" {
				output = animal.PDFFileName(record)
			}
			if err := writePDF(svc, &record.AnimalRecordDraft, output); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Wrote "+output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "PDF file (default: derived from the record)")
	return cmd
}
