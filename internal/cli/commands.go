package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/shiftassign"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/export"
)

func newProjectsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects and their headcount",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			_, controller, err := opts.newController()
			if err != nil {
				return err
			}
			if err := controller.LoadDirectory(ctx); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDEPARTMENT\tEMPLOYEES")
			for _, p := range controller.Projects() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Department, len(p.Roster(controller.Employees())))
			}
			return w.Flush()
		},
	}
}

func newShowCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show PROJECT YYYY-MM",
		Short: "Print the shift grid of a project month",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			s, err := opts.open(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			doc, err := s.controller.Export()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", s.project.Name, s.monthKey())
			if len(doc.Rows) == 0 {
				fmt.Fprintln(out, "No employees on this project's roster")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 4, 1, ' ', 0)
			headers := make([]string, len(doc.Headers))
			for i, h := range doc.Headers {
				headers[i] = strings.TrimPrefix(h, "Day ")
			}
			fmt.Fprintln(w, strings.Join(headers, "\t"))
			for _, row := range doc.Rows {
				fmt.Fprintln(w, strings.Join(row, "\t"))
			}
			return w.Flush()
		},
	}
}

func newSetCommand(opts *options) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "set PROJECT YYYY-MM EMPLOYEE DAY VALUE",
		Short: `Set one cell to "RD", a HH:MM-HH:MM range, or "-" to clear it`,
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := args[4]
			if value == "-" {
				value = ""
			}
			if !shiftassign.IsCanonical(value) {
				return fmt.Errorf(`invalid cell value %q, use "RD", HH:MM-HH:MM, HH:MM-, -HH:MM or "-"`, args[4])
			}

			ctx, cancel := opts.context(cmd)
			defer cancel()

			s, err := opts.open(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if err := s.controller.EditCell(args[2], args[3], value); err != nil {
				return err
			}
			return s.save(ctx, cmd.OutOrStdout(), dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Apply the edit without saving")
	return cmd
}

func newToggleCommand(opts *options) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "toggle PROJECT YYYY-MM EMPLOYEE DAY",
		Short: "Toggle the rest day flag of one cell",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			s, err := opts.open(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if err := s.controller.ToggleRestDay(args[2], args[3]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s day %s: %s\n", args[2], args[3], displayCell(s.controller.Cell(args[2], args[3])))
			return s.save(ctx, cmd.OutOrStdout(), dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Apply the edit without saving")
	return cmd
}

func newExportCommand(opts *options) *cobra.Command {
	var (
		format string
		output string
		server bool
	)
	cmd := &cobra.Command{
		Use:   "export PROJECT YYYY-MM",
		Short: "Write the grid as an xlsx or csv spreadsheet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := shiftassign.ParseExportFormat(format)
			if err != nil {
				return err
			}

			ctx, cancel := opts.context(cmd)
			defer cancel()

			s, err := opts.open(ctx, args[0], args[1])
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			var name string
			if server {
				name, err = s.api.DownloadExport(ctx, &buf, s.project.ID, s.monthKey(), f)
			} else {
				name, err = s.controller.ExportTo(&buf, f)
			}
			if err != nil {
				return err
			}

			if output == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			path := output
			if path == "" {
				path = name
			} else if info, err := os.Stat(path); err == nil && info.IsDir() {
				path = filepath.Join(path, name)
			}
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(shiftassign.ExportXLSX), "Export format: xlsx or csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", `Output file or directory, "-" for stdout`)
	cmd.Flags().BoolVar(&server, "server", false, "Render the export on the server from saved data")
	return cmd
}

func newImportCommand(opts *options) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import PROJECT YYYY-MM FILE",
		Short: "Apply the cells of an exported spreadsheet and save",
		Long: `Reads an xlsx or csv file in the export layout. Every non empty cell
overwrites the grid; cells holding "-" leave the grid unchanged.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[2])
			if err != nil {
				return err
			}

			ctx, cancel := opts.context(cmd)
			defer cancel()

			s, err := opts.open(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			incoming, err := shiftassign.AssignmentsFromDocument(doc, s.year, s.month)
			if err != nil {
				return err
			}

			var errs []error
			cells := 0
			for employeeID, days := range incoming {
				for day, value := range days {
					if err := s.controller.EditCell(employeeID, day, value); err != nil {
						errs = append(errs, fmt.Errorf("%s day %s: %w", employeeID, day, err))
						continue
					}
					cells++
				}
			}
			if len(errs) > 0 {
				return errors.Join(errs...)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d cells\n", cells)
			return s.save(ctx, cmd.OutOrStdout(), dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the file without saving")
	return cmd
}

func newClearCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "clear PROJECT YYYY-MM",
		Short: "Delete the saved grid of a project month",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			s, err := opts.open(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if err := s.api.DeleteAssignments(ctx, s.project.ID, s.monthKey()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s %s\n", s.project.Name, s.monthKey())
			return nil
		},
	}
}

func newShiftCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "shift",
		Short: "Print the current shift window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, controller, err := opts.newController()
			if err != nil {
				return err
			}
			window, timeRange := controller.CurrentShift(opts.now())
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", window, timeRange)
			return nil
		},
	}
}

func readDocument(path string) (export.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return export.Document{}, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return export.ReadCSV(f)
	case ".xlsx":
		return export.ReadXLSX(f)
	default:
		return export.Document{}, fmt.Errorf("%w: %s", shiftassign.ErrInvalidExportFormat, filepath.Ext(path))
	}
}

func displayCell(raw string) string {
	if raw == "" {
		return "-"
	}
	return raw
}
