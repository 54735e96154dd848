package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dshills/tablescore/internal/backup"
	"github.com/dshills/tablescore/internal/render"
	"github.com/dshills/tablescore/internal/schema"
	"github.com/dshills/tablescore/internal/storage"
)

func newExportCmd(f *rootFlags) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <review-id>",
		Short: "Write a saved review as a Markdown report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(f)
			if err != nil {
				return err
			}
			defer a.Close()
			return runExport(a, args[0], out, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Output file or directory; - for stdout (default: <name>_review.md)")
	return cmd
}

func runExport(a *app, id, outPath string, stdout io.Writer) error {
	rv, ok := a.repo.Get(id)
	if !ok {
		return exitError(exitNotFound, "no review with id %s", id)
	}
	if err := render.Exportable(&rv); err != nil {
		fmt.Fprintln(stdout, "Nothing to export: the review has no name, participants, categories or scores.")
		return nil
	}

	report := render.Markdown(&rv)
	if outPath == "-" {
		fmt.Fprint(stdout, report)
		return nil
	}
	path := outPath
	if path == "" {
		path = render.FileName(&rv)
	} else if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, render.FileName(&rv))
	}

	a.verbose("Writing report to %s", path)
	if err := os.WriteFile(path, []byte(report), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Fprintf(stdout, "Wrote %s\n", path)
	return nil
}

func newBackupCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "backup <file>",
		Short: "Write every saved review to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(f)
			if err != nil {
				return err
			}
			defer a.Close()
			reviews := a.repo.List()
			if err := backup.Write(reviews, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backed up %d reviews to %s\n", len(reviews), args[0])
			return nil
		},
	}
}

func newRestoreCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file>",
		Short: "Add reviews from a backup file, skipping ids already saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(f)
			if err != nil {
				return err
			}
			defer a.Close()
			return runRestore(a, args[0], cmd.OutOrStdout())
		},
	}
}

func runRestore(a *app, path string, out io.Writer) error {
	bf, err := backup.Load(path)
	if err != nil {
		return exitError(exitBadInput, "failed to load backup: %v", err)
	}
	a.verbose("Loaded %d reviews from %s (%s)", len(bf.Reviews), bf.FilePath, bf.Hash)

	var added, skipped, invalid int
	for i := range bf.Reviews {
		rv := bf.Reviews[i]
		if errs := schema.Validate(&rv); len(errs) > 0 {
			invalid++
			fmt.Fprintf(out, "Skipping invalid review %q: %s\n", rv.ID, errs[0])
			continue
		}
		err := a.repo.Insert(rv)
		switch {
		case errors.Is(err, storage.ErrDuplicateID):
			skipped++
			a.verbose("Skipping %s: already saved", rv.ID)
		case err != nil:
			return persistenceExit("restore failed", err)
		default:
			added++
		}
	}
	fmt.Fprintf(out, "Restored %d reviews (%d already present, %d invalid).\n", added, skipped, invalid)
	return nil
}
