package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/tablescore/internal/presets"
	"github.com/dshills/tablescore/internal/render"
	"github.com/dshills/tablescore/internal/review"
	"github.com/dshills/tablescore/internal/schema"
)

func newListCmd(f *rootFlags) *cobra.Command {
	var sortBy string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved reviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			by, err := review.ParseSortKey(sortBy)
			if err != nil {
				return exitError(exitBadInput, "%v", err)
			}
			a, err := openApp(f)
			if err != nil {
				return err
			}
			defer a.Close()
			return runList(a, by, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&sortBy, "sort", "saved", "Order: saved, newest, average, name")
	return cmd
}

func runList(a *app, by review.SortKey, out io.Writer) error {
	reviews := a.repo.List()
	if len(reviews) == 0 {
		fmt.Fprintln(out, "No saved reviews.")
		return nil
	}
	review.SortReviews(reviews, by)
	for i := range reviews {
		fmt.Fprintln(out, render.Summary(&reviews[i]))
	}
	return nil
}

func newShowCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <review-id>",
		Short: "Print a saved review as Markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(f)
			if err != nil {
				return err
			}
			defer a.Close()
			rv, ok := a.repo.Get(args[0])
			if !ok {
				return exitError(exitNotFound, "no review with id %s", args[0])
			}
			fmt.Fprint(cmd.OutOrStdout(), render.Markdown(&rv))
			return nil
		},
	}
}

func newDeleteCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <review-id>",
		Short: "Delete a saved review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(f)
			if err != nil {
				return err
			}
			defer a.Close()
			return runDelete(a, args[0], cmd.OutOrStdout())
		},
	}
}

func runDelete(a *app, id string, out io.Writer) error {
	ok, err := a.repo.Delete(id)
	if err != nil {
		return persistenceExit("delete failed", err)
	}
	if !ok {
		fmt.Fprintf(out, "No review with id %s; nothing deleted.\n", id)
		return nil
	}
	fmt.Fprintf(out, "Deleted review %s.\n", id)
	return nil
}

func newClearCmd(f *rootFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every saved review and the in-progress draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return exitError(exitBadInput, "this deletes ALL saved data and cannot be undone; re-run with --yes")
			}
			a, err := openApp(f)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.newSession().ClearAll(); err != nil {
				return persistenceExit("clear failed", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All saved data cleared.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion of all data")
	return cmd
}

func newCheckCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate every saved review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(f)
			if err != nil {
				return err
			}
			defer a.Close()
			return runCheck(a, cmd.OutOrStdout())
		},
	}
}

func runCheck(a *app, out io.Writer) error {
	reviews := a.repo.List()
	a.verbose("Checking %d reviews", len(reviews))
	bad := 0
	for i := range reviews {
		errs := schema.Validate(&reviews[i])
		if len(errs) == 0 {
			continue
		}
		bad++
		fmt.Fprintf(out, "%s (%s):\n", reviews[i].ID, reviews[i].RestaurantName)
		for _, e := range errs {
			fmt.Fprintf(out, "  %s\n", e)
		}
	}
	if bad > 0 {
		return exitError(exitInvalid, "%d of %d reviews failed validation", bad, len(reviews))
	}
	fmt.Fprintf(out, "%d reviews OK.\n", len(reviews))
	return nil
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List built-in category presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := presets.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, n := range names {
				p, err := presets.LoadBuiltin(n)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
					continue
				}
				fmt.Fprintf(out, "%-12s %v\n", p.Name, p.Categories)
			}
			return nil
		},
	}
}
