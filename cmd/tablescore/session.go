package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/tablescore/internal/presets"
	"github.com/dshills/tablescore/internal/render"
	"github.com/dshills/tablescore/internal/review"
	"github.com/dshills/tablescore/internal/scoring"
	"github.com/dshills/tablescore/internal/session"
)

const sessionHelp = `Commands (participants and categories are addressed by their number):
  name <restaurant>                  set the restaurant name
  add-participant <name>             add a participant
  rename-participant <n> <name>      rename participant n
  remove-participant <n>             remove participant n and their scores
  add-category <name>                add a category
  rename-category <n> <name>         rename category n
  remove-category <n>                remove category n and its scores
  preset [name]                      add the categories of a preset
  score <participant> <category> <value>
                                     set a score between 1 and 10
  grid                               show the form
  compute                            compute the average and star rating
  draft                              save the form to continue later
  save                               save the review
  reset                              clear the form and the saved draft
  edit <review-id>                   load a saved review for editing
  cancel                             abandon the current edit
  status                             show the form state
  help                               show this help
  quit                               leave the session`

func newSessionCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Fill in a review interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(f)
			if err != nil {
				return err
			}
			defer a.Close()
			return runSession(a, a.newSession(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// sessionRunner dispatches form commands read line by line.
type sessionRunner struct {
	app *app
	s   *session.Session
	out io.Writer
}

func runSession(a *app, s *session.Session, in io.Reader, out io.Writer) error {
	r := &sessionRunner{app: a, s: s, out: out}

	if s.Restore() {
		fmt.Fprintln(out, "Restored the draft saved last time.")
		r.printGrid()
	}
	fmt.Fprintln(out, `Type "help" for commands.`)

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			break
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cmd, rest := splitCommand(line)
		if cmd == "quit" || cmd == "exit" {
			break
		}
		if err := r.dispatch(cmd, rest); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
	fmt.Fprintln(out)
	return sc.Err()
}

func (r *sessionRunner) dispatch(cmd, rest string) error {
	switch cmd {
	case "help":
		fmt.Fprintln(r.out, sessionHelp)
	case "name":
		r.s.SetRestaurantName(rest)
	case "add-participant":
		p := r.s.AddParticipant(rest)
		fmt.Fprintf(r.out, "Participant %d added.\n", len(r.s.Draft().Participants))
		r.app.verbose("Participant id %s", p.ID)
	case "rename-participant":
		p, name, err := r.participantArg(rest)
		if err != nil {
			return err
		}
		return r.s.RenameParticipant(p.ID, name)
	case "remove-participant":
		p, _, err := r.participantArg(rest)
		if err != nil {
			return err
		}
		return r.s.RemoveParticipant(p.ID)
	case "add-category":
		c := r.s.AddCategory(rest)
		fmt.Fprintf(r.out, "Category %d added.\n", len(r.s.Draft().Categories))
		r.app.verbose("Category id %s", c.ID)
	case "rename-category":
		c, name, err := r.categoryArg(rest)
		if err != nil {
			return err
		}
		return r.s.RenameCategory(c.ID, name)
	case "remove-category":
		c, _, err := r.categoryArg(rest)
		if err != nil {
			return err
		}
		return r.s.RemoveCategory(c.ID)
	case "preset":
		return r.applyPreset(rest)
	case "score":
		return r.setScore(rest)
	case "grid":
		r.printGrid()
	case "compute":
		return r.compute()
	case "draft":
		if err := r.s.SaveDraft(); err != nil {
			return err
		}
		fmt.Fprintln(r.out, "Draft saved. You can continue later.")
	case "save":
		return r.save()
	case "reset":
		if err := r.s.Reset(); err != nil {
			return err
		}
		fmt.Fprintln(r.out, "Form cleared.")
	case "edit":
		if err := r.s.LoadForEdit(rest); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Editing review %s.\n", rest)
		r.printGrid()
	case "cancel":
		if err := r.s.CancelEdit(); err != nil {
			return err
		}
		fmt.Fprintln(r.out, "Edit cancelled.")
	case "status":
		r.printStatus()
	default:
		return fmt.Errorf("unknown command %q (try \"help\")", cmd)
	}
	return nil
}

func (r *sessionRunner) applyPreset(name string) error {
	if name == "" {
		name = r.app.cfg.Preset
	}
	if name == "" {
		name = presets.Default
	}
	p, err := presets.LoadBuiltin(name)
	if err != nil {
		return err
	}
	added := r.s.AddCategories(p.Categories...)
	fmt.Fprintf(r.out, "Added %d categories from preset %s.\n", len(added), p.Name)
	return nil
}

func (r *sessionRunner) setScore(rest string) error {
	fields := strings.Fields(rest)
	if len(fields) != 3 {
		return errors.New("usage: score <participant> <category> <value>")
	}
	d := r.s.Draft()
	p, err := pickIndex(fields[0], len(d.Participants), "participant")
	if err != nil {
		return err
	}
	c, err := pickIndex(fields[1], len(d.Categories), "category")
	if err != nil {
		return err
	}
	v, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return fmt.Errorf("invalid score %q", fields[2])
	}
	return r.s.SetScore(d.Participants[p].ID, d.Categories[c].ID, v)
}

func (r *sessionRunner) compute() error {
	out, err := r.s.Compute()
	if err != nil {
		var ig *scoring.IncompleteGridError
		if errors.As(err, &ig) {
			return fmt.Errorf("please enter a score for every participant and category (%d of %d filled)", ig.Filled, ig.Expected)
		}
		return err
	}
	if out.Status == scoring.NotReady {
		fmt.Fprintln(r.out, "Nothing to compute yet: add participants, categories and scores.")
		return nil
	}
	fmt.Fprintf(r.out, "Average: %s / 10\n", scoring.FormatAverage(out.Average))
	fmt.Fprintf(r.out, "Stars:   %s (%s / 5)\n", render.StarRow(out.StarRating), scoring.FormatStarRating(out.StarRating))
	fmt.Fprintln(r.out, "Draft cleared.")
	return nil
}

func (r *sessionRunner) save() error {
	editing := r.s.EditingID() != ""
	rv, err := r.s.Save()
	if err != nil {
		var sve *session.SaveValidationError
		if errors.As(err, &sve) {
			return fmt.Errorf("fill in every field and compute the rating before saving (missing: %s)", strings.Join(sve.Missing, ", "))
		}
		return err
	}
	if editing {
		fmt.Fprintf(r.out, "Updated review %s.\n", rv.ID)
	} else {
		fmt.Fprintf(r.out, "Saved review %s.\n", rv.ID)
	}
	return nil
}

func (r *sessionRunner) participantArg(rest string) (review.Participant, string, error) {
	idx, tail := splitCommand(rest)
	d := r.s.Draft()
	i, err := pickIndex(idx, len(d.Participants), "participant")
	if err != nil {
		return review.Participant{}, "", err
	}
	return d.Participants[i], tail, nil
}

func (r *sessionRunner) categoryArg(rest string) (review.Category, string, error) {
	idx, tail := splitCommand(rest)
	d := r.s.Draft()
	i, err := pickIndex(idx, len(d.Categories), "category")
	if err != nil {
		return review.Category{}, "", err
	}
	return d.Categories[i], tail, nil
}

func (r *sessionRunner) printStatus() {
	fmt.Fprintf(r.out, "State: %s\n", r.s.State())
	if id := r.s.EditingID(); id != "" {
		fmt.Fprintf(r.out, "Editing: %s\n", id)
	}
	if agg, ok := r.s.Aggregate(); ok {
		note := ""
		if agg.Carried {
			note = " (saved value)"
		}
		fmt.Fprintf(r.out, "Rating: %s / 10, %s / 5%s\n",
			scoring.FormatAverage(agg.Average), scoring.FormatStarRating(agg.StarRating), note)
	}
}

func (r *sessionRunner) printGrid() {
	d := r.s.Draft()
	fmt.Fprintf(r.out, "Restaurant: %s\n", d.RestaurantName)
	if len(d.Participants) == 0 || len(d.Categories) == 0 {
		fmt.Fprintf(r.out, "%d participants, %d categories\n", len(d.Participants), len(d.Categories))
		return
	}

	tw := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprint(tw, "\t")
	for i, p := range d.Participants {
		fmt.Fprintf(tw, "%d. %s\t", i+1, p.Name)
	}
	fmt.Fprintln(tw)
	for i, c := range d.Categories {
		fmt.Fprintf(tw, "%d. %s\t", i+1, c.Name)
		for _, p := range d.Participants {
			cell := "-"
			if v, ok := scoring.Lookup(d.Scores, p.ID, c.ID); ok {
				cell = scoring.FormatScore(v)
			}
			fmt.Fprintf(tw, "%s\t", cell)
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
	r.printStatus()
}

// splitCommand splits a line into its first word and the trimmed rest.
func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return strings.ToLower(line), ""
	}
	return strings.ToLower(line[:i]), strings.TrimSpace(line[i+1:])
}

// pickIndex parses a 1-based index into a 0-based one bounded by n.
func pickIndex(s string, n int, what string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 1 || i > n {
		if n == 0 {
			return 0, fmt.Errorf("no %ss yet", what)
		}
		return 0, fmt.Errorf("%s must be a number from 1 to %d, got %q", what, n, s)
	}
	return i - 1, nil
}
