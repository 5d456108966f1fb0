package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/feelsunbreeze/gradecalc/internal/flow"
	"github.com/feelsunbreeze/gradecalc/internal/grading"
	"github.com/feelsunbreeze/gradecalc/internal/session"
	"github.com/spf13/cobra"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(LIGHT_BLUE)
	valueStyle  = lipgloss.NewStyle().Bold(true).Foreground(LIGHT_GREEN)
	mutedStyle  = lipgloss.NewStyle().Foreground(GREY)
	errorStyle  = lipgloss.NewStyle().Foreground(RED)
)

func newEndSemCmd(a *app) *cobra.Command {
	var (
		subject    string
		courseType string
		target     string
		marks      map[string]string
	)

	cmd := &cobra.Command{
		Use:   "endsem",
		Short: "Work out the end-sem mark needed for a grade",
		Example: `  gradecalc endsem --subject Maths --mark cat1=60 --mark cat2=55 --mark cat3=40 --mark assignment=45 --target A
  gradecalc endsem --type nptel --subject Cloud --mark nptel1=90 ... --mark nptel8=80`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := grading.ParseCourseType(courseType)
			if err != nil {
				return err
			}

			policy := grading.Policy(ct)
			keys := make([]string, 0, len(marks))
			for f := range marks {
				keys = append(keys, f)
			}
			sort.Strings(keys)

			e := flow.NewEndSem(a.session)
			e.SetSubject(subject)
			e.SetCourseType(ct)
			for _, f := range keys {
				if !policy.Requires(grading.Field(f)) {
					return fmt.Errorf("unknown field %q for %s courses, expected one of: %s", f, ct, fieldNames(policy.Fields))
				}
				e.SetMark(grading.Field(f), marks[f])
			}
			if err := e.SubmitInternals(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s out of %s\n",
				headerStyle.Render("Internal mark:"),
				valueStyle.Render(grading.FormatMark(grading.Round2(e.InternalMark()))),
				grading.FormatMark(grading.MaxInternal(ct)),
			)

			if target != "" {
				t, err := grading.ParseTargetGrade(target)
				if err != nil {
					return err
				}
				if err := e.SelectTarget(t); err != nil {
					return err
				}
				r, err := e.CalculateRequired()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, endSemMessage(r))
				return nil
			}

			// No target: show the whole ladder.
			for _, t := range grading.TargetGrades() {
				e.SelectTarget(t)
				r, err := e.CalculateRequired()
				switch {
				case errors.Is(err, grading.ErrUnreachableGrade):
					fmt.Fprintf(out, "%-5s %s\n", t.Label(), errorStyle.Render("out of reach"))
				case err != nil:
					return err
				default:
					fmt.Fprintf(out, "%-5s %s\n", t.Label(), valueStyle.Render(grading.FormatMark(r.RequiredMark)))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Subject name")
	cmd.Flags().StringVar(&courseType, "type", grading.Theory.String(), "Course type: theory, theoryCumLab, nptel or lab")
	cmd.Flags().StringVar(&target, "target", "", "Target grade: pass, B, B+, A, A+ or O (default: every grade)")
	cmd.Flags().StringToStringVar(&marks, "mark", nil, "Internal mark as field=value, e.g. cat1=60 (repeatable)")
	return cmd
}

func newCGPACmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cgpa GPA:CREDITS...",
		Short:   "Combine semester GPAs into a CGPA",
		Example: "  gradecalc cgpa 8.5:20 9:22",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := flow.NewCGPA(a.session)
			for i, arg := range args {
				gpa, credits, ok := strings.Cut(arg, ":")
				if !ok {
					return fmt.Errorf("semester %d: expected GPA:CREDITS, got %q", i+1, arg)
				}
				if i > 0 {
					c.AddSemester()
				}
				id := c.Semesters()[i].ID
				c.SetGPA(id, gpa)
				c.SetCredits(id, credits)
			}

			r, err := c.Calculate()
			if err != nil && !errors.Is(err, session.ErrNotRecorded) {
				return err
			}

			out := cmd.OutOrStdout()
			for _, s := range r.Semesters {
				fmt.Fprintf(out, "Semester %-2d GPA %-5s credits %s\n", s.Number, grading.FormatMark(s.GPA), grading.FormatMark(s.Credits))
			}
			fmt.Fprintf(out, "%s %s %s\n",
				headerStyle.Render("CGPA:"),
				valueStyle.Render(fmt.Sprintf("%.2f", r.CGPA)),
				mutedStyle.Render(fmt.Sprintf("(%s credits)", grading.FormatMark(r.TotalCredits()))),
			)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render(fmt.Sprintf("warning: %s", err)))
			}
			return nil
		},
	}
	return cmd
}

func newHistoryCmd(a *app) *cobra.Command {
	var (
		clearAll bool
		kind     string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or clear past GPA and CGPA calculations",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if clearAll {
				if err := a.session.ClearHistory(); err != nil {
					return err
				}
				fmt.Fprintln(out, "History cleared.")
				return nil
			}

			k, err := parseKind(kind)
			if err != nil {
				return err
			}
			printHistory(out, session.Filter(a.session.History.List(), k))
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearAll, "clear", false, "Delete every history entry")
	cmd.Flags().StringVar(&kind, "kind", "", "Only show one kind: gpa, cgpa or endSem")
	return cmd
}

func fieldNames(fields []grading.Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

func parseKind(s string) (session.Kind, error) {
	if s == "" {
		return "", nil
	}
	for _, k := range historyKinds[1:] {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown history kind %q", s)
}

func printHistory(w io.Writer, entries []session.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No calculations yet."))
		return
	}

	sorted := append([]session.Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-18s %-7s %-7s %s", "DATE", "TYPE", "RESULT", "DETAILS")))
	for _, e := range sorted {
		fmt.Fprintf(w, "%-18s %-7s %-7s %s\n",
			e.CreatedAt.Format("02 Jan 2006 15:04"),
			e.Kind.Label(),
			fmt.Sprintf("%.2f", e.Value()),
			e.Summary(),
		)
	}
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d entries", len(entries))))
}
