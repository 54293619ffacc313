package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/usecase/calendar"
)

type outputFormat string

const (
	formatTable outputFormat = "table"
	formatJSON  outputFormat = "json"
	formatYAML  outputFormat = "yaml"
)

func parseFormat(value string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(value)); f {
	case formatTable, formatJSON, formatYAML:
		return f, nil
	}
	return "", &domain.ValidationError{Field: "output", Message: fmt.Sprintf("unknown output format %q", value)}
}

// render writes v as JSON or YAML, or calls table for the tabular form.
// YAML keys follow the JSON tags.
func (a *app) render(format outputFormat, v interface{}, table func(w *tabwriter.Writer)) error {
	switch format {
	case formatJSON:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(a.out, string(out))
		return err
	case formatYAML:
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic interface{}
		if err := yaml.Unmarshal(raw, &generic); err != nil {
			return err
		}
		out, err := yaml.Marshal(generic)
		if err != nil {
			return err
		}
		_, err = a.out.Write(out)
		return err
	default:
		w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
		table(w)
		return w.Flush()
	}
}

func writeTaskRows(w *tabwriter.Writer, tasks []domain.Task) {
	fmt.Fprintln(w, "ID\tDATE\tTASK\tASSIGNEE\tSTATUS\tPRIORITY")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Date.Format(domain.DateLayout), t.TaskName, t.AssignedTo.DisplayName(), t.Status, t.Priority)
	}
}

// writeMonthGrid lays days out in Sunday-first weeks, padding the first row
// up to the weekday of the 1st, then lists the tasks of each day.
func writeMonthGrid(w *tabwriter.Writer, ref time.Time, days []calendar.DayPreview) {
	fmt.Fprintln(w, "Sun\tMon\tTue\tWed\tThu\tFri\tSat")
	lead := int(calendar.FirstOfMonth(ref).Weekday())
	fmt.Fprint(w, strings.Repeat("\t", lead))
	for _, d := range days {
		cell := fmt.Sprintf("%2d", d.Date.Day())
		if d.IsToday {
			cell += "*"
		}
		if n := len(d.Visible) + d.Remaining; n > 0 {
			cell += fmt.Sprintf(" (%d)", n)
		}
		if d.Date.Weekday() == time.Saturday {
			fmt.Fprintln(w, cell)
			continue
		}
		fmt.Fprint(w, cell+"\t")
	}
	if len(days) > 0 && days[len(days)-1].Date.Weekday() != time.Saturday {
		fmt.Fprintln(w)
	}

	for _, d := range days {
		if len(d.Visible) == 0 {
			continue
		}
		line := taskNames(d.Visible)
		if d.Remaining > 0 {
			line += fmt.Sprintf(" +%d more", d.Remaining)
		}
		fmt.Fprintf(w, "%s\t%s\n", d.Date.Format(domain.DateLayout), line)
	}
}

func taskNames(tasks []domain.Task) string {
	names := make([]string, 0, len(tasks))
	for _, t := range tasks {
		names = append(names, t.TaskName)
	}
	return strings.Join(names, ", ")
}
