// Package render formats command results for the terminal.
package render

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/omnitool/omni/internal/bitwarden"
	"github.com/omnitool/omni/internal/epicor"
)

var (
	labelStyle   = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("9"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

// Renderer writes formatted results to one destination.
type Renderer struct {
	w     io.Writer
	color bool
}

// New creates a renderer. With color disabled everything is written plain,
// which also keeps test output deterministic.
func New(w io.Writer, color bool) *Renderer {
	return &Renderer{w: w, color: color}
}

func (r *Renderer) label(s string) string {
	if !r.color {
		return s
	}
	return labelStyle.Render(s)
}

// Success prints a confirmation line for a completed mutation.
func (r *Renderer) Success(msg string) {
	if r.color {
		msg = successStyle.Render(msg)
	}
	fmt.Fprintln(r.w, msg)
}

// CaseStatus prints the labeled status block for one case.
func (r *Renderer) CaseStatus(caseNumber string, cs epicor.CaseStatus) {
	lines := []struct {
		label string
		value any
	}{
		{"Case Number:", caseNumber},
		{"Case Owner:", cs.CaseOwner},
		{"Case Contact:", cs.CaseContact},
		{"Internal Contact:", cs.InternalContact},
		{"Case Description:", cs.CaseDescription},
		{"Project:", cs.ProjectID},
		{"Part Num:", cs.PartNum},
		{"Unit Price:", cs.UnitPrice},
		{"Quantity:", cs.Qty},
		{"Phase:", cs.WBSPhaseID},
		{"Op:", cs.WBSPhaseOp},
		{"Current Task:", cs.CurrentTask},
		{"Assigned To:", cs.CurrentTaskAssignee},
		{"Case Developer:", cs.Developer},
		{"Request Date:", cs.RequestedDelivery},
		{"Start Date:", cs.StartDate},
		{"Expected Delivery Date:", cs.ExpectedDeliveryDate},
		{"Estimated Hours:", cs.EstimatedHours},
		{"Hours Scheduled:", cs.HoursScheduled},
		{"Hours Applied:", cs.HoursApplied},
		{"Billed Percent:", cs.BilledPercent},
	}
	for _, l := range lines {
		fmt.Fprintf(r.w, "%s %v\n", r.label(l.label), l.value)
	}
}

// Items prints a table of vault items.
func (r *Renderer) Items(items []bitwarden.Item) {
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tNAME")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\n", it.Type, it.Name)
	}
	tw.Flush()
}

// Item prints a single vault item with its fields.
func (r *Renderer) Item(it bitwarden.Item) {
	fmt.Fprintf(r.w, "%s %s\n", r.label("Name:"), it.Name)
	fmt.Fprintf(r.w, "%s %s\n", r.label("Type:"), it.Type)
	names := make([]string, 0, len(it.Fields))
	for name := range it.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(r.w, "%s %s\n", r.label(name+":"), it.Fields[name])
	}
}

// Comment prints a case comment, or a placeholder when there is none.
func (r *Renderer) Comment(comment string) {
	if comment == "" {
		fmt.Fprintln(r.w, "No comments")
		return
	}
	fmt.Fprintln(r.w, comment)
}
