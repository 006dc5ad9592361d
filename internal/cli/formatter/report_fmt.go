package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/gradebook/internal/app"
	"github.com/alexanderramin/gradebook/internal/domain"
	"github.com/alexanderramin/gradebook/internal/grading"
)

// ReportOptions controls FormatReport.
type ReportOptions struct {
	// Tree appends the full annotated curriculum tree per student.
	Tree bool
	// MaxScale is the highest grade scale value, used for colors and bars.
	MaxScale float64
}

const barWidth = 12

// FormatReport renders one block per student of resp.
func FormatReport(resp *app.ReportResponse, opts ReportOptions) string {
	var b strings.Builder

	title := "Class report"
	if resp.ClassName != "" {
		title += ": " + resp.ClassName
	}
	b.WriteString(Header(title))
	b.WriteString("\n\n")

	if len(resp.Students) == 0 {
		b.WriteString(Dim("No students enrolled."))
		b.WriteString("\n")
		return b.String()
	}

	for i, s := range resp.Students {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatStudentReport(s, opts))
	}
	return b.String()
}

// FormatStudentReport renders the overall, subject, outcome and ranking
// figures of one student.
func FormatStudentReport(s grading.StudentReport, opts ReportOptions) string {
	var b strings.Builder

	b.WriteString(Bold(s.StudentName))
	b.WriteString("  ")
	b.WriteString(Dim("overall "))
	b.WriteString(RenderAverageBar(s.Overall, opts.MaxScale, barWidth))
	b.WriteString("\n\n")

	subjectRows := make([][]string, 0, len(s.Subjects))
	for _, subj := range s.Subjects {
		subjectRows = append(subjectRows, []string{subj.Name, StyledAverage(subj.Average, opts.MaxScale)})
	}
	b.WriteString(RenderTable([]string{"SUBJECT", "AVERAGE"}, subjectRows))
	b.WriteString("\n")

	outcomeRows := make([][]string, 0, len(s.OutcomeOrder))
	for _, id := range s.OutcomeOrder {
		o := s.Outcomes[id]
		outcomeRows = append(outcomeRows, []string{o.Name, StyledAverage(o.Average, opts.MaxScale)})
	}
	b.WriteString(RenderTable([]string{"OUTCOME", "AVERAGE"}, outcomeRows))
	b.WriteString("\n")

	b.WriteString(formatRanked("Strongest", s.Top, opts.MaxScale))
	b.WriteString(formatRanked("Needs work", s.Bottom, opts.MaxScale))

	if opts.Tree && s.Tree != nil {
		b.WriteString("\n")
		b.WriteString(RenderTree(AnnotatedTreeItems(s.Tree, opts.MaxScale)))
	}
	return b.String()
}

func formatRanked(title string, groups []grading.RankedGroup, max float64) string {
	var b strings.Builder
	b.WriteString(StyleHeader.Render(title))
	b.WriteString("\n")
	if len(groups) == 0 {
		b.WriteString("  " + Dim("no graded content groups") + "\n")
		return b.String()
	}
	for i, g := range groups {
		avg := g.Average
		line := fmt.Sprintf("  %d. %s  %s", i+1, g.Name, StyledAverage(&avg, max))
		if g.GradeName != "" {
			line += " " + Dim("("+g.GradeName+")")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// AnnotatedTreeItems flattens res into pre-order tree rows with average
// badges. Nodes carrying a direct grade are marked.
func AnnotatedTreeItems(res *grading.Result, max float64) []TreeItem {
	var items []TreeItem
	var walk func(n *grading.AnnotatedNode, level int, last bool)
	walk = func(n *grading.AnnotatedNode, level int, last bool) {
		title := n.Name
		if n.GradeName != "" {
			title += " " + Dim("("+n.GradeName+")")
		}
		items = append(items, TreeItem{
			Title:  title,
			Level:  level,
			IsLast: last,
			Badge:  StyledAverage(n.Average, max),
			Marked: n.DirectGrade != nil,
		})
		children := res.Children(n)
		for i, c := range children {
			walk(c, level+1, i == len(children)-1)
		}
	}
	subjects := res.Subjects()
	for i, s := range subjects {
		walk(s, 0, i == len(subjects)-1)
	}
	return items
}

// FormatScales renders the grade scales as a table.
func FormatScales(scales []domain.GradeScale) string {
	if len(scales) == 0 {
		return Dim("No grade scales defined.") + "\n"
	}
	rows := make([][]string, 0, len(scales))
	for _, s := range scales {
		rows = append(rows, []string{s.ID, s.Name, strconv.FormatFloat(s.NumericValue, 'f', -1, 64)})
	}
	return RenderTable([]string{"ID", "NAME", "VALUE"}, rows)
}

// MaxScaleValue returns the highest numeric value among scales, or 0.
func MaxScaleValue(scales []domain.GradeScale) float64 {
	var max float64
	for _, s := range scales {
		if s.NumericValue > max {
			max = s.NumericValue
		}
	}
	return max
}

// FormatSaved confirms a persisted grade record.
func FormatSaved(rec *domain.GradeRecord, scaleName string) string {
	target := rec.ContentGroupID
	if rec.ContentPointID != nil {
		target += "/" + *rec.ContentPointID
	}
	out := fmt.Sprintf("%s %s graded %s on %s %s\n",
		StyleGreen.Render("✔"), TruncID(rec.EnrollmentID), Bold(scaleName), target, TruncID(rec.ID))
	if notes := rec.NotesText(); notes != "" {
		out += "  " + Dim("notes: "+notes) + "\n"
	}
	return out
}

// FormatCleared confirms a cleared assessment key.
func FormatCleared(key domain.AssessmentKey) string {
	target := key.ContentGroupID
	if key.ContentPointID != "" {
		target += "/" + key.ContentPointID
	}
	return fmt.Sprintf("%s cleared %s for %s\n", StyleYellow.Render("✖"), target, TruncID(key.EnrollmentID))
}
