package grading

import (
	"github.com/alexanderramin/gradebook/internal/curriculum"
	"github.com/alexanderramin/gradebook/internal/domain"
)

// NodeSummary is the name and resolved average of one node.
type NodeSummary struct {
	ID      string
	Name    string
	Average *float64
}

// RankedGroup is one entry of a top or bottom list.
type RankedGroup struct {
	ContentGroupID string
	Name           string
	Average        float64
	GradeName      string
}

// StudentReport is the per-student figure set handed to presentation.
type StudentReport struct {
	EnrollmentID string
	StudentName  string
	Overall      *float64
	Subjects     []NodeSummary
	// Outcomes maps outcome id to its summary; OutcomeOrder keeps tree order.
	Outcomes     map[string]NodeSummary
	OutcomeOrder []string
	Top          []RankedGroup
	Bottom       []RankedGroup
	// Tree is the full annotated result for detailed views.
	Tree *Result
}

// BuildStudentReport aggregates tree for one enrollment and derives the
// report figures. rankSize <= 0 falls back to DefaultRankSize.
func BuildStudentReport(
	enrollment domain.Enrollment,
	tree *curriculum.Tree,
	idx *AssessmentIndex,
	scales *ScaleResolver,
	rankSize int,
) StudentReport {
	if rankSize <= 0 {
		rankSize = DefaultRankSize
	}
	res := Aggregate(tree, idx, scales)

	rep := StudentReport{
		EnrollmentID: enrollment.ID,
		StudentName:  enrollment.StudentName,
		Overall:      res.Overall(),
		Outcomes:     make(map[string]NodeSummary, len(res.Outcomes())),
		Tree:         res,
	}
	for _, s := range res.Subjects() {
		rep.Subjects = append(rep.Subjects, summarize(s))
	}
	for _, o := range res.Outcomes() {
		rep.Outcomes[o.ID] = summarize(o)
		rep.OutcomeOrder = append(rep.OutcomeOrder, o.ID)
	}

	top, bottom := Rank(res.ContentGroups(), rankSize)
	rep.Top = toRanked(top)
	rep.Bottom = toRanked(bottom)
	return rep
}

func summarize(n *AnnotatedNode) NodeSummary {
	return NodeSummary{ID: n.ID, Name: n.Name, Average: n.Average}
}

func toRanked(nodes []*AnnotatedNode) []RankedGroup {
	out := make([]RankedGroup, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, RankedGroup{
			ContentGroupID: n.ID,
			Name:           n.Name,
			Average:        *n.Average,
			GradeName:      n.GradeName,
		})
	}
	return out
}
