// Package grading rolls recorded grades up the curriculum hierarchy and
// ranks content groups by their resolved averages.
//
// Every computation here is pure: inputs are read, never mutated, and the
// result is a fresh annotated copy of the tree. Absent grades are nil
// pointers, never zero, and never count toward a mean.
package grading

import (
	"github.com/alexanderramin/gradebook/internal/curriculum"
	"github.com/alexanderramin/gradebook/internal/domain"
)

// AnnotatedNode is a curriculum node after an aggregation pass.
type AnnotatedNode struct {
	Kind        domain.NodeKind
	ID          string
	Name        string
	Description string
	ChildIDs    []string

	// DirectGrade is the numeric value of a record exactly at this node.
	DirectGrade *float64
	// Average is the value ancestors aggregate.
	Average *float64
	// GradeName names the direct grade of a content group.
	GradeName string
}

// Result is the annotated tree produced by Aggregate.
type Result struct {
	nodes         map[curriculum.Ref]*AnnotatedNode
	subjects      []*AnnotatedNode
	outcomes      []*AnnotatedNode
	contentGroups []*AnnotatedNode
	overall       *float64
}

// Aggregate assigns every node of tree an average in one post-order pass.
//
//   - ContentPoint: its direct grade, if any.
//   - ContentGroup: a direct group-level grade when present, otherwise the
//     unweighted mean of its graded content points.
//   - Every other level: the unweighted mean of its graded direct children.
//
// The overall figure is the unweighted mean of the graded subjects.
func Aggregate(tree *curriculum.Tree, idx *AssessmentIndex, scales *ScaleResolver) *Result {
	p := &pass{
		tree:   tree,
		idx:    idx,
		scales: scales,
		res:    &Result{nodes: make(map[curriculum.Ref]*AnnotatedNode)},
	}
	var subjectAverages []*float64
	for _, s := range tree.Subjects() {
		a := p.visit(s)
		p.res.subjects = append(p.res.subjects, a)
		subjectAverages = append(subjectAverages, a.Average)
	}
	p.res.overall = mean(subjectAverages)
	return p.res
}

type pass struct {
	tree   *curriculum.Tree
	idx    *AssessmentIndex
	scales *ScaleResolver
	res    *Result
}

func (p *pass) visit(n *curriculum.Node) *AnnotatedNode {
	if done, ok := p.res.nodes[n.Ref()]; ok {
		return done
	}
	a := &AnnotatedNode{
		Kind:        n.Kind,
		ID:          n.ID,
		Name:        n.Name,
		Description: n.Description,
		ChildIDs:    append([]string(nil), n.ChildIDs...),
	}
	p.res.nodes[n.Ref()] = a

	var childAverages []*float64
	for _, c := range p.tree.Children(n) {
		childAverages = append(childAverages, p.visit(c).Average)
	}

	switch n.Kind {
	case domain.KindContentPoint:
		if gradeID, ok := p.idx.PointGrade(n.ID); ok {
			if s, ok := p.scales.Resolve(gradeID); ok {
				a.DirectGrade = floatPtr(s.NumericValue)
			}
		}
		a.Average = a.DirectGrade
	case domain.KindContentGroup:
		if gradeID, ok := p.idx.GroupGrade(n.ID); ok {
			if s, ok := p.scales.Resolve(gradeID); ok {
				a.DirectGrade = floatPtr(s.NumericValue)
				a.GradeName = s.Name
			}
		}
		if a.DirectGrade != nil {
			a.Average = a.DirectGrade
		} else {
			a.Average = mean(childAverages)
		}
		p.res.contentGroups = append(p.res.contentGroups, a)
	default:
		a.Average = mean(childAverages)
		if n.Kind == domain.KindOutcome {
			p.res.outcomes = append(p.res.outcomes, a)
		}
	}
	return a
}

// Node returns the annotated node for kind and id.
func (r *Result) Node(kind domain.NodeKind, id string) (*AnnotatedNode, bool) {
	n, ok := r.nodes[curriculum.Ref{Kind: kind, ID: id}]
	return n, ok
}

// Children returns the annotated children of n in order.
func (r *Result) Children(n *AnnotatedNode) []*AnnotatedNode {
	kind, ok := n.Kind.ChildKind()
	if !ok {
		return nil
	}
	out := make([]*AnnotatedNode, 0, len(n.ChildIDs))
	for _, id := range n.ChildIDs {
		if c, ok := r.nodes[curriculum.Ref{Kind: kind, ID: id}]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Subjects returns the annotated subjects in tree order.
func (r *Result) Subjects() []*AnnotatedNode { return r.subjects }

// Outcomes returns every annotated outcome in traversal order.
func (r *Result) Outcomes() []*AnnotatedNode { return r.outcomes }

// ContentGroups returns every annotated content group in traversal order,
// collected during the aggregation pass.
func (r *Result) ContentGroups() []*AnnotatedNode { return r.contentGroups }

// Overall returns the unweighted mean of the graded subjects.
func (r *Result) Overall() *float64 { return r.overall }

// mean is the unweighted mean of the present values, or nil when none are.
func mean(values []*float64) *float64 {
	var sum float64
	var count int
	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		count++
	}
	if count == 0 {
		return nil
	}
	return floatPtr(sum / float64(count))
}

func floatPtr(v float64) *float64 {
	return &v
}
