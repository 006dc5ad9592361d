package domain

// NodeKind identifies one level of the curriculum hierarchy.
type NodeKind string

const (
	KindSubject      NodeKind = "subject"
	KindOutcome      NodeKind = "outcome"
	KindFocusArea    NodeKind = "focus_area"
	KindFocusGroup   NodeKind = "focus_group"
	KindContentGroup NodeKind = "content_group"
	KindContentPoint NodeKind = "content_point"
)

// NodeKinds lists the hierarchy levels from root to leaf.
var NodeKinds = []NodeKind{
	KindSubject,
	KindOutcome,
	KindFocusArea,
	KindFocusGroup,
	KindContentGroup,
	KindContentPoint,
}

// ChildKind returns the kind a node of kind k may have as children.
// ContentPoint nodes are leaves and report false.
func (k NodeKind) ChildKind() (NodeKind, bool) {
	for i, kind := range NodeKinds {
		if kind == k && i+1 < len(NodeKinds) {
			return NodeKinds[i+1], true
		}
	}
	return "", false
}

// Depth returns the zero-based level of k (Subject = 0), or -1 for an unknown kind.
func (k NodeKind) Depth() int {
	for i, kind := range NodeKinds {
		if kind == k {
			return i
		}
	}
	return -1
}

// Label returns the display name of the kind.
func (k NodeKind) Label() string {
	switch k {
	case KindSubject:
		return "Subject"
	case KindOutcome:
		return "Outcome"
	case KindFocusArea:
		return "Focus Area"
	case KindFocusGroup:
		return "Focus Group"
	case KindContentGroup:
		return "Content Group"
	case KindContentPoint:
		return "Content Point"
	default:
		return string(k)
	}
}
