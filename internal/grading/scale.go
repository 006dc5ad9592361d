package grading

import "github.com/alexanderramin/gradebook/internal/domain"

// ScaleResolver maps grade-scale ids to their name and numeric value.
type ScaleResolver struct {
	scales map[string]domain.GradeScale
}

func NewScaleResolver(scales []domain.GradeScale) *ScaleResolver {
	m := make(map[string]domain.GradeScale, len(scales))
	for _, s := range scales {
		m[s.ID] = s
	}
	return &ScaleResolver{scales: m}
}

// Resolve returns the scale for id.
func (r *ScaleResolver) Resolve(id string) (domain.GradeScale, bool) {
	if r == nil {
		return domain.GradeScale{}, false
	}
	s, ok := r.scales[id]
	return s, ok
}
