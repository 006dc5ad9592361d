package domain

// GradeScale is one evaluation level. NumericValue is what the aggregation
// engine averages.
type GradeScale struct {
	ID           string
	Name         string
	NumericValue float64
}
