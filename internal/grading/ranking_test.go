package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func groups(values ...any) []*AnnotatedNode {
	var out []*AnnotatedNode
	for i, v := range values {
		n := &AnnotatedNode{ID: string(rune('a' + i))}
		if f, ok := v.(float64); ok {
			n.Average = floatPtr(f)
		}
		out = append(out, n)
	}
	return out
}

func averages(nodes []*AnnotatedNode) []float64 {
	var out []float64
	for _, n := range nodes {
		out = append(out, *n.Average)
	}
	return out
}

func ids(nodes []*AnnotatedNode) []string {
	var out []string
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func TestRank_TopAndBottom(t *testing.T) {
	top, bottom := Rank(groups(3.0, 5.0, 7.0, 9.0, 2.0, 8.0), 3)
	assert.Equal(t, []float64{9, 8, 7}, averages(top))
	assert.Equal(t, []float64{2, 3, 5}, averages(bottom), "lowest value comes first")
}

func TestRank_DropsUngraded(t *testing.T) {
	top, bottom := Rank(groups(nil, 4.0, nil, 6.0), 3)
	assert.Equal(t, []float64{6, 4}, averages(top))
	assert.Equal(t, []float64{4, 6}, averages(bottom))
}

func TestRank_TiesKeepTraversalOrder(t *testing.T) {
	top, bottom := Rank(groups(5.0, 7.0, 5.0, 5.0), 2)
	assert.Equal(t, []string{"b", "a"}, ids(top))
	assert.Equal(t, []string{"d", "c"}, ids(bottom), "bottom is the reversed suffix of the stable order")
}

func TestRank_FewerThanTwiceN_Overlap(t *testing.T) {
	top, bottom := Rank(groups(1.0, 2.0), 3)
	assert.Equal(t, []float64{2, 1}, averages(top))
	assert.Equal(t, []float64{1, 2}, averages(bottom))
}

func TestRank_NothingGraded(t *testing.T) {
	top, bottom := Rank(groups(nil, nil), 3)
	assert.Empty(t, top)
	assert.Empty(t, bottom)
}

func TestRank_NonPositiveN(t *testing.T) {
	top, bottom := Rank(groups(1.0), 0)
	assert.Empty(t, top)
	assert.Empty(t, bottom)
}

func TestRank_DoesNotReorderInput(t *testing.T) {
	in := groups(1.0, 9.0, 5.0)
	Rank(in, 3)
	assert.Equal(t, []string{"a", "b", "c"}, ids(in))
}
