package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderAverageBar renders an average as a bar like [████░░░░] 2.50.
// The bar fills in proportion to avg/max and takes AverageStyle's color.
func RenderAverageBar(avg *float64, max float64, width int) string {
	if width < 2 {
		width = 2
	}
	if avg == nil || max <= 0 {
		return fmt.Sprintf("[%s] %s", Dim(strings.Repeat(emptyBlock, width)), Dim(NoGrade))
	}

	pct := *avg / max
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	filled := int(pct * float64(width))
	empty := width - filled

	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, empty)
	return fmt.Sprintf("[%s] %s", AverageStyle(*avg, max).Render(bar), FormatAverage(avg))
}
