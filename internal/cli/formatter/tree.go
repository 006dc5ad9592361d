package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem represents a single node in a tree display.
type TreeItem struct {
	Title  string
	Level  int
	IsLast bool
	// Badge is right-aligned after the title, already styled.
	Badge string
	// Marked items get a blue ◆ prefix.
	Marked bool
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// RenderTree renders a pre-order list of TreeItems as an indented tree using
// box-drawing characters for connectors. Badges are right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type lineInfo struct {
		content string
		badge   string
	}

	lines := make([]lineInfo, len(items))
	maxContentWidth := 0
	// lastAt[l] reports whether the most recent item at level l closed its
	// sibling list, so deeper rows stop drawing that level's pipe.
	var lastAt []bool

	// Pass 1: build each line's content and track max visible width.
	for idx, item := range items {
		for len(lastAt) <= item.Level {
			lastAt = append(lastAt, false)
		}
		lastAt[item.Level] = item.IsLast

		var prefix string
		if item.Level > 0 {
			for i := 1; i < item.Level; i++ {
				if lastAt[i] {
					prefix += treeBlank
				} else {
					prefix += treePipe
				}
			}
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		title := item.Title
		if item.Level == 0 {
			title = Bold(title)
		}
		if item.Marked {
			title = StyleBlue.Render("◆ ") + title
		}

		content := prefix + title
		lines[idx] = lineInfo{content: content, badge: item.Badge}
		if w := lipgloss.Width(content); w > maxContentWidth {
			maxContentWidth = w
		}
	}

	// Pass 2: render with right-aligned badges.
	var b strings.Builder
	for _, li := range lines {
		if li.badge != "" {
			pad := maxContentWidth - lipgloss.Width(li.content)
			if pad < 0 {
				pad = 0
			}
			b.WriteString(li.content + strings.Repeat(" ", pad) + "  " + li.badge + "\n")
		} else {
			b.WriteString(li.content + "\n")
		}
	}

	return b.String()
}
