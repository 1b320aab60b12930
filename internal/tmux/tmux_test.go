package tmux

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePanes(t *testing.T) {
	out := "%1\t1234\t⠴ claude\tmain:1.0\n" +
		"%2\t5678\tzsh\tmain:2.0\n" +
		"%9\t9999\tvim\twork:0.1\n"

	panes := parsePanes(out)
	assert.Len(t, panes, 3)

	assert.Equal(t, "%1", panes[0].ID)
	assert.Equal(t, "1234", panes[0].PID)
	assert.Equal(t, "⠴ claude", panes[0].Title)
	assert.Equal(t, "main:1.0", panes[0].Target)
	assert.Equal(t, "main", panes[0].Owner)

	assert.Equal(t, "work", panes[2].Owner)
}

func TestParsePanesSkipsShortLines(t *testing.T) {
	out := "%1\t1234\ttitle-without-target\n" + // 3 fields
		"\n" + // empty
		"%2\t5678\tok\tmain:1.1\n"

	panes := parsePanes(out)
	assert.Len(t, panes, 1)
	assert.Equal(t, "%2", panes[0].ID)
}

func TestParsePanesSkipsEmptyOwner(t *testing.T) {
	out := "%1\t1234\ttitle\t:1.0\n"
	assert.Empty(t, parsePanes(out))
}

func TestParsePanesTitleWithTabsTruncated(t *testing.T) {
	// A title containing a tab shifts fields; the line still parses with
	// the remainder treated as later fields. We only guarantee the four
	// leading fields are used.
	out := "%1\t1234\ttab\there\tmain:1.0\n"
	panes := parsePanes(out)
	// "here" lands in the target slot; owner becomes "here" up to ':'.
	assert.Len(t, panes, 1)
	assert.Equal(t, "tab", panes[0].Title)
}
