package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRow struct {
	Title  string
	School string
}

func sampleFields(r sampleRow) []string {
	return []string{r.Title, r.School}
}

func TestFilterBlankQueryReturnsInputUnchanged(t *testing.T) {
	rows := []sampleRow{
		{Title: "Spring Cup", School: "Oak"},
		{Title: "Winter Open", School: "Pine"},
	}

	got := Filter(rows, "", sampleFields)
	assert.Equal(t, rows, got)

	got = Filter(rows, "   ", sampleFields)
	assert.Equal(t, rows, got, "whitespace-only queries must not filter")
}

func TestFilterCaseInsensitiveSubstring(t *testing.T) {
	rows := []sampleRow{
		{Title: "Arsenal vs Chelsea", School: "North High"},
		{Title: "Derby", School: "arsenal academy"},
		{Title: "Final", School: "South High"},
	}

	got := Filter(rows, "ARSENAL", sampleFields)
	assert.Len(t, got, 2)

	got = Filter(rows, "high", sampleFields)
	assert.Len(t, got, 2)

	got = Filter(rows, "nomatch", sampleFields)
	assert.Empty(t, got)
}

func TestFilterPreservesOrder(t *testing.T) {
	rows := []sampleRow{
		{Title: "b cup"},
		{Title: "a cup"},
		{Title: "c cup"},
	}

	got := Filter(rows, "cup", sampleFields)
	assert.Equal(t, rows, got, "filtering must not reorder rows")
}
