// Package diff computes line diffs between two renderings of a descriptor.
package diff

import (
	"strconv"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Type represents the type of diff operation
type Type int

const (
	Equal Type = iota
	Insert
	Delete
)

// ContextLines is the number of unchanged lines kept around a change
const ContextLines = 3

// Line represents a single line in the diff
type Line struct {
	Type    Type
	Content string
	OldNum  int // 0 for inserted lines
	NewNum  int // 0 for deleted lines
}

// Hunk represents a group of changes with surrounding context
type Hunk struct {
	StartOld int
	StartNew int
	Lines    []Line
}

// Result contains the complete diff between two texts
type Result struct {
	Identical    bool
	Hunks        []Hunk
	LinesAdded   int
	LinesRemoved int
}

// Compute diffs oldText against newText line by line
func Compute(oldText, newText string) *Result {
	result := &Result{}
	if oldText == newText {
		result.Identical = true
		return result
	}

	dmp := diffmatchpatch.New()
	chars1, chars2, lineArray := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(chars1, chars2, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	lines := flatten(diffs)
	for _, l := range lines {
		switch l.Type {
		case Insert:
			result.LinesAdded++
		case Delete:
			result.LinesRemoved++
		}
	}

	result.Hunks = group(lines, ContextLines)
	result.Identical = len(result.Hunks) == 0
	return result
}

// flatten numbers every line of the go-diff output
func flatten(diffs []diffmatchpatch.Diff) []Line {
	var lines []Line
	oldNum, newNum := 1, 1

	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		for _, content := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				lines = append(lines, Line{Type: Equal, Content: content, OldNum: oldNum, NewNum: newNum})
				oldNum++
				newNum++
			case diffmatchpatch.DiffDelete:
				lines = append(lines, Line{Type: Delete, Content: content, OldNum: oldNum})
				oldNum++
			case diffmatchpatch.DiffInsert:
				lines = append(lines, Line{Type: Insert, Content: content, NewNum: newNum})
				newNum++
			}
		}
	}
	return lines
}

// group splits lines into hunks, keeping context unchanged lines around
// each change and merging changes whose context overlaps
func group(lines []Line, context int) []Hunk {
	var hunks []Hunk
	start, end := -1, -1

	flush := func() {
		if start < 0 {
			return
		}
		h := Hunk{Lines: append([]Line(nil), lines[start:end]...)}
		h.StartOld, h.StartNew = startNumbers(lines, start)
		hunks = append(hunks, h)
		start, end = -1, -1
	}

	for i, l := range lines {
		if l.Type == Equal {
			continue
		}
		from := max(0, i-context)
		to := min(len(lines), i+context+1)
		if start >= 0 && from > end {
			flush()
		}
		if start < 0 {
			start = from
		}
		end = max(end, to)
	}
	flush()
	return hunks
}

// startNumbers returns the first old and new line numbers covered from index i
func startNumbers(lines []Line, i int) (int, int) {
	oldNum, newNum := 0, 0
	for _, l := range lines[i:] {
		if oldNum == 0 && l.OldNum > 0 {
			oldNum = l.OldNum
		}
		if newNum == 0 && l.NewNum > 0 {
			newNum = l.NewNum
		}
		if oldNum > 0 && newNum > 0 {
			break
		}
	}
	return oldNum, newNum
}

// Unified renders the result in unified diff form without file headers
func (r *Result) Unified() string {
	var b strings.Builder
	for _, h := range r.Hunks {
		b.WriteString(h.Header())
		b.WriteByte('\n')
		for _, l := range h.Lines {
			b.WriteString(l.Prefix())
			b.WriteString(l.Content)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Header returns the @@ line of the hunk
func (h Hunk) Header() string {
	oldCount, newCount := 0, 0
	for _, l := range h.Lines {
		if l.Type != Insert {
			oldCount++
		}
		if l.Type != Delete {
			newCount++
		}
	}
	return "@@ -" + span(h.StartOld, oldCount) + " +" + span(h.StartNew, newCount) + " @@"
}

// Prefix returns the unified diff marker for the line
func (l Line) Prefix() string {
	switch l.Type {
	case Insert:
		return "+"
	case Delete:
		return "-"
	default:
		return " "
	}
}

func span(start, count int) string {
	if count == 1 {
		return strconv.Itoa(start)
	}
	return strconv.Itoa(start) + "," + strconv.Itoa(count)
}
