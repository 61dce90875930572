package sync

import "strings"

// Op classifies a diff segment.
type Op int

const (
	OpEqual Op = iota
	OpAdd
	OpRemove
)

// Segment is a run of consecutive lines sharing one op. Added lines exist
// only locally, removed lines only upstream.
type Segment struct {
	Op    Op
	Lines []string
}

// DiffLines computes a line-level diff from upstream to local using a longest
// common subsequence, so unchanged regions stay anchored and only real edits
// show as add/remove pairs.
func DiffLines(upstream, local string) []Segment {
	a := splitLines(upstream)
	b := splitLines(local)

	// LCS length table; table[i][j] covers a[i:] vs b[j:].
	table := make([][]int, len(a)+1)
	for i := range table {
		table[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else if table[i+1][j] >= table[i][j+1] {
				table[i][j] = table[i+1][j]
			} else {
				table[i][j] = table[i][j+1]
			}
		}
	}

	var segs []Segment
	appendLine := func(op Op, line string) {
		if n := len(segs); n > 0 && segs[n-1].Op == op {
			segs[n-1].Lines = append(segs[n-1].Lines, line)
			return
		}
		segs = append(segs, Segment{Op: op, Lines: []string{line}})
	}

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			appendLine(OpEqual, a[i])
			i++
			j++
		case table[i+1][j] >= table[i][j+1]:
			appendLine(OpRemove, a[i])
			i++
		default:
			appendLine(OpAdd, b[j])
			j++
		}
	}
	for ; i < len(a); i++ {
		appendLine(OpRemove, a[i])
	}
	for ; j < len(b); j++ {
		appendLine(OpAdd, b[j])
	}
	return segs
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
