package edstan

import "fmt"

// Normalize maps a sequence of labels to dense 1-based integer indices.
// Distinct labels are numbered in order of first appearance, so the returned
// unique slice and the indices satisfy unique[indices[k]-1] == labels[k] for
// every position k. Index 0 is never assigned.
//
// The mapping is a bijection between the distinct labels and 1..len(unique).
// Labels may be any comparable scalar: strings, ints, or mixed test codes.
func Normalize[L comparable](labels []L) (indices []int, unique []L) {
	indices = make([]int, len(labels))
	unique = make([]L, 0)
	seen := make(map[L]int, len(labels))
	for k, label := range labels {
		idx, ok := seen[label]
		if !ok {
			unique = append(unique, label)
			idx = len(unique)
			seen[label] = idx
		}
		indices[k] = idx
	}
	return indices, unique
}

// labelStrings renders labels for display and table indexing.
func labelStrings[L comparable](labels []L) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = fmt.Sprint(l)
	}
	return out
}

// positionLabels returns "1".."n", the default labels for unlabeled axes.
func positionLabels(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprint(i + 1)
	}
	return out
}
