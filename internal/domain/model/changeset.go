package model

import "strings"

// ChangeSet is the ordered list of repository-relative file paths a pipeline
// run operates on. Order is whatever the diff produced; downstream stages and
// the summary comment preserve it. An empty set is a meaningful result: it
// short-circuits every later stage.
type ChangeSet []string

// Empty reports whether the set contains no files.
func (cs ChangeSet) Empty() bool {
	return len(cs) == 0
}

// FilterSuffix returns the subset of files whose path ends with suffix,
// preserving order. Matching ignores case: contributors on case-insensitive
// filesystems author sources as .SOL or .Sol, and those must still be
// selected. An empty suffix returns the set unchanged.
func (cs ChangeSet) FilterSuffix(suffix string) ChangeSet {
	if suffix == "" {
		return cs
	}
	var out ChangeSet
	for _, f := range cs {
		if strings.HasSuffix(strings.ToLower(f), strings.ToLower(suffix)) {
			out = append(out, f)
		}
	}
	return out
}
