package model

import "strings"

// ZeroSHA is the placeholder object ID GitHub sends as the "before" revision
// on the first push to a branch (no prior commit to diff against).
const ZeroSHA = "0000000000000000000000000000000000000000"

// RevisionPair is the two endpoints of the diff that defines a pipeline run:
// Base is the revision the change is measured against, Head is the revision
// being checked.
type RevisionPair struct {
	Base string
	Head string
}

// BaseMissing reports whether the base revision is absent or the zero-value
// placeholder. The detector fails open on such pairs: an empty change set,
// not an error.
func (rp RevisionPair) BaseMissing() bool {
	return rp.Base == "" || rp.Base == ZeroSHA
}

// Identical reports whether both endpoints name the same revision, in which
// case the diff is empty by definition.
func (rp RevisionPair) Identical() bool {
	return rp.Base != "" && rp.Base == rp.Head
}

// String renders the pair in git range notation for logs.
func (rp RevisionPair) String() string {
	return abbrevRev(rp.Base) + ".." + abbrevRev(rp.Head)
}

// abbrevRev shortens full 40-char SHAs to 12 chars for log readability.
// Symbolic names (branch names, HEAD) pass through unchanged.
func abbrevRev(rev string) string {
	if len(rev) == 40 && !strings.ContainsAny(rev, "/-~^") {
		return rev[:12]
	}
	return rev
}
