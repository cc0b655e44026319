// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package issues

// LocalIssue is a requirement or test case projected into the shape the
// tracker stores.
type LocalIssue struct {
	Labels   []string `yaml:"labels"`
	Title    string   `yaml:"title"`
	TextBody string   `yaml:"text_body"`
}

// RemoteIssue is one issue from the tracker snapshot. Body is nil when
// the tracker returned no body.
type RemoteIssue struct {
	Number int
	Title  string
	Body   *string
	Labels []string
	URL    string
}

// BodyText returns the body, treating a missing body as empty.
func (r RemoteIssue) BodyText() string {
	if r.Body == nil {
		return ""
	}
	return *r.Body
}

// hasLabel returns true if the issue has the given label.
func (r RemoteIssue) hasLabel(label string) bool {
	for _, l := range r.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// IssueMatchType classifies a local issue against the tracker.
type IssueMatchType int

const (
	Missing         IssueMatchType = iota // no candidate on the tracker
	Match                                 // candidate with identical title and body
	MatchedWithDiff                       // candidate whose title or body differs
)

func (t IssueMatchType) String() string {
	switch t {
	case Missing:
		return "missing"
	case Match:
		return "match"
	case MatchedWithDiff:
		return "matched-with-diff"
	default:
		return "unknown"
	}
}

// GithubIssueMatches is the reconciliation result for one local issue.
type GithubIssueMatches struct {
	LocalIssue  LocalIssue
	GithubIssue *RemoteIssue // nil when MatchType is Missing
	MatchType   IssueMatchType
	// RemoteIndex is the position of GithubIssue in the remote snapshot,
	// -1 when MatchType is Missing.
	RemoteIndex int
}

// Reconcile classifies every local issue against the remote snapshot and
// returns one result per local issue, in input order. The first remote
// issue carrying all of the local issue's labels is its candidate.
func Reconcile(local []LocalIssue, remote []RemoteIssue) []GithubIssueMatches {
	results := make([]GithubIssueMatches, 0, len(local))
	for _, li := range local {
		result := GithubIssueMatches{LocalIssue: li, MatchType: Missing, RemoteIndex: -1}
		for i := range remote {
			if !isCandidate(li, remote[i]) {
				continue
			}
			candidate := remote[i]
			result.GithubIssue = &candidate
			result.RemoteIndex = i
			if isIdentical(li, candidate) {
				result.MatchType = Match
			} else {
				result.MatchType = MatchedWithDiff
			}
			break
		}
		results = append(results, result)
	}
	return results
}

// isCandidate reports whether remote carries every label of local. The
// remote issue may carry more.
func isCandidate(local LocalIssue, remote RemoteIssue) bool {
	for _, label := range local.Labels {
		if !remote.hasLabel(label) {
			return false
		}
	}
	return true
}

// isIdentical compares title and body only.
// TODO: flag labels present locally but missing on the remote issue.
func isIdentical(local LocalIssue, remote RemoteIssue) bool {
	return local.Title == remote.Title && local.TextBody == remote.BodyText()
}

// Unmatched returns the remote issues no result points at, in snapshot
// order. results must come from Reconcile over the same remote slice;
// issues are told apart by position, not by number.
func Unmatched(results []GithubIssueMatches, remote []RemoteIssue) []RemoteIssue {
	claimed := make(map[int]bool, len(results))
	for _, r := range results {
		if r.GithubIssue != nil && r.RemoteIndex >= 0 {
			claimed[r.RemoteIndex] = true
		}
	}
	var out []RemoteIssue
	for i, r := range remote {
		if !claimed[i] {
			out = append(out, r)
		}
	}
	return out
}
