package delivery

import "regexp"

// MaxSegmentLength is the transport's per-message character limit.
const MaxSegmentLength = 4096

// TerminationPolicy decides whether an answer ends the consultation.
type TerminationPolicy interface {
	ShouldTerminate(answer string) bool
}

var linkPattern = regexp.MustCompile(`(?i)https?://`)

// LinkPolicy fires when the answer contains an http or https link.
type LinkPolicy struct{}

func (LinkPolicy) ShouldTerminate(answer string) bool {
	return linkPattern.MatchString(answer)
}

// NeverTerminate keeps the conversation open regardless of the answer.
type NeverTerminate struct{}

func (NeverTerminate) ShouldTerminate(string) bool { return false }
