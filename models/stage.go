// ABOUTME: Deal pipeline stage policy
// ABOUTME: Canonical stage order, default probabilities, and terminal rules
package models

import "fmt"

// Stage is one of the six canonical pipeline positions a deal occupies.
type Stage string

const (
	StageProspecting Stage = "prospecting"
	StageQualified   Stage = "qualified"
	StageProposal    Stage = "proposal"
	StageNegotiation Stage = "negotiation"
	StageClosedWon   Stage = "closed_won"
	StageClosedLost  Stage = "closed_lost"
)

// Stages lists every stage in canonical pipeline order. The order is
// advisory for display and funnel reporting; transitions between
// non-terminal stages are unrestricted, backward moves included.
var Stages = []Stage{
	StageProspecting,
	StageQualified,
	StageProposal,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}

var stageProbability = map[Stage]int{
	StageProspecting: 10,
	StageQualified:   25,
	StageProposal:    50,
	StageNegotiation: 75,
	StageClosedWon:   100,
	StageClosedLost:  0,
}

// DefaultProbability returns the canonical close probability for a stage.
func (s Stage) DefaultProbability() int {
	return stageProbability[s]
}

// Terminal reports whether the stage ends the deal's lifecycle. A deal in
// a terminal stage can never advance again.
func (s Stage) Terminal() bool {
	return s == StageClosedWon || s == StageClosedLost
}

// ValidStage reports whether s names a known stage.
func ValidStage(s Stage) bool {
	_, ok := stageProbability[s]
	return ok
}

// ParseStage converts a raw string to a Stage or fails.
func ParseStage(raw string) (Stage, error) {
	s := Stage(raw)
	if !ValidStage(s) {
		return "", fmt.Errorf("invalid stage: %q (valid: prospecting, qualified, proposal, negotiation, closed_won, closed_lost)", raw)
	}
	return s, nil
}
