package domain

import "time"

// Decision is the outcome derived from a vote tally. A nil *Decision means undecidable.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
	DecisionPending Decision = "pending"
	DecisionTie     Decision = "tie"
)

// DefaultQuorum applies when no quorum was configured for an application.
const DefaultQuorum = 3

type VotingResult struct {
	ApproveCount       int       `json:"approve_count"`
	RejectCount        int       `json:"reject_count"`
	PendingCount       int       `json:"pending_count"`
	TotalVotes         int       `json:"total_votes"`
	QuorumRequired     int       `json:"quorum_required"`
	QuorumReached      bool      `json:"quorum_reached"`
	CalculatedDecision *Decision `json:"calculated_decision"`
}

// Aggregate tallies recommendations and derives the quorum status and the calculated decision.
// A quorumRequired of zero or less means DefaultQuorum.
func Aggregate(recs []Recommendation, quorumRequired int) VotingResult {
	if quorumRequired <= 0 {
		quorumRequired = DefaultQuorum
	}
	res := VotingResult{QuorumRequired: quorumRequired}
	for _, r := range recs {
		switch r {
		case RecommendationApprove:
			res.ApproveCount++
		case RecommendationReject:
			res.RejectCount++
		case RecommendationPending:
			res.PendingCount++
		default:
			continue
		}
		res.TotalVotes++
	}
	res.QuorumReached = res.TotalVotes >= quorumRequired
	if !res.QuorumReached || res.TotalVotes == 0 {
		return res
	}

	var d Decision
	switch {
	case res.ApproveCount > res.RejectCount && res.ApproveCount > res.PendingCount:
		d = DecisionApprove
	case res.RejectCount > res.ApproveCount && res.RejectCount > res.PendingCount:
		d = DecisionReject
	case res.ApproveCount == res.RejectCount && res.ApproveCount > 0:
		d = DecisionTie
	default:
		d = DecisionPending
	}
	res.CalculatedDecision = &d
	return res
}

// VotingDecision is the persisted per-application decision state. The calculated part is a
// cache of Aggregate over submitted evaluations; FinalDecision is a human override and is never
// written by recomputation.
type VotingDecision struct {
	ApplicationID string `json:"application_id"`
	VotingResult
	FinalDecision *Decision  `json:"final_decision"`
	DecidedBy     *string    `json:"decided_by,omitempty"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
	DecisionNotes string     `json:"decision_notes"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// EffectiveDecision prefers the human decision over the calculated one.
func (v *VotingDecision) EffectiveDecision() *Decision {
	if v.FinalDecision != nil {
		return v.FinalDecision
	}
	return v.CalculatedDecision
}

// IsFinalDecision reports whether d may be recorded as a final decision.
func IsFinalDecision(d Decision) bool {
	return d == DecisionApprove || d == DecisionReject
}
