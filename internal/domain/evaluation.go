package domain

import (
	"math"
	"time"
)

type Recommendation string

const (
	RecommendationApprove Recommendation = "approve"
	RecommendationReject  Recommendation = "reject"
	RecommendationPending Recommendation = "pending"
)

func ParseRecommendation(s string) (Recommendation, bool) {
	switch Recommendation(s) {
	case RecommendationApprove, RecommendationReject, RecommendationPending:
		return Recommendation(s), true
	}
	return "", false
}

const (
	MinCriterionScore = 0
	MaxCriterionScore = 20
	// ScoreScale maps the 0-80 criteria sum onto 0-100.
	ScoreScale = 1.25
)

// Scores are the four criterion scores of an evaluation, each in [0,20].
type Scores struct {
	Innovation    int `json:"innovation_score" validate:"min=0,max=20"`
	BusinessModel int `json:"business_model_score" validate:"min=0,max=20"`
	Team          int `json:"team_score" validate:"min=0,max=20"`
	Impact        int `json:"impact_score" validate:"min=0,max=20"`
}

func (s Scores) Sum() int {
	return s.Innovation + s.BusinessModel + s.Team + s.Impact
}

// TotalScore is the criteria sum normalized to 0-100.
func (s Scores) TotalScore() float64 {
	return float64(s.Sum()) * ScoreScale
}

type Evaluation struct {
	ID                   string         `json:"id"`
	ApplicationID        string         `json:"application_id"`
	EvaluatorID          string         `json:"evaluator_id"`
	Scores               Scores         `json:"scores"`
	InnovationComment    string         `json:"innovation_comment"`
	BusinessModelComment string         `json:"business_model_comment"`
	TeamComment          string         `json:"team_comment"`
	ImpactComment        string         `json:"impact_comment"`
	Recommendation       Recommendation `json:"recommendation"`
	GeneralComment       string         `json:"general_comment"`
	TotalScore           float64        `json:"total_score"`
	IsSubmitted          bool           `json:"is_submitted"`
	SubmittedAt          *time.Time     `json:"submitted_at,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// SubmittedRecommendations returns the recommendations of submitted evaluations only.
func SubmittedRecommendations(evals []Evaluation) []Recommendation {
	recs := make([]Recommendation, 0, len(evals))
	for _, e := range evals {
		if e.IsSubmitted {
			recs = append(recs, e.Recommendation)
		}
	}
	return recs
}

// AverageSubmittedScore is the mean total score of submitted evaluations, rounded to the
// nearest integer. It returns nil, not zero, when nothing has been submitted.
func AverageSubmittedScore(evals []Evaluation) *int {
	var sum float64
	n := 0
	for _, e := range evals {
		if !e.IsSubmitted {
			continue
		}
		sum += e.TotalScore
		n++
	}
	if n == 0 {
		return nil
	}
	avg := int(math.Round(sum / float64(n)))
	return &avg
}

// CountSubmitted counts evaluations with is_submitted set.
func CountSubmitted(evals []Evaluation) int {
	n := 0
	for _, e := range evals {
		if e.IsSubmitted {
			n++
		}
	}
	return n
}
