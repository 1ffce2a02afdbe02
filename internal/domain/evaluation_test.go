package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScores_TotalScore(t *testing.T) {
	t.Run("Example scores", func(t *testing.T) {
		s := Scores{Innovation: 16, BusinessModel: 12, Team: 10, Impact: 8}
		assert.Equal(t, 46, s.Sum())
		assert.Equal(t, 57.5, s.TotalScore())
	})

	t.Run("Bounds", func(t *testing.T) {
		assert.Equal(t, 0.0, Scores{}.TotalScore())
		assert.Equal(t, 100.0, Scores{20, 20, 20, 20}.TotalScore())
	})

	t.Run("Always in range", func(t *testing.T) {
		for _, v := range []int{0, 1, 7, 13, 19, 20} {
			s := Scores{Innovation: v, BusinessModel: 20 - v, Team: v, Impact: v / 2}
			total := s.TotalScore()
			assert.Equal(t, float64(s.Innovation+s.BusinessModel+s.Team+s.Impact)*1.25, total)
			assert.GreaterOrEqual(t, total, 0.0)
			assert.LessOrEqual(t, total, 100.0)
		}
	})
}

func TestAverageSubmittedScore(t *testing.T) {
	t.Run("Only submitted count", func(t *testing.T) {
		evals := []Evaluation{
			{TotalScore: 80, IsSubmitted: true},
			{TotalScore: 57.5, IsSubmitted: true},
			{TotalScore: 10, IsSubmitted: false},
		}
		avg := AverageSubmittedScore(evals)
		require.NotNil(t, avg)
		// (80 + 57.5) / 2 = 68.75
		assert.Equal(t, 69, *avg)
		assert.Equal(t, 2, CountSubmitted(evals))
	})

	t.Run("Nil when nothing submitted", func(t *testing.T) {
		assert.Nil(t, AverageSubmittedScore([]Evaluation{{TotalScore: 50}}))
		assert.Nil(t, AverageSubmittedScore(nil))
	})

	t.Run("Submitted zero is zero not nil", func(t *testing.T) {
		avg := AverageSubmittedScore([]Evaluation{{TotalScore: 0, IsSubmitted: true}})
		require.NotNil(t, avg)
		assert.Equal(t, 0, *avg)
	})
}

func TestSubmittedRecommendations(t *testing.T) {
	evals := []Evaluation{
		{Recommendation: RecommendationApprove, IsSubmitted: true},
		{Recommendation: RecommendationReject, IsSubmitted: false},
		{Recommendation: RecommendationPending, IsSubmitted: true},
	}
	assert.Equal(t, []Recommendation{RecommendationApprove, RecommendationPending}, SubmittedRecommendations(evals))
}
