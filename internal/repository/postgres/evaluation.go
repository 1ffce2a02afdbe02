package postgres

import (
	"context"
	"database/sql"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/repository"

	"github.com/lib/pq"
)

type evaluationRepository struct {
	db *sql.DB
}

func NewEvaluationRepository(db *sql.DB) repository.EvaluationRepository {
	return &evaluationRepository{db: db}
}

const evaluationColumns = `id, application_id, evaluator_id,
	innovation_score, business_model_score, team_score, impact_score,
	COALESCE(innovation_comment, ''), COALESCE(business_model_comment, ''), COALESCE(team_comment, ''), COALESCE(impact_comment, ''),
	recommendation, COALESCE(general_comment, ''), total_score, is_submitted, submitted_at, created_at, updated_at`

func scanEvaluation(row rowScanner) (*domain.Evaluation, error) {
	e := &domain.Evaluation{}
	var rec string
	var submittedAt sql.NullTime
	err := row.Scan(&e.ID, &e.ApplicationID, &e.EvaluatorID,
		&e.Scores.Innovation, &e.Scores.BusinessModel, &e.Scores.Team, &e.Scores.Impact,
		&e.InnovationComment, &e.BusinessModelComment, &e.TeamComment, &e.ImpactComment,
		&rec, &e.GeneralComment, &e.TotalScore, &e.IsSubmitted, &submittedAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Recommendation = domain.Recommendation(rec)
	if submittedAt.Valid {
		t := submittedAt.Time
		e.SubmittedAt = &t
	}
	return e, nil
}

func (r *evaluationRepository) Create(ctx context.Context, e *domain.Evaluation) error {
	query := `INSERT INTO evaluations (application_id, evaluator_id,
	              innovation_score, business_model_score, team_score, impact_score,
	              innovation_comment, business_model_comment, team_comment, impact_comment,
	              recommendation, general_comment, total_score, is_submitted, submitted_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	          RETURNING id, created_at, updated_at`
	logger.DatabaseCall("INSERT", "evaluations", "applicationID", e.ApplicationID, "evaluatorID", e.EvaluatorID)
	err := r.db.QueryRowContext(ctx, query, e.ApplicationID, e.EvaluatorID,
		e.Scores.Innovation, e.Scores.BusinessModel, e.Scores.Team, e.Scores.Impact,
		e.InnovationComment, e.BusinessModelComment, e.TeamComment, e.ImpactComment,
		string(e.Recommendation), e.GeneralComment, e.TotalScore, e.IsSubmitted, e.SubmittedAt).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	logger.DatabaseResult("INSERT", 1, err, "evaluationID", e.ID)
	return uniqueViolation(err, "evaluation")
}

// Update refuses to touch a row that is already submitted.
func (r *evaluationRepository) Update(ctx context.Context, e *domain.Evaluation) error {
	query := `UPDATE evaluations SET innovation_score = $1, business_model_score = $2, team_score = $3, impact_score = $4,
	              innovation_comment = $5, business_model_comment = $6, team_comment = $7, impact_comment = $8,
	              recommendation = $9, general_comment = $10, total_score = $11, is_submitted = $12, submitted_at = $13,
	              updated_at = NOW()
	          WHERE id = $14 AND is_submitted = FALSE
	          RETURNING updated_at`
	logger.DatabaseCall("UPDATE", "evaluations", "evaluationID", e.ID, "submit", e.IsSubmitted)
	err := r.db.QueryRowContext(ctx, query,
		e.Scores.Innovation, e.Scores.BusinessModel, e.Scores.Team, e.Scores.Impact,
		e.InnovationComment, e.BusinessModelComment, e.TeamComment, e.ImpactComment,
		string(e.Recommendation), e.GeneralComment, e.TotalScore, e.IsSubmitted, e.SubmittedAt, e.ID).
		Scan(&e.UpdatedAt)
	logger.DatabaseResult("UPDATE", 1, err, "evaluationID", e.ID)
	if err == sql.ErrNoRows {
		return domain.ErrEvaluationLocked
	}
	return err
}

func (r *evaluationRepository) GetByApplicationAndEvaluator(ctx context.Context, applicationID, evaluatorID string) (*domain.Evaluation, error) {
	query := `SELECT ` + evaluationColumns + ` FROM evaluations WHERE application_id = $1 AND evaluator_id = $2`
	e, err := scanEvaluation(r.db.QueryRowContext(ctx, query, applicationID, evaluatorID))
	if err != nil {
		return nil, notFound(err, "evaluation")
	}
	return e, nil
}

func (r *evaluationRepository) list(ctx context.Context, query string, args ...any) ([]domain.Evaluation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evals []domain.Evaluation
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		evals = append(evals, *e)
	}
	return evals, rows.Err()
}

func (r *evaluationRepository) ListByApplication(ctx context.Context, applicationID string) ([]domain.Evaluation, error) {
	query := `SELECT ` + evaluationColumns + ` FROM evaluations WHERE application_id = $1 ORDER BY created_at`
	return r.list(ctx, query, applicationID)
}

func (r *evaluationRepository) ListByApplications(ctx context.Context, applicationIDs []string) ([]domain.Evaluation, error) {
	if len(applicationIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + evaluationColumns + ` FROM evaluations WHERE application_id = ANY($1) ORDER BY created_at`
	return r.list(ctx, query, pq.Array(applicationIDs))
}

func (r *evaluationRepository) CountSubmitted(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM evaluations WHERE is_submitted = TRUE`).Scan(&n)
	return n, err
}
