package postgres

import (
	"context"
	"database/sql"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/repository"

	"github.com/lib/pq"
)

type votingRepository struct {
	db *sql.DB
}

func NewVotingRepository(db *sql.DB) repository.VotingRepository {
	return &votingRepository{db: db}
}

const votingColumns = `application_id, approve_count, reject_count, pending_count, total_votes,
	quorum_required, quorum_reached, calculated_decision, final_decision, decided_by, decided_at,
	COALESCE(decision_notes, ''), updated_at`

func scanVoting(row rowScanner) (*domain.VotingDecision, error) {
	v := &domain.VotingDecision{}
	var calculated, final, decidedBy sql.NullString
	var decidedAt sql.NullTime
	err := row.Scan(&v.ApplicationID, &v.ApproveCount, &v.RejectCount, &v.PendingCount, &v.TotalVotes,
		&v.QuorumRequired, &v.QuorumReached, &calculated, &final, &decidedBy, &decidedAt,
		&v.DecisionNotes, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if calculated.Valid {
		d := domain.Decision(calculated.String)
		v.CalculatedDecision = &d
	}
	if final.Valid {
		d := domain.Decision(final.String)
		v.FinalDecision = &d
	}
	if decidedBy.Valid {
		s := decidedBy.String
		v.DecidedBy = &s
	}
	if decidedAt.Valid {
		t := decidedAt.Time
		v.DecidedAt = &t
	}
	return v, nil
}

func (r *votingRepository) Get(ctx context.Context, applicationID string) (*domain.VotingDecision, error) {
	query := `SELECT ` + votingColumns + ` FROM voting_decisions WHERE application_id = $1`
	v, err := scanVoting(r.db.QueryRowContext(ctx, query, applicationID))
	if err != nil {
		return nil, notFound(err, "voting decision")
	}
	return v, nil
}

func (r *votingRepository) ListByApplications(ctx context.Context, applicationIDs []string) ([]domain.VotingDecision, error) {
	if len(applicationIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + votingColumns + ` FROM voting_decisions WHERE application_id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(applicationIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.VotingDecision
	for rows.Next() {
		v, err := scanVoting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

func (r *votingRepository) SaveResult(ctx context.Context, applicationID string, res domain.VotingResult) error {
	query := `INSERT INTO voting_decisions (application_id, approve_count, reject_count, pending_count, total_votes,
	              quorum_required, quorum_reached, calculated_decision, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	          ON CONFLICT (application_id) DO UPDATE SET approve_count = EXCLUDED.approve_count,
	              reject_count = EXCLUDED.reject_count, pending_count = EXCLUDED.pending_count,
	              total_votes = EXCLUDED.total_votes, quorum_required = EXCLUDED.quorum_required,
	              quorum_reached = EXCLUDED.quorum_reached, calculated_decision = EXCLUDED.calculated_decision,
	              updated_at = NOW()`
	var calculated sql.NullString
	if res.CalculatedDecision != nil {
		calculated = sql.NullString{String: string(*res.CalculatedDecision), Valid: true}
	}
	logger.DatabaseCall("UPSERT", "voting_decisions", "applicationID", applicationID, "totalVotes", res.TotalVotes)
	_, err := r.db.ExecContext(ctx, query, applicationID, res.ApproveCount, res.RejectCount, res.PendingCount,
		res.TotalVotes, res.QuorumRequired, res.QuorumReached, calculated)
	logger.DatabaseResult("UPSERT", 1, err, "applicationID", applicationID)
	return err
}

func setFinal(ctx context.Context, q queryer, applicationID string, final domain.FinalDecision) error {
	query := `INSERT INTO voting_decisions (application_id, quorum_required, final_decision, decided_by, decided_at, decision_notes, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, NOW())
	          ON CONFLICT (application_id) DO UPDATE SET final_decision = EXCLUDED.final_decision,
	              decided_by = EXCLUDED.decided_by, decided_at = EXCLUDED.decided_at,
	              decision_notes = EXCLUDED.decision_notes, updated_at = NOW()`
	logger.DatabaseCall("UPSERT", "voting_decisions", "applicationID", applicationID, "finalDecision", final.Decision)
	_, err := q.ExecContext(ctx, query, applicationID, domain.DefaultQuorum, string(final.Decision), final.DecidedBy, final.DecidedAt, final.Notes)
	logger.DatabaseResult("UPSERT", 1, err, "applicationID", applicationID)
	return err
}

func (r *votingRepository) SetQuorum(ctx context.Context, applicationID string, quorum int) error {
	query := `INSERT INTO voting_decisions (application_id, quorum_required, updated_at) VALUES ($1, $2, NOW())
	          ON CONFLICT (application_id) DO UPDATE SET quorum_required = EXCLUDED.quorum_required, updated_at = NOW()`
	logger.DatabaseCall("UPSERT", "voting_decisions", "applicationID", applicationID, "quorum", quorum)
	_, err := r.db.ExecContext(ctx, query, applicationID, quorum)
	logger.DatabaseResult("UPSERT", 1, err, "applicationID", applicationID)
	return err
}
