package intake

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns a Postgres-backed intake store. The table is insert-only;
// the seq column preserves submission order across restarts.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const recordCols = `id, display_timestamp, raw_symptoms, brief_summary, extracted_symptoms,
	possible_causes, red_flags, risk_score, urgency, created_at`

func (r *repoPG) scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.Timestamp, &rec.RawSymptoms, &rec.Summary.BriefSummary,
		&rec.Summary.ExtractedSymptoms, &rec.Summary.PossibleCauses, &rec.Summary.RedFlags,
		&rec.Summary.RiskScore, &rec.Summary.Urgency, &rec.CreatedAt)
	return &rec, err
}

func (r *repoPG) Append(ctx context.Context, rec *Record) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO intake_record (id, display_timestamp, raw_symptoms, brief_summary,
			extracted_symptoms, possible_causes, red_flags, risk_score, urgency, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		rec.ID, rec.Timestamp, rec.RawSymptoms, rec.Summary.BriefSummary,
		rec.Summary.ExtractedSymptoms, rec.Summary.PossibleCauses, rec.Summary.RedFlags,
		rec.Summary.RiskScore, rec.Summary.Urgency, rec.CreatedAt)
	return err
}

func (r *repoPG) List(ctx context.Context) ([]*Record, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+recordCols+` FROM intake_record ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Record
	for rows.Next() {
		rec, err := r.scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	return items, rows.Err()
}
