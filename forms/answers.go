package forms

import (
	"context"

	"github.com/regal-advisory/backoffice/model"
)

// Answers returns the raw (field_id, value) pairs a client has saved.
func (s *Store) Answers(ctx context.Context, clientID int) ([]model.Answer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT field_id, value
		FROM client_answer
		WHERE client_id = ?`,
		clientID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := []model.Answer{}
	for rows.Next() {
		a := model.Answer{}
		if err = rows.Scan(&a.FieldID, &a.Value); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// UpsertAnswers stores a batch of answers for one client. Pairs missing
// either component are discarded; a batch that is empty after filtering
// fails with ErrNoValidAnswers and persists nothing. The surviving pairs are
// written in a single transaction, each replacing any previously stored
// value for its field.
func (s *Store) UpsertAnswers(ctx context.Context, clientID int, batch []model.AnswerInput) error {
	valid := []model.Answer{}
	for _, in := range batch {
		if in.FieldID == nil || in.Value == nil {
			continue
		}
		valid = append(valid, model.Answer{FieldID: *in.FieldID, Value: *in.Value})
	}
	if len(valid) == 0 {
		return ErrNoValidAnswers
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO client_answer (client_id, field_id, value)
		VALUES (?, ?, ?)
		ON CONFLICT (client_id, field_id) DO UPDATE SET value = excluded.value`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range valid {
		if _, err = stmt.ExecContext(ctx, clientID, a.FieldID, a.Value); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// AnswerSummary returns a client's answers joined with their question
// labels, for the advisor and admin review views.
func (s *Store) AnswerSummary(ctx context.Context, clientID int) ([]model.AnswerSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.field_id, f.label, a.value
		FROM client_answer a
		INNER JOIN form_field f ON (f.id = a.field_id)
		WHERE a.client_id = ?
		ORDER BY f.field_order ASC, f.id ASC`,
		clientID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := []model.AnswerSummary{}
	for rows.Next() {
		row := model.AnswerSummary{}
		if err = rows.Scan(&row.FieldID, &row.Question, &row.Answer); err != nil {
			return nil, err
		}
		summary = append(summary, row)
	}
	return summary, rows.Err()
}
