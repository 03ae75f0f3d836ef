package forms

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/regal-advisory/backoffice/model"
)

// Store persists form fields, their options and client answers.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Fields returns all fields of one form ordered by field_order. With
// activeOnly set, inactive fields are filtered out; their still-active
// children are returned regardless and pruned later by Assemble.
func (s *Store) Fields(ctx context.Context, formName string, activeOnly bool) ([]model.FormField, error) {
	query := `
		SELECT id, form_name, label, field_type, parent_field_id, field_order, active
		FROM form_field
		WHERE form_name = ?`
	if activeOnly {
		query += ` AND active = TRUE`
	}
	query += ` ORDER BY field_order ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, formName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := []model.FormField{}
	for rows.Next() {
		f := model.FormField{}
		var parent sql.NullInt64
		err = rows.Scan(&f.ID, &f.FormName, &f.Label, &f.Type, &parent, &f.Order, &f.Active)
		if err != nil {
			return nil, err
		}
		if parent.Valid {
			id := int(parent.Int64)
			f.ParentFieldID = &id
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

// OptionsForFields returns the options of the given fields ordered by
// option_order.
func (s *Store) OptionsForFields(ctx context.Context, fieldIDs []int) ([]model.FieldOption, error) {
	if len(fieldIDs) == 0 {
		return []model.FieldOption{}, nil
	}

	placeholders := strings.Repeat("?,", len(fieldIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(fieldIDs))
	for i, id := range fieldIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, field_id, label, value, details_field_label, option_order
		FROM field_option
		WHERE field_id IN (`+placeholders+`)
		ORDER BY option_order ASC, id ASC`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := []model.FieldOption{}
	for rows.Next() {
		o := model.FieldOption{}
		var details sql.NullString
		err = rows.Scan(&o.ID, &o.FieldID, &o.Label, &o.Value, &details, &o.Order)
		if err != nil {
			return nil, err
		}
		if details.Valid {
			o.DetailsFieldLabel = &details.String
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

// FormTree reads one form's fields and options and assembles them into the
// hierarchical structure. A form with no matching fields yields an empty
// slice, not an error.
func (s *Store) FormTree(ctx context.Context, formName string, activeOnly bool) ([]*model.FieldNode, error) {
	fields, err := s.Fields(ctx, formName, activeOnly)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return []*model.FieldNode{}, nil
	}

	fieldIDs := make([]int, len(fields))
	for i, f := range fields {
		fieldIDs[i] = f.ID
	}
	options, err := s.OptionsForFields(ctx, fieldIDs)
	if err != nil {
		return nil, err
	}

	return Assemble(fields, options), nil
}

// CreateField inserts a new field. A parent, when given, must exist and
// belong to the same form.
func (s *Store) CreateField(ctx context.Context, formName, label, fieldType string, parentFieldID *int) (int, error) {
	if parentFieldID != nil {
		if err := s.checkParent(ctx, formName, 0, *parentFieldID); err != nil {
			return 0, err
		}
	}

	var id int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO form_field (form_name, label, field_type, parent_field_id)
		VALUES (?, ?, ?, ?)
		RETURNING id`,
		formName, label, fieldType, parentFieldID,
	).Scan(&id)
	return id, err
}

// UpdateField applies the non-nil slots of patch to one field. Reparenting
// is validated against the parent chain so a field can never become its own
// ancestor.
func (s *Store) UpdateField(ctx context.Context, fieldID int, patch model.FieldPatch) error {
	if patch.Empty() {
		return ErrNothingToUpdate
	}

	if patch.ParentFieldID != nil {
		var formName string
		err := s.db.QueryRowContext(ctx,
			`SELECT form_name FROM form_field WHERE id = ?`, fieldID,
		).Scan(&formName)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := s.checkParent(ctx, formName, fieldID, *patch.ParentFieldID); err != nil {
			return err
		}
	}

	assigns := []string{}
	args := []any{}
	if patch.Label != nil {
		assigns = append(assigns, "label = ?")
		args = append(args, *patch.Label)
	}
	if patch.Type != nil {
		assigns = append(assigns, "field_type = ?")
		args = append(args, *patch.Type)
	}
	if patch.OptionsJSON != nil {
		assigns = append(assigns, "options_json = ?")
		args = append(args, *patch.OptionsJSON)
	}
	if patch.Active != nil {
		assigns = append(assigns, "active = ?")
		args = append(args, *patch.Active)
	}
	if patch.Order != nil {
		assigns = append(assigns, "field_order = ?")
		args = append(args, *patch.Order)
	}
	if patch.ParentFieldID != nil {
		assigns = append(assigns, "parent_field_id = ?")
		args = append(args, *patch.ParentFieldID)
	}
	args = append(args, fieldID)

	res, err := s.db.ExecContext(ctx,
		`UPDATE form_field SET `+strings.Join(assigns, ", ")+` WHERE id = ?`,
		args...,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n < 1 {
		return ErrNotFound
	}
	return nil
}

// DeleteField removes one field. The schema cascades the delete to child
// fields (recursively), their options and any stored answers, so a failed
// cascade can never leave the parent half-deleted.
func (s *Store) DeleteField(ctx context.Context, fieldID int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM form_field WHERE id = ?`, fieldID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n < 1 {
		return ErrNotFound
	}
	return nil
}

// CreateOption inserts a new option under a field. An empty label defaults
// to "New Option"; an empty value is derived from the label by lower-casing
// it and replacing spaces with underscores.
func (s *Store) CreateOption(ctx context.Context, fieldID int, label, value string) (int, error) {
	if label == "" {
		label = "New Option"
	}
	if value == "" {
		value = DeriveOptionValue(label)
	}

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM form_field WHERE id = ?`, fieldID,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	var id int
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO field_option (field_id, label, value)
		VALUES (?, ?, ?)
		RETURNING id`,
		fieldID, label, value,
	).Scan(&id)
	return id, err
}

// UpdateOption applies the non-nil slots of patch to one option.
func (s *Store) UpdateOption(ctx context.Context, optionID int, patch model.OptionPatch) error {
	if patch.Empty() {
		return ErrNothingToUpdate
	}

	assigns := []string{}
	args := []any{}
	if patch.Label != nil {
		assigns = append(assigns, "label = ?")
		args = append(args, *patch.Label)
	}
	if patch.DetailsFieldLabel != nil {
		assigns = append(assigns, "details_field_label = ?")
		args = append(args, *patch.DetailsFieldLabel)
	}
	args = append(args, optionID)

	res, err := s.db.ExecContext(ctx,
		`UPDATE field_option SET `+strings.Join(assigns, ", ")+` WHERE id = ?`,
		args...,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n < 1 {
		return ErrNotFound
	}
	return nil
}

// DeleteOption removes one option.
func (s *Store) DeleteOption(ctx context.Context, optionID int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM field_option WHERE id = ?`, optionID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n < 1 {
		return ErrNotFound
	}
	return nil
}

// DeriveOptionValue turns a display label into its machine token:
// "Home Loan" becomes "home_loan".
func DeriveOptionValue(label string) string {
	return strings.ReplaceAll(strings.ToLower(label), " ", "_")
}

// checkParent verifies that parentID exists, belongs to formName, and is not
// fieldID itself or one of its descendants. The assembler does not defend
// against cyclic parent chains, so cycles must be rejected on write.
func (s *Store) checkParent(ctx context.Context, formName string, fieldID, parentID int) error {
	if parentID == fieldID {
		return ErrParentCycle
	}

	var parentForm string
	err := s.db.QueryRowContext(ctx,
		`SELECT form_name FROM form_field WHERE id = ?`, parentID,
	).Scan(&parentForm)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrParentNotFound
	}
	if err != nil {
		return err
	}
	if parentForm != formName {
		return ErrParentForm
	}

	// Walk up from the proposed parent; hitting fieldID means the new
	// parent is a descendant of the field being updated.
	current := parentID
	for {
		var next sql.NullInt64
		err = s.db.QueryRowContext(ctx,
			`SELECT parent_field_id FROM form_field WHERE id = ?`, current,
		).Scan(&next)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		if !next.Valid {
			return nil
		}
		current = int(next.Int64)
		if current == fieldID {
			return ErrParentCycle
		}
	}
}
