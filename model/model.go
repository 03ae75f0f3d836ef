package model

// FormField is one question definition belonging to a named form.
// ParentFieldID is nil for top-level fields; a non-nil value references
// another field of the same form.
type FormField struct {
	ID            int     `json:"id"`
	FormName      string  `json:"form_name,omitempty"`
	Label         string  `json:"field_label"`
	Type          string  `json:"field_type"`
	ParentFieldID *int    `json:"parent_field_id"`
	Order         int     `json:"field_order"`
	Active        bool    `json:"is_active"`
	OptionsJSON   *string `json:"-"`
}

// FieldOption is a selectable choice attached to a field. DetailsFieldLabel,
// when set, tells the frontend to render an extra free-text input whenever
// this option is chosen.
type FieldOption struct {
	ID                int     `json:"id"`
	FieldID           int     `json:"field_id"`
	Label             string  `json:"option_label"`
	Value             string  `json:"option_value"`
	DetailsFieldLabel *string `json:"details_field_label"`
	Order             int     `json:"option_order"`
}

// FieldNode is a FormField decorated with its options and child fields.
// Nodes are assembled fresh on every read, never stored.
type FieldNode struct {
	FormField
	Options   []FieldOption `json:"options"`
	SubFields []*FieldNode  `json:"sub_fields"`
}

// Answer is one client's stored response to one field.
type Answer struct {
	FieldID int    `json:"field_id"`
	Value   string `json:"value"`
}

// AnswerInput is the wire form of an answer in an upsert batch. Either slot
// may be missing; incomplete pairs are discarded before persisting.
type AnswerInput struct {
	FieldID *int    `json:"field_id"`
	Value   *string `json:"value"`
}

// AnswerSummary is an answer joined with its field's label, for the
// advisor/admin review view.
type AnswerSummary struct {
	FieldID  int    `json:"field_id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FieldPatch carries a partial field update: only non-nil slots are applied.
type FieldPatch struct {
	Label         *string `json:"field_label"`
	Type          *string `json:"field_type"`
	OptionsJSON   *string `json:"options_json"`
	Active        *bool   `json:"is_active"`
	Order         *int    `json:"field_order"`
	ParentFieldID *int    `json:"parent_field_id"`
}

// Empty reports whether the patch carries no updates at all.
func (p FieldPatch) Empty() bool {
	return p.Label == nil && p.Type == nil && p.OptionsJSON == nil &&
		p.Active == nil && p.Order == nil && p.ParentFieldID == nil
}

// OptionPatch carries a partial option update.
type OptionPatch struct {
	Label             *string `json:"option_label"`
	DetailsFieldLabel *string `json:"details_field_label"`
}

func (p OptionPatch) Empty() bool {
	return p.Label == nil && p.DetailsFieldLabel == nil
}
