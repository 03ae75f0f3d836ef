package forms

import "github.com/regal-advisory/backoffice/model"

// Assemble joins flat field and option rows into the hierarchical structure
// served to the admin and client UIs. Fields must already be ordered by
// field_order and options by option_order; Assemble preserves both orders
// and performs no sorting of its own.
//
// A field whose parent id is not present in fields is dropped from the
// output. That happens when a child is active but its parent was
// deactivated: deactivation does not cascade, so presentation reads prune
// the orphaned subtree silently.
func Assemble(fields []model.FormField, options []model.FieldOption) []*model.FieldNode {
	optionsByField := make(map[int][]model.FieldOption, len(fields))
	for _, opt := range options {
		optionsByField[opt.FieldID] = append(optionsByField[opt.FieldID], opt)
	}

	index := make(map[int]*model.FieldNode, len(fields))
	nodes := make([]*model.FieldNode, 0, len(fields))
	for _, f := range fields {
		node := &model.FieldNode{
			FormField: f,
			Options:   optionsByField[f.ID],
			SubFields: []*model.FieldNode{},
		}
		if node.Options == nil {
			node.Options = []model.FieldOption{}
		}
		index[f.ID] = node
		nodes = append(nodes, node)
	}

	roots := []*model.FieldNode{}
	for _, node := range nodes {
		if node.ParentFieldID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := index[*node.ParentFieldID]; ok {
			parent.SubFields = append(parent.SubFields, node)
		}
	}
	return roots
}
