package sheetql

import (
	"fmt"

	"github.com/nao1215/sheetql/domain/model"
)

// Mutation transforms a selected row during UpdateRows.
// It may edit the row in place and return nil, or return a replacement row.
type Mutation func(row *model.Row) *model.Row

// Set compiles a mutation that assigns every mapped value onto the row.
// Nested values (maps, slices, structs) are stored as JSON text.
func Set(fields map[string]any) (Mutation, error) {
	values := make(map[string]model.Value, len(fields))
	for k, v := range fields {
		n, err := model.Normalize(v)
		if err != nil {
			return nil, malformed(k, err)
		}
		values[k] = n
	}

	return func(row *model.Row) *model.Row {
		for k, v := range values {
			row.Set(k, v)
		}
		return nil
	}, nil
}

// compileMutation accepts the forms UpdateRows understands.
func compileMutation(m any) (Mutation, error) {
	switch x := m.(type) {
	case Mutation:
		return x, nil
	case func(*model.Row) *model.Row:
		return Mutation(x), nil
	case func(*model.Row):
		return func(row *model.Row) *model.Row {
			x(row)
			return nil
		}, nil
	case map[string]any:
		return Set(x)
	case nil:
		return nil, fmt.Errorf("%w: nil mutation", ErrMalformedMutation)
	default:
		return nil, fmt.Errorf("%w: cannot build a mutation from %T", ErrMalformedMutation, m)
	}
}

// apply runs m and returns the replacement row, or row itself when m returned nil.
func (m Mutation) apply(row *model.Row) *model.Row {
	if out := m(row); out != nil {
		return out
	}
	return row
}
