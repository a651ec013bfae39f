package sheetql

import (
	"fmt"

	"github.com/nao1215/sheetql/domain/model"
)

// Predicate reports whether a row is selected.
type Predicate func(row *model.Row) bool

// Match compiles an equality conjunction: a row matches when every key holds
// exactly the mapped value. Strings, numbers and booleans never match each
// other, so {"Active": 1} does not select a cell holding "1". nil matches a
// blank cell. An empty mapping matches every row.
func Match(fields map[string]any) (Predicate, error) {
	type cond struct {
		key   string
		value model.Value
	}

	conds := make([]cond, 0, len(fields))
	for k, v := range fields {
		if !model.IsScalar(v) {
			return nil, fmt.Errorf("%w: key %q: %T is not a scalar", ErrMalformedMutation, k, v)
		}
		n, err := model.Normalize(v)
		if err != nil {
			return nil, malformed(k, err)
		}
		conds = append(conds, cond{key: k, value: n})
	}

	return func(row *model.Row) bool {
		for _, c := range conds {
			v, _ := row.Get(c.key)
			if !model.Equal(v, c.value) {
				return false
			}
		}
		return true
	}, nil
}

// compilePredicate accepts the forms Where understands.
func compilePredicate(p any) (Predicate, error) {
	switch x := p.(type) {
	case nil:
		return nil, nil
	case Predicate:
		return x, nil
	case func(*model.Row) bool:
		return Predicate(x), nil
	case map[string]any:
		return Match(x)
	case map[string]string:
		fields := make(map[string]any, len(x))
		for k, v := range x {
			fields[k] = v
		}
		return Match(fields)
	default:
		return nil, fmt.Errorf("%w: cannot build a predicate from %T", ErrMalformedMutation, p)
	}
}

// filter returns the rows accepted by pred, all of them when pred is nil.
func filter(rows []*model.Row, pred Predicate) []*model.Row {
	out := make([]*model.Row, 0, len(rows))
	for _, r := range rows {
		if pred == nil || pred(r) {
			out = append(out, r)
		}
	}
	return out
}
