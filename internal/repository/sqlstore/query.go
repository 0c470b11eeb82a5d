package sqlstore

import (
	"fmt"
	"strings"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
)

// queryBuilder translates a Specification into SQL fragments for one table.
// Field names are resolved through the mapper's field-to-column map so a
// specification can never inject raw SQL.
type queryBuilder struct {
	dialect Dialect
	table   string
	fields  map[string]string
	argN    int
}

func newQueryBuilder(dialect Dialect, table string, fields map[string]string) *queryBuilder {
	return &queryBuilder{dialect: dialect, table: table, fields: fields}
}

// placeholder emits the next positional placeholder.
func (b *queryBuilder) placeholder() string {
	b.argN++
	if b.dialect == DialectPostgres {
		return fmt.Sprintf("$%d", b.argN)
	}
	return "?"
}

// column resolves a specification field name to a column.
func (b *queryBuilder) column(field string) (string, error) {
	col, ok := b.fields[field]
	if !ok {
		return "", fmt.Errorf("%w: %s.%s", repository.ErrUnknownField, b.table, field)
	}
	return col, nil
}

// where renders the AND-combined condition list. Empty conditions mean
// match-all and render as an empty clause.
func (b *queryBuilder) where(conds []repository.Condition) (string, []any, error) {
	if len(conds) == 0 {
		return "", nil, nil
	}

	parts := make([]string, 0, len(conds))
	args := make([]any, 0, len(conds))

	for _, c := range conds {
		col, err := b.column(c.Field)
		if err != nil {
			return "", nil, err
		}

		switch c.Op {
		case repository.OpEq:
			parts = append(parts, fmt.Sprintf("%s = %s", col, b.placeholder()))
			args = append(args, normalizeArg(c.Value))
		case repository.OpNe:
			parts = append(parts, fmt.Sprintf("%s <> %s", col, b.placeholder()))
			args = append(args, normalizeArg(c.Value))
		case repository.OpGt:
			parts = append(parts, fmt.Sprintf("%s > %s", col, b.placeholder()))
			args = append(args, normalizeArg(c.Value))
		case repository.OpGte:
			parts = append(parts, fmt.Sprintf("%s >= %s", col, b.placeholder()))
			args = append(args, normalizeArg(c.Value))
		case repository.OpLt:
			parts = append(parts, fmt.Sprintf("%s < %s", col, b.placeholder()))
			args = append(args, normalizeArg(c.Value))
		case repository.OpLte:
			parts = append(parts, fmt.Sprintf("%s <= %s", col, b.placeholder()))
			args = append(args, normalizeArg(c.Value))
		case repository.OpLike:
			parts = append(parts, fmt.Sprintf("%s LIKE %s", col, b.placeholder()))
			args = append(args, normalizeArg(c.Value))
		case repository.OpIn:
			values, ok := c.Value.([]any)
			if !ok || len(values) == 0 {
				// IN over an empty set matches nothing.
				parts = append(parts, "1 = 0")
				continue
			}
			ph := make([]string, 0, len(values))
			for _, v := range values {
				ph = append(ph, b.placeholder())
				args = append(args, normalizeArg(v))
			}
			parts = append(parts, fmt.Sprintf("%s IN (%s)", col, strings.Join(ph, ", ")))
		default:
			return "", nil, fmt.Errorf("unsupported operator %d on %s", c.Op, c.Field)
		}
	}

	return " WHERE " + strings.Join(parts, " AND "), args, nil
}

// orderBy renders the sort keys, appending the primary key as an implicit
// tiebreaker so the order is always total.
func (b *queryBuilder) orderBy(order []repository.OrderClause) (string, error) {
	parts := make([]string, 0, len(order)+1)
	sawID := false

	for _, o := range order {
		col, err := b.column(o.Field)
		if err != nil {
			return "", err
		}
		if col == "id" {
			sawID = true
		}
		dir := "ASC"
		if o.Descending {
			dir = "DESC"
		}
		parts = append(parts, fmt.Sprintf("%s %s", col, dir))
	}

	if !sawID {
		parts = append(parts, "id ASC")
	}

	return " ORDER BY " + strings.Join(parts, ", "), nil
}

// paging renders the LIMIT/OFFSET window when enabled.
func (b *queryBuilder) paging(skip, take int, enabled bool) string {
	if !enabled {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", take, skip)
}

// normalizeArg converts Go values the drivers can't bind directly.
func normalizeArg(v any) any {
	if bv, ok := v.(bool); ok {
		if bv {
			return 1
		}
		return 0
	}
	return v
}
