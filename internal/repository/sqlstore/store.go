package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
)

// rowScanner abstracts sql.Row and sql.Rows for mapper scan functions.
type rowScanner interface {
	Scan(dest ...any) error
}

// includeLoader resolves one eager-load navigation path for a batch of
// already-loaded entities.
type includeLoader[T any] func(ctx context.Context, db *DB, entities []*T) error

// mapper describes how one entity maps onto its table: column list, scan and
// value functions, and the include loaders it supports. The generic store is
// instantiated once per entity with its mapper.
type mapper[T any] struct {
	// table is the SQL table name.
	table string

	// columns lists all columns, primary key first.
	columns []string

	// fields maps specification field names to columns.
	fields map[string]string

	// scan reads one row in columns order.
	scan func(rowScanner) (*T, error)

	// values returns insert/update values in columns order, excluding id.
	values func(*T) []any

	// id reads the primary key.
	id func(*T) int64

	// setID assigns the store-generated primary key.
	setID func(*T, int64)

	// touch stamps UpdatedAt before an update.
	touch func(*T)

	// includes maps supported navigation paths (full dotted form) to loaders.
	includes map[string]includeLoader[T]
}

// store is the generic Repository implementation over one mapper.
type store[T any] struct {
	db *DB
	m  mapper[T]
}

func newStore[T any](db *DB, m mapper[T]) *store[T] {
	return &store[T]{db: db, m: m}
}

func (s *store[T]) builder() *queryBuilder {
	return newQueryBuilder(s.db.dialect, s.m.table, s.m.fields)
}

func (s *store[T]) selectClause() string {
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(s.m.columns, ", "), s.m.table)
}

// GetByID retrieves an entity by primary key.
func (s *store[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	b := s.builder()
	query := fmt.Sprintf("%s WHERE id = %s", s.selectClause(), b.placeholder())

	entity, err := s.m.scan(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, storeErr("get "+s.m.table+" by id", err)
	}
	return entity, nil
}

// List executes the specification: criteria, includes, ordering, paging.
func (s *store[T]) List(ctx context.Context, spec *repository.Specification) ([]*T, error) {
	entities, err := s.query(ctx, spec, false)
	if err != nil {
		return nil, err
	}
	if err := s.loadIncludes(ctx, spec, entities); err != nil {
		return nil, err
	}
	return entities, nil
}

// FirstOrDefault returns the first match or (nil, nil).
func (s *store[T]) FirstOrDefault(ctx context.Context, spec *repository.Specification) (*T, error) {
	entities, err := s.query(ctx, spec, true)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, nil
	}
	if err := s.loadIncludes(ctx, spec, entities[:1]); err != nil {
		return nil, err
	}
	return entities[0], nil
}

// Count counts rows matching the criteria only; paging, ordering, and
// includes are ignored.
func (s *store[T]) Count(ctx context.Context, spec *repository.Specification) (int64, error) {
	b := s.builder()
	where, args, err := b.where(spec.Conditions())
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", s.m.table, where)
	var total int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, storeErr("count "+s.m.table, err)
	}
	return total, nil
}

// Any reports whether at least one row matches the criteria.
func (s *store[T]) Any(ctx context.Context, spec *repository.Specification) (bool, error) {
	b := s.builder()
	where, args, err := b.where(spec.Conditions())
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s%s)", s.m.table, where)
	var exists int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, storeErr("exists "+s.m.table, err)
	}
	return exists != 0, nil
}

// Add persists a new entity and assigns its ID. Pending domain events on the
// entity are left untouched.
func (s *store[T]) Add(ctx context.Context, entity *T) error {
	cols := s.m.columns[1:] // all but id
	values := s.m.values(entity)
	if len(values) != len(cols) {
		return fmt.Errorf("mapper for %s returned %d values for %d columns", s.m.table, len(values), len(cols))
	}

	b := s.builder()
	ph := make([]string, len(cols))
	for i := range cols {
		ph[i] = b.placeholder()
	}

	if s.db.dialect == DialectPostgres {
		query := fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES (%s) RETURNING id",
			s.m.table, strings.Join(cols, ", "), strings.Join(ph, ", "),
		)
		var id int64
		if err := s.db.QueryRowContext(ctx, query, values...).Scan(&id); err != nil {
			return storeErr("insert "+s.m.table, err)
		}
		s.m.setID(entity, id)
		return nil
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		s.m.table, strings.Join(cols, ", "), strings.Join(ph, ", "),
	)
	result, err := s.db.ExecContext(ctx, query, values...)
	if err != nil {
		return storeErr("insert "+s.m.table, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return storeErr("insert "+s.m.table, err)
	}
	s.m.setID(entity, id)
	return nil
}

// Update persists the entity's current field values and stamps UpdatedAt.
func (s *store[T]) Update(ctx context.Context, entity *T) error {
	s.m.touch(entity)

	cols := s.m.columns[1:]
	values := s.m.values(entity)

	b := s.builder()
	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = fmt.Sprintf("%s = %s", col, b.placeholder())
	}

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = %s",
		s.m.table, strings.Join(sets, ", "), b.placeholder(),
	)
	args := append(values, s.m.id(entity))

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return storeErr("update "+s.m.table, err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the entity by primary key.
func (s *store[T]) Delete(ctx context.Context, entity *T) error {
	b := s.builder()
	query := fmt.Sprintf("DELETE FROM %s WHERE id = %s", s.m.table, b.placeholder())

	result, err := s.db.ExecContext(ctx, query, s.m.id(entity))
	if err != nil {
		return storeErr("delete "+s.m.table, err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// query runs the select for List/FirstOrDefault.
func (s *store[T]) query(ctx context.Context, spec *repository.Specification, firstOnly bool) ([]*T, error) {
	b := s.builder()

	where, args, err := b.where(spec.Conditions())
	if err != nil {
		return nil, err
	}
	order, err := b.orderBy(spec.Order())
	if err != nil {
		return nil, err
	}

	skip, take, paged := spec.Paging()
	if firstOnly {
		skip, take, paged = 0, 1, true
	}

	query := s.selectClause() + where + order + b.paging(skip, take, paged)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("list "+s.m.table, err)
	}
	defer rows.Close()

	entities := make([]*T, 0)
	for rows.Next() {
		entity, err := s.m.scan(rows)
		if err != nil {
			return nil, storeErr("scan "+s.m.table, err)
		}
		entities = append(entities, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate "+s.m.table, err)
	}

	return entities, nil
}

// loadIncludes resolves each requested navigation path.
func (s *store[T]) loadIncludes(ctx context.Context, spec *repository.Specification, entities []*T) error {
	includes := spec.Includes()
	if len(includes) == 0 || len(entities) == 0 {
		return nil
	}

	for _, path := range includes {
		loader, ok := s.m.includes[path]
		if !ok {
			return fmt.Errorf("%w: %s on %s", repository.ErrUnknownInclude, path, s.m.table)
		}
		if err := loader(ctx, s.db, entities); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Scan helpers shared by entity mappers
// =============================================================================

// formatTime renders a timestamp for storage (RFC3339Nano, UTC).
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime reads a stored timestamp.
func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

// formatNullTime renders a nullable timestamp.
func formatNullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

// parseNullTime reads a nullable timestamp.
func parseNullTime(ns sql.NullString) *time.Time {
	if !ns.Valid {
		return nil
	}
	t := parseTime(ns.String)
	return &t
}

// boolToInt converts a boolean for storage (INTEGER column in both dialects).
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullInt64 converts a nullable int64 reference for storage.
func nullInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

// int64sToAny widens ids for an OpIn condition.
func int64sToAny(ids []int64) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
