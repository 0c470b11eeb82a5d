// Package repository defines the data access contracts for the blogging
// platform: the Specification query descriptor and the generic Repository
// interface it is executed through. Implementations live in subpackages
// (sqlstore) and own no business logic.
package repository

// Operator enumerates the filter predicates a Specification can express.
// Conditions are tagged data, not runtime expressions, so implementations
// can translate them without reflection.
type Operator int

const (
	// OpEq matches field = value.
	OpEq Operator = iota

	// OpNe matches field <> value.
	OpNe

	// OpGt matches field > value.
	OpGt

	// OpGte matches field >= value.
	OpGte

	// OpLt matches field < value.
	OpLt

	// OpLte matches field <= value.
	OpLte

	// OpLike matches field LIKE value (substring patterns supplied by caller).
	OpLike

	// OpIn matches field IN (values...). Value must be a []any.
	OpIn
)

// Condition is one filter predicate. All conditions of a specification are
// combined with AND.
type Condition struct {
	// Field is the entity field name as registered by the entity mapper.
	Field string

	// Op is the comparison operator.
	Op Operator

	// Value is the comparand ([]any for OpIn).
	Value any
}

// OrderClause is one sort key.
type OrderClause struct {
	// Field is the entity field name.
	Field string

	// Descending selects descending order.
	Descending bool
}

// Specification is a declarative, immutable-after-construction query
// descriptor: filter conditions, eager-load navigation paths, ordering, and
// an optional paging window. The same specification executed twice against
// an unchanged data set returns the same rows in the same order; the store
// appends the primary key as an implicit tiebreaker to guarantee a total
// order. Specifications are constructed fresh per query and never persisted.
type Specification struct {
	conditions []Condition
	includes   []string
	order      []OrderClause
	paged      bool
	skip       int
	take       int
	noTracking bool
}

// NewSpecification starts a specification builder. An empty specification
// matches all rows.
func NewSpecification() *Specification {
	return &Specification{}
}

// Where appends a filter condition. Conditions are ANDed together.
func (s *Specification) Where(field string, op Operator, value any) *Specification {
	s.conditions = append(s.conditions, Condition{Field: field, Op: op, Value: value})
	return s
}

// Include adds an eager-load navigation path. Dotted paths load nested
// navigations, e.g. "PostCategories.Category".
func (s *Specification) Include(paths ...string) *Specification {
	s.includes = append(s.includes, paths...)
	return s
}

// OrderBy sets the primary sort key ascending, replacing any previous
// primary key. At most one primary key exists.
func (s *Specification) OrderBy(field string) *Specification {
	return s.setPrimary(OrderClause{Field: field})
}

// OrderByDescending sets the primary sort key descending, replacing any
// previous primary key.
func (s *Specification) OrderByDescending(field string) *Specification {
	return s.setPrimary(OrderClause{Field: field, Descending: true})
}

func (s *Specification) setPrimary(clause OrderClause) *Specification {
	if len(s.order) == 0 {
		s.order = []OrderClause{clause}
		return s
	}
	s.order[0] = clause
	return s
}

// ThenBy appends a secondary ascending sort key.
func (s *Specification) ThenBy(field string) *Specification {
	s.order = append(s.order, OrderClause{Field: field})
	return s
}

// ThenByDescending appends a secondary descending sort key.
func (s *Specification) ThenByDescending(field string) *Specification {
	s.order = append(s.order, OrderClause{Field: field, Descending: true})
	return s
}

// Paginate enables paging from a 1-based page number and a page size:
// skip = (pageNumber-1) * pageSize. A pageNumber below 1 is clamped to 1 so
// skip can never be negative; a negative pageSize is clamped to 0.
func (s *Specification) Paginate(pageNumber, pageSize int) *Specification {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 0 {
		pageSize = 0
	}
	s.paged = true
	s.skip = (pageNumber - 1) * pageSize
	s.take = pageSize
	return s
}

// ReadOnly hints that results will not be mutated, letting implementations
// skip change tracking.
func (s *Specification) ReadOnly() *Specification {
	s.noTracking = true
	return s
}

// Conditions returns a copy of the filter conditions.
func (s *Specification) Conditions() []Condition {
	out := make([]Condition, len(s.conditions))
	copy(out, s.conditions)
	return out
}

// Includes returns a copy of the eager-load paths.
func (s *Specification) Includes() []string {
	out := make([]string, len(s.includes))
	copy(out, s.includes)
	return out
}

// Order returns a copy of the sort keys, primary first.
func (s *Specification) Order() []OrderClause {
	out := make([]OrderClause, len(s.order))
	copy(out, s.order)
	return out
}

// Paging reports the paging window. skip and take are meaningful only when
// enabled is true.
func (s *Specification) Paging() (skip, take int, enabled bool) {
	return s.skip, s.take, s.paged
}

// NoTracking reports the read-only hint.
func (s *Specification) NoTracking() bool {
	return s.noTracking
}
