// Package query translates HTTP query strings into filtered, sorted and
// paginated store queries. Filter keys follow the `field[op]=value` grammar
// with a fixed operator allow-list; the reserved keys select, sort, page and
// limit control projection, ordering and windowing.
package query

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"rentify/internal/errors"
)

const (
	// DefaultPage is used when the page key is absent or malformed.
	DefaultPage = 1
	// DefaultLimit is used when the limit key is absent or malformed.
	DefaultLimit = 25
	// DefaultSort orders results newest-first when no sort key is given.
	DefaultSort = "created_at DESC"
)

// Operator is a comparison recognized in a filter key suffix.
type Operator string

const (
	OpEq  Operator = "eq"
	OpGt  Operator = "gt"
	OpGte Operator = "gte"
	OpLt  Operator = "lt"
	OpLte Operator = "lte"
	OpIn  Operator = "in"
)

var sqlOperators = map[Operator]string{
	OpEq:  "=",
	OpGt:  ">",
	OpGte: ">=",
	OpLt:  "<",
	OpLte: "<=",
}

var reservedKeys = map[string]bool{
	"select": true,
	"sort":   true,
	"page":   true,
	"limit":  true,
}

// filterKeyPattern matches plain field keys and the field[op] form.
var filterKeyPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)(?:\[([A-Za-z]+)\])?$`)

// Filter is one parsed (field, operator, value) predicate.
type Filter struct {
	Field string
	Op    Operator
	Value string
}

// SortField is one parsed ordering term.
type SortField struct {
	Field string
	Desc  bool
}

// Options is the translated form of a list query string.
type Options struct {
	Filters []Filter
	Select  []string
	Sort    []SortField
	Page    int
	Limit   int
}

// PageRef describes one page in a pagination descriptor.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination points at the neighbouring pages of a windowed result set.
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// AllowFields builds the field allow-list handed to Parse.
func AllowFields(names ...string) map[string]bool {
	allowed := make(map[string]bool, len(names))
	for _, name := range names {
		allowed[name] = true
	}
	return allowed
}

// Parse translates raw query values into Options. Unknown operators and
// fields outside the allow-list are rejected rather than passed through to
// the store. The input is never mutated.
func Parse(values url.Values, allowed map[string]bool) (*Options, error) {
	opts := &Options{
		Page:  intValue(values.Get("page"), DefaultPage),
		Limit: intValue(values.Get("limit"), DefaultLimit),
	}

	for key := range values {
		if reservedKeys[key] {
			continue
		}
		m := filterKeyPattern.FindStringSubmatch(key)
		if m == nil {
			return nil, errors.Validation("invalid filter key %q", key)
		}
		field := m[1]
		if !allowed[field] {
			return nil, errors.Validation("cannot filter on field %q", field)
		}
		op := OpEq
		if m[2] != "" {
			op = Operator(m[2])
			if _, known := sqlOperators[op]; !known && op != OpIn {
				return nil, errors.Validation("unknown operator %q for field %q", m[2], field)
			}
		}
		opts.Filters = append(opts.Filters, Filter{Field: field, Op: op, Value: values.Get(key)})
	}

	if raw := values.Get("select"); raw != "" {
		for _, field := range strings.Split(raw, ",") {
			field = strings.TrimSpace(field)
			if !allowed[field] {
				return nil, errors.Validation("cannot select field %q", field)
			}
			opts.Select = append(opts.Select, field)
		}
	}

	if raw := values.Get("sort"); raw != "" {
		for _, term := range strings.Split(raw, ",") {
			term = strings.TrimSpace(term)
			desc := strings.HasPrefix(term, "-")
			field := strings.TrimPrefix(term, "-")
			if !allowed[field] {
				return nil, errors.Validation("cannot sort on field %q", field)
			}
			opts.Sort = append(opts.Sort, SortField{Field: field, Desc: desc})
		}
	}

	return opts, nil
}

// Scope applies the filter predicates only. Used for both counting and
// fetching so the total always matches the window.
func (o *Options) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, f := range o.Filters {
			switch f.Op {
			case OpIn:
				db = db.Where(f.Field+" IN ?", strings.Split(f.Value, ","))
			default:
				db = db.Where(f.Field+" "+sqlOperators[f.Op]+" ?", f.Value)
			}
		}
		return db
	}
}

// Window applies projection, ordering and the page window.
func (o *Options) Window() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(o.Select) > 0 {
			db = db.Select(o.Select)
		}
		if len(o.Sort) == 0 {
			db = db.Order(DefaultSort)
		}
		for _, s := range o.Sort {
			direction := " ASC"
			if s.Desc {
				direction = " DESC"
			}
			db = db.Order(s.Field + direction)
		}
		return db.Offset((o.Page - 1) * o.Limit).Limit(o.Limit)
	}
}

// Paginate computes the next/prev descriptor for a total match count taken
// before windowing.
func (o *Options) Paginate(total int64) Pagination {
	var p Pagination
	start := (o.Page - 1) * o.Limit
	end := o.Page * o.Limit
	if int64(end) < total {
		p.Next = &PageRef{Page: o.Page + 1, Limit: o.Limit}
	}
	if start > 0 {
		p.Prev = &PageRef{Page: o.Page - 1, Limit: o.Limit}
	}
	return p
}

func intValue(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
