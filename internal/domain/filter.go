package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FieldType is the value type a filterable field accepts.
type FieldType int

const (
	FieldString FieldType = iota
	FieldNumber
	FieldBool
)

// FieldSpec declares one filterable field. Dotted names address one level
// of nesting, e.g. "client.id".
type FieldSpec struct {
	Name string
	Type FieldType
}

var filterFields = map[Kind][]FieldSpec{
	KindProjects: {
		{"status", FieldString}, {"client.id", FieldString}, {"client.name", FieldString},
		{"manager.id", FieldString}, {"completion", FieldNumber}, {"location", FieldString},
	},
	KindClients: {
		{"status", FieldString}, {"company", FieldString}, {"contactPerson", FieldString},
	},
	KindEstimates: {
		{"projectId", FieldString}, {"status", FieldString}, {"client", FieldString}, {"category", FieldString},
	},
	KindInvoices: {
		{"projectId", FieldString}, {"clientId", FieldString}, {"status", FieldString},
	},
	KindExpenses: {
		{"projectId", FieldString}, {"status", FieldString}, {"category", FieldString}, {"submittedBy", FieldString},
	},
	KindWages: {
		{"projectId", FieldString}, {"employeeId", FieldString}, {"date", FieldString},
	},
	KindPayrolls: {
		{"status", FieldString}, {"period.start", FieldString}, {"period.end", FieldString},
	},
	KindProposals: {
		{"projectId", FieldString}, {"status", FieldString}, {"client", FieldString},
	},
	KindPurchaseOrders: {
		{"projectId", FieldString}, {"status", FieldString}, {"vendor", FieldString},
	},
	KindReports: {
		{"status", FieldString}, {"category", FieldString}, {"author", FieldString},
	},
	KindEvents: {
		{"projectId", FieldString}, {"status", FieldString},
	},
	KindTeam: {
		{"status", FieldString}, {"department", FieldString}, {"role", FieldString},
	},
	KindBudgets: {
		{"projectId", FieldString},
	},
	KindBudgetCategories: {
		{"projectId", FieldString}, {"name", FieldString},
	},
}

// FilterFields returns the declared filterable fields for k.
func FilterFields(k Kind) []FieldSpec {
	return filterFields[k]
}

func lookupField(k Kind, name string) (FieldSpec, bool) {
	for _, f := range filterFields[k] {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Term is one exact-equality condition.
type Term struct {
	Field string
	Value any
}

// Eq builds an equality term.
func Eq(field string, value any) Term {
	return Term{Field: field, Value: value}
}

// Filter is a validated conjunction of equality terms for one kind.
// The zero Filter matches everything.
type Filter struct {
	kind  Kind
	terms []Term
}

// NewFilter validates terms against the fields declared for kind. Unknown
// fields and mistyped values are rejected rather than silently matching
// nothing.
func NewFilter(kind Kind, terms ...Term) (Filter, error) {
	if !kind.Valid() {
		return Filter{}, Invalid("kind", "unknown entity type %q", kind)
	}
	seen := make(map[string]bool, len(terms))
	normalized := make([]Term, 0, len(terms))
	for _, t := range terms {
		spec, ok := lookupField(kind, t.Field)
		if !ok {
			return Filter{}, Invalid("filter", "%s cannot be filtered by %q", kind, t.Field)
		}
		if seen[t.Field] {
			return Filter{}, Invalid("filter", "field %q given more than once", t.Field)
		}
		seen[t.Field] = true
		v, err := coerceValue(spec, t.Value)
		if err != nil {
			return Filter{}, err
		}
		normalized = append(normalized, Term{Field: t.Field, Value: v})
	}
	sort.Slice(normalized, func(i, j int) bool { return normalized[i].Field < normalized[j].Field })
	return Filter{kind: kind, terms: normalized}, nil
}

// MustFilter is NewFilter for statically known terms; it panics on error.
func MustFilter(kind Kind, terms ...Term) Filter {
	f, err := NewFilter(kind, terms...)
	if err != nil {
		panic(err)
	}
	return f
}

func coerceValue(spec FieldSpec, v any) (any, error) {
	switch spec.Type {
	case FieldString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case FieldNumber:
		switch n := v.(type) {
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case float64:
			return n, nil
		case string:
			f, err := strconv.ParseFloat(n, 64)
			if err == nil {
				return f, nil
			}
		}
	case FieldBool:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			parsed, err := strconv.ParseBool(b)
			if err == nil {
				return parsed, nil
			}
		}
	}
	return nil, Invalid(spec.Name, "unsupported value %v (%T)", v, v)
}

// Kind returns the entity kind the filter was built for.
func (f Filter) Kind() Kind { return f.kind }

// Terms returns the terms sorted by field name.
func (f Filter) Terms() []Term {
	out := make([]Term, len(f.terms))
	copy(out, f.terms)
	return out
}

// Empty reports whether the filter matches every record.
func (f Filter) Empty() bool { return len(f.terms) == 0 }

// Canonical renders the terms as a stable string, e.g.
// "client.id=CLT-001&status=In Progress".
func (f Filter) Canonical() string {
	parts := make([]string, 0, len(f.terms))
	for _, t := range f.terms {
		parts = append(parts, fmt.Sprintf("%s=%v", t.Field, t.Value))
	}
	return strings.Join(parts, "&")
}

// JSONPath returns the SQLite json_extract path for a field name.
func JSONPath(field string) string {
	return "$." + field
}
