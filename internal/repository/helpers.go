package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/buildops/internal/domain"
)

// nowUTC returns the current UTC time formatted for the audit columns.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// whereClause renders the filter as SQL predicates over the JSON body.
func whereClause(f domain.Filter) (string, []any) {
	var b strings.Builder
	b.WriteString("kind = ?")
	args := []any{string(f.Kind())}
	for _, t := range f.Terms() {
		b.WriteString(" AND json_extract(body, ?) = ?")
		args = append(args, domain.JSONPath(t.Field), sqlValue(t.Value))
	}
	return b.String(), args
}

func sqlValue(v any) any {
	if b, ok := v.(bool); ok {
		if b {
			return 1
		}
		return 0
	}
	return v
}

func notFoundIfNone(n int64, kind domain.Kind, id string) error {
	if n == 0 {
		return domain.NewNotFound(kind, id)
	}
	return nil
}

var errNoFilterKind = errors.New("filter has no entity kind")

func requireKind(f domain.Filter) error {
	if f.Kind() == "" {
		return fmt.Errorf("listing records: %w", errNoFilterKind)
	}
	return nil
}
