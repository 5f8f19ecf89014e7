package query

import (
	"github.com/alexanderramin/buildops/internal/domain"
)

// Key identifies one cache entry: an entity kind, a scope naming the shape
// of the read (list, id, project, ...) and canonical parameters.
type Key struct {
	Kind   domain.Kind
	Scope  string
	Params string
}

const (
	ScopeList = "list"
	ScopeID   = "id"
)

// ListKey keys a filtered list. Filters with the same terms in any order
// produce the same key.
func ListKey(kind domain.Kind, f domain.Filter) Key {
	return Key{Kind: kind, Scope: ScopeList, Params: f.Canonical()}
}

// IDKey keys a single record read.
func IDKey(kind domain.Kind, id string) Key {
	return Key{Kind: kind, Scope: ScopeID, Params: id}
}

// String renders the key as kind/scope?params, e.g.
// "projects/list?status=In Progress".
func (k Key) String() string {
	s := string(k.Kind) + "/" + k.Scope
	if k.Params != "" {
		s += "?" + k.Params
	}
	return s
}
