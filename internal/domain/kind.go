package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind names an entity type. The string form doubles as the storage
// discriminator and the cache-key namespace.
type Kind string

const (
	KindProjects         Kind = "projects"
	KindClients          Kind = "clients"
	KindEstimates        Kind = "estimates"
	KindInvoices         Kind = "invoices"
	KindExpenses         Kind = "expenses"
	KindWages            Kind = "wages"
	KindPayrolls         Kind = "payrolls"
	KindProposals        Kind = "proposals"
	KindPurchaseOrders   Kind = "purchaseOrders"
	KindReports          Kind = "reports"
	KindEvents           Kind = "events"
	KindTeam             Kind = "team"
	KindBudgets          Kind = "budgets"
	KindBudgetCategories Kind = "budgetCategories"
)

type kindInfo struct {
	prefix   string
	singular string
	width    int
}

var kinds = map[Kind]kindInfo{
	KindProjects:         {prefix: "PRJ", singular: "project", width: 3},
	KindClients:          {prefix: "CLT", singular: "client", width: 3},
	KindEstimates:        {prefix: "EST", singular: "estimate", width: 4},
	KindInvoices:         {prefix: "INV", singular: "invoice", width: 4},
	KindExpenses:         {prefix: "EXP", singular: "expense", width: 4},
	KindWages:            {prefix: "WG", singular: "wage", width: 3},
	KindPayrolls:         {prefix: "PAY", singular: "payroll", width: 3},
	KindProposals:        {prefix: "PROP", singular: "proposal", width: 4},
	KindPurchaseOrders:   {prefix: "PO", singular: "purchase order", width: 4},
	KindReports:          {prefix: "REP", singular: "report", width: 3},
	KindEvents:           {prefix: "EVT", singular: "event", width: 3},
	KindTeam:             {prefix: "EMP", singular: "team member", width: 3},
	KindBudgets:          {prefix: "BUD", singular: "budget", width: 3},
	KindBudgetCategories: {prefix: "BC", singular: "budget category", width: 3},
}

// AllKinds lists every entity kind in a stable order.
func AllKinds() []Kind {
	return []Kind{
		KindProjects, KindClients, KindEstimates, KindInvoices, KindExpenses,
		KindWages, KindPayrolls, KindProposals, KindPurchaseOrders, KindReports,
		KindEvents, KindTeam, KindBudgets, KindBudgetCategories,
	}
}

// ParseKind resolves a kind by its canonical name (case-insensitive).
func ParseKind(s string) (Kind, error) {
	for k := range kinds {
		if strings.EqualFold(string(k), s) {
			return k, nil
		}
	}
	return "", Invalid("kind", "unknown entity type %q", s)
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

// Prefix returns the id prefix for k, e.g. "PRJ".
func (k Kind) Prefix() string { return kinds[k].prefix }

// Singular returns a human-readable singular name, e.g. "purchase order".
func (k Kind) Singular() string {
	if info, ok := kinds[k]; ok {
		return info.singular
	}
	return string(k)
}

// FormatID renders the display identifier for seq, zero padded to the
// kind's seed width.
func (k Kind) FormatID(seq int) string {
	info := kinds[k]
	return fmt.Sprintf("%s-%0*d", info.prefix, info.width, seq)
}

var idPattern = regexp.MustCompile(`^([A-Z]{2,4})-([0-9]+)$`)

// ParseID splits an identifier of the form PREFIX-NUMBER.
func ParseID(id string) (prefix string, seq int, err error) {
	m := idPattern.FindStringSubmatch(id)
	if m == nil {
		return "", 0, Invalid("id", "%q must look like PREFIX-NUMBER (e.g. PRJ-001)", id)
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, Invalid("id", "%q has a non-numeric suffix", id)
	}
	return m[1], n, nil
}

// ValidateID checks that id carries k's prefix.
func (k Kind) ValidateID(id string) error {
	prefix, _, err := ParseID(id)
	if err != nil {
		return err
	}
	if prefix != k.Prefix() {
		return Invalid("id", "%q is not a %s id (expected %s-…)", id, k.Singular(), k.Prefix())
	}
	return nil
}
