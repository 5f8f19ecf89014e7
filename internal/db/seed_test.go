package db

import (
	"context"
	"testing"

	"github.com/alexanderramin/buildops/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDataset_Counts(t *testing.T) {
	ds, err := LoadDataset()
	require.NoError(t, err)

	want := map[domain.Kind]int{
		domain.KindProjects:         5,
		domain.KindClients:          5,
		domain.KindTeam:             10,
		domain.KindEstimates:        5,
		domain.KindInvoices:         6,
		domain.KindExpenses:         5,
		domain.KindWages:            5,
		domain.KindPayrolls:         3,
		domain.KindBudgets:          1,
		domain.KindBudgetCategories: 5,
		domain.KindReports:          6,
		domain.KindEvents:           5,
		domain.KindPurchaseOrders:   5,
		domain.KindProposals:        5,
	}
	for kind, n := range want {
		assert.Len(t, ds[kind], n, "kind %s", kind)
	}
}

func TestParseDataset_RejectsWrongPrefix(t *testing.T) {
	_, err := ParseDataset([]byte("clients:\n  - {id: PRJ-001, name: x}\n"))
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestParseDataset_RejectsUnknownKind(t *testing.T) {
	_, err := ParseDataset([]byte("widgets:\n  - {id: W-1}\n"))
	require.Error(t, err)
}

func TestSeed_OnlyOnce(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, conn))

	var projects int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM records WHERE kind = 'projects'`).Scan(&projects))
	assert.Equal(t, 5, projects)

	_, err := conn.Exec(`DELETE FROM records WHERE kind = 'clients' AND id = 'CLT-003'`)
	require.NoError(t, err)

	require.NoError(t, Seed(ctx, conn))

	var clients int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM records WHERE kind = 'clients'`).Scan(&clients))
	assert.Equal(t, 4, clients, "a second seed must not resurrect deleted records")
}

func TestSeed_SequencesStartAfterFixtures(t *testing.T) {
	conn := openTestDB(t)
	require.NoError(t, Seed(context.Background(), conn))

	cases := map[string]int{"clients": 6, "estimates": 1239, "purchaseOrders": 1006, "budgetCategories": 6}
	for kind, want := range cases {
		var next int
		require.NoError(t, conn.QueryRow(`SELECT next_seq FROM id_sequences WHERE kind = ?`, kind).Scan(&next))
		assert.Equal(t, want, next, kind)
	}
}

func TestSeed_NestedFieldsQueryable(t *testing.T) {
	conn := openTestDB(t)
	require.NoError(t, Seed(context.Background(), conn))

	var id string
	err := conn.QueryRow(`SELECT id FROM records WHERE kind = 'projects' AND json_extract(body, '$.client.id') = 'CLT-002'`).Scan(&id)
	require.NoError(t, err)
	assert.Equal(t, "PRJ-002", id)
}
