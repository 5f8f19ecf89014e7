package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFilter_CanonicalIsOrderIndependent(t *testing.T) {
	a, err := NewFilter(KindProjects, Eq("status", "In Progress"), Eq("client.id", "CLT-001"))
	require.NoError(t, err)
	b, err := NewFilter(KindProjects, Eq("client.id", "CLT-001"), Eq("status", "In Progress"))
	require.NoError(t, err)
	assert.Equal(t, a.Canonical(), b.Canonical())
	assert.Equal(t, "client.id=CLT-001&status=In Progress", a.Canonical())
}

func TestNewFilter_UnknownField(t *testing.T) {
	_, err := NewFilter(KindClients, Eq("colour", "red"))
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestNewFilter_NumberCoercion(t *testing.T) {
	f, err := NewFilter(KindProjects, Eq("completion", "45"))
	require.NoError(t, err)
	assert.Equal(t, 45.0, f.Terms()[0].Value)

	_, err = NewFilter(KindProjects, Eq("completion", "most"))
	assert.True(t, IsValidation(err))
}

func TestNewFilter_DuplicateField(t *testing.T) {
	_, err := NewFilter(KindClients, Eq("status", "active"), Eq("status", "inactive"))
	assert.True(t, IsValidation(err))
}

func TestFilter_ZeroValueMatchesAll(t *testing.T) {
	var f Filter
	assert.True(t, f.Empty())
	assert.Equal(t, "", f.Canonical())
}

func TestKindFormatAndValidateID(t *testing.T) {
	assert.Equal(t, "CLT-006", KindClients.FormatID(6))
	assert.Equal(t, "EST-1239", KindEstimates.FormatID(1239))
	assert.Equal(t, "PRJ-1000", KindProjects.FormatID(1000))

	require.NoError(t, KindProjects.ValidateID("PRJ-001"))
	assert.True(t, IsValidation(KindProjects.ValidateID("CLT-001")))
	assert.True(t, IsValidation(KindProjects.ValidateID("project-1")))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("PurchaseOrders")
	require.NoError(t, err)
	assert.Equal(t, KindPurchaseOrders, k)

	_, err = ParseKind("widgets")
	assert.True(t, IsValidation(err))
}
