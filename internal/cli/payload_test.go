package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderramin/buildops/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalar(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"42", 42},
		{"12.5", 12.5},
		{"true", true},
		{"In Progress", "In Progress"},
		{"2023-11-01", "2023-11-01"},
		{"[a", "[a"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, scalar(tt.in))
		})
	}
}

func TestPayload_SetOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: Old Name\nemail: a@b.c\n"), 0o600))

	p := payloadFlags{file: path, sets: []string{"name=New Name", "address.city=Riverside"}}
	raw, err := p.document(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"New Name","email":"a@b.c","address":{"city":"Riverside"}}`, string(raw))
}

func TestPayload_JSONOnStdin(t *testing.T) {
	p := payloadFlags{file: "-"}
	raw, err := p.document(strings.NewReader(`{"status": "Approved", "amount": 10}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"Approved","amount":10}`, string(raw))
}

func TestPayload_Errors(t *testing.T) {
	tests := []struct {
		name string
		p    payloadFlags
	}{
		{"empty", payloadFlags{}},
		{"missing equals", payloadFlags{sets: []string{"name"}}},
		{"scalar used as object", payloadFlags{sets: []string{"client=x", "client.id=CLT-001"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.p.document(nil)
			assert.True(t, domain.IsValidation(err), "got %v", err)
		})
	}
}

func TestPayload_MissingFile(t *testing.T) {
	p := payloadFlags{file: filepath.Join(t.TempDir(), "nope.yaml")}
	_, err := p.document(nil)
	require.Error(t, err)
	assert.False(t, domain.IsValidation(err))
}

func TestJSONPatch_OverlaysOnlyGivenFields(t *testing.T) {
	patch, err := jsonPatch[domain.Client]([]byte(`{"phone":"(555) 000-0000"}`))
	require.NoError(t, err)

	c := domain.Client{ID: "CLT-001", Name: "Riverside Development Corp", Email: "a@b.c"}
	patch.Apply(&c)
	assert.Equal(t, "(555) 000-0000", c.Phone)
	assert.Equal(t, "Riverside Development Corp", c.Name)
}

func TestJSONPatch_UnknownField(t *testing.T) {
	_, err := jsonPatch[domain.Client]([]byte(`{"nickname":"x"}`))
	assert.True(t, domain.IsValidation(err))
}
