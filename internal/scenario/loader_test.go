package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

func TestParse_AppliesDefaults(t *testing.T) {
	f, err := Parse([]byte(`
steps:
  - action: " Checkout "
    nil: true
    expect_error: invalid_input
`))
	require.NoError(t, err)

	assert.Equal(t, "1", f.Version)
	require.Len(t, f.Steps, 1)
	assert.Equal(t, ActionCheckout, f.Steps[0].Action)
	assert.Equal(t, domain.KindInvalidInput, f.Steps[0].ExpectError)
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "no steps", yaml: "name: empty\n"},
		{name: "unknown action", yaml: "steps:\n  - action: teleport\n"},
		{name: "add without product", yaml: "steps:\n  - action: add\n    quantity: 1\n"},
		{name: "set_quantity without product", yaml: "steps:\n  - action: set_quantity\n    quantity: 1\n"},
		{name: "set_balance without balance", yaml: "steps:\n  - action: set_balance\n"},
		{name: "create_product without definition", yaml: "steps:\n  - action: create_product\n"},
		{name: "create_customer without definition", yaml: "steps:\n  - action: create_customer\n"},
		{name: "duplicate product", yaml: "products:\n  - {name: A, price: \"1\"}\n  - {name: A, price: \"2\"}\nsteps:\n  - action: clear\n"},
		{name: "malformed yaml", yaml: "steps: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: from file\nsteps:\n  - action: clear\n"), 0o644))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from file", f.Name)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "storefront demo", f.Name)
	assert.Equal(t, "2024-06-01", f.Today)
	require.Len(t, f.Customers, 1)
	assert.Equal(t, "Alice", f.Customers[0].Name)
	assert.NotEmpty(t, f.Steps)
}

func TestMarshalRoundTripKeepsSteps(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)

	data, err := Marshal(f)
	require.NoError(t, err)

	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, len(f.Steps), len(again.Steps))
	assert.Equal(t, f.Products, again.Products)
}
