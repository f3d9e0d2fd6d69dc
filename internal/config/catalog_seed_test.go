package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadCatalogSeed(t *testing.T) {
	seed, err := LoadCatalogSeed(filepath.Join("..", "..", "docs", "catalog_seed.yaml"))
	require.NoError(t, err)
	require.Len(t, seed.Categories, 8)
	require.NotEmpty(t, seed.Products)
	require.Equal(t, "Laptop", seed.Products[0].Category)
	require.Equal(t, "69999.00", seed.Products[0].Price)
}

func TestCatalogSeedUnknownCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	content := `
categories:
  - name: Mouse
products:
  - name: Desk Lamp
    category: Lighting
    price: "10.00"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := LoadCatalogSeed(path)
	require.ErrorContains(t, err, "unknown category")
}

func TestCatalogSeedInvalidPrice(t *testing.T) {
	seed := &CatalogSeed{
		Categories: []SeedCategory{{Name: "Mouse"}},
		Products:   []SeedProduct{{Name: "Viper", Category: "Mouse", Price: "cheap"}},
	}
	require.ErrorContains(t, seed.Validate(), "invalid price")
}
