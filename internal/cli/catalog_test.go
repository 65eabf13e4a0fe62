package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogCommand_Default(t *testing.T) {
	out, err := execute(t, NewCatalogCommand(&RootOptions{Format: "text"}), "")
	require.NoError(t, err)

	assert.Contains(t, out, "Categories: All, Electronics, Wearables, Home Office, Accessories, Kitchen")
	assert.Contains(t, out, "Products (8 of 8):")
	assert.Contains(t, out, "Stylish Headphones")
	assert.Contains(t, out, "$299.99")
}

func TestCatalogCommand_Filtered(t *testing.T) {
	out, err := execute(t, NewCatalogCommand(&RootOptions{Format: "text"}), "",
		"--query", "ER", "--category", "Kitchen")
	require.NoError(t, err)

	assert.Contains(t, out, "Products (1 of 8):")
	assert.Contains(t, out, "Coffee Maker")
	assert.NotContains(t, out, "Headphones")
}

func TestCatalogCommand_NoMatches(t *testing.T) {
	out, err := execute(t, NewCatalogCommand(&RootOptions{Format: "text"}), "", "-q", "xyz")
	require.NoError(t, err)
	assert.Contains(t, out, "No products found for your search/filter.")
}

func TestCatalogCommand_JSON(t *testing.T) {
	out, err := execute(t, NewCatalogCommand(&RootOptions{Format: "json"}), "",
		"--category", "Wearables")
	require.NoError(t, err)

	resps := decodeResponses(t, out)
	require.Len(t, resps, 1)
	assert.Equal(t, "ok", resps[0].Status)

	data := resps[0].Data.(map[string]interface{})
	assert.Equal(t, "Wearables", data["category"])
	products := data["products"].([]interface{})
	require.Len(t, products, 1)
	p := products[0].(map[string]interface{})
	assert.Equal(t, "3", p["id"])
	assert.Equal(t, "$199.99", p["price"])
}

func TestCatalogCommand_UnknownCategory(t *testing.T) {
	out, err := execute(t, NewCatalogCommand(&RootOptions{Format: "text"}), "", "--category", "Toys")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, `unknown category "Toys"`)
}

func TestCatalogCommand_CatalogFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "outdoor.cue", outdoorCatalog)

	out, err := execute(t, NewCatalogCommand(&RootOptions{Format: "text"}), "", "--catalog", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Products (2 of 2):")
	assert.Contains(t, out, "$12.50")
	assert.Contains(t, out, "$189.00")
}

func TestCatalogCommand_MissingCatalogFile(t *testing.T) {
	_, err := execute(t, NewCatalogCommand(&RootOptions{Format: "text"}), "", "--catalog", "/nonexistent/c.cue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "catalog file not found")
}

func TestCatalogCommand_InvalidCatalogFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.cue", `products: [{id: "a", name: "A", price: -1, category: "X"}]`)

	_, err := execute(t, NewCatalogCommand(&RootOptions{Format: "text"}), "", "--catalog", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid catalog")
}
