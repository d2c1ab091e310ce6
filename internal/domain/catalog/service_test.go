package catalog

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func testProducts() []Product {
	return []Product{
		{ID: 1, Name: "Zeta Case", Price: dec("20"), Category: "Protective", Brand: "Zeta", Colors: []string{"Black", "Red"}, InStock: true, Rating: 4.1, Compatibility: []string{"iPhone 15"}},
		{ID: 2, Name: "alpha slim", Price: dec("35.50"), Category: "Slim", Brand: "Aero", Colors: []string{"Frost"}, InStock: true, Rating: 4.9},
		{ID: 3, Name: "Mid Folio", Price: dec("150"), OriginalPrice: decPtr("200"), Category: "protective", Brand: "Nova", Colors: []string{"Brown"}, Rating: 4.1, Compatibility: []string{"Pixel 8"}},
	}
}

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog(testProducts())
	require.NoError(t, err)
	return c
}

func TestNewCatalog_RejectsInvalidProducts(t *testing.T) {
	cases := map[string]Product{
		"no colors":      {ID: 9, Name: "x", Price: dec("1")},
		"negative price": {ID: 9, Name: "x", Price: dec("-1"), Colors: []string{"Black"}},
		"rating range":   {ID: 9, Name: "x", Price: dec("1"), Colors: []string{"Black"}, Rating: 5.5},
		"empty name":     {ID: 9, Name: " ", Price: dec("1"), Colors: []string{"Black"}},
	}

	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewCatalog([]Product{p})
			assert.ErrorIs(t, err, ErrInvalidProduct)
		})
	}

	t.Run("duplicate id", func(t *testing.T) {
		p := testProducts()[0]
		_, err := NewCatalog([]Product{p, p})
		assert.ErrorIs(t, err, ErrInvalidProduct)
	})
}

func TestCatalog_GetReturnsCopies(t *testing.T) {
	c := newTestCatalog(t)

	p, err := c.Get(1)
	require.NoError(t, err)
	p.Colors[0] = "Mutated"

	again, err := c.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Black", again.Colors[0])

	_, err = c.Get(42)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalog_Categories(t *testing.T) {
	c := newTestCatalog(t)
	assert.Equal(t, []string{"all", "protective", "slim"}, c.Categories())
}

func TestCatalog_List(t *testing.T) {
	c := newTestCatalog(t)

	ids := func(ps []Product) []int {
		out := make([]int, len(ps))
		for i, p := range ps {
			out[i] = p.ID
		}
		return out
	}

	assert.Equal(t, []int{2, 3, 1}, ids(c.List(ListQuery{})), "default sort is by name, case-insensitive")
	assert.Equal(t, []int{1, 2, 3}, ids(c.List(ListQuery{SortBy: SortByPriceLow})))
	assert.Equal(t, []int{3, 2, 1}, ids(c.List(ListQuery{SortBy: SortByPriceHigh})))
	assert.Equal(t, []int{2, 1, 3}, ids(c.List(ListQuery{SortBy: SortByRating})), "ties keep catalog order")

	assert.Equal(t, []int{3, 1}, ids(c.List(ListQuery{Category: "PROTECTIVE"})))
	assert.Equal(t, []int{2, 3, 1}, ids(c.List(ListQuery{Category: AllCategories})))

	assert.Equal(t, []int{2, 1}, ids(c.List(ListQuery{MinPrice: decPtr("20"), MaxPrice: decPtr("35.50")})), "price bounds are inclusive")
	assert.Empty(t, c.List(ListQuery{Category: "wallet"}))
}

func TestCatalog_SearchAndFeatured(t *testing.T) {
	c := newTestCatalog(t)

	found := c.Search("pixel")
	require.Len(t, found, 1)
	assert.Equal(t, 3, found[0].ID)

	assert.Len(t, c.Search("aero"), 1)
	assert.Empty(t, c.Search("   "))

	assert.Len(t, c.Featured(2), 2)
	assert.Len(t, c.Featured(10), 3)
	assert.Empty(t, c.Featured(-1))
}

func TestProduct_Helpers(t *testing.T) {
	p := testProducts()[2]
	assert.Equal(t, 25, p.DiscountPercentage())
	assert.Equal(t, "Brown", p.DefaultColor())
	assert.True(t, p.HasColor("Brown"))
	assert.False(t, p.HasColor("brown"))
	assert.Zero(t, testProducts()[0].DiscountPercentage())
}

func TestEmbeddedSeedBuildsCatalog(t *testing.T) {
	c, err := Build(context.Background(), EmbeddedLoader{})
	require.NoError(t, err)
	assert.Greater(t, c.Len(), 3)

	for _, p := range c.All() {
		assert.NotEmpty(t, p.Colors, "product %d", p.ID)
	}
}

func TestProductRecordRoundTrip(t *testing.T) {
	p := testProducts()[2]
	p.Features = []string{"Kickstand", "Card slots, RFID blocking", `Quoted "edge" {guard}`}

	back := RecordFromProduct(p, 7).ToProduct()
	assert.Equal(t, p.ID, back.ID)
	assert.True(t, p.Price.Equal(back.Price))
	require.NotNil(t, back.OriginalPrice)
	assert.True(t, p.OriginalPrice.Equal(*back.OriginalPrice))
	assert.Equal(t, p.Features, back.Features)
	assert.Equal(t, p.Colors, back.Colors)
	empty := RecordFromProduct(testProducts()[1], 0)
	assert.NotNil(t, empty.Compatibility)
	assert.Empty(t, empty.ToProduct().Compatibility)

	// Array values go through the Postgres text encoding
	raw, err := RecordFromProduct(p, 0).Features.Value()
	require.NoError(t, err)
	var scanned pq.StringArray
	require.NoError(t, scanned.Scan(raw))
	assert.Equal(t, p.Features, fromArray(scanned))
}
