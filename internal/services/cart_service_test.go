package services

import (
	"testing"

	"apparel_store/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartFixture() (*stubCartRepo, *stubProductRepo, CartService) {
	cartRepo := &stubCartRepo{}
	productRepo := newStubProductRepo()
	productRepo.addProduct(
		&models.Product{ID: 1, Name: "Crew Tee", Price: 499, IsActive: true},
		&models.ProductVariant{ID: 11, ProductID: 1, Size: "M", Color: "Black", Stock: 3},
	)
	return cartRepo, productRepo, NewCartService(cartRepo, productRepo)
}

func TestAddItemMergesSameVariant(t *testing.T) {
	cartRepo, _, svc := newCartFixture()

	_, err := svc.AddItem(7, 1, "M", "Black", 1)
	require.NoError(t, err)

	item, err := svc.AddItem(7, 1, "M", "Black", 2)
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)
	assert.Len(t, cartRepo.items, 1)
}

func TestAddItemRespectsStock(t *testing.T) {
	_, _, svc := newCartFixture()

	_, err := svc.AddItem(7, 1, "M", "Black", 2)
	require.NoError(t, err)

	// 2 already in the cart + 2 more exceeds the 3 in stock.
	_, err = svc.AddItem(7, 1, "M", "Black", 2)
	assert.ErrorIs(t, err, ErrOutOfStock)
}

func TestAddItemUnknownVariant(t *testing.T) {
	_, _, svc := newCartFixture()

	_, err := svc.AddItem(7, 1, "XXL", "Black", 1)
	assert.ErrorIs(t, err, ErrVariantUnavailable)
}

func TestAddItemInactiveProduct(t *testing.T) {
	_, productRepo, svc := newCartFixture()
	productRepo.products[1].IsActive = false

	_, err := svc.AddItem(7, 1, "M", "Black", 1)
	assert.Error(t, err)
}

func TestCartSubtotal(t *testing.T) {
	cartRepo, productRepo, svc := newCartFixture()
	cartRepo.items = []models.CartItem{
		{ID: 1, UserID: 7, ProductID: 1, Size: "M", Color: "Black", Quantity: 2, Product: productRepo.products[1]},
	}

	summary, err := svc.Get(7)
	require.NoError(t, err)
	assert.Equal(t, float64(998), summary.Subtotal)
}

func TestUpdateQuantityUnknownItem(t *testing.T) {
	_, _, svc := newCartFixture()

	_, err := svc.UpdateQuantity(7, 42, 1)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "oversized-crew-tee", Slugify("Oversized Crew Tee"))
	assert.Equal(t, "80s-washed-denim", Slugify(" 80's Washed  Denim! "))
	assert.Equal(t, "kurta", Slugify("KURTA"))
}
