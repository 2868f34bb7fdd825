package services

import (
	"errors"
	"fmt"

	"apparel_store/internal/models"
	"apparel_store/internal/repository"

	"gorm.io/gorm"
)

var ErrCartItemNotFound = errors.New("cart item not found")

type CartSummary struct {
	Items    []models.CartItem `json:"items"`
	Subtotal float64           `json:"subtotal"`
}

type CartService interface {
	Get(userID uint) (*CartSummary, error)
	AddItem(userID, productID uint, size, color string, quantity int) (*models.CartItem, error)
	UpdateQuantity(userID, itemID uint, quantity int) (*models.CartItem, error)
	RemoveItem(userID, itemID uint) error
	Clear(userID uint) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{cartRepo: cartRepo, productRepo: productRepo}
}

func (s *cartService) Get(userID uint) (*CartSummary, error) {
	items, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}

	summary := &CartSummary{Items: items}
	for _, item := range items {
		if item.Product != nil {
			summary.Subtotal += item.Product.Price * float64(item.Quantity)
		}
	}
	return summary, nil
}

func (s *cartService) AddItem(userID, productID uint, size, color string, quantity int) (*models.CartItem, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil || !product.IsActive {
		return nil, fmt.Errorf("product %d is unavailable", productID)
	}

	variant, err := s.productRepo.GetVariant(productID, size, color)
	if err != nil {
		return nil, ErrVariantUnavailable
	}

	// Adding the same variant twice merges into one line.
	existing, err := s.cartRepo.GetItem(userID, productID, size, color)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	newQuantity := quantity
	if existing != nil {
		newQuantity += existing.Quantity
	}
	if variant.Stock < newQuantity {
		return nil, ErrOutOfStock
	}

	if existing != nil {
		existing.Quantity = newQuantity
		if err := s.cartRepo.Update(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	item := &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Size:      size,
		Color:     color,
		Quantity:  quantity,
	}
	if err := s.cartRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *cartService) UpdateQuantity(userID, itemID uint, quantity int) (*models.CartItem, error) {
	items, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].ID != itemID {
			continue
		}
		variant, err := s.productRepo.GetVariant(items[i].ProductID, items[i].Size, items[i].Color)
		if err != nil {
			return nil, ErrVariantUnavailable
		}
		if variant.Stock < quantity {
			return nil, ErrOutOfStock
		}
		items[i].Quantity = quantity
		if err := s.cartRepo.Update(&items[i]); err != nil {
			return nil, err
		}
		return &items[i], nil
	}
	return nil, ErrCartItemNotFound
}

func (s *cartService) RemoveItem(userID, itemID uint) error {
	return s.cartRepo.Delete(itemID, userID)
}

func (s *cartService) Clear(userID uint) error {
	return s.cartRepo.ClearUser(userID)
}
