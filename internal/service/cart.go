package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/pricing"
	"github.com/linemk/storefront/internal/storage"
	"github.com/shopspring/decimal"
)

// PricedCartItem: строка корзины, посчитанная по текущему состоянию каталога
type PricedCartItem struct {
	Item      *models.CartItem
	Product   *models.Product
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

type PricedCart struct {
	Items    []PricedCartItem
	Subtotal decimal.Decimal
}

// Lines возвращает строки для движка цен
func (c *PricedCart) Lines() []pricing.Line {
	lines := make([]pricing.Line, 0, len(c.Items))
	for _, it := range c.Items {
		lines = append(lines, pricing.Line{UnitPrice: it.UnitPrice, Quantity: it.Item.Quantity})
	}
	return lines
}

type CartService interface {
	AddItem(ctx context.Context, userID, productID int64, quantity int) (*models.CartItem, error)
	SetQuantity(ctx context.Context, userID, itemID int64, quantity int) (*models.CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID int64) error
	Clear(ctx context.Context, userID int64) error
	ListWithPricing(ctx context.Context, userID int64) (*PricedCart, error)
}

type cartService struct {
	log     *slog.Logger
	catalog storage.CatalogStorage
	carts   storage.CartStorage
}

func NewCartService(log *slog.Logger, catalog storage.CatalogStorage, carts storage.CartStorage) CartService {
	return &cartService{log: log, catalog: catalog, carts: carts}
}

// AddItem добавляет товар в корзину. Повторное добавление увеличивает количество
func (s *cartService) AddItem(ctx context.Context, userID, productID int64, quantity int) (*models.CartItem, error) {
	const op = "service.CartService.AddItem"
	logger := s.log.With(
		slog.String("op", op),
		slog.Int64("userID", userID),
		slog.Int64("productID", productID),
		slog.Int("quantity", quantity),
	)

	if quantity < 1 {
		return nil, newError(KindInvalidInput, "Invalid quantity", nil)
	}

	if _, err := s.catalog.GetProductByID(ctx, productID); err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			logger.Info("product not found")
			return nil, newError(KindNotFound, "Product not found", err)
		}
		logger.Error("failed to get product", slog.Any("error", err))
		return nil, storageFailure(op, err)
	}

	item, err := s.carts.AddCartItem(ctx, userID, productID, quantity)
	if err != nil {
		logger.Error("failed to add cart item", slog.Any("error", err))
		return nil, storageFailure(op, err)
	}

	logger.Info("cart item added", slog.Int64("itemID", item.ID), slog.Int("total_quantity", item.Quantity))
	return item, nil
}

// SetQuantity задаёт количество. Ноль и отрицательные значения не принимаются, удаление только через RemoveItem
func (s *cartService) SetQuantity(ctx context.Context, userID, itemID int64, quantity int) (*models.CartItem, error) {
	const op = "service.CartService.SetQuantity"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("itemID", itemID))

	if quantity < 1 {
		return nil, newError(KindInvalidInput, "Invalid quantity", nil)
	}

	item, err := s.carts.UpdateCartItemQuantity(ctx, userID, itemID, quantity)
	if err != nil {
		if errors.Is(err, storage.ErrCartItemNotFound) {
			return nil, newError(KindNotFound, "Cart item not found", err)
		}
		logger.Error("failed to update cart item", slog.Any("error", err))
		return nil, storageFailure(op, err)
	}
	return item, nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID, itemID int64) error {
	const op = "service.CartService.RemoveItem"

	deleted, err := s.carts.DeleteCartItem(ctx, userID, itemID)
	if err != nil {
		s.log.Error("failed to delete cart item", slog.String("op", op), slog.Any("error", err))
		return storageFailure(op, err)
	}
	if !deleted {
		return newError(KindNotFound, "Cart item not found", nil)
	}
	return nil
}

func (s *cartService) Clear(ctx context.Context, userID int64) error {
	const op = "service.CartService.Clear"

	n, err := s.carts.ClearCart(ctx, userID)
	if err != nil {
		s.log.Error("failed to clear cart", slog.String("op", op), slog.Int64("userID", userID), slog.Any("error", err))
		return storageFailure(op, err)
	}
	s.log.Debug("cart cleared", slog.String("op", op), slog.Int64("userID", userID), slog.Int64("removed", n))
	return nil
}

func (s *cartService) ListWithPricing(ctx context.Context, userID int64) (*PricedCart, error) {
	const op = "service.CartService.ListWithPricing"

	cart, err := priceCart(ctx, s.carts, s.catalog, userID)
	if err != nil {
		s.log.Error("failed to price cart", slog.String("op", op), slog.Int64("userID", userID), slog.Any("error", err))
		return nil, storageFailure(op, err)
	}
	return cart, nil
}

// priceCart соединяет строки корзины с каталогом. Строки с удалёнными товарами отбрасываются
func priceCart(ctx context.Context, carts storage.CartStorage, catalog storage.CatalogStorage, userID int64) (*PricedCart, error) {
	items, err := carts.ListCartItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}

	cart := &PricedCart{Items: []PricedCartItem{}, Subtotal: decimal.Zero}
	if len(items) == 0 {
		return cart, nil
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := catalog.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	byID := make(map[int64]*models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, it := range items {
		product, ok := byID[it.ProductID]
		if !ok {
			continue
		}
		line := pricing.NewLine(product, it.Quantity)
		cart.Items = append(cart.Items, PricedCartItem{
			Item:      it,
			Product:   product,
			UnitPrice: line.UnitPrice,
			LineTotal: pricing.LineTotal(line),
		})
	}
	cart.Subtotal = pricing.Subtotal(cart.Lines())
	return cart, nil
}
