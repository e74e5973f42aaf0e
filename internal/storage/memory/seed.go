package memory

import (
	"github.com/linemk/storefront/internal/domain/models"
	"github.com/shopspring/decimal"
)

// SeedDemoCatalog заполняет пустое хранилище демонстрационным каталогом для локального запуска
func (s *Storage) SeedDemoCatalog() {
	categories := []models.Category{
		{Name: "Electronics", Slug: "electronics", ImageURL: "https://images.unsplash.com/photo-1511707171634-5f897ff02aa9"},
		{Name: "Fashion", Slug: "fashion", ImageURL: "https://images.unsplash.com/photo-1567401893414-76b7b1e5a7a5"},
		{Name: "Home & Living", Slug: "home-living", ImageURL: "https://images.unsplash.com/photo-1556228453-efd6c1ff04f6"},
		{Name: "Beauty", Slug: "beauty", ImageURL: "https://images.unsplash.com/photo-1571781926291-c477ebfd024b"},
	}
	ids := make([]int64, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, s.PutCategory(c).ID)
	}
	electronics, fashion := ids[0], ids[1]

	type item struct {
		name, slug, description, price, sale string
		stock                                int
		category                             int64
		isNew                                bool
		image                                string
	}
	items := []item{
		{"Wireless Headphones", "wireless-headphones", "High-quality wireless headphones with noise cancellation", "79.99", "59.99", 50, electronics, false, "photo-1505740420928-5e560c06d30e"},
		{"Smart Watch", "smart-watch", "Advanced smartwatch with health tracking features", "149.99", "", 30, electronics, false, "photo-1546868871-7041f2a55e12"},
		{"Smartphone Pro", "smartphone-pro", "Latest smartphone with advanced camera and long battery life", "899.99", "", 20, electronics, false, "photo-1592899677977-9c10ca588bbd"},
		{"Wireless Earbuds", "wireless-earbuds", "Comfortable wireless earbuds with crystal clear sound", "59.99", "", 100, electronics, true, "photo-1608156639585-b3a032ef9689"},
		{"Red Sneakers", "red-sneakers", "Stylish and comfortable red sneakers for everyday wear", "89.99", "", 45, fashion, false, "photo-1542291026-7eec264c27ff"},
		{"Digital Camera", "digital-camera", "Professional digital camera with high resolution sensor", "599.99", "499.99", 15, electronics, false, "photo-1516035069371-29a1b244cc32"},
		{"Laptop Pro", "laptop-pro", "Powerful laptop for professionals and creators", "1299.99", "", 10, electronics, false, "photo-1496181133206-80ce9b88a853"},
		{"Travel Backpack", "travel-backpack", "Durable backpack with multiple compartments for travel", "99.99", "79.99", 60, fashion, false, "photo-1553062407-98eeb64c6a62"},
	}
	for _, it := range items {
		category := it.category
		p := models.Product{
			Name:        it.name,
			Slug:        it.slug,
			Description: it.description,
			Price:       decimal.RequireFromString(it.price),
			Stock:       it.stock,
			IsNew:       it.isNew,
			ImageURL:    "https://images.unsplash.com/" + it.image,
			CategoryID:  &category,
		}
		if it.sale != "" {
			p.IsOnSale = true
			p.SalePrice = decimal.NewNullDecimal(decimal.RequireFromString(it.sale))
		}
		s.PutProduct(p)
	}
}
