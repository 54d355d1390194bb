package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/ashendes/delivery-client/internal/models"
)

// CategoryAll disables the category filter
const CategoryAll = "Todos"

// SortOrder orders search results
type SortOrder string

const (
	SortRelevance    SortOrder = "relevance"
	SortPrice        SortOrder = "price"
	SortRating       SortOrder = "rating"
	SortDeliveryTime SortOrder = "delivery_time"
)

// ParseSortOrder maps unknown values to SortRelevance
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case SortPrice:
		return SortPrice
	case SortRating:
		return SortRating
	case SortDeliveryTime:
		return SortDeliveryTime
	default:
		return SortRelevance
	}
}

// Filter matches query case-insensitively against name or description and keeps
// the server order. An empty or "Todos" category matches every product.
func Filter(products []models.Product, query, category string) []models.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	allCategories := category == "" || strings.EqualFold(category, CategoryAll)

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if !allCategories && !strings.EqualFold(p.Category, category) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Sort orders products in place. deliveryMinutes maps restaurant id to the
// minimum delivery time; products of unknown restaurants go last.
func Sort(products []models.Product, order SortOrder, deliveryMinutes map[string]int) {
	switch order {
	case SortPrice:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case SortRating:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Rating > products[j].Rating })
	case SortDeliveryTime:
		sort.SliceStable(products, func(i, j int) bool {
			a, aok := deliveryMinutes[products[i].RestaurantID]
			b, bok := deliveryMinutes[products[j].RestaurantID]
			if aok != bok {
				return aok
			}
			return a < b
		})
	}
}

// Search filters and sorts every product
func (s *Service) Search(ctx context.Context, query, category string, order SortOrder) ([]models.Product, error) {
	products, err := s.AllProducts(ctx)
	if err != nil {
		return nil, err
	}

	results := Filter(products, query, category)

	var minutes map[string]int
	if order == SortDeliveryTime && len(results) > 1 {
		restaurants, err := s.Restaurants(ctx)
		if err != nil {
			return nil, err
		}
		minutes = make(map[string]int, len(restaurants))
		for _, r := range restaurants {
			if m, ok := r.DeliveryMinutes(); ok {
				minutes[r.ID] = m
			}
		}
	}

	Sort(results, order, minutes)
	return results, nil
}
