// Package catalog serves restaurants and products through the query cache and
// runs the admin product mutations.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ashendes/delivery-client/internal/cache"
	"github.com/ashendes/delivery-client/internal/models"
	"github.com/ashendes/delivery-client/internal/notify"
	log "github.com/sirupsen/logrus"
)

// DefaultStaleTime is how long catalog reads stay cached
const DefaultStaleTime = 5 * time.Minute

// ErrUnauthorized is returned for admin operations without a logged-in session
var ErrUnauthorized = errors.New("admin session required")

// CatalogAPI is the slice of the backend client the catalog uses
type CatalogAPI interface {
	ListRestaurants(ctx context.Context) ([]models.Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (models.Restaurant, error)
	DeleteRestaurant(ctx context.Context, id string) error
	ListProducts(ctx context.Context, restaurantID string) ([]models.Product, error)
	CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error)
	UpdateProduct(ctx context.Context, id string, in models.ProductInput) (models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// Session reports whether an admin is logged in
type Session interface {
	IsAuthenticated() bool
}

// Service is the catalog read and admin surface
type Service struct {
	api       CatalogAPI
	cache     cache.QueryCache
	session   Session
	notifier  notify.Notifier
	staleTime time.Duration
}

// NewService builds the catalog over api. A nil notifier discards notifications.
func NewService(api CatalogAPI, c cache.QueryCache, session Session, notifier notify.Notifier, staleTime time.Duration) *Service {
	if staleTime <= 0 {
		staleTime = DefaultStaleTime
	}
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Service{api: api, cache: c, session: session, notifier: notifier, staleTime: staleTime}
}

// Restaurants lists every restaurant
func (s *Service) Restaurants(ctx context.Context) ([]models.Restaurant, error) {
	restaurants, err := cache.Query(ctx, s.cache, cache.KeyRestaurants, s.staleTime, s.api.ListRestaurants)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	return restaurants, nil
}

// Restaurant returns one restaurant by id
func (s *Service) Restaurant(ctx context.Context, id string) (models.Restaurant, error) {
	restaurant, err := cache.Query(ctx, s.cache, cache.RestaurantKey(id), s.staleTime, func(ctx context.Context) (models.Restaurant, error) {
		return s.api.GetRestaurant(ctx, id)
	})
	if err != nil {
		return models.Restaurant{}, fmt.Errorf("get restaurant %s: %w", id, err)
	}
	return restaurant, nil
}

// Products lists one restaurant's products; an empty id yields an empty list
func (s *Service) Products(ctx context.Context, restaurantID string) ([]models.Product, error) {
	if restaurantID == "" {
		return []models.Product{}, nil
	}
	products, err := cache.Query(ctx, s.cache, cache.ProductsKey(restaurantID), s.staleTime, func(ctx context.Context) ([]models.Product, error) {
		return s.api.ListProducts(ctx, restaurantID)
	})
	if err != nil {
		return nil, fmt.Errorf("list products for restaurant %s: %w", restaurantID, err)
	}
	return products, nil
}

// AllProducts lists the products of every restaurant
func (s *Service) AllProducts(ctx context.Context) ([]models.Product, error) {
	products, err := cache.Query(ctx, s.cache, cache.KeyAllProducts, s.staleTime, func(ctx context.Context) ([]models.Product, error) {
		return s.api.ListProducts(ctx, "")
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *Service) requireAdmin() error {
	if s.session == nil || !s.session.IsAuthenticated() {
		return ErrUnauthorized
	}
	return nil
}

func (s *Service) invalidateProducts(ctx context.Context, restaurantID string) {
	if restaurantID == "" {
		// restaurant unknown: drop every product list and restaurant detail
		cache.InvalidateAll(ctx, s.cache, "products", "restaurant")
		return
	}
	cache.InvalidateAll(ctx, s.cache, cache.KeyAllProducts, cache.ProductsKey(restaurantID), cache.RestaurantKey(restaurantID))
}

func (s *Service) failed(action string, err error) error {
	log.WithFields(log.Fields{
		"action": action,
		"error":  err.Error(),
	}).Error("Catalog admin operation failed")
	s.notifier.Notify(notify.LevelError, "Erro", "Não foi possível "+action+".")
	return fmt.Errorf("%s: %w", action, err)
}

// CreateProduct adds a product for a logged-in admin
func (s *Service) CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	if err := s.requireAdmin(); err != nil {
		return models.Product{}, err
	}

	product, err := s.api.CreateProduct(ctx, in.WithDefaults())
	if err != nil {
		return models.Product{}, s.failed("criar o produto", err)
	}

	restaurantID := product.RestaurantID
	if restaurantID == "" {
		restaurantID = in.RestaurantID
	}
	s.invalidateProducts(ctx, restaurantID)
	log.WithFields(log.Fields{
		"product_id":    product.ID,
		"restaurant_id": restaurantID,
	}).Info("Product created")
	s.notifier.Notify(notify.LevelSuccess, "Produto criado", in.Name+" foi adicionado ao cardápio.")
	return product, nil
}

// UpdateProduct replaces a product for a logged-in admin
func (s *Service) UpdateProduct(ctx context.Context, id string, in models.ProductInput) (models.Product, error) {
	if err := s.requireAdmin(); err != nil {
		return models.Product{}, err
	}

	product, err := s.api.UpdateProduct(ctx, id, in.WithDefaults())
	if err != nil {
		return models.Product{}, s.failed("atualizar o produto", err)
	}

	restaurantID := product.RestaurantID
	if restaurantID == "" {
		restaurantID = in.RestaurantID
	}
	s.invalidateProducts(ctx, restaurantID)
	log.WithField("product_id", id).Info("Product updated")
	s.notifier.Notify(notify.LevelSuccess, "Produto atualizado", in.Name+" foi atualizado.")
	return product, nil
}

// DeleteProduct removes a product. restaurantID narrows the invalidation and may be empty.
func (s *Service) DeleteProduct(ctx context.Context, id, restaurantID string) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}

	if err := s.api.DeleteProduct(ctx, id); err != nil {
		return s.failed("excluir o produto", err)
	}

	s.invalidateProducts(ctx, restaurantID)
	log.WithField("product_id", id).Info("Product deleted")
	s.notifier.Notify(notify.LevelSuccess, "Produto excluído", "O produto foi removido.")
	return nil
}

// DeleteRestaurant removes a restaurant and drops its cached products
func (s *Service) DeleteRestaurant(ctx context.Context, id string) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}

	if err := s.api.DeleteRestaurant(ctx, id); err != nil {
		return s.failed("excluir o restaurante", err)
	}

	cache.InvalidateAll(ctx, s.cache, cache.KeyRestaurants, cache.RestaurantKey(id), cache.ProductsKey(id), cache.KeyAllProducts)
	log.WithField("restaurant_id", id).Info("Restaurant deleted")
	s.notifier.Notify(notify.LevelSuccess, "Restaurante excluído", "O restaurante foi removido.")
	return nil
}
