package models

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type ProductsRepository struct {
	db *gorm.DB
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

// ListProducts returns products newest first, optionally scoped to one owner
// and joined with the owner's name and location.
func (r *ProductsRepository) ListProducts(ctx context.Context, q ProductQuery) ([]Product, error) {
	query := r.db.WithContext(ctx).
		Model(&Product{}).
		Order("created_at DESC, id DESC")

	if q.WithOwner {
		query = query.Preload("Owner", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "location")
		})
	}
	if q.OwnerID != "" {
		query = query.Where("user_id = ?", q.OwnerID)
	}

	products := []Product{}
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w: %w", ErrTransport, err)
	}
	return products, nil
}

func (r *ProductsRepository) GetByID(ctx context.Context, id string) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).
		Preload("Owner", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "location")
		}).
		Where("id = ?", id).
		First(&product).Error; err != nil {
		return nil, notFoundOrTransport("get product", err)
	}
	return &product, nil
}

func (r *ProductsRepository) CreateProduct(ctx context.Context, product *Product) error {
	if err := r.db.WithContext(ctx).Omit("Owner").Create(product).Error; err != nil {
		return fmt.Errorf("create product: %w: %w", ErrTransport, err)
	}
	return nil
}

// UpdateProduct rewrites the mutable fields of a product owned by actorID.
// An empty imageURL leaves the stored image reference as it is. The owner
// and creation time are never written.
func (r *ProductsRepository) UpdateProduct(ctx context.Context, id, actorID string, fields ProductFields, imageURL string) (*Product, error) {
	var product Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.ownedBy(tx, id, actorID, &product); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"name":        fields.Name,
			"description": fields.Description,
			"category":    fields.Category,
			"price":       fields.Price,
		}
		if imageURL != "" {
			updates["image_url"] = imageURL
		}
		if err := tx.Model(&Product{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("update product: %w: %w", ErrTransport, err)
		}
		if err := tx.Where("id = ?", id).First(&product).Error; err != nil {
			return notFoundOrTransport("reload product", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct permanently removes a product owned by actorID.
func (r *ProductsRepository) DeleteProduct(ctx context.Context, id, actorID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product Product
		if err := r.ownedBy(tx, id, actorID, &product); err != nil {
			return err
		}
		if err := tx.Where("id = ?", id).Delete(&Product{}).Error; err != nil {
			return fmt.Errorf("delete product: %w: %w", ErrTransport, err)
		}
		return nil
	})
}

// CountByCategory returns the number of products per category. Categories
// without products are absent from the map.
func (r *ProductsRepository) CountByCategory(ctx context.Context) (map[Category]int64, error) {
	var rows []struct {
		Category Category
		Count    int64
	}
	if err := r.db.WithContext(ctx).
		Model(&Product{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count products: %w: %w", ErrTransport, err)
	}

	counts := make(map[Category]int64, len(rows))
	for _, row := range rows {
		counts[row.Category] = row.Count
	}
	return counts, nil
}

// ImageURLs returns every image reference currently held by a product.
func (r *ProductsRepository) ImageURLs(ctx context.Context) ([]string, error) {
	var urls []string
	if err := r.db.WithContext(ctx).
		Model(&Product{}).
		Where("image_url <> ''").
		Distinct().
		Pluck("image_url", &urls).Error; err != nil {
		return nil, fmt.Errorf("list image urls: %w: %w", ErrTransport, err)
	}
	return urls, nil
}

func (r *ProductsRepository) ownedBy(tx *gorm.DB, id, actorID string, dest *Product) error {
	if err := tx.Where("id = ?", id).First(dest).Error; err != nil {
		return notFoundOrTransport("get product", err)
	}
	if dest.UserID != actorID {
		return ErrForbidden
	}
	return nil
}

func notFoundOrTransport(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProductNotFound
	}
	return fmt.Errorf("%s: %w: %w", op, ErrTransport, err)
}
