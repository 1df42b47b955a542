package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-api/internal/models"
)

const productColumns = "id, name, description, price, created_at, updated_at"

var productFilters = filterSet{
	"id":          {"id", matchInt},
	"name":        {"name", matchLike},
	"description": {"description", matchLike},
	"price":       {"price", matchFloat},
}

// ProductRepository persists catalog products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository constructs a ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) List(ctx context.Context, q models.ListQuery) ([]models.Product, int, error) {
	conds := productFilters.where(q.Filters)
	products := make([]models.Product, 0)
	if err := selectPage(ctx, r.db, &products, psql.Select(productColumns).From("products"), conds, q); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	total, err := listTotal(ctx, r.db, "products", conds, q, len(products))
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	return products, total, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := getByID(ctx, r.db, &product, "products", productColumns, id); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	builder := psql.Insert("products").
		Columns("name", "description", "price").
		Values(product.Name, product.Description, product.Price)
	if err := insertReturning(ctx, r.db, builder, &product.ID, &product.CreatedAt, &product.UpdatedAt); err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	builder := psql.Update("products").SetMap(map[string]interface{}{
		"name":        product.Name,
		"description": product.Description,
		"price":       product.Price,
	}).Where(squirrel.Eq{"id": product.ID})
	if err := updateReturning(ctx, r.db, builder, &product.UpdatedAt); err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	if err := deleteByID(ctx, r.db, "products", id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
