package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ValidationError carries the list of human-readable violations for a
// rejected save. The computation core never raises it — only the CRUD
// surface does, and callers decide how to present the messages.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// ProductService manages the product catalogue.
type ProductService interface {
	// ListProducts returns all active products, oldest first.
	ListProducts(ctx context.Context) ([]Product, error)

	// GetProduct returns one product by id, active or not.
	GetProduct(ctx context.Context, id string) (*Product, error)

	// CreateProduct validates and inserts a product. A blank product code
	// is auto-generated from the name plus a short random suffix.
	CreateProduct(ctx context.Context, in ProductInput) (*Product, error)

	// UpdateProduct validates and applies the full editable field set.
	UpdateProduct(ctx context.Context, id string, in ProductInput) (*Product, error)

	// DeleteProduct soft-deletes: the row stays for historical forecasts,
	// it just stops appearing in the active catalogue.
	DeleteProduct(ctx context.Context, id string) error
}

type productService struct {
	pool *pgxpool.Pool
}

// NewProductService constructs a ProductService backed by PostgreSQL.
func NewProductService(pool *pgxpool.Pool) ProductService {
	return &productService{pool: pool}
}

const productColumns = `id, product_code, name, category, price,
	manufacturing_cost, packaging_cost, shipping_cost, marketing_cost,
	return_rate, discount_rate, vat_included, notes, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	p := &Product{}
	err := row.Scan(
		&p.ID, &p.ProductCode, &p.Name, &p.Category, &p.Price,
		&p.ManufacturingCost, &p.PackagingCost, &p.ShippingCost, &p.MarketingCost,
		&p.ReturnRate, &p.DiscountRate, &p.VATIncluded, &p.Notes,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *productService) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE is_active = true
		ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (s *productService) GetProduct(ctx context.Context, id string) (*Product, error) {
	p, err := scanProduct(s.pool.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, nil
}

func (s *productService) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	if violations := ValidateProduct(in); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	code := strings.TrimSpace(in.ProductCode)
	if code == "" {
		code = generateProductCode(in.Name)
	}

	p, err := scanProduct(s.pool.QueryRow(ctx, `
		INSERT INTO products (id, product_code, name, category, price,
			manufacturing_cost, packaging_cost, shipping_cost, marketing_cost,
			return_rate, discount_rate, vat_included, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+productColumns,
		uuid.NewString(), code, in.Name, in.Category, in.Price,
		in.ManufacturingCost, in.PackagingCost, in.ShippingCost, in.MarketingCost,
		in.ReturnRate, in.DiscountRate, in.VATIncluded, in.Notes,
	))
	if err != nil {
		return nil, fmt.Errorf("create product %q: %w", in.Name, err)
	}
	return p, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*Product, error) {
	if violations := ValidateProduct(in); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	p, err := scanProduct(s.pool.QueryRow(ctx, `
		UPDATE products
		SET product_code = $2, name = $3, category = $4, price = $5,
			manufacturing_cost = $6, packaging_cost = $7, shipping_cost = $8,
			marketing_cost = $9, return_rate = $10, discount_rate = $11,
			vat_included = $12, notes = $13, updated_at = NOW()
		WHERE id = $1
		RETURNING `+productColumns,
		id, in.ProductCode, in.Name, in.Category, in.Price,
		in.ManufacturingCost, in.PackagingCost, in.ShippingCost, in.MarketingCost,
		in.ReturnRate, in.DiscountRate, in.VATIncluded, in.Notes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("update product %s: %w", id, err)
	}
	return p, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE products SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return nil
}

// generateProductCode derives a code like "WINTER-JACKET-3f2a" from the
// product name.
func generateProductCode(name string) string {
	base := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:4]
	return base + "-" + suffix
}
