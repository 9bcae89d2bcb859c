package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vision/internal/platform/database/schema"
	"github.com/taibuivan/vision/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed product store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func productColumns() string {
	return strings.Join(schema.Product.Columns(), ", ")
}

// Create inserts one product.
func (repository *PostgresRepository) Create(context context.Context, product *Product) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		schema.Product.Table,
		schema.Product.ID, schema.Product.SKU, schema.Product.ProductModelID,
		schema.Product.Enabled, schema.Product.CreatedAt, schema.Product.UpdatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		product.ID, product.SKU, product.ProductModelID,
		product.Enabled, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return dberr.WrapConflict(err, "insert_product", ErrDuplicateSKU)
	}
	return nil
}

// FindByID returns one product.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Product, error) {
	return repository.findBy(context, schema.Product.ID, id, "get_product_by_id")
}

// FindBySKU returns the product carrying the SKU.
func (repository *PostgresRepository) FindBySKU(context context.Context, sku string) (*Product, error) {
	return repository.findBy(context, schema.Product.SKU, sku, "get_product_by_sku")
}

func (repository *PostgresRepository) findBy(context context.Context, column, argument, action string) (*Product, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		productColumns(), schema.Product.Table, column)

	product, err := scanProduct(repository.pool.QueryRow(context, query, argument))
	if err != nil {
		if wrapped := dberr.Wrap(err, action); wrapped == dberr.ErrNotFound {
			return nil, ErrNotFound
		} else {
			return nil, wrapped
		}
	}
	return product, nil
}

// List returns one page of products plus the total match count.
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Product, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE TRUE
	`, productColumns(), schema.Product.Table))

	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s ILIKE $%d", schema.Product.SKU, argID))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}
	if filter.ProductModelID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.Product.ProductModelID, argID))
		args = append(args, filter.ProductModelID)
		argID++
	}
	if filter.Enabled != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.Product.Enabled, argID))
		args = append(args, *filter.Enabled)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s DESC", schema.Product.CreatedAt))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_products")
	}
	defer rows.Close()

	var products []*Product
	var totalCount int

	for rows.Next() {
		product := &Product{}
		err := rows.Scan(
			&product.ID, &product.SKU, &product.ProductModelID,
			&product.Enabled, &product.CreatedAt, &product.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_product")
		}
		products = append(products, product)
	}

	return products, totalCount, nil
}

// Update persists every scalar field of the product.
func (repository *PostgresRepository) Update(context context.Context, product *Product) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4
		WHERE %s = $5
	`,
		schema.Product.Table,
		schema.Product.SKU, schema.Product.ProductModelID,
		schema.Product.Enabled, schema.Product.UpdatedAt,
		schema.Product.ID,
	)

	tag, err := repository.pool.Exec(context, query,
		product.SKU, product.ProductModelID,
		product.Enabled, product.UpdatedAt,
		product.ID,
	)
	if err != nil {
		return dberr.WrapConflict(err, "update_product", ErrDuplicateSKU)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one product. Stored values are cleaned up by the service.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		schema.Product.Table, schema.Product.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_product")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*Product, error) {
	product := &Product{}
	err := row.Scan(
		&product.ID, &product.SKU, &product.ProductModelID,
		&product.Enabled, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}
