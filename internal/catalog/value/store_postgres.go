package value

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vision/internal/platform/database/schema"
	"github.com/taibuivan/vision/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed value store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Upsert writes the value, overwriting the payload when the 5-tuple row already
exists.

Description: The conflict target is the unique index over (entity_type,
entity_id, attribute_id, scope, locale). On conflict only value and
updated_at change, so the returned ID and created_at are those of the
original row.
*/
func (repository *PostgresRepository) Upsert(context context.Context, value *Value) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (%s, %s, %s, %s, %s)
		DO UPDATE SET %s = EXCLUDED.%s, %s = EXCLUDED.%s
		RETURNING %s, %s, %s
	`,
		schema.ProductValue.Table,
		schema.ProductValue.ID, schema.ProductValue.EntityType, schema.ProductValue.EntityID,
		schema.ProductValue.AttributeID, schema.ProductValue.Scope, schema.ProductValue.Locale,
		schema.ProductValue.Value, schema.ProductValue.CreatedAt, schema.ProductValue.UpdatedAt,
		schema.ProductValue.EntityType, schema.ProductValue.EntityID, schema.ProductValue.AttributeID,
		schema.ProductValue.Scope, schema.ProductValue.Locale,
		schema.ProductValue.Value, schema.ProductValue.Value,
		schema.ProductValue.UpdatedAt, schema.ProductValue.UpdatedAt,
		schema.ProductValue.ID, schema.ProductValue.CreatedAt, schema.ProductValue.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		value.ID, string(value.EntityType), value.EntityID,
		value.AttributeID, value.Scope, value.Locale,
		[]byte(value.Value), value.CreatedAt, value.UpdatedAt,
	).Scan(&value.ID, &value.CreatedAt, &value.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "upsert_value")
	}
	return nil
}

// FindByID returns one value row.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Value, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.ProductValue.ID, schema.ProductValue.EntityType, schema.ProductValue.EntityID,
		schema.ProductValue.AttributeID, schema.ProductValue.Scope, schema.ProductValue.Locale,
		schema.ProductValue.Value, schema.ProductValue.CreatedAt, schema.ProductValue.UpdatedAt,
		schema.ProductValue.Table,
		schema.ProductValue.ID,
	)

	row := &Value{}
	var entityType string
	var payload []byte

	err := repository.pool.QueryRow(context, query, id).Scan(
		&row.ID, &entityType, &row.EntityID,
		&row.AttributeID, &row.Scope, &row.Locale,
		&payload, &row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		if wrapped := dberr.Wrap(err, "get_value"); wrapped == dberr.ErrNotFound {
			return nil, ErrNotFound
		} else {
			return nil, wrapped
		}
	}

	row.EntityType = EntityType(entityType)
	row.Value = payload
	return row, nil
}

// List returns the entity's values matching the filter, ordered by
// attribute, scope, locale for a stable presentation.
func (repository *PostgresRepository) List(context context.Context, entity EntityRef, filter Filter) ([]Value, error) {
	var queryBuilder strings.Builder
	args := []any{string(entity.Type), entity.ID}
	argID := 3

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2
	`,
		schema.ProductValue.ID, schema.ProductValue.EntityType, schema.ProductValue.EntityID,
		schema.ProductValue.AttributeID, schema.ProductValue.Scope, schema.ProductValue.Locale,
		schema.ProductValue.Value, schema.ProductValue.CreatedAt, schema.ProductValue.UpdatedAt,
		schema.ProductValue.Table,
		schema.ProductValue.EntityType, schema.ProductValue.EntityID,
	))

	if filter.AttributeID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.ProductValue.AttributeID, argID))
		args = append(args, filter.AttributeID)
		argID++
	}
	if filter.Scope != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.ProductValue.Scope, argID))
		args = append(args, filter.Scope)
		argID++
	}
	if filter.Locale != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.ProductValue.Locale, argID))
		args = append(args, filter.Locale)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s, %s, %s",
		schema.ProductValue.AttributeID, schema.ProductValue.Scope, schema.ProductValue.Locale))

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_values")
	}
	defer rows.Close()

	values := make([]Value, 0)
	for rows.Next() {
		row := Value{}
		var entityType string
		var payload []byte

		err := rows.Scan(
			&row.ID, &entityType, &row.EntityID,
			&row.AttributeID, &row.Scope, &row.Locale,
			&payload, &row.CreatedAt, &row.UpdatedAt,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_value")
		}

		row.EntityType = EntityType(entityType)
		row.Value = payload
		values = append(values, row)
	}

	return values, nil
}

// Delete removes one value by ID.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		schema.ProductValue.Table, schema.ProductValue.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_value")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteForEntity removes every value belonging to the entity.
func (repository *PostgresRepository) DeleteForEntity(context context.Context, entity EntityRef) (int, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND %s = $2",
		schema.ProductValue.Table, schema.ProductValue.EntityType, schema.ProductValue.EntityID)

	tag, err := repository.pool.Exec(context, query, string(entity.Type), entity.ID)
	if err != nil {
		return 0, dberr.Wrap(err, "delete_entity_values")
	}
	return int(tag.RowsAffected()), nil
}

// EntityExists checks the table selected by the entity type tag. Values keep
// no foreign key to products or product models, so this lookup stands in for
// referential integrity on the write path.
func (repository *PostgresRepository) EntityExists(context context.Context, entity EntityRef) (bool, error) {
	var table, column string
	switch entity.Type {
	case EntityProduct:
		table, column = schema.Product.Table, schema.Product.ID
	case EntityProductModel:
		table, column = schema.ProductModel.Table, schema.ProductModel.ID
	default:
		return false, nil
	}

	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)", table, column)

	var exists bool
	if err := repository.pool.QueryRow(context, query, entity.ID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "check_entity_exists")
	}
	return exists, nil
}
