package family

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vision/internal/platform/database/schema"
	"github.com/taibuivan/vision/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed family store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Families

// Create inserts one family.
func (repository *PostgresRepository) Create(context context.Context, family *Family) error {
	query := fmt.Sprintf("INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)",
		schema.Family.Table, schema.Family.ID, schema.Family.Code, schema.Family.AttributeIDs)

	_, err := repository.pool.Exec(context, query, family.ID, family.Code, family.AttributeIDs)
	if err != nil {
		return dberr.WrapConflict(err, "insert_family", ErrDuplicateCode)
	}
	return nil
}

// FindByID returns one family.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Family, error) {
	return repository.findFamilyBy(context, schema.Family.ID, id, "get_family_by_id")
}

// FindByCode returns the family carrying the code.
func (repository *PostgresRepository) FindByCode(context context.Context, code string) (*Family, error) {
	return repository.findFamilyBy(context, schema.Family.Code, code, "get_family_by_code")
}

func (repository *PostgresRepository) findFamilyBy(context context.Context, column, argument, action string) (*Family, error) {
	query := fmt.Sprintf("SELECT %s, %s, %s FROM %s WHERE %s = $1",
		schema.Family.ID, schema.Family.Code, schema.Family.AttributeIDs,
		schema.Family.Table, column)

	family, err := scanFamily(repository.pool.QueryRow(context, query, argument))
	if err != nil {
		if wrapped := dberr.Wrap(err, action); wrapped == dberr.ErrNotFound {
			return nil, ErrNotFound
		} else {
			return nil, wrapped
		}
	}
	return family, nil
}

// List returns one page of families ordered by code.
func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Family, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, COUNT(*) OVER() AS total_count
		FROM %s
		ORDER BY %s
		LIMIT $1 OFFSET $2
	`,
		schema.Family.ID, schema.Family.Code, schema.Family.AttributeIDs,
		schema.Family.Table, schema.Family.Code)

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_families")
	}
	defer rows.Close()

	var families []*Family
	var totalCount int

	for rows.Next() {
		family := &Family{}
		if err := rows.Scan(&family.ID, &family.Code, &family.AttributeIDs, &totalCount); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_family")
		}
		if family.AttributeIDs == nil {
			family.AttributeIDs = []string{}
		}
		families = append(families, family)
	}

	return families, totalCount, nil
}

// Update persists a family's code and attribute list.
func (repository *PostgresRepository) Update(context context.Context, family *Family) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $1, %s = $2 WHERE %s = $3",
		schema.Family.Table, schema.Family.Code, schema.Family.AttributeIDs, schema.Family.ID)

	tag, err := repository.pool.Exec(context, query, family.Code, family.AttributeIDs, family.ID)
	if err != nil {
		return dberr.WrapConflict(err, "update_family", ErrDuplicateCode)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one family. Its variants are removed by ON DELETE CASCADE.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.Family.Table, schema.Family.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_family")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// # Family Variants

// CreateVariant inserts one variant.
func (repository *PostgresRepository) CreateVariant(context context.Context, variant *Variant) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		schema.FamilyVariant.Table,
		schema.FamilyVariant.ID, schema.FamilyVariant.FamilyID, schema.FamilyVariant.Code,
		schema.FamilyVariant.Level, schema.FamilyVariant.Axes, schema.FamilyVariant.AttributeIDs,
	)

	_, err := repository.pool.Exec(context, query,
		variant.ID, variant.FamilyID, variant.Code,
		variant.Level, variant.Axes, variant.AttributeIDs,
	)
	if err != nil {
		return dberr.WrapConflict(err, "insert_family_variant", ErrDuplicateVariantCode)
	}
	return nil
}

// FindVariantByID returns one variant.
func (repository *PostgresRepository) FindVariantByID(context context.Context, id string) (*Variant, error) {
	return repository.findVariantBy(context, schema.FamilyVariant.ID, id, "get_family_variant_by_id")
}

// FindVariantByCode returns the variant carrying the code.
func (repository *PostgresRepository) FindVariantByCode(context context.Context, code string) (*Variant, error) {
	return repository.findVariantBy(context, schema.FamilyVariant.Code, code, "get_family_variant_by_code")
}

func (repository *PostgresRepository) findVariantBy(context context.Context, column, argument, action string) (*Variant, error) {
	query := fmt.Sprintf("SELECT %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1",
		schema.FamilyVariant.ID, schema.FamilyVariant.FamilyID, schema.FamilyVariant.Code,
		schema.FamilyVariant.Level, schema.FamilyVariant.Axes, schema.FamilyVariant.AttributeIDs,
		schema.FamilyVariant.Table, column)

	variant, err := scanVariant(repository.pool.QueryRow(context, query, argument))
	if err != nil {
		if wrapped := dberr.Wrap(err, action); wrapped == dberr.ErrNotFound {
			return nil, ErrVariantNotFound
		} else {
			return nil, wrapped
		}
	}
	return variant, nil
}

// ListVariants returns every variant of one family, level order first.
func (repository *PostgresRepository) ListVariants(context context.Context, familyID string) ([]Variant, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s, %s
	`,
		schema.FamilyVariant.ID, schema.FamilyVariant.FamilyID, schema.FamilyVariant.Code,
		schema.FamilyVariant.Level, schema.FamilyVariant.Axes, schema.FamilyVariant.AttributeIDs,
		schema.FamilyVariant.Table,
		schema.FamilyVariant.FamilyID,
		schema.FamilyVariant.Level, schema.FamilyVariant.Code,
	)

	rows, err := repository.pool.Query(context, query, familyID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_family_variants")
	}
	defer rows.Close()

	variants := make([]Variant, 0)
	for rows.Next() {
		variant := Variant{}
		err := rows.Scan(&variant.ID, &variant.FamilyID, &variant.Code,
			&variant.Level, &variant.Axes, &variant.AttributeIDs)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_family_variant")
		}
		normalizeVariant(&variant)
		variants = append(variants, variant)
	}

	return variants, nil
}

// UpdateVariant persists a variant's scalar fields.
func (repository *PostgresRepository) UpdateVariant(context context.Context, variant *Variant) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4
		WHERE %s = $5
	`,
		schema.FamilyVariant.Table,
		schema.FamilyVariant.Code, schema.FamilyVariant.Level,
		schema.FamilyVariant.Axes, schema.FamilyVariant.AttributeIDs,
		schema.FamilyVariant.ID,
	)

	tag, err := repository.pool.Exec(context, query,
		variant.Code, variant.Level, variant.Axes, variant.AttributeIDs, variant.ID)
	if err != nil {
		return dberr.WrapConflict(err, "update_family_variant", ErrDuplicateVariantCode)
	}
	if tag.RowsAffected() == 0 {
		return ErrVariantNotFound
	}
	return nil
}

// DeleteVariant removes one variant.
func (repository *PostgresRepository) DeleteVariant(context context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		schema.FamilyVariant.Table, schema.FamilyVariant.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_family_variant")
	}
	if tag.RowsAffected() == 0 {
		return ErrVariantNotFound
	}
	return nil
}

// # Scan Helpers

func scanFamily(row pgx.Row) (*Family, error) {
	family := &Family{}
	if err := row.Scan(&family.ID, &family.Code, &family.AttributeIDs); err != nil {
		return nil, err
	}
	if family.AttributeIDs == nil {
		family.AttributeIDs = []string{}
	}
	return family, nil
}

func scanVariant(row pgx.Row) (*Variant, error) {
	variant := &Variant{}
	err := row.Scan(&variant.ID, &variant.FamilyID, &variant.Code,
		&variant.Level, &variant.Axes, &variant.AttributeIDs)
	if err != nil {
		return nil, err
	}
	normalizeVariant(variant)
	return variant, nil
}

func normalizeVariant(variant *Variant) {
	if variant.Axes == nil {
		variant.Axes = []string{}
	}
	if variant.AttributeIDs == nil {
		variant.AttributeIDs = []string{}
	}
}
