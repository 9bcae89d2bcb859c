/*
Package attribute implements the attribute catalog: typed field definitions
and their enumerated options.

The PostgreSQL repository keeps every multi-row mutation inside a single
transaction so that option sets can never be observed half-written. Labels
and config travel as JSONB documents; list queries use a COUNT(*) OVER()
window so totals do not require a second round-trip.
*/
package attribute

import (
	"context"
	"encoding/json"
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

// NewPostgresRepository constructs a PostgreSQL backed attribute store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Attribute CRUD

/*
Create inserts the attribute and its options in one transaction.

Parameters:
  - context: context.Context
  - attribute: *Attribute (ID, timestamps and option IDs already assigned)

Returns:
  - error: ErrDuplicateCode on a code collision, storage errors otherwise
*/
func (repository *PostgresRepository) Create(context context.Context, attribute *Attribute) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_create_attribute")
	}
	defer transaction.Rollback(context)

	labels, err := encodeJSONMap(attribute.Labels)
	if err != nil {
		return dberr.Wrap(err, "encode_labels")
	}
	config, err := encodeJSONMap(attribute.Config)
	if err != nil {
		return dberr.Wrap(err, "encode_config")
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		schema.Attribute.Table,
		schema.Attribute.ID, schema.Attribute.Code, schema.Attribute.Type, schema.Attribute.BackendType,
		schema.Attribute.IsLocalizable, schema.Attribute.IsScopable, schema.Attribute.GroupCode,
		schema.Attribute.Labels, schema.Attribute.Config, schema.Attribute.CreatedAt, schema.Attribute.UpdatedAt,
	)

	_, err = transaction.Exec(context, insertQuery,
		attribute.ID, attribute.Code, string(attribute.Type), string(attribute.BackendType),
		attribute.IsLocalizable, attribute.IsScopable, attribute.GroupCode,
		labels, config, attribute.CreatedAt, attribute.UpdatedAt,
	)
	if err != nil {
		return dberr.WrapConflict(err, "insert_attribute", ErrDuplicateCode)
	}

	if err := insertOptions(context, transaction, attribute.Options); err != nil {
		return err
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_create_attribute")
	}
	return nil
}

/*
FindByID returns the attribute with its option set.

Options are ordered by sort_order then code, matching the original listing
behavior (lexicographic on the text sort key).
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Attribute, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.Attribute.ID, schema.Attribute.Code, schema.Attribute.Type, schema.Attribute.BackendType,
		schema.Attribute.IsLocalizable, schema.Attribute.IsScopable, schema.Attribute.GroupCode,
		schema.Attribute.Labels, schema.Attribute.Config, schema.Attribute.CreatedAt, schema.Attribute.UpdatedAt,
		schema.Attribute.Table,
		schema.Attribute.ID,
	)

	attribute, err := scanAttribute(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if wrapped := dberr.Wrap(err, "get_attribute_by_id"); wrapped == dberr.ErrNotFound {
			return nil, ErrNotFound
		} else {
			return nil, wrapped
		}
	}

	options, err := repository.ListOptions(context, attribute.ID)
	if err != nil {
		return nil, err
	}
	attribute.Options = options

	return attribute, nil
}

// FindByCode returns the attribute without its options. Used for duplicate
// code checks where the option set is irrelevant.
func (repository *PostgresRepository) FindByCode(context context.Context, code string) (*Attribute, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.Attribute.ID, schema.Attribute.Code, schema.Attribute.Type, schema.Attribute.BackendType,
		schema.Attribute.IsLocalizable, schema.Attribute.IsScopable, schema.Attribute.GroupCode,
		schema.Attribute.Labels, schema.Attribute.Config, schema.Attribute.CreatedAt, schema.Attribute.UpdatedAt,
		schema.Attribute.Table,
		schema.Attribute.Code,
	)

	attribute, err := scanAttribute(repository.pool.QueryRow(context, query, code))
	if err != nil {
		if wrapped := dberr.Wrap(err, "get_attribute_by_code"); wrapped == dberr.ErrNotFound {
			return nil, ErrNotFound
		} else {
			return nil, wrapped
		}
	}

	return attribute, nil
}

/*
List returns one page of attributes plus the total match count.

Description: Filters compose with AND. The search filter matches a substring
of the code or of the labels JSON rendered as text, which covers every
translated display name without a per-locale index.

Parameters:
  - context: context.Context
  - filter: Filter (zero values are skipped)
  - limit: int
  - offset: int

Returns:
  - []*Attribute: Page ordered by created_at DESC (options not hydrated)
  - int: Total matches independent of the page window
  - error: Storage errors
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Attribute, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s,
		       COUNT(*) OVER() AS total_count
		FROM %s
		WHERE TRUE
	`,
		schema.Attribute.ID, schema.Attribute.Code, schema.Attribute.Type, schema.Attribute.BackendType,
		schema.Attribute.IsLocalizable, schema.Attribute.IsScopable, schema.Attribute.GroupCode,
		schema.Attribute.Labels, schema.Attribute.Config, schema.Attribute.CreatedAt, schema.Attribute.UpdatedAt,
		schema.Attribute.Table,
	))

	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (%s ILIKE $%d OR %s::text ILIKE $%d)",
			schema.Attribute.Code, argID, schema.Attribute.Labels, argID))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}
	if filter.Type != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.Attribute.Type, argID))
		args = append(args, filter.Type)
		argID++
	}
	if filter.BackendType != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.Attribute.BackendType, argID))
		args = append(args, filter.BackendType)
		argID++
	}
	if filter.GroupCode != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.Attribute.GroupCode, argID))
		args = append(args, filter.GroupCode)
		argID++
	}
	if filter.IsLocalizable != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.Attribute.IsLocalizable, argID))
		args = append(args, *filter.IsLocalizable)
		argID++
	}
	if filter.IsScopable != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.Attribute.IsScopable, argID))
		args = append(args, *filter.IsScopable)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s DESC", schema.Attribute.CreatedAt))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_attributes")
	}
	defer rows.Close()

	var attributes []*Attribute
	var totalCount int

	for rows.Next() {
		attribute := &Attribute{Options: []Option{}}
		var attributeType, backendType string
		var labelsRaw, configRaw []byte

		err := rows.Scan(
			&attribute.ID, &attribute.Code, &attributeType, &backendType,
			&attribute.IsLocalizable, &attribute.IsScopable, &attribute.GroupCode,
			&labelsRaw, &configRaw, &attribute.CreatedAt, &attribute.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_attribute")
		}

		attribute.Type = Type(attributeType)
		attribute.BackendType = BackendType(backendType)
		if err := decodeJSONMaps(attribute, labelsRaw, configRaw); err != nil {
			return nil, 0, dberr.Wrap(err, "decode_attribute_json")
		}

		attributes = append(attributes, attribute)
	}

	return attributes, totalCount, nil
}

/*
Update persists the attribute's scalar fields, optionally replacing the whole
option set in the same transaction.

Description: Replacement is destructive delete-then-insert, matching the
catalog's documented "options provided means options replaced" contract.
*/
func (repository *PostgresRepository) Update(context context.Context, attribute *Attribute, options []Option, replaceOptions bool) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_update_attribute")
	}
	defer transaction.Rollback(context)

	labels, err := encodeJSONMap(attribute.Labels)
	if err != nil {
		return dberr.Wrap(err, "encode_labels")
	}
	config, err := encodeJSONMap(attribute.Config)
	if err != nil {
		return dberr.Wrap(err, "encode_config")
	}

	updateQuery := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9
		WHERE %s = $10
	`,
		schema.Attribute.Table,
		schema.Attribute.Code, schema.Attribute.Type, schema.Attribute.BackendType,
		schema.Attribute.IsLocalizable, schema.Attribute.IsScopable, schema.Attribute.GroupCode,
		schema.Attribute.Labels, schema.Attribute.Config, schema.Attribute.UpdatedAt,
		schema.Attribute.ID,
	)

	tag, err := transaction.Exec(context, updateQuery,
		attribute.Code, string(attribute.Type), string(attribute.BackendType),
		attribute.IsLocalizable, attribute.IsScopable, attribute.GroupCode,
		labels, config, attribute.UpdatedAt,
		attribute.ID,
	)
	if err != nil {
		return dberr.WrapConflict(err, "update_attribute", ErrDuplicateCode)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if replaceOptions {
		deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
			schema.AttributeOption.Table, schema.AttributeOption.AttributeID)
		if _, err := transaction.Exec(context, deleteQuery, attribute.ID); err != nil {
			return dberr.Wrap(err, "clear_attribute_options")
		}

		if err := insertOptions(context, transaction, options); err != nil {
			return err
		}
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_update_attribute")
	}
	return nil
}

// Delete removes the attribute. attribute_options and product_values rows
// referencing it are removed by ON DELETE CASCADE.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.Attribute.Table, schema.Attribute.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_attribute")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// # Option Operations

// AddOption inserts a single option row.
func (repository *PostgresRepository) AddOption(context context.Context, option *Option) error {
	labels, err := encodeJSONMap(option.Labels)
	if err != nil {
		return dberr.Wrap(err, "encode_option_labels")
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
	`,
		schema.AttributeOption.Table,
		schema.AttributeOption.ID, schema.AttributeOption.AttributeID,
		schema.AttributeOption.Code, schema.AttributeOption.Labels, schema.AttributeOption.SortOrder,
	)

	_, err = repository.pool.Exec(context, query,
		option.ID, option.AttributeID, option.Code, labels, option.SortOrder)
	if err != nil {
		return dberr.WrapConflict(err, "insert_option", ErrDuplicateOptionCode)
	}
	return nil
}

// FindOption returns an option scoped to its owning attribute; an ID that
// exists under a different attribute is reported as not found.
func (repository *PostgresRepository) FindOption(context context.Context, attributeID, optionID string) (*Option, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2
	`,
		schema.AttributeOption.ID, schema.AttributeOption.AttributeID,
		schema.AttributeOption.Code, schema.AttributeOption.Labels, schema.AttributeOption.SortOrder,
		schema.AttributeOption.Table,
		schema.AttributeOption.ID, schema.AttributeOption.AttributeID,
	)

	option := &Option{}
	var labelsRaw []byte

	err := repository.pool.QueryRow(context, query, optionID, attributeID).Scan(
		&option.ID, &option.AttributeID, &option.Code, &labelsRaw, &option.SortOrder)
	if err != nil {
		if wrapped := dberr.Wrap(err, "get_option"); wrapped == dberr.ErrNotFound {
			return nil, ErrOptionNotFound
		} else {
			return nil, wrapped
		}
	}

	if err := decodeLabels(&option.Labels, labelsRaw); err != nil {
		return nil, dberr.Wrap(err, "decode_option_labels")
	}
	return option, nil
}

// ListOptions returns every option of the attribute ordered by the text
// sort key, then code, matching the original listing order.
func (repository *PostgresRepository) ListOptions(context context.Context, attributeID string) ([]Option, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s, %s
	`,
		schema.AttributeOption.ID, schema.AttributeOption.AttributeID,
		schema.AttributeOption.Code, schema.AttributeOption.Labels, schema.AttributeOption.SortOrder,
		schema.AttributeOption.Table,
		schema.AttributeOption.AttributeID,
		schema.AttributeOption.SortOrder, schema.AttributeOption.Code,
	)

	rows, err := repository.pool.Query(context, query, attributeID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_options")
	}
	defer rows.Close()

	options := make([]Option, 0)
	for rows.Next() {
		option := Option{}
		var labelsRaw []byte

		if err := rows.Scan(&option.ID, &option.AttributeID, &option.Code, &labelsRaw, &option.SortOrder); err != nil {
			return nil, dberr.Wrap(err, "scan_option")
		}
		if err := decodeLabels(&option.Labels, labelsRaw); err != nil {
			return nil, dberr.Wrap(err, "decode_option_labels")
		}

		options = append(options, option)
	}

	return options, nil
}

// UpdateOption persists an option's code, labels, and sort key.
func (repository *PostgresRepository) UpdateOption(context context.Context, option *Option) error {
	labels, err := encodeJSONMap(option.Labels)
	if err != nil {
		return dberr.Wrap(err, "encode_option_labels")
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3
		WHERE %s = $4 AND %s = $5
	`,
		schema.AttributeOption.Table,
		schema.AttributeOption.Code, schema.AttributeOption.Labels, schema.AttributeOption.SortOrder,
		schema.AttributeOption.ID, schema.AttributeOption.AttributeID,
	)

	tag, err := repository.pool.Exec(context, query,
		option.Code, labels, option.SortOrder, option.ID, option.AttributeID)
	if err != nil {
		return dberr.WrapConflict(err, "update_option", ErrDuplicateOptionCode)
	}
	if tag.RowsAffected() == 0 {
		return ErrOptionNotFound
	}
	return nil
}

// DeleteOption removes a single option scoped to its owning attribute.
func (repository *PostgresRepository) DeleteOption(context context.Context, attributeID, optionID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND %s = $2",
		schema.AttributeOption.Table, schema.AttributeOption.ID, schema.AttributeOption.AttributeID)

	tag, err := repository.pool.Exec(context, query, optionID, attributeID)
	if err != nil {
		return dberr.Wrap(err, "delete_option")
	}
	if tag.RowsAffected() == 0 {
		return ErrOptionNotFound
	}
	return nil
}

/*
ReorderOptions assigns 1-based positional sort keys in one transaction.

The caller has already validated that orderedIDs covers the attribute's
option set exactly, so every UPDATE here must hit a row; a miss means the
set changed underneath us and the transaction is aborted.
*/
func (repository *PostgresRepository) ReorderOptions(context context.Context, attributeID string, orderedIDs []string) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_reorder_options")
	}
	defer transaction.Rollback(context)

	query := fmt.Sprintf("UPDATE %s SET %s = $1 WHERE %s = $2 AND %s = $3",
		schema.AttributeOption.Table, schema.AttributeOption.SortOrder,
		schema.AttributeOption.ID, schema.AttributeOption.AttributeID)

	for index, optionID := range orderedIDs {
		sortOrder := fmt.Sprintf("%d", index+1)

		tag, err := transaction.Exec(context, query, sortOrder, optionID, attributeID)
		if err != nil {
			return dberr.Wrap(err, "reorder_option")
		}
		if tag.RowsAffected() == 0 {
			return ErrForeignOption
		}
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_reorder_options")
	}
	return nil
}

// # Internal Helpers

// insertOptions bulk-inserts option rows inside the caller's transaction.
func insertOptions(context context.Context, transaction pgx.Tx, options []Option) error {
	if len(options) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
	`,
		schema.AttributeOption.Table,
		schema.AttributeOption.ID, schema.AttributeOption.AttributeID,
		schema.AttributeOption.Code, schema.AttributeOption.Labels, schema.AttributeOption.SortOrder,
	)

	for _, option := range options {
		labels, err := encodeJSONMap(option.Labels)
		if err != nil {
			return dberr.Wrap(err, "encode_option_labels")
		}

		_, err = transaction.Exec(context, query,
			option.ID, option.AttributeID, option.Code, labels, option.SortOrder)
		if err != nil {
			return dberr.WrapConflict(err, "insert_option", ErrDuplicateOptionCode)
		}
	}

	return nil
}

// scanAttribute hydrates one attribute row (without options).
func scanAttribute(row pgx.Row) (*Attribute, error) {
	attribute := &Attribute{Options: []Option{}}
	var attributeType, backendType string
	var labelsRaw, configRaw []byte

	err := row.Scan(
		&attribute.ID, &attribute.Code, &attributeType, &backendType,
		&attribute.IsLocalizable, &attribute.IsScopable, &attribute.GroupCode,
		&labelsRaw, &configRaw, &attribute.CreatedAt, &attribute.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	attribute.Type = Type(attributeType)
	attribute.BackendType = BackendType(backendType)
	if err := decodeJSONMaps(attribute, labelsRaw, configRaw); err != nil {
		return nil, err
	}

	return attribute, nil
}

// encodeJSONMap marshals a map for a JSONB column, preserving NULL for nil maps.
func encodeJSONMap[V any](m map[string]V) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// decodeLabels unmarshals a nullable JSONB labels column.
func decodeLabels(target *map[string]string, raw []byte) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, target)
}

// decodeJSONMaps unmarshals the labels and config columns of an attribute.
func decodeJSONMaps(attribute *Attribute, labelsRaw, configRaw []byte) error {
	if err := decodeLabels(&attribute.Labels, labelsRaw); err != nil {
		return err
	}
	if len(configRaw) > 0 {
		if err := json.Unmarshal(configRaw, &attribute.Config); err != nil {
			return err
		}
	}
	return nil
}
