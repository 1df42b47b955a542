package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-api/internal/models"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type matchKind int

const (
	matchExact matchKind = iota
	matchInt
	matchFloat
	matchLike
	matchDate
)

type filterColumn struct {
	column string
	kind   matchKind
}

// filterSet maps public query parameter names onto table columns.
type filterSet map[string]filterColumn

// withAliases registers alternative parameter names, such as camelCase
// spellings, for existing filters.
func (f filterSet) withAliases(aliases map[string]string) filterSet {
	for alias, key := range aliases {
		if col, ok := f[key]; ok {
			f[alias] = col
		}
	}
	return f
}

// where turns raw query parameters into conditions. Unknown parameters and
// values that do not parse for their column type are ignored.
func (f filterSet) where(params map[string]string) squirrel.And {
	keys := make([]string, 0, len(params))
	for key := range params {
		if _, ok := f[key]; ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	conds := squirrel.And{}
	for _, key := range keys {
		col := f[key]
		raw := strings.TrimSpace(params[key])
		if raw == "" {
			continue
		}
		switch col.kind {
		case matchExact:
			conds = append(conds, squirrel.Eq{col.column: raw})
		case matchInt:
			if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
				conds = append(conds, squirrel.Eq{col.column: v})
			}
		case matchFloat:
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				conds = append(conds, squirrel.Eq{col.column: v})
			}
		case matchLike:
			conds = append(conds, squirrel.ILike{col.column: "%" + escapeLike(raw) + "%"})
		case matchDate:
			if d, err := models.ParseDate(raw); err == nil {
				conds = append(conds, squirrel.Eq{col.column: d.String()})
			}
		}
	}
	return conds
}

func escapeLike(raw string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(raw)
}

// selectPage runs base filtered by conds, windowed when q is paginated.
func selectPage(ctx context.Context, db *sqlx.DB, dest interface{}, base squirrel.SelectBuilder, conds squirrel.And, q models.ListQuery) error {
	if len(conds) > 0 {
		base = base.Where(conds)
	}
	base = base.OrderBy("id ASC")
	if q.Paginated {
		base = base.Limit(uint64(q.PerPage)).Offset(uint64(q.Offset()))
	}
	query, args, err := base.ToSql()
	if err != nil {
		return err
	}
	return db.SelectContext(ctx, dest, query, args...)
}

// countRows counts the rows of table matching conds.
func countRows(ctx context.Context, db *sqlx.DB, table string, conds squirrel.And) (int, error) {
	builder := psql.Select("COUNT(*)").From(table)
	if len(conds) > 0 {
		builder = builder.Where(conds)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}
	var total int
	if err := db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, err
	}
	return total, nil
}

// listTotal returns the number of rows a list call would report.
func listTotal(ctx context.Context, db *sqlx.DB, table string, conds squirrel.And, q models.ListQuery, fetched int) (int, error) {
	if !q.Paginated {
		return fetched, nil
	}
	return countRows(ctx, db, table, conds)
}

// selectByIDs loads the rows of table whose id is in ids.
func selectByIDs(ctx context.Context, db *sqlx.DB, dest interface{}, table, columns string, ids []int64) error {
	query, args, err := psql.Select(columns).From(table).Where(squirrel.Eq{"id": ids}).OrderBy("id ASC").ToSql()
	if err != nil {
		return err
	}
	return db.SelectContext(ctx, dest, query, args...)
}

// exists reports whether a row of table matches cond, ignoring excludeID when set.
func exists(ctx context.Context, db *sqlx.DB, table string, cond squirrel.Sqlizer, excludeID int64) (bool, error) {
	builder := psql.Select("1").From(table).Where(cond)
	if excludeID > 0 {
		builder = builder.Where(squirrel.NotEq{"id": excludeID})
	}
	query, args, err := builder.Limit(1).ToSql()
	if err != nil {
		return false, err
	}
	var found int
	if err := db.GetContext(ctx, &found, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// insertReturning executes an INSERT ... RETURNING id, created_at, updated_at.
func insertReturning(ctx context.Context, db *sqlx.DB, builder squirrel.InsertBuilder, dest ...interface{}) error {
	query, args, err := builder.Suffix("RETURNING id, created_at, updated_at").ToSql()
	if err != nil {
		return err
	}
	return translate(db.QueryRowxContext(ctx, query, args...).Scan(dest...))
}

// updateReturning executes an UPDATE ... RETURNING updated_at; a missing row yields sql.ErrNoRows.
func updateReturning(ctx context.Context, db *sqlx.DB, builder squirrel.UpdateBuilder, updatedAt interface{}) error {
	query, args, err := builder.Set("updated_at", squirrel.Expr("NOW()")).Suffix("RETURNING updated_at").ToSql()
	if err != nil {
		return err
	}
	return translate(db.QueryRowxContext(ctx, query, args...).Scan(updatedAt))
}

// deleteByID removes one row; a missing row yields sql.ErrNoRows.
func deleteByID(ctx context.Context, db *sqlx.DB, table string, id int64) error {
	res, err := db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), id)
	if err != nil {
		return translate(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// getByID loads a single row of table.
func getByID(ctx context.Context, db *sqlx.DB, dest interface{}, table, columns string, id int64) error {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", columns, table)
	return db.GetContext(ctx, dest, query, id)
}
