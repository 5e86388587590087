package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// DefaultTable is read when no table is configured.
const DefaultTable = "items"

// LoadPostgres reads every row of table ordered by item_id. The table must have
// an item_id column; title, genres and description may be NULL. genres may be
// text or a text array.
func LoadPostgres(ctx context.Context, dsn, table string) ([]Item, error) {
	if table == "" {
		table = DefaultTable
	}

	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to catalog database: %w", err)
	}
	defer conn.Close(ctx)

	rows, err := conn.Query(ctx, selectItemsSQL(table))
	if err != nil {
		return nil, fmt.Errorf("query catalog table %s: %w", table, err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var (
			it     Item
			genres any
		)
		if err := rows.Scan(&it.ID, &it.Title, &genres, &it.Description); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		if it.Genres, err = genresText(genres); err != nil {
			return nil, fmt.Errorf("item %d: %w", it.ID, err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog rows: %w", err)
	}
	return items, nil
}

// selectItemsSQL builds the catalog query with the (optionally schema-qualified)
// table name quoted.
func selectItemsSQL(table string) string {
	return `SELECT item_id,
		COALESCE(title, '')::text,
		genres,
		COALESCE(description, '')::text
	FROM ` + pgx.Identifier(strings.Split(table, ".")).Sanitize() + `
	ORDER BY item_id`
}

// genresText flattens a genres value as pgx decodes it: NULL, text, or an array
// of text (elements may be NULL).
func genresText(v any) (string, error) {
	switch g := v.(type) {
	case nil:
		return "", nil
	case string:
		return g, nil
	case []string:
		return joinTags(g), nil
	case []any:
		list := make([]string, 0, len(g))
		for _, e := range g {
			switch e := e.(type) {
			case nil:
			case string:
				list = append(list, e)
			default:
				return "", fmt.Errorf("genres element has type %T, want text", e)
			}
		}
		return joinTags(list), nil
	default:
		return "", fmt.Errorf("genres column has type %T, want text or text[]", v)
	}
}
