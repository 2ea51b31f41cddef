package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/leapstack-labs/sqlcoach/internal/lesson"
)

func init() {
	lesson.Register(newUUIDMatView)
}

// newUUIDMatView shows the native UUID column type with client
// generated v4 keys, then contrasts a plain VIEW (re-runs its SELECT)
// with a MATERIALIZED VIEW (cached until explicitly refreshed).
func newUUIDMatView() *lesson.Lesson {
	showViews := func(tag string) []lesson.Query {
		return []lesson.Query{
			{Title: "[VIEW] " + tag, SQL: `SELECT * FROM cheap_products_view ORDER BY id;`},
			{Title: "[MV]   " + tag, SQL: `SELECT * FROM cheap_products_mv ORDER BY id;`},
		}
	}

	return &lesson.Lesson{
		Number: 8,
		Slug:   "uuid-matview",
		Title:  "UUID Keys and Materialized Views",
		Topics: []string{"uuid", "views", "materialized views"},

		Dialects: []string{"postgres"},

		Sections: []lesson.Section{
			{
				Title: "UUID primary keys",
				Steps: []lesson.Step{
					{
						Label: "1-1", Title: "Recreate students_uuid.",
						SQL: []string{
							`DROP TABLE IF EXISTS students_uuid;`,
							`
							CREATE TABLE students_uuid (
								id    UUID PRIMARY KEY,
								name  TEXT NOT NULL,
								major TEXT
							);`,
						},
					},
					{
						Label: "1-2", Title: "Insert five students with generated v4 keys.",
						Func: func(ctx context.Context, tx *lesson.Tx) error {
							students := []struct {
								name, major string
							}{
								{"Alice", "Math"},
								{"Bob", "CS"},
								{"Carol", "Physics"},
								{"Dave", "Chemistry"},
								{"Eve", "Biology"},
							}
							rows := make([][]any, 0, len(students))
							for _, s := range students {
								rows = append(rows, []any{uuid.NewString(), s.name, s.major})
							}
							return tx.BatchInsert(ctx,
								`INSERT INTO students_uuid (id, name, major) VALUES (?, ?, ?);`,
								rows)
						},
						Show: []lesson.Query{{
							Title: "[UUID] Students table",
							SQL:   `SELECT * FROM students_uuid ORDER BY name;`,
						}},
					},
				},
			},
			{
				Title: "VIEW vs MATERIALIZED VIEW",
				Steps: []lesson.Step{
					{
						Label: "2-1", Title: "Recreate products and both views.",
						SQL: []string{
							`DROP MATERIALIZED VIEW IF EXISTS cheap_products_mv;`,
							`DROP VIEW IF EXISTS cheap_products_view;`,
							`DROP TABLE IF EXISTS products;`,
							`
							CREATE TABLE products (
								id    SERIAL PRIMARY KEY,
								name  TEXT,
								price INT
							);`,
						},
					},
					{
						Label: "2-2", Title: "Bulk insert products.",
						Batch: &lesson.Batch{
							SQL: `INSERT INTO products (name, price) VALUES (?, ?);`,
							Rows: [][]any{
								{"Hammer", 50}, {"Shield", 150}, {"Suit", 500},
								{"Helmet", 90}, {"Goggles", 40}, {"Boots", 110},
							},
						},
					},
					{
						// The view replays its SELECT on every read;
						// the materialized view stores the rows.
						Label: "2-3", Title: "Create view and materialized view over price < 100.",
						SQL: []string{
							`
							CREATE VIEW cheap_products_view AS
							SELECT id, name, price FROM products WHERE price < 100;`,
							`
							CREATE MATERIALIZED VIEW cheap_products_mv AS
							SELECT id, name, price FROM products WHERE price < 100;`,
						},
						Show: showViews("Initial state"),
					},
					{
						Label: "2-4", Title: "Raise Helmet price above the threshold.",
						SQL:   []string{`UPDATE products SET price = 120 WHERE name = 'Helmet';`},
						Show:  showViews("After price update (MV stale)"),
					},
					{
						Label: "2-5", Title: "Refresh the materialized view.",
						SQL:   []string{`REFRESH MATERIALIZED VIEW cheap_products_mv;`},
						Show:  showViews("After REFRESH MATERIALIZED VIEW"),
					},
				},
			},
		},

		Cleanup: []string{
			`DROP MATERIALIZED VIEW IF EXISTS cheap_products_mv;`,
			`DROP VIEW IF EXISTS cheap_products_view;`,
			`DROP TABLE IF EXISTS products;`,
			`DROP TABLE IF EXISTS students_uuid;`,
		},
	}
}
