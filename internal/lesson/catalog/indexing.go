package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/leapstack-labs/sqlcoach/internal/cli/output"
	"github.com/leapstack-labs/sqlcoach/internal/lesson"
)

func init() {
	lesson.Register(newIndexing)
}

// newIndexing measures the same lookup query before and after creating
// a btree index on a 50k-row table, including planner output via
// EXPLAIN ANALYZE. Timings are captured in closures shared across
// sections, which is why the factory builds a fresh lesson per run.
func newIndexing() *lesson.Lesson {
	const lookup = `SELECT * FROM products WHERE name = ?;`
	const rowCount = 50000

	var beforeScan, afterScan time.Duration

	return &lesson.Lesson{
		Number: 4,
		Slug:   "indexing-performance",
		Title:  "Indexing and Query Performance",
		Topics: []string{"indexes", "btree", "explain", "profiling"},

		Dialects: []string{"postgres"},

		Sections: []lesson.Section{
			{
				Title: "Build a table large enough to feel",
				Steps: []lesson.Step{
					{
						Label: "1-1", Title: "Drop table 'products' if it exists.",
						SQL: []string{`DROP TABLE IF EXISTS products;`},
					},
					{
						Label: "1-2", Title: "Create 'products'.",
						SQL: []string{`
							CREATE TABLE products (
								id       SERIAL PRIMARY KEY,
								name     VARCHAR(100),
								price    NUMERIC(10, 2),
								in_stock BOOLEAN
							);`},
					},
					{
						Label: "1-3", Title: fmt.Sprintf("Insert %d synthetic rows.", rowCount),
						Func: func(ctx context.Context, tx *lesson.Tx) error {
							rows := make([][]any, 0, rowCount)
							for i := 0; i < rowCount; i++ {
								rows = append(rows, []any{
									fmt.Sprintf("Widget-%d", i%500),
									5 + float64(i%100)*0.1,
									i%2 == 0,
								})
							}
							return tx.BatchInsert(ctx,
								`INSERT INTO products (name, price, in_stock) VALUES (?, ?, ?);`,
								rows)
						},
					},
					{
						Label: "1-4", Title: "Row count sanity check.",
						Show:  []lesson.Query{{SQL: `SELECT COUNT(*) AS total FROM products;`}},
					},
				},
			},
			{
				Title: "Lookup without an index (sequential scan)",
				Steps: []lesson.Step{
					{
						Label: "2-1", Title: "Timed lookup for 'Widget-250'.",
						Func: func(ctx context.Context, tx *lesson.Tx) error {
							rs, took, err := tx.Timed(ctx, lookup, "Widget-250")
							if err != nil {
								return err
							}
							beforeScan = took
							tx.Printf("Matched %d rows in %s (no index).\n", len(rs.Rows), took)
							return nil
						},
					},
					{
						Label: "2-2", Title: "Planner output before indexing.",
						Show: []lesson.Query{{
							Title: "EXPLAIN ANALYZE (sequential scan expected)",
							SQL:   `EXPLAIN ANALYZE SELECT * FROM products WHERE name = 'Widget-250';`,
						}},
					},
				},
			},
			{
				Title: "Lookup with a btree index",
				Steps: []lesson.Step{
					{
						Label: "3-1", Title: "Create index on products(name).",
						SQL: []string{`
							CREATE INDEX idx_products_name
							ON products USING btree (name);`},
					},
					{
						Label: "3-2", Title: "Timed lookup for 'Widget-250' again.",
						Func: func(ctx context.Context, tx *lesson.Tx) error {
							rs, took, err := tx.Timed(ctx, lookup, "Widget-250")
							if err != nil {
								return err
							}
							afterScan = took
							tx.Printf("Matched %d rows in %s (btree index).\n", len(rs.Rows), took)
							return nil
						},
					},
					{
						Label: "3-3", Title: "Planner output after indexing.",
						Show: []lesson.Query{{
							Title: "EXPLAIN ANALYZE (index or bitmap scan expected)",
							SQL:   `EXPLAIN ANALYZE SELECT * FROM products WHERE name = 'Widget-250';`,
						}},
					},
					{
						Label: "3-4", Title: "Profiling summary.",
						Func: func(ctx context.Context, tx *lesson.Tx) error {
							rs := &output.ResultSet{
								Columns: []string{"measurement", "duration"},
								Rows: []map[string]any{
									{"measurement": "lookup before index", "duration": beforeScan.String()},
									{"measurement": "lookup after index", "duration": afterScan.String()},
								},
							}
							tx.Render("Timing comparison", rs)
							return nil
						},
					},
				},
			},
		},

		Cleanup: []string{
			`DROP INDEX IF EXISTS idx_products_name;`,
			`DROP TABLE IF EXISTS products;`,
		},
	}
}
