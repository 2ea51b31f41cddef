package catalog

import (
	"context"
	"fmt"
	"math"

	"github.com/leapstack-labs/sqlcoach/internal/lesson"
)

func init() {
	lesson.Register(newAnalytics)
}

// newAnalytics covers analytical SQL: aggregate price summaries,
// PERCENTILE_CONT vs PERCENTILE_DISC inside a CTE, subquery filtering
// vs window annotation, and a client-side recompute written back as a
// new table.
func newAnalytics() *lesson.Lesson {
	return &lesson.Lesson{
		Number: 6,
		Slug:   "analytics",
		Title:  "Analytical Queries",
		Topics: []string{"aggregates", "percentiles", "cte", "window functions"},

		Dialects: []string{"postgres"},

		Sections: []lesson.Section{
			{
				Title: "Price statistics",
				Steps: []lesson.Step{
					{
						Label: "1-1", Title: "Recreate products_stats.",
						SQL: []string{
							`DROP TABLE IF EXISTS products_stats;`,
							`
							CREATE TABLE products_stats (
								id       SERIAL PRIMARY KEY,
								name     TEXT,
								price    REAL,
								category TEXT
							);`,
						},
					},
					{
						Label: "1-2", Title: "Insert sample products via batch insert.",
						Batch: &lesson.Batch{
							SQL: `INSERT INTO products_stats (name, price, category) VALUES (?, ?, ?);`,
							Rows: [][]any{
								{"Apple", 0.5, "Fruit"},
								{"Banana", 0.3, "Fruit"},
								{"Carrot", 0.2, "Vegetable"},
								{"Donut", 1.2, "Snack"},
								{"Eggplant", 0.9, "Vegetable"},
								{"Fig", 1.0, "Fruit"},
								{"Ginger", 1.5, "Spice"},
								{"Honey", 2.8, "Sweet"},
								{"Ice Cream", 3.0, "Dessert"},
							},
						},
					},
					{
						Label: "1-3", Title: "Full table and numeric summary.",
						Show: []lesson.Query{
							{Title: "[Stats] Full product table",
								SQL: `SELECT * FROM products_stats ORDER BY id;`},
							// Pre-aggregating in SQL keeps large
							// tables out of client memory.
							{Title: "[Stats] price summary",
								SQL: `
								SELECT COUNT(price)                AS count,
								       ROUND(AVG(price)::numeric, 2) AS mean,
								       ROUND(STDDEV(price)::numeric, 2) AS stddev,
								       MIN(price)                  AS min,
								       MAX(price)                  AS max
								FROM products_stats;`},
							{Title: "[Stats] Avg price by category",
								SQL: `
								SELECT category, ROUND(AVG(price)::numeric, 2) AS avg_price
								FROM products_stats
								GROUP BY category
								ORDER BY category;`},
						},
					},
				},
			},
			{
				Title: "Percentiles and Top-N via CTE",
				Steps: []lesson.Step{
					{
						Label: "2-1", Title: "Recreate avengers_power.",
						SQL: []string{
							`DROP TABLE IF EXISTS avengers_power;`,
							`
							CREATE TABLE avengers_power (
								emp_id         INT,
								name           TEXT,
								alias          TEXT,
								power_strength INT
							);`,
						},
					},
					{
						Label: "2-2", Title: "Insert the roster.",
						Batch: &lesson.Batch{
							SQL: `INSERT INTO avengers_power VALUES (?, ?, ?, ?);`,
							Rows: [][]any{
								{1, "Iron Man", "Genius Billionaire", 88},
								{2, "Captain America", "Super Soldier", 79},
								{3, "Hulk", "Green Giant", 92},
								{4, "Black Widow", "Spy", 65},
								{5, "Thor", "God of Thunder", 95},
								{6, "Hawkeye", "Archer", 64},
							},
						},
					},
					{
						Label: "2-3", Title: "Median two ways plus RANK() top 3.",
						// PERCENTILE_CONT interpolates between values,
						// PERCENTILE_DISC picks an actual stored one.
						Show: []lesson.Query{
							{Title: "[Avengers] Full table",
								SQL: `SELECT * FROM avengers_power ORDER BY emp_id;`},
							{Title: "[Avengers] Top-3 + percentiles",
								SQL: `
								WITH p AS (
									SELECT PERCENTILE_CONT(0.5) WITHIN GROUP (ORDER BY power_strength) AS pct_cont,
									       PERCENTILE_DISC(0.5) WITHIN GROUP (ORDER BY power_strength) AS pct_disc
									FROM avengers_power
								)
								SELECT name, alias, power_strength,
								       RANK() OVER (ORDER BY power_strength DESC) AS rnk,
								       p.pct_cont, p.pct_disc
								FROM avengers_power, p
								ORDER BY power_strength DESC
								LIMIT 3;`},
						},
					},
				},
			},
			{
				Title: "Subquery filtering vs window annotation",
				Steps: []lesson.Step{
					{
						Label: "3-1", Title: "Recreate people_win.",
						SQL: []string{
							`DROP TABLE IF EXISTS people_win;`,
							`
							CREATE TABLE people_win (
								id     SERIAL PRIMARY KEY,
								name   TEXT,
								age    INT,
								gender TEXT
							);`,
						},
					},
					{
						Label: "3-2", Title: "Insert people.",
						Batch: &lesson.Batch{
							SQL: `INSERT INTO people_win (name, age, gender) VALUES (?, ?, ?);`,
							Rows: [][]any{
								{"Alice", 30, "F"},
								{"Bob", 40, "M"},
								{"Carol", 35, "F"},
								{"Dave", 50, "M"},
								{"Eve", 28, "F"},
							},
						},
					},
					{
						Label: "3-3", Title: "Subqueries filter, windows annotate.",
						Show: []lesson.Query{
							{Title: "[People] Older than global avg (subquery)",
								SQL: `
								SELECT name, age FROM people_win
								WHERE age > (SELECT AVG(age) FROM people_win)
								ORDER BY age;`},
							{Title: "[People] Avg age by gender (window keeps all rows)",
								SQL: `
								SELECT name, age, gender,
								       ROUND(AVG(age) OVER (PARTITION BY gender), 2) AS avg_by_gender
								FROM people_win
								ORDER BY id;`},
						},
					},
				},
			},
			{
				Title: "Recompute client-side and write back",
				Steps: []lesson.Step{
					{
						Label: "4-1", Title: "Derive 10% discount prices and store them.",
						Func: func(ctx context.Context, tx *lesson.Tx) error {
							rs, err := tx.Query(ctx,
								`SELECT id, name, price, category FROM products_stats ORDER BY id;`)
							if err != nil {
								return err
							}
							if err := tx.Exec(ctx, `DROP TABLE IF EXISTS products_discount;`); err != nil {
								return err
							}
							if err := tx.Exec(ctx, `
								CREATE TABLE products_discount (
									id             INT,
									name           TEXT,
									price          REAL,
									category       TEXT,
									discount_price REAL
								);`); err != nil {
								return err
							}

							rows := make([][]any, 0, len(rs.Rows))
							for _, r := range rs.Rows {
								price, err := toFloat(r["price"])
								if err != nil {
									return fmt.Errorf("row %v: %w", r["id"], err)
								}
								discount := math.Round(price*0.9*100) / 100
								rows = append(rows, []any{
									r["id"], r["name"], price, r["category"], discount,
								})
							}
							return tx.BatchInsert(ctx, `
								INSERT INTO products_discount (id, name, price, category, discount_price)
								VALUES (?, ?, ?, ?, ?);`, rows)
						},
					},
					{
						Label: "4-2", Title: "Verify the round trip.",
						Show: []lesson.Query{{
							Title: "[DB] products_discount after write-back",
							SQL:   `SELECT * FROM products_discount ORDER BY id;`,
						}},
					},
				},
			},
		},

		Cleanup: []string{
			`DROP TABLE IF EXISTS products_stats;`,
			`DROP TABLE IF EXISTS avengers_power;`,
			`DROP TABLE IF EXISTS people_win;`,
			`DROP TABLE IF EXISTS products_discount;`,
		},
	}
}
