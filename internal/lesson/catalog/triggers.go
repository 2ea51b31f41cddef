package catalog

import (
	"github.com/leapstack-labs/sqlcoach/internal/lesson"
)

func init() {
	lesson.Register(newTriggersNullSort)
}

// newTriggersNullSort rounds out the course with audit timestamp
// triggers, NULL-safe arithmetic via COALESCE and NULLIF, and custom
// ordering with NULLS LAST and CASE.
func newTriggersNullSort() *lesson.Lesson {
	return &lesson.Lesson{
		Number: 10,
		Slug:   "triggers-null-sort",
		Title:  "Audit Triggers, NULL Handling and Custom Sorts",
		Topics: []string{"triggers", "coalesce", "nullif", "sorting"},

		Dialects: []string{"postgres"},

		Sections: []lesson.Section{
			{
				Title: "Audit timestamps via BEFORE trigger",
				Steps: []lesson.Step{
					{
						Label: "1-1", Title: "Recreate blog_posts and its trigger.",
						SQL: []string{
							`DROP TABLE IF EXISTS blog_posts;`,
							`DROP FUNCTION IF EXISTS trg_set_timestamp();`,
							`
							CREATE TABLE blog_posts (
								id         SERIAL PRIMARY KEY,
								title      TEXT,
								body       TEXT,
								created_at TIMESTAMP,
								updated_at TIMESTAMP
							);`,
							// TG_OP distinguishes INSERT from UPDATE so
							// created_at is only stamped once.
							`
							CREATE OR REPLACE FUNCTION trg_set_timestamp()
							RETURNS trigger AS $$
							BEGIN
								IF TG_OP = 'INSERT' THEN
									NEW.created_at := NOW();
								END IF;
								NEW.updated_at := NOW();
								RETURN NEW;
							END$$ LANGUAGE plpgsql;`,
							`
							CREATE TRIGGER ts_audit
							BEFORE INSERT OR UPDATE ON blog_posts
							FOR EACH ROW EXECUTE FUNCTION trg_set_timestamp();`,
						},
					},
					{
						Label: "1-2", Title: "Insert sample posts, timestamps auto-filled.",
						Batch: &lesson.Batch{
							SQL: `INSERT INTO blog_posts (title, body) VALUES (?, ?);`,
							Rows: [][]any{
								{"Hello", "First post"},
								{"News", "Breaking"},
								{"Tips", "Useful tips"},
							},
						},
						Show: []lesson.Query{{
							Title: "[TRG] blog_posts with timestamps",
							SQL:   `SELECT * FROM blog_posts ORDER BY id;`,
						}},
					},
				},
			},
			{
				Title: "NULL handling with COALESCE and NULLIF",
				Steps: []lesson.Step{
					{
						Label: "2-1", Title: "Recreate salaries.",
						SQL: []string{
							`DROP TABLE IF EXISTS salaries;`,
							`
							CREATE TABLE salaries (
								name  TEXT,
								base  INT,
								bonus INT
							);`,
						},
					},
					{
						Label: "2-2", Title: "Insert rows with NULL base and bonus.",
						Batch: &lesson.Batch{
							SQL: `INSERT INTO salaries VALUES (?, ?, ?);`,
							Rows: [][]any{
								{"Alice", 5000, 500},
								{"Bob", 4500, nil},
								{"Carol", nil, 700},
							},
						},
					},
					{
						// COALESCE substitutes for NULL, NULLIF turns a
						// chosen value back into NULL.
						Label: "2-3", Title: "NULL-safe totals.",
						Show: []lesson.Query{{
							Title: "[NULL] COALESCE & NULLIF demo",
							SQL: `
							SELECT name,
							       COALESCE(base, 0)  AS base_safe,
							       COALESCE(bonus, 0) AS bonus_safe,
							       COALESCE(base, 0) + COALESCE(bonus, 0) AS total_pay,
							       NULLIF(bonus, 0)   AS bonus_nullif
							FROM salaries
							ORDER BY name;`,
						}},
					},
				},
			},
			{
				Title: "Custom sorting with NULLS LAST and CASE",
				Steps: []lesson.Step{
					{
						Label: "3-1", Title: "Recreate tasks.",
						SQL: []string{
							`DROP TABLE IF EXISTS tasks;`,
							`
							CREATE TABLE tasks (
								id       SERIAL PRIMARY KEY,
								title    TEXT,
								priority INT
							);`,
						},
					},
					{
						Label: "3-2", Title: "Insert tasks, some without a priority.",
						Batch: &lesson.Batch{
							SQL: `INSERT INTO tasks (title, priority) VALUES (?, ?);`,
							Rows: [][]any{
								{"Deploy", 1},
								{"Code Review", 2},
								{"Refactor", nil},
								{"Write Docs", 3},
								{"Meeting", nil},
							},
						},
					},
					{
						Label: "3-3", Title: "Two ways to push NULLs to the bottom.",
						Show: []lesson.Query{
							{Title: "[SORT] priority NULLS LAST",
								SQL: `
								SELECT id, title, priority
								FROM tasks
								ORDER BY priority NULLS LAST, id;`},
							{Title: "[SORT] custom CASE priority",
								SQL: `
								SELECT id, title, priority
								FROM tasks
								ORDER BY
									CASE
										WHEN priority = 1 THEN 0
										WHEN priority = 2 THEN 1
										WHEN priority = 3 THEN 2
										ELSE 3
									END, id;`},
						},
					},
				},
			},
		},

		Cleanup: []string{
			`DROP TABLE IF EXISTS tasks;`,
			`DROP TABLE IF EXISTS salaries;`,
			`DROP TABLE IF EXISTS blog_posts;`,
			`DROP FUNCTION IF EXISTS trg_set_timestamp();`,
		},
	}
}
