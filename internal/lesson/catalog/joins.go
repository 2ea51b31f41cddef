package catalog

import (
	"github.com/leapstack-labs/sqlcoach/internal/lesson"
)

func init() {
	lesson.Register(newJoins)
}

// newJoins covers outer join behaviour, the three set operations, and
// basic aggregates. Every statement here is ANSI portable, so this is
// the one lesson that also runs against duckdb.
func newJoins() *lesson.Lesson {
	return &lesson.Lesson{
		Number: 9,
		Slug:   "joins-sets",
		Title:  "Joins, Set Operations and Aggregates",
		Topics: []string{"joins", "union", "intersect", "aggregates"},

		Sections: []lesson.Section{
			{
				Title: "Outer joins between heroes and abilities",
				Steps: []lesson.Step{
					{
						Label: "1-1", Title: "Recreate heroes and abilities.",
						SQL: []string{
							`DROP TABLE IF EXISTS abilities;`,
							`DROP TABLE IF EXISTS heroes;`,
							`
							CREATE TABLE heroes (
								name TEXT,
								team TEXT
							);`,
							`
							CREATE TABLE abilities (
								name    TEXT,
								ability TEXT
							);`,
						},
					},
					{
						Label: "1-2", Title: "Insert sample rows via batch insert.",
						Batch: &lesson.Batch{
							SQL: `INSERT INTO heroes (name, team) VALUES (?, ?);`,
							Rows: [][]any{
								{"Iron Man", "Avengers"},
								{"Thor", "Avengers"},
								{"Spider-Man", "Solo"},
								{"Hawkeye", "Avengers"},
							},
						},
					},
					{
						Label: "1-3", Title: "Insert abilities, two without a hero row.",
						Batch: &lesson.Batch{
							SQL: `INSERT INTO abilities (name, ability) VALUES (?, ?);`,
							Rows: [][]any{
								{"Iron Man", "Powered Armor"},
								{"Thor", "Thunder God"},
								{"Hulk", "Super Strength"},
								{"Vision", "Density Control"},
							},
						},
					},
					{
						Label: "1-4", Title: "RIGHT JOIN keeps every ability.",
						// Abilities without a matching hero show NULL
						// in the hero column.
						Show: []lesson.Query{{
							Title: "[JOIN] RIGHT JOIN (all abilities)",
							SQL: `
							SELECT h.name AS hero, a.ability
							FROM heroes h
							RIGHT JOIN abilities a ON h.name = a.name
							ORDER BY a.ability;`,
						}},
					},
					{
						Label: "1-5", Title: "FULL JOIN keeps both sides.",
						// COALESCE picks the first non NULL name so
						// unmatched rows from either side stay
						// readable.
						Show: []lesson.Query{{
							Title: "[JOIN] FULL JOIN (everything)",
							SQL: `
							SELECT COALESCE(h.name, a.name) AS hero, h.team, a.ability
							FROM heroes h
							FULL JOIN abilities a ON h.name = a.name
							ORDER BY hero;`,
						}},
					},
				},
			},
			{
				Title: "Set operations between two rosters",
				Steps: []lesson.Step{
					{
						Label: "2-1", Title: "Recreate group_a and group_b.",
						SQL: []string{
							`DROP TABLE IF EXISTS group_a;`,
							`DROP TABLE IF EXISTS group_b;`,
							`CREATE TABLE group_a (name TEXT);`,
							`CREATE TABLE group_b (name TEXT);`,
						},
					},
					{
						Label: "2-2", Title: "Fill group_a.",
						Batch: &lesson.Batch{
							SQL: `INSERT INTO group_a (name) VALUES (?);`,
							Rows: [][]any{
								{"Iron Man"}, {"Thor"}, {"Hulk"}, {"Vision"},
							},
						},
					},
					{
						Label: "2-3", Title: "Fill group_b.",
						Batch: &lesson.Batch{
							SQL: `INSERT INTO group_b (name) VALUES (?);`,
							Rows: [][]any{
								{"Hulk"}, {"Black Widow"}, {"Iron Man"}, {"Falcon"},
							},
						},
					},
					{
						Label: "2-4", Title: "UNION, INTERSECT, EXCEPT.",
						Show: []lesson.Query{
							{Title: "[SET] UNION (unique names)",
								SQL: `
								SELECT name FROM group_a
								UNION
								SELECT name FROM group_b
								ORDER BY name;`},
							{Title: "[SET] INTERSECT (common names)",
								SQL: `
								SELECT name FROM group_a
								INTERSECT
								SELECT name FROM group_b
								ORDER BY name;`},
							{Title: "[SET] EXCEPT (in A not B)",
								SQL: `
								SELECT name FROM group_a
								EXCEPT
								SELECT name FROM group_b
								ORDER BY name;`},
						},
					},
				},
			},
			{
				Title: "Aggregates over power levels",
				Steps: []lesson.Step{
					{
						Label: "3-1", Title: "Recreate power_levels.",
						SQL: []string{
							`DROP TABLE IF EXISTS power_levels;`,
							`
							CREATE TABLE power_levels (
								name  TEXT,
								level INT
							);`,
						},
					},
					{
						Label: "3-2", Title: "Insert power levels.",
						Batch: &lesson.Batch{
							SQL: `INSERT INTO power_levels (name, level) VALUES (?, ?);`,
							Rows: [][]any{
								{"Iron Man", 85},
								{"Thor", 95},
								{"Hulk", 90},
								{"Hawkeye", 70},
							},
						},
					},
					{
						// COUNT(*) counts rows regardless of NULLs in
						// any column.
						Label: "3-3", Title: "COUNT, AVG and MAX in one pass.",
						Show: []lesson.Query{{
							Title: "[AGG] COUNT / AVG / MAX on power_levels",
							SQL: `
							SELECT COUNT(*)   AS count,
							       AVG(level) AS avg_power,
							       MAX(level) AS max_power
							FROM power_levels;`,
						}},
					},
				},
			},
		},

		Cleanup: []string{
			`DROP TABLE IF EXISTS power_levels;`,
			`DROP TABLE IF EXISTS group_a;`,
			`DROP TABLE IF EXISTS group_b;`,
			`DROP TABLE IF EXISTS abilities;`,
			`DROP TABLE IF EXISTS heroes;`,
		},
	}
}
