package catalog

import (
	"github.com/leapstack-labs/sqlcoach/internal/lesson"
)

func init() {
	lesson.Register(newCRUDCycle)
}

// newCRUDCycle walks the basic SELECT / UPDATE / DELETE cycle on a
// tiny heroes table, with a batch insert for setup.
func newCRUDCycle() *lesson.Lesson {
	return &lesson.Lesson{
		Number: 1,
		Slug:   "crud-cycle",
		Title:  "CRUD Operations Cycle",
		Topics: []string{"crud", "transactions", "batch-insert"},

		Dialects: []string{"postgres"},

		Sections: []lesson.Section{
			{
				Title: "Create, read, update, delete",
				Steps: []lesson.Step{
					{
						Label: "1", Title: "Drop table if exists.",
						SQL: []string{`DROP TABLE IF EXISTS heroes;`},
					},
					{
						Label: "2", Title: "Create table 'heroes'.",
						SQL: []string{`
							CREATE TABLE heroes (
								id   SERIAL PRIMARY KEY,
								name VARCHAR(50) NOT NULL,
								team VARCHAR(50)
							);`},
					},
					{
						Label: "3", Title: "Insert rows with a batch insert.",
						Batch: &lesson.Batch{
							SQL: `INSERT INTO heroes (name, team) VALUES (?, ?);`,
							Rows: [][]any{
								{"Iron Man", "Avengers"},
								{"Captain America", "Avengers"},
								{"Wolverine", "X-Men"},
							},
						},
					},
					{
						Label: "4", Title: "SELECT before updates.",
						Show: []lesson.Query{{SQL: `SELECT * FROM heroes ORDER BY id;`}},
					},
					{
						Label: "5", Title: "UPDATE 'Wolverine' to team 'Avengers'.",
						SQL: []string{`
							UPDATE heroes SET team = 'Avengers'
							WHERE name = 'Wolverine';`},
					},
					{
						Label: "6", Title: "DELETE 'Iron Man'.",
						SQL:   []string{`DELETE FROM heroes WHERE name = 'Iron Man';`},
					},
					{
						Label: "7", Title: "SELECT after update and delete.",
						Show: []lesson.Query{{SQL: `SELECT * FROM heroes ORDER BY id;`}},
					},
				},
			},
		},

		Cleanup: []string{`DROP TABLE IF EXISTS heroes;`},
	}
}
