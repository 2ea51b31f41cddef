package catalog

import (
	"github.com/leapstack-labs/sqlcoach/internal/lesson"
)

func init() {
	lesson.Register(newModeling)
}

// newModeling walks foreign key referential actions (CASCADE on
// delete, SET NULL on update) and then the core SELECT modifiers
// against a small product catalog.
func newModeling() *lesson.Lesson {
	return &lesson.Lesson{
		Number: 5,
		Slug:   "relational-modeling",
		Title:  "Relational Modeling and Query Clauses",
		Topics: []string{"foreign keys", "cascade", "select", "paging"},

		Dialects: []string{"postgres"},

		Sections: []lesson.Section{
			{
				Title: "Foreign key actions between departments and employees",
				Steps: []lesson.Step{
					{
						Label: "1-1", Title: "Recreate departments and employees tables.",
						SQL: []string{
							`DROP TABLE IF EXISTS employees;`,
							`DROP TABLE IF EXISTS departments;`,
							`
							CREATE TABLE departments (
								department TEXT PRIMARY KEY
							);`,
							// fk_dept reacts to parent table events:
							// delete removes employees, rename nulls
							// their department.
							`
							CREATE TABLE employees (
								employee_id   SERIAL PRIMARY KEY,
								employee_name TEXT,
								department    TEXT,
								CONSTRAINT fk_dept FOREIGN KEY (department)
									REFERENCES departments(department)
									ON DELETE CASCADE
									ON UPDATE SET NULL
							);`,
						},
					},
					{
						Label: "1-2", Title: "Insert demo rows.",
						SQL: []string{
							`INSERT INTO departments VALUES ('Engineering'), ('Marketing');`,
						},
						Batch: &lesson.Batch{
							SQL: `INSERT INTO employees (employee_name, department) VALUES (?, ?);`,
							Rows: [][]any{
								{"Alice", "Engineering"},
								{"Bob", "Engineering"},
								{"Eve", "Marketing"},
							},
						},
					},
					{
						Label: "1-3", Title: "Parent and child before any actions.",
						Show: []lesson.Query{
							{Title: "Parent = departments", SQL: `SELECT * FROM departments;`},
							{Title: "Child = employees", SQL: `SELECT * FROM employees ORDER BY employee_id;`},
						},
					},
					{
						Label: "1-4", Title: "DELETE Marketing (CASCADE removes Eve).",
						SQL:   []string{`DELETE FROM departments WHERE department = 'Marketing';`},
						Show: []lesson.Query{
							{Title: "Departments after delete", SQL: `SELECT * FROM departments;`},
							{Title: "Employees after CASCADE delete", SQL: `SELECT * FROM employees ORDER BY employee_id;`},
						},
					},
					{
						Label: "1-5", Title: "UPDATE Engineering to Tech (SET NULL on children).",
						SQL:   []string{`UPDATE departments SET department = 'Tech' WHERE department = 'Engineering';`},
						Show: []lesson.Query{
							{Title: "Departments after rename", SQL: `SELECT * FROM departments;`},
							{Title: "Employees after SET NULL", SQL: `SELECT * FROM employees ORDER BY employee_id;`},
						},
					},
				},
			},
			{
				Title: "SELECT modifiers over a product catalog",
				Steps: []lesson.Step{
					{
						Label: "2-1", Title: "Recreate products table.",
						SQL: []string{
							`DROP TABLE IF EXISTS products;`,
							`
							CREATE TABLE products (
								id       SERIAL PRIMARY KEY,
								name     TEXT,
								price    REAL,
								category TEXT
							);`,
						},
					},
					{
						Label: "2-2", Title: "Insert sample products via batch insert.",
						Batch: &lesson.Batch{
							SQL: `INSERT INTO products (name, price, category) VALUES (?, ?, ?);`,
							Rows: [][]any{
								{"Apple", 0.50, "Fruit"},
								{"Banana", 0.30, "Fruit"},
								{"Carrot", 0.20, "Vegetable"},
								{"Donut", 1.20, "Snack"},
								{"Eggplant", 0.90, "Vegetable"},
								{"Fig", 1.00, "Fruit"},
								{"Ginger", 1.50, "Spice"},
								{"Honey", 2.80, "Sweet"},
								{"Ice Cream", 3.00, "Dessert"},
							},
						},
					},
					{
						Label: "2-3", Title: "Projection, filtering, sorting, paging.",
						Show: []lesson.Query{
							{Title: "[SELECT] name, price from all products",
								SQL: `SELECT name, price FROM products;`},
							{Title: "[WHERE] price > 1.00",
								SQL: `SELECT name, price FROM products WHERE price > 1.00;`},
							{Title: "[ORDER BY] price DESC",
								SQL: `SELECT name, price FROM products ORDER BY price DESC;`},
							{Title: "[LIMIT] top 3 expensive items",
								SQL: `SELECT name, price FROM products ORDER BY price DESC LIMIT 3;`},
							{Title: "[LIMIT & OFFSET] page 2 (items 4-6)",
								SQL: `SELECT name, price FROM products ORDER BY price DESC LIMIT 3 OFFSET 3;`},
						},
					},
				},
			},
		},

		Cleanup: []string{
			`DROP TABLE IF EXISTS employees;`,
			`DROP TABLE IF EXISTS departments;`,
			`DROP TABLE IF EXISTS products;`,
		},
	}
}
