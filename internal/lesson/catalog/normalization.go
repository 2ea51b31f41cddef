package catalog

import (
	"context"
	"strings"

	"github.com/leapstack-labs/sqlcoach/internal/lesson"
)

func init() {
	lesson.Register(newNormalization)
}

// newNormalization demonstrates composite primary keys and the 1NF,
// 2NF, and 3NF normalization fixes on small order tables.
func newNormalization() *lesson.Lesson {
	return &lesson.Lesson{
		Number: 2,
		Slug:   "normalization",
		Title:  "Normalization and Schema Constraints",
		Topics: []string{"normalization", "composite-pk", "foreign-keys"},

		Dialects: []string{"postgres"},

		Sections: []lesson.Section{
			{
				Title: "Composite primary key integrity",
				Steps: []lesson.Step{
					{
						Label: "1-1", Title: "Drop existing 'course_enrollments' table.",
						SQL: []string{`DROP TABLE IF EXISTS course_enrollments;`},
					},
					{
						Label: "1-2", Title: "Create table with composite primary key.",
						SQL: []string{`
							CREATE TABLE course_enrollments (
								student_id  INTEGER,
								course_id   TEXT,
								enrolled_on DATE DEFAULT CURRENT_DATE,
								PRIMARY KEY (student_id, course_id)
							);`},
					},
					{
						Label: "1-3", Title: "Insert valid records via batch insert.",
						Batch: &lesson.Batch{
							SQL: `
								INSERT INTO course_enrollments (student_id, course_id)
								VALUES (?, ?);`,
							Rows: [][]any{
								{101, "CS101"}, {101, "MATH202"},
								{102, "CS101"}, {103, "PHYS303"},
							},
						},
					},
					{
						Label: "1-4", Title: "Attempt duplicate insert (should fail).",
						ExpectError: "Constraint Violation",
						SQL: []string{`
							INSERT INTO course_enrollments (student_id, course_id)
							VALUES (101, 'CS101');`},
					},
					{
						Label: "1-5", Title: "Final SELECT from course_enrollments.",
						Show: []lesson.Query{{SQL: `
							SELECT * FROM course_enrollments
							ORDER BY student_id, course_id;`}},
					},
					{
						Label: "1-6", Title: "Drop table for cleanup.",
						SQL:   []string{`DROP TABLE IF EXISTS course_enrollments;`},
					},
				},
			},
			{
				Title: "First normal form: split multi-valued attributes",
				Steps: []lesson.Step{
					{
						Label: "2-1", Title: "Drop old order tables (if any).",
						SQL: []string{
							`DROP TABLE IF EXISTS orders_unnormalized;`,
							`DROP TABLE IF EXISTS orders_1nf;`,
						},
					},
					{
						Label: "2-2", Title: "Create unnormalized table (CSV items column).",
						SQL: []string{`
							CREATE TABLE orders_unnormalized (
								order_id SERIAL PRIMARY KEY,
								customer TEXT,
								items    TEXT
							);`},
					},
					{
						Label: "2-3", Title: "Insert sample rows via batch insert.",
						Batch: &lesson.Batch{
							SQL: `
								INSERT INTO orders_unnormalized (customer, items)
								VALUES (?, ?);`,
							Rows: [][]any{
								{"Tony", "Arc Reactor, Suit, AI"},
								{"Steve", "Shield"},
								{"Peter", "Web-Shooter, Suit"},
							},
						},
					},
					{
						Label: "2-4", Title: "Show unnormalized data.",
						Show: []lesson.Query{{SQL: `SELECT * FROM orders_unnormalized ORDER BY order_id;`}},
					},
					{
						Label: "2-5", Title: "Create 1NF-compliant table.",
						SQL: []string{`
							CREATE TABLE orders_1nf (
								order_id INTEGER,
								customer TEXT,
								item     TEXT,
								PRIMARY KEY (order_id, item)
							);`},
					},
					{
						Label: "2-6", Title: "Normalize data into orders_1nf.",
						Func:  normalizeTo1NF,
					},
					{
						Label: "2-7", Title: "Display normalized orders.",
						Show: []lesson.Query{{SQL: `
							SELECT * FROM orders_1nf
							ORDER BY order_id, item;`}},
					},
					{
						Label: "2-8", Title: "Drop tables for cleanup.",
						SQL: []string{
							`DROP TABLE IF EXISTS orders_unnormalized;`,
							`DROP TABLE IF EXISTS orders_1nf;`,
						},
					},
				},
			},
			{
				Title: "Second normal form: remove partial dependencies",
				Steps: []lesson.Step{
					{
						Label: "3-1", Title: "Drop 2NF demo tables (if any).",
						SQL: []string{
							`DROP TABLE IF EXISTS orders_unnorm_2nf;`,
							`DROP TABLE IF EXISTS customers;`,
							`DROP TABLE IF EXISTS orders_2nf;`,
						},
					},
					{
						Label: "3-2", Title: "Create 2NF-violating table.",
						SQL: []string{`
							CREATE TABLE orders_unnorm_2nf (
								order_id      INTEGER,
								product       TEXT,
								customer_name TEXT
							);`},
					},
					{
						Label: "3-3", Title: "Insert sample rows via batch insert.",
						Batch: &lesson.Batch{
							SQL: `
								INSERT INTO orders_unnorm_2nf (order_id, product, customer_name)
								VALUES (?, ?, ?);`,
							Rows: [][]any{
								{1, "apple", "Alice"},
								{1, "banana", "Alice"},
								{2, "carrot", "Bob"},
								{3, "donut", "Carol"},
								{3, "fig", "Carol"},
							},
						},
					},
					{
						Label: "3-4", Title: "Show 2NF-violating table.",
						Show: []lesson.Query{{SQL: `SELECT * FROM orders_unnorm_2nf ORDER BY order_id, product;`}},
					},
					{
						Label: "3-5", Title: "Create customers table.",
						SQL: []string{`
							CREATE TABLE customers (
								order_id      INTEGER PRIMARY KEY,
								customer_name TEXT
							);`},
					},
					{
						Label: "3-6", Title: "Create orders_2nf table.",
						SQL: []string{`
							CREATE TABLE orders_2nf (
								order_id INTEGER,
								product  TEXT,
								PRIMARY KEY (order_id, product)
							);`},
					},
					{
						Label: "3-7", Title: "Normalize into customers and orders_2nf.",
						SQL: []string{
							`
							INSERT INTO customers (order_id, customer_name)
							SELECT DISTINCT order_id, customer_name
							FROM orders_unnorm_2nf;`,
							`
							INSERT INTO orders_2nf (order_id, product)
							SELECT order_id, product
							FROM orders_unnorm_2nf;`,
						},
					},
					{
						Label: "3-8", Title: "Display normalized tables.",
						Show: []lesson.Query{
							{Title: "-- customers (holds customer_name) --",
								SQL: `SELECT * FROM customers ORDER BY order_id;`},
							{Title: "-- orders_2nf (2NF satisfied) --",
								SQL: `SELECT * FROM orders_2nf ORDER BY order_id, product;`},
						},
					},
					{
						Label: "3-9", Title: "Drop tables for cleanup.",
						SQL: []string{
							`DROP TABLE IF EXISTS orders_unnorm_2nf;`,
							`DROP TABLE IF EXISTS customers;`,
							`DROP TABLE IF EXISTS orders_2nf;`,
						},
					},
				},
			},
			{
				Title: "Third normal form: remove transitive dependencies",
				Steps: []lesson.Step{
					{
						Label: "4-1", Title: "Drop 3NF demo tables (if any).",
						SQL: []string{
							`DROP TABLE IF EXISTS employees_3nf;`,
							`DROP TABLE IF EXISTS departments CASCADE;`,
							`DROP TABLE IF EXISTS employees_unnormalized;`,
						},
					},
					{
						Label: "4-2", Title: "Create 3NF-violating employees table.",
						SQL: []string{`
							CREATE TABLE employees_unnormalized (
								emp_id    INTEGER,
								emp_name  TEXT,
								dept_id   INTEGER,
								dept_name TEXT
							);`},
					},
					{
						Label: "4-3", Title: "Insert sample rows via batch insert.",
						Batch: &lesson.Batch{
							SQL: `
								INSERT INTO employees_unnormalized (emp_id, emp_name, dept_id, dept_name)
								VALUES (?, ?, ?, ?);`,
							Rows: [][]any{
								{1, "Alice", 10, "Engineering"},
								{2, "Bob", 20, "Marketing"},
								{3, "Carol", 10, "Engineering"},
								{4, "David", 30, "Sales"},
								{5, "Eve", 20, "Marketing"},
							},
						},
					},
					{
						Label: "4-4", Title: "Show 3NF-violating table.",
						Show: []lesson.Query{{SQL: `SELECT * FROM employees_unnormalized ORDER BY emp_id;`}},
					},
					{
						Label: "4-5", Title: "Create departments table (dept_id determines dept_name).",
						SQL: []string{
							`
							CREATE TABLE departments (
								dept_id   INTEGER PRIMARY KEY,
								dept_name TEXT
							);`,
							`
							INSERT INTO departments (dept_id, dept_name)
							SELECT DISTINCT dept_id, dept_name
							FROM employees_unnormalized;`,
						},
					},
					{
						Label: "4-6", Title: "Create employees_3nf table with FK.",
						SQL: []string{
							`
							CREATE TABLE employees_3nf (
								emp_id   INTEGER PRIMARY KEY,
								emp_name TEXT,
								dept_id  INTEGER REFERENCES departments(dept_id)
							);`,
							`
							INSERT INTO employees_3nf (emp_id, emp_name, dept_id)
							SELECT emp_id, emp_name, dept_id
							FROM employees_unnormalized;`,
						},
					},
					{
						Label: "4-7", Title: "Display normalized tables.",
						Show: []lesson.Query{
							{Title: "-- departments (holds dept_name) --",
								SQL: `SELECT * FROM departments ORDER BY dept_id;`},
							{Title: "-- employees_3nf (3NF satisfied + FK) --",
								SQL: `SELECT * FROM employees_3nf ORDER BY emp_id;`},
						},
					},
					{
						Label: "4-8", Title: "Drop tables for cleanup.",
						SQL: []string{
							`DROP TABLE IF EXISTS employees_3nf;`,
							`DROP TABLE IF EXISTS departments;`,
							`DROP TABLE IF EXISTS employees_unnormalized;`,
						},
					},
				},
			},
		},

		Cleanup: []string{
			`DROP TABLE IF EXISTS course_enrollments;`,
			`DROP TABLE IF EXISTS orders_unnormalized;`,
			`DROP TABLE IF EXISTS orders_1nf;`,
			`DROP TABLE IF EXISTS orders_unnorm_2nf;`,
			`DROP TABLE IF EXISTS customers;`,
			`DROP TABLE IF EXISTS orders_2nf;`,
			`DROP TABLE IF EXISTS employees_3nf;`,
			`DROP TABLE IF EXISTS departments CASCADE;`,
			`DROP TABLE IF EXISTS employees_unnormalized;`,
		},
	}
}

// normalizeTo1NF reads the CSV items column, splits it client-side,
// and batch-inserts one row per item. The split has to happen in the
// client: 1NF is about fixing data the database cannot interpret.
func normalizeTo1NF(ctx context.Context, tx *lesson.Tx) error {
	rs, err := tx.Query(ctx, `SELECT order_id, customer, items FROM orders_unnormalized ORDER BY order_id;`)
	if err != nil {
		return err
	}

	var records [][]any
	for _, row := range rs.Rows {
		items := strings.Split(row["items"].(string), ",")
		for _, item := range items {
			records = append(records, []any{row["order_id"], row["customer"], strings.TrimSpace(item)})
		}
	}

	return tx.BatchInsert(ctx, `
		INSERT INTO orders_1nf (order_id, customer, item)
		VALUES (?, ?, ?);`, records)
}
