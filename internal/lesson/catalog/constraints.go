package catalog

import (
	"github.com/leapstack-labs/sqlcoach/internal/lesson"
)

func init() {
	lesson.Register(newConstraints)
}

// newConstraints showcases UNIQUE / PRIMARY KEY violations with
// rollback, DEFAULT + NOT NULL behaviour including sequence gaps, and
// composite primary key integrity.
func newConstraints() *lesson.Lesson {
	return &lesson.Lesson{
		Number: 3,
		Slug:   "constraints-defaults",
		Title:  "Constraints and Defaults",
		Topics: []string{"constraints", "defaults", "rollback", "sequences"},

		Dialects: []string{"postgres"},

		Sections: []lesson.Section{
			{
				Title: "UNIQUE and PRIMARY KEY constraints",
				Steps: []lesson.Step{
					{
						Label: "1-1", Title: "Drop table 'users' if it exists.",
						SQL: []string{`DROP TABLE IF EXISTS users;`},
					},
					{
						Label: "1-2", Title: "Create 'users' with PK + UNIQUE(email).",
						SQL: []string{`
							CREATE TABLE users (
								user_id  SERIAL PRIMARY KEY,
								name     VARCHAR(100),
								email    VARCHAR(100) UNIQUE,
								password VARCHAR(100)
							);`},
					},
					{
						Label: "1-3", Title: "Insert Alice, Bob (valid).",
						SQL: []string{`
							INSERT INTO users (name, email, password)
							VALUES ('Alice', 'alice@example.com', 'pass123'),
							       ('Bob',   'bob@example.com',   'secret');`},
					},
					{
						Label: "1-4", Title: "Attempt duplicate PK (user_id 1).",
						ExpectError: "PK Violation",
						SQL: []string{`
							INSERT INTO users (user_id, name, email, password)
							VALUES (1, 'Eve', 'eve@example.com', 'badpass');`},
					},
					{
						Label: "1-5", Title: "Attempt duplicate email (bob@example.com).",
						ExpectError: "UNIQUE Violation",
						SQL: []string{`
							INSERT INTO users (name, email, password)
							VALUES ('Bob', 'bob@example.com', 'dupemail');`},
					},
					{
						Label: "1-6", Title: "Final rows in 'users'.",
						Show:  []lesson.Query{{SQL: `SELECT * FROM users ORDER BY user_id;`}},
					},
				},
			},
			{
				Title: "DEFAULT and NOT NULL behaviour",
				Steps: []lesson.Step{
					{
						Label: "2-1", Title: "Drop table 'test_defaults' if exists.",
						SQL: []string{`DROP TABLE IF EXISTS test_defaults;`},
					},
					{
						Label: "2-2", Title: "Create table with defaults + NOT NULL.",
						SQL: []string{`
							CREATE TABLE test_defaults (
								id         SERIAL PRIMARY KEY,
								name       TEXT DEFAULT 'Anonymous',
								department TEXT DEFAULT 'General',
								email      TEXT NOT NULL
							);`},
					},
					{
						Label: "2-3", Title: "Insert explicit row (override defaults).",
						SQL: []string{`
							INSERT INTO test_defaults (name, department, email)
							VALUES ('Alice', 'Engineering', 'alice@example.com');`},
					},
					{
						Label: "2-4", Title: "Insert row using default department.",
						SQL: []string{`
							INSERT INTO test_defaults (name, email)
							VALUES ('Bob', 'bob@example.com');`},
					},
					{
						Label: "2-5", Title: "Insert row using all defaults but NOT NULL email.",
						SQL: []string{`
							INSERT INTO test_defaults (email)
							VALUES ('carol@example.com');`},
					},
					{
						Label: "2-6", Title: "Attempt NULL into NOT NULL column.",
						ExpectError: "NOT NULL Violation",
						SQL: []string{`
							INSERT INTO test_defaults (name, department, email)
							VALUES ('Dave', 'Marketing', NULL);`},
					},
					{
						Label: "2-7", Title: "Rows after rollback (id sequence gap visible).",
						Show:  []lesson.Query{{SQL: `SELECT * FROM test_defaults ORDER BY id;`}},
					},
					{
						Label: "2-8", Title: "ALTER default for department to 'Support'.",
						SQL: []string{`
							ALTER TABLE test_defaults
							ALTER COLUMN department SET DEFAULT 'Support';`},
					},
					{
						Label: "2-9", Title: "Insert row to use new default.",
						SQL: []string{`
							INSERT INTO test_defaults (name, email)
							VALUES ('Eve', 'eve@example.com');`},
					},
					{
						Label: "2-10", Title: "Final rows before cleanup.",
						Show:  []lesson.Query{{SQL: `SELECT * FROM test_defaults ORDER BY id;`}},
					},
				},
			},
			{
				Title: "Composite primary key integrity",
				Steps: []lesson.Step{
					{
						Label: "3-1", Title: "Drop table 'course_enrollments' if exists.",
						SQL: []string{`DROP TABLE IF EXISTS course_enrollments;`},
					},
					{
						Label: "3-2", Title: "Create table with composite PK.",
						SQL: []string{`
							CREATE TABLE course_enrollments (
								student_id  INTEGER,
								course_id   TEXT,
								enrolled_on DATE DEFAULT CURRENT_DATE,
								PRIMARY KEY (student_id, course_id)
							);`},
					},
					{
						Label: "3-3", Title: "Insert valid enrollments.",
						Batch: &lesson.Batch{
							SQL: `INSERT INTO course_enrollments (student_id, course_id) VALUES (?, ?);`,
							Rows: [][]any{
								{101, "CS101"}, {101, "MATH202"},
								{102, "CS101"}, {103, "PHYS303"},
							},
						},
					},
					{
						Label: "3-4", Title: "Attempt duplicate composite key.",
						ExpectError: "Composite PK Violation",
						SQL: []string{`
							INSERT INTO course_enrollments (student_id, course_id)
							VALUES (101, 'CS101');`},
					},
					{
						Label: "3-5", Title: "Final enrollments (composite PK enforced).",
						Show: []lesson.Query{{SQL: `
							SELECT * FROM course_enrollments
							ORDER BY student_id, course_id;`}},
					},
				},
			},
		},

		Cleanup: []string{
			`DROP TABLE IF EXISTS users;`,
			`DROP TABLE IF EXISTS test_defaults;`,
			`DROP TABLE IF EXISTS course_enrollments;`,
		},
	}
}
