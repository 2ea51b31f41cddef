package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/leapstack-labs/sqlcoach/internal/lesson"
)

func init() {
	lesson.Register(newJSONAndFTS)
}

// newJSONAndFTS demonstrates JSONB containment queries with a GIN
// index over 10k synthetic documents, then full text search with a
// tsvector column kept current by a trigger.
func newJSONAndFTS() *lesson.Lesson {
	const containsSkill2 = `
		SELECT COUNT(*) AS hits
		FROM avengers_json
		WHERE data @> '{"skills":["skill2"]}';`

	const searchAI = `
		SELECT title, ts_rank(document, q) AS rank
		FROM articles, plainto_tsquery('english', 'AI') AS q
		WHERE document @@ q
		ORDER BY rank DESC;`

	return &lesson.Lesson{
		Number: 7,
		Slug:   "json-fts",
		Title:  "JSONB and Full Text Search",
		Topics: []string{"jsonb", "gin", "tsvector", "triggers"},

		Dialects: []string{"postgres"},

		Sections: []lesson.Section{
			{
				Title: "JSONB containment with and without a GIN index",
				Steps: []lesson.Step{
					{
						Label: "1-1", Title: "Recreate avengers_json.",
						SQL: []string{
							`DROP TABLE IF EXISTS avengers_json;`,
							`
							CREATE TABLE avengers_json (
								id   SERIAL PRIMARY KEY,
								data JSONB
							);`,
						},
					},
					{
						Label: "1-2", Title: "Insert 10000 hero documents.",
						Func: func(ctx context.Context, tx *lesson.Tx) error {
							rows := make([][]any, 0, 10000)
							for i := 1; i <= 10000; i++ {
								doc, err := json.Marshal(map[string]any{
									"name":   fmt.Sprintf("Hero %d", i),
									"age":    20 + i%30,
									"skills": []string{fmt.Sprintf("skill%d", i%5)},
								})
								if err != nil {
									return err
								}
								rows = append(rows, []any{string(doc)})
							}
							return tx.BatchInsert(ctx,
								`INSERT INTO avengers_json (data) VALUES (?);`, rows)
						},
					},
					{
						// @> is containment: the document on the left
						// must contain the JSON fragment on the right.
						Label: "1-3", Title: "Count rows containing skill2, no index.",
						Func: func(ctx context.Context, tx *lesson.Tx) error {
							rs, took, err := tx.Timed(ctx, containsSkill2)
							if err != nil {
								return err
							}
							tx.Render("Rows matched (no index)", rs)
							tx.Printf("Time without index: %s\n", took)
							return nil
						},
					},
					{
						Label: "1-4", Title: "Create GIN index and repeat.",
						SQL: []string{`
							CREATE INDEX idx_aj_data
							ON avengers_json
							USING GIN (data jsonb_path_ops);`},
						Func: func(ctx context.Context, tx *lesson.Tx) error {
							_, took, err := tx.Timed(ctx, containsSkill2)
							if err != nil {
								return err
							}
							tx.Printf("Time with GIN index: %s\n", took)
							return nil
						},
					},
				},
			},
			{
				Title: "Full text search kept fresh by a trigger",
				Steps: []lesson.Step{
					{
						Label: "2-1", Title: "Recreate articles with a tsvector column.",
						SQL: []string{
							`DROP TABLE IF EXISTS articles CASCADE;`,
							`
							CREATE TABLE articles (
								id       SERIAL PRIMARY KEY,
								title    TEXT,
								body     TEXT,
								document TSVECTOR
							);`,
						},
					},
					{
						Label: "2-2", Title: "Insert seed articles.",
						Batch: &lesson.Batch{
							SQL: `INSERT INTO articles (title, body) VALUES (?, ?);`,
							Rows: [][]any{
								{"AI in Avengers", "Iron Man created JARVIS using artificial intelligence."},
								{"The Hulk Explained", "Bruce Banner transforms into the Hulk after gamma radiation."},
								{"Wakanda Tech", "Black Panther uses advanced technology in Wakanda."},
								{"AI Ethics", "Discussion around AI ethics and its role in society."},
								{"Thor and Mythology", "Thor is based on Norse mythology and wields a hammer."},
							},
						},
					},
					{
						Label: "2-3", Title: "Populate documents and index them.",
						SQL: []string{
							`
							UPDATE articles
							SET document = to_tsvector('english', title || ' ' || body);`,
							`
							CREATE INDEX idx_articles_doc
							ON articles
							USING GIN (document);`,
						},
					},
					{
						// The trigger rebuilds NEW.document from NEW
						// values, so search stays correct without a
						// manual UPDATE after every write.
						Label: "2-4", Title: "Install the tsvector maintenance trigger.",
						SQL: []string{
							`DROP FUNCTION IF EXISTS trg_update_document();`,
							`
							CREATE FUNCTION trg_update_document()
							RETURNS trigger AS $$
							BEGIN
								NEW.document := to_tsvector('english', NEW.title || ' ' || NEW.body);
								RETURN NEW;
							END$$
							LANGUAGE plpgsql;`,
							`
							CREATE TRIGGER tsvector_update
							BEFORE INSERT OR UPDATE ON articles
							FOR EACH ROW EXECUTE FUNCTION trg_update_document();`,
						},
					},
					{
						Label: "2-5", Title: "Ranked search for 'AI'.",
						Show: []lesson.Query{
							{Title: "[FTS] Article list",
								SQL: `SELECT id, title FROM articles ORDER BY id;`},
							{Title: "[FTS] Search 'AI' results", SQL: searchAI},
						},
					},
					{
						Label: "2-6", Title: "Insert a new article, trigger fires.",
						SQL: []string{`
							INSERT INTO articles (title, body)
							VALUES ('New AI breakthrough',
							        'Revolutionary AI surpasses human intelligence.');`},
						Show: []lesson.Query{
							{Title: "[FTS] Results after insert (trigger ran)", SQL: searchAI},
						},
					},
				},
			},
		},

		Cleanup: []string{
			`DROP TABLE IF EXISTS avengers_json;`,
			`DROP TABLE IF EXISTS articles CASCADE;`,
			`DROP FUNCTION IF EXISTS trg_update_document();`,
		},
	}
}
