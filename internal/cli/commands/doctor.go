package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/sqlcoach/internal/state"
)

// featureProbe is a read-only query that succeeds only when the
// server supports the feature a lesson depends on.
type featureProbe struct {
	Group   string
	Name    string
	Lessons string
	SQL     string
}

var postgresProbes = []featureProbe{
	{
		Group:   "document storage",
		Name:    "jsonb containment",
		Lessons: "json-fts",
		SQL:     `SELECT '{"a": 1}'::jsonb @> '{"a": 1}'::jsonb;`,
	},
	{
		Group:   "document storage",
		Name:    "full text search",
		Lessons: "json-fts",
		SQL:     `SELECT to_tsvector('english', 'probe') @@ plainto_tsquery('english', 'probe');`,
	},
	{
		Group:   "analytics",
		Name:    "percentile aggregates",
		Lessons: "analytics",
		SQL:     `SELECT PERCENTILE_CONT(0.5) WITHIN GROUP (ORDER BY x) FROM (VALUES (1.0), (2.0)) AS t(x);`,
	},
	{
		Group:   "data types",
		Name:    "uuid type",
		Lessons: "uuid-matview",
		SQL:     `SELECT 'a0eebc99-9c0b-4ef8-bb6d-6bb9bd380a11'::uuid;`,
	},
	{
		Group:   "views",
		Name:    "materialized views",
		Lessons: "uuid-matview",
		SQL:     `SELECT 1 FROM pg_matviews LIMIT 0;`,
	},
	{
		Group:   "procedural",
		Name:    "plpgsql triggers",
		Lessons: "json-fts, triggers-null-sort",
		SQL:     `SELECT 1 FROM pg_language WHERE lanname = 'plpgsql';`,
	},
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check target connectivity and lesson prerequisites",
		Long: `Connect to the configured target, report the server version, probe
the features the lessons depend on, and verify the run-history
database opens and migrates cleanly.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd)
		},
	}
}

func runDoctor(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	ctx := cmd.Context()

	r.Header(1, "sqlcoach doctor")

	failures := 0

	adp, tgt, disconnect, err := cmdCtx.connectTarget(ctx, "")
	if err != nil {
		r.Error(fmt.Sprintf("[FAIL] target connection: %v", err))
		failures++
	} else {
		defer disconnect()
		r.Success(fmt.Sprintf("[ OK ] connected to %s target", tgt.Type))

		if version, verr := adp.ServerVersion(ctx); verr != nil {
			r.Warning(fmt.Sprintf("[WARN] server version unavailable: %v", verr))
		} else {
			r.Printf("       %s\n", version)
		}

		if adp.DialectName() == "postgres" {
			failures += probeFeatures(ctx, r.Printf, adp.DB())
		} else {
			r.Printf("       feature probes skipped (postgres-only lessons need a postgres target)\n")
		}
	}

	failures += checkStateStore(cmdCtx)
	return doctorVerdict(r.Printf, failures)
}

func probeFeatures(ctx context.Context, printf func(string, ...any), db *sqlx.DB) int {
	failures := 0
	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, p := range postgresProbes {
		if p.Group != currentGroup {
			currentGroup = p.Group
			printf("       %s\n", titleCaser.String(currentGroup))
		}
		probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		rows, err := db.QueryContext(probeCtx, p.SQL)
		cancel()
		if err != nil {
			printf("[FAIL] %s (needed by %s): %v\n", p.Name, p.Lessons, err)
			failures++
			continue
		}
		_ = rows.Close()
		printf("[ OK ] %s (needed by %s)\n", p.Name, p.Lessons)
	}
	return failures
}

func checkStateStore(cmdCtx *CommandContext) int {
	r := cmdCtx.Renderer

	store, closeStore, err := cmdCtx.openStateStore()
	if err != nil {
		r.Error(fmt.Sprintf("[FAIL] state database: %v", err))
		return 1
	}
	defer closeStore()

	// Open already ran migrations; confirm the version reads back.
	if _, err := state.Version(store.DB()); err != nil {
		r.Error(fmt.Sprintf("[FAIL] state migrations: %v", err))
		return 1
	}
	r.Success(fmt.Sprintf("[ OK ] state database at %s", store.Path()))
	return 0
}

func doctorVerdict(printf func(string, ...any), failures int) error {
	if failures > 0 {
		return fmt.Errorf("doctor found %d problems", failures)
	}
	printf("\nAll checks passed.\n")
	return nil
}
