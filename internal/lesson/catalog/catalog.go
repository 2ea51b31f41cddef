// Package catalog registers the ten sqlcoach teaching lessons.
// Import it for side effects:
//
//	_ "github.com/leapstack-labs/sqlcoach/internal/lesson/catalog"
//
// Lesson SQL is deliberately plain and explicit. The goal is a
// transparent transcript a learner can follow statement by
// statement, not the shortest possible query.
package catalog
