package lesson

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
)

// Factory builds a fresh Lesson instance. Lessons are constructed per
// run because step closures may share state (timings captured in one
// section and compared in a later one).
type Factory func() *Lesson

var (
	registryMu sync.RWMutex
	factories  []Factory
	bySlug     = make(map[string]Factory)
	byNumber   = make(map[int]Factory)
)

// Register adds a lesson factory to the registry.
// Called by catalog lessons in their init() functions.
func Register(f Factory) {
	l := f()
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, dup := bySlug[l.Slug]; dup {
		panic(fmt.Sprintf("lesson: duplicate slug %q", l.Slug))
	}
	if _, dup := byNumber[l.Number]; dup {
		panic(fmt.Sprintf("lesson: duplicate number %d", l.Number))
	}
	factories = append(factories, f)
	bySlug[l.Slug] = f
	byNumber[l.Number] = f
}

// Get resolves a lesson by slug or by number ("3" and "03" both match
// lesson 3) and returns a fresh instance.
func Get(ref string) (*Lesson, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	if f, ok := bySlug[ref]; ok {
		return f(), true
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if f, ok := byNumber[n]; ok {
			return f(), true
		}
	}
	return nil, false
}

// All returns fresh instances of every registered lesson, ordered by
// number.
func All() []*Lesson {
	registryMu.RLock()
	defer registryMu.RUnlock()

	lessons := make([]*Lesson, 0, len(factories))
	for _, f := range factories {
		lessons = append(lessons, f())
	}
	sort.Slice(lessons, func(i, j int) bool {
		return lessons[i].Number < lessons[j].Number
	})
	return lessons
}
