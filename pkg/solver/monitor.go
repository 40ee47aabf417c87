package solver

// monitor.go: statistics for solver backends

import (
	"fmt"
	"sync"
	"time"
)

// Stats holds statistics about the solving process.
type Stats struct {
	// Store statistics
	Assertions int // Formulas added
	Clauses    int // Clauses handed to the boolean engine
	Atoms      int // Distinct canonical atoms

	// Search statistics
	Checks          int           // Check calls
	BooleanSolves   int           // gini runs (native backends) or engine runs (z3)
	TheoryChecks    int           // Simplex feasibility decisions
	TheoryConflicts int           // Boolean models rejected by the theory
	Lemmas          int           // Conflict clauses learned from the theory
	CheckTime       time.Duration // Time spent inside Check
}

// String summarises the statistics on one line.
func (s Stats) String() string {
	return fmt.Sprintf("checks=%d solves=%d theory=%d conflicts=%d lemmas=%d atoms=%d clauses=%d time=%s",
		s.Checks, s.BooleanSolves, s.TheoryChecks, s.TheoryConflicts, s.Lemmas, s.Atoms, s.Clauses, s.CheckTime)
}

// Monitor collects Stats. It is safe for concurrent use so that a Check
// running in one goroutine can be observed from another.
type Monitor struct {
	mu         sync.Mutex
	stats      Stats
	checkStart time.Time
}

// NewMonitor creates an empty monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// Stats returns a copy of the current statistics.
func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// StartCheck marks the beginning of a Check.
func (m *Monitor) StartCheck() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.Checks++
	m.checkStart = time.Now()
}

// EndCheck marks the end of a Check.
func (m *Monitor) EndCheck() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.checkStart.IsZero() {
		m.stats.CheckTime += time.Since(m.checkStart)
		m.checkStart = time.Time{}
	}
}

// RecordAssertion records an added formula and the clauses it produced.
func (m *Monitor) RecordAssertion(clauses int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.Assertions++
	m.stats.Clauses += clauses
}

// RecordAtom records a newly seen canonical atom.
func (m *Monitor) RecordAtom() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.Atoms++
}

// RecordBooleanSolve records one run of the boolean engine.
func (m *Monitor) RecordBooleanSolve() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.BooleanSolves++
}

// RecordTheoryCheck records one feasibility decision.
func (m *Monitor) RecordTheoryCheck() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.TheoryChecks++
}

// RecordConflict records a rejected boolean model and its lemma.
func (m *Monitor) RecordConflict() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.TheoryConflicts++
	m.stats.Lemmas++
}
