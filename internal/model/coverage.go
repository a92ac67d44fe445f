package model

import "sort"

// BranchType is the only branch kind emitted for schema keywords.
const BranchType = "keyword"

// FunctionMapping describes a schema location reported as a function.
type FunctionMapping struct {
	Name string `json:"name"`
	Decl Range  `json:"decl"`
	Loc  Range  `json:"loc"`
	Line int    `json:"line"`
}

// BranchMapping describes a keyword that can pass or fail. Locations always
// holds two entries: index 0 is the failing outcome, index 1 the passing one.
type BranchMapping struct {
	Line      int     `json:"line"`
	Type      string  `json:"type"`
	Loc       Range   `json:"loc"`
	Locations []Range `json:"locations"`
}

// FileCoverage is the per-file coverage record in the istanbul layout.
type FileCoverage struct {
	Path         Path                       `json:"path"`
	StatementMap map[string]Range           `json:"statementMap"`
	FnMap        map[string]FunctionMapping `json:"fnMap"`
	BranchMap    map[string]BranchMapping   `json:"branchMap"`
	S            map[string]int             `json:"s"`
	F            map[string]int             `json:"f"`
	B            map[string][]int           `json:"b"`
}

// NewFileCoverage returns an empty record for path.
func NewFileCoverage(path Path) *FileCoverage {
	return &FileCoverage{
		Path:         path,
		StatementMap: map[string]Range{},
		FnMap:        map[string]FunctionMapping{},
		BranchMap:    map[string]BranchMapping{},
		S:            map[string]int{},
		F:            map[string]int{},
		B:            map[string][]int{},
	}
}

// AddStatement registers a statement with a zero hit count.
func (c *FileCoverage) AddStatement(id string, r Range) {
	c.StatementMap[id] = r
	c.S[id] = 0
}

// AddFunction registers a function with a zero hit count.
func (c *FileCoverage) AddFunction(id string, fn FunctionMapping) {
	c.FnMap[id] = fn
	c.F[id] = 0
}

// AddBranch registers a two-way branch with zero hit counts.
func (c *FileCoverage) AddBranch(id string, br BranchMapping) {
	c.BranchMap[id] = br
	c.B[id] = []int{0, 0}
}

// Clone returns a deep copy of the record.
func (c *FileCoverage) Clone() *FileCoverage {
	out := NewFileCoverage(c.Path)
	for k, v := range c.StatementMap {
		out.StatementMap[k] = v
	}

	for k, v := range c.FnMap {
		out.FnMap[k] = v
	}

	for k, v := range c.BranchMap {
		v.Locations = append([]Range(nil), v.Locations...)
		out.BranchMap[k] = v
	}

	for k, v := range c.S {
		out.S[k] = v
	}

	for k, v := range c.F {
		out.F[k] = v
	}

	for k, v := range c.B {
		out.B[k] = append([]int(nil), v...)
	}

	return out
}

// Merge adds the hit counts of other into c. Entries unknown to c are copied
// over so that records built from different runs can be combined.
func (c *FileCoverage) Merge(other *FileCoverage) {
	for k, v := range other.StatementMap {
		if _, ok := c.StatementMap[k]; !ok {
			c.StatementMap[k] = v
		}

		c.S[k] += other.S[k]
	}

	for k, v := range other.FnMap {
		if _, ok := c.FnMap[k]; !ok {
			c.FnMap[k] = v
		}

		c.F[k] += other.F[k]
	}

	for k, v := range other.BranchMap {
		if _, ok := c.BranchMap[k]; !ok {
			c.BranchMap[k] = v
		}

		counts := c.B[k]
		for len(counts) < len(other.B[k]) {
			counts = append(counts, 0)
		}

		for i, n := range other.B[k] {
			counts[i] += n
		}

		c.B[k] = counts
	}
}

// Summary counts the entries of the record and how many of them were hit.
func (c *FileCoverage) Summary() CoverageSummary {
	var sum CoverageSummary

	sum.Statements.Total = len(c.StatementMap)
	for k := range c.StatementMap {
		if c.S[k] > 0 {
			sum.Statements.Covered++
		}
	}

	sum.Functions.Total = len(c.FnMap)
	for k := range c.FnMap {
		if c.F[k] > 0 {
			sum.Functions.Covered++
		}
	}

	for k := range c.BranchMap {
		for _, n := range c.B[k] {
			sum.Branches.Total++

			if n > 0 {
				sum.Branches.Covered++
			}
		}
	}

	return sum
}

// Counter is a covered/total pair.
type Counter struct {
	Covered int
	Total   int
}

// Percent returns the covered ratio in percent. An empty counter is 100%.
func (c Counter) Percent() float64 {
	if c.Total == 0 {
		return 100
	}

	return float64(c.Covered) * 100 / float64(c.Total)
}

// CoverageSummary aggregates counters for statements, functions and branches.
type CoverageSummary struct {
	Statements Counter
	Functions  Counter
	Branches   Counter
}

// Add accumulates other into s.
func (s *CoverageSummary) Add(other CoverageSummary) {
	s.Statements.Covered += other.Statements.Covered
	s.Statements.Total += other.Statements.Total
	s.Functions.Covered += other.Functions.Covered
	s.Functions.Total += other.Functions.Total
	s.Branches.Covered += other.Branches.Covered
	s.Branches.Total += other.Branches.Total
}

// CoverageMap maps physical file paths to their coverage records.
type CoverageMap map[Path]*FileCoverage

// Paths returns the file paths of the map in sorted order.
func (cm CoverageMap) Paths() []Path {
	paths := make([]Path, 0, len(cm))
	for p := range cm {
		paths = append(paths, p)
	}

	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	return paths
}

// Merge folds every record of other into cm.
func (cm CoverageMap) Merge(other CoverageMap) {
	for path, rec := range other {
		if existing, ok := cm[path]; ok {
			existing.Merge(rec)
			continue
		}

		cm[path] = rec.Clone()
	}
}
