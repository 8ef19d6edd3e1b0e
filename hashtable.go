package main

import "fmt"

// CourseTable is a fixed-size hash table of courses keyed by CRN. Each
// bucket is a chain of courses; a nil chain means nothing has hashed to
// that bucket yet. The bucket count never changes after construction.
//
// CourseTable does no locking of its own; see CourseDB.
type CourseTable struct {
	buckets [][]Course
	records int
}

// NewCourseTable creates a table sized for expectedCount records at
// DefaultLoadFactor.
func NewCourseTable(expectedCount int) *CourseTable {
	return NewCourseTableWithSize(TableSize(expectedCount, DefaultLoadFactor))
}

// NewCourseTableWithSize creates a table with exactly size buckets.
func NewCourseTableWithSize(size int) *CourseTable {
	if size <= 0 {
		panic(fmt.Sprintf("invalid course table size %d", size))
	}
	return &CourseTable{buckets: make([][]Course, size)}
}

// Add stores c, replacing any course with the same CRN. The new course
// always ends up at the tail of its chain. Add reports whether an
// existing course was replaced.
func (t *CourseTable) Add(c Course) bool {
	i := bucketIndex(c.CRN, len(t.buckets))
	chain := t.buckets[i]
	replaced := false
	for j, e := range chain {
		if e.CRN == c.CRN {
			chain = append(chain[:j], chain[j+1:]...)
			replaced = true
			break
		}
	}
	t.buckets[i] = append(chain, c)
	if !replaced {
		t.records++
	}
	return replaced
}

// Get returns the course stored under crn, or a *NotFoundError.
func (t *CourseTable) Get(crn int) (Course, error) {
	for _, c := range t.buckets[bucketIndex(crn, len(t.buckets))] {
		if c.CRN == crn {
			return c, nil
		}
	}
	return Course{}, &NotFoundError{CRN: crn}
}

// Elements returns a copy of every stored course, in bucket order and
// then chain order.
func (t *CourseTable) Elements() []Course {
	elements := make([]Course, 0, t.records)
	for _, chain := range t.buckets {
		elements = append(elements, chain...)
	}
	return elements
}

// ShowAll formats every stored course, in the same order as Elements.
func (t *CourseTable) ShowAll() []string {
	lines := make([]string, 0, t.records)
	for _, chain := range t.buckets {
		for _, c := range chain {
			lines = append(lines, c.String())
		}
	}
	return lines
}

// Size returns the number of buckets, not the number of courses.
func (t *CourseTable) Size() int {
	return len(t.buckets)
}

// Len returns the number of courses stored.
func (t *CourseTable) Len() int {
	return t.records
}

// ChainLengths returns the number of courses in each bucket.
func (t *CourseTable) ChainLengths() []int {
	lengths := make([]int, len(t.buckets))
	for i, chain := range t.buckets {
		lengths[i] = len(chain)
	}
	return lengths
}

// chainLength returns the number of courses sharing crn's bucket.
func (t *CourseTable) chainLength(crn int) int {
	return len(t.buckets[bucketIndex(crn, len(t.buckets))])
}
