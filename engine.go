package main

import (
	"io"
	"sort"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// DefaultExpectedCourses is the expected record count used when no
// better estimate is configured.
const DefaultExpectedCourses = 20

// CourseDB is the entry point for storing and listing courses. It owns a
// CourseTable and serializes access to it, so it may be shared between
// the HTTP server and the gossip delegate.
type CourseDB struct {
	mu           sync.RWMutex
	table        *CourseTable
	longestChain int
	observers    []func(Course)
}

// TableStats summarizes how courses are spread over the buckets.
type TableStats struct {
	Size            int `json:"size"`
	Courses         int `json:"courses"`
	NonEmptyBuckets int `json:"non_empty_buckets"`
	LongestChain    int `json:"longest_chain"`
}

func NewCourseDB(expectedCount int) *CourseDB {
	return newCourseDB(NewCourseTable(expectedCount))
}

func NewCourseDBWithSize(size int) *CourseDB {
	return newCourseDB(NewCourseTableWithSize(size))
}

func newCourseDB(t *CourseTable) *CourseDB {
	registerCourseMetrics()
	log.Debugf("Created course table with %d buckets", t.Size())
	return &CourseDB{table: t}
}

// OnAdd registers a function that is called with every course stored
// through Add, Put or a load. Courses applied with apply are not
// reported.
func (db *CourseDB) OnAdd(f func(Course)) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.observers = append(db.observers, f)
}

// Add stores a course built from its fields.
func (db *CourseDB) Add(id string, crn, credits int, room, instructor string) {
	db.Put(Course{
		ID:         id,
		CRN:        crn,
		Credits:    credits,
		Room:       room,
		Instructor: instructor,
	})
}

// Put stores c, replacing any course with the same CRN, and reports
// whether a course was replaced.
func (db *CourseDB) Put(c Course) bool {
	replaced, observers := db.put(c)
	for _, f := range observers {
		f(c)
	}
	return replaced
}

// apply stores c without notifying observers.
func (db *CourseDB) apply(c Course) bool {
	replaced, _ := db.put(c)
	return replaced
}

func (db *CourseDB) put(c Course) (bool, []func(Course)) {
	db.mu.Lock()
	defer db.mu.Unlock()

	replaced := db.table.Add(c)
	if replaced {
		coursesAdded.WithLabelValues("replaced").Inc()
		log.Debugf("Replaced course with CRN %d", c.CRN)
	} else {
		coursesAdded.WithLabelValues("inserted").Inc()
	}
	coursesStored.Set(float64(db.table.Len()))
	if l := db.table.chainLength(c.CRN); l > db.longestChain {
		db.longestChain = l
		longestChain.Set(float64(l))
	}
	return replaced, db.observers
}

// Get returns the course stored under crn. A missing course yields an
// error matching ErrCourseNotFound.
func (db *CourseDB) Get(crn int) (Course, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	c, err := db.table.Get(crn)
	if err != nil {
		courseLookups.WithLabelValues("not_found").Inc()
		return Course{}, errors.Wrapf(err, "error fetching CRN %d", crn)
	}
	courseLookups.WithLabelValues("found").Inc()
	return c, nil
}

// Courses returns a snapshot of all courses ordered by CRN, highest
// first.
func (db *CourseDB) Courses() []Course {
	db.mu.RLock()
	courses := db.table.Elements()
	db.mu.RUnlock()

	sort.SliceStable(courses, func(i, j int) bool {
		return courses[i].CRN > courses[j].CRN
	})
	return courses
}

// ShowAll formats all courses ordered by CRN, highest first.
func (db *CourseDB) ShowAll() []string {
	courses := db.Courses()
	lines := make([]string, 0, len(courses))
	for _, c := range courses {
		lines = append(lines, c.String())
	}
	return lines
}

// Load stores every course read from r and returns how many were read.
func (db *CourseDB) Load(r io.Reader) (int, error) {
	return loadCourses(r, db.Put)
}

// LoadFile stores every course read from the file at path.
func (db *CourseDB) LoadFile(path string) (int, error) {
	return loadCourseFile(path, db.Put)
}

// Stats returns a summary of the table layout.
func (db *CourseDB) Stats() TableStats {
	db.mu.RLock()
	defer db.mu.RUnlock()

	s := TableStats{
		Size:    db.table.Size(),
		Courses: db.table.Len(),
	}
	for _, l := range db.table.ChainLengths() {
		if l > 0 {
			s.NonEmptyBuckets++
		}
		if l > s.LongestChain {
			s.LongestChain = l
		}
	}
	return s
}

// merge stores those of courses whose CRN is not present yet, without
// notifying observers, and returns how many were stored.
func (db *CourseDB) merge(courses []Course) int {
	db.mu.Lock()
	defer db.mu.Unlock()

	merged := 0
	for _, c := range courses {
		if _, err := db.table.Get(c.CRN); err == nil {
			continue
		}
		db.table.Add(c)
		coursesAdded.WithLabelValues("merged").Inc()
		if l := db.table.chainLength(c.CRN); l > db.longestChain {
			db.longestChain = l
			longestChain.Set(float64(l))
		}
		merged++
	}
	coursesStored.Set(float64(db.table.Len()))
	return merged
}
