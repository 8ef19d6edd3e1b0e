package main

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const courseFieldCount = 5

// parseCourse parses a line of the form
// "<id> <crn> <credits> <room> <instructor>".
func parseCourse(line string) (Course, error) {
	fields := strings.Fields(line)
	if len(fields) != courseFieldCount {
		return Course{}, errors.Errorf("expected %d fields, got %d", courseFieldCount, len(fields))
	}
	crn, err := strconv.ParseInt(fields[1], 10, 32)
	if err != nil {
		return Course{}, errors.Wrap(err, "invalid CRN")
	}
	credits, err := strconv.ParseInt(fields[2], 10, 32)
	if err != nil {
		return Course{}, errors.Wrap(err, "invalid credits")
	}
	return Course{
		ID:         fields[0],
		CRN:        int(crn),
		Credits:    int(credits),
		Room:       fields[3],
		Instructor: fields[4],
	}, nil
}

// loadCourses reads courses from r and hands each one to put as soon as
// it is parsed. Loading stops at the first malformed line; courses from
// earlier lines have already been stored by then.
func loadCourses(r io.Reader, put func(Course) bool) (int, error) {
	scanner := bufio.NewScanner(r)
	loaded := 0
	for line := 1; scanner.Scan(); line++ {
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		c, err := parseCourse(text)
		if err != nil {
			linesLoaded.WithLabelValues("malformed").Inc()
			return loaded, &MalformedRecordError{Line: line, Text: text, Err: err}
		}
		put(c)
		linesLoaded.WithLabelValues("ok").Inc()
		loaded++
	}
	if err := scanner.Err(); err != nil {
		return loaded, errors.Wrapf(err, "failed to read courses after %d records", loaded)
	}
	return loaded, nil
}

// loadCourseFile opens path and loads it with loadCourses.
func loadCourseFile(path string, put func(Course) bool) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrapf(ErrSourceUnavailable, "%s: %v", path, err)
	}
	defer f.Close()

	log.Infof("Loading courses from %s", path)
	n, err := loadCourses(f, put)
	if err != nil {
		return n, errors.Wrapf(err, "failed to load %s", path)
	}
	log.Infof("Loaded %d courses from %s", n, path)
	return n, nil
}
