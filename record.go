package main

import "fmt"

// Course is a single course record. Records are never modified once
// stored; adding a course with an existing CRN replaces it.
type Course struct {
	ID         string `json:"id"`
	CRN        int    `json:"crn"`
	Credits    int    `json:"credits"`
	Room       string `json:"room"`
	Instructor string `json:"instructor"`
}

// String renders the course the way showAll listings expect, including
// the leading newline.
func (c Course) String() string {
	return fmt.Sprintf("\nCourse:%s CRN:%d Credits:%d Instructor:%s Room:%s",
		c.ID, c.CRN, c.Credits, c.Instructor, c.Room)
}
