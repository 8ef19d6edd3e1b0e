package main

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Gossip messages are laid out as one type byte, the sender name padded
// to senderNameLength bytes, and a JSON payload.
const senderNameLength = 8

// Types of messages
const (
	ADD_COURSE byte = iota
	COURSE_STATE
)

// CourseStateMsg carries a full snapshot of a node's courses during a
// push/pull exchange.
type CourseStateMsg struct {
	Courses []Course `json:"courses"`
}

type gossipMessage struct {
	Type    byte
	Sender  string
	Payload []byte
}

func encodeMessage(mType byte, sender string, v interface{}) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal message payload")
	}
	b := make([]byte, 0, 1+senderNameLength+len(payload))
	b = append(b, mType)
	b = append(b, PadName(sender)...)
	b = append(b, payload...)
	return b, nil
}

func decodeMessage(b []byte) (gossipMessage, error) {
	if len(b) < 1+senderNameLength {
		return gossipMessage{}, errors.Errorf("message of %d bytes is too short", len(b))
	}
	return gossipMessage{
		Type:    b[0],
		Sender:  string(b[1 : 1+senderNameLength]),
		Payload: b[1+senderNameLength:],
	}, nil
}

func encodeAddCourse(sender string, c Course) ([]byte, error) {
	return encodeMessage(ADD_COURSE, sender, c)
}

func encodeCourseState(sender string, courses []Course) ([]byte, error) {
	return encodeMessage(COURSE_STATE, sender, CourseStateMsg{Courses: courses})
}

// PadName returns name as exactly senderNameLength bytes, left padded
// with zeros or truncated.
func PadName(name string) string {
	for len(name) < senderNameLength {
		name = "0" + name
	}
	return name[:senderNameLength]
}
