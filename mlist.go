package main

import (
	"encoding/json"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/memberlist"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// retransmitMult scales how many times a course update is gossiped
// before it is dropped from the broadcast queue.
const retransmitMult = 3

// MemberList is a wrapper around the memberlist package that replicates
// courses to the other members of the cluster.
type MemberList struct {
	List     *memberlist.Memberlist
	delegate *CourseDelegate
}

func CreateMemberList(cfg GossipConfig, db *CourseDB) (*MemberList, error) {
	name := cfg.NodeName
	if name == "" {
		name = uuid.NewString()
	}

	// memberlist may ask for the node count before Create returns.
	var current atomic.Pointer[memberlist.Memberlist]
	m := &MemberList{}
	m.delegate = NewCourseDelegate(name, db, func() int {
		if list := current.Load(); list != nil {
			return list.NumMembers()
		}
		return 1
	})

	config := memberlist.DefaultLANConfig()
	config.Name = name
	config.BindAddr = cfg.BindAddress
	config.BindPort = cfg.BindPort
	config.AdvertisePort = cfg.BindPort
	config.Delegate = m.delegate
	config.LogOutput = logrus.StandardLogger().WriterLevel(logrus.DebugLevel)

	list, err := memberlist.Create(config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create member list")
	}
	current.Store(list)
	m.List = list
	db.OnAdd(m.delegate.QueueCourse)

	if len(cfg.Seeds) > 0 {
		joined, err := list.Join(cfg.Seeds)
		if err != nil {
			list.Shutdown()
			return nil, errors.Wrap(err, "failed to join cluster")
		}
		logrus.Infof("Node %s joined %d of %d seed nodes", name, joined, len(cfg.Seeds))
	}
	return m, nil
}

// Members returns the addresses of all live members, including this one.
func (m *MemberList) Members() []string {
	var members []string
	for _, member := range m.List.Members() {
		members = append(members, net.JoinHostPort(member.Addr.String(), strconv.Itoa(int(member.Port))))
	}
	return members
}

func (m *MemberList) Stop(timeout time.Duration) error {
	if err := m.List.Leave(timeout); err != nil {
		logrus.Warnf("Failed to leave cluster: %v", err)
	}
	return m.List.Shutdown()
}

// CourseDelegate implements memberlist.Delegate on top of a CourseDB.
type CourseDelegate struct {
	name       string
	db         *CourseDB
	broadcasts *memberlist.TransmitLimitedQueue
}

func NewCourseDelegate(name string, db *CourseDB, numNodes func() int) *CourseDelegate {
	return &CourseDelegate{
		name: name,
		db:   db,
		broadcasts: &memberlist.TransmitLimitedQueue{
			NumNodes:       numNodes,
			RetransmitMult: retransmitMult,
		},
	}
}

// QueueCourse schedules c to be gossiped to the other members.
func (d *CourseDelegate) QueueCourse(c Course) {
	msg, err := encodeAddCourse(d.name, c)
	if err != nil {
		logrus.Errorf("Failed to encode course with CRN %d: %v", c.CRN, err)
		return
	}
	d.broadcasts.QueueBroadcast(&courseBroadcast{crn: c.CRN, msg: msg})
}

func (d *CourseDelegate) NodeMeta(limit int) []byte {
	return []byte{}
}

func (d *CourseDelegate) NotifyMsg(b []byte) {
	msg, err := decodeMessage(b)
	if err != nil {
		logrus.Warnf("Dropping gossip message: %v", err)
		return
	}
	switch msg.Type {
	case ADD_COURSE:
		var c Course
		if err := json.Unmarshal(msg.Payload, &c); err != nil {
			logrus.Warnf("Dropping course from %s: %v", msg.Sender, err)
			return
		}
		logrus.Debugf("Applying course with CRN %d from %s", c.CRN, msg.Sender)
		d.db.apply(c)
	default:
		logrus.Infof("Unknown message type %d from %s", msg.Type, msg.Sender)
	}
}

func (d *CourseDelegate) GetBroadcasts(overhead, limit int) [][]byte {
	return d.broadcasts.GetBroadcasts(overhead, limit)
}

func (d *CourseDelegate) LocalState(join bool) []byte {
	b, err := encodeCourseState(d.name, d.db.Courses())
	if err != nil {
		logrus.Errorf("Failed to encode local state: %v", err)
		return nil
	}
	return b
}

// MergeRemoteState only fills in CRNs that are missing locally. Updates
// to existing courses arrive through broadcasts; applying a possibly
// older snapshot on top of them would undo them.
func (d *CourseDelegate) MergeRemoteState(buf []byte, join bool) {
	if len(buf) == 0 {
		return
	}
	msg, err := decodeMessage(buf)
	if err != nil || msg.Type != COURSE_STATE {
		logrus.Warnf("Ignoring remote state of %d bytes", len(buf))
		return
	}
	var state CourseStateMsg
	if err := json.Unmarshal(msg.Payload, &state); err != nil {
		logrus.Warnf("Ignoring remote state from %s: %v", msg.Sender, err)
		return
	}
	if merged := d.db.merge(state.Courses); merged > 0 {
		logrus.Infof("Merged %d courses from %s", merged, msg.Sender)
	}
}

type courseBroadcast struct {
	crn int
	msg []byte
}

// Invalidates reports whether b supersedes other, which is the case for
// an older update of the same course.
func (b *courseBroadcast) Invalidates(other memberlist.Broadcast) bool {
	o, ok := other.(*courseBroadcast)
	return ok && o.crn == b.crn
}

func (b *courseBroadcast) Message() []byte {
	return b.msg
}

func (b *courseBroadcast) Finished() {}
