package main

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// LeaveTimeout bounds how long a node waits to announce that it leaves
// the cluster.
const LeaveTimeout = 3 * time.Second

// Node ties together the course database, the HTTP API and, when gossip
// is enabled, the member list.
type Node struct {
	Config *Config
	DB     *CourseDB
	MList  *MemberList
	Server *APIServer
}

func StartNode(cfg *Config) (*Node, error) {
	n := &Node{
		Config: cfg,
		DB:     NewCourseDBWithSize(cfg.TableSize()),
	}
	if cfg.Gossip.Enabled {
		mlist, err := CreateMemberList(cfg.Gossip, n.DB)
		if err != nil {
			return nil, err
		}
		n.MList = mlist
	}
	n.Server = InitServer(cfg, n.DB, n.Members)
	log.Infof("Node started with %d buckets", n.DB.Stats().Size)
	return n, nil
}

// Members returns the addresses of the cluster members, or nothing when
// gossip is disabled.
func (n *Node) Members() []string {
	if n.MList == nil {
		return nil
	}
	return n.MList.Members()
}

func (n *Node) Stop(ctx context.Context) error {
	err := n.Server.Stop(ctx)
	if n.MList != nil {
		if mErr := n.MList.Stop(LeaveTimeout); mErr != nil && err == nil {
			err = mErr
		}
	}
	return err
}
