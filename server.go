package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Request body limits for bulk loads and single course writes.
const (
	maxLoadBodySize   = 10 * 1024 * 1024
	maxCourseBodySize = 64 * 1024
)

type APIServer struct {
	h       *http.Server
	db      *CourseDB
	cfg     *Config
	members func() []string
}

func InitServer(cfg *Config, db *CourseDB, members func() []string) *APIServer {
	s := &APIServer{
		db:      db,
		cfg:     cfg,
		members: members,
	}
	s.h = &http.Server{
		Addr:    cfg.ListenAddress,
		Handler: s.Router(),
	}
	return s
}

func (s *APIServer) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/courses", s.listHandler).Methods(http.MethodGet)
	r.HandleFunc("/courses/show", s.showAllHandler).Methods(http.MethodGet)
	r.HandleFunc("/courses/load", s.loadHandler).Methods(http.MethodPost)
	r.HandleFunc("/courses/{crn}", s.getHandler).Methods(http.MethodGet)
	r.HandleFunc("/courses/{crn}", s.putHandler).Methods(http.MethodPut)
	r.HandleFunc("/stats", s.statsHandler).Methods(http.MethodGet)
	r.HandleFunc("/members", s.membersHandler).Methods(http.MethodGet)
	r.HandleFunc("/config", s.configHandler).Methods(http.MethodGet)
	r.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Start serves requests until Stop is called, in which case it returns
// nil.
func (s *APIServer) Start() error {
	log.Info("Starting server at " + s.h.Addr)
	if err := s.h.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "server failed")
	}
	return nil
}

func (s *APIServer) Stop(ctx context.Context) error {
	return s.h.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("Failed to write response: %v", err)
	}
}

func crnFromRequest(r *http.Request) (int, error) {
	crn, err := strconv.ParseInt(mux.Vars(r)["crn"], 10, 32)
	if err != nil {
		return 0, errors.Wrap(err, "invalid CRN")
	}
	return int(crn), nil
}

func (s *APIServer) listHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.db.Courses())
}

func (s *APIServer) showAllHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(strings.Join(s.db.ShowAll(), "")))
}

func (s *APIServer) getHandler(w http.ResponseWriter, r *http.Request) {
	crn, err := crnFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Infof("Server processing read request for CRN=%d", crn)
	c, err := s.db.Get(crn)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *APIServer) putHandler(w http.ResponseWriter, r *http.Request) {
	crn, err := crnFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Infof("Server processing write request for CRN=%d", crn)
	var c Course
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCourseBodySize)).Decode(&c); err != nil {
		http.Error(w, "invalid course: "+err.Error(), http.StatusBadRequest)
		return
	}
	c.CRN = crn
	if s.db.Put(c) {
		writeJSON(w, http.StatusOK, c)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *APIServer) loadHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("Server processing bulk load request")
	n, err := s.db.Load(http.MaxBytesReader(w, r.Body, maxLoadBodySize))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrMalformedRecord) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, map[string]interface{}{
			"loaded": n,
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"loaded": n})
}

func (s *APIServer) statsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.db.Stats())
}

func (s *APIServer) membersHandler(w http.ResponseWriter, r *http.Request) {
	members := []string{}
	if s.members != nil {
		members = s.members()
	}
	writeJSON(w, http.StatusOK, members)
}

func (s *APIServer) configHandler(w http.ResponseWriter, r *http.Request) {
	b, err := s.cfg.SerializeConfig()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func (s *APIServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
