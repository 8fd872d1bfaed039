// Package persist is the best-effort JSON file persistence for dynamic
// instance definitions and scheduled jobs. Files are rewritten whole after
// every mutation and reloaded at startup.
package persist

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"rustpanel/internal/domain"
)

const (
	serversFile   = "servers.json"
	schedulesFile = "schedules.json"
)

// Store reads and writes the JSON state files in one directory.
type Store struct {
	dir string
	mu  sync.Mutex
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// LoadInstances returns the persisted dynamic instance definitions. A
// missing or unparseable file yields an empty set; this store is advisory.
func (s *Store) LoadInstances() []domain.Instance {
	var defs []domain.Instance
	if err := s.load(serversFile, &defs); err != nil {
		log.Printf("could not load %s: %v", serversFile, err)
		return nil
	}
	return defs
}

// SaveInstances rewrites the dynamic definition set.
func (s *Store) SaveInstances(defs []domain.Instance) error {
	if defs == nil {
		defs = []domain.Instance{}
	}
	return s.save(serversFile, defs)
}

// LoadJobs returns the persisted scheduled jobs.
func (s *Store) LoadJobs() []domain.Job {
	var jobs []domain.Job
	if err := s.load(schedulesFile, &jobs); err != nil {
		log.Printf("could not load %s: %v", schedulesFile, err)
		return nil
	}
	return jobs
}

// SaveJobs rewrites the full job set.
func (s *Store) SaveJobs(jobs []domain.Job) error {
	if jobs == nil {
		jobs = []domain.Job{}
	}
	return s.save(schedulesFile, jobs)
}

func (s *Store) load(name string, target interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

func (s *Store) save(name string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
