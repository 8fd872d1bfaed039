// Package sched executes recurring maintenance jobs against instances. The
// sweep loop runs every 30 seconds; due actions take the same per-instance
// exclusive-operation lock as manual operator actions, so the two can never
// overlap their external-process steps.
package sched

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"rustpanel/internal/domain"
	"rustpanel/internal/gsm"
	"rustpanel/internal/persist"
	"rustpanel/internal/registry"
)

const sweepInterval = 30 * time.Second

// Scheduler owns the job set and the sweep loop.
type Scheduler struct {
	registry *registry.Registry
	gsm      *gsm.Controller
	store    *persist.Store

	mu   sync.RWMutex
	jobs []domain.Job
}

// New loads any persisted jobs and returns a scheduler ready to Run.
func New(reg *registry.Registry, ctrl *gsm.Controller, store *persist.Store) *Scheduler {
	return &Scheduler{
		registry: reg,
		gsm:      ctrl,
		store:    store,
		jobs:     store.LoadJobs(),
	}
}

// Run sweeps for due jobs until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx, time.Now().UTC())
		}
	}
}

// Sweep executes every enabled, due job once and persists the job set,
// whether or not anything fired. A failed action is logged only: the job
// stays enabled and keeps its next occurrence.
func (s *Scheduler) Sweep(ctx context.Context, now time.Time) {
	due := s.collectDue(now)

	for _, job := range due {
		log.Printf("executing scheduled job %q (%s) on %q", job.Name, job.Action, job.InstanceID)
		if err := s.execute(ctx, job); err != nil {
			log.Printf("scheduled job %q failed: %v", job.Name, err)
		}
		s.markRan(job.ID, now)
	}

	s.persist()
}

// collectDue fills in missing next_run values and returns copies of the
// jobs that are due at now.
func (s *Scheduler) collectDue(now time.Time) []domain.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []domain.Job
	for i := range s.jobs {
		job := &s.jobs[i]
		if !job.Enabled {
			continue
		}
		if job.NextRun == nil {
			if next, err := NextRun(job.Schedule, now); err == nil {
				job.NextRun = &next
			} else {
				continue
			}
		}
		if !now.Before(*job.NextRun) {
			due = append(due, *job)
		}
	}
	return due
}

func (s *Scheduler) markRan(id string, ranAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.jobs {
		if s.jobs[i].ID == id {
			ran := ranAt
			s.jobs[i].LastRun = &ran
			if next, err := NextRun(s.jobs[i].Schedule, ranAt); err == nil {
				s.jobs[i].NextRun = &next
			}
			return
		}
	}
}

// execute dispatches one action. Process-management actions hold the
// instance's exclusive-operation lock for their whole duration.
func (s *Scheduler) execute(ctx context.Context, job domain.Job) error {
	def, err := s.registry.Definition(job.InstanceID)
	if err != nil {
		return err
	}

	switch job.Action {
	case domain.ActionRestart, domain.ActionUpdate, domain.ActionBackup:
		return s.withOpLock(job.InstanceID, func() error {
			_, err := s.gsm.Command(ctx, def, string(job.Action))
			return err
		})

	case domain.ActionWipeMap:
		return s.withOpLock(job.InstanceID, func() error {
			_, err := s.gsm.Wipe(ctx, def, false, "")
			return err
		})

	case domain.ActionWipeFull:
		return s.withOpLock(job.InstanceID, func() error {
			_, err := s.gsm.Wipe(ctx, def, true, "")
			return err
		})

	case domain.ActionRconCommand:
		client, err := s.registry.Rcon(job.InstanceID)
		if err != nil {
			return err
		}
		_, err = client.Execute(ctx, job.Payload)
		return err

	case domain.ActionAnnounce:
		client, err := s.registry.Rcon(job.InstanceID)
		if err != nil {
			return err
		}
		message := job.Payload
		if message == "" {
			message = "Server announcement"
		}
		_, err = client.Say(ctx, message)
		return err
	}

	return fmt.Errorf("unknown action %q", job.Action)
}

func (s *Scheduler) withOpLock(instanceID string, fn func() error) error {
	lock, err := s.registry.OpLock(instanceID)
	if err != nil {
		return fmt.Errorf("instance not controllable: %w", err)
	}
	lock.Lock()
	defer lock.Unlock()
	return fn()
}

func (s *Scheduler) persist() {
	s.mu.RLock()
	jobs := make([]domain.Job, len(s.jobs))
	copy(jobs, s.jobs)
	s.mu.RUnlock()

	if err := s.store.SaveJobs(jobs); err != nil {
		log.Printf("could not persist schedules: %v", err)
	}
}

// CreateRequest is the payload for adding a job.
type CreateRequest struct {
	Name       string        `json:"name"`
	InstanceID string        `json:"instanceId"`
	Action     domain.Action `json:"action"`
	Schedule   string        `json:"schedule"`
	Payload    string        `json:"payload"`
	Enabled    *bool         `json:"enabled"`
}

// UpdateRequest patches an existing job; nil fields are left unchanged.
type UpdateRequest struct {
	Name     *string        `json:"name"`
	Action   *domain.Action `json:"action"`
	Schedule *string        `json:"schedule"`
	Payload  *string        `json:"payload"`
	Enabled  *bool          `json:"enabled"`
}

// Jobs returns a copy of all jobs.
func (s *Scheduler) Jobs() []domain.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Job, len(s.jobs))
	copy(out, s.jobs)
	return out
}

// Create validates and adds a job, persisting the set.
func (s *Scheduler) Create(req CreateRequest) (domain.Job, error) {
	if !domain.ValidAction(req.Action) {
		return domain.Job{}, fmt.Errorf("unknown action %q: %w", req.Action, domain.ErrInvalidOperation)
	}
	if _, err := s.registry.Definition(req.InstanceID); err != nil {
		return domain.Job{}, err
	}
	now := time.Now().UTC()
	next, err := NextRun(req.Schedule, now)
	if err != nil {
		return domain.Job{}, fmt.Errorf("%v: %w", err, domain.ErrInvalidOperation)
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	job := domain.Job{
		ID:         uuid.NewString(),
		Name:       req.Name,
		InstanceID: req.InstanceID,
		Action:     req.Action,
		Enabled:    enabled,
		Schedule:   req.Schedule,
		Payload:    req.Payload,
		NextRun:    &next,
		CreatedAt:  now,
	}

	s.mu.Lock()
	s.jobs = append(s.jobs, job)
	s.mu.Unlock()

	s.persist()
	return job, nil
}

// Update patches a job, recomputing next_run when the schedule changes.
func (s *Scheduler) Update(id string, req UpdateRequest) (domain.Job, error) {
	s.mu.Lock()
	var updated *domain.Job
	for i := range s.jobs {
		if s.jobs[i].ID != id {
			continue
		}
		job := &s.jobs[i]
		if req.Name != nil {
			job.Name = *req.Name
		}
		if req.Action != nil {
			if !domain.ValidAction(*req.Action) {
				s.mu.Unlock()
				return domain.Job{}, fmt.Errorf("unknown action %q: %w", *req.Action, domain.ErrInvalidOperation)
			}
			job.Action = *req.Action
		}
		if req.Schedule != nil {
			next, err := NextRun(*req.Schedule, time.Now().UTC())
			if err != nil {
				s.mu.Unlock()
				return domain.Job{}, fmt.Errorf("%v: %w", err, domain.ErrInvalidOperation)
			}
			job.Schedule = *req.Schedule
			job.NextRun = &next
		}
		if req.Payload != nil {
			job.Payload = *req.Payload
		}
		if req.Enabled != nil {
			job.Enabled = *req.Enabled
		}
		copied := *job
		updated = &copied
		break
	}
	s.mu.Unlock()

	if updated == nil {
		return domain.Job{}, fmt.Errorf("job %q: %w", id, domain.ErrNotFound)
	}
	s.persist()
	return *updated, nil
}

// Delete removes a job and persists the set.
func (s *Scheduler) Delete(id string) error {
	s.mu.Lock()
	idx := -1
	for i := range s.jobs {
		if s.jobs[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("job %q: %w", id, domain.ErrNotFound)
	}
	s.jobs = append(s.jobs[:idx], s.jobs[idx+1:]...)
	s.mu.Unlock()

	s.persist()
	return nil
}

// Toggle flips a job's enabled flag, recomputing next_run on enable.
func (s *Scheduler) Toggle(id string) (domain.Job, error) {
	s.mu.Lock()
	var toggled *domain.Job
	for i := range s.jobs {
		if s.jobs[i].ID != id {
			continue
		}
		job := &s.jobs[i]
		job.Enabled = !job.Enabled
		if job.Enabled {
			if next, err := NextRun(job.Schedule, time.Now().UTC()); err == nil {
				job.NextRun = &next
			}
		}
		copied := *job
		toggled = &copied
		break
	}
	s.mu.Unlock()

	if toggled == nil {
		return domain.Job{}, fmt.Errorf("job %q: %w", id, domain.ErrNotFound)
	}
	s.persist()
	return *toggled, nil
}
