// Package scheduler runs the daily content pre-generation jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/meuhoroscopo/backend/internal/horoscope"
	"github.com/meuhoroscopo/backend/internal/models"
	"github.com/rs/zerolog/log"
)

// Job represents a scheduled job.
type Job struct {
	Name     string
	Schedule Schedule
	Handler  func(ctx context.Context) error
	LastRun  time.Time
	NextRun  time.Time
}

// Schedule defines when a job should run.
type Schedule struct {
	// For fixed-interval jobs
	Interval time.Duration

	// For time-of-day jobs (in UTC)
	Hour   int
	Minute int

	// Type of schedule
	Type ScheduleType
}

// ScheduleType defines the type of schedule.
type ScheduleType string

const (
	ScheduleInterval ScheduleType = "interval"
	ScheduleDaily    ScheduleType = "daily"
)

// Scheduler manages the pre-generation jobs.
type Scheduler struct {
	service *horoscope.Service

	jobs    []*Job
	jobsMux sync.RWMutex

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a new scheduler. With warmCategories the daily job
// also pre-generates every category text, not just the general one.
func NewScheduler(service *horoscope.Service, warmCategories bool) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Scheduler{
		service: service,
		jobs:    make([]*Job, 0),
		ctx:     ctx,
		cancel:  cancel,
	}

	s.registerDefaultJobs(warmCategories)

	return s
}

// registerDefaultJobs sets up the pre-generation schedule. 03:10 UTC is
// shortly after midnight in São Paulo, so the day's content is warm
// before the first visitors arrive.
func (s *Scheduler) registerDefaultJobs(warmCategories bool) {
	s.AddJob(&Job{
		Name: "daily-pregeneration",
		Schedule: Schedule{
			Type:   ScheduleDaily,
			Hour:   3,
			Minute: 10,
		},
		Handler: s.pregenerateDaily,
	})

	if warmCategories {
		s.AddJob(&Job{
			Name: "category-pregeneration",
			Schedule: Schedule{
				Type:   ScheduleDaily,
				Hour:   3,
				Minute: 30,
			},
			Handler: s.pregenerateCategories,
		})
	}
}

// pregenerateDaily walks all signs and generates today's general text for
// any that do not have one yet.
func (s *Scheduler) pregenerateDaily(ctx context.Context) error {
	date := s.service.Today()
	failures := 0

	for _, sign := range models.Signs {
		if _, err := s.service.Daily(ctx, sign.Slug, date); err != nil {
			failures++
			log.Error().Err(err).Str("sign", sign.Slug).Str("date", date).Msg("Pre-generation failed")
			continue
		}
	}

	log.Info().
		Str("date", date).
		Int("signs", len(models.Signs)).
		Int("failures", failures).
		Msg("Daily pre-generation completed")

	if failures > 0 {
		return fmt.Errorf("pre-generation failed for %d of %d signs", failures, len(models.Signs))
	}
	return nil
}

// pregenerateCategories warms every (sign, category) pair for today.
func (s *Scheduler) pregenerateCategories(ctx context.Context) error {
	date := s.service.Today()
	failures := 0

	for _, sign := range models.Signs {
		for _, category := range models.Categories {
			if category.Name == models.CategoryGeral {
				continue
			}
			if _, err := s.service.Category(ctx, sign.Slug, category.Name, date); err != nil {
				failures++
				log.Error().Err(err).
					Str("sign", sign.Slug).
					Str("category", category.Name).
					Str("date", date).
					Msg("Category pre-generation failed")
			}
		}
	}

	log.Info().Str("date", date).Int("failures", failures).Msg("Category pre-generation completed")

	if failures > 0 {
		return fmt.Errorf("category pre-generation failed for %d pairs", failures)
	}
	return nil
}

// AddJob adds a job to the scheduler.
func (s *Scheduler) AddJob(job *Job) {
	s.jobsMux.Lock()
	defer s.jobsMux.Unlock()

	job.NextRun = s.calculateNextRun(job.Schedule)
	s.jobs = append(s.jobs, job)

	log.Info().
		Str("job", job.Name).
		Time("next_run", job.NextRun).
		Msg("Job registered")
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	log.Info().Int("jobs", len(s.jobs)).Msg("Starting scheduler")

	s.wg.Add(1)
	go s.jobLoop()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler")
	s.cancel()
	s.wg.Wait()
}

// jobLoop checks and runs scheduled jobs.
func (s *Scheduler) jobLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.checkAndRunJobs()
		}
	}
}

// checkAndRunJobs runs any jobs that are due.
func (s *Scheduler) checkAndRunJobs() {
	now := time.Now().UTC()

	s.jobsMux.Lock()
	defer s.jobsMux.Unlock()

	for _, job := range s.jobs {
		if now.After(job.NextRun) || now.Equal(job.NextRun) {
			go s.runJob(job)
			job.LastRun = now
			job.NextRun = s.calculateNextRun(job.Schedule)

			log.Debug().
				Str("job", job.Name).
				Time("next_run", job.NextRun).
				Msg("Job scheduled for next run")
		}
	}
}

// runJob executes a job.
func (s *Scheduler) runJob(job *Job) {
	log.Info().Str("job", job.Name).Msg("Running job")

	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	if err := job.Handler(ctx); err != nil {
		log.Error().Err(err).Str("job", job.Name).Msg("Job failed")
	} else {
		log.Info().Str("job", job.Name).Msg("Job completed")
	}
}

// calculateNextRun calculates the next run time for a schedule.
func (s *Scheduler) calculateNextRun(schedule Schedule) time.Time {
	now := time.Now().UTC()

	switch schedule.Type {
	case ScheduleInterval:
		return now.Add(schedule.Interval)

	case ScheduleDaily:
		next := time.Date(now.Year(), now.Month(), now.Day(),
			schedule.Hour, schedule.Minute, 0, 0, time.UTC)
		if next.Before(now) || next.Equal(now) {
			next = next.Add(24 * time.Hour)
		}
		return next

	default:
		return now.Add(time.Hour)
	}
}

// RunJobNow runs a specific job immediately by name.
func (s *Scheduler) RunJobNow(name string) error {
	s.jobsMux.RLock()
	defer s.jobsMux.RUnlock()

	for _, job := range s.jobs {
		if job.Name == name {
			go s.runJob(job)
			return nil
		}
	}

	return fmt.Errorf("unknown job: %s", name)
}

// GetJobStatus returns the status of all jobs.
func (s *Scheduler) GetJobStatus() []map[string]interface{} {
	s.jobsMux.RLock()
	defer s.jobsMux.RUnlock()

	status := make([]map[string]interface{}, len(s.jobs))
	for i, job := range s.jobs {
		status[i] = map[string]interface{}{
			"name":     job.Name,
			"last_run": job.LastRun,
			"next_run": job.NextRun,
		}
	}
	return status
}
