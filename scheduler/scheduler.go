package scheduler

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"datafeed/logging"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
)

// SchedulerService manages all scheduled tasks
type SchedulerService struct {
	scheduler       *gocron.Scheduler
	logger          zerolog.Logger
	mu              sync.RWMutex
	registeredTasks map[string]Task
}

// NewSchedulerService creates a new scheduler service
func NewSchedulerService() *SchedulerService {
	// Create a scheduler with UTC timezone
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	return &SchedulerService{
		scheduler:       s,
		logger:          logging.GetLogger("scheduler"),
		registeredTasks: make(map[string]Task),
	}
}

// Start begins running the scheduler
func (s *SchedulerService) Start() {
	s.logger.Info().Msg("Starting scheduler service")
	s.scheduler.StartAsync()
}

// Stop halts all scheduled jobs
func (s *SchedulerService) Stop() {
	s.logger.Info().Msg("Stopping scheduler service")
	s.scheduler.Stop()
}

// RegisterTasks registers a group of tasks, skipping disabled ones
func (s *SchedulerService) RegisterTasks(tasks []Task) error {
	for _, task := range tasks {
		if !task.Enabled {
			s.logger.Debug().Str("task", task.Name).Msg("Skipping disabled task")
			continue
		}
		if err := s.AddTask(task); err != nil {
			return err
		}
	}
	return nil
}

// AddTask adds a new task to the scheduler
func (s *SchedulerService) AddTask(task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.registeredTasks[task.Name]; exists {
		return fmt.Errorf("task with name '%s' already exists", task.Name)
	}

	job, err := s.scheduler.Cron(task.Schedule).Do(func() {
		s.run(task)
	})
	if err != nil {
		return fmt.Errorf("schedule task %s: %w", task.Name, err)
	}
	job.Tag(task.Name)

	s.registeredTasks[task.Name] = task
	s.logger.Info().Str("task", task.Name).Str("schedule", task.Schedule).Msg("Registered task")
	return nil
}

func (s *SchedulerService) run(task Task) {
	s.logger.Debug().Str("task", task.Name).Msg(task.Description)
	if err := task.Handler(); err != nil {
		s.logger.Error().Err(err).Str("task", task.Name).Msg("Task failed")
		return
	}
	s.logger.Debug().Str("task", task.Name).Msg("Task completed")
}

// ListTasks returns all registered tasks sorted by name
func (s *SchedulerService) ListTasks() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]Task, 0, len(s.registeredTasks))
	for _, task := range s.registeredTasks {
		tasks = append(tasks, task)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Name < tasks[j].Name })
	return tasks
}

// RunTaskNow runs a task immediately by name
func (s *SchedulerService) RunTaskNow(name string) error {
	s.mu.RLock()
	task, exists := s.registeredTasks[name]
	s.mu.RUnlock()
	if !exists {
		return fmt.Errorf("task %s not found", name)
	}

	return task.Handler()
}
