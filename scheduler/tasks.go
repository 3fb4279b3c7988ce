package scheduler

import (
	"errors"
	"time"

	"datafeed/database"
	"datafeed/logging"
	"datafeed/storage"

	"gorm.io/gorm"
)

// Task represents a scheduled task
type Task struct {
	Name        string
	Description string
	Schedule    string
	Enabled     bool
	Handler     func() error
}

// DataMaintenanceTasks returns tasks related to the request log.
// Without a database there is nothing to maintain.
func DataMaintenanceTasks(DB *gorm.DB, retention time.Duration) []Task {
	return []Task{
		{
			Name:        "prune-request-log",
			Description: "Remove request log entries older than the retention",
			Schedule:    "0 * * * *", // hourly
			Enabled:     DB != nil && retention > 0,
			Handler: func() error {
				deleted, err := database.PruneRequestsBefore(DB, time.Now().Add(-retention))
				if err != nil {
					return err
				}
				log := logging.GetLogger("scheduler")
				log.Info().Int64("deleted", deleted).Msg("Pruned request log")
				return nil
			},
		},
	}
}

// DatasetTasks returns tasks that report on the served dataset.
func DatasetTasks(store *storage.Store) []Task {
	return []Task{
		{
			Name:        "dataset-check",
			Description: "Log presence and size of the dataset",
			Schedule:    "*/5 * * * *",
			Enabled:     store != nil,
			Handler: func() error {
				log := logging.GetLogger("scheduler")
				info, err := store.Stat()
				if errors.Is(err, storage.ErrNotFound) {
					log.Warn().Str("path", info.Path).Msg("Dataset is missing")
					return nil
				}
				if err != nil {
					return err
				}
				log.Info().
					Str("path", info.Path).
					Int64("size", info.Size).
					Time("modified_at", info.ModifiedAt).
					Msg("Dataset present")
				return nil
			},
		},
	}
}
