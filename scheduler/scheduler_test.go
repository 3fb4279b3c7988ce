package scheduler

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"datafeed/database"
	"datafeed/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterTasks_SkipsDisabled(t *testing.T) {
	s := NewSchedulerService()

	require.NoError(t, s.RegisterTasks(DataMaintenanceTasks(nil, time.Hour)))
	assert.Empty(t, s.ListTasks())

	store, err := storage.New(t.TempDir(), storage.DefaultDataset)
	require.NoError(t, err)
	require.NoError(t, s.RegisterTasks(DatasetTasks(store)))

	tasks := s.ListTasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "dataset-check", tasks[0].Name)
}

func TestAddTask_Duplicate(t *testing.T) {
	s := NewSchedulerService()
	task := Task{Name: "noop", Schedule: "* * * * *", Enabled: true, Handler: func() error { return nil }}

	require.NoError(t, s.AddTask(task))
	assert.Error(t, s.AddTask(task))
}

func TestAddTask_InvalidSchedule(t *testing.T) {
	s := NewSchedulerService()
	task := Task{Name: "broken", Schedule: "not a cron", Enabled: true, Handler: func() error { return nil }}

	assert.Error(t, s.AddTask(task))
	assert.Empty(t, s.ListTasks())
}

func TestRunTaskNow_PrunesRequestLog(t *testing.T) {
	db, err := database.SetupDatabase("sqlite", filepath.Join(t.TempDir(), "requests.db"), false)
	require.NoError(t, err)
	defer database.Close(db)

	require.NoError(t, database.RecordRequest(db, database.RequestLog{Path: "/getData", Status: 200, CreatedAt: time.Now().Add(-48 * time.Hour)}))
	require.NoError(t, database.RecordRequest(db, database.RequestLog{Path: "/getData", Status: 200}))

	s := NewSchedulerService()
	require.NoError(t, s.RegisterTasks(DataMaintenanceTasks(db, 24*time.Hour)))
	require.NoError(t, s.RunTaskNow("prune-request-log"))

	counts, err := database.RequestSummary(db, time.Time{})
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, int64(1), counts[0].Count)
}

func TestRunTaskNow_DatasetCheck(t *testing.T) {
	store, err := storage.New(t.TempDir(), storage.DefaultDataset)
	require.NoError(t, err)

	s := NewSchedulerService()
	require.NoError(t, s.RegisterTasks(DatasetTasks(store)))

	// missing dataset is reported, not an error
	assert.NoError(t, s.RunTaskNow("dataset-check"))

	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0755))
	require.NoError(t, os.WriteFile(store.Path(), []byte(`{}`), 0644))
	assert.NoError(t, s.RunTaskNow("dataset-check"))
}

func TestRunTaskNow_Unknown(t *testing.T) {
	s := NewSchedulerService()
	assert.Error(t, s.RunTaskNow("missing"))
}
