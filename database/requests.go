package database

import (
	"time"

	"gorm.io/gorm"
)

type RequestLog struct {
	ID         uint      `gorm:"primarykey" json:"-"`
	RequestID  string    `gorm:"type:uuid;index" json:"request_id"`
	Method     string    `json:"method"`
	Path       string    `gorm:"index" json:"path"`
	Status     int       `json:"status"`
	DurationMs int64     `json:"duration_ms"`
	RemoteAddr string    `json:"remote_addr"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

type RequestCount struct {
	Path          string  `json:"path"`
	Status        int     `json:"status"`
	Count         int64   `json:"count"`
	AvgDurationMs float64 `json:"avg_duration_ms"`
}

// RequestRecorder persists served requests. It satisfies the recorder
// expected by the server's recording middleware.
type RequestRecorder struct {
	DB *gorm.DB
}

func (r *RequestRecorder) Record(entry RequestLog) error {
	return RecordRequest(r.DB, entry)
}

func RecordRequest(db *gorm.DB, entry RequestLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	entry.CreatedAt = entry.CreatedAt.UTC()
	return db.Create(&entry).Error
}

// RequestSummary groups recorded requests by path and status.
// A zero since includes every row.
func RequestSummary(db *gorm.DB, since time.Time) ([]RequestCount, error) {
	q := db.Model(&RequestLog{}).
		Select("path, status, count(*) as count, avg(duration_ms) as avg_duration_ms")
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since.UTC())
	}

	counts := []RequestCount{}
	err := q.Group("path, status").Order("path, status").Scan(&counts).Error
	return counts, err
}

func PruneRequestsBefore(db *gorm.DB, cutoff time.Time) (int64, error) {
	r := db.Where("created_at < ?", cutoff.UTC()).Delete(&RequestLog{})
	return r.RowsAffected, r.Error
}
