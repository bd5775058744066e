package progress

import (
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/ytget/clipshr/internal/model"
)

// Tracker holds the progress record of every job seen by this process
type Tracker struct {
	records map[string]*model.ProgressRecord
	mutex   sync.RWMutex
	logger  hclog.Logger
	now     func() time.Time
}

// NewTracker creates an empty tracker
func NewTracker(logger hclog.Logger) *Tracker {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Tracker{
		records: make(map[string]*model.ProgressRecord),
		logger:  logger,
		now:     time.Now,
	}
}

// Start registers a job in the starting phase. It returns false, leaving the
// existing record untouched, when the id is already tracked.
func (t *Tracker) Start(jobID string) bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if _, ok := t.records[jobID]; ok {
		return false
	}
	t.records[jobID] = &model.ProgressRecord{
		JobID:     jobID,
		Phase:     model.PhaseStarting,
		Percent:   0,
		Speed:     ZeroSpeedLabel,
		ETA:       CalculatingLabel,
		UpdatedAt: t.now(),
	}
	return true
}

// Apply normalizes a raw fetch event into the job's record. Unknown statuses
// and events for unregistered jobs are dropped.
func (t *Tracker) Apply(jobID string, ev Event) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	rec, ok := t.records[jobID]
	if !ok {
		t.logger.Debug("dropping event for unknown job", "job_id", jobID, "status", ev.Status)
		return
	}
	if rec.Phase.IsFinished() {
		return
	}

	switch ev.Status {
	case StatusDownloading:
		percent := ev.Percent()
		// separate video and audio transfers restart at zero
		if rec.Phase == model.PhaseDownloading && percent < rec.Percent {
			percent = rec.Percent
		}
		rec.Phase = model.PhaseDownloading
		rec.Percent = percent
		rec.Speed = FormatSpeed(ev.SpeedBytesPerSec)
		rec.ETA = FormatETA(ev.ETASeconds)
		rec.Downloaded = sizeLabel(ev.DownloadedBytes)
		rec.Total = sizeLabel(ev.total())
	case StatusFinished:
		rec.Phase = model.PhaseProcessing
		rec.Percent = 100
		rec.Speed = CompleteSpeedLabel
		rec.ETA = ProcessingETALabel
	default:
		t.logger.Debug("ignoring progress event", "job_id", jobID, "status", ev.Status)
		return
	}
	rec.UpdatedAt = t.now()
}

// SetPhase moves a job to phase with the given ETA label
func (t *Tracker) SetPhase(jobID string, phase model.Phase, eta string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	rec, ok := t.records[jobID]
	if !ok {
		return
	}
	rec.Phase = phase
	rec.ETA = eta
	rec.UpdatedAt = t.now()
}

// Complete marks the job done at 100%
func (t *Tracker) Complete(jobID string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	rec, ok := t.records[jobID]
	if !ok {
		return
	}
	rec.Phase = model.PhaseComplete
	rec.Percent = 100
	rec.ETA = DoneETALabel
	rec.UpdatedAt = t.now()
}

// Fail marks the job as errored so pollers observe termination
func (t *Tracker) Fail(jobID string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	rec, ok := t.records[jobID]
	if !ok {
		return
	}
	rec.Phase = model.PhaseError
	rec.UpdatedAt = t.now()
}

// Get returns a copy of the job's record, or the unknown sentinel
func (t *Tracker) Get(jobID string) model.ProgressRecord {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	rec, ok := t.records[jobID]
	if !ok {
		return model.UnknownProgress(jobID)
	}
	return *rec
}

// Len returns the number of tracked jobs
func (t *Tracker) Len() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return len(t.records)
}

// Prune evicts finished records not updated within maxAge and returns how
// many were removed. Active jobs are never evicted.
func (t *Tracker) Prune(maxAge time.Duration) int {
	if maxAge <= 0 {
		return 0
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()

	cutoff := t.now().Add(-maxAge)
	removed := 0
	for id, rec := range t.records {
		if rec.Phase.IsActive() || rec.UpdatedAt.After(cutoff) {
			continue
		}
		delete(t.records, id)
		removed++
	}
	if removed > 0 {
		t.logger.Debug("pruned progress records", "removed", removed)
	}
	return removed
}
