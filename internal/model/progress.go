package model

import "time"

// ProgressRecord is the canonical status of one job as seen by pollers
type ProgressRecord struct {
	JobID      string    `json:"download_id"`
	Phase      Phase     `json:"status"`
	Percent    float64   `json:"percent"`
	Speed      string    `json:"speed"`
	ETA        string    `json:"eta"`
	Downloaded string    `json:"downloaded,omitempty"`
	Total      string    `json:"total,omitempty"`
	UpdatedAt  time.Time `json:"-"`
}

// UnknownProgress returns the sentinel record reported for unseen job ids
func UnknownProgress(jobID string) ProgressRecord {
	return ProgressRecord{
		JobID:   jobID,
		Phase:   PhaseUnknown,
		Percent: 0,
		Speed:   "-",
		ETA:     "-",
	}
}
