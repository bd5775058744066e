package model

// Phase represents where a job currently is in its lifecycle
type Phase string

const (
	// PhaseStarting means the job was registered but no transfer event arrived yet
	PhaseStarting Phase = "starting"

	// PhaseDownloading means the fetch collaborator is transferring bytes
	PhaseDownloading Phase = "downloading"

	// PhaseProcessing means the raw fetch finished and post-processing is pending
	PhaseProcessing Phase = "processing"

	// PhasePostProcessing means trim and/or convert stages are running
	PhasePostProcessing Phase = "post-processing"

	// PhaseCompressing means only the compress stage is running
	PhaseCompressing Phase = "compressing"

	// PhaseComplete means the final artifact is ready
	PhaseComplete Phase = "complete"

	// PhaseError means the job failed
	PhaseError Phase = "error"

	// PhaseUnknown is reported for job ids the tracker has never seen
	PhaseUnknown Phase = "unknown"
)

// String returns the string representation of Phase
func (p Phase) String() string {
	return string(p)
}

// IsActive returns true if the job is still doing work
func (p Phase) IsActive() bool {
	switch p {
	case PhaseStarting, PhaseDownloading, PhaseProcessing, PhasePostProcessing, PhaseCompressing:
		return true
	}
	return false
}

// IsFinished returns true if the job reached a terminal phase (complete or error)
func (p Phase) IsFinished() bool {
	return p == PhaseComplete || p == PhaseError
}
