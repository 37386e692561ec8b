package domain

import "time"

// ProcessingStatus is the remote processing state reported after a video upload.
type ProcessingStatus string

const (
	ProcessingReady   ProcessingStatus = "ready"
	ProcessingFailed  ProcessingStatus = "failed"
	ProcessingTimeout ProcessingStatus = "processing_timeout"
)

// PostKind is what a publish call posted.
type PostKind string

const (
	PostText  PostKind = "text"
	PostImage PostKind = "image"
	PostVideo PostKind = "video"
)

// PublishResult is the outcome of one publish call. EventID is shared by the
// event bus message and the history row.
type PublishResult struct {
	EventID          string
	Success          bool
	Kind             PostKind
	Path             string
	RemoteID         string
	ErrorKind        ErrorKind
	Err              error
	RetryCount       int
	FileSize         int64
	ProcessingStatus ProcessingStatus
	Tracked          bool
	PublishedAt      time.Time
}

// Error returns the failure text, or "" on success.
func (r PublishResult) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// PublishEvent is emitted on the event bus for every publish outcome.
type PublishEvent struct {
	ID               string           `json:"id"`
	Action           string           `json:"action"`
	Kind             PostKind         `json:"kind"`
	Path             string           `json:"path,omitempty"`
	Success          bool             `json:"success"`
	RemoteID         string           `json:"remote_id,omitempty"`
	ErrorKind        ErrorKind        `json:"error_kind,omitempty"`
	Error            string           `json:"error,omitempty"`
	RetryCount       int              `json:"retry_count"`
	ProcessingStatus ProcessingStatus `json:"processing_status,omitempty"`
	Timestamp        time.Time        `json:"timestamp"`
}
