package domain

// UploadStage is a step of the resumable upload protocol.
type UploadStage string

const (
	StageInit         UploadStage = "init"
	StageStarted      UploadStage = "started"
	StageTransferring UploadStage = "transferring"
	StageFinished     UploadStage = "finished"
	StageFailed       UploadStage = "failed"
)

// UploadSession tracks one in-flight upload. It is never persisted.
type UploadSession struct {
	SessionID        string
	VideoID          string
	TotalBytes       int64
	TransferredBytes int64
	Stage            UploadStage
}
