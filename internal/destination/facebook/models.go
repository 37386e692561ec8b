package facebook

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Offset is a byte offset. The Graph API sends offsets as decimal strings,
// older fixtures send plain numbers; both decode.
type Offset int64

func (o *Offset) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*o = 0
		return nil
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}
	*o = Offset(v)
	return nil
}

// PostResponse is returned by the feed and photos edges.
type PostResponse struct {
	ID     string `json:"id"`
	PostID string `json:"post_id"`
}

// StartResponse is returned by upload_phase=start.
type StartResponse struct {
	VideoID         string `json:"video_id"`
	UploadSessionID string `json:"upload_session_id"`
	StartOffset     Offset `json:"start_offset"`
	EndOffset       Offset `json:"end_offset"`
}

// TransferResponse is returned by upload_phase=transfer and names the next
// range the server expects.
type TransferResponse struct {
	StartOffset Offset `json:"start_offset"`
	EndOffset   Offset `json:"end_offset"`
}

// FinishResponse is returned by upload_phase=finish.
type FinishResponse struct {
	Success bool   `json:"success"`
	VideoID string `json:"video_id"`
}

// StatusResponse is returned by GET /{video-id}?fields=status.
type StatusResponse struct {
	ID     string      `json:"id"`
	Status VideoStatus `json:"status"`
}

// VideoStatus accepts either {"video_status": "ready"} or a bare "ready".
type VideoStatus struct {
	VideoStatus string `json:"video_status"`
}

func (s *VideoStatus) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		s.VideoStatus = plain
		return nil
	}
	type alias VideoStatus
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*s = VideoStatus(a)
	return nil
}
