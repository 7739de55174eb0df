package models

import "time"

// DocumentVersion identifies which edition of the KUHP a document or chunk
// belongs to. The values double as the tags used in prompts and in the
// structured comparison output.
type DocumentVersion string

const (
	VersionOld DocumentVersion = "kuhp_lama"
	VersionNew DocumentVersion = "kuhp_baru"
)

// DocumentState represents the lifecycle of a source document on the
// Gemini File API.
type DocumentState string

const (
	StateUnuploaded DocumentState = "unuploaded"
	StateUploading  DocumentState = "uploading"
	StateProcessing DocumentState = "processing"
	StateActive     DocumentState = "active"
	StateFailed     DocumentState = "failed"
)

// SourceDocument represents one of the two KUHP editions. The remote fields
// are assigned by the File API once the upload is acknowledged and are
// invalidated on reload.
type SourceDocument struct {
	Version     DocumentVersion `json:"version"`
	DisplayName string          `json:"display_name"`
	LocalPath   string          `json:"local_path"`
	RemoteName  string          `json:"remote_name,omitempty"`
	RemoteURI   string          `json:"remote_uri,omitempty"`
	MIMEType    string          `json:"mime_type,omitempty"`
	State       DocumentState   `json:"state"`
	UploadedAt  time.Time       `json:"uploaded_at,omitempty"`
}

// Ready reports whether the document may be attached to a generation call.
func (d *SourceDocument) Ready() bool {
	return d != nil && d.State == StateActive
}

// TextChunk is a bounded window of a document's text, used by the chunked
// retrieval path. Chunks are immutable once created; the whole sequence for
// a document is regenerated on reload.
type TextChunk struct {
	Version DocumentVersion `json:"version"`
	Index   int             `json:"index"`
	Text    string          `json:"text"`
}
