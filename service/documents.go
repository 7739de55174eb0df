package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"kuhp-analyzer-backend/models"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

// FileService is the slice of the Gemini client the document manager needs.
// *genai.Client satisfies it; tests substitute a fake.
type FileService interface {
	UploadFile(ctx context.Context, name string, r io.Reader, opts *genai.UploadFileOptions) (*genai.File, error)
	GetFile(ctx context.Context, name string) (*genai.File, error)
	DeleteFile(ctx context.Context, name string) error
}

// DocumentManager owns the two source documents and their remote handles.
// The handle pair is shared process-wide across all queries; the mutex
// guards it so a reload cannot race an in-flight attachment read.
type DocumentManager struct {
	mu     sync.RWMutex
	files  FileService
	docs   [2]*models.SourceDocument
	logger *zap.Logger
}

// NewDocumentManager prepares the old/new document pair in unuploaded state.
func NewDocumentManager(files FileService, oldPath, newPath string, logger *zap.Logger) *DocumentManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentManager{
		files: files,
		docs: [2]*models.SourceDocument{
			{
				Version:     models.VersionOld,
				DisplayName: filepath.Base(oldPath),
				LocalPath:   oldPath,
				State:       models.StateUnuploaded,
			},
			{
				Version:     models.VersionNew,
				DisplayName: filepath.Base(newPath),
				LocalPath:   newPath,
				State:       models.StateUnuploaded,
			},
		},
		logger: logger,
	}
}

// UploadAll uploads both documents to the File API, old first. A missing
// local file fails the whole call; readiness stays false.
func (m *DocumentManager) UploadAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, doc := range m.docs {
		if err := m.upload(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

func (m *DocumentManager) upload(ctx context.Context, doc *models.SourceDocument) error {
	f, err := os.Open(doc.LocalPath)
	if err != nil {
		doc.State = models.StateFailed
		return fmt.Errorf("%w: %s: %v", ErrUploadFailed, doc.LocalPath, err)
	}
	defer f.Close()

	doc.State = models.StateUploading
	remote, err := m.files.UploadFile(ctx, "", f, &genai.UploadFileOptions{
		DisplayName: doc.DisplayName,
		MIMEType:    mimeTypeFor(doc.LocalPath),
	})
	if err != nil {
		doc.State = models.StateFailed
		return fmt.Errorf("%w: %s: %v", ErrUploadFailed, doc.Version, err)
	}

	doc.RemoteName = remote.Name
	doc.RemoteURI = remote.URI
	doc.MIMEType = remote.MIMEType
	doc.UploadedAt = time.Now()
	doc.State = stateFromFile(remote)

	m.logger.Info("document uploaded",
		zap.String("version", string(doc.Version)),
		zap.String("remote_name", doc.RemoteName),
		zap.String("state", string(doc.State)))
	return nil
}

// WaitUntilActive polls the remote state of both documents until all are
// active or maxWait elapses. Timing out is not an error: readiness is
// advisory and generation is attempted regardless, with VerifyActive as the
// hard gate. Cancellation stops the poll promptly.
func (m *DocumentManager) WaitUntilActive(ctx context.Context, maxWait, pollInterval time.Duration) error {
	deadline := time.Now().Add(maxWait)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		if m.refreshStates(ctx) {
			return nil
		}
		if time.Now().After(deadline) {
			m.logger.Warn("documents not active after wait, continuing anyway",
				zap.Duration("max_wait", maxWait))
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// refreshStates re-queries every non-active document and reports whether
// all documents are active.
func (m *DocumentManager) refreshStates(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	allActive := true
	for _, doc := range m.docs {
		if doc.State == models.StateActive {
			continue
		}
		if doc.RemoteName == "" {
			allActive = false
			continue
		}
		remote, err := m.files.GetFile(ctx, doc.RemoteName)
		if err != nil {
			m.logger.Warn("file state query failed",
				zap.String("version", string(doc.Version)), zap.Error(err))
			allActive = false
			continue
		}
		doc.State = stateFromFile(remote)
		if doc.State != models.StateActive {
			allActive = false
		}
	}
	return allActive
}

// VerifyActive re-checks both documents immediately before a generation
// call and fails with ErrDocumentNotReady if any is not active. The caller
// aborts the attempt instead of calling the model blind.
func (m *DocumentManager) VerifyActive(ctx context.Context) error {
	m.refreshStates(ctx)

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, doc := range m.docs {
		if !doc.Ready() {
			return fmt.Errorf("%w: %s is %s", ErrDocumentNotReady, doc.Version, doc.State)
		}
	}
	return nil
}

// AttachmentParts returns the file attachments for a generation call, old
// document first. Callers place these strictly ahead of the instruction
// text.
func (m *DocumentManager) AttachmentParts() []genai.Part {
	m.mu.RLock()
	defer m.mu.RUnlock()

	parts := make([]genai.Part, 0, len(m.docs))
	for _, doc := range m.docs {
		parts = append(parts, genai.FileData{URI: doc.RemoteURI, MIMEType: doc.MIMEType})
	}
	return parts
}

// Reload discards both remote handles and re-runs upload and poll. The old
// remote files are deleted best-effort; the File API expires them anyway.
func (m *DocumentManager) Reload(ctx context.Context, maxWait, pollInterval time.Duration) error {
	m.mu.Lock()
	for _, doc := range m.docs {
		if doc.RemoteName != "" {
			if err := m.files.DeleteFile(ctx, doc.RemoteName); err != nil {
				m.logger.Warn("failed to delete remote file",
					zap.String("remote_name", doc.RemoteName), zap.Error(err))
			}
		}
		doc.RemoteName = ""
		doc.RemoteURI = ""
		doc.State = models.StateUnuploaded
	}
	var uploadErr error
	for _, doc := range m.docs {
		if uploadErr = m.upload(ctx, doc); uploadErr != nil {
			break
		}
	}
	m.mu.Unlock()

	if uploadErr != nil {
		return uploadErr
	}
	return m.WaitUntilActive(ctx, maxWait, pollInterval)
}

// AllActive reports whether both documents are currently usable, without
// touching the remote service.
func (m *DocumentManager) AllActive() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, doc := range m.docs {
		if !doc.Ready() {
			return false
		}
	}
	return true
}

// Snapshot returns a copy of both documents for status reporting.
func (m *DocumentManager) Snapshot() []models.SourceDocument {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.SourceDocument, len(m.docs))
	for i, doc := range m.docs {
		out[i] = *doc
	}
	return out
}

func stateFromFile(f *genai.File) models.DocumentState {
	switch f.State {
	case genai.FileStateActive:
		return models.StateActive
	case genai.FileStateFailed:
		return models.StateFailed
	default:
		return models.StateProcessing
	}
}

func mimeTypeFor(path string) string {
	switch filepath.Ext(path) {
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
