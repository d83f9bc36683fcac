package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"jobboard_backend/internal/storage"
	"jobboard_backend/pkg/apperrors"

	"github.com/google/uuid"
)

// Document kinds, also used as the storage folder.
const (
	DocumentResume      = "resumes"
	DocumentCoverLetter = "cover_letters"
)

const defaultMaxDocumentSize = 5 << 20

var allowedDocumentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
}

// DocumentService stores application attachments.
type DocumentService interface {
	Save(ctx context.Context, kind string, file *multipart.FileHeader) (string, error)
	Delete(ctx context.Context, url string)
}

type documentService struct {
	storage storage.Storage
	maxSize int64
}

func NewDocumentService(store storage.Storage, maxSize int64) DocumentService {
	if maxSize <= 0 {
		maxSize = defaultMaxDocumentSize
	}
	return &documentService{storage: store, maxSize: maxSize}
}

// Save validates the upload and returns its public URL.
func (s *documentService) Save(ctx context.Context, kind string, file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", nil
	}
	if file.Size > s.maxSize {
		return "", apperrors.ValidationError(map[string]string{
			kind: fmt.Sprintf("File must be at most %d bytes", s.maxSize),
		})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType, ok := allowedDocumentTypes[ext]
	if !ok {
		return "", apperrors.ValidationError(map[string]string{
			kind: "Allowed file types: pdf, doc, docx, txt",
		})
	}

	src, err := file.Open()
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	defer src.Close()

	path := fmt.Sprintf("applications/%s/%s%s", kind, uuid.New().String(), ext)
	if err := s.storage.Save(ctx, path, src, contentType); err != nil {
		return "", apperrors.InternalError(err)
	}

	url, err := s.storage.GetURL(ctx, path)
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	return url, nil
}

// Delete removes a previously saved document. Failures are ignored because the
// database row is the source of truth.
func (s *documentService) Delete(ctx context.Context, url string) {
	path := documentPath(url)
	if path == "" {
		return
	}
	_ = s.storage.Delete(ctx, path)
}

func documentPath(url string) string {
	idx := strings.Index(url, "applications/")
	if idx < 0 {
		return ""
	}
	return url[idx:]
}
