package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/repository"
	"labelstartup-backend/internal/security"
	"labelstartup-backend/internal/storage"
)

type UploadInput struct {
	StartupID    string
	DocumentType string
	Filename     string
	ContentType  string
}

type UploadResult struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	DocumentType string    `json:"document_type"`
	URL          string    `json:"url"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type SignedURL struct {
	URL       string    `json:"signedUrl"`
	ExpiresAt time.Time `json:"expires_at"`
}

type documentService struct {
	startupRepo  repository.StartupRepository
	store        storage.Storage
	allowedTypes map[string]bool
	urlExpiry    time.Duration
	now          func() time.Time
}

func NewDocumentService(startupRepo repository.StartupRepository, store storage.Storage, allowedTypes []string, urlExpiry time.Duration) DocumentService {
	allowed := make(map[string]bool, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[strings.ToLower(t)] = true
	}
	if urlExpiry <= 0 {
		urlExpiry = 5 * time.Minute
	}
	return &documentService{
		startupRepo:  startupRepo,
		store:        store,
		allowedTypes: allowed,
		urlExpiry:    urlExpiry,
		now:          time.Now,
	}
}

func (s *documentService) contentTypeAllowed(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return s.allowedTypes[strings.ToLower(mediaType)]
}

// Upload stores a startup document. Before submission the applicant uploads under the
// "draft" startup segment and the key is kept in the draft; afterwards the key is written
// into the startup's matching slot, or appended to its open list for "other".
func (s *documentService) Upload(ctx context.Context, session security.Session, in UploadInput, r io.Reader) (*UploadResult, error) {
	if err := session.RequireAuth(); err != nil {
		return nil, err
	}
	docType, ok := domain.ParseDocumentType(in.DocumentType)
	if !ok {
		return nil, domain.NewValidationError("document_type", "Type de document inconnu")
	}
	if !s.contentTypeAllowed(in.ContentType) {
		return nil, domain.NewValidationError("file", "Format de fichier non autorisé")
	}

	var startup *domain.Startup
	if in.StartupID != domain.DraftStartupSegment {
		st, err := s.startupRepo.GetByID(ctx, in.StartupID)
		if err != nil {
			return nil, err
		}
		if st.OwnerID != session.UserID {
			return nil, domain.ErrForbidden
		}
		startup = st
	}

	key := storage.DocumentKey(session.UserID, in.StartupID, string(docType), in.Filename, in.ContentType, s.now())
	size, err := s.store.Save(ctx, key, r)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) {
			return nil, domain.NewValidationError("file", "Le fichier dépasse la taille maximale autorisée")
		}
		return nil, fmt.Errorf("store document: %w", err)
	}

	if startup != nil {
		if !startup.Documents.Set(docType, key) {
			startup.OtherDocuments = append(startup.OtherDocuments, key)
		}
		if err := s.startupRepo.UpdateDocuments(ctx, startup); err != nil {
			if derr := s.store.Delete(ctx, key); derr != nil {
				logger.Warn("Failed to remove orphan document", "key", key, "error", derr)
			}
			return nil, fmt.Errorf("attach document: %w", err)
		}
	}

	url, expires, err := s.store.SignedURL(ctx, key, s.urlExpiry)
	if err != nil {
		return nil, err
	}
	logger.Info("Document uploaded", "key", key, "size", size, "userID", session.UserID)
	return &UploadResult{Key: key, Size: size, DocumentType: string(docType), URL: url, ExpiresAt: expires}, nil
}

// SignedURL is granted to the uploader and to reviewers.
func (s *documentService) SignedURL(ctx context.Context, session security.Session, key string) (*SignedURL, error) {
	if err := session.RequireAuth(); err != nil {
		return nil, err
	}
	if key == "" {
		return nil, domain.NewValidationError("path", "Chemin de fichier requis")
	}
	if storage.KeyOwner(key) != session.UserID && !session.Role.CanEvaluate() {
		return nil, domain.ErrForbidden
	}
	exists, _, err := s.store.Exists(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidKey) {
			return nil, domain.NewValidationError("path", "Chemin de fichier invalide")
		}
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("document %s: %w", key, domain.ErrNotFound)
	}
	url, expires, err := s.store.SignedURL(ctx, key, s.urlExpiry)
	if err != nil {
		return nil, err
	}
	return &SignedURL{URL: url, ExpiresAt: expires}, nil
}

func (s *documentService) Open(ctx context.Context, key string, expires int64, token string) (io.ReadCloser, error) {
	if err := s.store.Verify(key, expires, token); err != nil {
		return nil, domain.ErrForbidden
	}
	rc, err := s.store.Open(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return nil, fmt.Errorf("document %s: %w", key, domain.ErrNotFound)
		}
		return nil, err
	}
	return rc, nil
}
