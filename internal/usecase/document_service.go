package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	domainerrors "github.com/clearviewcare/carehome-server/internal/domain/errors"
	domainRepo "github.com/clearviewcare/carehome-server/internal/domain/repository"
)

// ObjectStore abstracts the object storage backend the document tree
// lives in.
type ObjectStore interface {
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, string, error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// ObjectInfo describes one stored object.
type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
}

// DocumentService bridges the API to the per-entity document trees in
// object storage. Keys are laid out as {entity-type}/{entity-id}/{path};
// access to a tree requires the owning entity to be in the actor's scope.
type DocumentService struct {
	store        ObjectStore
	clientRepo   domainRepo.ClientRepository
	careHomeRepo domainRepo.CareHomeRepository
	scopes       *AccessScopeService
	audit        *AuditService
	presignTTL   time.Duration
	logger       *zap.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	store ObjectStore,
	clientRepo domainRepo.ClientRepository,
	careHomeRepo domainRepo.CareHomeRepository,
	scopes *AccessScopeService,
	audit *AuditService,
	presignTTL time.Duration,
	logger *zap.Logger,
) *DocumentService {
	if presignTTL <= 0 {
		presignTTL = 15 * time.Minute
	}
	return &DocumentService{
		store:        store,
		clientRepo:   clientRepo,
		careHomeRepo: careHomeRepo,
		scopes:       scopes,
		audit:        audit,
		presignTTL:   presignTTL,
		logger:       logger,
	}
}

// folderMarker is the zero-byte object that makes an empty folder visible
// in listings.
const folderMarker = ".keep"

// validateRelativePath rejects anything that could escape the entity's
// subtree. Paths are relative, slash-separated, with no empty or dot
// segments.
func validateRelativePath(rel string) error {
	if rel == "" {
		return nil
	}
	if strings.Contains(rel, "\\") {
		return domainerrors.NewValidationError("path must use forward slashes")
	}
	if strings.HasPrefix(rel, "/") {
		return domainerrors.NewValidationError("path must be relative")
	}
	for _, seg := range strings.Split(strings.TrimSuffix(rel, "/"), "/") {
		if seg == "" {
			return domainerrors.NewValidationError("path contains an empty segment")
		}
		if seg == "." || seg == ".." {
			return domainerrors.NewValidationError("path may not contain dot segments")
		}
	}
	return nil
}

// resolve checks the owning entity is in scope and returns the storage
// prefix for the entity's tree. Out-of-scope entities read as not found.
func (s *DocumentService) resolve(ctx context.Context, actor entity.Actor, entityType entity.DocumentEntityType, entityID uuid.UUID) (string, error) {
	if !entityType.Valid() {
		return "", domainerrors.NewValidationError("unknown document entity type %q", entityType)
	}

	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return "", err
	}

	switch entityType {
	case entity.DocumentEntityClient:
		if _, err := s.clientRepo.GetByID(ctx, scope, entityID); err != nil {
			return "", err
		}
	case entity.DocumentEntityCareHome:
		if _, err := s.careHomeRepo.GetByID(ctx, scope, entityID); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%s/%s/", entityType, entityID), nil
}

// List returns the entries directly under the given folder of an entity's
// document tree. Deeper objects are collapsed into their top-level folder.
func (s *DocumentService) List(ctx context.Context, actor entity.Actor, entityType entity.DocumentEntityType, entityID uuid.UUID, folder string) ([]entity.DocumentEntry, error) {
	if err := validateRelativePath(folder); err != nil {
		return nil, err
	}

	prefix, err := s.resolve(ctx, actor, entityType, entityID)
	if err != nil {
		return nil, err
	}
	if folder != "" {
		prefix += strings.TrimSuffix(folder, "/") + "/"
	}

	objects, err := s.store.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	entries := make([]entity.DocumentEntry, 0, len(objects))
	seenDirs := map[string]bool{}
	for _, obj := range objects {
		rel := strings.TrimPrefix(obj.Key, prefix)
		if rel == "" {
			continue
		}
		if idx := strings.Index(rel, "/"); idx >= 0 {
			dir := rel[:idx]
			if !seenDirs[dir] {
				seenDirs[dir] = true
				entries = append(entries, entity.DocumentEntry{
					Name:         dir,
					Type:         "dir",
					RelativePath: strings.TrimSuffix(folder, "/") + "/" + dir,
				})
			}
			continue
		}
		if rel == folderMarker {
			continue
		}
		entries = append(entries, entity.DocumentEntry{
			Name:         rel,
			Type:         "file",
			Size:         obj.Size,
			RelativePath: strings.TrimSuffix(folder, "/") + "/" + rel,
		})
	}

	for i := range entries {
		entries[i].RelativePath = strings.TrimPrefix(entries[i].RelativePath, "/")
	}
	return entries, nil
}

// CreateFolder creates an empty folder by writing a marker object.
func (s *DocumentService) CreateFolder(ctx context.Context, actor entity.Actor, entityType entity.DocumentEntityType, entityID uuid.UUID, folder string) error {
	if folder == "" {
		return domainerrors.NewValidationError("folder name is required")
	}
	if err := validateRelativePath(folder); err != nil {
		return err
	}

	prefix, err := s.resolve(ctx, actor, entityType, entityID)
	if err != nil {
		return err
	}

	key := prefix + strings.TrimSuffix(folder, "/") + "/" + folderMarker
	if err := s.store.Put(ctx, key, nil, "application/octet-stream"); err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}

	s.audit.Record(ctx, actor, string(entityType), entityID, "folder_created",
		"Document folder "+folder+" created", nil)
	return nil
}

// Upload stores a file in the entity's document tree. Content arrives
// base64-encoded from the transport layer.
func (s *DocumentService) Upload(ctx context.Context, actor entity.Actor, entityType entity.DocumentEntityType, entityID uuid.UUID, relPath, contentB64, contentType string) error {
	if relPath == "" || strings.HasSuffix(relPath, "/") {
		return domainerrors.NewValidationError("file path is required")
	}
	if err := validateRelativePath(relPath); err != nil {
		return err
	}

	body, err := base64.StdEncoding.DecodeString(contentB64)
	if err != nil {
		return domainerrors.NewValidationError("content is not valid base64")
	}

	prefix, err := s.resolve(ctx, actor, entityType, entityID)
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := prefix + relPath
	if err := s.store.Put(ctx, key, body, contentType); err != nil {
		return fmt.Errorf("failed to upload document: %w", err)
	}

	s.audit.Record(ctx, actor, string(entityType), entityID, "document_uploaded",
		"Document "+path.Base(relPath)+" uploaded", map[string]interface{}{
			"path": relPath,
			"size": len(body),
		})
	return nil
}

// Read fetches a stored file and classifies it for display. Text, image
// and pdf content come back base64-encoded; office documents come back as
// a signed download URL for an external viewer; everything else gets both
// omitted content and a download URL.
func (s *DocumentService) Read(ctx context.Context, actor entity.Actor, entityType entity.DocumentEntityType, entityID uuid.UUID, relPath string) (*entity.DocumentContent, error) {
	if relPath == "" || strings.HasSuffix(relPath, "/") {
		return nil, domainerrors.NewValidationError("file path is required")
	}
	if err := validateRelativePath(relPath); err != nil {
		return nil, err
	}

	prefix, err := s.resolve(ctx, actor, entityType, entityID)
	if err != nil {
		return nil, err
	}

	key := prefix + relPath
	body, contentType, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	content := &entity.DocumentContent{
		Name:      path.Base(relPath),
		MediaType: contentType,
		Viewer:    entity.ClassifyViewer(contentType),
		Size:      int64(len(body)),
	}

	switch content.Viewer {
	case entity.ViewerText, entity.ViewerImage, entity.ViewerPDF:
		content.ContentB64 = base64.StdEncoding.EncodeToString(body)
	default:
		url, err := s.store.PresignGet(ctx, key, s.presignTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to sign download url: %w", err)
		}
		content.DownloadURL = url
	}

	return content, nil
}
