package usecase_test

import (
	"context"
	"encoding/base64"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	domainerrors "github.com/clearviewcare/carehome-server/internal/domain/errors"
	"github.com/clearviewcare/carehome-server/internal/domain/model"
	"github.com/clearviewcare/carehome-server/internal/usecase"
)

func newDocumentService(t *testing.T, store *MockObjectStore, clients *MockClientRepository) *usecase.DocumentService {
	t.Helper()
	return usecase.NewDocumentService(store, clients, new(MockCareHomeRepository),
		newUnrestrictedScopes(), newAuditService(t), 15*time.Minute, zap.NewNop())
}

func TestDocumentService_PathValidation(t *testing.T) {
	ctx := context.Background()
	carer := entity.Actor{ID: uuid.New(), Role: model.RoleCarer}
	clientID := uuid.New()

	for _, bad := range []string{
		"../escape.txt",
		"notes/../../escape.txt",
		"/absolute.txt",
		"notes//double.txt",
		"notes\\windows.txt",
		"./dot.txt",
	} {
		t.Run("rejects "+bad, func(t *testing.T) {
			store := new(MockObjectStore)
			service := newDocumentService(t, store, new(MockClientRepository))

			_, err := service.Read(ctx, carer, entity.DocumentEntityClient, clientID, bad)

			assert.True(t, domainerrors.IsValidation(err))
			store.AssertNotCalled(t, "Get")
		})
	}
}

func TestDocumentService_List(t *testing.T) {
	ctx := context.Background()
	carer := entity.Actor{ID: uuid.New(), Role: model.RoleCarer}
	scope := entity.UnrestrictedScope()

	t.Run("nested objects collapse into folders", func(t *testing.T) {
		store := new(MockObjectStore)
		clients := new(MockClientRepository)
		service := newDocumentService(t, store, clients)

		clientID := uuid.New()
		prefix := fmt.Sprintf("clients/%s/", clientID)

		clients.On("GetByID", ctx, scope, clientID).Return(&model.Client{ID: clientID}, nil)
		store.On("List", ctx, prefix).Return([]usecase.ObjectInfo{
			{Key: prefix + "admission.pdf", Size: 1024},
			{Key: prefix + "photos/spring.jpg", Size: 2048},
			{Key: prefix + "photos/summer.jpg", Size: 4096},
			{Key: prefix + "photos/.keep"},
		}, nil)

		entries, err := service.List(ctx, carer, entity.DocumentEntityClient, clientID, "")

		assert.NoError(t, err)
		assert.Len(t, entries, 2)
		assert.Equal(t, "admission.pdf", entries[0].Name)
		assert.Equal(t, "file", entries[0].Type)
		assert.Equal(t, "photos", entries[1].Name)
		assert.Equal(t, "dir", entries[1].Type)
	})

	t.Run("folder markers hidden from listings", func(t *testing.T) {
		store := new(MockObjectStore)
		clients := new(MockClientRepository)
		service := newDocumentService(t, store, clients)

		clientID := uuid.New()
		prefix := fmt.Sprintf("clients/%s/notes/", clientID)

		clients.On("GetByID", ctx, scope, clientID).Return(&model.Client{ID: clientID}, nil)
		store.On("List", ctx, prefix).Return([]usecase.ObjectInfo{
			{Key: prefix + ".keep"},
			{Key: prefix + "visit.txt", Size: 100},
		}, nil)

		entries, err := service.List(ctx, carer, entity.DocumentEntityClient, clientID, "notes")

		assert.NoError(t, err)
		assert.Len(t, entries, 1)
		assert.Equal(t, "visit.txt", entries[0].Name)
		assert.Equal(t, "notes/visit.txt", entries[0].RelativePath)
	})

	t.Run("out-of-scope client reads as not found", func(t *testing.T) {
		store := new(MockObjectStore)
		clients := new(MockClientRepository)
		service := newDocumentService(t, store, clients)

		clientID := uuid.New()
		clients.On("GetByID", ctx, scope, clientID).Return(nil, domainerrors.ErrRecordNotFound)

		_, err := service.List(ctx, carer, entity.DocumentEntityClient, clientID, "")

		assert.ErrorIs(t, err, domainerrors.ErrRecordNotFound)
		store.AssertNotCalled(t, "List")
	})
}

func TestDocumentService_Read(t *testing.T) {
	ctx := context.Background()
	carer := entity.Actor{ID: uuid.New(), Role: model.RoleCarer}
	scope := entity.UnrestrictedScope()

	t.Run("text content is inlined", func(t *testing.T) {
		store := new(MockObjectStore)
		clients := new(MockClientRepository)
		service := newDocumentService(t, store, clients)

		clientID := uuid.New()
		key := fmt.Sprintf("clients/%s/notes/visit.txt", clientID)
		body := []byte("visited at noon")

		clients.On("GetByID", ctx, scope, clientID).Return(&model.Client{ID: clientID}, nil)
		store.On("Get", ctx, key).Return(body, "text/plain", nil)

		content, err := service.Read(ctx, carer, entity.DocumentEntityClient, clientID, "notes/visit.txt")

		assert.NoError(t, err)
		assert.Equal(t, entity.ViewerText, content.Viewer)
		assert.Equal(t, base64.StdEncoding.EncodeToString(body), content.ContentB64)
		assert.Empty(t, content.DownloadURL)
		store.AssertNotCalled(t, "PresignGet")
	})

	t.Run("office document returns a signed url", func(t *testing.T) {
		store := new(MockObjectStore)
		clients := new(MockClientRepository)
		service := newDocumentService(t, store, clients)

		clientID := uuid.New()
		key := fmt.Sprintf("clients/%s/report.docx", clientID)
		mime := "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

		clients.On("GetByID", ctx, scope, clientID).Return(&model.Client{ID: clientID}, nil)
		store.On("Get", ctx, key).Return([]byte{0x50, 0x4b}, mime, nil)
		store.On("PresignGet", ctx, key, 15*time.Minute).Return("https://signed.example/report.docx", nil)

		content, err := service.Read(ctx, carer, entity.DocumentEntityClient, clientID, "report.docx")

		assert.NoError(t, err)
		assert.Equal(t, entity.ViewerOffice, content.Viewer)
		assert.Empty(t, content.ContentB64)
		assert.Equal(t, "https://signed.example/report.docx", content.DownloadURL)
	})

	t.Run("missing object reads as not found", func(t *testing.T) {
		store := new(MockObjectStore)
		clients := new(MockClientRepository)
		service := newDocumentService(t, store, clients)

		clientID := uuid.New()
		key := fmt.Sprintf("clients/%s/gone.txt", clientID)

		clients.On("GetByID", ctx, scope, clientID).Return(&model.Client{ID: clientID}, nil)
		store.On("Get", ctx, key).Return(nil, "", domainerrors.ErrRecordNotFound)

		_, err := service.Read(ctx, carer, entity.DocumentEntityClient, clientID, "gone.txt")

		assert.ErrorIs(t, err, domainerrors.ErrRecordNotFound)
	})
}

func TestClassifyViewer(t *testing.T) {
	cases := map[string]entity.ViewerKind{
		"text/plain":               entity.ViewerText,
		"application/json":         entity.ViewerText,
		"image/png":                entity.ViewerImage,
		"application/pdf":          entity.ViewerPDF,
		"application/msword":       entity.ViewerOffice,
		"application/vnd.ms-excel": entity.ViewerOffice,
		"application/zip":          entity.ViewerBinary,
		"":                         entity.ViewerBinary,
	}

	for mime, want := range cases {
		assert.Equal(t, want, entity.ClassifyViewer(mime), mime)
	}
}
