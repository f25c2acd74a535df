package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/wacatalog-backend/internal/catalog/editor"
	"github.com/yungbote/wacatalog-backend/internal/data/repos"
	"github.com/yungbote/wacatalog-backend/internal/platform/ctxutil"
	"github.com/yungbote/wacatalog-backend/internal/platform/dbctx"
	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
)

// EditorStateStore persists the edit mode per owner. The Redis
// implementation expires idle sessions back to viewing.
type EditorStateStore interface {
	Mode(ctx context.Context, ownerID uuid.UUID) (string, error)
	SetMode(ctx context.Context, ownerID uuid.UUID, mode string) error
}

type EditorService interface {
	Session(ctx context.Context) (*editor.Session, error)
	SetEditing(dbc dbctx.Context, editing bool) (editor.Mode, error)
}

type editorService struct {
	log    *logger.Logger
	stores repos.StoreRepo
	state  EditorStateStore
}

func NewEditorService(baseLog *logger.Logger, stores repos.StoreRepo, state EditorStateStore) EditorService {
	if state == nil {
		state = NewMemoryEditorStateStore()
	}
	return &editorService{
		log:    baseLog.With("service", "EditorService"),
		stores: stores,
		state:  state,
	}
}

// Session loads the caller's edit-mode state machine. Anonymous callers
// and state lookup failures both read as Viewing.
func (s *editorService) Session(ctx context.Context) (*editor.Session, error) {
	ownerID := ctxutil.OwnerID(ctx)
	if ownerID == uuid.Nil {
		return editor.NewSession(editor.Viewing), nil
	}
	raw, err := s.state.Mode(ctx, ownerID)
	if err != nil {
		s.log.Warn("Editor state lookup failed", "owner_id", ownerID, "error", err)
		return editor.NewSession(editor.Viewing), err
	}
	return editor.NewSession(editor.ParseMode(raw)), nil
}

func (s *editorService) SetEditing(dbc dbctx.Context, editing bool) (editor.Mode, error) {
	ownerID := ctxutil.OwnerID(dbc.Ctx)
	isOwner := false
	if ownerID != uuid.Nil {
		store, err := s.stores.GetByOwnerID(dbc, ownerID)
		if err != nil {
			return editor.Viewing, err
		}
		isOwner = store != nil
	}

	session, err := s.Session(dbc.Ctx)
	if err != nil {
		return editor.Viewing, fmt.Errorf("load edit mode: %w", err)
	}
	want := editor.Viewing
	if editing {
		want = editor.Editing
	}
	mode, err := session.Set(isOwner, want)
	if err != nil {
		return mode, err
	}
	if err := s.state.SetMode(dbc.Ctx, ownerID, string(mode)); err != nil {
		return editor.Viewing, err
	}
	return mode, nil
}

type memoryEditorStateStore struct {
	mu    sync.Mutex
	modes map[uuid.UUID]string
}

// NewMemoryEditorStateStore keeps edit modes in process memory. It serves
// single-instance deployments without Redis.
func NewMemoryEditorStateStore() EditorStateStore {
	return &memoryEditorStateStore{modes: map[uuid.UUID]string{}}
}

func (m *memoryEditorStateStore) Mode(_ context.Context, ownerID uuid.UUID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.modes[ownerID], nil
}

func (m *memoryEditorStateStore) SetMode(_ context.Context, ownerID uuid.UUID, mode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modes[ownerID] = mode
	return nil
}
