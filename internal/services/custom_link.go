package services

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/wacatalog-backend/internal/catalog"
	"github.com/yungbote/wacatalog-backend/internal/catalog/entitlement"
	"github.com/yungbote/wacatalog-backend/internal/data/repos"
	types "github.com/yungbote/wacatalog-backend/internal/domain"
	"github.com/yungbote/wacatalog-backend/internal/platform/dbctx"
	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
)

type CustomLinkInput struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type CustomLinkPatch struct {
	Title OptionalString `json:"title"`
	URL   OptionalString `json:"url"`
}

// CustomLinkService manages the storefront's extra links. Creating and
// editing require the custom_links capability; listing and deleting do
// not, so a downgraded owner can still clean up.
type CustomLinkService interface {
	List(dbc dbctx.Context) ([]*types.CustomLink, error)
	Create(dbc dbctx.Context, in CustomLinkInput) (*types.CustomLink, error)
	Update(dbc dbctx.Context, id uuid.UUID, patch CustomLinkPatch) (*types.CustomLink, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type customLinkService struct {
	db       *gorm.DB
	log      *logger.Logger
	stores   repos.StoreRepo
	links    repos.CustomLinkRepo
	versions repos.CollectionVersionRepo
	now      func() time.Time
}

func NewCustomLinkService(
	db *gorm.DB,
	baseLog *logger.Logger,
	stores repos.StoreRepo,
	links repos.CustomLinkRepo,
	versions repos.CollectionVersionRepo,
) CustomLinkService {
	return &customLinkService{
		db:       db,
		log:      baseLog.With("service", "CustomLinkService"),
		stores:   stores,
		links:    links,
		versions: versions,
		now:      time.Now,
	}
}

func (s *customLinkService) List(dbc dbctx.Context) ([]*types.CustomLink, error) {
	store, err := ownerStore(dbc, s.stores)
	if err != nil {
		return nil, err
	}
	return s.links.ListByStore(dbc, store.ID)
}

func (s *customLinkService) Create(dbc dbctx.Context, in CustomLinkInput) (*types.CustomLink, error) {
	store, err := ownerStore(dbc, s.stores)
	if err != nil {
		return nil, err
	}
	if err := requireCapability(capabilities(store, s.now()), entitlement.CustomLinks); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", catalog.ErrValidation)
	}
	link, err := normalizeLinkURL(in.URL)
	if err != nil {
		return nil, err
	}

	l := &types.CustomLink{StoreID: store.ID, Title: title, URL: link}
	err = inTx(dbc, s.db, func(inner dbctx.Context) error {
		order, err := s.links.NextDisplayOrder(inner, store.ID)
		if err != nil {
			return err
		}
		l.DisplayOrder = order
		if _, err := s.links.Create(inner, l); err != nil {
			return err
		}
		return touchScope(inner, s.versions, store.ID, types.CollectionCustomLinks, types.ScopeRoot)
	})
	if err != nil {
		return nil, fmt.Errorf("create custom link: %w", err)
	}
	return l, nil
}

func (s *customLinkService) Update(dbc dbctx.Context, id uuid.UUID, patch CustomLinkPatch) (*types.CustomLink, error) {
	store, err := ownerStore(dbc, s.stores)
	if err != nil {
		return nil, err
	}
	if err := requireCapability(capabilities(store, s.now()), entitlement.CustomLinks); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if patch.Title.Set {
		title := strings.TrimSpace(patch.Title.Or(""))
		if title == "" {
			return nil, fmt.Errorf("%w: title is required", catalog.ErrValidation)
		}
		updates["title"] = title
	}
	if patch.URL.Set {
		link, err := normalizeLinkURL(patch.URL.Or(""))
		if err != nil {
			return nil, err
		}
		updates["url"] = link
	}
	if err := s.links.UpdateFields(dbc, store.ID, id, updates); err != nil {
		return nil, fmt.Errorf("update custom link: %w", err)
	}
	l, err := s.links.GetByID(dbc, store.ID, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, fmt.Errorf("custom link %s: %w", id, catalog.ErrNotFound)
	}
	return l, nil
}

func (s *customLinkService) Delete(dbc dbctx.Context, id uuid.UUID) error {
	store, err := ownerStore(dbc, s.stores)
	if err != nil {
		return err
	}
	err = inTx(dbc, s.db, func(inner dbctx.Context) error {
		if err := s.links.Delete(inner, store.ID, id); err != nil {
			return err
		}
		rest, err := s.links.ListByStore(inner, store.ID)
		if err != nil {
			return err
		}
		if err := compact(linkItems(rest), func(lid uuid.UUID, order int) error {
			return s.links.UpdateDisplayOrder(inner, store.ID, lid, order)
		}); err != nil {
			return err
		}
		return touchScope(inner, s.versions, store.ID, types.CollectionCustomLinks, types.ScopeRoot)
	})
	if err != nil {
		return fmt.Errorf("delete custom link: %w", err)
	}
	return nil
}

// normalizeLinkURL accepts http(s) URLs and bare hosts, which get https.
func normalizeLinkURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: url is required", catalog.ErrValidation)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("%w: invalid url %q", catalog.ErrValidation, raw)
	}
	return u.String(), nil
}
