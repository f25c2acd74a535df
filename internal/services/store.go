package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/wacatalog-backend/internal/catalog"
	"github.com/yungbote/wacatalog-backend/internal/catalog/aggregate"
	"github.com/yungbote/wacatalog-backend/internal/catalog/entitlement"
	"github.com/yungbote/wacatalog-backend/internal/data/repos"
	types "github.com/yungbote/wacatalog-backend/internal/domain"
	"github.com/yungbote/wacatalog-backend/internal/platform/dbctx"
	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
)

// StoreProfile is the owner's view of their store: the raw row plus the
// resolved capability map the dashboard uses to enable controls.
type StoreProfile struct {
	Store         *types.Store    `json:"store"`
	EffectivePlan string          `json:"effective_plan"`
	Features      map[string]bool `json:"features"`
	EditMode      string          `json:"edit_mode"`
}

type StoreSettingsPatch struct {
	StoreName             OptionalString `json:"store_name"`
	StoreURL              OptionalString `json:"store_url"`
	WhatsAppNumber        OptionalString `json:"whatsapp_number"`
	WhatsAppMessage       OptionalString `json:"whatsapp_message"`
	Bio                   OptionalString `json:"bio"`
	AvatarURL             OptionalString `json:"avatar_url"`
	CatalogVisible        OptionalBool   `json:"catalog_visible"`
	ShowAllProductsInFeed OptionalBool   `json:"show_all_products_in_feed"`
	CatalogTheme          OptionalString `json:"catalog_theme"`
	CatalogLayout         OptionalString `json:"catalog_layout"`
	CustomBackground      OptionalJSON   `json:"custom_background"`
	HideFooter            OptionalBool   `json:"hide_footer"`
}

type StoreService interface {
	Profile(dbc dbctx.Context) (*StoreProfile, error)
	UpdateSettings(dbc dbctx.Context, patch StoreSettingsPatch) (*StoreProfile, error)
	CanAccessFeature(dbc dbctx.Context, key string) (bool, error)
}

type storeService struct {
	db     *gorm.DB
	log    *logger.Logger
	stores repos.StoreRepo
	editor EditorService
	now    func() time.Time
}

func NewStoreService(db *gorm.DB, baseLog *logger.Logger, stores repos.StoreRepo, editorSvc EditorService) StoreService {
	return &storeService{
		db:     db,
		log:    baseLog.With("service", "StoreService"),
		stores: stores,
		editor: editorSvc,
		now:    time.Now,
	}
}

var (
	storeURLPattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{1,38}[a-z0-9])$`)
	validLayouts    = map[string]struct{}{aggregate.DefaultLayout: {}, "grid": {}}
)

func (s *storeService) Profile(dbc dbctx.Context) (*StoreProfile, error) {
	store, err := ownerStore(dbc, s.stores)
	if err != nil {
		return nil, err
	}
	return s.profile(dbc, store), nil
}

func (s *storeService) profile(dbc dbctx.Context, store *types.Store) *StoreProfile {
	caps := capabilities(store, s.now())
	mode := "viewing"
	if s.editor != nil {
		if session, err := s.editor.Session(dbc.Ctx); err == nil {
			mode = string(session.Mode())
		}
	}
	return &StoreProfile{
		Store:         store,
		EffectivePlan: string(caps.EffectivePlan),
		Features:      caps.Map(),
		EditMode:      mode,
	}
}

// UpdateSettings applies patch after checking every gated field against the
// store's capabilities. Resetting a gated field to its default is always
// allowed so a downgraded owner can clean up.
func (s *storeService) UpdateSettings(dbc dbctx.Context, patch StoreSettingsPatch) (*StoreProfile, error) {
	store, err := ownerStore(dbc, s.stores)
	if err != nil {
		return nil, err
	}
	caps := capabilities(store, s.now())
	updates := map[string]interface{}{}

	if patch.StoreName.Set {
		name := patch.StoreName.Or("")
		if name == "" {
			return nil, fmt.Errorf("%w: store_name is required", catalog.ErrValidation)
		}
		updates["store_name"] = name
	}
	if patch.WhatsAppNumber.Set {
		updates["whatsapp_number"] = normalizePhone(patch.WhatsAppNumber.Or(""))
	}
	if patch.AvatarURL.Set {
		updates["avatar_url"] = patch.AvatarURL.Or("")
	}
	if patch.CatalogVisible.Set && patch.CatalogVisible.Value != nil {
		updates["catalog_visible"] = *patch.CatalogVisible.Value
	}
	if patch.ShowAllProductsInFeed.Set && patch.ShowAllProductsInFeed.Value != nil {
		updates["show_all_products_in_feed"] = *patch.ShowAllProductsInFeed.Value
	}

	if patch.WhatsAppMessage.Set {
		msg := patch.WhatsAppMessage.Or("")
		if msg != "" {
			if err := requireCapability(caps, entitlement.CustomWhatsAppMessage); err != nil {
				return nil, err
			}
		}
		updates["whatsapp_message"] = msg
	}
	if patch.Bio.Set {
		bio := patch.Bio.Or("")
		if bio != "" {
			if err := requireCapability(caps, entitlement.BioMessage); err != nil {
				return nil, err
			}
		}
		updates["bio"] = bio
	}
	if patch.CatalogLayout.Set {
		layout := strings.ToLower(patch.CatalogLayout.Or(aggregate.DefaultLayout))
		if _, ok := validLayouts[layout]; !ok {
			return nil, fmt.Errorf("%w: unknown catalog_layout %q", catalog.ErrValidation, layout)
		}
		if layout != aggregate.DefaultLayout {
			if err := requireCapability(caps, entitlement.GridLayout); err != nil {
				return nil, err
			}
		}
		updates["catalog_layout"] = layout
	}
	if patch.CatalogTheme.Set {
		theme := strings.ToLower(patch.CatalogTheme.Or(aggregate.DefaultTheme))
		if theme != aggregate.DefaultTheme {
			if err := requireCapability(caps, entitlement.CatalogTheme); err != nil {
				return nil, err
			}
		}
		updates["catalog_theme"] = theme
	}
	if patch.CustomBackground.Set {
		if patch.CustomBackground.Value == nil || isEmptyJSON(*patch.CustomBackground.Value) {
			updates["custom_background"] = nil
		} else {
			if err := requireCapability(caps, entitlement.CustomBackground); err != nil {
				return nil, err
			}
			if !json.Valid(*patch.CustomBackground.Value) {
				return nil, fmt.Errorf("%w: custom_background is not valid JSON", catalog.ErrValidation)
			}
			updates["custom_background"] = datatypes.JSON(*patch.CustomBackground.Value)
		}
	}
	if patch.HideFooter.Set && patch.HideFooter.Value != nil {
		if *patch.HideFooter.Value {
			if err := requireCapability(caps, entitlement.HideFooter); err != nil {
				return nil, err
			}
		}
		updates["hide_footer"] = *patch.HideFooter.Value
	}
	if patch.StoreURL.Set {
		url := strings.ToLower(patch.StoreURL.Or(""))
		if url != store.StoreURL {
			if err := requireCapability(caps, entitlement.CustomStoreURL); err != nil {
				return nil, err
			}
			if !storeURLPattern.MatchString(url) {
				return nil, fmt.Errorf("%w: store_url must be 3-40 lowercase letters, digits or hyphens", catalog.ErrValidation)
			}
			taken, err := s.stores.URLTaken(dbc, url, store.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, fmt.Errorf("store_url %q already in use: %w", url, catalog.ErrConflict)
			}
			updates["store_url"] = url
		}
	}

	if len(updates) == 0 {
		return s.profile(dbc, store), nil
	}
	if err := s.stores.UpdateFields(dbc, store.ID, updates); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update store settings: %w", err)
	}
	s.log.Info("Store settings updated", "store_id", store.ID, "fields", len(updates))

	updated, err := s.stores.GetByID(dbc, store.ID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("store %s: %w", store.ID, catalog.ErrNotFound)
	}
	return s.profile(dbc, updated), nil
}

// CanAccessFeature answers the string-keyed capability check for the
// owner's store. Unknown keys are denied.
func (s *storeService) CanAccessFeature(dbc dbctx.Context, key string) (bool, error) {
	store, err := ownerStore(dbc, s.stores)
	if err != nil {
		return false, err
	}
	return entitlement.CanAccessFeature(storeState(store), key, s.now()), nil
}

func normalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isEmptyJSON(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("{}")) || bytes.Equal(t, []byte("null"))
}
