package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/wacatalog-backend/internal/catalog"
	"github.com/yungbote/wacatalog-backend/internal/catalog/entitlement"
	"github.com/yungbote/wacatalog-backend/internal/data/repos"
	types "github.com/yungbote/wacatalog-backend/internal/domain"
	"github.com/yungbote/wacatalog-backend/internal/platform/ctxutil"
	"github.com/yungbote/wacatalog-backend/internal/platform/dbctx"
)

// ownerStore loads the store of the authenticated owner.
func ownerStore(dbc dbctx.Context, stores repos.StoreRepo) (*types.Store, error) {
	ownerID := ctxutil.OwnerID(dbc.Ctx)
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("%w: request is not authenticated", catalog.ErrForbidden)
	}
	store, err := stores.GetByOwnerID(dbc, ownerID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("store for owner: %w", catalog.ErrNotFound)
	}
	return store, nil
}

func capabilities(store *types.Store, now time.Time) entitlement.CapabilitySet {
	return entitlement.Resolve(
		entitlement.ParsePlan(store.SubscriptionPlan),
		store.IsVerified,
		store.SubscriptionExpiresAt,
		now,
	)
}

func storeState(store *types.Store) entitlement.StoreState {
	return entitlement.StoreState{
		Plan:       store.SubscriptionPlan,
		IsVerified: store.IsVerified,
		ExpiresAt:  store.SubscriptionExpiresAt,
	}
}

func requireCapability(caps entitlement.CapabilitySet, c entitlement.Capability) error {
	if !caps.Has(c) {
		return fmt.Errorf("%w: plan %s does not include %s", catalog.ErrForbidden, caps.EffectivePlan, c)
	}
	return nil
}
