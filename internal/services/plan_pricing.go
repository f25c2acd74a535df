package services

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/wacatalog-backend/internal/catalog/entitlement"
	"github.com/yungbote/wacatalog-backend/internal/catalog/pricing"
	"github.com/yungbote/wacatalog-backend/internal/clients/billing"
	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
)

//go:embed plan_prices.yaml
var fallbackPlanPricesYAML []byte

const (
	PriceSourceBilling  = "billing"
	PriceSourceCache    = "cache"
	PriceSourceFallback = "static"
)

type PlanPriceCache interface {
	Load(ctx context.Context, dst interface{}) (bool, error)
	Store(ctx context.Context, v interface{}) error
}

type PlanPriceView struct {
	billing.PlanPrice
	FormattedPrice string   `json:"formatted_price"`
	Features       []string `json:"features"`
}

type PlanPriceTable struct {
	Plans    []PlanPriceView `json:"plans"`
	Source   string          `json:"source"`
	Degraded bool            `json:"degraded"`
}

type PlanPricingService interface {
	// Prices never fails outright: when billing is unreachable it serves the
	// last cached table, then the built-in one, and marks the result degraded.
	Prices(ctx context.Context) (*PlanPriceTable, error)
}

type planPricingService struct {
	log      *logger.Logger
	source   billing.PriceSource
	cache    PlanPriceCache
	fallback []billing.PlanPrice
	timeout  time.Duration
}

func NewPlanPricingService(baseLog *logger.Logger, source billing.PriceSource, cache PlanPriceCache) (PlanPricingService, error) {
	fallback, err := parsePlanPrices(fallbackPlanPricesYAML)
	if err != nil {
		return nil, fmt.Errorf("embedded plan prices: %w", err)
	}
	return &planPricingService{
		log:      baseLog.With("service", "PlanPricingService"),
		source:   source,
		cache:    cache,
		fallback: fallback,
		timeout:  3 * time.Second,
	}, nil
}

func parsePlanPrices(raw []byte) ([]billing.PlanPrice, error) {
	var doc struct {
		Plans []billing.PlanPrice `yaml:"plans"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if len(doc.Plans) == 0 {
		return nil, fmt.Errorf("no plans")
	}
	return doc.Plans, nil
}

func (s *planPricingService) Prices(ctx context.Context) (*PlanPriceTable, error) {
	if s.source != nil {
		fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
		plans, err := s.source.PlanPrices(fetchCtx)
		cancel()
		if err == nil {
			if s.cache != nil {
				if cerr := s.cache.Store(ctx, plans); cerr != nil {
					s.log.Warn("Plan price cache write failed", "error", cerr)
				}
			}
			return s.table(plans, PriceSourceBilling, false), nil
		}
		s.log.Warn("Billing price source unavailable", "error", err)
	}

	if s.cache != nil {
		var cached []billing.PlanPrice
		ok, err := s.cache.Load(ctx, &cached)
		if err != nil {
			s.log.Warn("Plan price cache read failed", "error", err)
		}
		if ok && len(cached) > 0 {
			return s.table(cached, PriceSourceCache, true), nil
		}
	}

	return s.table(s.fallback, PriceSourceFallback, true), nil
}

func (s *planPricingService) table(plans []billing.PlanPrice, source string, degraded bool) *PlanPriceTable {
	out := &PlanPriceTable{Source: source, Degraded: degraded}
	for _, p := range plans {
		plan := entitlement.ParsePlan(p.Plan)
		caps := entitlement.Resolve(plan, false, nil, time.Time{})
		var features []string
		for _, c := range entitlement.AllCapabilities() {
			if caps.Has(c) {
				features = append(features, c.String())
			}
		}
		sort.Strings(features)
		if features == nil {
			features = []string{}
		}
		out.Plans = append(out.Plans, PlanPriceView{
			PlanPrice:      p,
			FormattedPrice: pricing.Format(pricing.Round2(p.MonthlyPrice)),
			Features:       features,
		})
	}
	return out
}
