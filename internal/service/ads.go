// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/olegiv/studentmarket-go/internal/model"
	"github.com/olegiv/studentmarket-go/internal/store"
)

// Cached listing data: keys and lifetime. Every entry is recomputable, so a
// short TTL plus invalidation on write keeps staleness bounded either way.
const (
	cacheKeyCategories = "categories"
	cacheKeyFrontPage  = "frontpage"
	listingCacheTTL    = 5 * time.Minute
)

// AdInput carries the caller-editable fields of an ad.
type AdInput struct {
	Title       string
	Description string
	Category    string
}

func (in AdInput) validate() error {
	if err := model.ValidateAdTitle(in.Title); err != nil {
		return err
	}
	if err := model.ValidateAdDescription(in.Description); err != nil {
		return err
	}
	return model.ValidateCategory(in.Category)
}

// CreateAd publishes a new ad owned by ownerID. The sanitized HTML rendering
// is produced inside the store's save path.
func (m *Market) CreateAd(ctx context.Context, ownerID string, in AdInput) (model.Ad, error) {
	if err := in.validate(); err != nil {
		return model.Ad{}, err
	}

	ad := model.Ad{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		CreatedBy:   ownerID,
	}
	if err := m.ads.Save(ctx, &ad); err != nil {
		return model.Ad{}, err
	}

	m.invalidateListings(ctx)
	return ad, nil
}

// GetAd returns the ad with the given id.
func (m *Market) GetAd(ctx context.Context, id string) (model.Ad, error) {
	return m.ads.GetByID(ctx, id)
}

// EditAd updates an existing ad. Permitted for the ad's owner and for
// admins; anyone else receives ErrForbidden.
func (m *Market) EditAd(ctx context.Context, actorID, adID string, in AdInput) (model.Ad, error) {
	ad, err := m.ads.GetByID(ctx, adID)
	if err != nil {
		return model.Ad{}, err
	}

	actor, err := m.users.GetByID(ctx, actorID)
	if err != nil {
		return model.Ad{}, err
	}
	if !actor.CanModify(ad.CreatedBy) {
		return model.Ad{}, ErrForbidden
	}

	if err := in.validate(); err != nil {
		return model.Ad{}, err
	}

	ad.Title = in.Title
	ad.Description = in.Description
	ad.Category = in.Category
	if err := m.ads.Save(ctx, &ad); err != nil {
		return model.Ad{}, err
	}

	m.invalidateListings(ctx)
	return ad, nil
}

// DeleteAd removes an ad under the same authorization rule as EditAd.
func (m *Market) DeleteAd(ctx context.Context, actorID, adID string) error {
	ad, err := m.ads.GetByID(ctx, adID)
	if err != nil {
		return err
	}

	actor, err := m.users.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if !actor.CanModify(ad.CreatedBy) {
		return ErrForbidden
	}

	ok, err := m.ads.Delete(ctx, adID)
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrNotFound
	}

	m.invalidateListings(ctx)
	return nil
}

// adPage is the cacheable shape of one listing page.
type adPage struct {
	Ads   []model.Ad `json:"ads"`
	Total int64      `json:"total"`
}

// ListAds returns one page of ads matching filter plus the total match count.
// The unfiltered first page is the site's front page and is served from the
// listing cache when fresh.
func (m *Market) ListAds(ctx context.Context, filter store.AdFilter, page, pageSize int) ([]model.Ad, int64, error) {
	cacheable := filter == (store.AdFilter{}) && page <= 1

	if cacheable {
		if raw, ok := m.cache.Get(ctx, cacheKeyFrontPage); ok {
			var cached adPage
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached.Ads, cached.Total, nil
			}
		}
	}

	ads, total, err := m.ads.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	if cacheable {
		if raw, err := json.Marshal(adPage{Ads: ads, Total: total}); err == nil {
			m.cache.Set(ctx, cacheKeyFrontPage, raw, listingCacheTTL)
		}
	}

	return ads, total, nil
}

// CategoryCount is one category with its number of published ads.
type CategoryCount struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// CategoryCounts returns every category in display order with its ad count,
// cached briefly.
func (m *Market) CategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	if raw, ok := m.cache.Get(ctx, cacheKeyCategories); ok {
		var cached []CategoryCount
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	counts, err := m.ads.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]CategoryCount, 0, len(model.Categories))
	for _, c := range model.Categories {
		result = append(result, CategoryCount{Value: c.Value, Label: c.Label, Count: counts[c.Value]})
	}

	if raw, err := json.Marshal(result); err == nil {
		m.cache.Set(ctx, cacheKeyCategories, raw, listingCacheTTL)
	}

	return result, nil
}

// invalidateListings drops every cached listing after an ad write.
func (m *Market) invalidateListings(ctx context.Context) {
	m.cache.Delete(ctx, cacheKeyFrontPage)
	m.cache.Delete(ctx, cacheKeyCategories)
}
