// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/studentmarket-go/internal/middleware"
	"github.com/olegiv/studentmarket-go/internal/model"
	"github.com/olegiv/studentmarket-go/internal/service"
	"github.com/olegiv/studentmarket-go/internal/store"
)

// AdHandler handles the classified ad routes.
type AdHandler struct {
	market   *service.Market
	pageSize int
}

// NewAdHandler creates a new AdHandler.
func NewAdHandler(market *service.Market, pageSize int) *AdHandler {
	return &AdHandler{
		market:   market,
		pageSize: pageSize,
	}
}

// List returns a page of ads, newest first, optionally filtered by
// category and a case-insensitive title search.
func (h *AdHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	category := q.Get("category")
	if category != "" && category != model.CategoryAll && !model.IsValidCategory(category) {
		writeJSONError(w, http.StatusBadRequest, "unknown category")
		return
	}
	if category == model.CategoryAll {
		category = ""
	}

	filter := store.AdFilter{
		Category: category,
		Search:   q.Get("q"),
	}

	page := pageParam(r)
	ads, total, err := h.market.ListAds(r.Context(), filter, page, h.pageSize)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSONSuccess(w, map[string]any{
		"ads":        ads,
		"pagination": BuildPagination(page, total, h.pageSize),
	})
}

// Mine returns a page of the authenticated user's own ads.
func (h *AdHandler) Mine(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	page := pageParam(r)
	ads, total, err := h.market.ListAds(r.Context(), store.AdFilter{OwnerID: user.ID}, page, h.pageSize)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSONSuccess(w, map[string]any{
		"ads":        ads,
		"pagination": BuildPagination(page, total, h.pageSize),
	})
}

// Get returns a single ad by id.
func (h *AdHandler) Get(w http.ResponseWriter, r *http.Request) {
	ad, err := h.market.GetAd(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONSuccess(w, map[string]any{"ad": ad})
}

type adRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (req adRequest) input() service.AdInput {
	return service.AdInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	}
}

// Create posts a new ad owned by the authenticated user.
func (h *AdHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req adRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ad, err := h.market.CreateAd(r.Context(), user.ID, req.input())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"ad":      ad,
	})
}

// Update edits an existing ad. Only the owner or an admin may edit.
func (h *AdHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req adRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ad, err := h.market.EditAd(r.Context(), user.ID, chi.URLParam(r, "id"), req.input())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSONSuccess(w, map[string]any{"ad": ad})
}

// Delete removes an ad. Only the owner or an admin may delete.
func (h *AdHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.market.DeleteAd(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONSuccess(w, nil)
}

// Categories returns every category with its ad count.
func (h *AdHandler) Categories(w http.ResponseWriter, r *http.Request) {
	counts, err := h.market.CategoryCounts(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONSuccess(w, map[string]any{"categories": counts})
}
