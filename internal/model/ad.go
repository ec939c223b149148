// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"
)

// Ad categories. CategoryAll is the filter sentinel meaning "no restriction";
// it is never stored on an ad.
const (
	CategoryAll         = "all"
	CategoryBooks       = "books"
	CategoryElectronics = "electronics"
	CategoryScripts     = "scripts"
	CategoryClothes     = "clothes"
	CategoryFurniture   = "furniture"
	CategorySports      = "sports"
	CategoryOther       = "other"
)

// CategoryOption pairs a stored category value with its display label.
type CategoryOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Categories lists every valid ad category in display order.
var Categories = []CategoryOption{
	{CategoryBooks, "Books"},
	{CategoryElectronics, "Electronics"},
	{CategoryScripts, "Scripts"},
	{CategoryClothes, "Clothes"},
	{CategoryFurniture, "Furniture"},
	{CategorySports, "Sports & Outdoors"},
	{CategoryOther, "Other"},
}

// IsValidCategory reports whether value is a storable ad category.
func IsValidCategory(value string) bool {
	for _, c := range Categories {
		if c.Value == value {
			return true
		}
	}
	return false
}

// Ad represents a marketplace listing.
//
// DescriptionHTML is derived from Description by the markdown renderer inside
// the store's save path. It is never accepted from external input.
type Ad struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DescriptionHTML string    `json:"description_html"`
	Category        string    `json:"category"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
}
