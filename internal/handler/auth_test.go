// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"testing"
	"time"
)

func TestParseDateOfBirth(t *testing.T) {
	got, err := parseDateOfBirth("2004-05-17")
	if err != nil {
		t.Fatalf("parseDateOfBirth: %v", err)
	}
	want := time.Date(2004, 5, 17, 0, 0, 0, 0, time.UTC)
	if got == nil || !got.Equal(want) {
		t.Errorf("parseDateOfBirth = %v, want %v", got, want)
	}
}

func TestParseDateOfBirth_Empty(t *testing.T) {
	got, err := parseDateOfBirth("")
	if err != nil {
		t.Fatalf("parseDateOfBirth: %v", err)
	}
	if got != nil {
		t.Errorf("parseDateOfBirth(\"\") = %v, want nil", got)
	}
}

func TestParseDateOfBirth_Invalid(t *testing.T) {
	for _, s := range []string{"17.05.2004", "2004-13-40", "yesterday"} {
		if _, err := parseDateOfBirth(s); err == nil {
			t.Errorf("parseDateOfBirth(%q) accepted", s)
		}
	}
}
