// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package query

import (
	"testing"
)

func TestWhereBuilder_Empty(t *testing.T) {
	wb := NewWhereBuilder()

	if !wb.IsEmpty() {
		t.Error("Expected new builder to be empty")
	}
	if wb.Count() != 0 {
		t.Errorf("Expected count 0, got %d", wb.Count())
	}

	whereClause, args := wb.Build()
	if whereClause != "1=1" {
		t.Errorf("Expected '1=1' for empty builder, got %q", whereClause)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestWhereBuilder_ClauseAndIn(t *testing.T) {
	wb := NewWhereBuilder().
		AddClause("user_id = ?", "u1").
		AddIn("media_type", "MOVIE", "TVSHOW").
		AddIn("movie_id")

	whereClause, args := wb.BuildWithPrefix()
	expected := "WHERE user_id = ? AND media_type IN (?, ?)"
	if whereClause != expected {
		t.Errorf("Expected %q, got %q", expected, whereClause)
	}
	if len(args) != 3 || args[0] != "u1" || args[2] != "TVSHOW" {
		t.Errorf("args = %v", args)
	}
	if wb.Count() != 2 {
		t.Errorf("Expected count 2, got %d", wb.Count())
	}
}

func TestSetBuilder(t *testing.T) {
	bio := "hello"
	var image *string

	sb := &SetBuilder{}
	SetIf(sb, "bio", &bio)
	SetIf(sb, "image", image)
	sb.Set("updated_at", 42)

	set, args := sb.Build()
	if set != "bio = ?, updated_at = ?" {
		t.Errorf("set = %q", set)
	}
	if len(args) != 2 || args[0] != "hello" || args[1] != 42 {
		t.Errorf("args = %v", args)
	}
	if (&SetBuilder{}).IsEmpty() != true {
		t.Error("new SetBuilder should be empty")
	}
}

func TestPlaceholders(t *testing.T) {
	tests := map[int]string{0: "", 1: "?", 3: "?, ?, ?"}
	for n, want := range tests {
		if got := Placeholders(n); got != want {
			t.Errorf("Placeholders(%d) = %q, want %q", n, got, want)
		}
	}
}
