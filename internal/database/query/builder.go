// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

// Package query provides SQL query building utilities for the database package.
package query

import (
	"fmt"
	"strings"
)

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
//
// Example usage:
//
//	wb := query.NewWhereBuilder()
//	wb.AddClause("user_id = ?", userID)
//	wb.AddIn("media_type", "MOVIE", "TVSHOW")
//	whereClause, args := wb.Build()
//	// user_id = ? AND media_type IN (?, ?)
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates a new WhereBuilder instance.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []interface{}{},
	}
}

// AddClause adds a raw WHERE clause with its arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddIn adds "column IN (?, ...)". An empty value list is skipped.
func (wb *WhereBuilder) AddIn(column string, values ...interface{}) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	wb.clauses = append(wb.clauses, fmt.Sprintf("%s IN (%s)", column, Placeholders(len(values))))
	wb.args = append(wb.args, values...)
	return wb
}

// Build joins the clauses with AND. Returns ("1=1", []) if no clauses were added.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", []interface{}{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the WHERE clause with "WHERE " prefix.
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}

// Count returns the number of clauses added to the builder.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty returns true if no clauses have been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}

// SetBuilder collects "column = ?" assignments for a partial UPDATE.
type SetBuilder struct {
	columns []string
	args    []interface{}
}

// Set adds an assignment.
func (sb *SetBuilder) Set(column string, value interface{}) *SetBuilder {
	sb.columns = append(sb.columns, column+" = ?")
	sb.args = append(sb.args, value)
	return sb
}

// SetIf adds an assignment when value is non-nil.
func SetIf[T any](sb *SetBuilder, column string, value *T) *SetBuilder {
	if value != nil {
		sb.Set(column, *value)
	}
	return sb
}

// IsEmpty returns true if nothing is assigned.
func (sb *SetBuilder) IsEmpty() bool {
	return len(sb.columns) == 0
}

// Build returns the SET list (without "SET") and its arguments.
func (sb *SetBuilder) Build() (string, []interface{}) {
	return strings.Join(sb.columns, ", "), sb.args
}

// Placeholders returns n comma separated "?" markers.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
