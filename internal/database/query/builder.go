// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package query

import (
	"fmt"
	"strings"
	"time"
)

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
//
//	wb := query.NewWhereBuilder()
//	wb.AddDateRange("prev_day", from, to).AddIn("day", days)
//	whereClause, args := wb.Build()
//	// prev_day >= ? AND prev_day <= ? AND day IN (?, ?)
type WhereBuilder struct {
	clauses []string
	args    []any
}

// NewWhereBuilder creates a new WhereBuilder instance.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{}
}

// AddClause adds a raw condition with its arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...any) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddDateRange bounds column inclusively. Nil bounds are skipped.
func (wb *WhereBuilder) AddDateRange(column string, from, to *time.Time) *WhereBuilder {
	if from != nil {
		wb.AddClause(column+" >= ?", *from)
	}
	if to != nil {
		wb.AddClause(column+" <= ?", *to)
	}
	return wb
}

// AddIn adds "column IN (?, ...)". An empty slice is skipped.
func AddIn[T any](wb *WhereBuilder, column string, values []T) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		wb.args = append(wb.args, v)
	}
	wb.clauses = append(wb.clauses, fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")))
	return wb
}

// AddIn adds "column IN (?, ...)" for string values.
func (wb *WhereBuilder) AddIn(column string, values []string) *WhereBuilder {
	return AddIn(wb, column, values)
}

// AddBool adds "column = ?" when v is non-nil.
func (wb *WhereBuilder) AddBool(column string, v *bool) *WhereBuilder {
	if v != nil {
		wb.AddClause(column+" = ?", *v)
	}
	return wb
}

// Build joins the clauses with AND. Returns ("1=1", nil) when empty.
func (wb *WhereBuilder) Build() (string, []any) {
	if len(wb.clauses) == 0 {
		return "1=1", nil
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the clause with a "WHERE " prefix.
func (wb *WhereBuilder) BuildWithPrefix() (string, []any) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}

// Count returns the number of clauses added.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty reports whether no clauses were added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}
