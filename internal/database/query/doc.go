// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

/*
Package query builds parameterized SQL fragments for the database package.

WhereBuilder joins conditions with AND and keeps their arguments in order.
SetBuilder collects assignments for partial updates, where only the fields a
caller supplied are written:

	sb := &query.SetBuilder{}
	query.SetIf(sb, "bio", upd.Bio)
	query.SetIf(sb, "image", upd.Image)
	if !sb.IsEmpty() {
		sb.Set("updated_at", time.Now())
		set, args := sb.Build()
		db.ExecContext(ctx, "UPDATE users SET "+set+" WHERE id = ?", append(args, id)...)
	}

Column names are always literals from the caller; only values are bound.
*/
package query
