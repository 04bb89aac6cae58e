// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package stats

import (
	"sort"

	"github.com/tomtom215/allscreen/internal/models"
)

// TopCollaboratorsPerRole caps each role's ranked list.
const TopCollaboratorsPerRole = 10

type tally struct {
	entries []*models.Collaborator
	index   map[int64]*models.Collaborator
}

func newTally() *tally {
	return &tally{index: make(map[int64]*models.Collaborator)}
}

func (t *tally) inc(p models.Person) {
	if c, ok := t.index[p.ID]; ok {
		c.Count++
		return
	}
	c := &models.Collaborator{ID: p.ID, Name: p.Name, ProfilePath: p.ProfilePath, Count: 1}
	t.index[p.ID] = c
	t.entries = append(t.entries, c)
}

func (t *tally) top(limit int) []models.Collaborator {
	sort.SliceStable(t.entries, func(i, j int) bool { return t.entries[i].Count > t.entries[j].Count })
	n := len(t.entries)
	if limit > 0 && n > limit {
		n = limit
	}
	out := make([]models.Collaborator, n)
	for i := 0; i < n; i++ {
		out[i] = *t.entries[i]
	}
	return out
}

// TopCollaborators counts, for every role independently, how many of the
// given movies credit each person, and keeps the limit most frequent. A
// person credited twice in the same role on one movie counts once for that
// movie. Roles with no credits yield empty, non-nil lists.
func TopCollaborators(movies []models.Movie, limit int) models.Collaborators {
	tallies := make(map[models.Role]*tally, len(models.Roles))
	for _, role := range models.Roles {
		tallies[role] = newTally()
	}

	type seenKey struct {
		role   models.Role
		person int64
	}

	for i := range movies {
		seen := make(map[seenKey]struct{}, len(movies[i].Credits))
		for _, cr := range movies[i].Credits {
			t, ok := tallies[cr.Role]
			if !ok {
				continue
			}
			key := seenKey{role: cr.Role, person: cr.Person.ID}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			t.inc(cr.Person)
		}
	}

	var out models.Collaborators
	for _, role := range models.Roles {
		out.SetRole(role, tallies[role].top(limit))
	}
	return out
}
