// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package catalog

import (
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/allscreen/internal/models"
)

// Keyword is a catalog keyword attached to a title.
type Keyword struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Provider is a streaming, rental or purchase offer in the configured region.
type Provider struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	LogoPath string `json:"logo_path,omitempty"`
	Offer    string `json:"offer"`
}

// MovieDetails is a movie with everything the detail page needs.
type MovieDetails struct {
	models.Movie
	Backdrop        string                `json:"backdrop,omitempty"`
	Language        string                `json:"original_language,omitempty"`
	Keywords        []Keyword             `json:"keywords"`
	Recommendations []models.MediaSummary `json:"recommendations"`
	Providers       []Provider            `json:"providers"`
	ProvidersLink   string                `json:"providers_link,omitempty"`
	Backdrops       []string              `json:"backdrops"`
}

// TVDetails is a TV show with its detail-page extras.
type TVDetails struct {
	models.TVShow
	Backdrop        string                `json:"backdrop,omitempty"`
	Seasons         int                   `json:"seasons"`
	Episodes        int                   `json:"episodes"`
	Genres          []models.Genre        `json:"genres"`
	Networks        []models.Company      `json:"networks"`
	Companies       []models.Company      `json:"companies"`
	Cast            []models.Credit       `json:"cast"`
	Keywords        []Keyword             `json:"keywords"`
	Recommendations []models.MediaSummary `json:"recommendations"`
	Providers       []Provider            `json:"providers"`
}

// PersonDetails is a person with biography and known titles.
type PersonDetails struct {
	models.Person
	Biography    string                `json:"biography,omitempty"`
	Birthday     *time.Time            `json:"birthday,omitempty"`
	Deathday     *time.Time            `json:"deathday,omitempty"`
	PlaceOfBirth string                `json:"place_of_birth,omitempty"`
	Credits      []models.MediaSummary `json:"credits"`
}

// ResultPage is one page of search or discover results.
type ResultPage struct {
	Page         int                   `json:"page"`
	TotalPages   int                   `json:"total_pages"`
	TotalResults int                   `json:"total_results"`
	Results      []models.MediaSummary `json:"results"`
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
}

// parseDate reads catalog dates, returning nil for blanks and garbage. The
// time of day is dropped.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	return nil
}

// resolveReleaseDate picks the release date shown for a movie: the earliest
// theatrical release in region, else its earliest digital release, else the
// global date.
func resolveReleaseDate(global string, countries []releaseCountryJSON, region string) *time.Time {
	for _, want := range []int{ReleaseTheatrical, ReleaseDigital} {
		var best *time.Time
		for _, c := range countries {
			if !strings.EqualFold(c.Country, region) {
				continue
			}
			for _, rd := range c.ReleaseDates {
				if rd.Type != want {
					continue
				}
				if d := parseDate(rd.ReleaseDate); d != nil && (best == nil || d.Before(*best)) {
					best = d
				}
			}
		}
		if best != nil {
			return best
		}
	}
	return parseDate(global)
}

// crewRole maps a crew job to a tracked role.
func crewRole(c crewJSON) (models.Role, bool) {
	switch c.Job {
	case "Director":
		return models.RoleDirector, true
	case "Producer":
		return models.RoleProducer, true
	case "Executive Producer":
		return models.RoleExecProducer, true
	case "Original Music Composer", "Music", "Composer":
		return models.RoleComposer, true
	case "Director of Photography", "Cinematography":
		return models.RoleCinematographer, true
	}
	if c.Department == "Writing" {
		return models.RoleWriter, true
	}
	return "", false
}

func jobs(dept string) []string {
	if dept == "" {
		return nil
	}
	return []string{dept}
}

// toCredits converts cast and crew, keeping one credit per person and role.
func (c *Client) toCredits(cr creditsJSON) []models.Credit {
	type key struct {
		person int64
		role   models.Role
	}
	seen := make(map[key]bool)
	out := make([]models.Credit, 0, len(cr.Cast)+len(cr.Crew))

	cast := append([]castJSON(nil), cr.Cast...)
	sort.SliceStable(cast, func(i, j int) bool { return cast[i].Order < cast[j].Order })
	for _, p := range cast {
		k := key{p.ID, models.RoleActor}
		if p.ID == 0 || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, models.Credit{
			Person: models.Person{
				ID:          p.ID,
				Name:        p.Name,
				ProfilePath: c.imageURL(p.ProfilePath),
				Popularity:  p.Popularity,
				Jobs:        jobs(p.KnownForDepartment),
			},
			Role:  models.RoleActor,
			Order: p.Order,
		})
	}

	for _, p := range cr.Crew {
		role, ok := crewRole(p)
		if !ok || p.ID == 0 {
			continue
		}
		k := key{p.ID, role}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, models.Credit{
			Person: models.Person{
				ID:          p.ID,
				Name:        p.Name,
				ProfilePath: c.imageURL(p.ProfilePath),
				Popularity:  p.Popularity,
				Jobs:        jobs(p.KnownForDepartment),
			},
			Role: role,
		})
	}
	return out
}

func toGenres(in []genreJSON) []models.Genre {
	out := make([]models.Genre, 0, len(in))
	for _, g := range in {
		out = append(out, models.Genre{ID: g.ID, Name: g.Name})
	}
	return out
}

func (c *Client) toCompanies(in []companyJSON) []models.Company {
	out := make([]models.Company, 0, len(in))
	for _, co := range in {
		out = append(out, models.Company{
			ID:       co.ID,
			Name:     co.Name,
			LogoPath: c.imageURL(co.LogoPath),
			Country:  co.OriginCountry,
		})
	}
	return out
}

func toKeywords(k keywordsJSON) []Keyword {
	src := k.Keywords
	if len(src) == 0 {
		src = k.Results
	}
	out := make([]Keyword, 0, len(src))
	for _, kw := range src {
		out = append(out, Keyword{ID: kw.ID, Name: kw.Name})
	}
	return out
}

// toSummary converts a result entry. def is used when the entry carries no
// media_type; entries of other types (people) report false.
func (c *Client) toSummary(r resultJSON, def models.MediaKind) (models.MediaSummary, bool) {
	kind := def
	switch r.MediaType {
	case "movie":
		kind = models.KindMovie
	case "tv":
		kind = models.KindTVShow
	case "":
	default:
		return models.MediaSummary{}, false
	}

	s := models.MediaSummary{
		Ref:    models.MediaRef{Kind: kind, ID: r.ID},
		Poster: c.imageURL(r.PosterPath),
	}
	if kind == models.KindMovie {
		s.Title = r.Title
		s.ReleaseDate = parseDate(r.ReleaseDate)
	} else {
		s.Title = r.Name
		s.ReleaseDate = parseDate(r.FirstAirDate)
	}
	return s, true
}

func (c *Client) toSummaries(in []resultJSON, def models.MediaKind) []models.MediaSummary {
	out := make([]models.MediaSummary, 0, len(in))
	for _, r := range in {
		if s, ok := c.toSummary(r, def); ok {
			out = append(out, s)
		}
	}
	return out
}

func (c *Client) toResultPage(p *resultPageJSON, def models.MediaKind) *ResultPage {
	return &ResultPage{
		Page:         p.Page,
		TotalPages:   p.TotalPages,
		TotalResults: p.TotalResults,
		Results:      c.toSummaries(p.Results, def),
	}
}

func (c *Client) toProviders(w watchProvidersJSON) ([]Provider, string) {
	region, ok := w.Results[strings.ToUpper(c.region)]
	if !ok {
		return []Provider{}, ""
	}
	out := make([]Provider, 0, len(region.Flatrate)+len(region.Rent)+len(region.Buy))
	add := func(offer string, ps []providerJSON) {
		for _, p := range ps {
			out = append(out, Provider{
				ID:       p.ProviderID,
				Name:     p.ProviderName,
				LogoPath: c.imageURL(p.LogoPath),
				Offer:    offer,
			})
		}
	}
	add("flatrate", region.Flatrate)
	add("rent", region.Rent)
	add("buy", region.Buy)
	return out, region.Link
}

func (c *Client) toMovieDetails(m *movieJSON) *MovieDetails {
	providers, link := c.toProviders(m.WatchProviders)
	backdrops := make([]string, 0, len(m.Images.Backdrops))
	for _, img := range m.Images.Backdrops {
		backdrops = append(backdrops, c.imageURL(img.FilePath))
	}

	return &MovieDetails{
		Movie: models.Movie{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Overview,
			Poster:      c.imageURL(m.PosterPath),
			ReleaseDate: resolveReleaseDate(m.ReleaseDate, m.ReleaseDates.Results, c.region),
			Runtime:     m.Runtime,
			Genres:      toGenres(m.Genres),
			Companies:   c.toCompanies(m.ProductionCompanies),
			Credits:     c.toCredits(m.Credits),
		},
		Backdrop:        c.imageURL(m.BackdropPath),
		Language:        m.OriginalLanguage,
		Keywords:        toKeywords(m.Keywords),
		Recommendations: c.toSummaries(m.Recommendations.Results, models.KindMovie),
		Providers:       providers,
		ProvidersLink:   link,
		Backdrops:       backdrops,
	}
}

func (c *Client) toTVDetails(t *tvJSON) *TVDetails {
	providers, _ := c.toProviders(t.WatchProviders)
	var cast []models.Credit
	for _, cr := range c.toCredits(t.Credits) {
		if cr.Role == models.RoleActor {
			cast = append(cast, cr)
		}
	}
	if cast == nil {
		cast = []models.Credit{}
	}

	return &TVDetails{
		TVShow: models.TVShow{
			ID:           t.ID,
			Title:        t.Name,
			Description:  t.Overview,
			Poster:       c.imageURL(t.PosterPath),
			FirstAirDate: parseDate(t.FirstAirDate),
		},
		Backdrop:        c.imageURL(t.BackdropPath),
		Seasons:         t.NumberOfSeasons,
		Episodes:        t.NumberOfEpisodes,
		Genres:          toGenres(t.Genres),
		Networks:        c.toCompanies(t.Networks),
		Companies:       c.toCompanies(t.ProductionCompanies),
		Cast:            cast,
		Keywords:        toKeywords(t.Keywords),
		Recommendations: c.toSummaries(t.Recommendations.Results, models.KindTVShow),
		Providers:       providers,
	}
}

func (c *Client) toPersonDetails(p *personJSON) *PersonDetails {
	credits := make([]models.MediaSummary, 0, len(p.CombinedCredits.Cast)+len(p.CombinedCredits.Crew))
	pop := make(map[models.MediaRef]float64)
	for _, list := range [][]resultJSON{p.CombinedCredits.Cast, p.CombinedCredits.Crew} {
		for _, r := range list {
			s, ok := c.toSummary(r, models.KindMovie)
			if !ok {
				continue
			}
			prev, seen := pop[s.Ref]
			if !seen {
				credits = append(credits, s)
			}
			if !seen || r.Popularity > prev {
				pop[s.Ref] = r.Popularity
			}
		}
	}
	// Most popular first.
	sort.SliceStable(credits, func(i, j int) bool { return pop[credits[i].Ref] > pop[credits[j].Ref] })

	return &PersonDetails{
		Person: models.Person{
			ID:          p.ID,
			Name:        p.Name,
			ProfilePath: c.imageURL(p.ProfilePath),
			Popularity:  p.Popularity,
			Jobs:        jobs(p.KnownForDepartment),
		},
		Biography:    p.Biography,
		Birthday:     parseDate(p.Birthday),
		Deathday:     parseDate(p.Deathday),
		PlaceOfBirth: p.PlaceOfBirth,
		Credits:      credits,
	}
}
