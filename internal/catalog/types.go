// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package catalog

// Wire types for the TMDB v3 API. Only the fields the application reads are
// declared.

// Release types as numbered by the catalog.
const (
	ReleasePremiere          = 1
	ReleaseTheatricalLimited = 2
	ReleaseTheatrical        = 3
	ReleaseDigital           = 4
	ReleasePhysical          = 5
	ReleaseTV                = 6
)

type genreJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type genreList struct {
	Genres []genreJSON `json:"genres"`
}

type companyJSON struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	LogoPath      string `json:"logo_path"`
	OriginCountry string `json:"origin_country"`
}

type castJSON struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	ProfilePath        string  `json:"profile_path"`
	Popularity         float64 `json:"popularity"`
	KnownForDepartment string  `json:"known_for_department"`
	Character          string  `json:"character"`
	Order              int     `json:"order"`
}

type crewJSON struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	ProfilePath        string  `json:"profile_path"`
	Popularity         float64 `json:"popularity"`
	KnownForDepartment string  `json:"known_for_department"`
	Department         string  `json:"department"`
	Job                string  `json:"job"`
}

type creditsJSON struct {
	Cast []castJSON `json:"cast"`
	Crew []crewJSON `json:"crew"`
}

type keywordJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Movies list keywords under "keywords", TV shows under "results".
type keywordsJSON struct {
	Keywords []keywordJSON `json:"keywords"`
	Results  []keywordJSON `json:"results"`
}

type releaseEntryJSON struct {
	Certification string `json:"certification"`
	ReleaseDate   string `json:"release_date"`
	Type          int    `json:"type"`
}

type releaseCountryJSON struct {
	Country      string             `json:"iso_3166_1"`
	ReleaseDates []releaseEntryJSON `json:"release_dates"`
}

type releaseDatesJSON struct {
	Results []releaseCountryJSON `json:"results"`
}

type providerJSON struct {
	ProviderID   int64  `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path"`
}

type regionProvidersJSON struct {
	Link     string         `json:"link"`
	Flatrate []providerJSON `json:"flatrate"`
	Rent     []providerJSON `json:"rent"`
	Buy      []providerJSON `json:"buy"`
}

type watchProvidersJSON struct {
	Results map[string]regionProvidersJSON `json:"results"`
}

type imageJSON struct {
	FilePath string `json:"file_path"`
}

type imagesJSON struct {
	Backdrops []imageJSON `json:"backdrops"`
	Posters   []imageJSON `json:"posters"`
}

// resultJSON is one entry of a search, discover or recommendations page.
type resultJSON struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	PosterPath   string  `json:"poster_path"`
	ProfilePath  string  `json:"profile_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	MediaType    string  `json:"media_type"`
	Popularity   float64 `json:"popularity"`
}

type resultPageJSON struct {
	Page         int          `json:"page"`
	TotalPages   int          `json:"total_pages"`
	TotalResults int          `json:"total_results"`
	Results      []resultJSON `json:"results"`
}

type movieJSON struct {
	ID                  int64              `json:"id"`
	Title               string             `json:"title"`
	Overview            string             `json:"overview"`
	PosterPath          string             `json:"poster_path"`
	BackdropPath        string             `json:"backdrop_path"`
	ReleaseDate         string             `json:"release_date"`
	Runtime             int                `json:"runtime"`
	OriginalLanguage    string             `json:"original_language"`
	Genres              []genreJSON        `json:"genres"`
	ProductionCompanies []companyJSON      `json:"production_companies"`
	Credits             creditsJSON        `json:"credits"`
	Keywords            keywordsJSON       `json:"keywords"`
	Recommendations     resultPageJSON     `json:"recommendations"`
	Images              imagesJSON         `json:"images"`
	WatchProviders      watchProvidersJSON `json:"watch/providers"`
	ReleaseDates        releaseDatesJSON   `json:"release_dates"`
}

type tvJSON struct {
	ID                  int64              `json:"id"`
	Name                string             `json:"name"`
	Overview            string             `json:"overview"`
	PosterPath          string             `json:"poster_path"`
	BackdropPath        string             `json:"backdrop_path"`
	FirstAirDate        string             `json:"first_air_date"`
	NumberOfSeasons     int                `json:"number_of_seasons"`
	NumberOfEpisodes    int                `json:"number_of_episodes"`
	Genres              []genreJSON        `json:"genres"`
	Networks            []companyJSON      `json:"networks"`
	ProductionCompanies []companyJSON      `json:"production_companies"`
	Credits             creditsJSON        `json:"credits"`
	Keywords            keywordsJSON       `json:"keywords"`
	Recommendations     resultPageJSON     `json:"recommendations"`
	Images              imagesJSON         `json:"images"`
	WatchProviders      watchProvidersJSON `json:"watch/providers"`
}

type personJSON struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Biography          string  `json:"biography"`
	Birthday           string  `json:"birthday"`
	Deathday           string  `json:"deathday"`
	PlaceOfBirth       string  `json:"place_of_birth"`
	ProfilePath        string  `json:"profile_path"`
	Popularity         float64 `json:"popularity"`
	KnownForDepartment string  `json:"known_for_department"`
	CombinedCredits    struct {
		Cast []resultJSON `json:"cast"`
		Crew []resultJSON `json:"crew"`
	} `json:"combined_credits"`
}
