// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/allscreen/internal/models"
)

// Column headers, matched case-insensitively. Export writes the first name
// of each.
var columnAliases = map[string][]string{
	"name":    {"Name", "Title"},
	"year":    {"Year"},
	"rating":  {"Rating"},
	"comment": {"Comment", "Review"},
	"date":    {"Date", "Watched Date"},
	"tmdb":    {"TMDb ID", "TMDB ID", "tmdb_id", "TMDbID"},
	"type":    {"Type"},
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006/01/02"}

// ParseCSV reads an RFC 4180 file with a header row. Quoted fields may hold
// commas and newlines; a doubled quote is a literal quote. maxRows <= 0
// means unlimited.
func ParseCSV(r io.Reader, maxRows int) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, models.Invalid("file", "file is empty")
	}
	if err != nil {
		return nil, models.Invalid("file", "bad header: %v", err)
	}
	cols := indexColumns(header)
	if _, ok := cols["name"]; !ok {
		if _, ok := cols["tmdb"]; !ok {
			return nil, models.Invalid("file", "header needs a Name or TMDb ID column")
		}
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, models.Invalid("file", "%v", err)
		}
		if maxRows > 0 && len(rows) >= maxRows {
			return nil, models.Invalid("file", "more than %d rows", maxRows)
		}
		line, _ := cr.FieldPos(0)
		rows = append(rows, parseRow(record, cols, line))
	}
	return rows, nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int)
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		for key, aliases := range columnAliases {
			for _, a := range aliases {
				if strings.EqualFold(h, a) {
					if _, dup := cols[key]; !dup {
						cols[key] = i
					}
				}
			}
		}
	}
	return cols
}

func parseRow(record []string, cols map[string]int, line int) Row {
	cell := func(key string) string {
		i, ok := cols[key]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	r := Row{
		Line:    line,
		Name:    cell("name"),
		Rating:  cell("rating"),
		Comment: cell("comment"),
		Type:    models.KindMovie,
	}
	var problems []string

	if y := cell("year"); y != "" {
		n, err := strconv.Atoi(y)
		if err != nil || n < 1800 || n > 3000 {
			problems = append(problems, fmt.Sprintf("invalid year %q", y))
		} else {
			r.Year = n
		}
	}
	if id := cell("tmdb"); id != "" {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil || n <= 0 {
			problems = append(problems, fmt.Sprintf("invalid TMDb ID %q", id))
		} else {
			r.TMDbID = n
		}
	}
	if d := cell("date"); d != "" {
		if t, ok := parseDate(d); ok {
			r.Date = &t
		} else {
			problems = append(problems, fmt.Sprintf("invalid date %q", d))
		}
	}
	if k := cell("type"); k != "" {
		kind, err := models.ParseMediaKind(k)
		if err != nil {
			problems = append(problems, fmt.Sprintf("invalid type %q", k))
		} else {
			r.Type = kind
		}
	}
	r.Problem = strings.Join(problems, "; ")
	return r
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// exportHeader returns the columns written for kind.
func exportHeader(kind Kind) []string {
	h := []string{"Date", "Name", "Year", "TMDb ID", "Type"}
	if kind == KindRatings {
		h = append(h, "Rating", "Comment")
	}
	return h
}

// exportRow is one line of an export file.
type exportRow struct {
	Date    time.Time
	Title   models.MediaSummary
	Rating  *models.Rating
	Comment string
}

func (e exportRow) record() []string {
	year := ""
	if e.Title.ReleaseDate != nil {
		year = strconv.Itoa(e.Title.ReleaseDate.Year())
	}
	rec := []string{
		e.Date.UTC().Format("2006-01-02"),
		e.Title.Title,
		year,
		strconv.FormatInt(e.Title.Ref.ID, 10),
		string(e.Title.Ref.Kind),
	}
	if e.Rating != nil {
		rec = append(rec, strconv.FormatFloat(float64(*e.Rating), 'f', -1, 64), e.Comment)
	}
	return rec
}

// writeCSV writes the header for kind and rows, quoting as needed.
func writeCSV(w io.Writer, kind Kind, rows []exportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader(kind)); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
