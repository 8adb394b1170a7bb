// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"strings"
	"unicode"

	"github.com/pdiddy/lindex/pkg/types"
)

// API base endpoints. Declared as vars so tests can substitute an
// httptest server.
var (
	openAlexAuthorsBase = "https://api.openalex.org/authors"
	openAlexWorksBase   = "https://api.openalex.org/works"
)

// openAlexIDPrefix is the URL prefix OpenAlex uses for entity IDs.
const openAlexIDPrefix = "https://openalex.org/"

// IsAuthorID reports whether the query string looks like an OpenAlex
// author identifier ("A" followed by digits, optionally as a full
// openalex.org URL) rather than a free-text name.
func IsAuthorID(query string) bool {
	id := NormalizeAuthorID(query)
	if len(id) < 2 || id[0] != 'A' {
		return false
	}
	for _, r := range id[1:] {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// NormalizeAuthorID reduces an author identifier to its bare form:
// "https://openalex.org/A5023888391" and "a5023888391" both become
// "A5023888391".
func NormalizeAuthorID(id string) string {
	id = strings.TrimSpace(id)
	id = strings.TrimPrefix(id, openAlexIDPrefix)
	if id == "" {
		return ""
	}
	return strings.ToUpper(id[:1]) + id[1:]
}

// ProfileURL returns the canonical profile page for a bare author ID.
func ProfileURL(id string) string {
	return openAlexIDPrefix + id
}

// OpenAlex API JSON structures.

type openAlexAuthorList struct {
	Meta    openAlexMeta     `json:"meta"`
	Results []openAlexAuthor `json:"results"`
}

type openAlexWorkList struct {
	Meta    openAlexMeta   `json:"meta"`
	Results []openAlexWork `json:"results"`
}

type openAlexMeta struct {
	Count   int `json:"count"`
	PerPage int `json:"per_page"`
	Page    int `json:"page"`
}

type openAlexAuthor struct {
	ID                    string                `json:"id"`
	DisplayName           string                `json:"display_name"`
	CitedByCount          int                   `json:"cited_by_count"`
	LastKnownInstitutions []openAlexInstitution `json:"last_known_institutions"`
	Topics                []openAlexTopic       `json:"topics"`
}

type openAlexInstitution struct {
	DisplayName string `json:"display_name"`
}

type openAlexTopic struct {
	DisplayName string `json:"display_name"`
}

type openAlexWork struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	DisplayName     string               `json:"display_name"`
	PublicationYear int                  `json:"publication_year"`
	CitedByCount    int                  `json:"cited_by_count"`
	Authorships     []openAlexAuthorship `json:"authorships"`
}

type openAlexAuthorship struct {
	RawAuthorName string             `json:"raw_author_name"`
	Author        openAlexWorkAuthor `json:"author"`
}

type openAlexWorkAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// toProfile converts an OpenAlex author record into an AuthorProfile.
func (a openAlexAuthor) toProfile() types.AuthorProfile {
	p := types.AuthorProfile{
		ID:           NormalizeAuthorID(a.ID),
		Name:         a.DisplayName,
		CitedByCount: a.CitedByCount,
	}
	p.ProfileURL = ProfileURL(p.ID)
	if len(a.LastKnownInstitutions) > 0 {
		p.Affiliation = a.LastKnownInstitutions[0].DisplayName
	}
	for _, t := range a.Topics {
		if t.DisplayName != "" {
			p.Keywords = append(p.Keywords, t.DisplayName)
		}
	}
	return p
}

// toRawPublication converts an OpenAlex work record into a RawPublication.
// The author listing is rebuilt as a comma-separated string of raw author
// names so downstream author counting sees the provider's own spelling of
// group entities.
func (w openAlexWork) toRawPublication() types.RawPublication {
	title := w.Title
	if title == "" {
		title = w.DisplayName
	}

	var names []string
	for _, as := range w.Authorships {
		name := as.RawAuthorName
		if name == "" {
			name = as.Author.DisplayName
		}
		if name != "" {
			names = append(names, name)
		}
	}

	return types.RawPublication{
		Title:      title,
		AuthorList: strings.Join(names, ", "),
		Year:       w.PublicationYear,
		Citations:  w.CitedByCount,
	}
}
