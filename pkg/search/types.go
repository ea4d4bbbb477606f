package search

import (
	"errors"

	"github.com/platinummonkey/modsearch/pkg/modinfo"
)

// DefaultLimit is the number of results returned when no limit is given
const DefaultLimit = 5

// MissingQueryMessage is the error text of a search without a query
const MissingQueryMessage = "Query parameter 'q' is required"

// ErrMissingQuery is returned when a search is made without a query
var ErrMissingQuery = errors.New("query parameter 'q' is required")

// Candidate is one module listed by one repository
type Candidate struct {
	RepoPath   string
	ModuleName string
}

// Match is a candidate whose name scored above zero
type Match struct {
	Candidate
	Ratio float64
}

// ScoredResult is one entry of a search response
type ScoredResult struct {
	Module      string  `json:"module"`
	Ratio       float64 `json:"ratio"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Banner      *string `json:"banner"`
	Developer   *string `json:"developer"`
	Link        string  `json:"link"`

	// Repository breaks ordering ties between same-named modules.
	Repository string `json:"-"`
}

// Response is the body of a successful search
type Response struct {
	Results []ScoredResult `json:"results"`
}

// ModuleDetail is the metadata of a single module
type ModuleDetail struct {
	Repository string `json:"repository"`
	Module     string `json:"module"`
	Link       string `json:"link"`
	modinfo.ModuleInfo
}

func newResult(m Match, link string, info modinfo.ModuleInfo) ScoredResult {
	name := info.Name
	if name == nil {
		module := m.ModuleName
		name = &module
	}
	return ScoredResult{
		Module:      m.ModuleName,
		Ratio:       m.Ratio,
		Name:        name,
		Description: info.Description,
		Banner:      info.Banner,
		Developer:   info.Developer,
		Link:        link,
		Repository:  m.RepoPath,
	}
}
