package entity

import (
	"fmt"
	"sort"
	"time"
)

type BrowserStatus string

// Browser status represents the state of a repository browsing session
const (
	BrowserStatusAuth         BrowserStatus = "AUTH"          // Waiting for a token
	BrowserStatusListingRepos BrowserStatus = "LISTING_REPOS" // Listing repositories and probing for terraform
	BrowserStatusBrowsing     BrowserStatus = "BROWSING"      // List ready, user filtering and selecting
	BrowserStatusExtracting   BrowserStatus = "EXTRACTING"    // Extraction request in flight
)

func (s BrowserStatus) Validate() error {
	switch s {
	case BrowserStatusAuth, BrowserStatusListingRepos, BrowserStatusBrowsing, BrowserStatusExtracting:
		return nil
	default:
		return fmt.Errorf("unknown browser status: %s", s)
	}
}

// Repository is one entry of the authenticated user's repository list.
// HasTerraform is nil until the root-contents probe for the repository
// settles; a failed probe degrades it to false.
type Repository struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	FullName     string    `json:"full_name"`
	Private      bool      `json:"private"`
	Description  *string   `json:"description,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
	HTMLURL      string    `json:"html_url"`
	HasTerraform *bool     `json:"has_terraform,omitempty"`
}

// RepoContentEntry is one entry of a repository contents listing.
type RepoContentEntry struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// RepoDescriptor is the minimal repository shape sent to the extraction
// endpoint.
type RepoDescriptor struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	FullName    string  `json:"full_name"`
	HTMLURL     string  `json:"html_url"`
	Private     bool    `json:"private"`
	Description *string `json:"description,omitempty"`
}

// ExtractedFile is one terraform file returned by the extraction endpoint.
type ExtractedFile struct {
	Path      string   `json:"path"`
	Content   string   `json:"content"`
	FileType  string   `json:"file_type"`
	Resources []string `json:"resources"`
	Providers []string `json:"providers"`
}

// ExtractionOutcome is the result of extracting the selected repositories.
// Summary is the human-readable string used to seed the next query.
type ExtractionOutcome struct {
	Files                 []ExtractedFile `json:"files"`
	TotalFiles            int             `json:"total_files"`
	RepositoriesProcessed int             `json:"repositories_processed"`
	Summary               string          `json:"summary"`
}

// BrowserSession holds all state of one repository browsing flow. The token
// lives only here, in process memory, for the lifetime of the session.
type BrowserSession struct {
	ID           string                 `json:"browser_id"`
	Status       BrowserStatus          `json:"status"`
	Token        string                 `json:"-"`
	Repositories []Repository           `json:"repositories"`
	Selected     map[int64]struct{}     `json:"-"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// Clone returns a snapshot safe to read outside the store's lock.
// Repository entries are copied by value; their pointer fields are never
// written in place after listing.
func (s *BrowserSession) Clone() *BrowserSession {
	clone := *s
	clone.Repositories = append([]Repository(nil), s.Repositories...)
	clone.Selected = make(map[int64]struct{}, len(s.Selected))
	for id := range s.Selected {
		clone.Selected[id] = struct{}{}
	}
	return &clone
}

// SelectedIDs returns the selection as a sorted slice.
func (s *BrowserSession) SelectedIDs() []int64 {
	ids := make([]int64, 0, len(s.Selected))
	for id := range s.Selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
