package models

import "time"

type Category string

const (
	CategoryAll        Category = "All"
	CategoryFrontend   Category = "Frontend"
	CategoryBackend    Category = "Backend"
	CategoryFullstack  Category = "Fullstack"
	CategoryOpenSource Category = "Open Source"
)

// Concrete reports whether c may be assigned to a project. All is a filter
// value only.
func (c Category) Concrete() bool {
	switch c {
	case CategoryFrontend, CategoryBackend, CategoryFullstack, CategoryOpenSource:
		return true
	}
	return false
}

// Source tells where a project collection came from.
type Source string

const (
	SourceGitHub Source = "github"
	SourceSample Source = "sample"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// StatusTone is the badge tone for a project's status label.
type StatusTone int

const (
	ToneDefault StatusTone = iota
	ToneWarning
	ToneSuccess
)

func (t StatusTone) String() string {
	switch t {
	case ToneWarning:
		return "warning"
	case ToneSuccess:
		return "success"
	default:
		return "default"
	}
}

func (t StatusTone) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Project is the normalized, UI-ready view of a repository.
type Project struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	DisplayName     string     `json:"displayName"`
	Description     string     `json:"description"`
	LongDescription string     `json:"longDescription,omitempty"`
	URL             string     `json:"url"`
	DemoURL         string     `json:"demoUrl,omitempty"`
	Language        string     `json:"language,omitempty"`
	Stars           int        `json:"stars"`
	Forks           int        `json:"forks"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	UpdatedLabel    string     `json:"updatedLabel"`
	Topics          []string   `json:"topics"`
	Tags            []string   `json:"tags"`
	Category        Category   `json:"category"`
	OpenSource      bool       `json:"openSource"`
	Pinned          bool       `json:"pinned"`
	Featured        bool       `json:"featured"`
	Status          string     `json:"status,omitempty"`
	StatusTone      StatusTone `json:"statusTone"`
	Slug            string     `json:"slug"`
}

// State is what consumers of the project collection observe.
type State struct {
	Status   Status    `json:"status"`
	Source   Source    `json:"source"`
	Projects []Project `json:"projects"`
	Error    string    `json:"error,omitempty"`
}
