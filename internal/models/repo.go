package models

import (
	"strings"
	"time"
)

// RawRepo mirrors the GitHub REST repository payload. The fallback catalog
// in a profile is authored in the same shape.
type RawRepo struct {
	ID          int64     `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name" validate:"required"`
	FullName    string    `json:"full_name" yaml:"full_name"`
	URL         string    `json:"html_url" yaml:"html_url" validate:"required,url"`
	Description *string   `json:"description" yaml:"description"`
	Language    *string   `json:"language" yaml:"language"`
	Stars       int       `json:"stargazers_count" yaml:"stargazers_count" validate:"gte=0"`
	Forks       int       `json:"forks_count" yaml:"forks_count" validate:"gte=0"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
	Topics      []string  `json:"topics" yaml:"topics"`
	Homepage    *string   `json:"homepage" yaml:"homepage"`
	License     *License  `json:"license" yaml:"license"`
}

type License struct {
	SPDXID string `json:"spdx_id" yaml:"spdx_id" validate:"omitempty,spdx"`
}

// LicenseID returns the SPDX identifier or "" when the repo has no license.
func (r RawRepo) LicenseID() string {
	if r.License == nil {
		return ""
	}
	return r.License.SPDXID
}

// LowerName is the key used to compare repos across the live and fallback
// sources.
func (r RawRepo) LowerName() string {
	return strings.ToLower(r.Name)
}

// Override is hand-authored metadata for one repository, keyed by Repo.
type Override struct {
	Repo            string   `json:"repo" yaml:"repo" validate:"required"`
	DisplayName     string   `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Description     string   `json:"description,omitempty" yaml:"description,omitempty"`
	LongDescription string   `json:"longDescription,omitempty" yaml:"longDescription,omitempty"`
	DemoURL         string   `json:"demoUrl,omitempty" yaml:"demoUrl,omitempty" validate:"omitempty,url"`
	Tags            []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Category        Category `json:"category,omitempty" yaml:"category,omitempty" validate:"omitempty,concrete_category"`
	OpenSource      *bool    `json:"openSource,omitempty" yaml:"openSource,omitempty"`
	Featured        *bool    `json:"featured,omitempty" yaml:"featured,omitempty"`
	Status          string   `json:"status,omitempty" yaml:"status,omitempty"`
}

// SuggestResult is what the model returns for a repo without an override.
type SuggestResult struct {
	DisplayName string   `json:"displayName"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Category    string   `json:"category"`
}
