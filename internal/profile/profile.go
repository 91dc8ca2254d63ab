// Package profile loads the hand-authored content that drives the project
// list: which account to read, which repos to hide or pin, per-repo
// overrides, the bundled fallback catalog and the labels shown with it.
//
// Each locale is a complete YAML document. Nothing is merged across locales,
// so a missing label is a load error rather than a silent fallback.
package profile

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/kevinmichaelchen/showcase/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var bundled embed.FS

const (
	English   = "en"
	Norwegian = "no"
)

// Locales lists every bundled locale; the first is the default.
var Locales = []string{English, Norwegian}

var ErrUnknownLocale = errors.New("unknown locale")

type Profile struct {
	Locale         string            `yaml:"locale" validate:"required"`
	GitHubUsername string            `yaml:"githubUsername" validate:"required"`
	HiddenProjects []string          `yaml:"hiddenProjects" validate:"dive,required"`
	PinnedProjects []models.Override `yaml:"pinnedProjects" validate:"dive"`
	Overrides      []models.Override `yaml:"projectOverrides" validate:"dive"`
	SampleProjects []models.RawRepo  `yaml:"sampleProjects" validate:"dive"`
	LatestCount    int               `yaml:"latestWorksCount" validate:"gte=1"`
	Labels         Labels            `yaml:"labels"`
}

type Labels struct {
	NoDescription           string                     `yaml:"noDescription" validate:"required"`
	FallbackNotice          string                     `yaml:"fallbackNotice" validate:"required"`
	ProjectNotFoundTitle    string                     `yaml:"projectNotFoundTitle" validate:"required"`
	ProjectNotFoundSubtitle string                     `yaml:"projectNotFoundSubtitle" validate:"required"`
	DateLayout              string                     `yaml:"dateLayout" validate:"required"`
	Categories              map[models.Category]string `yaml:"categories" validate:"required,len=5,dive,required"`
}

// Load reads a locale from dir, or from the bundled profiles when dir is
// empty, and validates it.
func Load(dir, locale string) (*Profile, error) {
	if !slices.Contains(Locales, locale) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocale, locale)
	}

	name := locale + ".yaml"
	var (
		data []byte
		err  error
	)
	if dir == "" {
		data, err = bundled.ReadFile("data/" + name)
	} else {
		data, err = os.ReadFile(filepath.Join(dir, name))
	}
	if err != nil {
		return nil, fmt.Errorf("reading profile %s: %w", name, err)
	}

	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", name, err)
	}
	if p.Locale != locale {
		return nil, fmt.Errorf("profile %s declares locale %q", name, p.Locale)
	}
	return p, nil
}

// LoadAll loads every bundled locale, keyed by locale.
func LoadAll(dir string) (map[string]*Profile, error) {
	out := make(map[string]*Profile, len(Locales))
	for _, locale := range Locales {
		p, err := Load(dir, locale)
		if err != nil {
			return nil, err
		}
		out[locale] = p
	}
	return out, nil
}

// Parse decodes one profile document. Unknown keys are rejected.
func Parse(data []byte) (*Profile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Profile
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Account returns the GitHub account to read, preferring override when set.
func (p *Profile) Account(override string) string {
	if override != "" {
		return override
	}
	return p.GitHubUsername
}

// CategoryLabel returns the localized name of c.
func (p *Profile) CategoryLabel(c models.Category) string {
	if l, ok := p.Labels.Categories[c]; ok {
		return l
	}
	return string(c)
}
