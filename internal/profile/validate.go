package profile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/github/go-spdx/v2/spdxexp"
	"github.com/go-playground/validator/v10"
	"github.com/kevinmichaelchen/showcase/internal/models"
)

// ErrDuplicateOverride is returned when a repo has more than one override,
// whether within one list or across the pinned and general lists.
var ErrDuplicateOverride = errors.New("duplicate override")

// GitHub reports this when it cannot identify a license.
const spdxNoAssertion = "NOASSERTION"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("concrete_category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Concrete()
	})
	_ = v.RegisterValidation("spdx", func(fl validator.FieldLevel) bool {
		id := fl.Field().String()
		if id == spdxNoAssertion {
			return true
		}
		ok, _ := spdxexp.ValidateLicenses([]string{id})
		return ok
	})
	return v
}

// Validate checks field constraints and the cross-entry rules the struct tags
// cannot express.
func (p *Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	seen := make(map[string]string)
	check := func(list string, overrides []models.Override) error {
		for _, o := range overrides {
			if prev, ok := seen[o.Repo]; ok {
				return fmt.Errorf("%w: %q in %s and %s", ErrDuplicateOverride, o.Repo, prev, list)
			}
			seen[o.Repo] = list
		}
		return nil
	}
	if err := check("pinnedProjects", p.PinnedProjects); err != nil {
		return err
	}
	if err := check("projectOverrides", p.Overrides); err != nil {
		return err
	}

	names := make(map[string]bool, len(p.SampleProjects))
	for _, r := range p.SampleProjects {
		key := strings.ToLower(r.Name)
		if names[key] {
			return fmt.Errorf("sampleProjects: duplicate repo %q", r.Name)
		}
		names[key] = true
	}

	for _, c := range []models.Category{
		models.CategoryAll,
		models.CategoryFrontend,
		models.CategoryBackend,
		models.CategoryFullstack,
		models.CategoryOpenSource,
	} {
		if _, ok := p.Labels.Categories[c]; !ok {
			return fmt.Errorf("labels.categories: missing %q", c)
		}
	}
	return nil
}
