package main

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/kevinmichaelchen/showcase/internal/models"
)

var concreteCategories = []string{
	string(models.CategoryFrontend),
	string(models.CategoryBackend),
	string(models.CategoryFullstack),
	string(models.CategoryOpenSource),
}

func choose(prompt string, options []string, def string) (string, error) {
	var result string
	q := &survey.Select{
		Message: prompt,
		Options: options,
	}
	if def != "" {
		q.Default = def
	}
	return result, survey.AskOne(q, &result)
}

func confirm(prompt string, defaultYes bool) (bool, error) {
	var result bool
	q := &survey.Confirm{Message: prompt, Default: defaultYes}
	return result, survey.AskOne(q, &result)
}

// review walks through suggested overrides, letting the user drop one or
// change its category before it is printed.
func review(overrides []models.Override) ([]models.Override, error) {
	kept := make([]models.Override, 0, len(overrides))
	for _, o := range overrides {
		fmt.Printf("\n%s → %s\n  %s\n", o.Repo, o.DisplayName, o.Description)
		ok, err := confirm(fmt.Sprintf("Keep suggestion for %s?", o.Repo), true)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		cat, err := choose("Category", concreteCategories, string(o.Category))
		if err != nil {
			return nil, err
		}
		o.Category = models.Category(cat)
		kept = append(kept, o)
	}
	return kept, nil
}
