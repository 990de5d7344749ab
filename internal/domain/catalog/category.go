package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category is a top-level product category
type Category string

const (
	CategorySkateboards Category = "skateboards"
	CategoryClothing    Category = "clothing"
	CategoryShoes       Category = "shoes"
	CategoryAccessories Category = "accessories"
)

// Subcategory describes one subcategory slug within a category
type Subcategory struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CategoryInfo is a category with its subcategories, in display order
type CategoryInfo struct {
	Category      Category      `json:"category"`
	Title         string        `json:"title"`
	Subcategories []Subcategory `json:"subcategories"`
}

var catalogue = []CategoryInfo{
	{
		Category: CategorySkateboards,
		Subcategories: subcategories(
			"decks", "wheels", "trucks", "bearings", "griptape", "hardware", "tools",
		),
	},
	{
		Category: CategoryClothing,
		Subcategories: subcategories(
			"beanies", "hoodies", "pants", "shirts", "shorts",
		),
	},
	{
		Category: CategoryShoes,
		Subcategories: subcategories(
			"low-tops", "high-tops", "slip-ons", "pros", "classics",
		),
	},
	{
		Category: CategoryAccessories,
		Subcategories: subcategories(
			"skate-tools", "bushings", "shock-risers-pads", "rails", "wax", "socks", "backpacks",
		),
	},
}

func init() {
	for i := range catalogue {
		catalogue[i].Title = TitleCase(string(catalogue[i].Category))
	}
}

func subcategories(slugs ...string) []Subcategory {
	out := make([]Subcategory, 0, len(slugs))
	for _, slug := range slugs {
		name := Unslugify(slug)
		out = append(out, Subcategory{
			Slug:        slug,
			Title:       TitleCase(name),
			Description: "Buy the best " + name,
		})
	}
	return out
}

// Categories returns the category catalogue
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(catalogue))
	copy(out, catalogue)
	return out
}

// CategoryValues returns the category identifiers only
func CategoryValues() []Category {
	out := make([]Category, 0, len(catalogue))
	for _, c := range catalogue {
		out = append(out, c.Category)
	}
	return out
}

// ParseCategory validates a raw category value
func ParseCategory(raw string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	return c, c.IsValid()
}

// IsValid reports whether the category is part of the catalogue
func (c Category) IsValid() bool {
	for _, info := range catalogue {
		if info.Category == c {
			return true
		}
	}
	return false
}

// HasSubcategory reports whether slug belongs to the category
func (c Category) HasSubcategory(slug string) bool {
	for _, info := range catalogue {
		if info.Category != c {
			continue
		}
		for _, sub := range info.Subcategories {
			if sub.Slug == slug {
				return true
			}
		}
	}
	return false
}

// Unslugify turns "low-tops" into "low tops"
func Unslugify(slug string) string {
	return strings.ReplaceAll(strings.TrimSpace(slug), "-", " ")
}

// TitleCase capitalizes each word
func TitleCase(s string) string {
	return cases.Title(language.English).String(s)
}
