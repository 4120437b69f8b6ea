// Package regional serves the food datasets compiled into the binary. The
// data never changes at runtime and every accessor returns copies.
package regional

import (
	"sort"
	"strings"

	"calorie-tracker/domain"
)

func init() {
	for region, foods := range datasets {
		for i := range foods {
			foods[i].Region = region
			foods[i].Macros = foods[i].Macros.Sanitize()
		}
	}
}

// Regions lists the bundled region codes in stable order.
func Regions() []string {
	out := make([]string, 0, len(datasets))
	for region := range datasets {
		out = append(out, region)
	}
	sort.Strings(out)
	return out
}

// Foods returns the dataset of one region, or of every region when region is
// empty. Unknown regions yield nil.
func Foods(region string) []domain.FoodRecord {
	if region == "" {
		var all []domain.FoodRecord
		for _, r := range Regions() {
			all = append(all, datasets[r]...)
		}
		return all
	}
	foods, ok := datasets[strings.ToLower(region)]
	if !ok {
		return nil
	}
	return append([]domain.FoodRecord(nil), foods...)
}

func Get(id string) (domain.FoodRecord, error) {
	for _, foods := range datasets {
		for _, f := range foods {
			if f.ID == id {
				return f, nil
			}
		}
	}
	return domain.FoodRecord{}, domain.ErrFoodNotFound
}

// Search matches the query as a case-insensitive substring of the name or
// category.
func Search(query, region string) []domain.FoodRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []domain.FoodRecord
	for _, f := range Foods(region) {
		if strings.Contains(strings.ToLower(f.Name), q) ||
			strings.Contains(strings.ToLower(f.Category), q) {
			out = append(out, f)
		}
	}
	return out
}

func ByCategory(region, category string) []domain.FoodRecord {
	var out []domain.FoodRecord
	for _, f := range Foods(region) {
		if strings.EqualFold(f.Category, category) {
			out = append(out, f)
		}
	}
	return out
}

func Categories(region string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, f := range Foods(region) {
		if _, ok := seen[f.Category]; ok {
			continue
		}
		seen[f.Category] = struct{}{}
		out = append(out, f.Category)
	}
	sort.Strings(out)
	return out
}
