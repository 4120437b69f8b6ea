// Package convert normalizes food lists exported by other tools into the
// shared food import shape.
package convert

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"calorie-tracker/domain"
	"calorie-tracker/pkg/sharedfood"
)

type (
	Record struct {
		ItemName    string  `json:"itemName"`
		Category    string  `json:"category,omitempty"`
		Weight      string  `json:"weight,omitempty"`
		Calories    float64 `json:"calories"`
		Protein     float64 `json:"protein"`
		Fat         float64 `json:"fat"`
		Carbs       float64 `json:"carbs"`
		Fiber       float64 `json:"fiber"`
		Sugar       float64 `json:"sugar"`
		Sodium      float64 `json:"sodium"`
		Description string  `json:"description,omitempty"`
	}

	// Warning is about the record at the 1-based position Index.
	Warning struct {
		Index   int
		Field   string
		Message string
	}

	Result struct {
		Records  []Record
		Warnings []Warning
		Skipped  int
	}
)

func (w Warning) String() string {
	if w.Field == "" {
		return fmt.Sprintf("record %d: %s", w.Index, w.Message)
	}
	return fmt.Sprintf("record %d: %s: %s", w.Index, w.Field, w.Message)
}

// aliases maps normalized source keys to canonical fields, in preference
// order. Keys are compared lowercased with separators removed.
var aliases = map[string][]string{
	"itemName":    {"itemname", "name", "foodname", "food", "title", "product", "productname"},
	"category":    {"category", "foodcategory", "group", "foodgroup", "type"},
	"weight":      {"weight", "serving", "servingsize", "portion", "amount"},
	"calories":    {"calories", "kcal", "energy", "energykcal", "cal", "caloriestotal"},
	"protein":     {"protein", "proteing", "proteins"},
	"fat":         {"fat", "totalfat", "fatg", "fats"},
	"carbs":       {"carbs", "carbohydrates", "carbohydrate", "carbsg", "totalcarbs"},
	"fiber":       {"fiber", "fibre", "dietaryfiber", "fiberg"},
	"sugar":       {"sugar", "sugars", "totalsugars", "sugarg"},
	"sodium":      {"sodium", "sodiummg", "na"},
	"description": {"description", "notes", "note", "details"},
}

func normalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	return strings.NewReplacer("_", "", "-", "", " ", "", "(", "", ")", "").Replace(k)
}

type fields map[string]any

func normalize(raw map[string]any) fields {
	norm := make(fields, len(raw))
	for k, v := range raw {
		if v == nil || text(v) == "" {
			continue
		}
		norm[normalizeKey(k)] = v
	}
	return norm
}

func (f fields) lookup(field string) (any, bool) {
	for _, alias := range aliases[field] {
		if v, ok := f[alias]; ok {
			return v, true
		}
	}
	return nil, false
}

func text(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// Convert maps loosely named records onto Record. Records without any usable
// name are skipped. When no name field exists the description doubles as
// the name.
func Convert(raw []map[string]any) Result {
	var res Result
	for i, r := range raw {
		idx := i + 1

		f := normalize(r)
		rec := Record{}
		nameFromDescription := false
		if v, ok := f.lookup("itemName"); ok {
			rec.ItemName = text(v)
		}
		if rec.ItemName == "" {
			if v, ok := f.lookup("description"); ok {
				rec.ItemName = text(v)
				nameFromDescription = true
			}
		}
		if rec.ItemName == "" {
			res.Skipped++
			res.Warnings = append(res.Warnings, Warning{Index: idx, Message: "no name, skipped"})
			continue
		}

		if v, ok := f.lookup("category"); ok {
			rec.Category = text(v)
		}
		if v, ok := f.lookup("weight"); ok {
			rec.Weight = text(v)
		}
		if !nameFromDescription {
			if v, ok := f.lookup("description"); ok {
				rec.Description = text(v)
			}
		}

		numbers := []struct {
			field string
			dst   *float64
		}{
			{"calories", &rec.Calories},
			{"protein", &rec.Protein},
			{"fat", &rec.Fat},
			{"carbs", &rec.Carbs},
			{"fiber", &rec.Fiber},
			{"sugar", &rec.Sugar},
			{"sodium", &rec.Sodium},
		}
		for _, n := range numbers {
			v, ok := f.lookup(n.field)
			if !ok {
				if n.field == "calories" {
					res.Warnings = append(res.Warnings, Warning{Index: idx, Field: n.field, Message: "missing, set to 0"})
				}
				continue
			}
			value, valid := domain.CoerceNumber(v)
			if !valid {
				res.Warnings = append(res.Warnings, Warning{
					Index:   idx,
					Field:   n.field,
					Message: fmt.Sprintf("cannot parse %q, set to 0", text(v)),
				})
			}
			*n.dst = value
		}

		res.Records = append(res.Records, rec)
	}
	return res
}

// Read decodes a JSON or CSV file and converts its records.
func Read(r io.Reader, format string) (Result, error) {
	raw, err := sharedfood.DecodeRecords(r, format)
	if err != nil {
		return Result{}, err
	}
	return Convert(raw), nil
}

var columns = []string{
	"itemName", "category", "weight", "calories", "protein", "fat", "carbs",
	"fiber", "sugar", "sodium", "description",
}

// Write encodes records as an indented JSON array or a CSV file with a
// header row.
func Write(w io.Writer, format string, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	switch strings.ToLower(format) {
	case sharedfood.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case sharedfood.FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(columns); err != nil {
			return err
		}
		for _, r := range records {
			if err := cw.Write([]string{
				r.ItemName, r.Category, r.Weight,
				num(r.Calories), num(r.Protein), num(r.Fat), num(r.Carbs),
				num(r.Fiber), num(r.Sugar), num(r.Sodium),
				r.Description,
			}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	}
	return domain.ErrInvalidExportFormat
}

func num(v float64) string {
	return fmt.Sprint(v)
}
