package sharedfood

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"calorie-tracker/domain"
	"calorie-tracker/entities"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// exportColumns is the fixed column order of a CSV export. Extra fields are
// appended after these, sorted by name.
var exportColumns = []string{
	"id", "itemName", "category", "weight", "calories", "protein", "fat", "carbs",
	"fiber", "sugar", "sodium", "description", "createdBy", "createdByName",
	"usageCount", "likes", "createdAt",
}

// known are fields with a dedicated column. Anything else goes to Extra.
var known = func() map[string]struct{} {
	m := make(map[string]struct{}, len(exportColumns))
	for _, c := range exportColumns {
		m[c] = struct{}{}
	}
	m["imageUrl"] = struct{}{}
	return m
}()

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".json":
		return FormatJSON
	}
	return ""
}

// DecodeRecords reads a JSON array of objects or a CSV file with a header row
// into loosely typed records.
func DecodeRecords(r io.Reader, format string) ([]map[string]any, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		var records []map[string]any
		if err := json.NewDecoder(r).Decode(&records); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImportFormat, err)
		}
		return records, nil
	case FormatCSV:
		return decodeCSV(r)
	}
	return nil, domain.ErrInvalidImportFormat
}

func decodeCSV(r io.Reader) ([]map[string]any, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImportFormat, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var records []map[string]any
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImportFormat, err)
		}
		record := make(map[string]any, len(header))
		for i, col := range header {
			if i < len(row) && col != "" {
				record[col] = row[i]
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// ToEntity maps one imported record onto a SharedFood. itemName and calories
// are required; unrecognized fields are kept verbatim in Extra.
func ToEntity(raw map[string]any, userID, userName string) (*entities.SharedFood, error) {
	name := strings.TrimSpace(stringValue(raw["itemName"]))
	calValue, hasCalories := raw["calories"]
	if name == "" || !hasCalories || strings.TrimSpace(stringValue(calValue)) == "" {
		return nil, domain.ErrImportMissingRequired
	}

	calories, ok := domain.CoerceNumber(calValue)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrImportInvalidCalories, stringValue(calValue))
	}

	num := func(key string) float64 {
		v, _ := domain.CoerceNumber(raw[key])
		return v
	}

	food := &entities.SharedFood{
		ItemName:      name,
		Category:      stringValue(raw["category"]),
		Weight:        stringValue(raw["weight"]),
		Calories:      calories,
		Protein:       num("protein"),
		Fat:           num("fat"),
		Carbs:         num("carbs"),
		Fiber:         num("fiber"),
		Sugar:         num("sugar"),
		Sodium:        num("sodium"),
		Description:   stringValue(raw["description"]),
		ImageURL:      stringValue(raw["imageUrl"]),
		CreatedBy:     stringValue(raw["createdBy"]),
		CreatedByName: stringValue(raw["createdByName"]),
		UsageCount:    int(num("usageCount")),
		Likes:         int(num("likes")),
	}
	if food.CreatedBy == "" {
		food.CreatedBy = userID
		food.CreatedByName = userName
	}

	// JSON exports nest unrecognized fields under "extra".
	if nested, isMap := raw["extra"].(map[string]any); isMap {
		for k, v := range nested {
			setExtra(food, k, v)
		}
	}
	for k, v := range raw {
		if _, isKnown := known[k]; isKnown {
			continue
		}
		if _, isMap := v.(map[string]any); isMap && k == "extra" {
			continue
		}
		setExtra(food, k, v)
	}
	return food, nil
}

func setExtra(food *entities.SharedFood, key string, v any) {
	if s, isString := v.(string); isString && s == "" {
		return
	}
	if food.Extra == nil {
		food.Extra = make(map[string]any)
	}
	food.Extra[key] = v
}

func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	}
	return fmt.Sprint(v)
}

// EncodeJSON writes the foods as a pretty printed JSON array.
func EncodeJSON(w io.Writer, foods []domain.SharedFoodResponse) error {
	if foods == nil {
		foods = []domain.SharedFoodResponse{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(foods)
}

// EncodeCSV writes a header row followed by one row per food with every
// field quoted.
func EncodeCSV(w io.Writer, foods []domain.SharedFoodResponse) error {
	extraSet := make(map[string]struct{})
	for _, f := range foods {
		for k := range f.Extra {
			extraSet[k] = struct{}{}
		}
	}
	extras := make([]string, 0, len(extraSet))
	for k := range extraSet {
		extras = append(extras, k)
	}
	sort.Strings(extras)

	bw := bufio.NewWriter(w)
	writeQuotedRow(bw, append(append([]string(nil), exportColumns...), extras...))

	for _, f := range foods {
		row := []string{
			f.ID,
			f.ItemName,
			f.Category,
			f.Weight,
			formatNumber(f.Calories),
			formatNumber(f.Protein),
			formatNumber(f.Fat),
			formatNumber(f.Carbs),
			formatNumber(f.Fiber),
			formatNumber(f.Sugar),
			formatNumber(f.Sodium),
			f.Description,
			f.CreatedBy,
			f.CreatedByName,
			strconv.Itoa(f.UsageCount),
			strconv.Itoa(f.Likes),
			f.CreatedAt.UTC().Format(time.RFC3339),
		}
		for _, k := range extras {
			row = append(row, stringValue(f.Extra[k]))
		}
		writeQuotedRow(bw, row)
	}
	return bw.Flush()
}

func writeQuotedRow(w *bufio.Writer, fields []string) {
	for i, field := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(field, `"`, `""`))
		w.WriteByte('"')
	}
	w.WriteByte('\n')
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
