// Package bulk parses metering-node CSV sheets for bulk import. Sheets come
// from facility managers exporting Excel in various regional encodings, so
// decoding is fuzzy on purpose.
package bulk

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/types"
)

var (
	validNodeTypes = []types.NodeType{
		types.NodeTypeMeter,
		types.NodeTypeDistribution,
		types.NodeTypeConsumer,
	}
	validUtilityTypes = []string{"electricity", "water", "heating", "gas"}

	requiredColumns = []string{"name", "type", "subtype_or_category"}

	dateFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
)

// fallbackEncodings are tried in order when the payload is not valid UTF-8.
// cp1250 first: most sheets come from Central European Excel installs.
var fallbackEncodings = []encoding.Encoding{
	charmap.Windows1250,
	charmap.Windows1252,
	charmap.ISO8859_2,
	charmap.ISO8859_1,
}

// DecodeContent converts raw upload bytes to a string. BOM-prefixed and
// plain UTF-8 are taken as-is; otherwise the single-byte fallbacks are tried
// and the last resort is lossy UTF-8.
func DecodeContent(raw []byte) string {
	if bytes.HasPrefix(raw, utf8BOM) {
		raw = raw[len(utf8BOM):]
	}
	if utf8.Valid(raw) {
		return string(raw)
	}
	for _, enc := range fallbackEncodings {
		decoded, err := io.ReadAll(enc.NewDecoder().Reader(bytes.NewReader(raw)))
		if err != nil {
			continue
		}
		if !strings.ContainsRune(string(decoded), utf8.RuneError) {
			return string(decoded)
		}
	}
	return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
}

// stripComments removes '#' comment lines and leading blank lines so sheets
// can carry human instructions above the header.
func stripComments(content string) string {
	lines := strings.Split(content, "\n")
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "#") {
			continue
		}
		if stripped == "" && len(filtered) == 0 {
			continue
		}
		filtered = append(filtered, line)
	}
	return strings.Join(filtered, "\n")
}

// ParseCSV validates a decoded sheet and returns one row per node to create.
// Row numbers in errors are 1-indexed with the header as row 1, matching
// what the user sees in a spreadsheet.
func ParseCSV(content string) ([]*types.BulkNodeRow, error) {
	cleaned := stripComments(content)
	if strings.TrimSpace(cleaned) == "" {
		return nil, fmt.Errorf("CSV file is empty or contains only comments")
	}

	reader := csv.NewReader(strings.NewReader(cleaned))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("CSV file has no header row")
	}
	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		colIndex[strings.TrimSpace(col)] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := colIndex[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("Missing required columns: %s. Required: %s",
			strings.Join(missing, ", "), strings.Join(requiredColumns, ", "))
	}

	field := func(record []string, name string) string {
		idx, ok := colIndex[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var rows []*types.BulkNodeRow
	rowNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("Invalid CSV format: %v", err)
		}
		rowNum++

		name := field(record, "name")
		if name == "" {
			continue
		}

		nodeType := types.NodeType(field(record, "type"))
		if nodeType == "" {
			return nil, fmt.Errorf("Missing 'type' value at row %d. Must be one of: %s",
				rowNum, joinNodeTypes())
		}
		if !validBulkType(nodeType) {
			return nil, fmt.Errorf("Invalid type '%s' at row %d. Must be one of: %s",
				nodeType, rowNum, joinNodeTypes())
		}

		subtypeOrCategory := field(record, "subtype_or_category")
		if subtypeOrCategory == "" {
			return nil, fmt.Errorf("Missing 'subtype_or_category' value at row %d", rowNum)
		}

		props := map[string]any{
			"name":        name,
			"description": field(record, "description"),
		}

		if utility := strings.ToLower(field(record, "utility_type")); utility != "" {
			if !validUtility(utility) {
				return nil, fmt.Errorf("Invalid utility_type '%s' at row %d. Must be one of: %s",
					utility, rowNum, strings.Join(validUtilityTypes, ", "))
			}
			props["utility_type"] = utility
		}

		// Meters and distributions carry a subtype; consumers a category.
		if nodeType == types.NodeTypeMeter || nodeType == types.NodeTypeDistribution {
			props["subtype"] = subtypeOrCategory
		} else {
			props["category"] = subtypeOrCategory
		}

		if v := field(record, "serial_number"); v != "" {
			props["serial_number"] = v
		}
		if v := field(record, "location"); v != "" {
			props["location"] = v
		}
		if v := field(record, "installation_date"); v != "" {
			// Bad dates are kept as-is; the value is informational.
			props["installation_date"] = v
		}

		rows = append(rows, &types.BulkNodeRow{
			Row:        rowNum,
			Type:       nodeType,
			Properties: props,
			ParentName: field(record, "parent_name"),
		})
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("No valid data rows found in CSV. Make sure you have data after the header row.")
	}
	return rows, nil
}

// ValidInstallationDate reports whether the value matches YYYY-MM-DD. Bad
// values are logged by the caller, not rejected.
func ValidInstallationDate(v string) bool {
	return dateFormat.MatchString(v)
}

func validBulkType(t types.NodeType) bool {
	for _, v := range validNodeTypes {
		if v == t {
			return true
		}
	}
	return false
}

func validUtility(u string) bool {
	for _, v := range validUtilityTypes {
		if v == u {
			return true
		}
	}
	return false
}

func joinNodeTypes() string {
	names := make([]string, len(validNodeTypes))
	for i, t := range validNodeTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
