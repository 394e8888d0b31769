package bulk

import (
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/types"
)

const validSheet = `name,type,subtype_or_category,utility_type,parent_name,serial_number,location,description
Main Meter,Meter,Main,electricity,,SN-100,Basement,Building feed
Panel A,Distribution,Main Panel,electricity,Main Meter,,,
Lobby Lights,Consumer,Lighting,electricity,Panel A,,,Lobby fixtures
`

func TestParseCSVValid(t *testing.T) {
	rows, err := ParseCSV(validSheet)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}

	meter := rows[0]
	if meter.Type != types.NodeTypeMeter {
		t.Errorf("type = %q, want Meter", meter.Type)
	}
	if meter.Properties["subtype"] != "Main" {
		t.Errorf("meter subtype = %v", meter.Properties["subtype"])
	}
	if meter.Properties["serial_number"] != "SN-100" {
		t.Errorf("serial_number = %v", meter.Properties["serial_number"])
	}
	if meter.ParentName != "" {
		t.Errorf("meter should have no parent, got %q", meter.ParentName)
	}

	consumer := rows[2]
	if consumer.Properties["category"] != "Lighting" {
		t.Errorf("consumer category = %v", consumer.Properties["category"])
	}
	if _, hasSubtype := consumer.Properties["subtype"]; hasSubtype {
		t.Error("consumer must carry category, not subtype")
	}
	if consumer.ParentName != "Panel A" {
		t.Errorf("parent = %q, want Panel A", consumer.ParentName)
	}
}

func TestParseCSVCommentsAndBlanks(t *testing.T) {
	sheet := "# instructions for the operator\n# second comment line\n\n" + validSheet
	rows, err := ParseCSV(sheet)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("rows = %d, want 3", len(rows))
	}
}

func TestParseCSVSkipsEmptyNameRows(t *testing.T) {
	sheet := "name,type,subtype_or_category\nMeter A,Meter,Main\n  ,Meter,Main\nMeter B,Meter,Submeter\n"
	rows, err := ParseCSV(sheet)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("rows = %d, want 2", len(rows))
	}
}

func TestParseCSVRowNumbersSurviveSkippedRows(t *testing.T) {
	// Row 3 has no name and is dropped; row 4 must still report as row 4.
	sheet := "name,type,subtype_or_category\nMeter A,Meter,Main\n  ,Meter,Main\nMeter B,Meter,Submeter\n"
	rows, err := ParseCSV(sheet)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Row != 2 {
		t.Errorf("first row = %d, want 2", rows[0].Row)
	}
	if rows[1].Row != 4 {
		t.Errorf("second row = %d, want 4", rows[1].Row)
	}
}

func TestParseCSVErrors(t *testing.T) {
	cases := []struct {
		name    string
		sheet   string
		wantErr string
	}{
		{
			name:    "empty",
			sheet:   "# only a comment\n",
			wantErr: "empty or contains only comments",
		},
		{
			name:    "missing columns",
			sheet:   "name,description\nX,Y\n",
			wantErr: "Missing required columns: type, subtype_or_category",
		},
		{
			name:    "invalid type row number",
			sheet:   "name,type,subtype_or_category\nGood,Meter,Main\nBad,Turbine,Main\n",
			wantErr: "Invalid type 'Turbine' at row 3",
		},
		{
			name:    "missing subtype",
			sheet:   "name,type,subtype_or_category\nX,Meter,\n",
			wantErr: "Missing 'subtype_or_category' value at row 2",
		},
		{
			name:    "invalid utility",
			sheet:   "name,type,subtype_or_category,utility_type\nX,Meter,Main,steam\n",
			wantErr: "Invalid utility_type 'steam' at row 2",
		},
		{
			name:    "header only",
			sheet:   "name,type,subtype_or_category\n",
			wantErr: "No valid data rows found",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCSV(tc.sheet)
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tc.wantErr)
			}
		})
	}
}

func TestParseCSVUtilityLowercased(t *testing.T) {
	sheet := "name,type,subtype_or_category,utility_type\nX,Meter,Main,ELECTRICITY\n"
	rows, err := ParseCSV(sheet)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if rows[0].Properties["utility_type"] != "electricity" {
		t.Errorf("utility_type = %v", rows[0].Properties["utility_type"])
	}
}

func TestDecodeContentBOM(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("name,type\n")...)
	got := DecodeContent(raw)
	if got != "name,type\n" {
		t.Errorf("BOM not stripped: %q", got)
	}
}

func TestDecodeContentCP1250(t *testing.T) {
	// "Piętro" (Polish for floor) encoded as cp1250; 0xEA is ę and is not
	// valid UTF-8 on its own.
	encoded, err := charmap.Windows1250.NewEncoder().String("Piętro 1,Meter,Main")
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	got := DecodeContent([]byte(encoded))
	if !strings.Contains(got, "Piętro") {
		t.Errorf("cp1250 fallback failed: %q", got)
	}
}

func TestValidInstallationDate(t *testing.T) {
	if !ValidInstallationDate("2025-01-31") {
		t.Error("2025-01-31 should be valid")
	}
	for _, bad := range []string{"31-01-2025", "2025/01/31", "2025-1-3", "soon"} {
		if ValidInstallationDate(bad) {
			t.Errorf("%q should be invalid", bad)
		}
	}
}
