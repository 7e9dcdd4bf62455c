package importer

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `id,category,year,make,model,style
1,Car,2020,Ford,Mustang,GT
2,Truck,2021,Ford,"F-150, SuperCrew",
3,Car,not-a-year,Ford,Focus,
4,Car,2019,,Civic,
,,,,,

5,SUV,2018,"Land Rover","Range Rover ""Sport""",HSE
`
	res, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(res.Records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(res.Records))
	}
	if res.Rows != 5 {
		t.Errorf("Expected 5 data rows, got %d", res.Rows)
	}
	if len(res.Warnings) != 2 {
		t.Fatalf("Expected 2 warnings, got %v", res.Warnings)
	}
	if res.Warnings[0].Line != 4 || res.Warnings[0].Message != `invalid year "not-a-year"` {
		t.Errorf("Unexpected first warning %+v", res.Warnings[0])
	}
	if res.Warnings[1].Line != 5 || res.Warnings[1].Message != "missing make" {
		t.Errorf("Unexpected second warning %+v", res.Warnings[1])
	}

	truck := res.Records[1]
	if truck.Model != "F-150, SuperCrew" || truck.Style != "" || truck.Year != 2021 {
		t.Errorf("Unexpected quoted record %+v", truck)
	}
	if truck.Handle != "truck-2021-ford-f-150-supercrew-2" {
		t.Errorf("Unexpected handle %s", truck.Handle)
	}
	suv := res.Records[2]
	if suv.Model != `Range Rover "Sport"` || suv.Line != 8 {
		t.Errorf("Unexpected escaped record %+v", suv)
	}
}

func TestParseHeaderAliases(t *testing.T) {
	input := "Vehicle_ID,Category,YEAR,Make,Model,Trim\nA1,Car,2020,Ford,Mustang,GT\n"
	res, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(res.Records) != 1 || res.Records[0].Identifier != "A1" || res.Records[0].Style != "GT" {
		t.Errorf("Unexpected records %+v", res.Records)
	}
}

func TestParseMissingColumns(t *testing.T) {
	_, err := Parse(strings.NewReader("id,category,year,make\n1,Car,2020,Ford\n"))
	if err == nil || !strings.Contains(err.Error(), "model") {
		t.Errorf("Expected missing model column error, got %v", err)
	}

	if _, err := Parse(strings.NewReader("")); err == nil {
		t.Errorf("Expected error for empty input")
	}
}

func TestParseShortRow(t *testing.T) {
	res, err := Parse(strings.NewReader("id,category,year,make,model\n1,Car,2020\n"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(res.Records) != 0 || len(res.Warnings) != 1 || res.Warnings[0].Message != "missing make" {
		t.Errorf("Expected short row to be skipped, got %+v", res)
	}
}
