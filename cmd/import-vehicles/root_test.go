package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GKRMP/garage/internal/shopify/shopifytest"
)

func setupEnv(t *testing.T) *shopifytest.Admin {
	t.Helper()
	admin := shopifytest.NewAdmin()
	t.Cleanup(admin.Close)
	t.Setenv("SHOPIFY_SHOP_DOMAIN", admin.Server.URL)
	t.Setenv("SHOPIFY_ACCESS_TOKEN", "shpat_test")
	t.Setenv("DB_HOST", "")
	t.Setenv("LOG_LEVEL", "error")
	return admin
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vehicles.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write csv: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

const sampleCSV = "id,category,year,make,model,style\n" +
	"1,Car,2020,Ford,F-150,XLT\n" +
	"2,Car,2018,Honda,Civic,\n" +
	"3,Car,,Ford,Bronco,\n"

func TestImportCreatesVehicles(t *testing.T) {
	admin := setupEnv(t)
	path := writeCSV(t, sampleCSV)

	out, err := execute(t, "--ensure-definition", "--batch-size", "1", "--delay", "0", path)
	if err != nil {
		t.Fatalf("Unexpected error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "COMPLETED") || !strings.Contains(out, "created: 2") {
		t.Errorf("Unexpected summary:\n%s", out)
	}
	if !strings.Contains(out, "warning: line 4") {
		t.Errorf("Expected warning for the row without a year:\n%s", out)
	}
	if n := admin.Calls("metaobjectBatchCreate"); n != 2 {
		t.Errorf("Expected 2 batch mutations, got %d", n)
	}
	if n := admin.Calls("metaobjectDefinitionCreate"); n != 1 {
		t.Errorf("Expected the definition to be created once, got %d", n)
	}

	handles := map[string]bool{}
	for _, m := range admin.Metaobjects() {
		handles[m.Handle] = true
	}
	if !handles["car-2020-ford-f-150-1"] || !handles["car-2018-honda-civic-2"] {
		t.Errorf("Unexpected handles %v", handles)
	}
}

func TestImportDryRunWritesNothing(t *testing.T) {
	admin := setupEnv(t)
	path := writeCSV(t, sampleCSV)

	out, err := execute(t, "--dry-run", "--json", "--ensure-definition", "--file", path)
	if err != nil {
		t.Fatalf("Unexpected error: %v\n%s", err, out)
	}
	var summary struct {
		Run struct {
			DryRun    bool `json:"dry_run"`
			TotalRows int  `json:"total_rows"`
		} `json:"run"`
	}
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("Expected JSON summary: %v\n%s", err, out)
	}
	if !summary.Run.DryRun || summary.Run.TotalRows != 3 {
		t.Errorf("Unexpected summary %+v", summary)
	}
	if admin.Calls("metaobjectBatchCreate") != 0 || admin.Calls("metaobjectDefinitionCreate") != 0 {
		t.Errorf("Expected no writes in dry run")
	}
}

func TestImportRequiresFile(t *testing.T) {
	setupEnv(t)
	if _, err := execute(t); err == nil {
		t.Errorf("Expected error without a file")
	}
}

func TestImportRejectsBadHeader(t *testing.T) {
	setupEnv(t)
	path := writeCSV(t, "id,make\n1,Ford\n")
	if _, err := execute(t, path); err == nil || !strings.Contains(err.Error(), "missing required columns") {
		t.Errorf("Expected header error, got %v", err)
	}
}
