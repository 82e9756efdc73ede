package csv

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demand.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}

func TestLoader_LoadDemands(t *testing.T) {
	path := writeTemp(t, "offering_id,demand\nPO_001,120\nPO_002, 40.5\n")

	orders, err := NewLoader().LoadDemands(path)
	if err != nil {
		t.Fatalf("Failed to load demands: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("Expected 2 orders, got %d", len(orders))
	}
	if orders[0].OfferingID != "PO_001" || orders[0].Demand != 120 {
		t.Errorf("Expected PO_001 with demand 120, got %s with %v", orders[0].OfferingID, orders[0].Demand)
	}
	if orders[1].Demand != 40.5 {
		t.Errorf("Expected demand 40.5, got %v", orders[1].Demand)
	}
}

func TestLoader_LoadDemands_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"header mismatch", "offering,qty\nPO_001,1\n"},
		{"no rows", "offering_id,demand\n"},
		{"bad number", "offering_id,demand\nPO_001,many\n"},
		{"negative demand", "offering_id,demand\nPO_001,-3\n"},
		{"not an offering", "offering_id,demand\nP_001,3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewLoader().LoadDemands(writeTemp(t, tt.content)); err == nil {
				t.Errorf("Expected error for %s", tt.name)
			}
		})
	}

	if _, err := NewLoader().LoadDemands(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("Expected error for a missing file")
	}
}
