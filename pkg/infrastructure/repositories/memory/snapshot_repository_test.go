package memory

import (
	"errors"
	"testing"

	"github.com/Surya-0/SCM-Builder/pkg/domain/repositories"
	fixtures "github.com/Surya-0/SCM-Builder/pkg/infrastructure/testing"
)

func TestSnapshotRepository_SaveAndGet(t *testing.T) {
	repo := NewSnapshotRepository()
	net, _ := fixtures.BuildFixtureNetwork()

	if err := repo.SaveBaseline(net); err != nil {
		t.Fatalf("Failed to save baseline: %v", err)
	}

	got, err := repo.Baseline(0)
	if err != nil {
		t.Fatalf("Failed to get baseline: %v", err)
	}
	if got.NodeCount() != net.NodeCount() {
		t.Errorf("Expected %d nodes, got %d", net.NodeCount(), got.NodeCount())
	}
	if got == net {
		t.Error("Expected a copy of the saved snapshot, got the same pointer")
	}
}

func TestSnapshotRepository_StoredSnapshotsAreImmutable(t *testing.T) {
	repo := NewSnapshotRepository()
	net, _ := fixtures.BuildFixtureNetwork()
	_ = repo.SaveBaseline(net)

	// Mutations after save and after get must not leak into the store
	po, _ := net.ProductOffering("PO_001")
	po.Demand = 999

	got, _ := repo.Baseline(0)
	stored, _ := got.ProductOffering("PO_001")
	if stored.Demand != 100 {
		t.Errorf("Expected stored demand 100, got %v", stored.Demand)
	}
	stored.Demand = 5

	again, _ := repo.Baseline(0)
	po2, _ := again.ProductOffering("PO_001")
	if po2.Demand != 100 {
		t.Errorf("Expected stored demand 100 after mutating a read copy, got %v", po2.Demand)
	}
}

func TestSnapshotRepository_NotFound(t *testing.T) {
	repo := NewSnapshotRepository()

	if _, err := repo.Baseline(3); !errors.Is(err, repositories.ErrSnapshotNotFound) {
		t.Errorf("Expected ErrSnapshotNotFound, got %v", err)
	}
	if _, err := repo.LatestSimulation(); !errors.Is(err, repositories.ErrSnapshotNotFound) {
		t.Errorf("Expected ErrSnapshotNotFound, got %v", err)
	}
	if err := repo.SaveSimulation(nil); err == nil {
		t.Error("Expected error saving a nil snapshot")
	}
}

func TestSnapshotRepository_LatestAndTimestamps(t *testing.T) {
	repo := NewSnapshotRepository()
	net, _ := fixtures.BuildFixtureNetwork()

	for _, ts := range []int{2, 0, 5, 1} {
		snapshot := net.Clone()
		snapshot.Timestamp = ts
		if err := repo.SaveSimulation(snapshot); err != nil {
			t.Fatalf("Failed to save simulation %d: %v", ts, err)
		}
	}

	timestamps := repo.SimulationTimestamps()
	expected := []int{0, 1, 2, 5}
	if len(timestamps) != len(expected) {
		t.Fatalf("Expected %d timestamps, got %d", len(expected), len(timestamps))
	}
	for i, ts := range expected {
		if timestamps[i] != ts {
			t.Errorf("Expected timestamp %d at %d, got %d", ts, i, timestamps[i])
		}
	}

	latest, err := repo.LatestSimulation()
	if err != nil {
		t.Fatalf("Failed to get latest simulation: %v", err)
	}
	if latest.Timestamp != 5 {
		t.Errorf("Expected latest timestamp 5, got %d", latest.Timestamp)
	}
	if len(repo.BaselineTimestamps()) != 0 {
		t.Error("Expected simulation saves to leave the baseline store empty")
	}
}

func TestSnapshotRepository_SaveReplacesTimestamp(t *testing.T) {
	repo := NewSnapshotRepository()
	net, _ := fixtures.BuildFixtureNetwork()
	_ = repo.SaveBaseline(net)

	changed := net.Clone()
	po, _ := changed.ProductOffering("PO_002")
	po.Demand = 75
	_ = repo.SaveBaseline(changed)

	got, _ := repo.Baseline(0)
	stored, _ := got.ProductOffering("PO_002")
	if stored.Demand != 75 {
		t.Errorf("Expected replaced demand 75, got %v", stored.Demand)
	}
}
