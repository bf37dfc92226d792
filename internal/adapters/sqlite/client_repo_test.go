package sqlite_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/example/hubledger/internal/adapters/sqlite"
	"github.com/example/hubledger/internal/core/errs"
	"github.com/example/hubledger/internal/ports/secondary"
)

func newClient(hubID int64, name string) *secondary.ClientRecord {
	return &secondary.ClientRecord{
		HubID:              hubID,
		Name:               name,
		EngagementStatus:   "Active",
		CommercialModel:    "FTE",
		CapabilityCategory: "MEDIA+",
		Capabilities:       []string{"Paid Search", "Commerce", "Ad Operations"},
		EmployeeCount:      10,
	}
}

func TestClientRepository_CapabilityListOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewClientRepository(db)
	ctx := actorCtx("admin")
	hubID := seedHub(t, db, "GroupM")

	if err := repo.Create(ctx, newClient(hubID, "Client 1")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetByName(ctx, hubID, "Client 1")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	want := []string{"Paid Search", "Commerce", "Ad Operations"}
	if !reflect.DeepEqual(got.Capabilities, want) {
		t.Errorf("Capabilities = %v, want %v", got.Capabilities, want)
	}
}

func TestClientRepository_LegacyCapabilityString(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewClientRepository(db)
	hubID := seedHub(t, db, "AKQA")

	_, err := db.Exec("INSERT INTO client_metrics (hub_id, client_name, capability_name) VALUES (?, 'Legacy', 'DevOps')", hubID)
	if err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetByName(context.Background(), hubID, "Legacy")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if !reflect.DeepEqual(got.Capabilities, []string{"DevOps"}) {
		t.Errorf("Capabilities = %v, want [DevOps]", got.Capabilities)
	}
}

func TestClientRepository_DuplicateAndUpdate(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewClientRepository(db)
	ctx := actorCtx("admin")
	hubID := seedHub(t, db, "AKQA")

	c := newClient(hubID, "Client 1")
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Create(ctx, newClient(hubID, "Client 1")); !errors.Is(err, errs.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}

	c.EngagementStatus = "Completed"
	c.Capabilities = []string{"CRM"}
	if err := repo.Update(ctx, c); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, _ := repo.GetByName(ctx, hubID, "Client 1")
	if got.EngagementStatus != "Completed" || len(got.Capabilities) != 1 || got.Capabilities[0] != "CRM" {
		t.Errorf("unexpected client after update: %+v", got)
	}

	if err := repo.Update(ctx, &secondary.ClientRecord{ID: 999, Name: "Ghost", EngagementStatus: "Active", CommercialModel: "FTE"}); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClientRepository_ListCountDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewClientRepository(db)
	ctx := context.Background()
	hubID := seedHub(t, db, "AKQA")

	for _, name := range []string{"Client B", "Client A"} {
		if err := repo.Create(ctx, newClient(hubID, name)); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	clients, err := repo.List(ctx, hubID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(clients) != 2 || clients[0].Name != "Client A" {
		t.Errorf("unexpected list order")
	}

	if err := repo.Delete(ctx, hubID, "Client A"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n, _ := repo.Count(ctx, hubID); n != 1 {
		t.Errorf("expected 1 client, got %d", n)
	}
}
