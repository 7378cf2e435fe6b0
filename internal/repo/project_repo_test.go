package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/reactivetech/go-board-backend/internal/domain"
)

func TestCreateProject_PersistsJSONLists(t *testing.T) {
	db := newDocJobDB(t, &domain.Project{})
	ctx := context.Background()

	p, err := CreateProject(ctx, db, &domain.Project{
		Name:             "Atlas",
		Status:           domain.ProjectStatusPlanning,
		FeaturesUsed:     []string{"f1", "f2"},
		DeployedFeatures: []string{"f1"},
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if p.ID == "" {
		t.Fatalf("id not assigned: %+v", p)
	}

	got, err := GetProject(ctx, db, p.ID)
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if len(got.FeaturesUsed) != 2 || len(got.DeployedFeatures) != 1 {
		t.Fatalf("JSON lists did not round-trip: %+v", got)
	}
}

func TestUpdateProject_MissingRowIsNotFound(t *testing.T) {
	db := newDocJobDB(t, &domain.Project{})

	err := UpdateProject(context.Background(), db, &domain.Project{ID: "ghost", Name: "x"})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("want record-not-found, got %v", err)
	}
}

func TestDeleteProject_SoftDeleteHidesRow(t *testing.T) {
	db := newDocJobDB(t, &domain.Project{})
	ctx := context.Background()

	p, _ := CreateProject(ctx, db, &domain.Project{Name: "Gone", Status: domain.ProjectStatusPlanning})
	if err := DeleteProject(ctx, db, p.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	if _, err := GetProject(ctx, db, p.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("deleted project still visible, err=%v", err)
	}
	if err := DeleteProject(ctx, db, p.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("second delete: want record-not-found, got %v", err)
	}
}

func TestListProjectsPage_And_Count(t *testing.T) {
	db := newDocJobDB(t, &domain.Project{})
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		if _, err := CreateProject(ctx, db, &domain.Project{Name: name, Status: domain.ProjectStatusPlanning}); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	total, err := CountProjects(ctx, db)
	if err != nil || total != 3 {
		t.Fatalf("CountProjects = %d, %v", total, err)
	}

	page, err := ListProjectsPage(ctx, db, 0, 2)
	if err != nil || len(page) != 2 {
		t.Fatalf("page 1: len=%d err=%v", len(page), err)
	}
	page, err = ListProjectsPage(ctx, db, 2, 2)
	if err != nil || len(page) != 1 {
		t.Fatalf("page 2: len=%d err=%v", len(page), err)
	}
}

func TestProjectsStats(t *testing.T) {
	db := newDocJobDB(t, &domain.Project{})
	ctx := context.Background()

	count, maxTS, err := ProjectsStats(ctx, db)
	if err != nil || count != 0 || maxTS != nil {
		t.Fatalf("empty stats: count=%d ts=%v err=%v", count, maxTS, err)
	}

	before := time.Now().UTC().Add(-time.Minute)
	if _, err := CreateProject(ctx, db, &domain.Project{Name: "a", Status: domain.ProjectStatusPlanning}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	count, maxTS, err = ProjectsStats(ctx, db)
	if err != nil || count != 1 || maxTS == nil {
		t.Fatalf("stats after insert: count=%d ts=%v err=%v", count, maxTS, err)
	}
	if maxTS.Before(before) {
		t.Fatalf("max updated_at seems stale: %v", maxTS)
	}
}
