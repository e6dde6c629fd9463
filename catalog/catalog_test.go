package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"eduplatform/models"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadAndGetItem(t *testing.T) {
	dir := t.TempDir()
	coursesFile := writeFile(t, dir, "courses.json", `[
		{"id": "c1", "name": "Python Basics", "duration": "8 weeks", "price": 50000, "group_link": "https://t.me/python"},
		{"id": "c2", "name": "Go Workshop", "duration": "6 weeks", "price": 70000}
	]`)
	materialsFile := writeFile(t, dir, "materials.json", `[
		{"id": "m1", "name": "Calculus", "year": 2, "semester": 1, "price": 20000}
	]`)

	cat, err := Load(coursesFile, materialsFile, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	item, ok := cat.GetItem(models.ItemCourse, "c1")
	if !ok || item.Name != "Python Basics" || item.Price != 50000 {
		t.Errorf("GetItem course wrong: %+v ok=%v", item, ok)
	}

	item, ok = cat.GetItem(models.ItemMaterial, "m1")
	if !ok || item.Year != 2 || item.Semester != 1 {
		t.Errorf("GetItem material wrong: %+v ok=%v", item, ok)
	}

	if _, ok := cat.GetItem(models.ItemCourse, "nope"); ok {
		t.Error("unknown item resolved")
	}

	materials := cat.MaterialsByYearSemester(2, 1)
	if len(materials) != 1 || materials[0].ID != "m1" {
		t.Errorf("MaterialsByYearSemester wrong: %+v", materials)
	}
	if got := cat.MaterialsByYearSemester(3, 1); len(got) != 0 {
		t.Errorf("expected no materials for year 3, got %+v", got)
	}
}

func TestLoadMissingFiles(t *testing.T) {
	dir := t.TempDir()

	cat, err := Load(filepath.Join(dir, "none.json"), filepath.Join(dir, "none2.json"), "")
	if err != nil {
		t.Fatalf("missing files should yield an empty catalog: %v", err)
	}
	if len(cat.AllCourses()) != 0 {
		t.Error("expected empty catalog")
	}
}

func TestGroupLinkFallback(t *testing.T) {
	dir := t.TempDir()
	coursesFile := writeFile(t, dir, "courses.json", `[
		{"id": "c1", "name": "With Link", "price": 1, "group_link": "https://t.me/inline"},
		{"id": "c2", "name": "From Registry", "price": 1},
		{"id": "c3", "name": "From Flat", "price": 1},
		{"id": "c4", "name": "No Link", "price": 1}
	]`)
	linksFile := writeFile(t, dir, "links.json", `{
		"courses": {"c2": "https://t.me/registry"},
		"c3": "https://t.me/flat"
	}`)

	cat, err := Load(coursesFile, "", linksFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := cat.GroupLink(models.ItemCourse, "c1"); got != "https://t.me/inline" {
		t.Errorf("catalog entry should win: %q", got)
	}
	if got := cat.GroupLink(models.ItemCourse, "c2"); got != "https://t.me/registry" {
		t.Errorf("registry section lookup failed: %q", got)
	}
	if got := cat.GroupLink(models.ItemCourse, "c3"); got != "https://t.me/flat" {
		t.Errorf("flat map fallback failed: %q", got)
	}
	if got := cat.GroupLink(models.ItemCourse, "c4"); got != "" {
		t.Errorf("missing link should be empty, got %q", got)
	}
}
