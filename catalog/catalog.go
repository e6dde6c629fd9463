package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"eduplatform/models"
)

// Course is a purchasable course definition.
type Course struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Duration  string   `json:"duration"`
	Price     int      `json:"price"`
	Syllabus  []string `json:"syllabus"`
	Projects  []string `json:"projects"`
	GroupLink string   `json:"group_link,omitempty"`
}

// Material is a purchasable university subject definition.
type Material struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Year      int    `json:"year"`
	Semester  int    `json:"semester"`
	Price     int    `json:"price"`
	GroupLink string `json:"group_link,omitempty"`
}

// Catalog is the read-only definition set of courses and materials,
// loaded once from JSON files. A secondary group-link registry overrides
// links that were configured after the catalog files were authored.
type Catalog struct {
	mu        sync.RWMutex
	courses   map[string]Course
	materials map[string]Material

	linksFile string
}

type groupLinks struct {
	Courses   map[string]string `json:"courses"`
	Materials map[string]string `json:"materials"`
}

// Load reads the catalog definition files. Missing files yield an empty
// catalog rather than an error so a fresh deployment can boot.
func Load(coursesFile, materialsFile, linksFile string) (*Catalog, error) {
	c := &Catalog{
		courses:   make(map[string]Course),
		materials: make(map[string]Material),
		linksFile: linksFile,
	}

	if coursesFile != "" {
		var courses []Course
		if err := readJSON(coursesFile, &courses); err != nil {
			return nil, fmt.Errorf("loading courses: %v", err)
		}
		for _, course := range courses {
			c.courses[course.ID] = course
		}
	}

	if materialsFile != "" {
		var materials []Material
		if err := readJSON(materialsFile, &materials); err != nil {
			return nil, fmt.Errorf("loading materials: %v", err)
		}
		for _, material := range materials {
			c.materials[material.ID] = material
		}
	}

	return c, nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// GetItem resolves a catalog item of either kind. The second return
// value is false when no such item is configured.
func (c *Catalog) GetItem(itemType models.ItemType, itemID string) (models.CatalogItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch itemType {
	case models.ItemCourse:
		course, ok := c.courses[itemID]
		if !ok {
			return models.CatalogItem{}, false
		}
		return models.CatalogItem{ID: course.ID, Name: course.Name, Price: course.Price, GroupLink: course.GroupLink}, true
	case models.ItemMaterial:
		material, ok := c.materials[itemID]
		if !ok {
			return models.CatalogItem{}, false
		}
		return models.CatalogItem{
			ID:        material.ID,
			Name:      material.Name,
			Price:     material.Price,
			GroupLink: material.GroupLink,
			Year:      material.Year,
			Semester:  material.Semester,
		}, true
	}
	return models.CatalogItem{}, false
}

// GetCourse returns the full course definition.
func (c *Catalog) GetCourse(id string) (Course, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	course, ok := c.courses[id]
	return course, ok
}

// GetMaterial returns the full material definition.
func (c *Catalog) GetMaterial(id string) (Material, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	material, ok := c.materials[id]
	return material, ok
}

// AllCourses lists every configured course.
func (c *Catalog) AllCourses() []Course {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Course, 0, len(c.courses))
	for _, course := range c.courses {
		out = append(out, course)
	}
	return out
}

// MaterialsByYearSemester lists materials for one year/semester pair.
func (c *Catalog) MaterialsByYearSemester(year, semester int) []Material {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Material
	for _, material := range c.materials {
		if material.Year == year && material.Semester == semester {
			out = append(out, material)
		}
	}
	return out
}

// GroupLink resolves the group/resource access link for an item. The
// catalog entry wins; otherwise the secondary link registry is
// consulted, first under its per-kind section and then as a flat map.
// Returns "" when nothing is configured; callers must not treat that
// as an error.
func (c *Catalog) GroupLink(itemType models.ItemType, itemID string) string {
	if item, ok := c.GetItem(itemType, itemID); ok && item.GroupLink != "" {
		return item.GroupLink
	}

	if c.linksFile == "" {
		return ""
	}
	data, err := os.ReadFile(c.linksFile)
	if err != nil {
		return ""
	}

	var links groupLinks
	if err := json.Unmarshal(data, &links); err == nil {
		if itemType == models.ItemCourse && links.Courses[itemID] != "" {
			return links.Courses[itemID]
		}
		if itemType == models.ItemMaterial && links.Materials[itemID] != "" {
			return links.Materials[itemID]
		}
	}

	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err == nil {
		var link string
		if raw, ok := flat[itemID]; ok && json.Unmarshal(raw, &link) == nil {
			return link
		}
	}
	return ""
}
