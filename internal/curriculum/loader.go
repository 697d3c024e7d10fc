package curriculum

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Curriculum is a loaded catalog together with its dependents index. Both
// are read-only once built.
type Curriculum struct {
	ID      string
	Name    string
	MaxYear int
	Catalog *Catalog
	Index   *DependentsIndex
	// Version changes whenever the courses, edges or MaxYear change.
	Version string
}

// NewCurriculum builds the catalog and dependents index for a curriculum file.
func NewCurriculum(f CurriculumFile) (*Curriculum, error) {
	if strings.TrimSpace(f.ID) == "" {
		return nil, fmt.Errorf("curriculum %q: missing id", f.Name)
	}
	catalog, err := NewCatalog(f.ID, f.Courses)
	if err != nil {
		return nil, err
	}
	maxYear := f.MaxYear
	if maxYear <= 0 {
		maxYear = catalog.MaxYear()
	}
	return &Curriculum{
		ID:      f.ID,
		Name:    f.Name,
		MaxYear: maxYear,
		Catalog: catalog,
		Index:   BuildDependentsIndex(catalog),
		Version: catalogVersion(catalog, maxYear),
	}, nil
}

// Loader loads and caches curricula from the filesystem.
type Loader struct {
	rootDir   string
	schema    *gojsonschema.Schema
	curricula map[string]*Curriculum
	mu        sync.RWMutex
}

// NewLoader creates a new curriculum loader and loads all content.
func NewLoader(rootDir string) (*Loader, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(curriculumSchema))
	if err != nil {
		return nil, fmt.Errorf("compiling curriculum schema: %w", err)
	}

	l := &Loader{
		rootDir:   rootDir,
		schema:    schema,
		curricula: make(map[string]*Curriculum),
	}

	if err := l.loadAll(); err != nil {
		return nil, fmt.Errorf("loading curricula: %w", err)
	}

	slog.Info("curricula loaded", "count", len(l.curricula))
	return l, nil
}

// Get returns a curriculum by ID.
func (l *Loader) Get(id string) (*Curriculum, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.curricula[id]
	return c, ok
}

// All returns all loaded curricula sorted by ID.
func (l *Loader) All() []*Curriculum {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*Curriculum, 0, len(l.curricula))
	for _, c := range l.curricula {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Register builds and stores a curriculum supplied by another provider,
// replacing any curriculum with the same ID.
func (l *Loader) Register(f CurriculumFile) (*Curriculum, error) {
	c, err := NewCurriculum(f)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.curricula[c.ID] = c
	l.mu.Unlock()
	return c, nil
}

func (l *Loader) loadAll() error {
	return filepath.Walk(l.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			return l.loadFile(path, l.decodeYAML)
		case ".json":
			return l.loadFile(path, l.decodeJSON)
		}
		return nil
	})
}

func (l *Loader) loadFile(path string, decode func([]byte) (CurriculumFile, error)) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	f, err := decode(data)
	if err != nil {
		slog.Warn("skipping invalid curriculum file", "path", path, "error", err)
		return nil
	}
	if f.ID == "" {
		return nil // Not a curriculum file
	}

	c, err := NewCurriculum(f)
	if err != nil {
		slog.Warn("skipping malformed curriculum", "path", path, "curriculum_id", f.ID, "error", err)
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.curricula[c.ID]; exists {
		slog.Warn("duplicate curriculum id, keeping first", "path", path, "curriculum_id", c.ID)
		return nil
	}
	l.curricula[c.ID] = c
	return nil
}

func (l *Loader) decodeYAML(data []byte) (CurriculumFile, error) {
	var f CurriculumFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return CurriculumFile{}, err
	}
	return f, nil
}

func (l *Loader) decodeJSON(data []byte) (CurriculumFile, error) {
	result, err := l.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return CurriculumFile{}, fmt.Errorf("validating json: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return CurriculumFile{}, fmt.Errorf("schema violations: %s", strings.Join(msgs, "; "))
	}

	var f CurriculumFile
	if err := json.Unmarshal(data, &f); err != nil {
		return CurriculumFile{}, err
	}
	return f, nil
}

// Identity fields are checked by NewCatalog so a missing id or code surfaces
// as a MalformedCatalogError rather than a schema violation.
const curriculumSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["id", "courses"],
  "properties": {
    "id": {"type": "string"},
    "name": {"type": "string"},
    "max_year": {"type": "integer", "minimum": 0},
    "courses": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "id": {"type": "string"},
          "code": {"type": "string"},
          "name": {"type": "string"},
          "year": {"type": "string"},
          "term": {"type": "string"},
          "hours": {"type": "integer", "minimum": 0},
          "curriculum_id": {"type": "string"},
          "prerequisites": {
            "type": "array",
            "items": {
              "type": "object",
              "properties": {
                "id": {"type": "string"},
                "code": {"type": "string"}
              }
            }
          }
        }
      }
    }
  }
}`
