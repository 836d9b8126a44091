// Package catalog holds the bundled lesson content and the loader that
// merges optional lesson files into it. The catalog is built once at
// process start and is immutable afterwards; everything downstream
// (syncer, content service) receives copies of its lesson slice.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	lsync "lsync-go/internal/sync"
)

// Catalog is the in-memory, ordered collection of lessons.
type Catalog struct {
	lessons []lsync.Lesson
}

// New builds the catalog from the built-in lessons only.
func New() (*Catalog, error) {
	return build(builtinLessons())
}

// Load builds the catalog from the built-in lessons plus any *.yaml /
// *.yml lesson files found in dir. An empty dir means built-ins only.
func Load(dir string) (*Catalog, error) {
	lessons := builtinLessons()
	if dir != "" {
		extra, err := loadDir(dir)
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, extra...)
	}
	return build(lessons)
}

func build(lessons []lsync.Lesson) (*Catalog, error) {
	for i := range lessons {
		lessons[i].TotalSlides = len(lessons[i].Slides)
	}
	if err := validate(lessons); err != nil {
		return nil, err
	}
	return &Catalog{lessons: lessons}, nil
}

// Lessons returns a copy of the lesson slice, in catalog order.
func (c *Catalog) Lessons() []lsync.Lesson {
	out := make([]lsync.Lesson, len(c.lessons))
	copy(out, c.lessons)
	return out
}

// Find returns the lesson with the given title.
func (c *Catalog) Find(title string) (lsync.Lesson, bool) {
	for _, lesson := range c.lessons {
		if lesson.Title == title {
			return lesson, true
		}
	}
	return lsync.Lesson{}, false
}

// Len reports the number of lessons.
func (c *Catalog) Len() int { return len(c.lessons) }

// lessonFile is the YAML authoring format for an external lesson.
type lessonFile struct {
	Title       string      `yaml:"title"`
	Description string      `yaml:"description"`
	Difficulty  string      `yaml:"difficulty"`
	Duration    string      `yaml:"duration"`
	Icon        string      `yaml:"icon"`
	Color       string      `yaml:"color"`
	Slides      []slideFile `yaml:"slides"`
}

type slideFile struct {
	ID      string         `yaml:"id"`
	Type    string         `yaml:"type"`
	Title   string         `yaml:"title"`
	Content map[string]any `yaml:"content"`
}

func loadDir(dir string) ([]lsync.Lesson, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading lessons dir %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	// Deterministic catalog order regardless of directory iteration.
	sort.Strings(names)

	var lessons []lsync.Lesson
	for _, name := range names {
		lesson, err := loadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, lesson)
	}
	return lessons, nil
}

func loadFile(path string) (lsync.Lesson, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return lsync.Lesson{}, fmt.Errorf("reading lesson file %s: %w", path, err)
	}

	var lf lessonFile
	if err := yaml.Unmarshal(raw, &lf); err != nil {
		return lsync.Lesson{}, fmt.Errorf("parsing lesson file %s: %w", path, err)
	}

	lesson := lsync.Lesson{
		Title:       lf.Title,
		Description: lf.Description,
		Difficulty:  lf.Difficulty,
		Duration:    lf.Duration,
		Icon:        lf.Icon,
		Color:       lf.Color,
	}
	for i, sf := range lf.Slides {
		id := sf.ID
		if id == "" {
			id = fmt.Sprintf("slide-%d", i+1)
		}
		lesson.Slides = append(lesson.Slides, lsync.Slide{
			ID:      id,
			Order:   i + 1,
			Type:    sf.Type,
			Title:   sf.Title,
			Content: sf.Content,
		})
	}
	return lesson, nil
}

// validate checks each lesson's fields plus the cross-lesson uniqueness
// convention the natural-key lookup relies on.
func validate(lessons []lsync.Lesson) error {
	seen := make(map[string]bool, len(lessons))
	for _, lesson := range lessons {
		if err := validateLesson(lesson); err != nil {
			return fmt.Errorf("lesson %q: %w", lesson.Title, err)
		}
		if seen[lesson.Title] {
			return fmt.Errorf("duplicate lesson title %q in catalog", lesson.Title)
		}
		seen[lesson.Title] = true
	}
	return nil
}

func validateLesson(lesson lsync.Lesson) error {
	return validation.ValidateStruct(&lesson,
		validation.Field(&lesson.Title, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("catalog.title_blank", "title must not be blank")
			}
			return nil
		})),
		validation.Field(&lesson.Difficulty, validation.Required),
		validation.Field(&lesson.Slides, validation.Required, validation.By(func(any) error {
			return validateSlides(lesson.Slides)
		})),
	)
}

// validateSlides enforces the dense 1..N order invariant and per-slide
// required fields before anything reaches the store.
func validateSlides(slides []lsync.Slide) error {
	ids := make(map[string]bool, len(slides))
	for i, slide := range slides {
		if slide.ID == "" {
			return validation.NewError("catalog.slide_id", fmt.Sprintf("slide %d has no id", i+1))
		}
		if ids[slide.ID] {
			return validation.NewError("catalog.slide_id_dup", fmt.Sprintf("duplicate slide id %q", slide.ID))
		}
		ids[slide.ID] = true
		if slide.Order != i+1 {
			return validation.NewError("catalog.slide_order",
				fmt.Sprintf("slide %q has order %d, expected %d", slide.ID, slide.Order, i+1))
		}
		if slide.Type == "" {
			return validation.NewError("catalog.slide_type", fmt.Sprintf("slide %q has no type", slide.ID))
		}
	}
	return nil
}
