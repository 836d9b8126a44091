package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	lsync "lsync-go/internal/sync"
)

func TestNew_BuiltinLessons(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.Len() == 0 {
		t.Fatal("New() built an empty catalog")
	}

	for _, lesson := range c.Lessons() {
		if lesson.TotalSlides != len(lesson.Slides) {
			t.Errorf("lesson %q totalSlides = %d, want %d", lesson.Title, lesson.TotalSlides, len(lesson.Slides))
		}
		for i, slide := range lesson.Slides {
			if slide.Order != i+1 {
				t.Errorf("lesson %q slide %d order = %d, want %d", lesson.Title, i, slide.Order, i+1)
			}
		}
	}
}

func TestFind(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	title := c.Lessons()[0].Title
	lesson, ok := c.Find(title)
	if !ok {
		t.Fatalf("Find(%q) = false, want true", title)
	}
	if lesson.Title != title {
		t.Errorf("Find() title = %q, want %q", lesson.Title, title)
	}

	if _, ok := c.Find("no such lesson"); ok {
		t.Error("Find() = true for unknown title, want false")
	}
}

func TestLessons_ReturnsCopy(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	lessons := c.Lessons()
	lessons[0].Title = "mutated"

	if c.Lessons()[0].Title == "mutated" {
		t.Error("Lessons() exposed internal slice to mutation")
	}
}

func TestLoad_YAMLDirectory(t *testing.T) {
	dir := t.TempDir()
	lessonYAML := `title: "Social Engineering"
description: "Recognizing manipulation tactics"
difficulty: "intermediate"
duration: "15 min"
icon: "mask"
color: "#7c3aed"
slides:
  - id: "se-intro"
    type: "intro"
    title: "What is social engineering?"
    content:
      text: "Attackers target people, not machines."
  - id: "se-quiz"
    type: "quiz"
    title: "Spot the trick"
    content:
      question: "A stranger asks for your password. What do you do?"
`
	if err := os.WriteFile(filepath.Join(dir, "social.yaml"), []byte(lessonYAML), 0o644); err != nil {
		t.Fatalf("writing lesson file: %v", err)
	}
	// Non-YAML files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatalf("writing stray file: %v", err)
	}

	base, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Len() != base.Len()+1 {
		t.Fatalf("Len() = %d, want %d", c.Len(), base.Len()+1)
	}

	lesson, ok := c.Find("Social Engineering")
	if !ok {
		t.Fatal("Find(Social Engineering) = false after Load")
	}
	if lesson.TotalSlides != 2 {
		t.Errorf("totalSlides = %d, want 2", lesson.TotalSlides)
	}
	if lesson.Slides[1].Order != 2 {
		t.Errorf("second slide order = %d, want 2", lesson.Slides[1].Order)
	}
	if lesson.Slides[0].Content["text"] == nil {
		t.Error("slide content not loaded")
	}
}

func TestLoad_EmptyDirUsesBuiltins(t *testing.T) {
	base, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if c.Len() != base.Len() {
		t.Errorf("Len() = %d, want builtin count %d", c.Len(), base.Len())
	}
}

func TestValidate_Rejections(t *testing.T) {
	valid := func() []lsync.Lesson {
		return []lsync.Lesson{{
			Title:      "Phishing",
			Difficulty: "beginner",
			Slides: []lsync.Slide{
				{ID: "s1", Order: 1, Type: "intro"},
				{ID: "s2", Order: 2, Type: "quiz"},
			},
		}}
	}

	t.Run("accepts a well-formed lesson", func(t *testing.T) {
		if _, err := build(valid()); err != nil {
			t.Errorf("build() error = %v, want nil", err)
		}
	})

	t.Run("rejects duplicate titles", func(t *testing.T) {
		lessons := append(valid(), valid()...)
		if _, err := build(lessons); err == nil || !strings.Contains(err.Error(), "duplicate lesson title") {
			t.Errorf("build() error = %v, want duplicate title error", err)
		}
	})

	t.Run("rejects a blank title", func(t *testing.T) {
		lessons := valid()
		lessons[0].Title = "   "
		if _, err := build(lessons); err == nil {
			t.Error("build() accepted a blank title")
		}
	})

	t.Run("rejects a gap in slide order", func(t *testing.T) {
		lessons := valid()
		lessons[0].Slides[1].Order = 3
		if _, err := build(lessons); err == nil || !strings.Contains(err.Error(), "order") {
			t.Errorf("build() error = %v, want slide order error", err)
		}
	})

	t.Run("rejects duplicate slide ids", func(t *testing.T) {
		lessons := valid()
		lessons[0].Slides[1].ID = "s1"
		if _, err := build(lessons); err == nil || !strings.Contains(err.Error(), "duplicate slide id") {
			t.Errorf("build() error = %v, want duplicate slide id error", err)
		}
	})

	t.Run("rejects a lesson without slides", func(t *testing.T) {
		lessons := valid()
		lessons[0].Slides = nil
		if _, err := build(lessons); err == nil {
			t.Error("build() accepted a lesson without slides")
		}
	})
}
