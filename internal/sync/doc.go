package sync

import (
	"sort"
	"time"
)

// lessonDoc builds the remote field map for a lesson. Slides are not
// embedded; they live in their own collection keyed back by lessonId.
func lessonDoc(lesson Lesson, version int) map[string]any {
	return map[string]any{
		"title":       lesson.Title,
		"description": lesson.Description,
		"difficulty":  lesson.Difficulty,
		"duration":    lesson.Duration,
		"icon":        lesson.Icon,
		"color":       lesson.Color,
		"version":     version,
		"totalSlides": len(lesson.Slides),
		"status":      StatusActive,
	}
}

// slideDoc builds the remote field map for one slide. order comes from
// the slide's position in the lesson's slice, never from the slide
// struct itself.
func slideDoc(slide Slide, lessonID string, order int) map[string]any {
	return map[string]any{
		"lessonId": lessonID,
		"order":    order,
		"type":     slide.Type,
		"title":    slide.Title,
		"content":  slide.Content,
	}
}

// decodeLesson rebuilds a Lesson from a remote document. Slides are left
// empty; callers attach them separately.
func decodeLesson(doc Document) Lesson {
	return Lesson{
		RemoteID:    doc.ID,
		Title:       stringField(doc.Data, "title"),
		Description: stringField(doc.Data, "description"),
		Difficulty:  stringField(doc.Data, "difficulty"),
		Duration:    stringField(doc.Data, "duration"),
		Icon:        stringField(doc.Data, "icon"),
		Color:       stringField(doc.Data, "color"),
		Version:     intField(doc.Data, "version"),
		TotalSlides: intField(doc.Data, "totalSlides"),
		CreatedAt:   timeField(doc.Data, "createdAt"),
		UpdatedAt:   timeField(doc.Data, "updatedAt"),
	}
}

// decodeSlide rebuilds a Slide from a remote document.
func decodeSlide(doc Document) Slide {
	content, _ := doc.Data["content"].(map[string]any)
	return Slide{
		ID:       doc.ID,
		LessonID: stringField(doc.Data, "lessonId"),
		Order:    intField(doc.Data, "order"),
		Type:     stringField(doc.Data, "type"),
		Title:    stringField(doc.Data, "title"),
		Content:  content,
	}
}

// sortSlidesByOrder sorts slides ascending by their order field.
func sortSlidesByOrder(slides []Slide) {
	sort.Slice(slides, func(i, j int) bool { return slides[i].Order < slides[j].Order })
}

func stringField(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}

// intField tolerates the numeric types different backends hand back:
// int from the memory store, int64 from firestore, float64 from JSON.
func intField(data map[string]any, key string) int {
	switch v := data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func timeField(data map[string]any, key string) time.Time {
	t, _ := data[key].(time.Time)
	return t
}
