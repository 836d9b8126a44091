package sync

import (
	"context"
	"errors"
	"fmt"
)

// ContentService is the read path consumers use at runtime. Reads go to
// the remote store first; if the store errors or holds no lessons, the
// in-process catalog serves the request unmodified. The remote-vs-local
// decision is made fresh on every call, never cached.
type ContentService struct {
	store   Store
	catalog []Lesson
	keys    KeyExtractor
	logger  Logger
}

// NewContentService creates a ContentService over the given store and
// catalog lessons. If keys is nil, TitleKey is used.
func NewContentService(store Store, catalog []Lesson, keys KeyExtractor, logger Logger) *ContentService {
	if keys == nil {
		keys = TitleKey{}
	}
	return &ContentService{store: store, catalog: catalog, keys: keys, logger: logger}
}

// GetAllLessons returns every lesson, without slides, tagged with the
// source that served it. Superseding lessons are in the middle of a
// replace and are not served.
func (c *ContentService) GetAllLessons(ctx context.Context) ([]Lesson, error) {
	docs, err := c.store.QueryByField(ctx, LessonsCollection, "status", StatusActive)
	if err != nil {
		c.logger.Warn("remote read failed, serving catalog", "error", err)
		return c.localLessons(), nil
	}
	if len(docs) == 0 {
		c.logger.Debug("remote store empty, serving catalog")
		return c.localLessons(), nil
	}

	lessons := make([]Lesson, 0, len(docs))
	for _, doc := range docs {
		lesson := decodeLesson(doc)
		lesson.Source = SourceDatabase
		lessons = append(lessons, lesson)
	}
	return lessons, nil
}

// GetLessonWithSlides returns one lesson with its slides resolved and
// sorted by order. keyOrID matches either the natural key or the remote
// id. Falls back to the catalog on store errors or a remote miss.
func (c *ContentService) GetLessonWithSlides(ctx context.Context, keyOrID string) (Lesson, error) {
	lesson, err := c.remoteLessonWithSlides(ctx, keyOrID)
	if err == nil {
		return lesson, nil
	}
	if !errors.Is(err, ErrNotFound) {
		c.logger.Warn("remote read failed, serving catalog", "lesson", keyOrID, "error", err)
	}

	for _, local := range c.catalog {
		if c.keys.Key(local) == keyOrID {
			local.Source = SourceLocal
			local.TotalSlides = len(local.Slides)
			return local, nil
		}
	}
	return Lesson{}, fmt.Errorf("lesson %q: %w", keyOrID, ErrNotFound)
}

func (c *ContentService) remoteLessonWithSlides(ctx context.Context, keyOrID string) (Lesson, error) {
	doc, err := c.store.Get(ctx, LessonsCollection, keyOrID)
	if errors.Is(err, ErrNotFound) {
		doc, err = c.findByKey(ctx, keyOrID)
	}
	if err != nil {
		return Lesson{}, err
	}
	if stringField(doc.Data, "status") == StatusSuperseding {
		return Lesson{}, ErrNotFound
	}

	slideDocs, err := c.store.QueryByField(ctx, SlidesCollection, "lessonId", doc.ID)
	if err != nil {
		return Lesson{}, fmt.Errorf("querying slides: %w", err)
	}

	lesson := decodeLesson(doc)
	lesson.Source = SourceDatabase
	lesson.Slides = make([]Slide, 0, len(slideDocs))
	for _, sd := range slideDocs {
		lesson.Slides = append(lesson.Slides, decodeSlide(sd))
	}
	sortSlidesByOrder(lesson.Slides)
	return lesson, nil
}

// findByKey mirrors the resolver's lookup but tolerates no matches by
// returning ErrNotFound; the read path treats duplicates as a miss
// rather than failing the request.
func (c *ContentService) findByKey(ctx context.Context, key string) (Document, error) {
	docs, err := c.store.QueryByField(ctx, LessonsCollection, c.keys.Field(), key)
	if err != nil {
		return Document{}, err
	}
	if len(docs) != 1 {
		return Document{}, ErrNotFound
	}
	return docs[0], nil
}

func (c *ContentService) localLessons() []Lesson {
	lessons := make([]Lesson, 0, len(c.catalog))
	for _, lesson := range c.catalog {
		lesson.Source = SourceLocal
		lesson.TotalSlides = len(lesson.Slides)
		lesson.Slides = nil
		lessons = append(lessons, lesson)
	}
	return lessons
}
