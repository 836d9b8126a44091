package sync

import "time"

// Collection names in the remote store.
const (
	LessonsCollection = "lessons"
	SlidesCollection  = "slides"
)

// Lesson statuses stored in the "status" field of a remote lesson document.
// An "active" lesson is normal; a "superseding" lesson has been marked for
// replacement but the replace has not finished yet.
const (
	StatusActive      = "active"
	StatusSuperseding = "superseding"
)

// Source records which path served a lesson at read time.
type Source string

const (
	SourceDatabase Source = "database"
	SourceLocal    Source = "local"
)

// Lesson is an ordered collection of slides plus display metadata.
// Catalog lessons are built once at process start and never mutated;
// RemoteID is only set on lessons read back from the store.
type Lesson struct {
	Title       string // natural key, unique within the catalog
	RemoteID    string
	Description string
	Difficulty  string
	Duration    string
	Icon        string
	Color       string
	Version     int
	TotalSlides int
	Slides      []Slide
	Source      Source
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Slide is one unit of lesson content. Order is 1-based and dense; the
// owning lesson's slide slice, not the slide itself, is authoritative
// for ordering at upload time.
type Slide struct {
	ID       string
	LessonID string
	Order    int
	Type     string
	Title    string
	Content  map[string]any
}

// Status values for a per-lesson sync result.
type ResultStatus string

const (
	StatusCreated ResultStatus = "created"
	StatusSkipped ResultStatus = "skipped"
	StatusFailed  ResultStatus = "failed"
)

// Result is the outcome of syncing a single lesson.
type Result struct {
	NaturalKey string       `json:"naturalKey"`
	Status     ResultStatus `json:"status"`
	RemoteID   string       `json:"remoteId,omitempty"`
	SlideCount int          `json:"slideCount"`
	Err        error        `json:"-"`
	Detail     string       `json:"detail,omitempty"`
}

// Summary aggregates the results of a multi-lesson run.
type Summary struct {
	Created     int      `json:"created"`
	Skipped     int      `json:"skipped"`
	Failed      int      `json:"failed"`
	TotalSlides int      `json:"totalSlides"`
	Results     []Result `json:"results"`
}

// add folds a single result into the summary.
func (s *Summary) add(r Result) {
	s.Results = append(s.Results, r)
	switch r.Status {
	case StatusCreated:
		s.Created++
		s.TotalSlides += r.SlideCount
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	}
}

// Report is the outcome of verifying a single lesson against the store.
type Report struct {
	NaturalKey string `json:"naturalKey"`
	OK         bool   `json:"ok"`
	Detail     string `json:"detail,omitempty"`
}
