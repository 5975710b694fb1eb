package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/madrasah-analytics-api/internal/models"
	appErrors "github.com/noah-isme/madrasah-analytics-api/pkg/errors"
)

type fakeSources struct {
	snap  models.DataSnapshot
	errs  map[string]error
	delay map[string]time.Duration
	// stall sleeps without watching the context, like a driver stuck on a dead socket.
	stall map[string]time.Duration

	mu    sync.Mutex
	calls map[string]int
}

func newFakeSources(snap models.DataSnapshot) *fakeSources {
	return &fakeSources{snap: snap, errs: map[string]error{}, delay: map[string]time.Duration{}, stall: map[string]time.Duration{}, calls: map[string]int{}}
}

func (f *fakeSources) sources() ContextSources {
	return ContextSources{Students: f, Teachers: f, Classes: f, Progress: f, Attendance: f, Assignments: f, Communications: f}
}

func (f *fakeSources) hit(ctx context.Context, name string) error {
	f.mu.Lock()
	f.calls[name]++
	d := f.delay[name]
	err := f.errs[name]
	stall := f.stall[name]
	f.mu.Unlock()
	if stall > 0 {
		time.Sleep(stall)
	}
	if d > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
		}
	}
	return err
}

func (f *fakeSources) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeSources) ListStudents(ctx context.Context, _ string) ([]models.Student, error) {
	if err := f.hit(ctx, "students"); err != nil {
		return nil, err
	}
	return f.snap.Students, nil
}

func (f *fakeSources) ListTeachers(ctx context.Context, _ string) ([]models.Teacher, error) {
	if err := f.hit(ctx, "teachers"); err != nil {
		return nil, err
	}
	return f.snap.Teachers, nil
}

func (f *fakeSources) ListClasses(ctx context.Context, _ string) ([]models.Class, error) {
	if err := f.hit(ctx, "classes"); err != nil {
		return nil, err
	}
	return f.snap.Classes, nil
}

func (f *fakeSources) ListProgress(ctx context.Context, _ string, _ models.TimeRange) ([]models.ProgressEntry, error) {
	if err := f.hit(ctx, "progress"); err != nil {
		return nil, err
	}
	return f.snap.Progress, nil
}

func (f *fakeSources) ListJuzRevisions(ctx context.Context, _ string, _ models.TimeRange) ([]models.JuzRevision, error) {
	if err := f.hit(ctx, "juz_revisions"); err != nil {
		return nil, err
	}
	return f.snap.JuzRevisions, nil
}

func (f *fakeSources) ListSabaqParas(ctx context.Context, _ string, _ models.TimeRange) ([]models.SabaqPara, error) {
	if err := f.hit(ctx, "sabaq_para"); err != nil {
		return nil, err
	}
	return f.snap.SabaqParas, nil
}

func (f *fakeSources) ListAttendance(ctx context.Context, _ string, _ models.TimeRange) ([]models.AttendanceEntry, error) {
	if err := f.hit(ctx, "attendance"); err != nil {
		return nil, err
	}
	return f.snap.Attendance, nil
}

func (f *fakeSources) ListAssignments(ctx context.Context, _ string, _ models.TimeRange) ([]models.Assignment, error) {
	if err := f.hit(ctx, "assignments"); err != nil {
		return nil, err
	}
	return f.snap.Assignments, nil
}

func (f *fakeSources) ListSubmissions(ctx context.Context, _ string, _ models.TimeRange) ([]models.Submission, error) {
	if err := f.hit(ctx, "submissions"); err != nil {
		return nil, err
	}
	return f.snap.Submissions, nil
}

func (f *fakeSources) ListCommunications(ctx context.Context, _ string, _ models.TimeRange) ([]models.Communication, error) {
	if err := f.hit(ctx, "communications"); err != nil {
		return nil, err
	}
	return f.snap.Communications, nil
}

// memoryCache is a JSON round-tripping CacheRepository.
type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	raw, ok := m.items[key]
	m.mu.Unlock()
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.items[key] = raw
	m.mu.Unlock()
	return nil
}

func (m *memoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.items {
		if strings.HasPrefix(key, prefix) {
			delete(m.items, key)
		}
	}
	return nil
}

var (
	scenarioFrom = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	scenarioTo   = time.Date(2024, 3, 29, 0, 0, 0, 0, time.UTC)
	scenarioNow  = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
)

func scenarioWindow() models.TimeRange {
	return models.TimeRange{From: scenarioFrom, To: scenarioTo}
}

func strPtr(s string) *string { return &s }

func pagesPtr(v float64) *float64 { return &v }

// scenarioSnapshot builds ten active students in one class over a four week window.
// Eight attend every session and memorize six pages a week; the last two only
// logged a revision ten days before the window end.
func scenarioSnapshot() models.DataSnapshot {
	snap := models.DataSnapshot{
		Classes:  []models.Class{{ID: "c-1", MadrasahID: "m-1", Name: "Hifz A", ScheduleDays: []string{"monday", "wednesday"}}},
		Teachers: []models.Teacher{},
	}
	enrolled := scenarioFrom.AddDate(-1, 0, 0)
	for i := 1; i <= 10; i++ {
		id := fmt.Sprintf("s-%02d", i)
		snap.Students = append(snap.Students, models.Student{
			ID: id, MadrasahID: "m-1", Name: "Student " + id, Status: models.StudentStatusActive,
			EnrollmentDate: enrolled, ClassID: strPtr("c-1"),
		})
		for d := 1; d <= 10; d++ {
			snap.Attendance = append(snap.Attendance, models.AttendanceEntry{
				ID: fmt.Sprintf("a-%s-%02d", id, d), StudentID: id, ClassID: strPtr("c-1"),
				Date: scenarioFrom.AddDate(0, 0, d), Status: models.AttendanceStatusPresent,
			})
		}
		if i <= 8 {
			for w := 1; w <= 4; w++ {
				snap.Progress = append(snap.Progress, models.ProgressEntry{
					ID: fmt.Sprintf("p-%s-%d", id, w), StudentID: id, Date: scenarioFrom.AddDate(0, 0, 7*w-1),
					LessonType: models.LessonTypeSabaq, PagesCount: pagesPtr(6), QualityRating: models.QualityGood,
				})
			}
			continue
		}
		snap.Progress = append(snap.Progress, models.ProgressEntry{
			ID: "p-" + id + "-dhor", StudentID: id, Date: scenarioTo.AddDate(0, 0, -10),
			LessonType: models.LessonTypeDhor, QualityRating: models.QualityAverage,
		})
	}
	return snap
}

func fixedNow() time.Time { return scenarioNow }
