package models

import (
	"sort"
	"time"
)

// DataSnapshot is the raw material fetched by the context loader.
type DataSnapshot struct {
	Students       []Student
	Teachers       []Teacher
	Classes        []Class
	Progress       []ProgressEntry
	Attendance     []AttendanceEntry
	Assignments    []Assignment
	Submissions    []Submission
	JuzRevisions   []JuzRevision
	SabaqParas     []SabaqPara
	Communications []Communication
}

// AnalyticsDataContext is an immutable snapshot of one madrasah over a time window.
// Accessors return shared slices; callers must treat them as read-only.
type AnalyticsDataContext struct {
	madrasahID string
	window     TimeRange
	degraded   []string

	students       []Student
	teachers       []Teacher
	classes        []Class
	progress       []ProgressEntry
	attendance     []AttendanceEntry
	assignments    []Assignment
	submissions    []Submission
	juzRevisions   []JuzRevision
	sabaqParas     []SabaqPara
	communications []Communication

	progressByStudent   map[string][]ProgressEntry
	attendanceByStudent map[string][]AttendanceEntry
	revisionsByStudent  map[string]int
	membersByClass      map[string][]Student
	classByID           map[string]Class
}

// NewDataContext sorts and clips snap to window and builds lookup indexes.
// Degraded lists optional collections that failed to load and were left empty.
func NewDataContext(madrasahID string, window TimeRange, snap DataSnapshot, degraded ...string) *AnalyticsDataContext {
	ctx := &AnalyticsDataContext{
		madrasahID: madrasahID,
		window:     window,
		degraded:   append([]string(nil), degraded...),
	}
	sort.Strings(ctx.degraded)

	ctx.students = append([]Student(nil), snap.Students...)
	sort.Slice(ctx.students, func(i, j int) bool { return ctx.students[i].ID < ctx.students[j].ID })
	ctx.teachers = append([]Teacher(nil), snap.Teachers...)
	sort.Slice(ctx.teachers, func(i, j int) bool { return ctx.teachers[i].ID < ctx.teachers[j].ID })
	ctx.classes = append([]Class(nil), snap.Classes...)
	sort.Slice(ctx.classes, func(i, j int) bool { return ctx.classes[i].ID < ctx.classes[j].ID })

	for _, p := range snap.Progress {
		if window.Contains(p.Date) {
			ctx.progress = append(ctx.progress, p)
		}
	}
	sort.Slice(ctx.progress, func(i, j int) bool {
		return dateThenID(ctx.progress[i].Date, ctx.progress[i].ID, ctx.progress[j].Date, ctx.progress[j].ID)
	})

	for _, a := range snap.Attendance {
		if window.Contains(a.Date) {
			ctx.attendance = append(ctx.attendance, a)
		}
	}
	sort.Slice(ctx.attendance, func(i, j int) bool {
		return dateThenID(ctx.attendance[i].Date, ctx.attendance[i].ID, ctx.attendance[j].Date, ctx.attendance[j].ID)
	})

	for _, a := range snap.Assignments {
		if window.Contains(a.DueDate) {
			ctx.assignments = append(ctx.assignments, a)
		}
	}
	sort.Slice(ctx.assignments, func(i, j int) bool { return ctx.assignments[i].ID < ctx.assignments[j].ID })

	for _, s := range snap.Submissions {
		if window.Contains(s.SubmittedAt) {
			ctx.submissions = append(ctx.submissions, s)
		}
	}
	sort.Slice(ctx.submissions, func(i, j int) bool { return ctx.submissions[i].ID < ctx.submissions[j].ID })

	for _, r := range snap.JuzRevisions {
		if window.Contains(r.RevisionDate) {
			ctx.juzRevisions = append(ctx.juzRevisions, r)
		}
	}
	sort.Slice(ctx.juzRevisions, func(i, j int) bool { return ctx.juzRevisions[i].ID < ctx.juzRevisions[j].ID })

	for _, r := range snap.SabaqParas {
		if window.Contains(r.RevisionDate) {
			ctx.sabaqParas = append(ctx.sabaqParas, r)
		}
	}
	sort.Slice(ctx.sabaqParas, func(i, j int) bool { return ctx.sabaqParas[i].ID < ctx.sabaqParas[j].ID })

	for _, c := range snap.Communications {
		if window.Contains(c.CreatedAt) {
			ctx.communications = append(ctx.communications, c)
		}
	}
	sort.Slice(ctx.communications, func(i, j int) bool { return ctx.communications[i].ID < ctx.communications[j].ID })

	ctx.buildIndexes()
	return ctx
}

func (c *AnalyticsDataContext) buildIndexes() {
	c.progressByStudent = make(map[string][]ProgressEntry)
	for _, p := range c.progress {
		c.progressByStudent[p.StudentID] = append(c.progressByStudent[p.StudentID], p)
	}
	c.attendanceByStudent = make(map[string][]AttendanceEntry)
	for _, a := range c.attendance {
		c.attendanceByStudent[a.StudentID] = append(c.attendanceByStudent[a.StudentID], a)
	}
	c.revisionsByStudent = make(map[string]int)
	for _, r := range c.juzRevisions {
		c.revisionsByStudent[r.StudentID]++
	}
	for _, r := range c.sabaqParas {
		c.revisionsByStudent[r.StudentID]++
	}
	c.classByID = make(map[string]Class, len(c.classes))
	for _, cl := range c.classes {
		c.classByID[cl.ID] = cl
	}
	c.membersByClass = make(map[string][]Student)
	for _, s := range c.students {
		if s.ClassID != nil {
			c.membersByClass[*s.ClassID] = append(c.membersByClass[*s.ClassID], s)
		}
	}
}

func dateThenID(ad time.Time, aid string, bd time.Time, bid string) bool {
	if !ad.Equal(bd) {
		return ad.Before(bd)
	}
	return aid < bid
}

func (c *AnalyticsDataContext) MadrasahID() string { return c.madrasahID }
func (c *AnalyticsDataContext) Window() TimeRange { return c.window }
func (c *AnalyticsDataContext) Degraded() []string { return c.degraded }
func (c *AnalyticsDataContext) Students() []Student { return c.students }
func (c *AnalyticsDataContext) Teachers() []Teacher { return c.teachers }
func (c *AnalyticsDataContext) Classes() []Class { return c.classes }
func (c *AnalyticsDataContext) Progress() []ProgressEntry { return c.progress }
func (c *AnalyticsDataContext) Attendance() []AttendanceEntry { return c.attendance }
func (c *AnalyticsDataContext) Assignments() []Assignment { return c.assignments }
func (c *AnalyticsDataContext) Submissions() []Submission { return c.submissions }
func (c *AnalyticsDataContext) JuzRevisions() []JuzRevision { return c.juzRevisions }
func (c *AnalyticsDataContext) SabaqParas() []SabaqPara { return c.sabaqParas }
func (c *AnalyticsDataContext) Communications() []Communication { return c.communications }

// ProgressFor returns the student's entries ordered by date.
func (c *AnalyticsDataContext) ProgressFor(studentID string) []ProgressEntry {
	return c.progressByStudent[studentID]
}

// AttendanceFor returns the student's attendance records ordered by date.
func (c *AnalyticsDataContext) AttendanceFor(studentID string) []AttendanceEntry {
	return c.attendanceByStudent[studentID]
}

// RevisionCount returns juz revisions plus sabaq para records for the student.
func (c *AnalyticsDataContext) RevisionCount(studentID string) int {
	return c.revisionsByStudent[studentID]
}

// Members returns every student (any status) whose current class is classID.
func (c *AnalyticsDataContext) Members(classID string) []Student {
	return c.membersByClass[classID]
}

// Class looks up a class by id.
func (c *AnalyticsDataContext) Class(id string) (Class, bool) {
	cl, ok := c.classByID[id]
	return cl, ok
}

// ClassesTaughtBy returns the classes listing teacherID, ordered by id.
func (c *AnalyticsDataContext) ClassesTaughtBy(teacherID string) []Class {
	var out []Class
	for _, cl := range c.classes {
		if cl.TaughtBy(teacherID) {
			out = append(out, cl)
		}
	}
	return out
}
