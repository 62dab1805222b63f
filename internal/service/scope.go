package service

import (
	"sort"
	"strings"
	"time"

	"github.com/campus-ops/staff-attendance-api/internal/models"
	appErrors "github.com/campus-ops/staff-attendance-api/pkg/errors"
)

// Viewer is the scoping identity derived from the current session. Department
// scoping is mandatory and decided here, once, server-side; clients receive
// rows that are already scoped.
type Viewer struct {
	UserID       int64
	Role         models.StaffRole
	DepartmentID *int64
}

// ViewerFromSession builds a Viewer from the session payload.
func ViewerFromSession(session *models.Session) Viewer {
	return Viewer{UserID: session.UserID, Role: session.Role, DepartmentID: session.DepartmentID}
}

// AttendanceQuery translates the viewer into the repository scope: campus-wide
// roles see everything, HEAD sees their department, everyone else themselves.
func (v Viewer) AttendanceQuery() models.AttendanceQuery {
	if v.Role.CampusWide() {
		return models.AttendanceQuery{}
	}
	if v.Role == models.RoleHead && v.DepartmentID != nil {
		return models.AttendanceQuery{DepartmentID: v.DepartmentID}
	}
	userID := v.UserID
	return models.AttendanceQuery{UserID: &userID}
}

// LeaveQuery mirrors AttendanceQuery for leave requests.
func (v Viewer) LeaveQuery() models.LeaveQuery {
	if v.Role.CampusWide() {
		return models.LeaveQuery{}
	}
	if v.Role == models.RoleHead && v.DepartmentID != nil {
		return models.LeaveQuery{DepartmentID: v.DepartmentID}
	}
	userID := v.UserID
	return models.LeaveQuery{UserID: &userID}
}

// DateMode selects the relative date window for record filtering.
type DateMode string

const (
	DateModeAll   DateMode = "all"
	DateModeToday DateMode = "today"
	DateModeWeek  DateMode = "week"
	DateModeMonth DateMode = "month"
)

// ParseDateMode normalises a query parameter into a DateMode.
func ParseDateMode(raw string) (DateMode, error) {
	switch DateMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", DateModeAll:
		return DateModeAll, nil
	case DateModeToday:
		return DateModeToday, nil
	case DateModeWeek:
		return DateModeWeek, nil
	case DateModeMonth:
		return DateModeMonth, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "dateMode must be one of all, today, week, month")
	}
}

// FilterAll is the sentinel for categorical filters left open.
const FilterAll = "all"

// RecordFilters are the UI-selected predicates applied on top of the
// mandatory viewer scope.
type RecordFilters struct {
	DateMode   DateMode
	Department string
	Status     string
	Role       string
}

// DateRange is a concrete inclusive [Start, End] window. Unbounded marks the
// sentinel range that admits any record, parseable date or not.
type DateRange struct {
	Start     time.Time
	End       time.Time
	Unbounded bool
}

// ResolveDateRange translates a DateMode into a concrete range relative to
// now. Weeks are ISO weeks: Monday 00:00 opens the window and Sunday counts
// as day 7 of the previous one.
func ResolveDateRange(mode DateMode, now time.Time) DateRange {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch mode {
	case DateModeToday:
		return DateRange{Start: midnight, End: now}
	case DateModeWeek:
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		monday := midnight.AddDate(0, 0, -(weekday - 1))
		return DateRange{Start: monday, End: now}
	case DateModeMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return DateRange{Start: first, End: now}
	default:
		return DateRange{Unbounded: true}
	}
}

// ContainsDay reports whether the calendar day (text `YYYY-MM-DD`) falls
// within the range, boundaries included. Dates are stored as text, so parsing
// is defensive: an unparseable date survives only the unbounded range.
func (r DateRange) ContainsDay(date string) bool {
	if r.Unbounded {
		return true
	}
	day, err := time.ParseInLocation(models.DateLayout, strings.TrimSpace(date), r.Start.Location())
	if err != nil {
		return false
	}
	startDay := time.Date(r.Start.Year(), r.Start.Month(), r.Start.Day(), 0, 0, 0, 0, r.Start.Location())
	endDay := time.Date(r.End.Year(), r.End.Month(), r.End.Day(), 0, 0, 0, 0, r.End.Location())
	return !day.Before(startDay) && !day.After(endDay)
}

// overlapsDays reports whether the [startDate, endDate] day span touches the
// range. Used for leave requests, which cover a span rather than a day.
func (r DateRange) overlapsDays(startDate, endDate string) bool {
	if r.Unbounded {
		return true
	}
	return r.ContainsDay(startDate) || r.ContainsDay(endDate) || r.spansRange(startDate, endDate)
}

func (r DateRange) spansRange(startDate, endDate string) bool {
	loc := r.Start.Location()
	from, err := time.ParseInLocation(models.DateLayout, strings.TrimSpace(startDate), loc)
	if err != nil {
		return false
	}
	to, err := time.ParseInLocation(models.DateLayout, strings.TrimSpace(endDate), loc)
	if err != nil {
		return false
	}
	return from.Before(r.Start) && to.After(r.End)
}

// FilterAttendance applies the UI filters to an already-scoped record set.
// The filter is stable: surviving rows keep their fetch order.
func FilterAttendance(rows []models.AttendanceRow, filters RecordFilters, now time.Time) []models.AttendanceRow {
	dateRange := ResolveDateRange(filters.DateMode, now)
	out := make([]models.AttendanceRow, 0, len(rows))
	for _, row := range rows {
		if !dateRange.ContainsDay(row.Date) {
			continue
		}
		if !matchesDepartment(filters.Department, row.DepartmentName) {
			continue
		}
		if !matchesValue(filters.Status, string(row.Status)) {
			continue
		}
		if !matchesValue(filters.Role, string(row.StaffRole)) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// FilterLeave applies the UI filters to an already-scoped leave set. A leave
// request matches a date window when its day span overlaps it.
func FilterLeave(rows []models.LeaveRow, filters RecordFilters, now time.Time) []models.LeaveRow {
	dateRange := ResolveDateRange(filters.DateMode, now)
	out := make([]models.LeaveRow, 0, len(rows))
	for _, row := range rows {
		if !dateRange.overlapsDays(row.StartDate, row.EndDate) {
			continue
		}
		if !matchesDepartment(filters.Department, row.DepartmentName) {
			continue
		}
		if !matchesValue(filters.Status, string(row.Status)) {
			continue
		}
		if !matchesValue(filters.Role, string(row.StaffRole)) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func matchesDepartment(selected string, name *string) bool {
	if open(selected) {
		return true
	}
	if name == nil {
		return false
	}
	return strings.EqualFold(selected, *name)
}

func matchesValue(selected, actual string) bool {
	if open(selected) {
		return true
	}
	return strings.EqualFold(selected, actual)
}

func open(selected string) bool {
	trimmed := strings.TrimSpace(selected)
	return trimmed == "" || strings.EqualFold(trimmed, FilterAll)
}

// DistinctDepartments derives the selectable department options from the
// scoped record set: unique names, alphabetically sorted. Recomputed on every
// request so the options always track the records they came from.
func DistinctDepartments(names []*string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, name := range names {
		if name == nil || *name == "" {
			continue
		}
		if _, ok := seen[*name]; ok {
			continue
		}
		seen[*name] = struct{}{}
		out = append(out, *name)
	}
	sort.Strings(out)
	return out
}

// AttendanceDepartmentNames projects department names from attendance rows.
func AttendanceDepartmentNames(rows []models.AttendanceRow) []*string {
	names := make([]*string, len(rows))
	for i := range rows {
		names[i] = rows[i].DepartmentName
	}
	return names
}

// LeaveDepartmentNames projects department names from leave rows.
func LeaveDepartmentNames(rows []models.LeaveRow) []*string {
	names := make([]*string, len(rows))
	for i := range rows {
		names[i] = rows[i].DepartmentName
	}
	return names
}
