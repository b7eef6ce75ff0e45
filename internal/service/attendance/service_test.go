package attendance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/hadirly/hadirly-backend-go/internal/domain/attendance"
	"github.com/hadirly/hadirly-backend-go/internal/domain/employee"
	"github.com/hadirly/hadirly-backend-go/internal/domain/notification"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memAttendanceRepo is an in-memory attendance.AttendanceRepository.
type memAttendanceRepo struct {
	records map[string]attendance.AttendanceDay
	nextID  int
}

func newMemAttendanceRepo() *memAttendanceRepo {
	return &memAttendanceRepo{records: make(map[string]attendance.AttendanceDay)}
}

func (m *memAttendanceRepo) Create(ctx context.Context, day attendance.AttendanceDay) (attendance.AttendanceDay, error) {
	m.nextID++
	day.ID = fmt.Sprintf("att-%d", m.nextID)
	day.CreatedAt = time.Now()
	day.UpdatedAt = day.CreatedAt
	m.records[day.ID] = day
	return day, nil
}

func (m *memAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.AttendanceDay, error) {
	day, ok := m.records[id]
	if !ok {
		return attendance.AttendanceDay{}, attendance.ErrAttendanceNotFound
	}
	return day, nil
}

func (m *memAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.AttendanceDay, error) {
	for _, day := range m.records {
		if day.EmployeeID == employeeID && day.Date.Equal(date) {
			d := day
			return &d, nil
		}
	}
	return nil, nil
}

func (m *memAttendanceRepo) Update(ctx context.Context, day attendance.AttendanceDay) error {
	if _, ok := m.records[day.ID]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	day.UpdatedAt = time.Now()
	m.records[day.ID] = day
	return nil
}

func (m *memAttendanceRepo) Upsert(ctx context.Context, day attendance.AttendanceDay) (attendance.AttendanceDay, error) {
	for id, existing := range m.records {
		if existing.EmployeeID == day.EmployeeID && existing.Date.Equal(day.Date) {
			existing.Status = day.Status
			existing.DecidedBy = day.DecidedBy
			existing.DecidedAt = day.DecidedAt
			existing.UpdatedAt = time.Now()
			m.records[id] = existing
			return existing, nil
		}
	}
	return m.Create(ctx, day)
}

func (m *memAttendanceRepo) GetByEmployee(ctx context.Context, employeeID string, filter attendance.AttendanceFilter) ([]attendance.AttendanceDay, int64, error) {
	filter.EmployeeID = &employeeID
	return m.List(ctx, filter)
}

func (m *memAttendanceRepo) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceDay, int64, error) {
	days := make([]attendance.AttendanceDay, 0)
	for _, day := range m.records {
		if filter.EmployeeID != nil && day.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && string(day.Status) != *filter.Status {
			continue
		}
		days = append(days, day)
	}
	return days, int64(len(days)), nil
}

func (m *memAttendanceRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.records[id]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	delete(m.records, id)
	return nil
}

// memEmployeeRepo is an in-memory employee.EmployeeRepository.
type memEmployeeRepo struct {
	employees map[string]employee.Employee
}

func newMemEmployeeRepo(ids ...string) *memEmployeeRepo {
	repo := &memEmployeeRepo{employees: make(map[string]employee.Employee)}
	for _, id := range ids {
		repo.employees[id] = employee.Employee{ID: id, FullName: "Employee " + id, Email: id + "@example.com"}
	}
	return repo
}

func (m *memEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	emp, ok := m.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (m *memEmployeeRepo) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	for _, emp := range m.employees {
		if emp.Email == email {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (m *memEmployeeRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := m.employees[id]
	return ok, nil
}

func newTestService(employeeIDs ...string) (attendance.AttendanceService, *memAttendanceRepo, *clock.Fixed) {
	repo := newMemAttendanceRepo()
	clk := clock.NewFixed(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	svc := NewAttendanceService(repo, newMemEmployeeRepo(employeeIDs...), clk, notification.NopSink{})
	return svc, repo, clk
}

func TestClockIn_CreatesPendingRecord(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService("emp-1")

	resp, err := svc.ClockIn(ctx, attendance.ClockInRequest{
		EmployeeID: "emp-1",
		Location:   attendance.LocationOffice,
	})

	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "2026-03-02", resp.Date)
	require.NotNil(t, resp.ClockInTime)
	assert.Nil(t, resp.ClockOutTime)
	assert.Nil(t, resp.DecidedBy)
}

func TestClockIn_TwiceSameDayFails(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService("emp-1")

	_, err := svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "emp-1", Location: attendance.LocationHome})
	require.NoError(t, err)

	_, err = svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "emp-1", Location: attendance.LocationHome})
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)
}

func TestClockIn_NextDayStartsFresh(t *testing.T) {
	ctx := context.Background()
	svc, _, clk := newTestService("emp-1")

	_, err := svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "emp-1", Location: attendance.LocationOffice})
	require.NoError(t, err)

	clk.Advance(24 * time.Hour)

	resp, err := svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "emp-1", Location: attendance.LocationOffice})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-03", resp.Date)
	assert.Equal(t, "pending", resp.Status)
}

func TestClockOut_ComputesTotalHours(t *testing.T) {
	ctx := context.Background()
	svc, _, clk := newTestService("emp-1")

	_, err := svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "emp-1", Location: attendance.LocationOffice})
	require.NoError(t, err)

	clk.Advance(8*time.Hour + 30*time.Minute)

	resp, err := svc.ClockOut(ctx, attendance.ClockOutRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	require.NotNil(t, resp.TotalHours)
	assert.InDelta(t, 8.5, *resp.TotalHours, 0.001)
	assert.Equal(t, "pending", resp.Status)
}

func TestClockOut_WithoutClockInFails(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService("emp-1")

	_, err := svc.ClockOut(ctx, attendance.ClockOutRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrNotClockedIn)
}

func TestClockOut_TwiceFails(t *testing.T) {
	ctx := context.Background()
	svc, _, clk := newTestService("emp-1")

	_, err := svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "emp-1", Location: attendance.LocationOffice})
	require.NoError(t, err)
	clk.Advance(time.Hour)

	_, err = svc.ClockOut(ctx, attendance.ClockOutRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	_, err = svc.ClockOut(ctx, attendance.ClockOutRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedOut)
}

func TestDecide_ResolvesPendingRecord(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService("emp-1", "admin-1")

	created, err := svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "emp-1", Location: attendance.LocationOffice})
	require.NoError(t, err)

	resp, err := svc.Decide(ctx, attendance.DecideRequest{
		ID:      created.ID,
		ActorID: "admin-1",
		Outcome: attendance.StatusLate,
	})
	require.NoError(t, err)
	assert.Equal(t, "late", resp.Status)
	require.NotNil(t, resp.DecidedBy)
	assert.Equal(t, "admin-1", *resp.DecidedBy)
	assert.NotNil(t, resp.DecidedAt)
}

func TestDecide_SameOutcomeIsNoOp(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService("emp-1", "admin-1")

	created, err := svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "emp-1", Location: attendance.LocationOffice})
	require.NoError(t, err)

	_, err = svc.Decide(ctx, attendance.DecideRequest{ID: created.ID, ActorID: "admin-1", Outcome: attendance.StatusPresent})
	require.NoError(t, err)

	resp, err := svc.Decide(ctx, attendance.DecideRequest{ID: created.ID, ActorID: "admin-1", Outcome: attendance.StatusPresent})
	require.NoError(t, err)
	assert.Equal(t, "present", resp.Status)
}

func TestDecide_DifferentOutcomeAfterDecisionFails(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService("emp-1", "admin-1")

	created, err := svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "emp-1", Location: attendance.LocationOffice})
	require.NoError(t, err)

	_, err = svc.Decide(ctx, attendance.DecideRequest{ID: created.ID, ActorID: "admin-1", Outcome: attendance.StatusPresent})
	require.NoError(t, err)

	_, err = svc.Decide(ctx, attendance.DecideRequest{ID: created.ID, ActorID: "admin-1", Outcome: attendance.StatusAbsent})
	assert.ErrorIs(t, err, attendance.ErrNotPending)
}

func TestDecide_OwnRecordFails(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService("admin-1")

	created, err := svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "admin-1", Location: attendance.LocationOffice})
	require.NoError(t, err)

	_, err = svc.Decide(ctx, attendance.DecideRequest{ID: created.ID, ActorID: "admin-1", Outcome: attendance.StatusPresent})
	assert.ErrorIs(t, err, attendance.ErrSelfApproval)
}

func TestManualMark_BackfillsPastDate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService("emp-1", "admin-1")

	resp, err := svc.ManualMark(ctx, attendance.ManualMarkRequest{
		ActorID:    "admin-1",
		EmployeeID: "emp-1",
		Date:       "2026-02-27",
		Outcome:    attendance.StatusAbsent,
	})
	require.NoError(t, err)
	assert.Equal(t, "absent", resp.Status)
	assert.Equal(t, "2026-02-27", resp.Date)
	require.NotNil(t, resp.DecidedBy)
	assert.Equal(t, "admin-1", *resp.DecidedBy)
	assert.Nil(t, resp.ClockInTime)
}

func TestManualMark_OverridesDecidedRecord(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService("emp-1", "admin-1")

	created, err := svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "emp-1", Location: attendance.LocationOffice})
	require.NoError(t, err)
	_, err = svc.Decide(ctx, attendance.DecideRequest{ID: created.ID, ActorID: "admin-1", Outcome: attendance.StatusAbsent})
	require.NoError(t, err)

	// Corrections go through manual marking, valid from any status.
	resp, err := svc.ManualMark(ctx, attendance.ManualMarkRequest{
		ActorID:    "admin-1",
		EmployeeID: "emp-1",
		Date:       "2026-03-02",
		Outcome:    attendance.StatusPresent,
	})
	require.NoError(t, err)
	assert.Equal(t, "present", resp.Status)
}

func TestManualMark_UnknownEmployeeFails(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService("admin-1")

	_, err := svc.ManualMark(ctx, attendance.ManualMarkRequest{
		ActorID:    "admin-1",
		EmployeeID: "ghost",
		Date:       "2026-03-02",
		Outcome:    attendance.StatusPresent,
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestManualMark_SelfFails(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService("admin-1")

	_, err := svc.ManualMark(ctx, attendance.ManualMarkRequest{
		ActorID:    "admin-1",
		EmployeeID: "admin-1",
		Date:       "2026-03-02",
		Outcome:    attendance.StatusPresent,
	})
	assert.ErrorIs(t, err, attendance.ErrSelfApproval)
}

func TestClockIn_ReopensManuallyMarkedDay(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService("emp-1", "admin-1")

	// Admin marks today absent before the employee shows up.
	_, err := svc.ManualMark(ctx, attendance.ManualMarkRequest{
		ActorID:    "admin-1",
		EmployeeID: "emp-1",
		Date:       "2026-03-02",
		Outcome:    attendance.StatusAbsent,
	})
	require.NoError(t, err)

	// The employee clocks in after all; the day goes back to pending review.
	resp, err := svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "emp-1", Location: attendance.LocationOffice})
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.NotNil(t, resp.ClockInTime)
	assert.Nil(t, resp.DecidedBy)
}

func TestBulkMark_ReportsPartialFailure(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService("emp-1", "emp-2", "admin-1")

	resp, err := svc.BulkMark(ctx, attendance.BulkMarkRequest{
		ActorID:     "admin-1",
		EmployeeIDs: []string{"emp-1", "ghost", "emp-2", "admin-1"},
		Date:        "2026-03-02",
		Outcome:     attendance.StatusPresent,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Succeeded)
	assert.Equal(t, 2, resp.Failed)
	require.Len(t, resp.Results, 4)

	assert.True(t, resp.Results[0].Success)
	assert.False(t, resp.Results[1].Success)
	assert.Contains(t, resp.Results[1].Error, "not found")
	assert.True(t, resp.Results[2].Success)
	assert.False(t, resp.Results[3].Success)
}

func TestGetMyAttendance_FiltersByEmployee(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService("emp-1", "emp-2")

	_, err := svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "emp-1", Location: attendance.LocationOffice})
	require.NoError(t, err)
	_, err = svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "emp-2", Location: attendance.LocationHome})
	require.NoError(t, err)

	resp, err := svc.GetMyAttendance(ctx, "emp-1", attendance.AttendanceFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.TotalCount)
	require.Len(t, resp.Attendances, 1)
	assert.Equal(t, "emp-1", resp.Attendances[0].EmployeeID)
}

func TestDeleteAttendance(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService("emp-1")

	created, err := svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "emp-1", Location: attendance.LocationOffice})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAttendance(ctx, created.ID))

	_, err = svc.GetAttendance(ctx, created.ID)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}
