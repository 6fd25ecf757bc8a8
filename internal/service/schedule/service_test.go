package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/domain"
	schedulestorage "github.com/avmakarov/DrivingSchool-BookingService/internal/infra/storage/schedule"
	"github.com/avmakarov/DrivingSchool-BookingService/internal/service/schedule/models"
	"github.com/avmakarov/DrivingSchool-BookingService/pkg/types"
)

// --- mocks ---

type mockScheduleRepo struct {
	config    *domain.ScheduleConfig
	configErr error

	policy    *domain.BufferPolicy
	policyErr error

	updatedConfig *domain.ScheduleConfig
	updatedPolicy *domain.BufferPolicy
}

func (m *mockScheduleRepo) GetScheduleConfig(_ context.Context) (*domain.ScheduleConfig, error) {
	return m.config, m.configErr
}

func (m *mockScheduleRepo) UpdateScheduleConfig(_ context.Context, config *domain.ScheduleConfig) error {
	m.updatedConfig = config
	return nil
}

func (m *mockScheduleRepo) GetBufferPolicy(_ context.Context) (*domain.BufferPolicy, error) {
	return m.policy, m.policyErr
}

func (m *mockScheduleRepo) UpdateBufferPolicy(_ context.Context, policy *domain.BufferPolicy) error {
	m.updatedPolicy = policy
	return nil
}

type passTxManager struct{}

func (passTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService(repo *mockScheduleRepo) *Service {
	return NewService(repo, passTxManager{}, nopLogger{})
}

// --- tests ---

func TestGet(t *testing.T) {
	config := domain.DefaultScheduleConfig()
	config.Days[time.Monday] = domain.DayConfig{
		Enabled:   true,
		OpenTime:  types.TimeString("09:00"),
		CloseTime: types.TimeString("17:00"),
	}

	repo := &mockScheduleRepo{config: config, policy: domain.DefaultBufferPolicy()}

	resp, err := newTestService(repo).Get(context.Background())
	require.NoError(t, err)

	monday := resp.Schedule.Days[int(time.Monday)]
	assert.True(t, monday.Enabled)
	assert.Equal(t, "09:00", monday.OpenTime)
	assert.Equal(t, "17:00", monday.CloseTime)
	assert.Equal(t, domain.DefaultBufferTimeMinutes, resp.BufferPolicy.DefaultMinutes)
}

func TestGet_NotConfiguredFallsBackToDefaults(t *testing.T) {
	repo := &mockScheduleRepo{
		configErr: schedulestorage.ErrScheduleNotFound,
		policyErr: schedulestorage.ErrBufferPolicyNotFound,
	}

	resp, err := newTestService(repo).Get(context.Background())
	require.NoError(t, err)

	assert.Empty(t, resp.Schedule.Days)
	assert.Equal(t, domain.DefaultLessonDurationMinutes, resp.Schedule.LessonDurationMinutes)
	assert.True(t, resp.BufferPolicy.Enabled)
}

func TestUpdateSchedule(t *testing.T) {
	repo := &mockScheduleRepo{}

	err := newTestService(repo).UpdateSchedule(context.Background(), models.ScheduleConfigDTO{
		Days: map[int]models.DayConfigDTO{
			1: {Enabled: true, OpenTime: "09:00", CloseTime: "17:00"},
			0: {Enabled: false},
		},
		LessonDurationMinutes: 60,
		BufferTimeMinutes:     30,
		VacationDays:          []string{"2025-12-31"},
	})
	require.NoError(t, err)

	require.NotNil(t, repo.updatedConfig)
	assert.True(t, repo.updatedConfig.Days[time.Monday].Enabled)
	assert.False(t, repo.updatedConfig.Days[time.Sunday].Enabled)
	assert.Contains(t, repo.updatedConfig.VacationDays, "2025-12-31")
}

func TestUpdateSchedule_Invalid(t *testing.T) {
	svc := newTestService(&mockScheduleRepo{})

	cases := []struct {
		name string
		dto  models.ScheduleConfigDTO
	}{
		{
			"weekday out of range",
			models.ScheduleConfigDTO{
				Days:                  map[int]models.DayConfigDTO{7: {Enabled: true, OpenTime: "09:00", CloseTime: "17:00"}},
				LessonDurationMinutes: 60,
				BufferTimeMinutes:     30,
			},
		},
		{
			"bad open time",
			models.ScheduleConfigDTO{
				Days:                  map[int]models.DayConfigDTO{1: {Enabled: true, OpenTime: "9am", CloseTime: "17:00"}},
				LessonDurationMinutes: 60,
				BufferTimeMinutes:     30,
			},
		},
		{
			"open after close",
			models.ScheduleConfigDTO{
				Days:                  map[int]models.DayConfigDTO{1: {Enabled: true, OpenTime: "18:00", CloseTime: "09:00"}},
				LessonDurationMinutes: 60,
				BufferTimeMinutes:     30,
			},
		},
		{
			"lesson duration too short",
			models.ScheduleConfigDTO{
				LessonDurationMinutes: 10,
				BufferTimeMinutes:     30,
			},
		},
		{
			"bad vacation day",
			models.ScheduleConfigDTO{
				LessonDurationMinutes: 60,
				BufferTimeMinutes:     30,
				VacationDays:          []string{"31.12.2025"},
			},
		},
	}

	for _, tc := range cases {
		err := svc.UpdateSchedule(context.Background(), tc.dto)
		assert.ErrorIs(t, err, ErrInvalidInput, tc.name)
	}
}

func TestUpdateBufferPolicy(t *testing.T) {
	repo := &mockScheduleRepo{}

	err := newTestService(repo).UpdateBufferPolicy(context.Background(), models.BufferPolicyDTO{
		Enabled:        true,
		DefaultMinutes: 30,
		MinMinutes:     15,
		MaxMinutes:     60,
		Adaptive:       true,
		PerTypeMinutes: map[string]int{"test_preparation": 60},
	})
	require.NoError(t, err)

	require.NotNil(t, repo.updatedPolicy)
	assert.Equal(t, 60, repo.updatedPolicy.PerTypeMinutes[domain.LessonTestPreparation])
}

func TestUpdateBufferPolicy_Invalid(t *testing.T) {
	svc := newTestService(&mockScheduleRepo{})

	err := svc.UpdateBufferPolicy(context.Background(), models.BufferPolicyDTO{
		Enabled:        true,
		DefaultMinutes: 10,
		MinMinutes:     15,
		MaxMinutes:     60,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
