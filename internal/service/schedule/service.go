package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/domain"
	scheduleRepo "github.com/avmakarov/DrivingSchool-BookingService/internal/infra/storage/schedule"
	"github.com/avmakarov/DrivingSchool-BookingService/internal/service/schedule/models"
)

// Service сервис конфигурации расписания и политики буфера
type Service struct {
	scheduleRepo ScheduleRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	scheduleRepo ScheduleRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// Get получает конфигурацию расписания и политику буфера.
// Несохранённая конфигурация подменяется дефолтной
func (s *Service) Get(ctx context.Context) (*models.ScheduleResponse, error) {
	s.logger.Info("Get: fetching schedule config")

	config, err := s.scheduleRepo.GetScheduleConfig(ctx)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			config = domain.DefaultScheduleConfig()
		} else {
			s.logger.Error("Get: repository error loading schedule: %v", err)
			return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
		}
	}

	policy, err := s.scheduleRepo.GetBufferPolicy(ctx)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrBufferPolicyNotFound) {
			policy = domain.DefaultBufferPolicy()
		} else {
			s.logger.Error("Get: repository error loading buffer policy: %v", err)
			return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
		}
	}

	return &models.ScheduleResponse{
		Schedule:     models.FromDomainScheduleConfig(config),
		BufferPolicy: models.FromDomainBufferPolicy(policy),
	}, nil
}

// UpdateSchedule обновляет конфигурацию расписания
func (s *Service) UpdateSchedule(ctx context.Context, dto models.ScheduleConfigDTO) error {
	s.logger.Info("UpdateSchedule: updating schedule config")

	config, err := dto.ToDomainScheduleConfig()
	if err != nil {
		s.logger.Warn("UpdateSchedule: invalid config: %v", err)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := config.Validate(); err != nil {
		s.logger.Warn("UpdateSchedule: config validation failed: %v", err)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Настройки, дни недели и отпуска пишутся одной транзакцией
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.scheduleRepo.UpdateScheduleConfig(txCtx, config)
	})
	if err != nil {
		s.logger.Error("UpdateSchedule: failed to update schedule: %v", err)
		return fmt.Errorf("%w: UpdateSchedule - transaction error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSchedule: schedule config updated")
	return nil
}

// UpdateBufferPolicy обновляет политику буферного времени
func (s *Service) UpdateBufferPolicy(ctx context.Context, dto models.BufferPolicyDTO) error {
	s.logger.Info("UpdateBufferPolicy: updating buffer policy")

	policy := dto.ToDomainBufferPolicy()

	if err := policy.Validate(); err != nil {
		s.logger.Warn("UpdateBufferPolicy: policy validation failed: %v", err)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.scheduleRepo.UpdateBufferPolicy(ctx, policy); err != nil {
		s.logger.Error("UpdateBufferPolicy: failed to update policy: %v", err)
		return fmt.Errorf("%w: UpdateBufferPolicy - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateBufferPolicy: buffer policy updated")
	return nil
}
