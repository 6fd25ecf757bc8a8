package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/domain"
	"github.com/avmakarov/DrivingSchool-BookingService/pkg/types"
)

var (
	// ErrInvalidWeekday возвращается при некорректном дне недели
	ErrInvalidWeekday = errors.New("invalid weekday")

	// ErrInvalidTime возвращается при некорректном времени
	ErrInvalidTime = errors.New("invalid time")
)

// DayConfigDTO конфигурация одного дня недели
type DayConfigDTO struct {
	Enabled   bool   `json:"enabled"`
	OpenTime  string `json:"openTime,omitempty"`  // "09:00"
	CloseTime string `json:"closeTime,omitempty"` // "17:00"
}

// ScheduleConfigDTO конфигурация расписания школы.
// Дни недели ключуются числом 0-6, где 0 - воскресенье
type ScheduleConfigDTO struct {
	Days                  map[int]DayConfigDTO `json:"days"`
	LessonDurationMinutes int                  `json:"lessonDurationMinutes"`
	BufferTimeMinutes     int                  `json:"bufferTimeMinutes"`
	VacationDays          []string             `json:"vacationDays"` // "2026-08-25"
}

// BufferPolicyDTO политика буферного времени между уроками
type BufferPolicyDTO struct {
	Enabled        bool           `json:"enabled"`
	DefaultMinutes int            `json:"defaultMinutes"`
	MinMinutes     int            `json:"minMinutes"`
	MaxMinutes     int            `json:"maxMinutes"`
	Adaptive       bool           `json:"adaptive"`
	PerTypeMinutes map[string]int `json:"perTypeMinutes,omitempty"`
}

// ScheduleResponse полная конфигурация: расписание + политика буфера
type ScheduleResponse struct {
	Schedule     ScheduleConfigDTO `json:"schedule"`
	BufferPolicy BufferPolicyDTO   `json:"bufferPolicy"`
}

// Методы конвертации

// FromDomainScheduleConfig конвертирует domain модель в DTO
func FromDomainScheduleConfig(c *domain.ScheduleConfig) ScheduleConfigDTO {
	dto := ScheduleConfigDTO{
		Days:                  make(map[int]DayConfigDTO, len(c.Days)),
		LessonDurationMinutes: c.LessonDurationMinutes,
		BufferTimeMinutes:     c.BufferTimeMinutes,
		VacationDays:          make([]string, 0, len(c.VacationDays)),
	}

	for weekday, day := range c.Days {
		dayDTO := DayConfigDTO{Enabled: day.Enabled}
		if day.Enabled {
			dayDTO.OpenTime = day.OpenTime.String()
			dayDTO.CloseTime = day.CloseTime.String()
		}
		dto.Days[int(weekday)] = dayDTO
	}

	for day := range c.VacationDays {
		dto.VacationDays = append(dto.VacationDays, day)
	}

	return dto
}

// ToDomainScheduleConfig конвертирует DTO в domain модель
func (dto ScheduleConfigDTO) ToDomainScheduleConfig() (*domain.ScheduleConfig, error) {
	config := &domain.ScheduleConfig{
		Days:                  make(map[time.Weekday]domain.DayConfig, len(dto.Days)),
		LessonDurationMinutes: dto.LessonDurationMinutes,
		BufferTimeMinutes:     dto.BufferTimeMinutes,
		VacationDays:          make(map[string]struct{}, len(dto.VacationDays)),
	}

	for weekday, day := range dto.Days {
		if weekday < 0 || weekday > 6 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidWeekday, weekday)
		}

		dayConfig := domain.DayConfig{Enabled: day.Enabled}
		if day.Enabled {
			openTime, err := types.NewTimeStringFromString(day.OpenTime)
			if err != nil {
				return nil, fmt.Errorf("%w: open time %q", ErrInvalidTime, day.OpenTime)
			}
			closeTime, err := types.NewTimeStringFromString(day.CloseTime)
			if err != nil {
				return nil, fmt.Errorf("%w: close time %q", ErrInvalidTime, day.CloseTime)
			}
			dayConfig.OpenTime = openTime
			dayConfig.CloseTime = closeTime
		}
		config.Days[time.Weekday(weekday)] = dayConfig
	}

	for _, day := range dto.VacationDays {
		config.VacationDays[day] = struct{}{}
	}

	return config, nil
}

// FromDomainBufferPolicy конвертирует domain модель в DTO
func FromDomainBufferPolicy(p *domain.BufferPolicy) BufferPolicyDTO {
	dto := BufferPolicyDTO{
		Enabled:        p.Enabled,
		DefaultMinutes: p.DefaultMinutes,
		MinMinutes:     p.MinMinutes,
		MaxMinutes:     p.MaxMinutes,
		Adaptive:       p.Adaptive,
		PerTypeMinutes: make(map[string]int, len(p.PerTypeMinutes)),
	}

	for lessonType, minutes := range p.PerTypeMinutes {
		dto.PerTypeMinutes[string(lessonType)] = minutes
	}

	return dto
}

// ToDomainBufferPolicy конвертирует DTO в domain модель
func (dto BufferPolicyDTO) ToDomainBufferPolicy() *domain.BufferPolicy {
	policy := &domain.BufferPolicy{
		Enabled:        dto.Enabled,
		DefaultMinutes: dto.DefaultMinutes,
		MinMinutes:     dto.MinMinutes,
		MaxMinutes:     dto.MaxMinutes,
		Adaptive:       dto.Adaptive,
		PerTypeMinutes: make(map[domain.LessonType]int, len(dto.PerTypeMinutes)),
	}

	for lessonType, minutes := range dto.PerTypeMinutes {
		policy.PerTypeMinutes[domain.LessonType(lessonType)] = minutes
	}

	return policy
}
