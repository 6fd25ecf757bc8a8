package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidBufferPolicy возвращается при нарушении инвариантов политики буфера
var ErrInvalidBufferPolicy = errors.New("domain: invalid buffer policy")

// BufferPolicy maps lesson types to the idle gap required between lessons.
// The policy is loaded per request and threaded explicitly - there is no
// ambient global buffer configuration.
type BufferPolicy struct {
	Enabled        bool
	DefaultMinutes int
	MinMinutes     int
	MaxMinutes     int

	// Adaptive enables per-lesson-type overrides
	Adaptive       bool
	PerTypeMinutes map[LessonType]int
}

// DefaultBufferPolicy returns the fallback policy used when none is persisted
func DefaultBufferPolicy() *BufferPolicy {
	return &BufferPolicy{
		Enabled:        true,
		DefaultMinutes: DefaultBufferTimeMinutes,
		MinMinutes:     DefaultBufferMinMinutes,
		MaxMinutes:     DefaultBufferMaxMinutes,
		Adaptive:       false,
		PerTypeMinutes: map[LessonType]int{},
	}
}

// Validate checks min <= default <= max and the configured bounds
func (p *BufferPolicy) Validate() error {
	if p.MinMinutes < MinBufferMinutes || p.MaxMinutes > MaxBufferMinutes {
		return fmt.Errorf("%w: bounds must be in [%d, %d] minutes",
			ErrInvalidBufferPolicy, MinBufferMinutes, MaxBufferMinutes)
	}
	if p.MinMinutes > p.MaxMinutes {
		return fmt.Errorf("%w: min %d exceeds max %d", ErrInvalidBufferPolicy, p.MinMinutes, p.MaxMinutes)
	}
	if p.DefaultMinutes < p.MinMinutes || p.DefaultMinutes > p.MaxMinutes {
		return fmt.Errorf("%w: default %d is outside [%d, %d]",
			ErrInvalidBufferPolicy, p.DefaultMinutes, p.MinMinutes, p.MaxMinutes)
	}
	return nil
}

// ResolveBuffer returns the effective buffer in minutes for a lesson type.
// Pure and total: unknown lesson types fall back to the default, a disabled
// policy resolves to zero, per-type overrides are clamped into [min, max].
func ResolveBuffer(lessonType LessonType, policy *BufferPolicy) int {
	if policy == nil || !policy.Enabled {
		return 0
	}

	if policy.Adaptive {
		if minutes, ok := policy.PerTypeMinutes[lessonType]; ok {
			return clamp(minutes, policy.MinMinutes, policy.MaxMinutes)
		}
	}

	return policy.DefaultMinutes
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
