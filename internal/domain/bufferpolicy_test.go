package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveBuffer_NilPolicy(t *testing.T) {
	assert.Equal(t, 0, ResolveBuffer(LessonStandard, nil))
}

func TestResolveBuffer_Disabled(t *testing.T) {
	policy := DefaultBufferPolicy()
	policy.Enabled = false

	assert.Equal(t, 0, ResolveBuffer(LessonStandard, policy))
}

func TestResolveBuffer_Default(t *testing.T) {
	policy := DefaultBufferPolicy()

	assert.Equal(t, DefaultBufferTimeMinutes, ResolveBuffer(LessonStandard, policy))
}

func TestResolveBuffer_AdaptiveOverride(t *testing.T) {
	// Подготовка к экзамену требует увеличенного буфера
	policy := &BufferPolicy{
		Enabled:        true,
		DefaultMinutes: 30,
		MinMinutes:     15,
		MaxMinutes:     60,
		Adaptive:       true,
		PerTypeMinutes: map[LessonType]int{
			LessonTestPreparation: 60,
			LessonExam:            45,
		},
	}

	assert.Equal(t, 60, ResolveBuffer(LessonTestPreparation, policy))
	assert.Equal(t, 45, ResolveBuffer(LessonExam, policy))
	// Тип без переопределения - дефолт
	assert.Equal(t, 30, ResolveBuffer(LessonStandard, policy))
}

func TestResolveBuffer_AdaptiveDisabledIgnoresOverrides(t *testing.T) {
	policy := &BufferPolicy{
		Enabled:        true,
		DefaultMinutes: 30,
		MinMinutes:     15,
		MaxMinutes:     60,
		Adaptive:       false,
		PerTypeMinutes: map[LessonType]int{LessonExam: 60},
	}

	assert.Equal(t, 30, ResolveBuffer(LessonExam, policy))
}

func TestResolveBuffer_OverrideClamped(t *testing.T) {
	policy := &BufferPolicy{
		Enabled:        true,
		DefaultMinutes: 30,
		MinMinutes:     15,
		MaxMinutes:     60,
		Adaptive:       true,
		PerTypeMinutes: map[LessonType]int{
			LessonExam:        120, // выше max
			LessonCityDriving: 5,   // ниже min
		},
	}

	assert.Equal(t, 60, ResolveBuffer(LessonExam, policy))
	assert.Equal(t, 15, ResolveBuffer(LessonCityDriving, policy))
}

func TestResolveBuffer_Pure(t *testing.T) {
	policy := DefaultBufferPolicy()

	first := ResolveBuffer(LessonStandard, policy)
	second := ResolveBuffer(LessonStandard, policy)

	assert.Equal(t, first, second)
	assert.Equal(t, DefaultBufferTimeMinutes, policy.DefaultMinutes)
}

func TestBufferPolicy_Validate(t *testing.T) {
	assert.NoError(t, DefaultBufferPolicy().Validate())

	bad := &BufferPolicy{DefaultMinutes: 30, MinMinutes: 45, MaxMinutes: 40}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidBufferPolicy)

	outside := &BufferPolicy{DefaultMinutes: 10, MinMinutes: 15, MaxMinutes: 60}
	assert.ErrorIs(t, outside.Validate(), ErrInvalidBufferPolicy)

	bounds := &BufferPolicy{DefaultMinutes: 30, MinMinutes: -1, MaxMinutes: 60}
	assert.ErrorIs(t, bounds.Validate(), ErrInvalidBufferPolicy)

	tooBig := &BufferPolicy{DefaultMinutes: 30, MinMinutes: 0, MaxMinutes: 200}
	assert.ErrorIs(t, tooBig.Validate(), ErrInvalidBufferPolicy)
}
