package config

import (
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCircuitBreaker_OpensAfterThreeFailures(t *testing.T) {
	cb := NewCircuitBreaker("Redis-Stats")
	assert.Equal(t, "Redis-Stats", cb.Name())
	assert.Equal(t, gobreaker.StateClosed, cb.State())

	boom := errors.New("dependency down")
	for i := 0; i < 3; i++ {
		_, err := cb.Execute(func() (interface{}, error) { return nil, boom })
		assert.ErrorIs(t, err, boom)
	}

	assert.Equal(t, gobreaker.StateOpen, cb.State())
	_, err := cb.Execute(func() (interface{}, error) { return nil, nil })
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestNewCircuitBreaker_SuccessResetsFailureStreak(t *testing.T) {
	cb := NewCircuitBreaker("Payment-Gateway")
	boom := errors.New("dependency down")

	for i := 0; i < 2; i++ {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, boom })
	}
	_, err := cb.Execute(func() (interface{}, error) { return "ok", nil })
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, boom })
	}

	// Never three consecutive failures, so the circuit stays closed.
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}
