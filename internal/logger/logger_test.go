package logger_test

import (
	"testing"

	"todo/internal/logger"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	log, err := logger.New("prod", "warn")
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())

	_, err = logger.New("local", "debug")
	assert.NoError(t, err)
}

func TestNew_Invalid(t *testing.T) {
	_, err := logger.New("prod", "loud")
	assert.Error(t, err)

	_, err = logger.New("staging", "info")
	assert.EqualError(t, err, "unknown env: staging")
}
