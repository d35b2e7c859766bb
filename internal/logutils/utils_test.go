package logutils

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSetLoggerLevel(t *testing.T) {
	prev := logrus.GetLevel()
	t.Cleanup(func() { logrus.SetLevel(prev) })

	SetLoggerLevel("debug")
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	SetLoggerLevel("not-a-level")
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}
