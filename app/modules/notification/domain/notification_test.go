package notificationdomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want Severity
	}{
		{"success", SeveritySuccess},
		{" WARNING ", SeverityWarning},
		{"error", SeverityError},
		{"", SeverityInfo},
		{"loud", SeverityInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSeverity(tt.in))
		})
	}
}

func TestSeverityIsValid(t *testing.T) {
	assert.True(t, SeverityInfo.IsValid())
	assert.False(t, Severity("info").IsValid())
}
