package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindMatching(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		target   error
		wantIs   bool
		wantKind Kind
	}{
		{
			name:     "not found matches sentinel",
			err:      NotFound("specialty %s not found", "AR-001"),
			target:   ErrNotFound,
			wantIs:   true,
			wantKind: KindNotFound,
		},
		{
			name:     "forbidden does not match not found",
			err:      Forbidden("staff role required"),
			target:   ErrNotFound,
			wantIs:   false,
			wantKind: KindForbidden,
		},
		{
			name:     "wrapped with fmt keeps kind",
			err:      fmt.Errorf("SetRequirementStatus: %w", Invalid("bad verdict")),
			target:   ErrInvalid,
			wantIs:   true,
			wantKind: KindInvalid,
		},
		{
			name:     "wrap keeps cause",
			err:      Wrap(KindConflict, errors.New("duplicate key"), "email already registered"),
			target:   ErrConflict,
			wantIs:   true,
			wantKind: KindConflict,
		},
		{
			name:     "plain error has no kind",
			err:      errors.New("connection refused"),
			target:   ErrNotFound,
			wantIs:   false,
			wantKind: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantIs, errors.Is(tt.err, tt.target))
			assert.Equal(t, tt.wantKind, KindOf(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := Wrap(KindConflict, errors.New("duplicate key"), "email already registered")
	assert.Equal(t, "email already registered: duplicate key", err.Error())
	assert.Equal(t, "user not found", NotFound("user not found").Error())
}
