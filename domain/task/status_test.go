package task

import (
	"errors"
	"testing"
	"time"
)

func TestValidStatus(t *testing.T) {
	valid := []Status{StatusNotStarted, StatusInProgress, StatusCompleted, StatusAbandoned}
	for _, s := range valid {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false, want true", s)
		}
	}

	if ValidStatus("DONE") {
		t.Error(`ValidStatus("DONE") = true, want false`)
	}
	if ValidStatus("") {
		t.Error(`ValidStatus("") = true, want false`)
	}
}

func TestTransition(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name          string
		current       Status
		target        Status
		wantErr       error
		wantStarted   bool
		wantCompleted bool
	}{
		{
			name:        "not started to in progress derives startedAt",
			current:     StatusNotStarted,
			target:      StatusInProgress,
			wantStarted: true,
		},
		{
			name:          "in progress to completed derives completedAt",
			current:       StatusInProgress,
			target:        StatusCompleted,
			wantCompleted: true,
		},
		{
			name:    "not started to abandoned derives nothing",
			current: StatusNotStarted,
			target:  StatusAbandoned,
		},
		{
			name:    "completed back to not started derives nothing",
			current: StatusCompleted,
			target:  StatusNotStarted,
		},
		{
			name:    "same status is rejected",
			current: StatusInProgress,
			target:  StatusInProgress,
			wantErr: ErrSameStatus,
		},
		{
			name:    "unknown status is rejected",
			current: StatusNotStarted,
			target:  "DONE",
			wantErr: ErrUnknownStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Transition(tt.current, tt.target, now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Transition() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Transition() error = %v", err)
			}

			if tt.wantStarted && (result.StartedAt == nil || !result.StartedAt.Equal(now)) {
				t.Errorf("StartedAt = %v, want %v", result.StartedAt, now)
			}
			if !tt.wantStarted && result.StartedAt != nil {
				t.Errorf("StartedAt = %v, want nil", result.StartedAt)
			}
			if tt.wantCompleted && (result.CompletedAt == nil || !result.CompletedAt.Equal(now)) {
				t.Errorf("CompletedAt = %v, want %v", result.CompletedAt, now)
			}
			if !tt.wantCompleted && result.CompletedAt != nil {
				t.Errorf("CompletedAt = %v, want nil", result.CompletedAt)
			}
		})
	}
}
