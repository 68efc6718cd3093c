package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError_Checks(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		uninitialized bool
		invalid       bool
		storeNotFound bool
	}{
		{name: "nil", err: nil},
		{name: "uninitialized", err: ErrUninitialized, uninitialized: true},
		{name: "wrapped invalid n", err: fmt.Errorf("rank: %w", ErrInvalidN), invalid: true},
		{name: "store not found", err: ErrStoreNotFound, storeNotFound: true},
		{name: "plain error", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUninitialized(tt.err); got != tt.uninitialized {
				t.Errorf("IsUninitialized() = %v, want %v", got, tt.uninitialized)
			}
			if got := IsInvalidInput(tt.err); got != tt.invalid {
				t.Errorf("IsInvalidInput() = %v, want %v", got, tt.invalid)
			}
			if got := IsStoreNotFound(tt.err); got != tt.storeNotFound {
				t.Errorf("IsStoreNotFound() = %v, want %v", got, tt.storeNotFound)
			}
		})
	}
}

func TestDomainError_ErrorsIs(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NewDomainError(ModuleEngine, ErrorCodeInvalidInput, "other message"))
	if !errors.Is(err, ErrInvalidUserID) {
		t.Error("errors.Is should match on module and code")
	}
	if errors.Is(err, ErrUninitialized) {
		t.Error("errors.Is should not match a different code")
	}
}
