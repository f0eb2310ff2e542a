package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

type fakeNetError struct{}

func (fakeNetError) Error() string   { return "connection reset" }
func (fakeNetError) Timeout() bool   { return false }
func (fakeNetError) Temporary() bool { return true }

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(gorm.ErrRecordNotFound) {
		t.Fatal("gorm.ErrRecordNotFound should classify as not found")
	}
	if !IsNotFound(fmt.Errorf("wrapped: %w", gorm.ErrRecordNotFound)) {
		t.Fatal("wrapped not-found should still classify")
	}
	if IsNotFound(errors.New("boom")) {
		t.Fatal("arbitrary error must not classify as not found")
	}
}

func TestIsDuplicate(t *testing.T) {
	if !IsDuplicate(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}) {
		t.Fatal("1062 should classify as duplicate")
	}
	if IsDuplicate(&mysql.MySQLError{Number: 1213}) {
		t.Fatal("deadlock is not a duplicate")
	}
	if IsDuplicate(errors.New("boom")) {
		t.Fatal("arbitrary error must not classify as duplicate")
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"bad conn", driver.ErrBadConn, true},
		{"invalid conn", mysql.ErrInvalidConn, true},
		{"eof", io.EOF, true},
		{"lock wait timeout", &mysql.MySQLError{Number: 1205}, true},
		{"deadlock", &mysql.MySQLError{Number: 1213}, true},
		{"duplicate is permanent", &mysql.MySQLError{Number: 1062}, false},
		{"syntax error is permanent", &mysql.MySQLError{Number: 1064}, false},
		{"net error", fakeNetError{}, true},
		{"plain error", errors.New("boom"), false},
		{"wrapped deadlock", fmt.Errorf("tx: %w", &mysql.MySQLError{Number: 1213}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Fatalf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestWithRetry_GivesUpOnPermanentError(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), "test.permanent", func() error {
		calls++
		return &mysql.MySQLError{Number: 1062}
	})
	if err == nil {
		t.Fatal("permanent error should surface")
	}
	if calls != 1 {
		t.Fatalf("permanent error must not retry, calls = %d", calls)
	}
}

func TestWithRetry_RetriesTransientError(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), "test.transient", func() error {
		calls++
		if calls < 2 {
			return &mysql.MySQLError{Number: 1213}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("retry should eventually succeed: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
}
