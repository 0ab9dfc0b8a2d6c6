package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStartStaleCredentialCleaner_Success(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer dbMock.Close()

	mock.ExpectExec("DELETE FROM credentials").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	core, logs := observer.New(zapcore.InfoLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartStaleCredentialCleaner(ctx, dbMock, 10*time.Millisecond, time.Hour, zap.New(core))

	time.Sleep(200 * time.Millisecond)
	cancel()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
	if logs.FilterMessage("cleaned stale credentials").Len() == 0 {
		t.Errorf("expected cleanup to be logged, got %v", logs.All())
	}
}

func TestStartStaleCredentialCleaner_ErrorLogged(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer dbMock.Close()

	mock.ExpectExec("DELETE FROM credentials").
		WithArgs(sqlmock.AnyArg()).
		WillReturnError(fmt.Errorf("db fail"))

	core, logs := observer.New(zapcore.ErrorLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartStaleCredentialCleaner(ctx, dbMock, 10*time.Millisecond, time.Hour, zap.New(core))

	time.Sleep(200 * time.Millisecond)
	cancel()

	if logs.FilterMessage("failed to clean stale credentials").Len() == 0 {
		t.Errorf("expected error log, got %v", logs.All())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStartStaleCredentialCleaner_CancelBeforeTicker(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer dbMock.Close()

	ctx, cancel := context.WithCancel(context.Background())

	StartStaleCredentialCleaner(ctx, dbMock, 100*time.Millisecond, time.Hour, zap.NewNop())
	cancel()

	time.Sleep(50 * time.Millisecond)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected sql calls: %v", err)
	}
}
