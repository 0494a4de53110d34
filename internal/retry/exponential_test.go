package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestExponentialBackoffStrategy_Success(t *testing.T) {
	strategy := NewExponentialBackoffStrategy(3, 10*time.Millisecond, 100*time.Millisecond)

	err := strategy.Execute(context.Background(), func() error {
		return nil
	})

	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
}

func TestExponentialBackoffStrategy_SuccessAfterRetries(t *testing.T) {
	strategy := NewExponentialBackoffStrategy(5, 10*time.Millisecond, 100*time.Millisecond)

	attempts := 0
	err := strategy.Execute(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("connection reset by peer")
		}
		return nil
	})

	if err != nil {
		t.Errorf("Expected no error after retries, got: %v", err)
	}

	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got: %d", attempts)
	}
}

func TestExponentialBackoffStrategy_NonRecoverableError(t *testing.T) {
	strategy := NewExponentialBackoffStrategy(5, 10*time.Millisecond, 100*time.Millisecond)

	attempts := 0
	err := strategy.Execute(context.Background(), func() error {
		attempts++
		return errors.New("invalid transaction envelope")
	})

	if err == nil {
		t.Error("Expected error for non-recoverable failure")
	}

	if attempts != 1 {
		t.Errorf("Expected only 1 attempt for non-recoverable error, got: %d", attempts)
	}
}

func TestExponentialBackoffStrategy_MaxRetriesExceeded(t *testing.T) {
	strategy := NewExponentialBackoffStrategy(3, 10*time.Millisecond, 100*time.Millisecond)

	attempts := 0
	err := strategy.Execute(context.Background(), func() error {
		attempts++
		return errors.New("connection refused")
	})

	if err == nil {
		t.Error("Expected error after max retries exceeded")
	}

	expectedAttempts := 4 // 1 initial + 3 retries
	if attempts != expectedAttempts {
		t.Errorf("Expected %d attempts, got: %d", expectedAttempts, attempts)
	}
}

func TestExponentialBackoffStrategy_ContextCancellation(t *testing.T) {
	strategy := NewExponentialBackoffStrategy(10, 50*time.Millisecond, 500*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := strategy.Execute(ctx, func() error {
		attempts++
		return errors.New("i/o timeout")
	})

	if err == nil {
		t.Error("Expected error after context cancellation")
	}
}

func TestIsRecoverable_SubmissionBackoff(t *testing.T) {
	if !IsRecoverable(errors.New("send transaction status TRY_AGAIN_LATER")) {
		t.Error("Expected TRY_AGAIN_LATER to be recoverable")
	}
	if IsRecoverable(nil) {
		t.Error("Expected nil to not be recoverable")
	}
	if IsRecoverable(errors.New("transaction failed")) {
		t.Error("Expected terminal failure to not be recoverable")
	}
}

func TestNoRetryStrategy(t *testing.T) {
	strategy := NewNoRetryStrategy()

	attempts := 0
	err := strategy.Execute(context.Background(), func() error {
		attempts++
		return errors.New("connection refused")
	})

	if err == nil {
		t.Error("Expected error from single attempt")
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got: %d", attempts)
	}
}

func TestNewStrategy_Disabled(t *testing.T) {
	strategy := NewStrategy(Config{Enabled: false})
	if strategy.Name() != "NoRetry" {
		t.Errorf("Expected NoRetry strategy, got: %s", strategy.Name())
	}
}

func TestNewStrategy_Enabled(t *testing.T) {
	strategy := NewStrategy(DefaultConfig())
	if strategy.Name() != "ExponentialBackoff" {
		t.Errorf("Expected ExponentialBackoff strategy, got: %s", strategy.Name())
	}
}
