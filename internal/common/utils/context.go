package utils

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout はRunWithTimeoutが制限時間を超えた場合のエラーです
var ErrTimeout = errors.New("process timed out")

// RunWithTimeout は指定されたタイムアウト時間内で fn を実行します
// タイムアウトした場合は ErrTimeout を、親コンテキストがキャンセルされた場合はその理由を返します
func RunWithTimeout(ctx context.Context, timeout time.Duration, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- fn(ctx)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %v", ErrTimeout, timeout)
		}
		return fmt.Errorf("process cancelled: %w", ctx.Err())
	}
}
