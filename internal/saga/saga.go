// Package saga 顺序执行多步写操作，失败时按逆序执行已完成步骤的补偿。
package saga

import (
	"context"
	"errors"
	"fmt"
)

// ErrHalt 步骤返回该错误时提前结束且视为成功（例如幂等重放命中）
var ErrHalt = errors.New("saga halted")

// Step 单个步骤；Compensate 为空表示该步骤不补偿
type Step struct {
	Name       string
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// CompensationFailure 补偿失败记录
type CompensationFailure struct {
	Step string
	Err  error
}

// Error 步骤失败
type Error struct {
	Step          string
	Err           error
	Compensated   []string
	Uncompensated []CompensationFailure
}

func (e *Error) Error() string {
	if len(e.Uncompensated) == 0 {
		return fmt.Sprintf("saga step %s failed: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("saga step %s failed: %v (%d compensations failed)", e.Step, e.Err, len(e.Uncompensated))
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Hooks 观察步骤执行（日志）
type Hooks struct {
	OnStepFailed         func(step string, err error)
	OnCompensationFailed func(step string, err error)
}

// Run 严格按顺序执行步骤
func Run(ctx context.Context, steps ...Step) error {
	return RunWithHooks(ctx, Hooks{}, steps...)
}

// RunWithHooks 执行步骤并回调钩子
func RunWithHooks(ctx context.Context, hooks Hooks, steps ...Step) error {
	done := make([]Step, 0, len(steps))
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return compensate(ctx, hooks, done, step.Name, err)
		}
		err := step.Run(ctx)
		if errors.Is(err, ErrHalt) {
			return nil
		}
		if err != nil {
			if hooks.OnStepFailed != nil {
				hooks.OnStepFailed(step.Name, err)
			}
			return compensate(ctx, hooks, done, step.Name, err)
		}
		done = append(done, step)
	}
	return nil
}

func compensate(ctx context.Context, hooks Hooks, done []Step, failed string, cause error) error {
	sagaErr := &Error{Step: failed, Err: cause}
	// 补偿不受原请求取消影响
	compCtx := context.WithoutCancel(ctx)
	for i := len(done) - 1; i >= 0; i-- {
		step := done[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(compCtx); err != nil {
			sagaErr.Uncompensated = append(sagaErr.Uncompensated, CompensationFailure{Step: step.Name, Err: err})
			if hooks.OnCompensationFailed != nil {
				hooks.OnCompensationFailed(step.Name, err)
			}
			continue
		}
		sagaErr.Compensated = append(sagaErr.Compensated, step.Name)
	}
	return sagaErr
}
