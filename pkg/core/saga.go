package core

import (
	"context"

	"github.com/PasqualeSorrentino/ddditserver/pkg/metrics"
	"go.uber.org/zap"
)

// A step is one store write in a multi store operation, paired with
// the action undoing it.
type step struct {
	name       string
	action     func(context.Context) error
	compensate func(context.Context) error
}

// runSaga applies the steps in order. When a step fails, the already
// applied steps are compensated in reverse order and the original
// error is returned. Compensation failures are logged, not returned:
// a failed rollback leaves the stores inconsistent and the log is the
// trail to clean up from.
func runSaga(ctx context.Context, l *zap.Logger, operation string, steps []step) error {
	for i, s := range steps {
		err := s.action(ctx)
		if err == nil {
			continue
		}
		l.Error("step failed, rolling back",
			zap.String("operation", operation),
			zap.String("step", s.name),
			zap.Error(err),
		)
		metrics.Inc(metrics.CompensationCount, operation)
		for j := i - 1; j >= 0; j-- {
			undo := steps[j]
			if undo.compensate == nil {
				continue
			}
			if cerr := undo.compensate(ctx); cerr != nil {
				l.Error("rollback step failed",
					zap.String("operation", operation),
					zap.String("step", undo.name),
					zap.Error(cerr),
				)
			}
		}
		return err
	}
	return nil
}
