package sim

import (
	"context"
	"fmt"
	"runtime"

	fx "github.com/robotalks/uartsim/pkg/framework"
)

// Sweep runs base once per receiver baud rate and returns the results in
// the order of bauds. Runs are independent and execute concurrently, so
// listeners must be safe for concurrent use.
func Sweep(ctx context.Context, base *Scenario, bauds []uint32, listeners ...EventListener) ([]*Result, error) {
	results := make([]*Result, len(bauds))
	runner := fx.NewRunnerWith(ctx).WithLimit(runtime.NumCPU())
	for n, baud := range bauds {
		n := n
		sc := *base
		sc.B = base.B.WithBaudRate(baud)
		sc.Name = fmt.Sprintf("%s@%d", base.Name, baud)
		runner.Go(fx.NamedRun(sc.Name, fx.RunFunc(func(ctx context.Context) error {
			res, err := Transfer(ctx, &sc, listeners...)
			results[n] = res
			return err
		})))
	}
	if err := runner.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
