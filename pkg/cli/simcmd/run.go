package simcmd

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robotalks/uartsim/pkg/comm/mqtt"
	"github.com/robotalks/uartsim/pkg/comm/websocket"
	fx "github.com/robotalks/uartsim/pkg/framework"
	"github.com/robotalks/uartsim/pkg/sim"
	"github.com/robotalks/uartsim/pkg/sim/report"
)

var runCmd = &cobra.Command{
	Use:   "run [NAME]",
	Short: "Send the message from a to b once and report the outcome",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := "run"
		if len(args) > 0 {
			name = args[0]
		}
		sc, err := scenarioFromConfig(viper.GetViper(), name)
		if err != nil {
			return err
		}
		return withOutputs(func(ctx context.Context, o *outputs) error {
			res, err := sim.Transfer(ctx, sc, o.listeners...)
			if err != nil {
				return err
			}
			if err := o.publish(res); err != nil {
				return err
			}
			if fn := viper.GetString("report"); fn != "" {
				if err := writeReport(fn, res); err != nil {
					return err
				}
			}
			if !viper.GetBool("json") {
				fmt.Fprintf(cmd.OutOrStdout(), "sent:     %q\nreceived: %q\n", res.Sent, res.Received)
			}
			return writeResults(cmd.OutOrStdout(), []*sim.Result{res}, viper.GetBool("json"))
		})
	},
}

// outputs are the optional live destinations of events and reports.
type outputs struct {
	listeners []sim.EventListener
	publisher *mqtt.Publisher
}

func (o *outputs) publish(results ...*sim.Result) error {
	if o.publisher == nil {
		return nil
	}
	for _, r := range results {
		if err := o.publisher.PublishReport(report.FromResult(r)); err != nil {
			return err
		}
	}
	return nil
}

// withOutputs connects MQTT and starts the websocket server when
// configured, then runs fn with a context canceled on SIGINT/SIGTERM.
func withOutputs(fn func(context.Context, *outputs) error) error {
	runner := fx.NewRunner().HandleSignals()
	ctx, cancel := context.WithCancel(runner.Context)
	defer cancel()

	o := &outputs{}
	if url := viper.GetString("mqtt.url"); url != "" {
		conf := mqtt.NewConfig()
		conf.BrokerURL = url
		if bench := viper.GetString("mqtt.bench"); bench != "" {
			conf.Bench = bench
		}
		pub, err := conf.NewPublisher()
		if err != nil {
			return fmt.Errorf("connect MQTT broker error: %v", err)
		}
		defer pub.Close()
		o.publisher = pub
		o.listeners = append(o.listeners, pub)
	}

	if addr := viper.GetString("ws"); addr != "" {
		hub := websocket.NewHub()
		defer hub.Close()
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return err
		}
		mux := http.NewServeMux()
		mux.Handle("/events", hub.Handler())
		srv := &http.Server{Handler: mux}
		glog.Infof("serving events on ws://%s/events", ln.Addr())
		runner.GoWith(ctx, fx.NamedRun("websocket", fx.RunFunc(func(ctx context.Context) error {
			err := fx.RunWithContextCloser(ctx, srv, func() error {
				return srv.Serve(ln)
			})
			if err == http.ErrServerClosed {
				return nil
			}
			return err
		})))
		o.listeners = append(o.listeners, hub)
	}

	err := fn(ctx, o)
	cancel()
	if werr := runner.Wait(); werr != nil && err == nil {
		err = werr
	}
	return err
}
