package sh

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/uartsim/pkg/comm/mqtt"
	"github.com/robotalks/uartsim/pkg/sim"
	"github.com/robotalks/uartsim/pkg/uart"
)

// Shell provides ishell backed interactive shell driving a bench.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	// Trace prints every event.
	Trace bool

	Shell *ishell.Shell
	*Session
}

const (
	shellKey = "$shell"
	prompt   = "uart > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool
	baudB      uint

	commands []*ishell.Cmd
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	flag.UintVar(&baudB, "baud-b", baudB, "Baud rate of device b, 0 uses -baud.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell on bench.
func New(bench *sim.Bench, conf *sim.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:   ishell.New(),
		Session: NewSession(bench, conf),
	}
	bench.SubscribeEvents(sim.ListenerFunc(s.traceEvent))
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(prompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// NewBench creates the bench from device and simulation configs.
func NewBench(conf *uart.Config, simConf *sim.Config) (*sim.Bench, error) {
	confB := *conf
	if baudB != 0 {
		confB.BaudRate = uint32(baudB)
	}
	return sim.NewBench("shell", *conf, confB, simConf, sim.FeedPolicy{})
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Port resolves the device named by the first argument.
func Port(c *ishell.Context) (*sim.Port, error) {
	if len(c.Args) < 1 {
		return nil, fmt.Errorf("DEVICE required")
	}
	return ShellFrom(c).Bench.Port(c.Args[0])
}

// Output prints v as JSON with -json, otherwise the text.
func Output(c *ishell.Context, v interface{}, text string) {
	if !ShellFrom(c).OutputJSON {
		c.Println(text)
		return
	}
	out, err := json.Marshal(v)
	if err != nil {
		c.Err(err)
		return
	}
	c.Println(string(out))
}

func (s *Shell) traceEvent(e sim.Event) {
	if !s.Trace {
		return
	}
	if s.OutputJSON {
		if out, err := json.Marshal(e); err == nil {
			s.Shell.Println(string(out))
		}
		return
	}
	s.Shell.Println(e.String())
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

// Publish sends the events of the bench to the broker in conf.
// It returns nil without a broker.
func (s *Shell) Publish(conf *mqtt.Config) (*mqtt.Publisher, error) {
	if !conf.Enabled() {
		return nil, nil
	}
	pub, err := conf.NewPublisher()
	if err != nil {
		return nil, err
	}
	s.Bench.SubscribeEvents(pub)
	return pub, nil
}

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	simConf := sim.NewConfig()
	bench, err := NewBench(uart.NewConfig(), simConf)
	if err != nil {
		log.Fatalln(err)
	}
	s := New(bench, simConf)
	pub, err := s.Publish(mqtt.NewConfig())
	if err != nil {
		log.Fatalf("connect MQTT broker error: %v", err)
	}
	if pub != nil {
		defer pub.Close()
	}
	s.Run(flag.Args()...)
}
