package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/robotalks/uartsim/pkg/comm/mqtt"
	"github.com/robotalks/uartsim/pkg/sim"
	"github.com/robotalks/uartsim/pkg/sim/report"
)

var (
	mqttURL = mqtt.DefaultBrokerURL
	bench   = "+"
)

func init() {
	if val := os.Getenv("UARTSIM_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&bench, "bench", bench, "Bench to monitor, + for all.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}

	q.Sub(mqtt.EventTopic(bench, "+"), mqtt.Handler(func(topic string, payload []byte) {
		var e sim.Event
		if err := json.Unmarshal(payload, &e); err != nil {
			log.Printf("%s: bad event: %v", topic, err)
			return
		}
		name, _, _ := mqtt.SplitTopic(topic)
		log.Printf("%s/%s: %s", name, e.Bench, e)
	}))
	q.Sub(mqtt.ReportTopicOf(bench), mqtt.Handler(func(topic string, payload []byte) {
		r, err := report.Unmarshal(payload)
		if err != nil {
			log.Printf("%s: %v", topic, err)
			return
		}
		out, err := report.MarshalJSON(r, "")
		if err != nil {
			log.Printf("%s: %v", topic, err)
			return
		}
		log.Printf("%s: %s", topic, out)
	}))
	<-(chan struct{})(nil)
}
