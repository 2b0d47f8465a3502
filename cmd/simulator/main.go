package main

import (
	"math/rand"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/barcadehq/arcade-tracker/internal/config"
)

type cabinetEvent struct {
	MachineID int64     `json:"machine_id"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status,omitempty"`
	Amount    float64   `json:"amount,omitempty"`
	IsToken   bool      `json:"is_token,omitempty"`
}

var statuses = []string{"working", "needs_maintenance", "out_of_order"}

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker())
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	for i := 0; i < 100; i++ {
		ev := cabinetEvent{
			MachineID: int64(1 + rand.Intn(4)),
			Timestamp: time.Now(),
		}
		if rand.Intn(2) == 0 {
			ev.Kind = "status"
			ev.Status = statuses[rand.Intn(len(statuses))]
		} else {
			ev.Kind = "revenue"
			ev.Amount = float64(rand.Intn(200))
			ev.IsToken = rand.Intn(2) == 0
		}
		payload, _ := json.Marshal(ev)
		token := client.Publish(config.MQTTTopic(), 0, false, payload)
		token.Wait()
		time.Sleep(500 * time.Millisecond)
	}
	log.Info().Msg("simulation done")
}
