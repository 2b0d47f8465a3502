package main

import (
	"context"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/barcadehq/arcade-tracker/internal/cloud"
	"github.com/barcadehq/arcade-tracker/internal/config"
	"github.com/barcadehq/arcade-tracker/internal/database"
	"github.com/barcadehq/arcade-tracker/internal/service"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	var alerts *cloud.SNSClient
	if config.UseCloudServices() {
		if alerts, err = cloud.NewSNSClient(context.Background(), config.AWSRegion(), config.SNSTopicArn()); err != nil {
			log.Warn().Err(err).Msg("sns client unavailable, alerts disabled")
		}
	}

	svcs := service.New(db, alerts, nil)

	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker())
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		if err := svcs.Ingest.FromMQTT(context.Background(), msg.Topic(), msg.Payload()); err != nil {
			log.Error().Err(err).Str("topic", msg.Topic()).Msg("ingest failed")
		}
	}

	if token := client.Subscribe(config.MQTTTopic(), 0, handler); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("subscribe failed")
	}

	log.Info().Str("topic", config.MQTTTopic()).Msg("ingestor running; Ctrl+C to stop")
	for {
		time.Sleep(10 * time.Second)
	}
}
