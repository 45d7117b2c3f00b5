// Package mqtt mirrors published active sets onto retained broker topics so
// terminals and integrations without a websocket can follow a zone.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
)

const (
	qos            = 1
	publishTimeout = 5 * time.Second
	quiesceMillis  = 250
)

// MQTT message handler for anything arriving on subscribed topics
var messagePubHandler mqtt.MessageHandler = func(client mqtt.Client, msg mqtt.Message) {
	log.Debug().Str("topic", msg.Topic()).Msg("[mqtt] received message")
}

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("[mqtt] connected to broker")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Warn().Err(err).Msg("[mqtt] connection lost")
}

// Bridge publishes each zone's active set, retained, to
// <prefix>/zones/<zone>/active.
type Bridge struct {
	client mqtt.Client
	prefix string
}

func NewBridge(client mqtt.Client, prefix string) *Bridge {
	return &Bridge{client: client, prefix: prefix}
}

// Connect dials the broker and returns a bridge using it.
func Connect(brokerURL, clientID, prefix string) (*Bridge, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetDefaultPublishHandler(messagePubHandler)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	log.Info().Str("broker", brokerURL).Str("client_id", clientID).Msg("[mqtt] bridge initialized")
	return NewBridge(client, prefix), nil
}

// Topic is the retained topic carrying zone's active set.
func (b *Bridge) Topic(zone string) string {
	return fmt.Sprintf("%s/zones/%s/active", b.prefix, zone)
}

func (b *Bridge) Name() string { return "mqtt" }

func (b *Bridge) Publish(update model.ActiveSetUpdate) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return err
	}

	topic := b.Topic(update.Zone)
	token := b.client.Publish(topic, qos, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

func (b *Bridge) Close() {
	if b.client.IsConnected() {
		b.client.Disconnect(quiesceMillis)
		log.Info().Msg("[mqtt] bridge disconnected")
	}
}
