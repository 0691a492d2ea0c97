package broker

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/nakedmcse/blackjack-go/internal/comm"
)

// SubjectGameEvents carries one message per resolved game, for anything
// downstream that wants outcomes (dashboards, audit, bots).
const SubjectGameEvents = "blackjack.events"

// Broker publishes resolved-game events to NATS. It is one of the
// notifiers wired into GameService when a NATS connection is configured.
type Broker struct {
	Conn *nats.Conn
}

func NewBroker(nc *nats.Conn) *Broker {
	return &Broker{Conn: nc}
}

func (b *Broker) GameResolved(event comm.GameEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Errorf("Failed to marshal game event for NATS: %v", err)
		return
	}

	if err := b.Conn.Publish(SubjectGameEvents, data); err != nil {
		log.Errorf("Failed to publish to NATS subject %s: %v", SubjectGameEvents, err)
	}
}
