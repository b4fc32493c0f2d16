package messenger

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ZilDuck/nft-marketplace/internal/chain"
	"github.com/ZilDuck/nft-marketplace/internal/event"
	"go.uber.org/zap"
)

const sendTimeout = 10 * time.Second

// Notifier forwards marketplace logs to the queue. Delivery failures are
// logged and dropped.
type Notifier struct {
	messages MessageService
	timeout  time.Duration
}

func NewNotifier(messages MessageService) *Notifier {
	return &Notifier{messages: messages, timeout: sendTimeout}
}

func (n *Notifier) Listen(manager *event.Manager) {
	for _, eventType := range event.MarketplaceEvents {
		manager.AddEventListener(eventType, func(msg interface{}) {
			l, ok := msg.(chain.Log)
			if !ok {
				return
			}
			if err := n.Notify(l); err != nil {
				zap.L().With(zap.String("txHash", l.TxHash.Hex()), zap.String("event", l.Name), zap.Error(err)).Warn("Notifier: Event not delivered")
			}
		})
	}
}

func (n *Notifier) Notify(l chain.Log) error {
	body, err := json.Marshal(l)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	return n.messages.SendMessage(ctx, MarketplaceEvent, body, map[string]string{
		"event":   l.Name,
		"address": l.Address.Hex(),
	})
}
