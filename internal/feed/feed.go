// Package feed mirrors published collection snapshots to a Kafka topic.
//
// Each message is keyed by collection name and carries the full
// collection as JSON, so a compacted topic always holds the latest state
// of every collection. Publishing is decoupled from the store: Offer only
// records the newest snapshot per collection and returns, and a background
// goroutine sends whatever is newest when the broker is ready. Snapshots
// superseded before they were sent are dropped.
package feed

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"github.com/roach88/cakeledger/internal/model"
)

// Message is the JSON value of every feed record.
type Message struct {
	Collection  string          `json:"collection"`
	Count       int             `json:"count"`
	PublishedAt time.Time       `json:"publishedAt"`
	Items       json.RawMessage `json:"items"`
}

// Source is the subset of the store the feed watches.
type Source interface {
	WatchOrders(fn func([]model.Order)) (cancel func())
	WatchCustomers(fn func([]model.Customer)) (cancel func())
	WatchExpenses(fn func([]model.Expense)) (cancel func())
}

// Publisher sends the newest snapshot of each collection to Kafka.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	pending map[string]Message

	signal chan struct{}
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// NewKafkaPublisher connects a synchronous producer to brokers (comma
// separated) and starts publishing to topic.
func NewKafkaPublisher(brokers, topic string, logger *slog.Logger) (*Publisher, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Retry.Backoff = 100 * time.Millisecond
	cfg.Producer.Return.Successes = true // required by SyncProducer
	cfg.Net.DialTimeout = 30 * time.Second
	cfg.Net.ReadTimeout = 30 * time.Second
	cfg.Net.WriteTimeout = 30 * time.Second

	brokerList := strings.Split(brokers, ",")
	producer, err := sarama.NewSyncProducer(brokerList, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Info("kafka feed connected", "brokers", brokerList, "topic", topic)
	return NewPublisher(producer, topic, logger), nil
}

// NewPublisher starts publishing through an existing producer. The
// Publisher owns the producer and closes it on Close.
func NewPublisher(producer sarama.SyncProducer, topic string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Publisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
		now:      time.Now,
		pending:  make(map[string]Message),
		signal:   make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

// Attach subscribes to all three collections of src. The returned
// function stops watching.
func (p *Publisher) Attach(src Source) (detach func()) {
	cancels := []func(){
		src.WatchOrders(func(v []model.Order) { Offer(p, model.CollectionOrders, v) }),
		src.WatchCustomers(func(v []model.Customer) { Offer(p, model.CollectionCustomers, v) }),
		src.WatchExpenses(func(v []model.Expense) { Offer(p, model.CollectionExpenses, v) }),
	}
	return func() {
		for _, cancel := range cancels {
			cancel()
		}
	}
}

// Offer records items as the newest snapshot of collection. It never
// blocks on the broker.
func Offer[T any](p *Publisher, collection string, items []T) {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		p.logger.Warn("feed: encode failed", "collection", collection, "error", err)
		return
	}

	p.mu.Lock()
	p.pending[collection] = Message{
		Collection:  collection,
		Count:       len(items),
		PublishedAt: p.now().UTC(),
		Items:       raw,
	}
	p.mu.Unlock()

	select {
	case p.signal <- struct{}{}:
	default:
	}
}

func (p *Publisher) run() {
	defer close(p.done)
	for {
		select {
		case <-p.signal:
			p.sendPending()
		case <-p.stop:
			p.sendPending()
			return
		}
	}
}

func (p *Publisher) takePending() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Message, 0, len(p.pending))
	for _, m := range p.pending {
		out = append(out, m)
	}
	clear(p.pending)
	sort.Slice(out, func(i, j int) bool { return out[i].Collection < out[j].Collection })
	return out
}

func (p *Publisher) sendPending() {
	for _, m := range p.takePending() {
		value, err := json.Marshal(m)
		if err != nil {
			p.logger.Warn("feed: encode failed", "collection", m.Collection, "error", err)
			continue
		}
		partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
			Topic: p.topic,
			Key:   sarama.StringEncoder(m.Collection),
			Value: sarama.ByteEncoder(value),
		})
		if err != nil {
			p.logger.Warn("feed: send failed", "collection", m.Collection, "error", err)
			continue
		}
		p.logger.Debug("feed: snapshot sent",
			"collection", m.Collection,
			"count", m.Count,
			"partition", partition,
			"offset", offset,
		)
	}
}

// Close sends any pending snapshots, stops the background goroutine, and
// closes the producer.
func (p *Publisher) Close() error {
	var err error
	p.once.Do(func() {
		close(p.stop)
		<-p.done
		err = p.producer.Close()
	})
	return err
}
