package mqtt

import (
	"context"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/noise-alert/internal/alert"
	"github.com/sweeney/noise-alert/internal/logger"
)

// bufferCapacity bounds messages held while the broker is unreachable.
const bufferCapacity = 256

// queueCapacity bounds messages waiting for the sender goroutine.
const queueCapacity = 64

const publishTimeout = 5 * time.Second

// RealPublisher publishes to an actual MQTT broker. Publish and PublishSystem
// never block: messages go to a sender goroutine, and messages sent while
// disconnected are buffered and replayed on reconnect.
type RealPublisher struct {
	client  paho.Client
	ctx     context.Context
	out     chan bufferedMsg
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once

	mu  sync.Mutex
	buf *ringBuffer
}

// NewRealPublisher starts connecting to broker in the background and returns
// immediately; it never blocks the alert loop waiting for the broker.
func NewRealPublisher(ctx context.Context, broker string) (*RealPublisher, error) {
	p := &RealPublisher{
		ctx:     logger.WithName(ctx, "mqtt"),
		buf:     newRingBuffer(bufferCapacity),
		out:     make(chan bufferedMsg, queueCapacity),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	will, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Now(),
		Event:     EventOffline,
		Reason:    "MQTT_DISCONNECT",
	})
	if err != nil {
		return nil, fmt.Errorf("format will payload: %w", err)
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetWill(TopicSystem, string(will), 1, true).
		SetOnConnectHandler(p.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			logger.WarnKV(p.ctx, "connection lost", "broker", broker, "error", err)
		})

	p.client = paho.NewClient(opts)
	p.client.Connect()
	go p.sendLoop()

	return p, nil
}

// Publish sends an alert transition to the broker.
func (p *RealPublisher) Publish(event alert.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	// QoS 0 (at-most-once), not retained
	p.send(bufferedMsg{topic: Topic, payload: payload, qos: 0})
	return nil
}

// PublishSystem sends a lifecycle event to the broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once): lifecycle events must arrive
	p.send(bufferedMsg{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
	return nil
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close stops the sender and disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.once.Do(func() { close(p.done) })
	<-p.stopped
	p.client.Disconnect(1000) // 1 second quiesce
	return nil
}

// send queues msg for the sender goroutine. If that queue is full the
// message joins the reconnect buffer instead.
func (p *RealPublisher) send(msg bufferedMsg) {
	select {
	case p.out <- msg:
	default:
		p.mu.Lock()
		p.buf.push(msg)
		p.mu.Unlock()
		logger.WarnKV(p.ctx, "send queue full, buffering", "topic", msg.topic)
	}
}

func (p *RealPublisher) sendLoop() {
	for {
		select {
		case <-p.done:
			p.flush()
			close(p.stopped)
			return
		case msg := <-p.out:
			p.deliver(msg)
		}
	}
}

// flush delivers whatever was queued before Close, such as SHUTDOWN.
func (p *RealPublisher) flush() {
	for {
		select {
		case msg := <-p.out:
			p.deliver(msg)
		default:
			return
		}
	}
}

func (p *RealPublisher) deliver(msg bufferedMsg) {
	if !p.client.IsConnectionOpen() {
		p.mu.Lock()
		p.buf.push(msg)
		p.mu.Unlock()
		return
	}

	token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	go p.await(msg.topic, token)
}

func (p *RealPublisher) await(topic string, token paho.Token) {
	if !token.WaitTimeout(publishTimeout) {
		logger.WarnKV(p.ctx, "publish timeout", "topic", topic)
		return
	}
	if err := token.Error(); err != nil {
		logger.WarnKV(p.ctx, "publish failed", "topic", topic, "error", err)
	}
}

func (p *RealPublisher) onConnect(c paho.Client) {
	p.mu.Lock()
	msgs := p.buf.drainAll()
	p.mu.Unlock()

	logger.InfoKV(p.ctx, "connected", "replaying", len(msgs))

	for _, msg := range msgs {
		token := c.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
		go p.await(msg.topic, token)
	}
}
