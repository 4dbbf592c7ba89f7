package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

// StartChangeConsumer connects to RabbitMQ, declares the
// facility.changed queue (durable), and starts consuming. Each event
// drops every cached public response under the given prefix so the next
// read reflects the admin edit. The function runs a reconnect loop and
// keeps running across broker failures; poison messages are rejected
// without requeue so the server continues operating.
func StartChangeConsumer(rdb *redis.Client, cachePrefix string) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("change-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, rdb, cachePrefix); err != nil {
			log.Printf("change-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection, rdb *redis.Client, cachePrefix string) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("change-consumer: set QoS failed: %v", err)
	}

	_, err = ch.QueueDeclare(facilityChangedQueueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(facilityChangedQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body, rdb, cachePrefix); err != nil {
			log.Printf("change-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte, rdb *redis.Client, cachePrefix string) error {
	var ev FacilityChangedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	dropped := 0
	if rdb != nil {
		n, err := invalidatePrefix(context.Background(), rdb, cachePrefix)
		if err != nil {
			return fmt.Errorf("invalidate cache: %w", err)
		}
		dropped = n
	}

	log.Printf("change-consumer: %s %s facility=%s city=%s at=%s; dropped %d cached responses",
		ev.Entity, ev.Action, ev.FacilityID, ev.CityID, ev.OccurredAt, dropped)
	return nil
}

// invalidatePrefix deletes every key under the cache prefix. Responses
// are keyed by a hash of route and query, so there is no way to target
// only the pages a single facility appears on; dropping the whole
// namespace is correct and cheap at directory scale.
func invalidatePrefix(ctx context.Context, rdb *redis.Client, prefix string) (int, error) {
	var (
		cursor  uint64
		dropped int
	)
	pattern := prefix + ":*"
	for {
		keys, next, err := rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return dropped, err
		}
		if len(keys) > 0 {
			if err := rdb.Del(ctx, keys...).Err(); err != nil {
				return dropped, err
			}
			dropped += len(keys)
		}
		cursor = next
		if cursor == 0 {
			return dropped, nil
		}
	}
}
