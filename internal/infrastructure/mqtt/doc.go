// Package mqtt provides MQTT connectivity for litebridge lifecycle events.
//
// Consumers of a litebridge-managed database keep their own caches of
// materialized records. When the store is reset or migrated those caches
// go stale, so litebridge announces schema lifecycle events over MQTT:
//
//	litebridge/system/status   — online/offline (retained, with LWT)
//	litebridge/schema/reset    — full database reset, new schema version
//	litebridge/schema/migrated — migration applied, from/to versions
//
// The package wraps paho.mqtt.golang with connection management,
// automatic reconnection with exponential backoff, and publish timeouts.
// It is publish-only: litebridge emits events, it does not take commands
// over the broker.
//
// MQTT support is optional; it is only wired up when mqtt.enabled is set
// in config.yaml.
package mqtt
