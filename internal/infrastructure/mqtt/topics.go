package mqtt

import "fmt"

// Topic prefixes for the litebridge MQTT hierarchy.
//
// All topics live under the flat scheme: litebridge/{category}/{event}
const (
	// TopicPrefix is the base for all litebridge topics.
	TopicPrefix = "litebridge"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "litebridge/system"

	// TopicPrefixSchema is the base for schema lifecycle topics.
	TopicPrefixSchema = "litebridge/schema"
)

// Topics provides builders for litebridge MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	resetTopic := topics.SchemaReset()
//	// Returns: "litebridge/schema/reset"
type Topics struct{}

// SystemStatus returns the topic for online/offline status.
// Retained, with a Last Will publishing the crash variant.
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// SchemaReset returns the topic for full database reset events.
// Subscribers should drop every record they have cached for this store.
func (Topics) SchemaReset() string {
	return fmt.Sprintf("%s/reset", TopicPrefixSchema)
}

// SchemaMigrated returns the topic for applied-migration events.
func (Topics) SchemaMigrated() string {
	return fmt.Sprintf("%s/migrated", TopicPrefixSchema)
}
