package publisher

// Publisher represents a service for publishing check results to
// downstream consumers.
type Publisher interface {
	// Publish publishes one serialized result under a site key
	Publish(site string, message []byte) error

	// TrimStream trims the stream to the configured maximum length
	TrimStream() error

	// Close closes the publisher connection
	Close() error
}
