package observability

// EventEnvelope is the wire shape for connection lifecycle events published
// to the bus. The payload is event-specific; consumers dispatch on
// EventType/EventName.
type EventEnvelope struct {
	EventType string      `json:"event_type"`
	EventName string      `json:"event_name"`
	Payload   interface{} `json:"payload"`
}

// BuildHeaders assembles AMQP headers that let a consumer correlate an event
// with its originating HTTP request and trace. Empty values are omitted.
func BuildHeaders(requestID, traceID string) map[string]string {
	headers := map[string]string{}
	if requestID != "" {
		headers["x-request-id"] = requestID
	}
	if traceID != "" {
		headers["trace_id"] = traceID
	}
	return headers
}
