package event

// Plugin events
const (
	PLUGIN_START = "plugin-start"
	PLUGIN_ARGS  = "plugin-args-error"
	PLUGIN_DONE  = "plugin-done"

	CREDENTIALS_RESOLVED = "credentials-resolved"
	CREDENTIALS_ERROR    = "credentials-error"

	DB_CONNECTING = "db-connecting"
	DB_CONNECTED  = "db-connected"
	DB_CLOSED     = "db-closed"
	DB_ERROR      = "db-error"

	QUERY_RUNNING = "query-running"
	QUERY_INVALID = "query-invalid"
	QUERY_DONE    = "query-done"

	METRIC_EMITTED = "metric-emitted"
	SINK_ERROR     = "sink-error"

	HANDLER_EVENT_ERROR = "handler-event-error"
	HANDLER_INSERTED    = "handler-inserted"
)
