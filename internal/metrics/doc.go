// Package metrics records build observability data.
//
// Components take a Recorder and default to NoopRecorder, so metrics never
// need nil checks. The preview and daemon servers install a
// PrometheusRecorder and expose it through HTTPHandler.
package metrics
