// Package tracing wraps OpenTelemetry so that simulations can be traced
// without the rest of the code importing the SDK. Spans are no-ops until Init
// or InitWithExporter installs a provider.
package tracing
