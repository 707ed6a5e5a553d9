package observability

import "go.opentelemetry.io/otel"

// Tracer is the shared tracer for pipeline spans. Without an SDK installed
// the global provider no-ops, so batch runs pay nothing.
var Tracer = otel.Tracer("archmap")
