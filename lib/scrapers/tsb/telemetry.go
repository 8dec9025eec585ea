package tsb

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("tsb.lib.scrapers.tsb")
