package middleware

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wayfind-go/wayfind/pkg/router"
)

// Default tracer name for wayfind routers.
const defaultTracerName = "wayfind"

// OTelConfig configures the OpenTelemetry navigation tracing.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "wayfind").
	TracerName string

	// IncludeQuery includes the query map in span attributes.
	// May contain sensitive information - disabled by default.
	IncludeQuery bool

	// AttributeExtractor extracts custom attributes from the pending
	// route. Called for each traced navigation.
	AttributeExtractor func(pending *router.Route) []attribute.KeyValue

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry navigation tracing.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithIncludeQuery enables including the query map in traces.
func WithIncludeQuery(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeQuery = include
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(pending *router.Route) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// defaultOTelConfig returns the default OpenTelemetry configuration.
func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName:   defaultTracerName,
		IncludeQuery: false,
	}
}

// OpenTelemetry instruments a router so every navigation attempt becomes
// a span: started when the attempt enters the guard chain, ended with an
// Ok status on commit or an Error status when the attempt fails.
//
// The tracer uses the global OpenTelemetry tracer provider. Configure it
// in your main() before starting the router:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
//
//	unhook := middleware.OpenTelemetry(rt, middleware.WithTracerName("my-app"))
//	defer unhook()
func OpenTelemetry(rt *router.Router, opts ...OTelOption) func() {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}
	config.tracer = otel.Tracer(config.TracerName)

	// At most one navigation is mid-pipeline per router; a superseding
	// attempt ends the previous span as cancelled.
	var (
		mu   sync.Mutex
		span trace.Span
	)

	endSpan := func(status codes.Code, desc string, err error) {
		mu.Lock()
		s := span
		span = nil
		mu.Unlock()
		if s == nil {
			return
		}
		if err != nil {
			s.RecordError(err)
		}
		s.SetStatus(status, desc)
		s.End()
	}

	unBefore := rt.OnBeforeNavigation(func(current, pending *router.Route) {
		endSpan(codes.Unset, "superseded", nil)

		attrs := []attribute.KeyValue{
			attribute.String("wayfind.path", pending.Path),
			attribute.String("wayfind.full_path", pending.FullPath),
			attribute.String("wayfind.action", string(pending.Action)),
		}
		if pending.Name != "" {
			attrs = append(attrs, attribute.String("wayfind.route_name", pending.Name))
		}
		if config.IncludeQuery {
			for k, v := range pending.Query {
				attrs = append(attrs, attribute.String("wayfind.query."+k, v))
			}
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(pending)...)
		}

		_, s := config.tracer.Start(
			context.Background(),
			formatSpanName(pending),
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
		)
		mu.Lock()
		span = s
		mu.Unlock()
	})

	unChanged := rt.OnNavigationChanged(func(outgoing, committed *router.Route) {
		endSpan(codes.Ok, "", nil)
	})

	unError := rt.OnError(func(err error) {
		endSpan(codes.Error, err.Error(), err)
	})

	return func() {
		endSpan(codes.Unset, "unhooked", nil)
		unBefore()
		unChanged()
		unError()
	}
}

// formatSpanName creates a span name from the pending route.
func formatSpanName(pending *router.Route) string {
	path := pending.Path
	if path == "" {
		path = "/"
	}
	return fmt.Sprintf("navigate %s", path)
}
