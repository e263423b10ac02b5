package fsm

import (
	"context"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/milk9111/entitystate/ecs"
)

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestEvaluateSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	sys := NewSystem(WithLogger(slogt.New(t)), WithTracerProvider(tp))

	a := NewState[idle]("a")
	b := NewState[idle]("b")
	builder := NewBuilder()
	Trans(builder, Is(a), Always(), b, idle{})
	def := builder.Build()

	w := ecs.NewWorld()
	ok := w.CreateEntity()
	require.NoError(t, Attach(w, ok, def, a, idle{}))
	broken := w.CreateEntity()
	require.NoError(t, Attach(w, broken, def, a, idle{}))
	require.NoError(t, ecs.Add(w, broken, b.Kind(), &idle{}))

	require.Error(t, sys.Evaluate(context.Background(), w))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "fsm.evaluate", span.Name())
	assert.Equal(t, codes.Error, span.Status().Code)

	v, found := spanAttr(span, "transitions")
	require.True(t, found)
	assert.Equal(t, int64(1), v.AsInt64())
	v, found = spanAttr(span, "violations")
	require.True(t, found)
	assert.Equal(t, int64(1), v.AsInt64())
}
