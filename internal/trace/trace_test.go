package trace

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkTraceAndRecords(t *testing.T) {
	s := NewSink()
	s.Trace("x_1", "5")
	s.Trace("y_1", "true")

	records := s.Records()
	require.Len(t, records, 2)
	assert.Equal(t, Record{Name: "x_1", Value: "5"}, records[0])
	assert.Equal(t, Record{Name: "y_1", Value: "true"}, records[1])
}

func TestSinkFlush(t *testing.T) {
	s := NewSink()
	s.Trace("a_1", "1")
	s.Trace("b_1", "2")

	var buf bytes.Buffer
	require.NoError(t, s.Flush(&buf))
	assert.Equal(t, "a_1=1\nb_1=2\n", buf.String())

	// Flush does not clear the sink.
	assert.Len(t, s.Records(), 2)
}

func TestSinkClose(t *testing.T) {
	s := NewSink()
	s.Trace("a_1", "1")

	var buf bytes.Buffer
	require.NoError(t, s.Close(&buf))
	assert.Equal(t, "a_1=1\n", buf.String())
	assert.Empty(t, s.Records())
}

func TestSinkReset(t *testing.T) {
	s := NewSink()
	s.Trace("a_1", "1")
	s.Reset()
	assert.Empty(t, s.Records())
}

func TestSinkConcurrentTrace(t *testing.T) {
	s := NewSink()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.Trace("x_1", "v")
		}(i)
	}
	wg.Wait()
	assert.Len(t, s.Records(), 50)
}

func TestGlobalSinkExists(t *testing.T) {
	Global.Reset()
	Global.Trace("g_1", "1")
	assert.Len(t, Global.Records(), 1)
	Global.Reset()
}
