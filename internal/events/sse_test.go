package events

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSSE_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	sent := []Event{
		{Type: EventTaskCreated, EntityID: "t1", SequenceID: 1, Timestamp: time.Unix(100, 0).UTC()},
		{Type: EventColumnDeleted, EntityID: "review", SequenceID: 2, Timestamp: time.Unix(200, 0).UTC()},
	}

	require.NoError(t, WriteSSE(&buf, sent[0]))
	require.NoError(t, WriteSSEComment(&buf, "keep-alive"))
	require.NoError(t, WriteSSE(&buf, sent[1]))

	var got []Event
	err := ReadSSE(&buf, func(e Event) error {
		got = append(got, e)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range sent {
		assert.Equal(t, sent[i].Type, got[i].Type)
		assert.Equal(t, sent[i].EntityID, got[i].EntityID)
		assert.Equal(t, sent[i].SequenceID, got[i].SequenceID)
		assert.True(t, sent[i].Timestamp.Equal(got[i].Timestamp))
	}
}

func TestReadSSE_StopsOnCallbackError(t *testing.T) {
	stream := "data: {\"type\":\"task_created\"}\n\ndata: {\"type\":\"task_deleted\"}\n\n"
	stop := errors.New("stop")

	calls := 0
	err := ReadSSE(strings.NewReader(stream), func(Event) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestReadSSE_BadFrame(t *testing.T) {
	err := ReadSSE(strings.NewReader("data: {not json\n\n"), func(Event) error { return nil })
	assert.Error(t, err)
}
