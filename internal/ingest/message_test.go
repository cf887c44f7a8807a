package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMessage(t *testing.T) {
	msg, err := DecodeMessage([]byte(`{"batchID":"b-1","mode":"all-or-nothing","rows":[{"name":"A","hours":"Mon 9 am - 5 pm"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "b-1", msg.BatchID)
	assert.Len(t, msg.Rows, 1)

	_, err = DecodeMessage([]byte(`{"mode":"weird","rows":[{"name":"A","hours":"x"}]}`))
	assert.ErrorIs(t, err, ErrUnknownMode)

	_, err = DecodeMessage([]byte(`{"rows":[]}`))
	assert.ErrorIs(t, err, ErrEmptyBatch)

	_, err = DecodeMessage([]byte(`not json`))
	assert.Error(t, err)
}

func TestProcessMessage_UsesMessageMode(t *testing.T) {
	msg, err := DecodeMessage([]byte(`{"batchID":"b-2","mode":"all-or-nothing","rows":[
		{"name":"Good","hours":"Mon 9 am - 5 pm"},
		{"name":"Bad","hours":"Mon 9 am - 5 pm / Xyz 9 am - 5 pm"}
	]}`))
	require.NoError(t, err)

	store := newMemStore()
	summary, err := New(store, 2).ProcessMessage(context.Background(), msg)
	require.NoError(t, err)

	assert.Equal(t, []string{"Good"}, store.calls)
	assert.Equal(t, 1, summary.Persisted)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, 2, summary.Failures[0].Line)
}
