package model

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkStreamReplaysInOrder(t *testing.T) {
	s := ChunkStream(Chunk{Content: "안"}, Chunk{Content: "녕"})

	c, err := s.Recv()
	require.NoError(t, err)
	assert.Equal(t, "안", c.Content)

	c, err = s.Recv()
	require.NoError(t, err)
	assert.Equal(t, "녕", c.Content)

	_, err = s.Recv()
	assert.Equal(t, io.EOF, err)

	// Recv after termination stays terminal.
	_, err = s.Recv()
	assert.Equal(t, io.EOF, err)
}

func TestTextStream(t *testing.T) {
	content, calls, err := Drain(TextStream("안녕하세요"))
	require.NoError(t, err)
	assert.Equal(t, "안녕하세요", content)
	assert.Nil(t, calls)
}

func TestAccumulatorContent(t *testing.T) {
	var acc Accumulator
	acc.Add(Chunk{Content: "안"})
	acc.Add(Chunk{Content: "녕하세요"})
	assert.Equal(t, "안녕하세요", acc.Content())
	assert.Nil(t, acc.Calls())
}

func TestAccumulatorReassemblesFragmentsByIndex(t *testing.T) {
	// Two interleaved tool calls: the id and name arrive on the first
	// fragment of each index, arguments accumulate across fragments.
	var acc Accumulator
	acc.Add(Chunk{ToolDelta: &ToolCallDelta{Index: 0, ID: "call_a", Name: "team_player", Arguments: `{"que`}})
	acc.Add(Chunk{ToolDelta: &ToolCallDelta{Index: 1, ID: "call_b", Name: "news_analysis", Arguments: `{"query":`}})
	acc.Add(Chunk{ToolDelta: &ToolCallDelta{Index: 0, Arguments: `ry": "손흥민"}`}})
	acc.Add(Chunk{ToolDelta: &ToolCallDelta{Index: 1, Arguments: ` "이적설"}`}})

	calls := acc.Calls()
	require.Len(t, calls, 2)

	assert.Equal(t, "call_a", calls[0].ID)
	assert.Equal(t, "team_player", calls[0].Name)
	assert.Equal(t, `{"query": "손흥민"}`, calls[0].Arguments)

	assert.Equal(t, "call_b", calls[1].ID)
	assert.Equal(t, "news_analysis", calls[1].Name)
	assert.Equal(t, `{"query": "이적설"}`, calls[1].Arguments)
}

func TestAccumulatorOutOfOrderIndex(t *testing.T) {
	// A fragment for a later index may arrive before earlier indexes
	// have been seen; slots are created on demand.
	var acc Accumulator
	acc.Add(Chunk{ToolDelta: &ToolCallDelta{Index: 2, ID: "call_c", Name: "general", Arguments: "{}"}})

	calls := acc.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "general", calls[2].Name)
	assert.Empty(t, calls[0].Name)
}

func TestAccumulatorNegativeIndexIgnored(t *testing.T) {
	// A server bug can emit a fragment with a negative index. Such a
	// fragment addresses no call slot and must be dropped, not crash
	// the consuming turn.
	var acc Accumulator
	acc.Add(Chunk{ToolDelta: &ToolCallDelta{Index: -1, ID: "call_x", Name: "general", Arguments: "{}"}})
	assert.Nil(t, acc.Calls())

	acc.Add(Chunk{ToolDelta: &ToolCallDelta{Index: 0, ID: "call_a", Name: "team_player", Arguments: "{}"}})
	acc.Add(Chunk{ToolDelta: &ToolCallDelta{Index: -3, Arguments: "garbage"}})

	calls := acc.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "team_player", calls[0].Name)
	assert.Equal(t, "{}", calls[0].Arguments)
}

func TestDrainNegativeIndexFragment(t *testing.T) {
	s := ChunkStream(
		Chunk{Content: "확인 중"},
		Chunk{ToolDelta: &ToolCallDelta{Index: -1, Arguments: "{}"}},
	)
	content, calls, err := Drain(s)
	require.NoError(t, err)
	assert.Equal(t, "확인 중", content)
	assert.Nil(t, calls)
}

func TestDrainMixedStream(t *testing.T) {
	s := ChunkStream(
		Chunk{Content: "잠시만요"},
		Chunk{ToolDelta: &ToolCallDelta{Index: 0, ID: "call_a", Name: "prediction", Arguments: `{"query": "내일 경기"}`}},
	)
	content, calls, err := Drain(s)
	require.NoError(t, err)
	assert.Equal(t, "잠시만요", content)
	require.Len(t, calls, 1)
	assert.Equal(t, "prediction", calls[0].Name)
}

func TestStreamCloseReleasesOnce(t *testing.T) {
	closed := 0
	s := NewStream(func() (Chunk, error) { return Chunk{}, io.EOF }, func() error {
		closed++
		return nil
	})
	_, err := s.Recv()
	assert.Equal(t, io.EOF, err)
	require.NoError(t, s.Close())
	assert.Equal(t, 1, closed)
}
