package tui

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/taskcycle/internal/domain"
	tcerrors "github.com/mrz1836/taskcycle/internal/errors"
)

func TestNewOutput(t *testing.T) {
	var buf bytes.Buffer

	assert.IsType(t, &JSONOutput{}, NewOutput(&buf, "json"))
	assert.IsType(t, &TTYOutput{}, NewOutput(&buf, "text"))
	assert.IsType(t, &TTYOutput{}, NewOutput(&buf, ""))
}

func TestTTYOutput_Messages(t *testing.T) {
	plain(t)
	var buf bytes.Buffer
	out := NewTTYOutput(&buf)

	out.Success("catalog valid")
	out.Warning("2 lookup gaps")
	out.Info("session started")

	assert.Equal(t, "✓ catalog valid\n⚠ 2 lookup gaps\nsession started\n", buf.String())
}

func TestTTYOutput_ErrorWithAction(t *testing.T) {
	plain(t)
	var buf bytes.Buffer
	out := NewTTYOutput(&buf)

	err := tcerrors.Wrap(tcerrors.ErrUnknownCategory, `category "Juggle" has no records`)
	out.Error(err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "✗ A configured category has no tasks in the catalog.", lines[0])
	assert.Contains(t, lines[1], "Juggle")
	assert.True(t, strings.HasPrefix(lines[2], "  ▸ Try: "))
}

func TestTTYOutput_ErrorWithoutAction(t *testing.T) {
	plain(t)
	var buf bytes.Buffer

	NewTTYOutput(&buf).Error(errors.New("boom"))

	assert.Equal(t, "✗ boom\n", buf.String())
}

func TestTTYOutput_Task(t *testing.T) {
	plain(t)
	var buf bytes.Buffer

	NewTTYOutput(&buf).Task(domain.Descriptor{TaskID: 3, Label: "FlipSwitch", Instruction: "Flip the switch up."})

	assert.Equal(t, "#3  FlipSwitch  Flip the switch up.\n", buf.String())
}

func TestTTYOutput_Table(t *testing.T) {
	plain(t)
	var buf bytes.Buffer

	NewTTYOutput(&buf).Table(
		[]string{"CATEGORY", "TASKS"},
		[][]string{{"TurnKnob", "6"}, {"PushButton", "4"}, {"X"}},
	)

	assert.Equal(t,
		"CATEGORY    TASKS\n"+
			"TurnKnob    6\n"+
			"PushButton  4\n"+
			"X\n",
		buf.String())
}

func TestTTYOutput_TableWideRunes(t *testing.T) {
	plain(t)
	var buf bytes.Buffer

	NewTTYOutput(&buf).Table(
		[]string{"LABEL", "N"},
		[][]string{{"旋钮", "1"}, {"ab", "2"}},
	)

	assert.Equal(t,
		"LABEL  N\n"+
			"旋钮   1\n"+
			"ab     2\n",
		buf.String())
}

func TestTTYOutput_TableWithoutHeaders(t *testing.T) {
	var buf bytes.Buffer

	NewTTYOutput(&buf).Table(nil, [][]string{{"a"}})

	assert.Empty(t, buf.String())
}

func TestJSONOutput_Messages(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	out := NewJSONOutput(&buf)

	out.Success("ok")
	out.Warning("careful")
	out.Info("fyi")

	dec := json.NewDecoder(&buf)
	for _, want := range []jsonMessage{{"success", "ok"}, {"warning", "careful"}, {"info", "fyi"}} {
		var got jsonMessage
		require.NoError(t, dec.Decode(&got))
		assert.Equal(t, want, got)
	}
}

func TestJSONOutput_Error(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewJSONOutput(&buf).Error(tcerrors.Wrap(tcerrors.ErrEmptyCategorySet, "no categories"))

	var got jsonError
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "error", got.Type)
	assert.Equal(t, "No task categories are configured.", got.Message)
	assert.Contains(t, got.Details, "no categories")
	assert.NotEmpty(t, got.Suggestion)
}

func TestJSONOutput_Task(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewJSONOutput(&buf).Task(domain.Descriptor{
		TaskID: 24, Label: "TurnKnob", Category: "TurnKnob",
		Instruction: "Turn the knob to position 2.",
		Transition:  &domain.Transition{From: 1, To: 2},
	})

	assert.JSONEq(t,
		`{"task_id":24,"label":"TurnKnob","category":"TurnKnob","instruction":"Turn the knob to position 2.","transition":{"from":1,"to":2}}`,
		buf.String())
}

func TestJSONOutput_Table(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewJSONOutput(&buf).Table([]string{"a", "b"}, [][]string{{"1", "2"}, {"3"}})

	assert.JSONEq(t, `[{"a":"1","b":"2"},{"a":"3","b":""}]`, buf.String())
}

func TestJSON_Indented(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, NewJSONOutput(&buf).JSON(map[string]int{"n": 1}))
	assert.Equal(t, "{\n  \"n\": 1\n}\n", buf.String())

	err := NewJSONOutput(&buf).JSON(make(chan int))
	require.Error(t, err)
}
