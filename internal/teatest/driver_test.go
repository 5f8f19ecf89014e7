package teatest

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

type appendMsg string

// recorder logs every appendMsg it sees and answers keys with the Cmd
// registered for that rune.
type recorder struct {
	seen []string
	keys map[rune]tea.Cmd
	init tea.Cmd
}

func (r *recorder) Init() tea.Cmd { return r.init }

func (r *recorder) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case appendMsg:
		r.seen = append(r.seen, string(msg))
	case tea.KeyMsg:
		if len(msg.Runes) == 1 {
			return r, r.keys[msg.Runes[0]]
		}
	}
	return r, nil
}

func (r *recorder) View() string { return "" }

func emit(s string) tea.Cmd {
	return func() tea.Msg { return appendMsg(s) }
}

func TestDriver_SequenceRunsInOrder(t *testing.T) {
	r := &recorder{keys: map[rune]tea.Cmd{
		'x': tea.Sequence(emit("a"), tea.Sequence(emit("b"), emit("c")), emit("d")),
	}}
	d := New(t, r)

	d.PressKey('x')
	assert.Equal(t, []string{"a", "b", "c", "d"}, r.seen)
}

func TestDriver_BatchDrainsAll(t *testing.T) {
	r := &recorder{init: tea.Batch(emit("a"), nil, emit("b"))}
	d := New(t, r)

	d.DrainInit()
	assert.ElementsMatch(t, []string{"a", "b"}, r.seen)
}

func TestDriver_SlowCmdSkipped(t *testing.T) {
	slow := func() tea.Msg {
		time.Sleep(200 * time.Millisecond)
		return appendMsg("late")
	}
	r := &recorder{keys: map[rune]tea.Cmd{'x': tea.Batch(slow, emit("fast"))}}
	d := New(t, r, WithCmdTimeout(20*time.Millisecond))

	d.PressKey('x')
	assert.Equal(t, []string{"fast"}, r.seen)
	assert.Equal(t, 1, d.Skipped)
}

func TestDriver_QuitStopsSequence(t *testing.T) {
	r := &recorder{keys: map[rune]tea.Cmd{'q': tea.Sequence(emit("a"), tea.Quit, emit("b"))}}
	d := New(t, r)

	d.PressKey('q')
	assert.True(t, d.Quitting)
	assert.Equal(t, []string{"a"}, r.seen)

	d.PressKey('q')
	assert.Equal(t, []string{"a"}, r.seen, "sends after quit are ignored")
}
