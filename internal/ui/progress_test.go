package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"wirlang/internal/driver"
)

func newModel(t *testing.T, funcs []string, events <-chan driver.Event) *progressModel {
	t.Helper()
	m, ok := NewProgressModel("title", funcs, events).(*progressModel)
	if !ok {
		t.Fatalf("NewProgressModel did not return a *progressModel")
	}
	return m
}

// truncate leaves short strings untouched and ellipsizes long ones to
// exactly the requested width.
func TestTruncate_LeavesShortStringsUntouched(t *testing.T) {
	if got := truncate("short", 20); got != "short" {
		t.Fatalf("expected untouched string, got %q", got)
	}
}

func TestTruncate_EllipsizesLongStrings(t *testing.T) {
	got := truncate("a_very_long_function_name", 10)
	if len(got) > 10 {
		t.Fatalf("expected truncated string to fit within width 10, got %q (len %d)", got, len(got))
	}
}

// statusLabel maps every Status to its display label, falling back to the
// current stage's label while a function is still working.
func TestStatusLabel_MapsEveryStatus(t *testing.T) {
	cases := []struct {
		status driver.Status
		stage  driver.Stage
		want   string
	}{
		{driver.StatusQueued, driver.StageQueued, "queued"},
		{driver.StatusCached, driver.StageDone, "cached"},
		{driver.StatusDone, driver.StageDone, "done"},
		{driver.StatusError, driver.StageConflicts, "error"},
		{driver.StatusWorking, driver.StageLiveness, "liveness"},
	}
	for _, c := range cases {
		if got := statusLabel(c.stage, c.status); got != c.want {
			t.Fatalf("statusLabel(%v, %v) = %q, want %q", c.stage, c.status, got, c.want)
		}
	}
}

// progressFromStage climbs monotonically from Collect through Done.
func TestProgressFromStage_ClimbsMonotonically(t *testing.T) {
	stages := []driver.Stage{
		driver.StageQueued, driver.StageCollect, driver.StageLiveness,
		driver.StageLoanlive, driver.StageConflicts, driver.StageDone,
	}
	prev := -1.0
	for _, s := range stages {
		v := progressFromStage(s)
		if v < prev {
			t.Fatalf("expected non-decreasing progress, stage %v gave %v after %v", s, v, prev)
		}
		prev = v
	}
	if progressFromStage(driver.StageDone) != 1.0 {
		t.Fatalf("expected StageDone to report full progress")
	}
}

// applyEvent updates the matching function's status/stage and recomputes
// the aggregate progress bar percentage; an event for an unknown function
// name is ignored rather than panicking.
func TestApplyEvent_UpdatesMatchingFuncAndIgnoresUnknown(t *testing.T) {
	events := make(chan driver.Event, 1)
	m := newModel(t, []string{"a", "b"}, events)

	m.applyEvent(driver.Event{Func: "a", Stage: driver.StageDone, Status: driver.StatusDone})
	if m.items[m.index["a"]].status != "done" {
		t.Fatalf("expected func 'a' status to become 'done', got %q", m.items[m.index["a"]].status)
	}
	if m.items[m.index["b"]].status != "queued" {
		t.Fatalf("expected func 'b' to remain 'queued', got %q", m.items[m.index["b"]].status)
	}

	// An event naming a function not in the model must not panic or alter state.
	m.applyEvent(driver.Event{Func: "nonexistent", Stage: driver.StageDone, Status: driver.StatusDone})
	if m.items[m.index["a"]].status != "done" || m.items[m.index["b"]].status != "queued" {
		t.Fatalf("an unknown-func event mutated existing items: %+v", m.items)
	}
}

// listenForEvent relays a sent Event as an eventMsg, and reports doneMsg
// once the channel is closed.
func TestListenForEvent_RelaysThenReportsDone(t *testing.T) {
	events := make(chan driver.Event, 1)
	m := newModel(t, []string{"a"}, events)

	events <- driver.Event{Func: "a", Stage: driver.StageCollect, Status: driver.StatusWorking}
	msg := m.listenForEvent()()
	ev, ok := msg.(eventMsg)
	if !ok {
		t.Fatalf("expected an eventMsg, got %T", msg)
	}
	if ev.Func != "a" {
		t.Fatalf("expected the relayed event to name func 'a', got %q", ev.Func)
	}

	close(events)
	msg2 := m.listenForEvent()()
	if _, ok := msg2.(doneMsg); !ok {
		t.Fatalf("expected a doneMsg once the channel closes, got %T", msg2)
	}
}

// Update(doneMsg) marks the model done and requests Quit.
func TestUpdate_DoneMsgMarksDoneAndQuits(t *testing.T) {
	events := make(chan driver.Event)
	m := newModel(t, []string{"a"}, events)

	_, cmd := m.Update(doneMsg{})
	if !m.done {
		t.Fatalf("expected Update(doneMsg{}) to mark the model done")
	}
	if cmd == nil {
		t.Fatalf("expected a non-nil tea.Cmd (tea.Quit) after doneMsg")
	}
}

// View renders something for a non-empty model and nothing for an empty
// one, without panicking either way.
func TestView_EmptyModelRendersNothing(t *testing.T) {
	m := newModel(t, nil, nil)
	if got := m.View(); got != "" {
		t.Fatalf("expected an empty view for a model with no functions, got %q", got)
	}
}

func TestView_NonEmptyModelRendersTitleAndItems(t *testing.T) {
	m := newModel(t, []string{"fn_one"}, nil)
	out := m.View()
	if out == "" {
		t.Fatalf("expected non-empty view output for a model with functions")
	}
}

var _ tea.Model = (*progressModel)(nil)
