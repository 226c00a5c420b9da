package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/coinsearch/internal/coingecko"
	"github.com/five82/coinsearch/internal/state"
)

type fakePipeline struct {
	snapshot state.Snapshot
	queries  []string
}

func (f *fakePipeline) SetQueryText(text string) {
	f.queries = append(f.queries, text)
	f.snapshot.Query = text
}

func (f *fakePipeline) Snapshot() state.Snapshot { return f.snapshot }

func intPtr(v int) *int { return &v }

func sampleResults() []coingecko.SearchResult {
	return []coingecko.SearchResult{
		{ID: "bitcoin", Name: "Bitcoin", APISymbol: "bitcoin", Symbol: "BTC", MarketCapRank: intPtr(1)},
		{ID: "bitcoin-cat", Name: "Bitcoin Cat", APISymbol: "bitcoin-cat", Symbol: "BTCAT"},
		{ID: "wrapped-bitcoin", Name: "Wrapped Bitcoin", APISymbol: "wrapped-bitcoin", Symbol: "WBTC", MarketCapRank: intPtr(17)},
	}
}

func newTestModel(t *testing.T, fake *fakePipeline) Model {
	t.Helper()
	m := New(Options{Pipeline: fake})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	return updated.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestRankLabel(t *testing.T) {
	tests := []struct {
		name string
		rank *int
		want string
	}{
		{name: "ranked", rank: intPtr(2), want: "Market Cap Rank: 2"},
		{name: "zero is a rank", rank: intPtr(0), want: "Market Cap Rank: 0"},
		{name: "missing", rank: nil, want: "Market Cap Rank: undefined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rankLabel(coingecko.SearchResult{Name: "x", MarketCapRank: tt.rank})
			if got != tt.want {
				t.Fatalf("rankLabel = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewSeedsFromPipelineSnapshot(t *testing.T) {
	fake := &fakePipeline{snapshot: state.Snapshot{
		Query:        "btc",
		Results:      sampleResults(),
		ResultsQuery: "btc",
		HasFetched:   true,
	}}
	m := New(Options{Pipeline: fake})

	if got := m.input.Value(); got != "btc" {
		t.Fatalf("input value = %q, want btc", got)
	}
	if len(m.rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(m.rows))
	}
	if m.pending {
		t.Fatalf("pending should be false once results exist")
	}
	if len(fake.queries) != 0 {
		t.Fatalf("New should not push a query, got %v", fake.queries)
	}
}

func TestKeystrokesForwardQueryText(t *testing.T) {
	fake := &fakePipeline{}
	m := newTestModel(t, fake)

	m = update(t, m, runes("b"))
	m = update(t, m, runes("t"))
	m = update(t, m, runes("c"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})

	want := []string{"b", "bt", "btc", "bt"}
	if strings.Join(fake.queries, ",") != strings.Join(want, ",") {
		t.Fatalf("queries = %v, want %v", fake.queries, want)
	}
	if !m.pending {
		t.Fatalf("pending should be true after a query change")
	}
}

func TestQueryTextIsNotTrimmed(t *testing.T) {
	fake := &fakePipeline{}
	m := newTestModel(t, fake)

	m = update(t, m, runes(" "))
	m = update(t, m, runes("A"))

	if got := fake.queries[len(fake.queries)-1]; got != " A" {
		t.Fatalf("last query = %q, want %q", got, " A")
	}
}

func TestControlKeysDoNotChangeQuery(t *testing.T) {
	fake := &fakePipeline{}
	m := newTestModel(t, fake)
	start := m.theme.Name

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})

	if len(fake.queries) != 0 {
		t.Fatalf("control keys changed query: %v", fake.queries)
	}
	if m.theme.Name != NextTheme(start) {
		t.Fatalf("theme = %q, want %q", m.theme.Name, NextTheme(start))
	}
}

func TestResultsSnapshotRendersRows(t *testing.T) {
	fake := &fakePipeline{}
	m := newTestModel(t, fake)
	m = update(t, m, runes("b"))

	m = update(t, m, snapshotMsg(state.Snapshot{
		Change:       state.ChangeResults,
		Query:        "b",
		Results:      sampleResults(),
		ResultsQuery: "b",
		HasFetched:   true,
	}))

	if m.pending {
		t.Fatalf("pending should clear on a results snapshot")
	}
	view := m.View()
	for _, want := range []string{
		appTitle,
		"Bitcoin (BTC)",
		"Market Cap Rank: 1",
		"Bitcoin Cat (BTCAT)",
		"Market Cap Rank: undefined",
		"Market Cap Rank: 17",
		"3 results",
	} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Index(view, "Bitcoin (BTC)") > strings.Index(view, "Wrapped Bitcoin") {
		t.Fatalf("rows not in response order:\n%s", view)
	}
}

func TestNewPendingUntilFirstSearchSettles(t *testing.T) {
	m := New(Options{Pipeline: &fakePipeline{}})
	if !m.pending {
		t.Fatalf("pending should be true before the initial search settles")
	}
}

func TestOlderResultsKeepPending(t *testing.T) {
	fake := &fakePipeline{}
	m := newTestModel(t, fake)
	m = update(t, m, runes("b"))
	m = update(t, m, runes("t"))

	m = update(t, m, snapshotMsg(state.Snapshot{
		Change:       state.ChangeResults,
		Query:        "bt",
		Results:      sampleResults(),
		ResultsQuery: "b",
		HasFetched:   true,
	}))
	if !m.pending {
		t.Fatalf("results for %q should not clear pending while %q is outstanding", "b", "bt")
	}
	if view := m.View(); !strings.Contains(view, "searching") || strings.Contains(view, "3 results") {
		t.Fatalf("header should show the spinner:\n%s", view)
	}

	m = update(t, m, snapshotMsg(state.Snapshot{
		Change:       state.ChangeResults,
		Query:        "bt",
		Results:      sampleResults()[:1],
		ResultsQuery: "bt",
		HasFetched:   true,
	}))
	if m.pending {
		t.Fatalf("results for the current input should clear pending")
	}
	if view := m.View(); !strings.Contains(view, "1 result") {
		t.Fatalf("header should show the result count:\n%s", view)
	}
}

func TestQuerySnapshotKeepsPending(t *testing.T) {
	fake := &fakePipeline{}
	m := newTestModel(t, fake)
	m = update(t, m, runes("e"))

	m = update(t, m, snapshotMsg(state.Snapshot{Change: state.ChangeQuery, Query: "e"}))

	if !m.pending {
		t.Fatalf("a query snapshot should not clear pending")
	}
}

func TestEmptyResultsShowEmptyText(t *testing.T) {
	fake := &fakePipeline{}
	m := newTestModel(t, fake)

	m = update(t, m, snapshotMsg(state.Snapshot{Change: state.ChangeResults, Query: "zzzz", HasFetched: true}))

	if view := m.View(); !strings.Contains(view, emptyText) {
		t.Fatalf("view missing empty text:\n%s", view)
	}
}

func TestFailedFetchShowsErrorAndEmptyList(t *testing.T) {
	fake := &fakePipeline{}
	m := newTestModel(t, fake)
	m = update(t, m, snapshotMsg(state.Snapshot{Change: state.ChangeResults, Results: sampleResults(), HasFetched: true}))

	m = update(t, m, snapshotMsg(state.Snapshot{
		Change:     state.ChangeResults,
		HasFetched: true,
		LastError:  errors.New("network error: connection refused"),
	}))

	if len(m.rows) != 0 {
		t.Fatalf("rows = %d, want 0 after failure", len(m.rows))
	}
	view := m.View()
	for _, want := range []string{"search failed", "connection refused", emptyText} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestSelectionClampsToResults(t *testing.T) {
	fake := &fakePipeline{}
	m := newTestModel(t, fake)
	m = update(t, m, snapshotMsg(state.Snapshot{Change: state.ChangeResults, Results: sampleResults(), HasFetched: true}))

	for i := 0; i < 5; i++ {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.selectedRow != 2 {
		t.Fatalf("selectedRow = %d, want 2", m.selectedRow)
	}
	if view := m.View(); !strings.Contains(view, "wrapped-bitcoin") {
		t.Fatalf("footer should show selected id:\n%s", view)
	}

	m = update(t, m, snapshotMsg(state.Snapshot{Change: state.ChangeResults, Results: sampleResults()[:1], HasFetched: true}))
	if m.selectedRow != 0 {
		t.Fatalf("selectedRow = %d, want 0 after shrink", m.selectedRow)
	}
}

func TestSelectionScrollsWindow(t *testing.T) {
	fake := &fakePipeline{}
	m := New(Options{Pipeline: fake})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: chromeHeight + 2})

	results := append(sampleResults(), sampleResults()...)
	m = update(t, m, snapshotMsg(state.Snapshot{Change: state.ChangeResults, Results: results, HasFetched: true}))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.selectedRow != 3 || m.offset != 2 {
		t.Fatalf("selectedRow=%d offset=%d, want 3 and 2", m.selectedRow, m.offset)
	}
}

func TestHelpOverlay(t *testing.T) {
	fake := &fakePipeline{}
	m := newTestModel(t, fake)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyF1})
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help overlay not shown")
	}

	m = update(t, m, runes("x"))
	if m.showHelp {
		t.Fatalf("any key should close help")
	}
	if len(fake.queries) != 0 {
		t.Fatalf("closing help should not edit the query: %v", fake.queries)
	}
}

func TestQuitKeys(t *testing.T) {
	for _, msg := range []tea.KeyMsg{{Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		m := newTestModel(t, &fakePipeline{})
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", msg)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%s: expected tea.QuitMsg", msg)
		}
	}
}

func TestWaitForSnapshot(t *testing.T) {
	if waitForSnapshot(nil) != nil {
		t.Fatalf("nil channel should yield no command")
	}

	ch := make(chan state.Snapshot, 1)
	ch <- state.Snapshot{Change: state.ChangeQuery, Query: "eth"}
	msg := waitForSnapshot(ch)()
	snap, ok := msg.(snapshotMsg)
	if !ok || snap.Query != "eth" {
		t.Fatalf("msg = %#v, want snapshotMsg for eth", msg)
	}

	close(ch)
	if _, ok := waitForSnapshot(ch)().(updatesClosedMsg); !ok {
		t.Fatalf("closed channel should yield updatesClosedMsg")
	}
}

func TestClosedUpdatesQuit(t *testing.T) {
	m := newTestModel(t, &fakePipeline{})
	_, cmd := m.Update(updatesClosedMsg{})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestCycleThemeSavesPreference(t *testing.T) {
	var saved []string
	m := New(Options{
		Pipeline:  &fakePipeline{},
		ThemeName: "Slate",
		SaveTheme: func(name string) error {
			saved = append(saved, name)
			return errors.New("read-only filesystem")
		},
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 20})

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	m = updated.(Model)
	if m.theme.Name != "Dracula" {
		t.Fatalf("theme = %q, want Dracula", m.theme.Name)
	}
	if cmd == nil {
		t.Fatal("expected save command")
	}
	msg := cmd()
	if len(saved) != 1 || saved[0] != "Dracula" {
		t.Fatalf("saved = %v, want [Dracula]", saved)
	}
	if _, ok := msg.(themeSaveErrMsg); !ok {
		t.Fatalf("msg = %#v, want themeSaveErrMsg", msg)
	}

	// A failed save is logged, not fatal.
	m = update(t, m, msg)
	if m.theme.Name != "Dracula" {
		t.Fatalf("theme changed after save error: %q", m.theme.Name)
	}
}
