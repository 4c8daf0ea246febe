package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testChoice() MultiChoice {
	return NewMultiChoice("Pick one", []string{"A", "B", "C", "D"},
		map[string]string{"A": "alpha", "B": "beta", "C": "gamma", "D": "delta"}, "c")
}

func TestMultiChoice_Navigate(t *testing.T) {
	m := testChoice()
	m, _ = m.Update(specialKey(tea.KeyDown))
	m, _ = m.Update(specialKey(tea.KeyDown))
	m, _ = m.Update(specialKey(tea.KeyUp))
	if m.Selected != 1 {
		t.Errorf("Selected = %d, want 1", m.Selected)
	}

	m, _ = m.Update(specialKey(tea.KeyUp))
	m, _ = m.Update(specialKey(tea.KeyUp))
	if m.Selected != 0 {
		t.Errorf("Selected = %d, want 0 at top", m.Selected)
	}
}

func TestMultiChoice_LetterShortcut(t *testing.T) {
	m := testChoice()
	m, _ = m.Update(keyPress('c'))
	m, _ = m.Update(specialKey(tea.KeyEnter))

	if !m.Submitted || m.Chosen != "C" {
		t.Fatalf("Submitted=%v Chosen=%q", m.Submitted, m.Chosen)
	}
	if !m.IsCorrect() {
		t.Error("C should be correct")
	}
}

func TestMultiChoice_Wrong(t *testing.T) {
	m := testChoice()
	m, _ = m.Update(specialKey(tea.KeyEnter))
	if m.IsCorrect() {
		t.Error("A should be wrong")
	}

	m, _ = m.Update(keyPress('c'))
	if m.Chosen != "A" {
		t.Error("submitted choice must not change")
	}
}

func TestMultiChoice_View(t *testing.T) {
	view := testChoice().View()
	for _, want := range []string{"Pick one", "A)  alpha", "D)  delta", "▸"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestTextInput_TypeAndSubmit(t *testing.T) {
	ti := NewTextInput("answer", 0)
	for _, r := range "hi there " {
		ti, _ = ti.Update(keyPress(r))
	}
	if ti.Value() != "hi there" {
		t.Errorf("Value = %q", ti.Value())
	}

	ti.Submit()
	ti, _ = ti.Update(keyPress('x'))
	if !ti.Submitted() || ti.Value() != "hi there" {
		t.Errorf("input changed after submit: %q", ti.Value())
	}
}

func TestProgressBar_Filled(t *testing.T) {
	tests := []struct {
		percent float64
		want    int
	}{
		{0, 0},
		{0.5, 5},
		{1, 10},
		{1.7, 10},
		{-0.2, 0},
	}
	for _, tt := range tests {
		if got := NewProgressBar("", tt.percent, false, 10).Filled(10); got != tt.want {
			t.Errorf("Filled(%v) = %d, want %d", tt.percent, got, tt.want)
		}
	}
}

func TestProgressBar_View(t *testing.T) {
	view := NewProgressBar("Done", 0.25, true, 30).View()
	if !strings.Contains(view, "Done") || !strings.Contains(view, "25%") {
		t.Errorf("view = %q", view)
	}
}
