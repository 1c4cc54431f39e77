// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"github.com/jeranaias/csplens/internal/cli"
	"github.com/jeranaias/csplens/internal/render"
)

func newTestTUI(t *testing.T) tuiModel {
	t.Helper()
	m := newTUIModel(cli.Options{
		Profile: termenv.Ascii,
		Theme:   render.NewTheme(termenv.Ascii, render.DefaultColors()),
	})

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(tuiModel)
}

func typeString(m tuiModel, s string) tuiModel {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return updated.(tuiModel)
}

func press(m tuiModel, keyType tea.KeyType) (tuiModel, tea.Cmd) {
	updated, cmd := m.Update(tea.KeyMsg{Type: keyType})
	return updated.(tuiModel), cmd
}

func TestTUI_LivePreview(t *testing.T) {
	m := newTestTUI(t)

	view := m.View()
	if !strings.Contains(view, "type a policy above") {
		t.Errorf("empty input should show the placeholder pane:\n%s", view)
	}

	m = typeString(m, "default-src 'self' 'unsafe-inline'; img-src *")
	view = m.View()

	if !strings.Contains(view, "default-src 'self' 'unsafe-inline'") {
		t.Errorf("preview missing rendered policy:\n%s", view)
	}
	if !strings.Contains(view, "1 safe") || !strings.Contains(view, "1 unsafe") || !strings.Contains(view, "1 malformed") {
		t.Errorf("status counts wrong:\n%s", view)
	}
	if !strings.Contains(view, "compact") {
		t.Errorf("pane label missing:\n%s", view)
	}
}

func TestTUI_MultilineToggle(t *testing.T) {
	m := newTestTUI(t)
	m = typeString(m, "media-src media1.com media2.com")

	m, _ = press(m, tea.KeyEnter)
	view := m.View()

	if !strings.Contains(view, "multiline") {
		t.Errorf("pane label should flip to multiline:\n%s", view)
	}
	if !strings.Contains(view, "\tmedia1.com") {
		t.Errorf("multiline pane should indent values:\n%s", view)
	}

	m, _ = press(m, tea.KeyEnter)
	if m.multiline {
		t.Error("second enter should toggle back to compact")
	}
}

func TestTUI_IncompleteDirective(t *testing.T) {
	m := newTestTUI(t)
	m = typeString(m, "default-src")

	if !strings.Contains(m.View(), "no complete directive yet") {
		t.Errorf("one-word input should explain itself:\n%s", m.View())
	}
}

func TestTUI_BrowseAndQuit(t *testing.T) {
	m := newTestTUI(t)

	// q while editing types a letter, it must not quit.
	m = typeString(m, "q")
	if !m.editing {
		t.Fatal("typing q should stay in edit mode")
	}

	m, _ = press(m, tea.KeyEsc)
	if m.editing {
		t.Fatal("esc should enter browse mode")
	}

	m = typeString(m, "?")
	if !strings.Contains(m.View(), "toggle this help") {
		t.Errorf("? in browse mode should show help:\n%s", m.View())
	}

	m = typeString(m, "i")
	if !m.editing {
		t.Error("i should return to editing")
	}

	// q quits only while browsing.
	m, _ = press(m, tea.KeyEsc)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q in browse mode should produce a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q in browse mode should be tea.Quit")
	}
}

func TestTUI_CtrlCQuitsAnywhere(t *testing.T) {
	m := newTestTUI(t)
	m = typeString(m, "default-src 'self'")

	_, cmd := press(m, tea.KeyCtrlC)
	if cmd == nil {
		t.Fatal("ctrl+c should produce a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c command should be tea.Quit")
	}
}
