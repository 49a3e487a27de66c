// Copyright 2026 metadump contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// typeItem adapts scriptType to bubbles/list.Item.
type typeItem struct {
	t scriptType
}

func (i typeItem) FilterValue() string { return i.t.Namespace + "." + i.t.Name }
func (i typeItem) Title() string       { return fmt.Sprintf("%s.%s", i.t.Namespace, i.t.Name) }
func (i typeItem) Description() string {
	return fmt.Sprintf("offset %s · %d method(s)", i.t.OffsetHex, i.t.MethodCount)
}

// model is the two-pane type/method browser: a filterable list of types on
// the left, a scrollable detail viewport of the selected type's methods on
// the right. It never mutates the index it was given.
type model struct {
	idx      *scriptIndex
	path     string
	types    list.Model
	detail   viewport.Model
	width    int
	height   int
	ready    bool
}

func newModel(idx *scriptIndex, path string) *model {
	items := make([]list.Item, len(idx.Types))
	for i, t := range idx.Types {
		items[i] = typeItem{t: t}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = fmt.Sprintf("Types (%d)", len(idx.Types))
	l.SetShowHelp(false)

	return &model{idx: idx, path: path, types: l}
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		leftWidth := m.width / 3
		bodyHeight := m.height - 11 // chart (6) + footer (1) + pane borders/padding
		m.types.SetSize(leftWidth, bodyHeight)
		m.detail = viewport.New(m.width-leftWidth-4, bodyHeight)
		m.ready = true
		m.syncDetail()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.types, cmd = m.types.Update(msg)
	m.syncDetail()
	return m, cmd
}

// syncDetail refreshes the right pane's content to match whatever type is
// currently highlighted in the left list.
func (m *model) syncDetail() {
	if !m.ready {
		return
	}
	item, ok := m.types.SelectedItem().(typeItem)
	if !ok {
		m.detail.SetContent(mutedStyle.Render("no type selected"))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", headerStyle.Render(item.Title()))
	fmt.Fprintf(&b, "flags: 0x%X\n\n", item.t.Flags)

	methods := methodsForType(m.idx, item.t)
	if len(methods) == 0 {
		b.WriteString(mutedStyle.Render("(no methods)"))
	}
	for _, meth := range methods {
		fmt.Fprintf(&b, "  %-40s token=0x%X offset=%s\n", meth.Name, meth.Token, meth.OffsetHex)
	}
	m.detail.SetContent(b.String())
}

func (m *model) View() string {
	if !m.ready {
		return "loading..."
	}

	chart := renderTableSizeChart(m.idx.Metadata, m.width)

	left := paneStyle.Render(m.types.View())
	right := paneStyle.Render(m.detail.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	footer := mutedStyle.Render(fmt.Sprintf("%s — %d types, %d methods — q to quit",
		m.path, len(m.idx.Types), len(m.idx.Methods)))

	return lipgloss.JoinVertical(lipgloss.Left, chart, body, footer)
}
