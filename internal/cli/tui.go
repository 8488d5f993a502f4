package cli

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/huffviz/pkg/huffman"
	"github.com/matzehuels/huffviz/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// CodebookModel - Interactive codebook browser
// =============================================================================

// sortMode orders the codebook rows.
type sortMode int

const (
	sortFirstSeen sortMode = iota // order of first occurrence in the text
	sortCount                     // most frequent first
	sortCode                      // shortest codeword first, then lexicographic
)

func (m sortMode) String() string {
	switch m {
	case sortCount:
		return "count"
	case sortCode:
		return "code"
	}
	return "first seen"
}

// codebookRow is one symbol of the codebook.
type codebookRow struct {
	Symbol huffman.Symbol
	Count  int
	Code   string
	Order  int   // index in first-occurrence order
	Path   []int // frequencies of the nodes from the root down to the leaf
}

// CodebookModel is the bubbletea model for browsing a codebook.
type CodebookModel struct {
	Rows     []codebookRow
	Stats    pipeline.Stats
	Cursor   int
	Height   int
	Offset   int
	Sort     sortMode
	Expanded bool // show the root-to-leaf path of the selected row
}

// NewCodebookModel creates a model for the tree built from table.
func NewCodebookModel(t *huffman.FrequencyTable, root *huffman.Node) CodebookModel {
	codes := huffman.Codebook(root)
	rows := make([]codebookRow, 0, t.Len())
	for i, e := range t.Entries() {
		bits := codes[e.Symbol].Bits
		rows = append(rows, codebookRow{
			Symbol: e.Symbol,
			Count:  e.Count,
			Code:   bits,
			Order:  i,
			Path:   pathFreqs(root, bits),
		})
	}
	return CodebookModel{
		Rows:   rows,
		Stats:  pipeline.TreeStats(t, root, codes),
		Height: 15,
	}
}

// pathFreqs follows bits from root and records every visited frequency.
func pathFreqs(root *huffman.Node, bits string) []int {
	freqs := []int{root.Freq}
	n := root
	for _, b := range bits {
		if n.IsLeaf() {
			break
		}
		if b == '0' {
			n = n.Left
		} else {
			n = n.Right
		}
		freqs = append(freqs, n.Freq)
	}
	return freqs
}

func (m CodebookModel) Init() tea.Cmd {
	return nil
}

func (m CodebookModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", "p":
			m.Expanded = !m.Expanded
		case "s":
			m = m.resort((m.Sort + 1) % 3)
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// resort orders the rows by mode and keeps the cursor on the same symbol.
func (m CodebookModel) resort(mode sortMode) CodebookModel {
	var current huffman.Symbol
	if len(m.Rows) > 0 {
		current = m.Rows[m.Cursor].Symbol
	}

	rows := slices.Clone(m.Rows)
	slices.SortStableFunc(rows, func(a, b codebookRow) int {
		switch mode {
		case sortCount:
			if c := cmp.Compare(b.Count, a.Count); c != 0 {
				return c
			}
		case sortCode:
			if c := cmp.Compare(len(a.Code), len(b.Code)); c != 0 {
				return c
			}
			return strings.Compare(a.Code, b.Code)
		}
		return cmp.Compare(a.Order, b.Order)
	})

	m.Rows = rows
	m.Sort = mode
	m.Offset = 0
	for i, r := range rows {
		if r.Symbol == current {
			m.Cursor = i
		}
	}
	if m.Cursor >= m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m
}

func (m CodebookModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Codebook"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("↑/↓ navigate  ⏎/p path  s sort (%s)  q quit", m.Sort)))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Rows))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, symbolLabel(r.Symbol), strconv.Itoa(r.Count), r.Code, strconv.Itoa(len(r.Code) * r.Count)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Symbol", "Count", "Code", "Bits").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 3 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d bits total, %.2f bits/symbol",
		m.Cursor+1, len(m.Rows), m.Stats.EncodedBits, m.Stats.AverageBits())))

	if m.Expanded && len(m.Rows) > 0 {
		b.WriteString("\n\n")
		b.WriteString(listSelectedStyle.Render("  " + formatPath(m.Rows[m.Cursor])))
	}

	return b.String()
}

// formatPath renders a row's root-to-leaf walk, e.g. "6 ─1→ 3 ─0→ c (1)".
func formatPath(r codebookRow) string {
	var b strings.Builder
	for i, f := range r.Path {
		if i == len(r.Path)-1 {
			fmt.Fprintf(&b, "%s (%d)", symbolLabel(r.Symbol), f)
			break
		}
		fmt.Fprintf(&b, "%d ─%c→ ", f, r.Code[i])
	}
	return b.String()
}
