// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package wagerlab

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/wagerlab/sdk/betmath"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

var lang language.Tag = language.English

// BetLine 單注的輸出列。
type BetLine struct {
	Hex    string   `json:"Hex"           yaml:"hex"`
	Odds   uint32   `json:"Odds"          yaml:"odds"`
	ER     float64  `json:"ER"            yaml:"er"`
	NE     float64  `json:"NE,omitempty"  yaml:"ne,omitempty"`
	Amount int      `json:"Amount,omitempty" yaml:"amount,omitempty"`
	MaxBet uint32   `json:"MaxBet"        yaml:"max_bet"`
	Picks  []string `json:"Picks"         yaml:"picks"`
}

// BetReport 一組注單的完整報告，可序列化。
type BetReport struct {
	Round       uint32           `json:"Round"                 yaml:"round"`
	URL         string           `json:"URL"                   yaml:"url"`
	Bets        []BetLine        `json:"Bets"                  yaml:"bets"`
	TER         float64          `json:"TER"                   yaml:"ter"`
	NetExpected float64          `json:"NetExpected,omitempty" yaml:"net_expected,omitempty"`
	TotalAmount int              `json:"TotalAmount,omitempty" yaml:"total_amount,omitempty"`
	Chances     []betmath.Chance `json:"Chances"               yaml:"chances"`
	BustRate    float64          `json:"BustRate"              yaml:"bust_rate"`
	PartialRate float64          `json:"PartialRate"           yaml:"partial_rate"`
	Bustproof   bool             `json:"Bustproof"             yaml:"bustproof"`
	Crazy       bool             `json:"Crazy"                 yaml:"crazy"`
	Gambit      bool             `json:"Gambit"                yaml:"gambit"`
	Tenbet      bool             `json:"Tenbet"                yaml:"tenbet"`
}

// Report 組出注單組的報告。
func (r *Round) Report(b *Bets) *BetReport {
	rep := &BetReport{
		Round:       r.Number(),
		URL:         r.MakeURL(b),
		TER:         b.ExpectedReturn(),
		NetExpected: b.NetExpected(),
		TotalAmount: b.TotalAmount(),
		Chances:     b.Chances,
		PartialRate: b.Summary.PartialRate,
		Bustproof:   b.IsBustproof(),
		Crazy:       b.IsCrazy(),
		Gambit:      b.IsGambit(),
		Tenbet:      b.IsTenbet(),
	}
	if b.Summary.Bust != nil {
		rep.BustRate = b.Summary.Bust.Probability
	}
	for k, i := range b.Indices {
		t := r.Table
		line := BetLine{
			Hex:    fmt.Sprintf("0x%05X", t.Bins[i]),
			Odds:   t.Odds[i],
			ER:     t.ERs[i],
			MaxBet: t.MaxStakes[i],
			Picks:  r.pickNames(t.Bins[i]),
		}
		if len(b.amounts) > 0 {
			line.Amount = b.amounts[k]
			line.NE = float64(line.Amount)*line.ER - float64(line.Amount)
		}
		rep.Bets = append(rep.Bets, line)
	}
	return rep
}

// pickNames 逐場取出被選參賽者的名稱，未選的場為 "-"。
func (r *Round) pickNames(bin uint32) []string {
	sel := betmath.SelectionFromBinary(bin)
	out := make([]string, betmath.ArenaCount)
	for a := range sel {
		if sel[a] == 0 {
			out[a] = "-"
			continue
		}
		out[a] = r.Arenas[a].Competitors[sel[a]-1].Name()
	}
	return out
}

// BetReportRender 定義輸出行為。
type BetReportRender interface {
	Write(w io.Writer, r *BetReport) error
}

// Json渲染
type JsonBetReportRender struct{}

func (jr *JsonBetReportRender) Write(w io.Writer, r *BetReport) error {
	return json.NewEncoder(w).Encode(r)
}

// YAML渲染
type YAMLBetReportRender struct{}

func (yr *YAMLBetReportRender) Write(w io.Writer, r *BetReport) error {
	// 不管欄位，只要是陣列（YAML Sequence），就維持外層預設展開；
	// 只有「最內層的一維陣列」或「本身就是一維陣列」時才輸出成 flow style：[..., ...]
	return forceReadableList(w, r)
}

// 文字渲染：終端用的畫框表格。
type TextBetReportRender struct{}

func (tr *TextBetReportRender) Write(w io.Writer, r *BetReport) error {
	_, err := io.WriteString(w, r.BetTable()+"\n"+r.StatsTable())
	return err
}

// BetTable 逐注的畫框表格。
func (r *BetReport) BetTable() string {
	p := message.NewPrinter(lang)
	header := []string{"#", "Hex", "Odds", "ER", "NE", "Amount", "MaxBet", "Picks"}
	rows := make([][]string, 0, len(r.Bets))
	for k, line := range r.Bets {
		rows = append(rows, []string{
			fmt.Sprintf("%d", k+1),
			line.Hex,
			p.Sprintf("%d", line.Odds),
			p.Sprintf("%.3f:1", line.ER),
			p.Sprintf("%.2f", line.NE),
			p.Sprintf("%d", line.Amount),
			p.Sprintf("%d", line.MaxBet),
			strings.Join(line.Picks, " / "),
		})
	}
	return fmtRows(p.Sprintf("Round %d", r.Round), header, rows)
}

// StatsTable 整組的摘要表。
func (r *BetReport) StatsTable() string {
	p := message.NewPrinter(lang)
	msg := map[string]string{
		"Bets":         p.Sprintf("%d", len(r.Bets)),
		"TER":          p.Sprintf("%.3f:1", r.TER),
		"Net Expected": p.Sprintf("%.2f", r.NetExpected),
		"Total Amount": p.Sprintf("%d", r.TotalAmount),
		"Bust Rate":    p.Sprintf("%.2f %%", 100.0*r.BustRate),
		"Partial Rate": p.Sprintf("%.2f %%", 100.0*r.PartialRate),
		"Bustproof":    fmt.Sprintf("%t", r.Bustproof),
		"Crazy":        fmt.Sprintf("%t", r.Crazy),
		"Gambit":       fmt.Sprintf("%t", r.Gambit),
		"Tenbet":       fmt.Sprintf("%t", r.Tenbet),
	}
	keys := []string{"Bets", "TER", "Net Expected", "Total Amount", "Bust Rate", "Partial Rate", "Bustproof", "Crazy", "Gambit", "Tenbet"}
	return fmtTable("Stats", keys, msg)
}

// fmtRows 多欄畫框表格，欄寬取各列最大顯示寬度。
func fmtRows(title string, header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var divider strings.Builder
	divider.WriteByte('+')
	totalInner := -1
	for _, w := range widths {
		divider.WriteString(strings.Repeat("-", w+2))
		divider.WriteByte('+')
		totalInner += w + 3
	}
	divider.WriteByte('\n')

	line := func(cells []string) string {
		var b strings.Builder
		b.WriteByte('|')
		for i, cell := range cells {
			b.WriteString(" " + cell + blank(widths[i]-runewidth.StringWidth(cell)) + " |")
		}
		b.WriteByte('\n')
		return b.String()
	}

	titleW := runewidth.StringWidth(title)
	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	out := "+" + strings.Repeat("-", totalInner) + "+\n"
	out += "|" + blank(left) + title + blank(right) + "|\n"
	out += divider.String()
	out += line(header)
	out += divider.String()
	for _, row := range rows {
		out += line(row)
	}
	out += divider.String()
	return out
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	fmtStr := top
	fmtStr += p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right))
	fmtStr += divider
	for _, k := range keys {
		fmtStr += p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k])))
	}
	fmtStr += divider

	return fmtStr
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}

// YAML 內層方法
func forceReadableList[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}

	// 自頂向下調整所有 sequence node 的 style：
	// - 若該 sequence 內部「沒有子 sequence」，代表它是最內層的一維（或本身就是一維）=> 用 flow style: [...]
	// - 若該 sequence 內部「有子 sequence」，代表它是外層維度 => 保持預設 block（展開）
	styleReadableSequences(&node)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

func styleReadableSequences(n *yaml.Node) {
	if n == nil {
		return
	}

	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
		return

	case yaml.SequenceNode:
		hasChildSeq := false
		for _, c := range n.Content {
			if c != nil && c.Kind == yaml.SequenceNode {
				hasChildSeq = true
				break
			}
		}

		// 先遞迴處理子節點（讓最內層先被標記成 flow）
		for _, c := range n.Content {
			styleReadableSequences(c)
		}

		if !hasChildSeq {
			n.Style = yaml.FlowStyle
		}
		return

	default:
		return
	}
}
