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

// Package arena 把回合資料攤開成逐場、逐參賽者的視圖，
// 供策略層挑選正期望的場次與名次。
package arena

import (
	"fmt"
	"sort"

	"github.com/zintix-labs/wagerlab/sdk/betmath"
	"github.com/zintix-labs/wagerlab/spec"
)

// ArenaNames 五個競技場的固定名稱，索引即場次編號。
var ArenaNames = [spec.ArenaCount]string{"Shipwreck", "Lagoon", "Treasure", "Hidden", "Harpoon"}

// Competitor 單一參賽者在本輪的狀態。
type Competitor struct {
	// ID 全聯盟編號 1..20。
	ID uint8
	// ArenaID 所屬競技場 0..4。
	ArenaID int
	// Index 場內名次 1..4。
	Index int
	// CurrentOdds / OpeningOdds 現時與開盤賠率，2..13。
	CurrentOdds uint32
	OpeningOdds uint32
	// IsWinner 本輪是否勝出（未開獎為 false）。
	IsWinner bool
}

// Name 參賽者名稱。
func (c *Competitor) Name() string {
	if c.ID < 1 || int(c.ID) > len(competitorNames) {
		return fmt.Sprintf("competitor-%d", c.ID)
	}
	return competitorNames[c.ID-1]
}

// Image 官方頭像圖檔網址。
func (c *Competitor) Image() string {
	return fmt.Sprintf("http://images.neopets.com/pirates/fc/fc_pirate_%d.gif", c.ID)
}

// Binary 參賽者的 20-bit 單一 bit 表示。
func (c *Competitor) Binary() uint32 {
	return betmath.CompetitorBinary(c.ArenaID, c.Index)
}

var competitorNames = [spec.CompetitorIDMax]string{
	"Dan", "Sproggie", "Orvinn", "Lucky", "Edmund",
	"Peg Leg", "Bonnie", "Puffo", "Stuff", "Squire",
	"Crossblades", "Stripey", "Ned", "Fairfax", "Gooblah",
	"Franchisco", "Federismo", "Blackbeard", "Buck", "Tailhook",
}

// Arena 一個競技場與其中四名參賽者。
type Arena struct {
	ID          int
	Competitors [spec.CompetitorsPerArena]Competitor
	// Odds 四名參賽者現時賠率倒數的總和。小於 1 表示存在保證獲利的下法。
	Odds float64
	// Winner 勝出名次 1..4，未開獎為 0。
	Winner uint8
}

// Name 競技場名稱。
func (a *Arena) Name() string { return ArenaNames[a.ID] }

// IsPositive 賠率倒數和小於 1。
func (a *Arena) IsPositive() bool { return a.Odds < 1 }

// IsNegative IsPositive 的反面。
func (a *Arena) IsNegative() bool { return !a.IsPositive() }

// Ratio 全押本場四名時的保證報酬率；正場次為正值。
func (a *Arena) Ratio() float64 { return 1/a.Odds - 1 }

// Best 依現時賠率由低到高排序的參賽者。
func (a *Arena) Best() []Competitor {
	out := make([]Competitor, spec.CompetitorsPerArena)
	copy(out, a.Competitors[:])
	sort.SliceStable(out, func(i, j int) bool { return out[i].CurrentOdds < out[j].CurrentOdds })
	return out
}

// IDs 場內四名參賽者的編號。
func (a *Arena) IDs() [spec.CompetitorsPerArena]uint8 {
	var ids [spec.CompetitorsPerArena]uint8
	for i := range a.Competitors {
		ids[i] = a.Competitors[i].ID
	}
	return ids
}

// Arenas 一輪的五個競技場。
type Arenas [spec.ArenaCount]Arena

// New 由回合資料與（修飾後的）現時賠率建出五場視圖。
func New(rd *spec.RoundData, currentOdds *[spec.ArenaCount][spec.CompetitorsPerArena + 1]uint32) *Arenas {
	var as Arenas
	for a := 0; a < spec.ArenaCount; a++ {
		ar := &as[a]
		ar.ID = a
		if rd.HasWinners() {
			ar.Winner = rd.Winners[a]
		}
		for i := 0; i < spec.CompetitorsPerArena; i++ {
			cur := currentOdds[a][i+1]
			ar.Competitors[i] = Competitor{
				ID:          rd.Competitors[a][i],
				ArenaID:     a,
				Index:       i + 1,
				CurrentOdds: cur,
				OpeningOdds: rd.OpeningOdds[a][i+1],
				IsWinner:    ar.Winner == uint8(i+1),
			}
			ar.Odds += 1 / float64(cur)
		}
	}
	return &as
}

// ByID 依編號找參賽者；找不到回傳 nil。
func (as *Arenas) ByID(id uint8) *Competitor {
	for a := range as {
		for i := range as[a].Competitors {
			if as[a].Competitors[i].ID == id {
				return &as[a].Competitors[i]
			}
		}
	}
	return nil
}

// FromBinary 取出遮罩中被點名的參賽者，依競技場順序。
func (as *Arenas) FromBinary(bin uint32) []*Competitor {
	sel := betmath.SelectionFromBinary(bin)
	out := make([]*Competitor, 0, spec.ArenaCount)
	for a := range as {
		if sel[a] != 0 {
			out = append(out, &as[a].Competitors[sel[a]-1])
		}
	}
	return out
}

// Best 依賠率倒數和由小到大排序的競技場（最有利的在前）。
func (as *Arenas) Best() []*Arena {
	out := make([]*Arena, 0, spec.ArenaCount)
	for a := range as {
		out = append(out, &as[a])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Odds < out[j].Odds })
	return out
}

// Positives 正場次，依賠率倒數和由小到大。
func (as *Arenas) Positives() []*Arena {
	out := make([]*Arena, 0, spec.ArenaCount)
	for a := range as {
		if as[a].IsPositive() {
			out = append(out, &as[a])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Odds < out[j].Odds })
	return out
}
