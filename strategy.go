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
	"math/bits"
	"sort"

	"github.com/zintix-labs/wagerlab/arena"
	"github.com/zintix-labs/wagerlab/errs"
	"github.com/zintix-labs/wagerlab/sdk/betmath"
	"github.com/zintix-labs/wagerlab/spec"
)

// 本檔案是各種「造注策略」：每個 Make* 都產出一個綁定本輪的 Bets。
// 會用到注金的策略在回傳前呼叫 FillAmounts，注金未設時 Amounts 維持空。

// MakeAllBets 整張搜尋空間表的 3,124 條選注，分析分布用。
func (r *Round) MakeAllBets() (*Bets, error) {
	indices := make([]int, len(r.Table.Bins))
	for i := range indices {
		indices[i] = i
	}
	return r.NewBets(indices)
}

// rankValues 依修飾旗標決定排序依據：
// 設了注金且無一般模式旗標時用淨期望值，否則用期望報酬。
func (r *Round) rankValues() []float64 {
	t := r.Table
	values := make([]float64, len(t.ERs))
	amount := r.BetAmount()
	if amount > 0 && !r.Modifier.Is(spec.ModifierGeneral) {
		for i := range values {
			amt := float64(max(min(amount, int(t.MaxStakes[i])), betmath.BetAmountMin))
			values[i] = amt*t.ERs[i] - amt
		}
		return values
	}
	copy(values, t.ERs)
	return values
}

// pickTop 依 values 排序 candidates 取前 n 個。
// 預設取最大者優先；反轉旗標時取最小者優先。值相同以表索引較小者優先。
func (r *Round) pickTop(candidates []int, values []float64, n int) []int {
	reverse := r.Modifier.Is(spec.ModifierReverse)
	sorted := make([]int, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(a, b int) bool {
		va, vb := values[sorted[a]], values[sorted[b]]
		if va == vb {
			return sorted[a] < sorted[b]
		}
		if reverse {
			return va < vb
		}
		return va > vb
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// MakeMaxTERBets 取最高期望報酬（或設注金時最高淨期望值）的前 MaxBets 注。
func (r *Round) MakeMaxTERBets() (*Bets, error) {
	candidates := make([]int, len(r.Table.Bins))
	for i := range candidates {
		candidates[i] = i
	}
	b, err := r.NewBets(r.pickTop(candidates, r.rankValues(), r.MaxBets()))
	if err != nil {
		return nil, err
	}
	b.FillAmounts()
	return b, nil
}

// MakeUnitsBets 只留聯合賠率至少 units 的選注，
// 依中獎機率由高到低取前 MaxBets 注。沒有任何選注達標時回傳錯誤。
func (r *Round) MakeUnitsBets(units uint32) (*Bets, error) {
	t := r.Table
	var candidates []int
	for i, o := range t.Odds {
		if o >= units {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return nil, errs.Warnf("no bet pays %d or more units", units)
	}
	b, err := r.NewBets(r.pickTop(candidates, t.Probs, r.MaxBets()))
	if err != nil {
		return nil, err
	}
	b.FillAmounts()
	return b, nil
}

// MakeRandomBets 均勻抽出 MaxBets 條互不重複的選注。
func (r *Round) MakeRandomBets() (*Bets, error) {
	n := r.MaxBets()
	seen := make(map[int]bool, n)
	indices := make([]int, 0, n)
	for len(indices) < n {
		i := r.rng.IntN(len(r.Table.Bins))
		if seen[i] {
			continue
		}
		seen[i] = true
		indices = append(indices, i)
	}
	b, err := r.NewBets(indices)
	if err != nil {
		return nil, err
	}
	b.FillAmounts()
	return b, nil
}

// MakeGambitBets 由一個五場全選遮罩展開 gambit 組合：
// 其全部非空子集依聯合賠率由高到低取前 MaxBets 注。
func (r *Round) MakeGambitBets(fullBinary uint32) (*Bets, error) {
	if bits.OnesCount32(fullBinary) != betmath.ArenaCount ||
		betmath.SelectionFromBinary(fullBinary).Binary() != fullBinary {
		return nil, errs.Warnf("gambit needs a full five arena binary, got 0x%05X", fullBinary)
	}
	sel := betmath.SelectionFromBinary(fullBinary)
	var candidates []int
	// 每場「選或不選」共 2^5 - 1 種非空子集。
	for mask := 1; mask < 1<<betmath.ArenaCount; mask++ {
		var sub betmath.Selection
		for a := 0; a < betmath.ArenaCount; a++ {
			if mask&(1<<a) != 0 {
				sub[a] = sel[a]
			}
		}
		candidates = append(candidates, r.IndexOfBinary(sub.Binary()))
	}
	values := make([]float64, len(r.Table.Odds))
	for i, o := range r.Table.Odds {
		values[i] = float64(o)
	}
	b, err := r.NewBets(r.pickTop(candidates, values, r.MaxBets()))
	if err != nil {
		return nil, err
	}
	b.FillAmounts()
	return b, nil
}

// MakeBestGambitBets 以期望報酬最高的五場全選選注展開 gambit。
func (r *Round) MakeBestGambitBets() (*Bets, error) {
	bestIdx, bestER := -1, 0.0
	for i, bin := range r.Table.Bins {
		if bits.OnesCount32(bin) != betmath.ArenaCount {
			continue
		}
		if er := r.Table.ERs[i]; bestIdx < 0 || er > bestER {
			bestIdx, bestER = i, er
		}
	}
	return r.MakeGambitBets(r.Table.Bins[bestIdx])
}

// MakeWinningGambitBets 以本輪開獎結果展開 gambit；未開獎回傳錯誤。
func (r *Round) MakeWinningGambitBets() (*Bets, error) {
	winners := r.WinnersBinary()
	if winners == 0 {
		return nil, errs.NewWarn("round is not over, no winning gambit to build")
	}
	return r.MakeGambitBets(winners)
}

// MakeRandomGambitBets 以隨機的五場全選遮罩展開 gambit。
func (r *Round) MakeRandomGambitBets() (*Bets, error) {
	return r.MakeGambitBets(r.randomFullBinary())
}

// MakeCrazyBets 抽出 MaxBets 個互不重複的五場全選遮罩。
func (r *Round) MakeCrazyBets() (*Bets, error) {
	n := r.MaxBets()
	seen := make(map[uint32]bool, n)
	bins := make([]uint32, 0, n)
	for len(bins) < n {
		bin := r.randomFullBinary()
		if seen[bin] {
			continue
		}
		seen[bin] = true
		bins = append(bins, bin)
	}
	b, err := r.NewBetsFromBinaries(bins)
	if err != nil {
		return nil, err
	}
	b.FillAmounts()
	return b, nil
}

func (r *Round) randomFullBinary() uint32 {
	var sel betmath.Selection
	for a := range sel {
		sel[a] = uint8(r.rng.IntN(betmath.PositionsPerArena)) + 1
	}
	return sel.Binary()
}

// MakeTenbetBets 鎖定 1 到 3 名參賽者（每場至多一名），
// 在包含他們的選注中依 max-TER 排序取前 MaxBets 注。
func (r *Round) MakeTenbetBets(pinned uint32) (*Bets, error) {
	n := bits.OnesCount32(pinned)
	if n < 1 || n > 3 {
		return nil, errs.Warnf("tenbet pins 1 to 3 competitors, got %d", n)
	}
	if betmath.SelectionFromBinary(pinned).Binary() != pinned {
		return nil, errs.Warnf("tenbet binary 0x%05X pins more than one competitor in an arena", pinned)
	}
	var candidates []int
	for i, bin := range r.Table.Bins {
		if bin&pinned == pinned {
			candidates = append(candidates, i)
		}
	}
	b, err := r.NewBets(r.pickTop(candidates, r.rankValues(), r.MaxBets()))
	if err != nil {
		return nil, err
	}
	b.FillAmounts()
	return b, nil
}

// MakeBustproofBets 依正期望場次構造保證有贏的注單組：
//
//	1 場：該場 4 名參賽者各一注。
//	2 場：最佳場的最佳參賽者配上第二場的每名參賽者，最佳場其餘參賽者各自單押。
//	3 場以上：取前三場，層層對最佳參賽者展開，其餘單押。
//
// 沒有正期望場次時無法保證回本，回傳錯誤。
// 有設注金時逐注配注，使每注的實得獎金對齊最低賠率那注。
func (r *Round) MakeBustproofBets() (*Bets, error) {
	positives := r.Arenas.Positives()
	if len(positives) == 0 {
		return nil, errs.NewWarn("no positive arena, bustproof set does not exist")
	}

	var bins []uint32
	switch len(positives) {
	case 1:
		for _, c := range positives[0].Competitors {
			bins = append(bins, c.Binary())
		}
	case 2:
		best := positives[0].Best()[0]
		for _, c := range positives[0].Competitors {
			if c.Index == best.Index {
				for _, d := range positives[1].Competitors {
					bins = append(bins, c.Binary()|d.Binary())
				}
				continue
			}
			bins = append(bins, c.Binary())
		}
	default:
		bestA, bestB := positives[0].Best()[0], positives[1].Best()[0]
		for _, c := range positives[0].Competitors {
			if c.Index != bestA.Index {
				bins = append(bins, c.Binary())
				continue
			}
			for _, d := range positives[1].Competitors {
				if d.Index != bestB.Index {
					bins = append(bins, c.Binary()|d.Binary())
					continue
				}
				for _, e := range positives[2].Competitors {
					bins = append(bins, c.Binary()|d.Binary()|e.Binary())
				}
			}
		}
	}

	b, err := r.NewBetsFromBinaries(bins)
	if err != nil {
		return nil, err
	}
	r.fillBustproofAmounts(b)
	return b, nil
}

// fillBustproofAmounts 對齊式配注：注金 x 最低聯合賠率 / 該注賠率，
// 讓每一注中獎時的實得獎金相同（等於最低賠率那注全額中獎）。
func (r *Round) fillBustproofAmounts(b *Bets) {
	base := r.BetAmount()
	if base == 0 || b.IsEmpty() {
		return
	}
	odds := b.OddsValues()
	lowest := odds[0]
	for _, o := range odds[1:] {
		lowest = min(lowest, o)
	}
	b.amounts = make([]int, b.Len())
	for k, o := range odds {
		amt := base * int(lowest) / int(o)
		b.amounts[k] = max(min(amt, int(r.Table.MaxStakes[b.Indices[k]])), betmath.BetAmountMin)
	}
	b.refresh()
}

// PositiveArenas 正期望場次，賠率由低到高；策略挑場用。
func (r *Round) PositiveArenas() []*arena.Arena {
	return r.Arenas.Positives()
}
