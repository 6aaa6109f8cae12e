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

	"github.com/zintix-labs/wagerlab/errs"
	"github.com/zintix-labs/wagerlab/sdk/betmath"
)

// Bets 一組下注的容器，綁定其所屬 Round。
// Indices 指向 Round.Table 的列，Binaries 與之索引對齊。
// 注金只能透過 SetAmounts / FillAmounts 設定，Chances / Summary 隨之重算。
type Bets struct {
	Indices  []int
	Binaries []uint32
	Chances  []betmath.Chance
	Summary  betmath.Summary

	// amounts 逐注注金；len 為 0 或等於 len(Indices)，值 0 表示該注未設定。
	amounts []int
	round   *Round
}

// NewBets 由搜尋空間表索引建立注單組。重複索引會被去除（保留首見順序），
// 超界索引回傳錯誤。注金未配；需要時再呼叫 FillAmounts。
func (r *Round) NewBets(indices []int) (*Bets, error) {
	b := &Bets{round: r}
	seen := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(r.Table.Bins) {
			return nil, errs.Warnf("bet index %d outside table of %d entries", i, len(r.Table.Bins))
		}
		if seen[i] {
			continue
		}
		seen[i] = true
		b.Indices = append(b.Indices, i)
		b.Binaries = append(b.Binaries, r.Table.Bins[i])
	}
	b.refresh()
	return b, nil
}

// NewBetsFromBinaries 由 20-bit 遮罩清單建立注單組。
// 遮罩必須在搜尋空間表中（即至少選了一個競技場）。
func (r *Round) NewBetsFromBinaries(bins []uint32) (*Bets, error) {
	indices := make([]int, 0, len(bins))
	for _, bin := range bins {
		i := r.IndexOfBinary(bin)
		if i < 0 {
			return nil, errs.Warnf("binary 0x%05X is not a valid bet", bin)
		}
		indices = append(indices, i)
	}
	return r.NewBets(indices)
}

// NewBetsFromSelections 由選注清單建立注單組；全零的選注回傳錯誤。
func (r *Round) NewBetsFromSelections(sels []betmath.Selection) (*Bets, error) {
	bins := make([]uint32, len(sels))
	for k, s := range sels {
		bins[k] = s.Binary()
	}
	return r.NewBetsFromBinaries(bins)
}

// NewBetsFromHash 由凍結的選注 hash 建立注單組，
// 可選帶注金 hash（空字串表示不配注金）。
func (r *Round) NewBetsFromHash(betsHash, amountsHash string) (*Bets, error) {
	sels, err := betmath.DecodeBets(betsHash)
	if err != nil {
		return nil, err
	}
	b, err := r.NewBetsFromSelections(sels)
	if err != nil {
		return nil, err
	}
	if amountsHash != "" {
		amounts, err := betmath.DecodeAmounts(amountsHash)
		if err != nil {
			return nil, err
		}
		if err := b.SetAmounts(amounts); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (b *Bets) Len() int      { return len(b.Indices) }
func (b *Bets) IsEmpty() bool { return len(b.Indices) == 0 }

// Amounts 逐注注金的拷貝，與 Indices 對齊；未配注回傳 nil。
func (b *Bets) Amounts() []int {
	if len(b.amounts) == 0 {
		return nil
	}
	out := make([]int, len(b.amounts))
	copy(out, b.amounts)
	return out
}

// HasAmounts 是否已配注。
func (b *Bets) HasAmounts() bool { return len(b.amounts) > 0 }

// SetAmounts 整批設定逐注注金並重算分布。
// 長度必須為 0（清空）或等於注數；值 0 表示該注未設定。
func (b *Bets) SetAmounts(amounts []int) error {
	if len(amounts) != 0 && len(amounts) != b.Len() {
		return errs.Warnf("got %d stakes for %d bets", len(amounts), b.Len())
	}
	if len(amounts) == 0 {
		b.amounts = nil
	} else {
		b.amounts = make([]int, len(amounts))
		copy(b.amounts, amounts)
	}
	b.refresh()
	return nil
}

// refresh 重算獎金分布與摘要。配注時以實得獎金（含單注上限）分層，
// 未配注時以賠率單位分層。
func (b *Bets) refresh() {
	if b.IsEmpty() {
		b.Chances = nil
		b.Summary = betmath.Summary{}
		return
	}
	t := b.round.Table
	wins := b.winnings()
	wb := make([]betmath.WeightedBet, b.Len())
	for k, i := range b.Indices {
		// 分割器吃接受樣式：未選的競技場是整個 nibble 的 wildcard，不是 0。
		wb[k] = betmath.WeightedBet{Pattern: betmath.SelectionFromBinary(t.Bins[i]).Pattern(), Winnings: wins[k]}
	}
	b.Chances = betmath.BuildChances(wb, &b.round.Probs)
	b.Summary = betmath.Summarize(b.Chances, b.Len())
}

// winnings 逐注中獎時的實得獎金：配注時為 min(賠率x注金, 總獎金上限)，
// 未配注時為賠率單位。分布與驗證器都用這組值分層。
func (b *Bets) winnings() []uint32 {
	t := b.round.Table
	out := make([]uint32, b.Len())
	for k, i := range b.Indices {
		win := t.Odds[i]
		if len(b.amounts) > 0 && b.amounts[k] > 0 {
			win = min(win*uint32(b.amounts[k]), betmath.MaxTotalPayout)
		}
		out[k] = win
	}
	return out
}

// FillAmounts 依回合的基準注金逐注配注：
// 夾在單注獎金上限對應的最大注金之下、法定下限之上。
// 回合未設注金時清空 Amounts。
func (b *Bets) FillAmounts() {
	base := b.round.BetAmount()
	if base == 0 {
		b.amounts = nil
		b.refresh()
		return
	}
	b.amounts = make([]int, b.Len())
	for k, i := range b.Indices {
		b.amounts[k] = max(min(base, int(b.round.Table.MaxStakes[i])), betmath.BetAmountMin)
	}
	b.refresh()
}

// TotalAmount 注金總額；未配注為 0。
func (b *Bets) TotalAmount() int {
	total := 0
	for _, a := range b.amounts {
		total += a
	}
	return total
}

// Hash 選注清單的凍結編碼。
func (b *Bets) Hash() string {
	sels := make([]betmath.Selection, b.Len())
	for k, bin := range b.Binaries {
		sels[k] = betmath.SelectionFromBinary(bin)
	}
	return betmath.EncodeBets(sels)
}

// AmountsHash 注金清單的凍結編碼；未配注回傳空字串。
func (b *Bets) AmountsHash() string {
	if len(b.amounts) == 0 {
		return ""
	}
	return betmath.EncodeAmounts(b.amounts)
}

// OddsValues 逐注的聯合賠率，與 Indices 對齊。
func (b *Bets) OddsValues() []uint32 {
	out := make([]uint32, b.Len())
	for k, i := range b.Indices {
		out[k] = b.round.Table.Odds[i]
	}
	return out
}

// ExpectedReturn 全組期望報酬（TER）：逐注 ER 加總。
func (b *Bets) ExpectedReturn() float64 {
	total := 0.0
	for _, i := range b.Indices {
		total += b.round.Table.ERs[i]
	}
	return total
}

// NetExpected 全組淨期望值：逐注 注金 x ER - 注金 加總。未配注為 0。
func (b *Bets) NetExpected() float64 {
	if len(b.amounts) == 0 {
		return 0
	}
	total := 0.0
	for k, i := range b.Indices {
		amt := float64(b.amounts[k])
		total += amt*b.round.Table.ERs[i] - amt
	}
	return total
}

// IsBustproof 是否保證有贏：分布中沒有獎金 0 的列。
func (b *Bets) IsBustproof() bool {
	return !b.IsEmpty() && b.Summary.Bust == nil
}

// IsGuaranteedWin 是否穩賺：保證有贏、注金全數配妥，
// 且最高單注注金低於最低的單注實得獎金（賠率 x 注金）。
func (b *Bets) IsGuaranteedWin() bool {
	if !b.IsBustproof() || len(b.amounts) == 0 {
		return false
	}
	highest := 0
	for _, a := range b.amounts {
		if a == 0 {
			// 任何一注沒配注就談不上穩賺。
			return false
		}
		highest = max(highest, a)
	}
	lowest := 0
	for k, o := range b.OddsValues() {
		win := int(o) * b.amounts[k]
		if lowest == 0 || win < lowest {
			lowest = win
		}
	}
	return highest < lowest
}

// IsCrazy 是否全為五場全選的注單。
func (b *Bets) IsCrazy() bool {
	if b.IsEmpty() {
		return false
	}
	for _, bin := range b.Binaries {
		if bits.OnesCount32(bin) != betmath.ArenaCount {
			return false
		}
	}
	return true
}

// IsGambit 是否為 gambit 組合：至少兩注，最大的遮罩本身是五場全選，
// 其餘注單全是它的子集。
func (b *Bets) IsGambit() bool {
	if b.Len() < 2 {
		return false
	}
	highest := uint32(0)
	for _, bin := range b.Binaries {
		highest = max(highest, bin)
	}
	if bits.OnesCount32(highest) != betmath.ArenaCount {
		return false
	}
	for _, bin := range b.Binaries {
		if highest&bin != bin {
			return false
		}
	}
	return true
}

// commonBinary 全注單 AND 起來的共同 bit；沒有共同參賽者時為 0。
func (b *Bets) commonBinary() uint32 {
	if b.IsEmpty() {
		return 0
	}
	common := betmath.Wildcard
	for _, bin := range b.Binaries {
		common &= bin
	}
	return common
}

// TenbetMinCount tenbet 組合的最低注數門檻。
const TenbetMinCount = 10

// IsTenbet 是否為 tenbet 組合：至少 10 注且所有注單共享至少一名參賽者。
func (b *Bets) IsTenbet() bool {
	return b.Len() >= TenbetMinCount && b.commonBinary() != 0
}

// CountTenbets 所有注單共同鎖定的參賽者數。
func (b *Bets) CountTenbets() int {
	return bits.OnesCount32(b.commonBinary())
}
