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

// Package wagerlab 提供下注引擎的「組裝入口（assembler）」。
//
// Round 是對外操作的最小單位，負責把四個地基組裝在一起：
//  1. spec.RoundData：一輪的原始輸入（參賽者、賠率、開獎結果）。
//  2. models：把賠率轉成 5x5 勝率矩陣的估計模型。
//  3. arena：逐場視圖，策略挑選正期望場次用。
//  4. sdk/betmath：搜尋空間表、分割細化、獎金分布與凍結編碼。
//
// 典型使用情境：
//   - CLI（cmd/run）：載入回合、建立策略注單、輸出表格與驗證分布。
//   - 後端服務（cmd/svr）：對外回答 chance / bets / table 查詢。
package wagerlab

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"

	"github.com/zintix-labs/wagerlab/arena"
	"github.com/zintix-labs/wagerlab/errs"
	"github.com/zintix-labs/wagerlab/models"
	"github.com/zintix-labs/wagerlab/sdk/betmath"
	"github.com/zintix-labs/wagerlab/spec"
)

// Model 勝率估計模型的選擇。
type Model uint8

const (
	// ModelOriginal 反覆修正法（預設），輸入為開盤賠率。
	ModelOriginal Model = iota
	// ModelLogit 多項 logit 模型，輸入為參賽者身分與名次。
	ModelLogit
)

// Options Round 的組裝選項，零值即預設行為。
type Options struct {
	Model    Model
	Modifier *spec.Modifier
	// BetAmount 每注的基準注金；0 表示未設定（策略不會配注金）。
	BetAmount int
}

// Round 一輪賽事的完整組裝結果。建立後不可變；
// 換模型或修飾條件就重新組裝一個。
type Round struct {
	Data     *spec.RoundData
	Arenas   *arena.Arenas
	Probs    models.Matrix
	Table    *betmath.RoundTable
	Modifier *spec.Modifier

	betAmount int
	binIndex  map[uint32]int
	rng       *mrand.Rand
}

// NewRound 由已驗證的回合資料組裝 Round。
func NewRound(rd *spec.RoundData, opts Options) (*Round, error) {
	if err := rd.Valid(); err != nil {
		return nil, err
	}

	currentOdds := opts.Modifier.Apply(rd)
	as := arena.New(rd, &currentOdds)

	var probs models.Matrix
	switch opts.Model {
	case ModelOriginal:
		probs = models.OriginalProbabilities(rd)
	case ModelLogit:
		probs = models.LogitProbabilities(as)
	default:
		return nil, errs.Warnf("unknown probability model %d", opts.Model)
	}

	r := &Round{
		Data:     rd,
		Arenas:   as,
		Probs:    probs,
		Table:    betmath.MakeRoundTable(&probs, &currentOdds),
		Modifier: opts.Modifier,
		rng:      newRNG(),
	}
	r.binIndex = make(map[uint32]int, len(r.Table.Bins))
	for i, bin := range r.Table.Bins {
		r.binIndex[bin] = i
	}
	r.SetBetAmount(opts.BetAmount)
	return r, nil
}

// IndexOfBinary 查出 20-bit 遮罩在搜尋空間表中的索引；不存在回傳 -1。
func (r *Round) IndexOfBinary(bin uint32) int {
	if i, ok := r.binIndex[bin]; ok {
		return i
	}
	return -1
}

// FromJSON 由回合 JSON 組裝 Round。
func FromJSON(data []byte, opts Options) (*Round, error) {
	rd, err := spec.GetRoundDataByJSON(data)
	if err != nil {
		return nil, err
	}
	return NewRound(rd, opts)
}

// FromYAML 由回合 YAML 組裝 Round。
func FromYAML(data []byte, opts Options) (*Round, error) {
	rd, err := spec.GetRoundDataByYAML(data)
	if err != nil {
		return nil, err
	}
	return NewRound(rd, opts)
}

// FromURL 由舊式分享連結組裝 Round。
// 連結帶 /15/ 時自動補上慈善角旗標。
func FromURL(raw string, opts Options) (*Round, error) {
	parsed, err := spec.ParseRoundURL(raw)
	if err != nil {
		return nil, err
	}
	if parsed.CharityCorner {
		m := spec.Modifier{}
		if opts.Modifier != nil {
			m = *opts.Modifier
		}
		m.Flags |= spec.ModifierCharityCorner
		opts.Modifier = &m
	}
	return NewRound(parsed.Round, opts)
}

// SetBetAmount 設定基準注金；超界會被夾到合法範圍，0 表示未設定。
func (r *Round) SetBetAmount(amount int) {
	if amount <= 0 {
		r.betAmount = 0
		return
	}
	r.betAmount = min(max(amount, betmath.BetAmountMin), betmath.BetAmountMax)
}

// BetAmount 目前的基準注金（0 = 未設定）。
func (r *Round) BetAmount() int { return r.betAmount }

// MaxBets 本輪的下注上限。
func (r *Round) MaxBets() int { return r.Modifier.BetCap() }

// Number 回合編號。
func (r *Round) Number() uint32 { return r.Data.Round }

// Winners 開獎名次；未開獎為全 0。
func (r *Round) Winners() [spec.ArenaCount]uint8 {
	if rd := r.Data; rd.HasWinners() {
		return *rd.Winners
	}
	return [spec.ArenaCount]uint8{}
}

// WinnersBinary 開獎結果的 20-bit 表示；未開獎為 0。
func (r *Round) WinnersBinary() uint32 {
	w := r.Winners()
	var sel betmath.Selection
	copy(sel[:], w[:])
	return sel.Binary()
}

// WinningCompetitors 勝出的參賽者；未開獎為 nil。
func (r *Round) WinningCompetitors() []*arena.Competitor {
	bin := r.WinnersBinary()
	if bin == 0 {
		return nil
	}
	return r.Arenas.FromBinary(bin)
}

// IsOver 本輪是否已開獎。
func (r *Round) IsOver() bool { return r.WinnersBinary() != 0 }

// WinUnits 注單組在本輪開獎下贏得的單位數；未開獎為 0。
func (r *Round) WinUnits(b *Bets) uint32 {
	winners := r.WinnersBinary()
	if winners == 0 {
		return 0
	}
	units := uint32(0)
	for _, i := range b.Indices {
		bin := r.Table.Bins[i]
		if bin&winners == bin {
			units += r.Table.Odds[i]
		}
	}
	return units
}

// WinPayout 注單組在本輪開獎下的實得獎金，逐注套用單注獎金上限。
// 沒有注金或未開獎為 0。
func (r *Round) WinPayout(b *Bets) uint32 {
	if len(b.amounts) == 0 {
		return 0
	}
	winners := r.WinnersBinary()
	if winners == 0 {
		return 0
	}
	payout := uint32(0)
	for k, i := range b.Indices {
		bin := r.Table.Bins[i]
		if bin&winners != bin {
			continue
		}
		won := r.Table.Odds[i] * uint32(b.amounts[k])
		payout += min(won, betmath.MaxTotalPayout)
	}
	return payout
}

// MakeURL 組出注單組的分享連結。
func (r *Round) MakeURL(b *Bets) string {
	charity := r.Modifier.Is(spec.ModifierCharityCorner) || b.Len() > spec.BetCapDefault
	return spec.MakeRoundURL("", r.Number(), charity, b.Hash(), b.AmountsHash())
}

// newRNG 以 crypto/rand 播種的 PCG，隨機策略用。
func newRNG() *mrand.Rand {
	var seed [16]byte
	if _, err := rand.Read(seed[:]); err != nil {
		// crypto/rand 不可用時退回固定種子，僅影響隨機策略的取樣。
		return mrand.New(mrand.NewPCG(0x9E3779B97F4A7C15, 0xD1B54A32D192ED03))
	}
	return mrand.New(mrand.NewPCG(
		binary.LittleEndian.Uint64(seed[:8]),
		binary.LittleEndian.Uint64(seed[8:]),
	))
}
