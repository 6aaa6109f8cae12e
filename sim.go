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
	crand "crypto/rand"
	"io"
	"math"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/wagerlab/errs"
	"github.com/zintix-labs/wagerlab/sdk/betmath"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// Verifier 蒙地卡羅驗證器：依勝率矩陣抽樣開獎結果，
// 比對注單組獎金分布的實測頻率與理論 Chance 表。
type Verifier struct {
	round     *Round
	bets      *Bets
	initSeed  uint64
	seedmaker *seedMaker
	// betWins 逐注中獎時的實得獎金（與分布同一組值），抽樣迴圈內避免查表。
	betBins []uint32
	betWins []uint32
	// values / index 理論分布的獎金階層與其在 Chances 的索引。
	values map[uint32]int
}

// VerifyReport 驗證結果：逐階層的理論機率、實測頻率與 95% 信賴區間判定。
type VerifyReport struct {
	Trials int           `json:"Trials" yaml:"trials"`
	Rows   []VerifyRow   `json:"Rows"   yaml:"rows"`
	MeanER float64       `json:"MeanER" yaml:"mean_er"`
	Pass   bool          `json:"Pass"   yaml:"pass"`
	Used   time.Duration `json:"Used"   yaml:"used"`
}

// VerifyRow 單一獎金階層的比對列。
type VerifyRow struct {
	Value    uint32  `json:"Value"    yaml:"value"`
	Expected float64 `json:"Expected" yaml:"expected"`
	Observed float64 `json:"Observed" yaml:"observed"`
	Lo       float64 `json:"Lo"       yaml:"lo"`
	Hi       float64 `json:"Hi"       yaml:"hi"`
	InBounds bool    `json:"InBounds" yaml:"in_bounds"`
}

// NewVerifier 建立注單組的驗證器，種子取自 crypto/rand。
func NewVerifier(r *Round, b *Bets) (*Verifier, error) {
	seed, err := crand.Int(crand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return nil, err
	}
	return NewVerifierWithSeed(r, b, uint64(seed.Int64()))
}

// NewVerifierWithSeed 以固定種子建立驗證器，重現抽樣序列用。
func NewVerifierWithSeed(r *Round, b *Bets, seed uint64) (*Verifier, error) {
	if b.IsEmpty() {
		return nil, errs.NewWarn("nothing to verify: empty bets")
	}
	v := &Verifier{
		round:     r,
		bets:      b,
		initSeed:  seed,
		seedmaker: newSeedMaker(int64(seed & mask63)),
		betBins:   b.Binaries,
		betWins:   b.winnings(),
		values:    make(map[uint32]int, len(b.Chances)),
	}
	for i, c := range b.Chances {
		v.values[c.Value] = i
	}
	return v, nil
}

// Verify 單線驗證：抽樣 trials 次開獎並產出比對報告。
func (v *Verifier) Verify(trials int, showpb bool) (*VerifyReport, error) {
	return v.VerifyMP(trials, 1, showpb)
}

// VerifyMP 平行驗證：mp 個 worker 各抽 trials/mp 次（餘數歸第一個）。
// 每個 worker 自帶由 seedMaker 衍生的抽樣器，彼此互不干擾。
func (v *Verifier) VerifyMP(trials, mp int, showpb bool) (*VerifyReport, error) {
	if trials < 1 {
		return nil, errs.NewWarn("trials must > 0")
	}
	if mp < 1 {
		return nil, errs.NewWarn("workers must > 0")
	}
	if mp > trials {
		mp = trials
	}

	counts := make([][]int64, mp)
	sums := make([]float64, mp)
	for w := range counts {
		counts[w] = make([]int64, len(v.bets.Chances))
	}

	bar := pb.StartNew(trials)
	if !showpb {
		bar.SetWriter(io.Discard)
	}

	wg := new(sync.WaitGroup)
	wg.Add(mp)
	per := trials / mp
	for w := 0; w < mp; w++ {
		n := per
		if w == 0 {
			n += trials % mp
		}
		go func(w, n int) {
			defer wg.Done()
			sums[w] = v.run(n, counts[w], bar)
		}(w, n)
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	total := make([]int64, len(v.bets.Chances))
	unitSum := 0.0
	for w := range counts {
		unitSum += sums[w]
		for i, c := range counts[w] {
			total[i] += c
		}
	}
	return v.report(trials, total, unitSum, used), nil
}

// run 在單一 worker 內抽 n 次開獎，逐次把中獎金額對回理論階層計數。
// 回傳中獎金額總和（算實測 ER 用）。
func (v *Verifier) run(n int, counts []int64, bar *pb.ProgressBar) float64 {
	src := rand.NewSource(uint64(v.seedmaker.next()))
	var weights [betmath.ArenaCount][]float64
	var samplers [betmath.ArenaCount]sampleuv.Weighted
	for a := 0; a < betmath.ArenaCount; a++ {
		weights[a] = v.arenaWeights(a)
		samplers[a] = sampleuv.NewWeighted(weights[a], src)
	}
	unitSum := 0.0
	for t := 0; t < n; t++ {
		winners := uint32(0)
		for a := 0; a < betmath.ArenaCount; a++ {
			// Take 會把抽中的權重歸零（不放回），抽完整組重設回原權重。
			pos, _ := samplers[a].Take()
			samplers[a].ReweightAll(weights[a])
			winners |= betmath.CompetitorBinary(a, pos+1)
		}
		won := uint32(0)
		for k, bin := range v.betBins {
			if bin&winners == bin {
				won += v.betWins[k]
			}
		}
		unitSum += float64(won)
		if i, ok := v.values[won]; ok {
			counts[i]++
		}
		bar.Increment()
	}
	return unitSum
}

// arenaWeights 競技場 a 的抽樣權重，取自勝率矩陣行 1..4。
func (v *Verifier) arenaWeights(a int) []float64 {
	w := make([]float64, betmath.PositionsPerArena)
	copy(w, v.round.Probs[a][1:])
	return w
}

// report 逐階層算二項分布常態近似的 99.9% 信賴區間，全部落在區間內才算通過。
func (v *Verifier) report(trials int, counts []int64, unitSum float64, used time.Duration) *VerifyReport {
	// 未配注以注數均攤（單位即賠率），配注時以注金總額均攤（即回本倍率）。
	denom := float64(v.bets.Len())
	if t := v.bets.TotalAmount(); t > 0 {
		denom = float64(t)
	}
	rep := &VerifyReport{
		Trials: trials,
		MeanER: unitSum / float64(trials) / denom,
		Pass:   true,
		Used:   used,
	}
	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(0.9995)
	n := float64(trials)
	for i, c := range v.bets.Chances {
		se := math.Sqrt(c.Probability * (1 - c.Probability) / n)
		row := VerifyRow{
			Value:    c.Value,
			Expected: c.Probability,
			Observed: float64(counts[i]) / n,
			Lo:       max(c.Probability-z*se, 0),
			Hi:       c.Probability + z*se,
		}
		row.InBounds = row.Observed >= row.Lo && row.Observed <= row.Hi
		rep.Pass = rep.Pass && row.InBounds
		rep.Rows = append(rep.Rows, row)
	}
	return rep
}

const mask63 = uint64(1<<63) - 1

type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// state 走全週期（不重複），再用可逆 mix63 打散
//
// 多個 worker 會同時要種子，state 的推進必須是原子的：
//   - 使用 CAS（Compare-And-Swap）迴圈確保每次呼叫都會取得唯一的下一個 state。
//   - 回傳值使用推進後的 state 經 mix63 打散後的結果。
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()                                            // always masked
		next := (old*6364136223846793005 + 1442695040888963407) & mask63 // full-period LCG mod 2^63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next)) // 一定非負
		}
	}
}

// mix63：只用「可逆」的 bit 操作 + 乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63 // 乘奇數 ⇒ mod 2^63 可逆
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
