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

package betmath

// RoundTable 一輪的完整搜尋空間：3,124 條非空選注，五個索引對齊的平行陣列。
// 建表後不再變動；換了機率或賠率輸入就整張重建。
type RoundTable struct {
	// Bins 各選注的 20-bit 遮罩。
	Bins []uint32
	// Probs 聯合勝率（未選的競技場貢獻因子 1.0）。
	Probs []float64
	// Odds 聯合賠率（未選的競技場貢獻因子 1）。
	Odds []uint32
	// ERs 期望報酬：Probs[i] * Odds[i]。
	ERs []float64
	// MaxStakes 不超過獎金上限的最大注金：ceil(MaxTotalPayout / Odds[i])。
	MaxStakes []uint32
}

// MakeRoundTable 依 5x5 勝率矩陣與賠率矩陣枚舉全部 3,124 條選注。
// 兩個矩陣皆以列為競技場、行 1..4 為名次，行 0 為佔位（機率 1.0、賠率 1）。
// 枚舉順序為里程計順序（競技場 0 在最外層），跳過全零組合。
func MakeRoundTable(probs *[ArenaCount][ArenaCount]float64, odds *[ArenaCount][ArenaCount]uint32) *RoundTable {
	t := &RoundTable{
		Bins:      make([]uint32, 0, TableSize),
		Probs:     make([]float64, 0, TableSize),
		Odds:      make([]uint32, 0, TableSize),
		ERs:       make([]float64, 0, TableSize),
		MaxStakes: make([]uint32, 0, TableSize),
	}
	// 五層巢狀迴圈沿途累積部分乘積，內層只需再乘一次。
	for i0 := 0; i0 <= PositionsPerArena; i0++ {
		b0 := CompetitorBinary(0, i0)
		p0 := factor(probs, 0, i0)
		o0 := oddsFactor(odds, 0, i0)
		for i1 := 0; i1 <= PositionsPerArena; i1++ {
			b1 := b0 | CompetitorBinary(1, i1)
			p1 := p0 * factor(probs, 1, i1)
			o1 := o0 * oddsFactor(odds, 1, i1)
			for i2 := 0; i2 <= PositionsPerArena; i2++ {
				b2 := b1 | CompetitorBinary(2, i2)
				p2 := p1 * factor(probs, 2, i2)
				o2 := o1 * oddsFactor(odds, 2, i2)
				for i3 := 0; i3 <= PositionsPerArena; i3++ {
					b3 := b2 | CompetitorBinary(3, i3)
					p3 := p2 * factor(probs, 3, i3)
					o3 := o2 * oddsFactor(odds, 3, i3)
					for i4 := 0; i4 <= PositionsPerArena; i4++ {
						bin := b3 | CompetitorBinary(4, i4)
						if bin == 0 {
							continue
						}
						p := p3 * factor(probs, 4, i4)
						o := o3 * oddsFactor(odds, 4, i4)
						t.Bins = append(t.Bins, bin)
						t.Probs = append(t.Probs, p)
						t.Odds = append(t.Odds, o)
						t.ERs = append(t.ERs, p*float64(o))
						t.MaxStakes = append(t.MaxStakes, ceilDiv(MaxTotalPayout, o))
					}
				}
			}
		}
	}
	return t
}

func factor(m *[ArenaCount][ArenaCount]float64, arena, pos int) float64 {
	if pos == 0 {
		return 1.0
	}
	return m[arena][pos]
}

func oddsFactor(m *[ArenaCount][ArenaCount]uint32, arena, pos int) uint32 {
	if pos == 0 {
		return 1
	}
	return m[arena][pos]
}

func ceilDiv(a, b uint32) uint32 {
	return (a + b - 1) / b
}
