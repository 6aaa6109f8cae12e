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

import "sort"

// Chance 獎金分布表的一列：贏得剛好 Value 單位的機率，
// 以及由小到大排序後的累積機率（Cumulative）與存活機率（Tail，贏 >= Value 的機率）。
type Chance struct {
	Value       uint32
	Probability float64
	Cumulative  float64
	Tail        float64
}

// PatternProbability 計算區域遮罩命中的機率：
// 每個競技場把遮罩內名次的機率加總，五場相乘（各場視為獨立）。
// wildcard nibble 加總整列，矩陣每列總和為 1 時貢獻因子 1.0。
// 呼叫端須自行保證矩陣已逐列正規化，這裡不做任何修正。
func PatternProbability(pattern uint32, probs *[ArenaCount][ArenaCount]float64) float64 {
	total := 1.0
	for a := 0; a < ArenaCount; a++ {
		sum := 0.0
		for p := 1; p <= PositionsPerArena; p++ {
			if pattern&CompetitorBinary(a, p) != 0 {
				sum += probs[a][p]
			}
		}
		total *= sum
	}
	return total
}

// BuildChances 對注單清單跑分割細化，合併同獎金的區域機率，
// 產出依獎金遞增排序的 Chance 表。機率總和為 1（浮點容差內）；
// Cumulative 非遞減且尾項為 1；Tail 非遞增且首項為 1，
// 記錄於扣除當列機率之前。
func BuildChances(bets []WeightedBet, probs *[ArenaCount][ArenaCount]float64) []Chance {
	regions := ExpandBets(bets)

	byPayout := make(map[uint32]float64, len(regions))
	for pattern, payout := range regions {
		byPayout[payout] += PatternProbability(pattern, probs)
	}

	chances := make([]Chance, 0, len(byPayout))
	for payout, prob := range byPayout {
		chances = append(chances, Chance{Value: payout, Probability: prob})
	}
	sort.Slice(chances, func(i, j int) bool { return chances[i].Value < chances[j].Value })

	cum, tail := 0.0, 1.0
	for i := range chances {
		cum += chances[i].Probability
		chances[i].Cumulative = cum
		chances[i].Tail = tail
		tail -= chances[i].Probability
	}
	return chances
}

// Summary 從 Chance 表導出的摘要統計。
type Summary struct {
	// Bust 獎金 0 的那一列；保證有贏時為 nil。
	Bust *Chance
	// Best 獎金最大的一列。
	Best Chance
	// MostLikely 獎金 > 0 中機率最大的一列；機率相同時取獎金較小者。
	MostLikely Chance
	// PartialRate 「有中但沒全中」的機率：0 < 獎金 < 注單數的列機率總和。
	PartialRate float64
}

// Summarize 掃一遍已排序的 Chance 表取出摘要。betCount 為注單數，
// 每注 1 單位全中時獎金至少為 betCount，低於它即為部分回收。
func Summarize(chances []Chance, betCount int) Summary {
	var s Summary
	if len(chances) == 0 {
		return s
	}
	s.Best = chances[len(chances)-1]
	for i := range chances {
		c := chances[i]
		if c.Value == 0 {
			s.Bust = &chances[i]
			continue
		}
		if c.Probability > s.MostLikely.Probability {
			s.MostLikely = c
		}
		if c.Value < uint32(betCount) {
			s.PartialRate += c.Probability
		}
	}
	return s
}
