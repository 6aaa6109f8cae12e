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

package spec

// ModifierFlag 調整一輪解讀方式的旗標，可用位元 OR 疊加。
type ModifierFlag uint8

const (
	// ModifierGeneral 一般模式：無時間概念，不看變動紀錄。
	ModifierGeneral ModifierFlag = 1 << iota
	// ModifierOpeningOdds 以開盤賠率取代現時賠率計算。
	ModifierOpeningOdds
	// ModifierReverse 反轉 max-TER 排序方向。
	ModifierReverse
	// ModifierCharityCorner 慈善角活動：下注上限由 10 提升為 15。
	ModifierCharityCorner
)

const (
	// BetCapDefault 一般下注上限。
	BetCapDefault = 10
	// BetCapCharity 慈善角活動的下注上限。
	BetCapCharity = 15
)

// Modifier 旗標加上可選的自訂賠率覆寫。
// CustomOdds 以參賽者編號為 key，值會蓋過該參賽者的現時賠率。
type Modifier struct {
	Flags      ModifierFlag
	CustomOdds map[uint8]uint32
}

func (m *Modifier) Is(f ModifierFlag) bool {
	return m != nil && m.Flags&f != 0
}

// BetCap 本修飾條件下的下注上限。
func (m *Modifier) BetCap() int {
	if m.Is(ModifierCharityCorner) {
		return BetCapCharity
	}
	return BetCapDefault
}

// Apply 回傳套用修飾後的賠率矩陣：依旗標選 opening/current，再套自訂覆寫。
// 原 RoundData 不被改動。
func (m *Modifier) Apply(rd *RoundData) [ArenaCount][CompetitorsPerArena + 1]uint32 {
	odds := rd.CurrentOdds
	if m.Is(ModifierOpeningOdds) {
		odds = rd.OpeningOdds
	}
	if m != nil && len(m.CustomOdds) > 0 {
		for id, v := range m.CustomOdds {
			if a, p := rd.CompetitorArena(id); a >= 0 {
				odds[a][p] = v
			}
		}
	}
	return odds
}
