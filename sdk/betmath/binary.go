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

// Package betmath 提供五競技場下注遊戲的核心運算：
// 20-bit 位元遮罩編碼、3,124 格搜尋空間表、注單分割細化（partition refinement）、
// 獎金機率分布，以及兩種凍結的文字編碼（選注 hash 與注金 hash）。
//
// 位元佈局：20 bits 分成 5 個 nibble，競技場 0 佔最高位 nibble。
// nibble 內名次 p（1..4）對應 bit 4-p，全零 nibble 表示「該場未選」。
package betmath

import "math/bits"

const (
	// ArenaCount 一輪共有 5 個競技場。
	ArenaCount = 5
	// PositionsPerArena 每個競技場 4 名參賽者。
	PositionsPerArena = 4
	// TableSize 非空選注總數：5^5 - 1。
	TableSize = 3124
	// Wildcard 全域常數：20 bits 全設，代表「任何結果都接受」。
	Wildcard uint32 = 0xFFFFF
	// MaxTotalPayout 單注獎金上限（單位）。
	MaxTotalPayout = 1_000_000
)

// ArenaMasks[a] 取出第 a 個競技場的 nibble。
var ArenaMasks = [ArenaCount]uint32{0xF0000, 0xF000, 0xF00, 0xF0, 0xF}

// AcceptAny[p] 是跨競技場的名次樣板：
// p=0 為 Wildcard；p=1..4 在每個 nibble 的同一 bit 位各設 1。
// 與 ArenaMasks[a] 做 AND 即得「第 a 場、名次 p」的接受樣式。
var AcceptAny = [PositionsPerArena + 1]uint32{Wildcard, 0x88888, 0x44444, 0x22222, 0x11111}

// Selection 每個競技場一個值：0 = 未選，1..4 = 選定名次。
// 全零的 Selection 不是合法注單，呼叫端不應產生。
type Selection [ArenaCount]uint8

// CompetitorBinary 回傳（arena, position）對應的單一 bit 遮罩。
// position 0 或超界輸入回傳 0（等同「未選」哨兵，不視為錯誤）。
func CompetitorBinary(arena, position int) uint32 {
	if arena < 0 || arena >= ArenaCount || position < 1 || position > PositionsPerArena {
		return 0
	}
	return 0x80000 >> uint(position-1+arena*PositionsPerArena)
}

// Binary 將 Selection 編成 20-bit 遮罩（各場 bit 的 OR）。
func (s Selection) Binary() uint32 {
	bin := uint32(0)
	for a := 0; a < ArenaCount; a++ {
		bin |= CompetitorBinary(a, int(s[a]))
	}
	return bin
}

// Pattern 回傳 Selection 的接受樣式：未選的競技場整個 nibble 全設（wildcard），
// 已選的競技場只留該名次的 bit。分割細化以此為注單的區域約束。
func (s Selection) Pattern() uint32 {
	pat := uint32(0)
	for a := 0; a < ArenaCount; a++ {
		pat |= AcceptAny[s[a]] & ArenaMasks[a]
	}
	return pat
}

// SelectionFromBinary 是 Binary 的精確反函式：
// 各 nibble 非零時名次 = 4 - nibble 內的 trailing zero 數，否則 0。
func SelectionFromBinary(bin uint32) Selection {
	var s Selection
	for a := 0; a < ArenaCount; a++ {
		nib := (bin >> uint((ArenaCount-1-a)*4)) & 0xF
		if nib != 0 {
			s[a] = uint8(PositionsPerArena - bits.TrailingZeros32(nib))
		}
	}
	return s
}

// Doable 判斷遮罩是否仍「可成立」：每個競技場的 nibble 至少留一個接受 bit。
// 任一 nibble 歸零代表該場已無任何結果能滿足，整個區域為空集合。
func Doable(bin uint32) bool {
	for _, m := range ArenaMasks {
		if bin&m == 0 {
			return false
		}
	}
	return true
}
