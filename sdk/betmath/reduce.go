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

import "slices"

// WeightedBet 一張待分割的注單：接受樣式（Pattern 形式的遮罩）加上獎金額。
// 同樣式的多張注單在分割前先合併、獎金相加。
type WeightedBet struct {
	Pattern  uint32
	Winnings uint32
}

// ExpandBets 把加權注單清單細化成互斥且涵蓋全域的區域分割。
//
// 回傳 map 的 key 是區域約束遮罩（每個 nibble 或為 wildcard 子集、或為單一名次），
// value 是落在該區域的贏家可領的總獎金。不變量：任兩個 key 的具體結果集不相交，
// 全部 key 的聯集恰為 4^5 = 1024 種結果；每個 key 皆 Doable。
//
// 空清單回傳 {Wildcard: 0}，即「必定槓龜」的單一區域。
//
// 逐注處理：對每個與注單樣式相交（交集 Doable）的既有區域 key，
// 先寫入交集區域（原獎金 + 本注獎金），再逐競技場切出「key 有、交集沒有」的
// 剩餘部分，保留原獎金。每切完一場就把工作中的 key 收斂到交集，後續場次的
// 剩餘部分據此計算，避免重複涵蓋；因此每張注單的成本與現存區域數成正比，
// 而非與 5 場的組合爆炸成正比。
func ExpandBets(bets []WeightedBet) map[uint32]uint32 {
	merged := make(map[uint32]uint32, len(bets))
	for _, b := range bets {
		merged[b.Pattern] += b.Winnings
	}
	patterns := make([]uint32, 0, len(merged))
	for pat := range merged {
		patterns = append(patterns, pat)
	}
	// 固定處理順序，讓同一份輸入永遠產生同一份分割。
	slices.Sort(patterns)

	res := make(map[uint32]uint32, len(merged)*4)
	res[Wildcard] = 0

	overlap := make([]uint32, 0, 16)
	for _, pat := range patterns {
		winnings := merged[pat]

		overlap = overlap[:0]
		for key := range res {
			if Doable(pat & key) {
				overlap = append(overlap, key)
			}
		}
		slices.Sort(overlap)

		for _, key := range overlap {
			oldPayout := res[key]
			delete(res, key)

			common := pat & key
			res[common] = oldPayout + winnings

			for _, am := range ArenaMasks {
				// 此場中 key 接受、common 排除的結果，連同其他場的現狀。
				// common ⊆ key，故 XOR 恰好清掉本場已被交集吸收的 bits。
				leftover := key ^ (common & am)
				if Doable(leftover) {
					res[leftover] = oldPayout
				}
				key = (key &^ am) | (common & am)
			}
		}
	}
	return res
}
