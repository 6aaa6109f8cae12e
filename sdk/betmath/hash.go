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

import (
	"strings"

	"github.com/zintix-labs/wagerlab/errs"
)

// 兩種 hash 是對外分享連結用的凍結格式，逐 byte 相容是硬性需求，
// 任何改動都會讓既有字串失效。

const (
	// BetAmountMin 合法注金下限。
	BetAmountMin = 50
	// BetAmountMax 合法注金上限，同時是注金 hash 的位移量。
	BetAmountMax = 70304
)

const amountAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// EncodeBets 把選注清單編成 base-25 hash（字元 'a'..'y'）。
// 五個 0..4 的欄位兩兩配對，值 = 前欄 x5 + 後欄；欄位總數為奇數時補一個 0。
func EncodeBets(selections []Selection) string {
	var flat []uint8
	for _, s := range selections {
		flat = append(flat, s[:]...)
	}
	if len(flat)%2 == 1 {
		flat = append(flat, 0)
	}
	var b strings.Builder
	b.Grow(len(flat) / 2)
	for i := 0; i < len(flat); i += 2 {
		b.WriteByte('a' + flat[i]*5 + flat[i+1])
	}
	return b.String()
}

// DecodeBets 還原 base-25 hash 成選注清單。每個字元拆成兩個 0..4 欄位，
// 每 5 個欄位組成一個 Selection；解出全零的組合是補位產物，直接丟棄。
// 出現 'a'..'y' 以外的字元回傳錯誤。
func DecodeBets(h string) ([]Selection, error) {
	flat := make([]uint8, 0, len(h)*2)
	for i := 0; i < len(h); i++ {
		c := h[i]
		if c < 'a' || c > 'y' {
			return nil, errs.Warnf("invalid bets hash: byte %q at %d outside 'a'..'y'", c, i)
		}
		v := c - 'a'
		flat = append(flat, v/5, v%5)
	}
	var out []Selection
	for i := 0; i+ArenaCount <= len(flat); i += ArenaCount {
		var s Selection
		copy(s[:], flat[i:i+ArenaCount])
		if s.Binary() != 0 {
			out = append(out, s)
		}
	}
	return out, nil
}

// EncodeAmounts 把注金清單編成 base-52 hash，每筆固定 3 個字元，最高位在前。
// 編碼值 = (注金 mod BetAmountMax) + BetAmountMax，未設定（0）視同注金 0。
// 位移保證編碼值非負且 3 字元寬度足夠。
func EncodeAmounts(amounts []int) string {
	var b strings.Builder
	b.Grow(len(amounts) * 3)
	for _, amt := range amounts {
		if amt < 0 {
			amt = 0
		}
		v := amt%BetAmountMax + BetAmountMax
		var chunk [3]byte
		for i := 2; i >= 0; i-- {
			chunk[i] = amountAlphabet[v%52]
			v /= 52
		}
		b.Write(chunk[:])
	}
	return b.String()
}

// DecodeAmounts 還原 base-52 hash 成注金清單。每 3 個字元一筆，
// 值減去 BetAmountMax（低於 0 飽和成 0），低於 BetAmountMin 的結果
// 視為未設定並以 0 表示。字元超出字母表或長度不是 3 的倍數回傳錯誤。
func DecodeAmounts(h string) ([]int, error) {
	if len(h)%3 != 0 {
		return nil, errs.Warnf("invalid amounts hash: length %d not a multiple of 3", len(h))
	}
	out := make([]int, 0, len(h)/3)
	for i := 0; i < len(h); i += 3 {
		v := 0
		for j := 0; j < 3; j++ {
			d := amountIndex(h[i+j])
			if d < 0 {
				return nil, errs.Warnf("invalid amounts hash: byte %q at %d outside alphabet", h[i+j], i+j)
			}
			v = v*52 + d
		}
		v -= BetAmountMax
		if v < BetAmountMin {
			v = 0
		}
		out = append(out, v)
	}
	return out, nil
}

func amountIndex(c byte) int {
	switch {
	case c >= 'a' && c <= 'z':
		return int(c - 'a')
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 26
	default:
		return -1
	}
}
