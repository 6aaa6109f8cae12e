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

// Package models 提供把開盤賠率轉成 5x5 勝率矩陣的兩種估計模型。
// 矩陣列為競技場、行 1..4 為名次，行 0 固定為佔位值 1.0。
package models

import "github.com/zintix-labs/wagerlab/spec"

// Matrix 5x5 勝率矩陣。
type Matrix = [spec.ArenaCount][spec.CompetitorsPerArena + 1]float64

// OriginalProbabilities 反覆修正法：由開盤賠率推回每名的勝率區間
// （賠率 2 與 13 為盤口的飽和端點，區間特殊處理），取區間中點後
// 再逐級把落於低賠率端的名次往上修正，直到整場勝率和為 1。
func OriginalProbabilities(rd *spec.RoundData) Matrix {
	odds := &rd.OpeningOdds
	var std, lo, hi Matrix
	for a := 0; a < spec.ArenaCount; a++ {
		std[a][0], lo[a][0], hi[a][0] = 1.0, 1.0, 1.0

		loProb, hiProb := 0.0, 0.0
		for p := 1; p <= spec.CompetitorsPerArena; p++ {
			switch o := odds[a][p]; o {
			case 13:
				lo[a][p] = 0.0
				hi[a][p] = 1.0 / 13.0
			case 2:
				lo[a][p] = 1.0 / 3.0
				hi[a][p] = 1.0
			default:
				lo[a][p] = 1.0 / (1.0 + float64(o))
				hi[a][p] = 1.0 / float64(o)
			}
			loProb += lo[a][p]
			hiProb += hi[a][p]
		}

		for p := 1; p <= spec.CompetitorsPerArena; p++ {
			loOrig, hiOrig := lo[a][p], hi[a][p]
			lo[a][p] = max(loOrig, 1.0+hiOrig-hiProb)
			hi[a][p] = min(hiOrig, 1.0+loOrig-loProb)
			if odds[a][p] == 13 {
				std[a][p] = 0.05
			} else {
				std[a][p] = (lo[a][p] + hi[a][p]) / 2.0
			}
		}

		for level := uint32(2); level < 13; level++ {
			rectifyCount := 0.0
			stdTotal := 0.0
			rectifyValue := 0.0
			maxRectifyValue := 1.0

			for p := 1; p <= spec.CompetitorsPerArena; p++ {
				stdTotal += std[a][p]
				if odds[a][p] <= level {
					rectifyCount++
					rectifyValue += std[a][p] - lo[a][p]
					maxRectifyValue = min(maxRectifyValue, hi[a][p]-lo[a][p])
				}
			}
			if stdTotal == 1.0 {
				break
			}
			if stdTotal-rectifyValue > 1.0 ||
				rectifyCount == 0 ||
				maxRectifyValue*rectifyCount < rectifyValue+1.0-stdTotal {
				continue
			}
			rectifyValue += 1.0 - stdTotal
			rectifyValue /= rectifyCount
			for p := 1; p <= spec.CompetitorsPerArena; p++ {
				if odds[a][p] <= level {
					std[a][p] = lo[a][p] + rectifyValue
				}
			}
			break
		}
	}
	return std
}
