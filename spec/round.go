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

// Package spec 定義一輪賽事的原始資料模型與驗證規則。
// 資料可由 JSON、YAML 或舊式分享連結載入；載入後先 Valid 再交給上層使用。
package spec

import (
	"fmt"

	"github.com/zintix-labs/wagerlab/errs"
)

const (
	// ArenaCount 一輪 5 個競技場。
	ArenaCount = 5
	// CompetitorsPerArena 每場 4 名參賽者。
	CompetitorsPerArena = 4
	// CompetitorIDMax 參賽者編號上限（全聯盟共 20 名）。
	CompetitorIDMax = 20
	// OddsMin 賠率下限（行 0 佔位除外）。
	OddsMin = 2
	// OddsMax 賠率上限。
	OddsMax = 13
	// FoodCount 每場的食物數。
	FoodCount = 10
	// FoodIDMax 食物編號上限。
	FoodIDMax = 40
)

// OddsChange 一次賠率變動的紀錄。
type OddsChange struct {
	Arena int    `json:"arena"            yaml:"arena"`
	Index int    `json:"pirate"           yaml:"pirate"`
	Old   uint32 `json:"old"              yaml:"old"`
	New   uint32 `json:"new"              yaml:"new"`
	T     string `json:"t,omitempty"      yaml:"t,omitempty"`
}

// RoundData 一輪賽事的完整輸入。
// 矩陣皆以列為競技場；賠率矩陣行 0 固定為佔位值 1，行 1..4 為各名次賠率。
type RoundData struct {
	Round        uint32                                       `json:"round"                  yaml:"round"`
	Competitors  [ArenaCount][CompetitorsPerArena]uint8       `json:"pirates"                yaml:"pirates"`
	OpeningOdds  [ArenaCount][CompetitorsPerArena + 1]uint32  `json:"openingOdds"            yaml:"opening_odds"`
	CurrentOdds  [ArenaCount][CompetitorsPerArena + 1]uint32  `json:"currentOdds"            yaml:"current_odds"`
	Foods        *[ArenaCount][FoodCount]uint8                `json:"foods,omitempty"        yaml:"foods,omitempty"`
	Winners      *[ArenaCount]uint8                           `json:"winners,omitempty"      yaml:"winners,omitempty"`
	Start        string                                       `json:"start,omitempty"        yaml:"start,omitempty"`
	Timestamp    string                                       `json:"timestamp,omitempty"    yaml:"timestamp,omitempty"`
	LastChange   string                                       `json:"lastChange,omitempty"   yaml:"last_change,omitempty"`
	Changes      []OddsChange                                 `json:"changes,omitempty"      yaml:"changes,omitempty"`
}

// Valid 執行基本資料檢查，違規以 Warn 等級回報。
func (rd *RoundData) Valid() error {
	if rd.Round == 0 {
		return errs.NewWarn("round data: round number must be positive")
	}
	seen := make(map[uint8]bool, ArenaCount*CompetitorsPerArena)
	for a := 0; a < ArenaCount; a++ {
		for p := 0; p < CompetitorsPerArena; p++ {
			id := rd.Competitors[a][p]
			if id < 1 || id > CompetitorIDMax {
				return errs.Warnf("round data: competitor id %d at arena %d out of range 1..%d", id, a, CompetitorIDMax)
			}
			if seen[id] {
				return errs.Warnf("round data: competitor id %d appears twice", id)
			}
			seen[id] = true
		}
	}
	if err := validOdds("opening odds", &rd.OpeningOdds); err != nil {
		return err
	}
	if err := validOdds("current odds", &rd.CurrentOdds); err != nil {
		return err
	}
	if rd.Foods != nil {
		for a := 0; a < ArenaCount; a++ {
			for i, f := range rd.Foods[a] {
				if f < 1 || f > FoodIDMax {
					return errs.Warnf("round data: food %d at arena %d index %d out of range 1..%d", f, a, i, FoodIDMax)
				}
			}
		}
	}
	if rd.Winners != nil {
		zeros := 0
		for a, w := range rd.Winners {
			if w == 0 {
				zeros++
				continue
			}
			if w > CompetitorsPerArena {
				return errs.Warnf("round data: winner %d at arena %d out of range 0..%d", w, a, CompetitorsPerArena)
			}
		}
		// 要嘛全未開獎（全 0），要嘛全開獎（全 1..4）。
		if zeros != 0 && zeros != ArenaCount {
			return errs.NewWarn("round data: winners must be all zero or all set")
		}
	}
	return nil
}

func validOdds(name string, odds *[ArenaCount][CompetitorsPerArena + 1]uint32) error {
	for a := 0; a < ArenaCount; a++ {
		if odds[a][0] != 1 {
			return errs.Warnf("round data: %s arena %d column 0 must be the placeholder 1, got %d", name, a, odds[a][0])
		}
		for p := 1; p <= CompetitorsPerArena; p++ {
			v := odds[a][p]
			if v < OddsMin || v > OddsMax {
				return errs.Warnf("round data: %s value %d at arena %d position %d out of range %d..%d", name, v, a, p, OddsMin, OddsMax)
			}
		}
	}
	return nil
}

// HasWinners 回傳本輪是否已開獎。
func (rd *RoundData) HasWinners() bool {
	return rd.Winners != nil && rd.Winners[0] != 0
}

// CompetitorArena 依參賽者編號找出（競技場, 名次 1..4）；找不到回傳 (-1, 0)。
func (rd *RoundData) CompetitorArena(id uint8) (arena, position int) {
	for a := 0; a < ArenaCount; a++ {
		for p := 0; p < CompetitorsPerArena; p++ {
			if rd.Competitors[a][p] == id {
				return a, p + 1
			}
		}
	}
	return -1, 0
}

// String 簡短描述，log 用。
func (rd *RoundData) String() string {
	return fmt.Sprintf("round %d (winners set: %t)", rd.Round, rd.HasWinners())
}
