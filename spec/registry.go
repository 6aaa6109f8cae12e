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

import (
	"encoding/json"

	"github.com/zintix-labs/wagerlab/errs"
	"gopkg.in/yaml.v3"
)

// GetRoundDataByJSON
// 讀取 JSON 的回合資料並執行基本檢查後回傳
func GetRoundDataByJSON(data []byte) (*RoundData, error) {
	rd := &RoundData{}
	if err := json.Unmarshal(data, rd); err != nil {
		return nil, errs.Wrap(err, "can not unmarshall round json")
	}
	if err := rd.Valid(); err != nil {
		return nil, errs.Wrap(err, "round data check failed")
	}
	return rd, nil
}

// GetRoundDataByYAML
// 讀取 YAML 的回合資料並執行基本檢查後回傳
func GetRoundDataByYAML(data []byte) (*RoundData, error) {
	rd := &RoundData{}
	if err := yaml.Unmarshal(data, rd); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshall round yaml")
	}
	if err := rd.Valid(); err != nil {
		return nil, errs.Wrap(err, "round data check failed")
	}
	return rd, nil
}
