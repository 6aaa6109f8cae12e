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
	"strconv"
	"strings"

	"github.com/zintix-labs/wagerlab/errs"
)

// DefaultDomain 分享連結的預設站台。
const DefaultDomain = "https://neofood.club"

// ParsedURL 舊式分享連結的解析結果。
// 連結格式：{domain}[/15]/#round=N&pirates=[[..]]&openingOdds=[[..]]&currentOdds=[[..]][&...]
// 片段中的值一律是 JSON；路徑帶 /15/ 代表慈善角（下注上限 15）。
type ParsedURL struct {
	Round         *RoundData
	CharityCorner bool
}

// ParseRoundURL 解析分享連結（整條 URL 或只有 '#' 之後的片段皆可）。
// 解析後會跑 RoundData.Valid。
func ParseRoundURL(raw string) (*ParsedURL, error) {
	frag := raw
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		frag = raw[i+1:]
	}
	if frag == "" {
		return nil, errs.NewWarn("round url: empty fragment")
	}

	rd := &RoundData{}
	for _, pair := range strings.Split(frag, "&") {
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, errs.Warnf("round url: malformed pair %q", pair)
		}
		if err := assignURLField(rd, k, v); err != nil {
			return nil, err
		}
	}
	if err := rd.Valid(); err != nil {
		return nil, errs.Wrap(err, "round url check failed")
	}
	return &ParsedURL{
		Round:         rd,
		CharityCorner: strings.Contains(raw, "/15/"),
	}, nil
}

func assignURLField(rd *RoundData, key, val string) error {
	var err error
	switch key {
	case "round":
		var n uint64
		if n, err = strconv.ParseUint(val, 10, 32); err == nil {
			rd.Round = uint32(n)
		}
	case "pirates":
		err = json.Unmarshal([]byte(val), &rd.Competitors)
	case "openingOdds":
		err = json.Unmarshal([]byte(val), &rd.OpeningOdds)
	case "currentOdds":
		err = json.Unmarshal([]byte(val), &rd.CurrentOdds)
	case "foods":
		err = json.Unmarshal([]byte(val), &rd.Foods)
	case "winners":
		err = json.Unmarshal([]byte(val), &rd.Winners)
	case "timestamp":
		rd.Timestamp = strings.Trim(val, `"`)
	case "start":
		rd.Start = strings.Trim(val, `"`)
	case "lastChange":
		rd.LastChange = strings.Trim(val, `"`)
	default:
		// 未知的 key（例如既有連結帶的 b= / a= 注單）不影響回合資料。
	}
	if err != nil {
		return errs.WrapWithExtra(err, "round url: bad value", key)
	}
	return nil
}

// MakeRoundURL 組出分享連結。betsHash 必填，amountsHash 可為空字串。
func MakeRoundURL(domain string, round uint32, charityCorner bool, betsHash, amountsHash string) string {
	if domain == "" {
		domain = DefaultDomain
	}
	var b strings.Builder
	b.WriteString(domain)
	if charityCorner {
		b.WriteString("/15")
	}
	b.WriteString("/#round=")
	b.WriteString(strconv.FormatUint(uint64(round), 10))
	b.WriteString("&b=")
	b.WriteString(betsHash)
	if amountsHash != "" {
		b.WriteString("&a=")
		b.WriteString(amountsHash)
	}
	return b.String()
}
