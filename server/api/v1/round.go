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

// Package v1 提供下注引擎的對外 API：
// 回合一律由請求本體帶進來（JSON 或分享連結），計算無狀態、可水平擴展。
package v1

import (
	"encoding/json"

	"github.com/zintix-labs/wagerlab"
	"github.com/zintix-labs/wagerlab/errs"
	"github.com/zintix-labs/wagerlab/spec"
)

// RoundRequest 請求共通的回合描述。Round 與 URL 擇一，Round 優先。
type RoundRequest struct {
	Round          json.RawMessage  `json:"round,omitempty"`
	URL            string           `json:"url,omitempty"`
	Model          string           `json:"model,omitempty"`
	BetAmount      int              `json:"bet_amount,omitempty"`
	UseOpeningOdds bool             `json:"use_opening_odds,omitempty"`
	CharityCorner  bool             `json:"charity_corner,omitempty"`
	Reverse        bool             `json:"reverse,omitempty"`
	General        bool             `json:"general,omitempty"`
	CustomOdds     map[uint8]uint32 `json:"custom_odds,omitempty"`
}

func (rq *RoundRequest) options(defaultAmount int) (wagerlab.Options, error) {
	opts := wagerlab.Options{BetAmount: rq.BetAmount}
	if opts.BetAmount == 0 {
		opts.BetAmount = defaultAmount
	}

	switch rq.Model {
	case "", "original":
		opts.Model = wagerlab.ModelOriginal
	case "logit":
		opts.Model = wagerlab.ModelLogit
	default:
		return opts, errs.Warnf("unknown model %q", rq.Model)
	}

	m := &spec.Modifier{CustomOdds: rq.CustomOdds}
	if rq.UseOpeningOdds {
		m.Flags |= spec.ModifierOpeningOdds
	}
	if rq.CharityCorner {
		m.Flags |= spec.ModifierCharityCorner
	}
	if rq.Reverse {
		m.Flags |= spec.ModifierReverse
	}
	if rq.General {
		m.Flags |= spec.ModifierGeneral
	}
	if m.Flags != 0 || len(m.CustomOdds) > 0 {
		opts.Modifier = m
	}
	return opts, nil
}

// Build 組裝回合；Round 與 URL 都沒帶時回傳 Warn 級錯誤。
func (rq *RoundRequest) Build(defaultAmount int) (*wagerlab.Round, error) {
	opts, err := rq.options(defaultAmount)
	if err != nil {
		return nil, err
	}
	if len(rq.Round) > 0 {
		return wagerlab.FromJSON(rq.Round, opts)
	}
	if rq.URL != "" {
		return wagerlab.FromURL(rq.URL, opts)
	}
	return nil, errs.NewWarn("request carries neither a round nor a url")
}
