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

package v1

import (
	"encoding/json"
	"net/http"

	"github.com/zintix-labs/wagerlab/server/httperr"
	"github.com/zintix-labs/wagerlab/server/svrcfg"
)

// ChanceRequest 查詢既有注單的獎金分布。
type ChanceRequest struct {
	RoundRequest
	BetsHash    string `json:"bets_hash"`
	AmountsHash string `json:"amounts_hash,omitempty"`
}

type ChanceHandler struct {
	cfg *svrcfg.SvrCfg
}

func NewChanceHandler(sCfg *svrcfg.SvrCfg) *ChanceHandler {
	return &ChanceHandler{cfg: sCfg}
}

// Chance 解析注單 hash，回傳完整報告（分布、摘要與旗標）。
func (c *ChanceHandler) Chance(w http.ResponseWriter, q *http.Request) {
	// 請求方法、結構體校驗
	if q.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	req := new(ChanceRequest)
	if err := json.NewDecoder(q.Body).Decode(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	r, err := req.Build(c.cfg.DefaultBetAmount)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	b, err := r.NewBetsFromHash(req.BetsHash, req.AmountsHash)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	// hash 沒帶注金而回合有基準注金時自動配注。
	if req.AmountsHash == "" && r.BetAmount() > 0 {
		b.FillAmounts()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(r.Report(b)); err != nil {
		httperr.Errs(w, err)
		return
	}
}
