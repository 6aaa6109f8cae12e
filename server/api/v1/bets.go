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

	"github.com/zintix-labs/wagerlab"
	"github.com/zintix-labs/wagerlab/errs"
	"github.com/zintix-labs/wagerlab/server/httperr"
	"github.com/zintix-labs/wagerlab/server/svrcfg"
)

// BetsRequest 以策略造注。
type BetsRequest struct {
	RoundRequest
	// Strategy 造注策略：maxter / bustproof / gambit / best-gambit /
	// winning-gambit / random-gambit / tenbet / crazy / random / units / all。
	Strategy string `json:"strategy"`
	// Binary gambit 的五場全選遮罩，或 tenbet 的鎖定遮罩。
	Binary uint32 `json:"binary,omitempty"`
	// Units units 策略的最低聯合賠率。
	Units uint32 `json:"units,omitempty"`
}

type BetsHandler struct {
	cfg *svrcfg.SvrCfg
}

func NewBetsHandler(sCfg *svrcfg.SvrCfg) *BetsHandler {
	return &BetsHandler{cfg: sCfg}
}

// Bets 依策略造注並回傳完整報告。
func (c *BetsHandler) Bets(w http.ResponseWriter, q *http.Request) {
	// 請求方法、結構體校驗
	if q.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	req := new(BetsRequest)
	if err := json.NewDecoder(q.Body).Decode(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	r, err := req.Build(c.cfg.DefaultBetAmount)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	b, err := makeBets(r, req)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	// 回合有基準注金而策略沒配注時自動配注。
	if r.BetAmount() > 0 && !b.HasAmounts() {
		b.FillAmounts()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(r.Report(b)); err != nil {
		httperr.Errs(w, err)
		return
	}
}

func makeBets(r *wagerlab.Round, req *BetsRequest) (*wagerlab.Bets, error) {
	switch req.Strategy {
	case "", "maxter":
		return r.MakeMaxTERBets()
	case "bustproof":
		return r.MakeBustproofBets()
	case "gambit":
		return r.MakeGambitBets(req.Binary)
	case "best-gambit":
		return r.MakeBestGambitBets()
	case "winning-gambit":
		return r.MakeWinningGambitBets()
	case "random-gambit":
		return r.MakeRandomGambitBets()
	case "tenbet":
		return r.MakeTenbetBets(req.Binary)
	case "crazy":
		return r.MakeCrazyBets()
	case "random":
		return r.MakeRandomBets()
	case "units":
		return r.MakeUnitsBets(req.Units)
	case "all":
		return r.MakeAllBets()
	default:
		return nil, errs.Warnf("unknown strategy %q", req.Strategy)
	}
}
