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
	"strconv"

	"github.com/zintix-labs/wagerlab"
	"github.com/zintix-labs/wagerlab/server/httperr"
	"github.com/zintix-labs/wagerlab/server/svrcfg"
	"github.com/zintix-labs/wagerlab/spec"
)

// TableView 一輪的逐場機率視圖，查表 API 的回應本體。
type TableView struct {
	Round  uint32      `json:"round"`
	IsOver bool        `json:"is_over"`
	Arenas []ArenaView `json:"arenas"`
}

type ArenaView struct {
	Name        string           `json:"name"`
	Ratio       float64          `json:"ratio"`
	Positive    bool             `json:"positive"`
	Winner      uint8            `json:"winner,omitempty"`
	Competitors []CompetitorView `json:"competitors"`
}

type CompetitorView struct {
	ID          uint8   `json:"id"`
	Name        string  `json:"name"`
	CurrentOdds uint32  `json:"current_odds"`
	OpeningOdds uint32  `json:"opening_odds"`
	Probability float64 `json:"probability"`
	ER          float64 `json:"er"`
	IsWinner    bool    `json:"is_winner,omitempty"`
}

type TableHandler struct {
	cfg *svrcfg.SvrCfg
}

func NewTableHandler(sCfg *svrcfg.SvrCfg) *TableHandler {
	return &TableHandler{cfg: sCfg}
}

// Table 由回合檔案庫載入回合並回傳逐場視圖。
// query：round=N（省略時取庫中最新一輪）、model=original|logit。
func (c *TableHandler) Table(w http.ResponseWriter, q *http.Request) {
	if q.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if c.cfg.Store == nil {
		http.Error(w, "no round store configured", http.StatusNotFound)
		return
	}

	var (
		rd  *spec.RoundData
		err error
	)
	if raw := q.URL.Query().Get("round"); raw != "" {
		n, perr := strconv.ParseUint(raw, 10, 32)
		if perr != nil {
			http.Error(w, "round must be a positive integer", http.StatusBadRequest)
			return
		}
		rd, err = c.cfg.Store.Load(uint32(n))
	} else {
		rd, err = c.cfg.Store.Latest()
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	rq := RoundRequest{Model: q.URL.Query().Get("model")}
	opts, err := rq.options(0)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	r, err := wagerlab.NewRound(rd, opts)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(tableView(r)); err != nil {
		httperr.Errs(w, err)
		return
	}
}

func tableView(r *wagerlab.Round) *TableView {
	view := &TableView{
		Round:  r.Number(),
		IsOver: r.IsOver(),
		Arenas: make([]ArenaView, 0, spec.ArenaCount),
	}
	for a := range r.Arenas {
		ar := &r.Arenas[a]
		av := ArenaView{
			Name:     ar.Name(),
			Ratio:    ar.Ratio(),
			Positive: ar.IsPositive(),
			Winner:   ar.Winner,
		}
		for i := range ar.Competitors {
			c := &ar.Competitors[i]
			p := r.Probs[a][i+1]
			av.Competitors = append(av.Competitors, CompetitorView{
				ID:          c.ID,
				Name:        c.Name(),
				CurrentOdds: c.CurrentOdds,
				OpeningOdds: c.OpeningOdds,
				Probability: p,
				ER:          p * float64(c.CurrentOdds),
				IsWinner:    c.IsWinner,
			})
		}
		view.Arenas = append(view.Arenas, av)
	}
	return view
}
