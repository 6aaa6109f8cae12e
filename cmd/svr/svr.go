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

package main

import (
	"flag"
	"fmt"

	"github.com/zintix-labs/wagerlab/roundfile"
	"github.com/zintix-labs/wagerlab/server"
	"github.com/zintix-labs/wagerlab/server/logger"
	"github.com/zintix-labs/wagerlab/server/netsvr"
	"github.com/zintix-labs/wagerlab/server/svrcfg"
)

// 估價服務的入口：/v1/chance、/v1/bets 走請求內帶入的回合資料，
// /v1/table 則需要 -store 指向回合檔案庫。
func main() {
	cfg, svr, err := loadConfigFromFlags()
	if err != nil {
		fmt.Println(err)
		return
	}
	if svr != nil {
		server.RunWithSvr(cfg, svr)
		return
	}
	server.Run(cfg)
}

type config struct {
	Addr     string
	LogMode  string
	StoreDir string
	Amount   int
}

func loadConfigFromFlags() (*svrcfg.SvrCfg, netsvr.NetSvr, error) {
	cfg := new(config)
	flag.StringVar(&cfg.Addr, "addr", "", "listen address, empty for the default :5808")
	flag.StringVar(&cfg.LogMode, "log-mode", "ModeDev", "log mode: ModeDev|ModeProd|ModeSilence")
	flag.StringVar(&cfg.StoreDir, "store", "", "round archive directory, empty disables /v1/table")
	flag.IntVar(&cfg.Amount, "amount", 0, "default bet amount when a request omits one, 0 leaves stakes unset")

	flag.Parse()

	log, _ := logger.NewAsync(4096, cfg.norm())

	sCfg := &svrcfg.SvrCfg{
		Log:              log,
		DefaultBetAmount: cfg.Amount,
	}
	if cfg.StoreDir != "" {
		store, err := roundfile.NewStore(cfg.StoreDir)
		if err != nil {
			return nil, nil, err
		}
		sCfg.Store = store
	}

	var svr netsvr.NetSvr
	if cfg.Addr != "" {
		svr = netsvr.NewChiServer(cfg.Addr)
	}
	return sCfg, svr, nil
}

func (cfg *config) norm() logger.LogMode {
	switch cfg.LogMode {
	case "ModeDev":
		return logger.ModeDev
	case "ModeProd":
		return logger.ModeProd
	case "ModeSilence":
		return logger.ModeSilence
	default:
		return logger.ModeDev
	}
}
