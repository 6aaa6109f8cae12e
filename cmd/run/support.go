package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"log"
	"math"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/zintix-labs/wagerlab"
	"github.com/zintix-labs/wagerlab/roundfile"
	"github.com/zintix-labs/wagerlab/spec"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	file      string
	url       string
	strategy  string
	binary    uint32
	units     uint
	amount    int
	model     string
	opening   bool
	reverse   bool
	charity   bool
	general   bool
	betsHash  string
	amtsHash  string
	format    string
	trials    int
	worker    int
	seed      int64
	saveDir   string
	pprofmode string
}

type binFlag struct{ p *uint32 }

func (f binFlag) String() string { return fmt.Sprintf("0x%05X", *f.p) }
func (f binFlag) Set(s string) error {
	u, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return err
	}
	*f.p = uint32(u)
	return nil
}

func bindVar() {
	// 綁定 Flag 到本地變數的指標 (&)
	flag.StringVar(&cfg.file, "file", "", "round data file (.json / .yaml)")
	flag.StringVar(&cfg.url, "url", "", "round url, a trailing bets hash is kept")
	flag.StringVar(&cfg.strategy, "strategy", "maxter", "maxter|bustproof|gambit|best-gambit|winning-gambit|random-gambit|tenbet|crazy|random|units|all")
	flag.Var(binFlag{&cfg.binary}, "binary", "20-bit mask for gambit / tenbet, hex accepted")
	flag.UintVar(&cfg.units, "units", 0, "minimum win units for the units strategy")
	flag.IntVar(&cfg.amount, "amount", 0, "base bet amount, 0 leaves stakes unset")
	flag.StringVar(&cfg.model, "model", "original", "probability model: original|logit")
	flag.BoolVar(&cfg.opening, "opening", false, "price with opening odds instead of current odds")
	flag.BoolVar(&cfg.reverse, "reverse", false, "reverse the max-TER ordering")
	flag.BoolVar(&cfg.charity, "charity", false, "charity corner round, bet cap 15")
	flag.BoolVar(&cfg.general, "general", false, "general mode, rank by expected return only")
	flag.StringVar(&cfg.betsHash, "bets", "", "bets hash, overrides -strategy")
	flag.StringVar(&cfg.amtsHash, "amounts", "", "amounts hash, pairs with -bets")
	flag.StringVar(&cfg.format, "o", "text", "output: text|json|yaml")
	flag.IntVar(&cfg.trials, "trials", 0, "Monte Carlo trials verifying the distribution, 0 skips")
	flag.IntVar(&cfg.worker, "worker", 1, "number of workers for -trials")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed for random number generator")
	flag.StringVar(&cfg.saveDir, "save", "", "archive the round into this directory")
	flag.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs")

	flag.Parse()

	// given seed illeagel -> default seed
	if cfg.seed < 1 {
		seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
		if err != nil {
			log.Fatal(err)
		}
		cfg.seed = seed.Int64()
	}
}

// 這裡解析並分支要執行的策略
func executeReport() {
	cfg.valid() // 基本檢查

	r, err := loadRound()
	if err != nil {
		log.Fatal(err)
	}
	b, err := makeBets(r)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.amount > 0 && !b.HasAmounts() {
		b.FillAmounts()
	}
	// 至此確保可執行
	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)
	p.Printf("%s[ROUND:%d] [STRATEGY:%s] [BETS:%d]%s\n", green, r.Number(), cfg.strategy, b.Len(), reset)

	if err := cfg.render().Write(os.Stdout, r.Report(b)); err != nil {
		log.Fatal(err)
	}

	if cfg.trials > 0 {
		verify(r, b, p)
	}

	if cfg.saveDir != "" {
		store, err := roundfile.NewStore(cfg.saveDir)
		if err != nil {
			log.Fatal(err)
		}
		if err := store.Save(r.Data); err != nil {
			log.Fatal(err)
		}
		p.Printf("round %d archived to %s\n", r.Number(), store.Path(r.Number()))
	}
}

func loadRound() (*wagerlab.Round, error) {
	opts, err := cfg.options()
	if err != nil {
		return nil, err
	}
	switch {
	case cfg.file != "":
		data, err := os.ReadFile(cfg.file)
		if err != nil {
			return nil, err
		}
		if strings.HasSuffix(cfg.file, ".yaml") || strings.HasSuffix(cfg.file, ".yml") {
			return wagerlab.FromYAML(data, opts)
		}
		return wagerlab.FromJSON(data, opts)
	case cfg.url != "":
		return wagerlab.FromURL(cfg.url, opts)
	}
	return nil, fmt.Errorf("need -file or -url to locate a round")
}

func (cfg *config) options() (wagerlab.Options, error) {
	opts := wagerlab.Options{BetAmount: cfg.amount}
	switch cfg.model {
	case "", "original":
		opts.Model = wagerlab.ModelOriginal
	case "logit":
		opts.Model = wagerlab.ModelLogit
	default:
		return opts, fmt.Errorf("unknown model %q", cfg.model)
	}
	var flags spec.ModifierFlag
	if cfg.opening {
		flags |= spec.ModifierOpeningOdds
	}
	if cfg.reverse {
		flags |= spec.ModifierReverse
	}
	if cfg.charity {
		flags |= spec.ModifierCharityCorner
	}
	if cfg.general {
		flags |= spec.ModifierGeneral
	}
	if flags != 0 {
		opts.Modifier = &spec.Modifier{Flags: flags}
	}
	return opts, nil
}

func makeBets(r *wagerlab.Round) (*wagerlab.Bets, error) {
	if cfg.betsHash != "" {
		return r.NewBetsFromHash(cfg.betsHash, cfg.amtsHash)
	}
	switch cfg.strategy {
	case "", "maxter":
		return r.MakeMaxTERBets()
	case "bustproof":
		return r.MakeBustproofBets()
	case "gambit":
		return r.MakeGambitBets(cfg.binary)
	case "best-gambit":
		return r.MakeBestGambitBets()
	case "winning-gambit":
		return r.MakeWinningGambitBets()
	case "random-gambit":
		return r.MakeRandomGambitBets()
	case "tenbet":
		return r.MakeTenbetBets(cfg.binary)
	case "crazy":
		return r.MakeCrazyBets()
	case "random":
		return r.MakeRandomBets()
	case "units":
		return r.MakeUnitsBets(uint32(cfg.units))
	case "all":
		return r.MakeAllBets()
	}
	return nil, fmt.Errorf("unknown strategy %q", cfg.strategy)
}

func (cfg *config) render() wagerlab.BetReportRender {
	switch cfg.format {
	case "json":
		return new(wagerlab.JsonBetReportRender)
	case "yaml":
		return new(wagerlab.YAMLBetReportRender)
	default:
		return new(wagerlab.TextBetReportRender)
	}
}

// verify 抽樣開獎，把實測頻率對回理論分布逐階層比對。
func verify(r *wagerlab.Round, b *wagerlab.Bets, p *message.Printer) {
	v, err := wagerlab.NewVerifierWithSeed(r, b, uint64(cfg.seed))
	if err != nil {
		log.Fatal(err)
	}
	rep, err := v.VerifyMP(cfg.trials, cfg.worker, true)
	if err != nil {
		log.Fatal(err)
	}
	p.Printf("[TRIALS:%d] [WORKERS:%d] [SEED:%d] [USED:%v]\n", rep.Trials, cfg.worker, cfg.seed, rep.Used)
	for _, row := range rep.Rows {
		mark := "ok"
		if !row.InBounds {
			mark = "OUT"
		}
		p.Printf("  value %d  expected %.6f  observed %.6f  [%.6f, %.6f]  %s\n",
			row.Value, row.Expected, row.Observed, row.Lo, row.Hi, mark)
	}
	p.Printf("mean ER %.6f  pass %v\n", rep.MeanER, rep.Pass)
}

func (cfg *config) valid() {
	// 工作協程檢查(併發數)
	if cfg.worker < 1 {
		log.Fatal("value err : workers must > 0")
	}
	if cfg.amount < 0 {
		log.Fatal("value err : amount must >= 0")
	}
	if cfg.trials < 0 {
		log.Fatal("value err : trials must >= 0")
	}
}
