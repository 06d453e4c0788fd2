package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"log"
	"math"
	"math/big"
	"strconv"

	"github.com/zintix-labs/randlab"
	"github.com/zintix-labs/randlab/demo/demo_configs"
	"github.com/zintix-labs/randlab/spec"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	name        string
	id          spec.SID
	worker      int
	runs        int
	draws       int
	samplerMode int
	seed        int64
	pprofmode   string
}

type sidFlag struct{ p *spec.SID }

func (f sidFlag) String() string { return fmt.Sprint(uint32(*f.p)) }
func (f sidFlag) Set(s string) error {
	u, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return err
	}
	*f.p = spec.SID(u)
	return nil
}

func bindVar() {
	// 綁定 Flag 到本地變數的指標 (&)
	flag.Var(sidFlag{&cfg.id}, "suite", "target suite id")
	flag.IntVar(&cfg.worker, "worker", 1, "number of workers")
	flag.IntVar(&cfg.runs, "runs", 1, "number of independent runs")
	flag.IntVar(&cfg.draws, "draws", 10000000, "draws per worker (or per run)")
	flag.IntVar(&cfg.samplerMode, "mode", 0, "sampler mode index")
	flag.Int64Var(&cfg.seed, "seed", -1, "seed for the bit generator (negative = auto)")
	flag.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs")

	flag.Parse()

	// given seed illeagel -> default seed
	if cfg.seed < 0 {
		seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxUint32))
		if err != nil {
			log.Fatal(err)
		}
		cfg.seed = seed.Int64()
	}
}

// 這裡解析並分支要執行的模擬器
func executeSimulator() {
	cfg.valid() // 基本檢查

	lab, err := randlab.NewAuto(
		randlab.Configs(demo_configs.FS),
		randlab.Factories(randlab.BuiltinFactories()),
	)
	if err != nil {
		log.Fatal(err)
	}
	s, err := lab.NewSimulatorWithSeed(cfg.id, uint32(cfg.seed))
	if err != nil {
		log.Fatal(err)
	}
	ent, _ := lab.EntryById(cfg.id)
	cfg.name = ent.Name
	// 至此確保可執行
	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)

	if cfg.runs == 1 { // 單一取樣歷程
		if cfg.worker == 1 { // 單線程
			p.Printf("%s[SUITE:%s] [MODE:%d] [DRAWS:%d]%s\n", green, cfg.name, cfg.samplerMode, cfg.draws, reset)
			st, used, _ := s.Sim(cfg.samplerMode, cfg.draws, true)
			st.StdOut(used)
		} else {
			p.Printf("%s[WORKERS:%d] [SUITE:%s] [MODE:%d] [DRAWS:%d]%s\n", green, cfg.worker, cfg.name, cfg.samplerMode, cfg.worker*cfg.draws, reset)
			st, used, _ := s.SimMP(cfg.samplerMode, cfg.draws, cfg.worker, true) // 併發
			st.StdOut(used)
		}
	} else { // 多獨立 run 彙整
		p.Printf("%s[WORKERS:%d] [SUITE:%s] [RUNS:%d MODE:%d DRAWS:%d]%s\n", green, cfg.worker, cfg.name, cfg.runs, cfg.samplerMode, cfg.draws, reset)
		st, est, used, _ := s.SimRuns(cfg.samplerMode, cfg.draws, cfg.runs, cfg.worker, true)
		st.StdOut(used)
		est.Out()
	}
}

func (cfg *config) valid() {
	p := message.NewPrinter(language.English)

	// 工作協程檢查(併發數)
	if cfg.worker < 1 {
		log.Fatal("value err : workers must > 0")
	}

	// run 檢查
	if cfg.runs < 1 {
		log.Fatal("value err : runs must > 0")
	}
	// run 數量太多 resize
	if cfg.runs > 100000 {
		p.Printf("too much runs: %d resized to 100k runs\n", cfg.runs)
		cfg.runs = 100000
	}

	// 轉數檢查
	if cfg.draws < 1 {
		log.Fatal("value err : draws must > 0")
	}

	// 多 run 模式下單 run 的 draws 上限（run 彙整關心的是 run 間分布，單 run 不需要太長）
	if cfg.runs > 1 && cfg.draws > 1000000 {
		p.Printf("too much draws for each run : %d resized to 1m draws per run\n", cfg.draws)
		cfg.draws = 1000000
	}
}
