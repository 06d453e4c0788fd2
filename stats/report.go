package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat/distuv"
)

var lang language.Tag = language.English

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo"`
	Hi float64 `json:"Hi"`
}

// DrawReport 取樣run統計報告
type DrawReport struct {
	Summary *SummaryReport `json:"Summary"`
	Moment  *MomentReport  `json:"Moment"`
	Hist    *HistReport    `json:"Hist"`
	isDone  bool
}

type SummaryReport struct {
	Algo     string  `json:"Algo"`
	Sampler  string  `json:"Sampler,omitzero"`
	Seed     uint32  `json:"Seed"`
	Draws    int     `json:"Draws"`
	Mean     float64 `json:"Mean"`
	MeanCI   CI      `json:"MeanCI"`
	Std      float64 `json:"Std"`
	Cv       float64 `json:"Cv"`
	Min      float64 `json:"Min"`
	Max      float64 `json:"Max"`
	ZeroRate float64 `json:"ZeroRate"`
}

// MomentReport 理論動差對照
//
// 紀錄時不計算，避免熱路徑成本。紀錄完成後Done()會將結果整理填入
type MomentReport struct {
	Sum        float64 `json:"Sum"`
	SqSum      float64 `json:"SqSum"` // 平方和
	TheoryMean float64 `json:"TheoryMean"`
	TheoryVar  float64 `json:"TheoryVar"`
	MeanErr    float64 `json:"MeanErr"`
	VarErr     float64 `json:"VarErr"`
}

// HistReport 樣本值區間落點統計
type HistReport struct {
	Bucket  []string  `json:"Bucket"`
	Collect []int     `json:"Collect"`
	Freq    []float64 `json:"Freq"`
}

// ============================================================
// ** 公開方法 **
// ============================================================

// Done 將累積計數轉換為最終統計結果並鎖定 isDone 標記。
//
// 所有取樣過程因為性能原因只累積和與平方和，所以統計完成後
//
// 請使用 Done 來通知報告統計已經完成，可以一次性計算統計結果
func (r *DrawReport) Done() {
	if r.isDone {
		return
	}
	// Summary
	r.Summary.Mean = r.Mean()
	r.Summary.Std = r.Std()
	r.Summary.Cv = r.Cv()
	r.Summary.MeanCI = r.MeanCi()

	// Moment
	if !math.IsNaN(r.Moment.TheoryMean) {
		r.Moment.MeanErr = r.Summary.Mean - r.Moment.TheoryMean
	}
	if !math.IsNaN(r.Moment.TheoryVar) {
		r.Moment.VarErr = r.Std()*r.Std() - r.Moment.TheoryVar
	}

	// Hist
	if n := float64(r.Summary.Draws); n > 0 {
		r.Hist.Freq = make([]float64, len(r.Hist.Collect))
		for i, c := range r.Hist.Collect {
			r.Hist.Freq[i] = float64(c) / n
		}
		r.Summary.ZeroRate = float64(r.Hist.Collect[1]) / n
	}

	r.isDone = true
}

// Mean 回傳樣本平均
func (r *DrawReport) Mean() float64 {
	if r.Summary.Draws == 0 {
		return 0
	}
	return r.Moment.Sum / float64(r.Summary.Draws)
}

// Std 回傳樣本標準差
func (r *DrawReport) Std() float64 {
	if r.Summary.Draws < 2 {
		return 0
	}
	n := float64(r.Summary.Draws)

	variance := (r.Moment.SqSum - r.Moment.Sum*r.Moment.Sum/n) / (n - 1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// Cv 回傳變異係數
func (r *DrawReport) Cv() float64 {
	mean := r.Mean()
	std := r.Std()
	if mean == 0 {
		return 0
	}
	return std / math.Abs(mean)
}

// MeanCi 回傳(95%)樣本平均信賴區間
func (r *DrawReport) MeanCi() CI {
	mean := r.Mean()
	std := r.Std()
	se := float64(0)
	if r.Summary.Draws > 1 {
		se = std / math.Sqrt(float64(r.Summary.Draws))
	}
	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(0.975)
	return CI{
		Lo: mean - z*se,
		Hi: mean + z*se,
	}
}

func (r *DrawReport) WriteWith(w io.Writer, rep DrawReportRender) error {
	r.Done()
	return rep.Write(w, r)
}

func (r *DrawReport) StdOut(ut time.Duration) {
	formatDuration(ut, r.Summary.Draws)
	sk, sm := r.fmtBasic()
	str := fmtTable(r.title(), sk, sm)
	fmt.Println(str)
}

// ============================================================
// ** 內部方法 **
// ============================================================

func (r *DrawReport) title() string {
	if r.Summary.Sampler == "" {
		return r.Summary.Algo
	}
	return r.Summary.Algo + " / " + r.Summary.Sampler
}

func formatDuration(d time.Duration, draws int) {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	dps := int(float64(draws) / sec)
	if sec < 60.0 {
		p.Printf("used: %.2f seconds\ndps : %d draws/sec\n", sec, dps)
		return
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		s = s % 60
		p.Printf("used: %dm %ds\ndps : %d draws/sec\n", m, s, dps)
		return
	}
	p.Printf("used: %dh:%dm:%ds\ndps : %d draws/sec\n", h, m, s, dps)
}

// StdOut

func (r *DrawReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	basic := map[string]string{
		"Algorithm":   p.Sprintf("%s", r.Summary.Algo),
		"Seed":        fmt.Sprintf("%d", r.Summary.Seed),
		"Total Draws": p.Sprintf("%d", r.Summary.Draws),
		"Mean":        p.Sprintf("%.4f", r.Summary.Mean),
		"Mean 95% CI": p.Sprintf("[%.4f,%.4f]", r.Summary.MeanCI.Lo, r.Summary.MeanCI.Hi),
		"STD":         p.Sprintf("%.4f", r.Summary.Std),
		"CV":          p.Sprintf("%.3f", r.Summary.Cv),
		"Min":         p.Sprintf("%.4f", r.Summary.Min),
		"Max":         p.Sprintf("%.4f", r.Summary.Max),
		"Zero Rate":   p.Sprintf("%.2f %%", 100.0*r.Summary.ZeroRate),
	}
	keys := []string{"Algorithm", "Seed", "Total Draws", "Mean", "Mean 95% CI", "STD", "CV", "Min", "Max", "Zero Rate"}
	if r.Summary.Sampler != "" {
		basic["Sampler"] = p.Sprintf("%s", r.Summary.Sampler)
		keys = append([]string{"Sampler"}, keys...)
	}
	return keys, basic
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	fmtStr := top
	fmtStr += p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right))
	fmtStr += divider
	for _, k := range keys {
		fmtStr += p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k])))
	}
	fmtStr += divider

	return fmtStr
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
