package stats

const (
	maxLutValue int = 2000
	maxValue    int = 10000
)

// SampleBuckets
//
// 用來快速定位樣本值 -> 直方圖位置 O(1)
//
// 請勿修改預設值
//   - 值區間: [<0], [0,1), [1,2), [2,5), ..., [2000,10000), [10000, +inf)
type SampleBuckets struct {
	bounds    []int
	labels    []string
	bucketMap map[int]*SampleBucket
}

// SampleBucket 是特定粒度 (unit) 下的反查表實體。
type SampleBucket struct {
	maxCheckValue int
	lutMaxValue   int
	boundsByUnit  []int
	lut           []int
	justOverIdx   int
	maxIdx        int
	negIdx        int
}

// Buckets
//
// 用來快速定位樣本值 -> 直方圖位置 O(1)
//
// 請勿修改預設值
var Buckets *SampleBuckets = &SampleBuckets{
	bounds:    []int{0, 1, 2, 5, 10, 20, 50, 100, 300, 500, 1000, 2000, 10000},
	labels:    []string{"[<0]", "[0,1)", "[1,2)", "[2,5)", "[5,10)", "[10,20)", "[20,50)", "[50,100)", "[100,300)", "[300,500)", "[500,1000)", "[1000,2000)", "[2000,10000)", "[10000,+inf)"},
	bucketMap: make(map[int]*SampleBucket),
}

// Labels 回傳直方圖標籤；長度即桶數。
func (b *SampleBuckets) Labels() []string {
	return b.labels
}

// GetBucketByUnit 取得粒度 unit 下的反查表，未建立時當場建表並快取。
func (b *SampleBuckets) GetBucketByUnit(unit int) *SampleBucket {
	result, exist := b.bucketMap[unit]
	if !exist {
		result = b.buildBucket(unit)
	}
	return result
}

func (b *SampleBuckets) buildBucket(unit int) *SampleBucket {
	// LUT 只建到 2000 倍粒度
	maxLut := unit * maxLutValue
	maxCheck := unit * maxValue

	// 把「基準邊界」轉成「實際值邊界」
	bounds := make([]int, len(b.bounds))
	for i, v := range b.bounds {
		bounds[i] = unit * v
	}

	// 建立LUT反查表
	lut := make([]int, maxLut) // lut[v] = idx

	// 索引 0 留給負值桶，[0,1) 從 1 開始
	idx := 1
	last := len(bounds) - 1

	lut[0] = 1
	for i := 1; i < maxLut; i++ {
		// 僅在還有更高邊界時才前進 idx，避免越界讀取
		for idx < last && i >= bounds[idx] {
			idx++
		}
		lut[i] = idx
	}

	result := &SampleBucket{
		maxCheckValue: maxCheck,
		lutMaxValue:   maxLut,
		boundsByUnit:  bounds,
		lut:           lut,
		justOverIdx:   len(bounds) - 1,
		maxIdx:        len(bounds),
		negIdx:        0,
	}

	b.bucketMap[unit] = result
	return result
}

// Index 回傳樣本值對應的直方圖索引。
func (sb *SampleBucket) Index(v int) int {
	if v < 0 {
		return sb.negIdx
	}
	if v >= sb.lutMaxValue {
		if v >= sb.maxCheckValue {
			return sb.maxIdx
		}
		return sb.justOverIdx
	}
	return sb.lut[v]
}
