package merge

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dengyintao/ProcessExcelData/internal/apperr"
	"github.com/dengyintao/ProcessExcelData/internal/model"
)

func dataset(columns []string, rows ...[]model.Value) *model.Dataset {
	return &model.Dataset{Columns: columns, Rows: rows}
}

func num(f float64) model.Value { return model.NumberValue(f) }
func str(s string) model.Value  { return model.StringValue(s) }

func texts(ds *model.Dataset, col int) []string {
	out := make([]string, 0, ds.Len())
	for r := range ds.Rows {
		out = append(out, ds.Cell(r, col).String())
	}
	return out
}

func TestMergeEndToEndScenario(t *testing.T) {
	ds1 := dataset([]string{"id", "name"},
		[]model.Value{num(1), str("a")},
		[]model.Value{num(2), str("b")},
		[]model.Value{num(3), str("c")},
		[]model.Value{num(4), str("d")},
		[]model.Value{num(5), str("e")},
	)
	ds2 := dataset([]string{"code", "remark"},
		[]model.Value{num(2), str("x")},
		[]model.Value{num(3), str("y")},
		[]model.Value{num(3), str("z")},
	)

	res, err := Merge(ds1, ds2, "id", "code")
	require.NoError(t, err)

	assert.Equal(t, 5, res.OriginalCount)
	assert.Equal(t, 3, res.MatchedCount)
	assert.Equal(t, 2, res.FilteredOutCount)
	assert.Equal(t, 3, res.DroppedRows)
	assert.Equal(t, []string{"id", "name", "code"}, res.Output.Columns)
	assert.Equal(t, []string{"2", "3", "3"}, texts(res.Output, 0))
	assert.Equal(t, []string{"b", "c", "c"}, texts(res.Output, 1))
}

func TestMergeFanOutFollowsDataset2Order(t *testing.T) {
	ds1 := dataset([]string{"key", "v"},
		[]model.Value{str("B"), str("first")},
		[]model.Value{str("A"), str("second")},
	)
	ds2 := dataset([]string{"k2", "note"},
		[]model.Value{str("A"), str("a1")},
		[]model.Value{str("B"), str("b1")},
		[]model.Value{str("A "), str("a2")},
	)

	res, err := Merge(ds1, ds2, "key", "k2")
	require.NoError(t, err)

	// 输出顺序跟随 ds1；A 展开为两行
	require.Equal(t, 3, res.MatchedCount)
	assert.Equal(t, []string{"first", "second", "second"}, texts(res.Output, 1))
	assert.Equal(t, []string{"B", "A", "A "}, texts(res.Output, 2))
	assert.Equal(t, -1, res.FilteredOutCount)
	assert.Equal(t, 0, res.DroppedRows)
}

func TestMergeMissingField(t *testing.T) {
	ds1 := dataset([]string{"id"}, []model.Value{num(1)})
	ds2 := dataset([]string{"code"}, []model.Value{num(1)})

	_, err := Merge(ds1, ds2, "社保号", "code")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrMissingField))
	var mf *apperr.MissingFieldError
	require.True(t, errors.As(err, &mf))
	assert.Equal(t, 1, mf.Dataset)
	assert.Equal(t, "社保号", mf.Field)

	_, err = Merge(ds1, ds2, "id", "医保号")
	require.True(t, errors.As(err, &mf))
	assert.Equal(t, 2, mf.Dataset)
	assert.Equal(t, "医保号", mf.Field)
}

func TestMergeSameKeyNameIsCoalesced(t *testing.T) {
	ds1 := dataset([]string{"社保号", "姓名"}, []model.Value{str("1001"), str("张三")})
	ds2 := dataset([]string{"社保号"}, []model.Value{num(1001)})

	res, err := Merge(ds1, ds2, "社保号", "社保号")
	require.NoError(t, err)
	assert.Equal(t, []string{"社保号", "姓名"}, res.Output.Columns)
	require.Equal(t, 1, res.Output.Len())
	assert.Equal(t, "1001", res.Output.Rows[0][0].Text)
}

func TestMergeKeyNameCollisionGetsSuffix(t *testing.T) {
	ds1 := dataset([]string{"id", "code"}, []model.Value{num(1), str("own")})
	ds2 := dataset([]string{"code"}, []model.Value{str("1")})

	res, err := Merge(ds1, ds2, "id", "code")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "code", "code_y"}, res.Output.Columns)
	assert.Equal(t, "own", res.Output.Rows[0][1].Text)
	assert.Equal(t, "1", res.Output.Rows[0][2].Text)
}

func TestMergeEmptyKeysNeverMatch(t *testing.T) {
	ds1 := dataset([]string{"id", "v"},
		[]model.Value{model.EmptyValue(), str("blank")},
		[]model.Value{str("  "), str("spaces")},
	)
	ds2 := dataset([]string{"id"}, []model.Value{model.EmptyValue()}, []model.Value{str("")})

	res, err := Merge(ds1, ds2, "id", "id")
	require.NoError(t, err)
	assert.Equal(t, 0, res.MatchedCount)
	assert.Equal(t, 2, res.FilteredOutCount)
}

func TestCanonicalKey(t *testing.T) {
	cases := []struct {
		name string
		in   model.Value
		want string
	}{
		{"number", num(2), "2"},
		{"float text", str("2.0"), "2"},
		{"padded text", str(" 2 "), "2"},
		{"full width", str("２"), "2"},
		{"ideographic space", str("　A01　"), "A01"},
		{"leading zero kept", str("007"), "007"},
		{"exponent", str("1e3"), "1000"},
		{"long id", str("110101199001011234"), "110101199001011234"},
		{"id with letter", str("11010119900101123X"), "11010119900101123X"},
		{"negative", num(-1.5), "-1.5"},
		{"empty", model.EmptyValue(), ""},
		{"bool", model.BoolValue(true), "TRUE"},
		{"date", model.DateValue(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)), "2024-01-02"},
		{"case kept", str("abc"), "abc"},
		{"bare fraction", str(".5"), "0.5"},
		{"negative bare fraction", str("-.5"), "-0.5"},
		{"trailing point", str("2."), "2"},
		{"lone point", str("."), "."},
		{"nan", num(math.NaN()), "NaN"},
		{"infinity", num(math.Inf(1)), "+Inf"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanonicalKey(tc.in))
		})
	}
}

func TestMergeNumericAndTextKeysMatch(t *testing.T) {
	ds1 := dataset([]string{"id"}, []model.Value{num(42)}, []model.Value{str("0042")})
	ds2 := dataset([]string{"id"}, []model.Value{str("42.0")})

	res, err := Merge(ds1, ds2, "id", "id")
	require.NoError(t, err)
	require.Equal(t, 1, res.MatchedCount)
	assert.Equal(t, float64(42), res.Output.Rows[0][0].Number)
}

func TestMergeBareFractionMatchesNumber(t *testing.T) {
	ds1 := dataset([]string{"rate"}, []model.Value{num(0.5)}, []model.Value{num(2)})
	ds2 := dataset([]string{"rate"}, []model.Value{str(".5")}, []model.Value{str("2.")})

	res, err := Merge(ds1, ds2, "rate", "rate")
	require.NoError(t, err)
	assert.Equal(t, 2, res.MatchedCount)
}

func TestMergeNonFiniteNumbersDoNotPanic(t *testing.T) {
	ds1 := dataset([]string{"id", "v"},
		[]model.Value{num(math.NaN()), str("nan")},
		[]model.Value{num(math.Inf(-1)), str("inf")},
		[]model.Value{num(1), str("one")},
	)
	ds2 := dataset([]string{"code"}, []model.Value{num(math.NaN())}, []model.Value{num(1)})

	var res *model.MergeResult
	require.NotPanics(t, func() {
		var err error
		res, err = Merge(ds1, ds2, "id", "code")
		require.NoError(t, err)
	})
	assert.Equal(t, 3, res.OriginalCount)
	assert.Equal(t, []string{"nan", "one"}, texts(res.Output, 1))
}

// TestMergeInvariants 随机数据上检查计数与连接正确性
func TestMergeInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for iter := 0; iter < 200; iter++ {
		ds1 := &model.Dataset{Columns: []string{"k", "row"}}
		for i := 0; i < rng.Intn(20); i++ {
			ds1.Rows = append(ds1.Rows, []model.Value{randomKey(rng), num(float64(i))})
		}
		ds2 := &model.Dataset{Columns: []string{"k2"}}
		for i := 0; i < rng.Intn(20); i++ {
			ds2.Rows = append(ds2.Rows, []model.Value{randomKey(rng)})
		}

		res, err := Merge(ds1, ds2, "k", "k2")
		require.NoError(t, err)

		require.Equal(t, ds1.Len(), res.OriginalCount)
		require.Equal(t, res.Output.Len(), res.MatchedCount)
		require.Equal(t, res.OriginalCount-res.MatchedCount, res.FilteredOutCount)
		require.GreaterOrEqual(t, res.MatchedCount, 0)
		require.GreaterOrEqual(t, res.DroppedRows, 0)

		keys2 := map[string]int{}
		for r := range ds2.Rows {
			if k := CanonicalKey(ds2.Cell(r, 0)); k != "" {
				keys2[k]++
			}
		}

		// 每个输出行的键都能在 ds2 找到；每个 ds1 行恰好产生 ds2 中同键行数个输出
		expected := 0
		for r := range ds1.Rows {
			expected += keys2[CanonicalKey(ds1.Cell(r, 0))]
		}
		require.Equal(t, expected, res.MatchedCount, "iteration %d", iter)
		for r := range res.Output.Rows {
			k1 := CanonicalKey(res.Output.Cell(r, 0))
			k2 := CanonicalKey(res.Output.Cell(r, 2))
			require.Equal(t, k1, k2)
			require.Positive(t, keys2[k1])
		}

		// 输出中 row 列单调不减：顺序跟随 ds1
		prev := -1.0
		for r := range res.Output.Rows {
			cur := res.Output.Cell(r, 1).Number
			require.GreaterOrEqual(t, cur, prev)
			prev = cur
		}
	}
}

func randomKey(rng *rand.Rand) model.Value {
	n := rng.Intn(6)
	switch rng.Intn(4) {
	case 0:
		return num(float64(n))
	case 1:
		return str(fmt.Sprintf("%d", n))
	case 2:
		return str(fmt.Sprintf("%d.0", n))
	default:
		return model.EmptyValue()
	}
}
