package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeIntraState(t *testing.T) {
	b := Compute(d("1180"), "Madhya Pradesh", DefaultConfig())

	require.True(t, b.IntraState)
	require.Len(t, b.Lines, 2)
	cgst, ok := b.Line(LabelCGST)
	require.True(t, ok)
	sgst, ok := b.Line(LabelSGST)
	require.True(t, ok)

	assert.Equal(t, "106.20", cgst.Amount.StringFixed(2))
	assert.Equal(t, "106.20", sgst.Amount.StringFixed(2))
	assert.True(t, cgst.Rate.Equal(d("0.09")))
	assert.Equal(t, "967.60", b.Base.StringFixed(2))
	assert.True(t, b.Base.Add(cgst.Amount).Add(sgst.Amount).Equal(d("1180")))
}

func TestComputeInterState(t *testing.T) {
	b := Compute(d("1180"), "Karnataka", DefaultConfig())

	require.False(t, b.IntraState)
	require.Len(t, b.Lines, 1)
	igst, ok := b.Line(LabelIGST)
	require.True(t, ok)
	assert.Equal(t, "212.40", igst.Amount.StringFixed(2))
	_, ok = b.Line(LabelCGST)
	assert.False(t, ok)
}

func TestComputeSplitMatchesIGST(t *testing.T) {
	cfg := DefaultConfig()
	for _, total := range []string{"0", "0.05", "1.01", "99.99", "1000", "1180", "12345.67"} {
		t.Run(total, func(t *testing.T) {
			intra := Compute(d(total), cfg.StoreState, cfg)
			inter := Compute(d(total), "Kerala", cfg)

			cgst, _ := intra.Line(LabelCGST)
			sgst, _ := intra.Line(LabelSGST)
			igst, _ := inter.Line(LabelIGST)
			assert.True(t, cgst.Amount.Add(sgst.Amount).Equal(igst.Amount), "cgst+sgst=%s igst=%s", cgst.Amount.Add(sgst.Amount), igst.Amount)
			assert.True(t, intra.Base.Equal(inter.Base))
		})
	}
}

func TestComputeUsesConfiguredStore(t *testing.T) {
	cfg := Config{StoreState: "Karnataka", Rate: d("0.12")}

	b := Compute(d("100"), " karnataka ", cfg)
	require.True(t, b.IntraState)
	cgst, _ := b.Line(LabelCGST)
	assert.Equal(t, "6.00", cgst.Amount.StringFixed(2))
	assert.Equal(t, "88.00", b.Base.StringFixed(2))

	b = Compute(d("100"), "Madhya Pradesh", cfg)
	assert.False(t, b.IntraState)
}

func TestComputeEmptyStateIsInterState(t *testing.T) {
	b := Compute(d("500"), "", DefaultConfig())
	assert.False(t, b.IntraState)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, Config{StoreState: "", Rate: DefaultRate}.Validate())
	assert.Error(t, Config{StoreState: "X", Rate: d("-0.1")}.Validate())
	assert.Error(t, Config{StoreState: "X", Rate: d("1")}.Validate())
}
