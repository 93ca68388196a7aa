package statement

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func testParser() *Parser {
	return &Parser{Now: func() time.Time { return fixedNow }, Location: time.UTC}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveDate_Strings(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"01/03/24", day(2024, time.March, 1)},
		{"15/08/05", day(2005, time.August, 15)},
		{"31/12/2023", day(2023, time.December, 31)},
		{"7/2", day(2025, time.February, 7)},
		{" 29/02/24 ", day(2024, time.February, 29)},
	}
	p := testParser()
	for _, tt := range tests {
		got, err := p.resolveDate(StringCell(tt.in))
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), "%s: got %s", tt.in, got)
	}
}

func TestResolveDate_TwoDigitYear(t *testing.T) {
	got, err := testParser().resolveDate(StringCell("10/01/05"))
	require.NoError(t, err)
	assert.Equal(t, 2005, got.Year())
}

func TestResolveDate_InvalidStrings(t *testing.T) {
	for _, in := range []string{"2024-99-99", "32/01/24", "29/02/23", "01/13/24", "hoy", "1/2/3/4", "aa/bb"} {
		_, err := testParser().resolveDate(StringCell(in))
		require.Error(t, err, in)
		assert.Contains(t, err.Error(), in)
	}
}

func TestResolveDate_Serial(t *testing.T) {
	got, err := testParser().resolveDate(NumberCell(45352))
	require.NoError(t, err)
	assert.True(t, day(2024, time.March, 1).Equal(got), "got %s", got)

	got, err = testParser().resolveDate(NumberCell(25569))
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.UnixMilli())
}

func TestResolveDate_SerialOutOfRange(t *testing.T) {
	for _, v := range []float64{1e20, -1e20, 1e12, 2958466 + 366, math.NaN(), math.Inf(1)} {
		_, err := testParser().resolveDate(NumberCell(v))
		require.Error(t, err, "%v", v)
		assert.Contains(t, err.Error(), "invalid date value")
	}

	got, err := testParser().resolveDate(NumberCell(2958465))
	require.NoError(t, err)
	assert.Equal(t, 9999, got.Year())
}

func TestResolveDate_FiveDigitYear(t *testing.T) {
	_, err := testParser().resolveDate(StringCell("01/01/99999"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date")
}

func TestResolveDate_Native(t *testing.T) {
	want := day(2024, time.May, 20)
	got, err := testParser().resolveDate(DateCell(want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolveDate_OtherKinds(t *testing.T) {
	_, err := testParser().resolveDate(BoolCell(true))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bool")

	_, err = testParser().resolveDate(Cell{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestResolveDate_Location(t *testing.T) {
	loc := time.FixedZone("CLT", -4*3600)
	p := &Parser{Now: func() time.Time { return fixedNow }, Location: loc}
	got, err := p.resolveDate(StringCell("01/03/24"))
	require.NoError(t, err)
	assert.Equal(t, loc, got.Location())
	assert.Equal(t, 1, got.Day())
}
