package marstime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJ2000Offset(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(0.0, J2000Offset(time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)))
	assert.Equal(1.0, J2000Offset(time.Date(2000, 1, 2, 12, 0, 0, 0, time.UTC)))
	assert.Equal(-0.5, J2000Offset(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestLs_Range(t *testing.T) {
	assert := assert.New(t)
	start := time.Date(2006, 9, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 100; i++ {
		ls := Ls(start.AddDate(0, 0, 31*i))
		assert.GreaterOrEqual(ls, 0.0)
		assert.Less(ls, 360.0)
	}
}

func TestLs_Monotonic(t *testing.T) {
	// L_s advances by roughly half a degree per Earth day away from the
	// year boundary.
	t0 := time.Date(2012, 8, 1, 0, 0, 0, 0, time.UTC)
	ls0, ls1 := Ls(t0), Ls(t0.AddDate(0, 0, 1))
	assert.Greater(t, ls1, ls0)
	assert.InDelta(t, 0.5, ls1-ls0, 0.2)
}

func TestMarsYear(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(1, MarsYear(marsYear1))
	assert.Equal(0, MarsYear(marsYear1.Add(-time.Hour)))

	// MY 36 began early February 2021
	assert.Equal(35, MarsYear(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(36, MarsYear(time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)))

	// MRO aerobraking era
	assert.Equal(28, MarsYear(time.Date(2006, 9, 25, 0, 0, 0, 0, time.UTC)))
}

func TestUTCFromMarsYearLs_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	for _, in := range []time.Time{
		time.Date(2007, 6, 24, 12, 0, 0, 0, time.UTC),
		time.Date(2012, 8, 1, 16, 0, 0, 0, time.UTC),
		time.Date(2018, 6, 1, 0, 0, 0, 0, time.UTC),
	} {
		my, ls := MarsYearLs(in)
		got, err := UTCFromMarsYearLs(my, ls)
		assert.NoError(err)
		assert.Equal(my, MarsYear(got))
		assert.InDelta(ls, Ls(got), lsThreshold)
		assert.InDelta(0, got.Sub(in).Minutes(), 60, "round trip for %s", in)
	}
}

func TestUTCFromMarsYearLs_OrdersWithinYear(t *testing.T) {
	assert := assert.New(t)
	a, err := UTCFromMarsYearLs(30, 90)
	assert.NoError(err)
	b, err := UTCFromMarsYearLs(30, 270)
	assert.NoError(err)
	assert.True(a.Before(b))
	assert.Equal(30, MarsYear(a))
	assert.Equal(30, MarsYear(b))
}

func TestLTST(t *testing.T) {
	assert := assert.New(t)

	assert.InDelta(12.0, LTST(45, 45), 1e-12, "noon at the subsolar longitude")
	assert.InDelta(18.0, LTST(135, 45), 1e-12)
	assert.InDelta(6.0, LTST(-45, 45), 1e-12)
	assert.InDelta(0.0, LTST(225, 45), 1e-12, "midnight on the far side")

	// wraparound keeps the result in [0, 24)
	assert.InDelta(13.0, LTST(5, 350), 1e-12)
	for lon := 0.0; lon < 360; lon += 30 {
		h := LTST(lon, 123.4)
		assert.GreaterOrEqual(h, 0.0)
		assert.Less(h, 24.0)
	}
}
