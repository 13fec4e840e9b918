package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "hh:mm", input: "09:30", want: "09:30"},
		{name: "postgres time", input: "18:00:00", want: "18:00"},
		{name: "single digit hour", input: "9:05", want: "09:05"},
		{name: "surrounding spaces", input: " 10:00 ", want: "10:00"},
		{name: "out of range", input: "25:00", wantErr: true},
		{name: "seconds out of range", input: "12:00:99", wantErr: true},
		{name: "garbage seconds", input: "10:00:zz", wantErr: true},
		{name: "eight chars without seconds", input: "10:00abc", wantErr: true},
		{name: "garbage", input: "noon", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("09:30"))
	assert.False(t, TimeString("09:30").IsBefore("09:30"))
	assert.True(t, TimeString("19:00").IsAfter("18:59"))
	assert.Equal(t, 570, TimeString("09:30").Minutes())
	assert.Equal(t, -1, TimeString("x").Minutes())
}

func TestTimeString_OnDate(t *testing.T) {
	loc := time.FixedZone("local", 3*60*60)
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, loc)

	got := TimeString("14:45").OnDate(date)

	assert.Equal(t, time.Date(2026, 10, 19, 14, 45, 0, 0, loc), got)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan([]byte("09:00:00")))
	assert.Equal(t, TimeString("09:00"), ts)

	require.NoError(t, ts.Scan("17:30"))
	assert.Equal(t, TimeString("17:30"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 8, 15, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("08:15"), ts)

	require.Error(t, ts.Scan(42))
}
