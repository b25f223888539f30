package types

import (
	"encoding/json"
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
		wantErr error
	}{
		{name: "short format", input: "09:30", want: "09:30:00"},
		{name: "full format", input: "09:30:15", want: "09:30:15"},
		{name: "midnight", input: "00:00", want: "00:00:00"},
		{name: "end of day", input: "24:00", want: "24:00:00"},
		{name: "after end of day", input: "24:00:01", wantErr: ErrTimeOutOfRange},
		{name: "bad minutes", input: "09:60", wantErr: ErrInvalidTimeString},
		{name: "single digit", input: "9:30", wantErr: ErrInvalidTimeString},
		{name: "garbage", input: "abc", wantErr: ErrInvalidTimeString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	start := MustTimeString("11:30")

	end, err := start.AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("12:00:00"), end)

	end, err = MustTimeString("23:30").AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00:00"), end)

	_, err = MustTimeString("23:45").AddMinutes(30)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)
}

func TestTimeString_Compare(t *testing.T) {
	a := MustTimeString("09:00")
	b := MustTimeString("09:00:01")

	assert.True(t, a.IsBefore(b))
	assert.True(t, b.IsAfter(a))
	assert.False(t, a.IsAfter(a))
	assert.True(t, a.Equal(MustTimeString("09:00:00")))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan([]byte("08:15:00")))
	assert.Equal(t, TimeString("08:15:00"), ts)

	require.NoError(t, ts.Scan("08:15:00.000000"))
	assert.Equal(t, TimeString("08:15:00"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 17, 45, 5, 0, time.UTC)))
	assert.Equal(t, TimeString("17:45:05"), ts)

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_JSON(t *testing.T) {
	var payload struct {
		Start TimeString `json:"start"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"start":"10:30"}`), &payload))
	assert.Equal(t, TimeString("10:30:00"), payload.Start)

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"10:30:00"}`, string(data))

	assert.Error(t, json.Unmarshal([]byte(`{"start":"10:3"}`), &payload))
}
