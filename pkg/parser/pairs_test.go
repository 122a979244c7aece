package parser

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPairReader(log string, now time.Time) *PairReader {
	return NewPairReader(
		NewReaderSource(strings.NewReader(log), "test"),
		WithLocation(time.UTC),
		WithClock(func() time.Time { return now }),
	)
}

func TestPairReader_CompletePairs(t *testing.T) {
	log := `i 2020/01/01 09:00:00 Acme planning
o 2020/01/01 12:00:00

i 2020/01/01 13:00:00 Acme review
o 2020/01/01 17:30:00
`
	r := newTestPairReader(log, time.Time{})
	pairs, err := r.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, pairs, 2)

	assert.Equal(t, "Acme planning", pairs[0].Start.Description)
	assert.InDelta(t, 3.0, pairs[0].Hours(), 1e-9)
	assert.InDelta(t, 4.5, pairs[1].Hours(), 1e-9)
	assert.Equal(t, 4, pairs[1].Start.Line)
	assert.Equal(t, 5, pairs[1].End.Line)
	assert.False(t, pairs[1].Running())
}

func TestPairReader_EmptyLog(t *testing.T) {
	r := newTestPairReader("\n\n", time.Time{})
	_, err := r.Next(context.Background())
	assert.Equal(t, io.EOF, err)
}

func TestPairReader_StillRunning(t *testing.T) {
	now := time.Date(2020, 1, 1, 11, 30, 0, 500, time.UTC)
	r := newTestPairReader("i 2020/01/01 09:00:00 Acme\n", now)

	pair, err := r.Next(context.Background())
	require.NoError(t, err)

	assert.True(t, pair.Running())
	assert.Equal(t, "", pair.End.Description)
	assert.False(t, pair.End.IsStart)
	assert.True(t, pair.End.Timestamp.Equal(time.Date(2020, 1, 1, 11, 30, 0, 0, time.UTC)))
	assert.InDelta(t, 2.5, pair.Hours(), 1e-9)

	_, err = r.Next(context.Background())
	assert.Equal(t, io.EOF, err)
}

func TestPairReader_StillRunningClockBehind(t *testing.T) {
	now := time.Date(2020, 1, 1, 8, 0, 0, 0, time.UTC)
	r := newTestPairReader("i 2020/01/01 09:00:00 Acme\n", now)

	pair, err := r.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, pair.Hours())
}

func TestPairReader_OrderingErrors(t *testing.T) {
	tests := []struct {
		name     string
		log      string
		wantLine int
	}{
		{
			name:     "leading clock-out",
			log:      "o 2020/01/01 09:00:00\ni 2020/01/01 10:00:00 Acme\n",
			wantLine: 1,
		},
		{
			name:     "lone trailing clock-out",
			log:      "i 2020/01/01 09:00:00 Acme\no 2020/01/01 10:00:00\no 2020/01/01 11:00:00\n",
			wantLine: 3,
		},
		{
			name:     "two clock-ins",
			log:      "i 2020/01/01 09:00:00 Acme\ni 2020/01/01 10:00:00 Acme\n",
			wantLine: 2,
		},
		{
			name:     "clock-out before clock-in",
			log:      "i 2020/01/01 09:00:00 Acme\no 2020/01/01 08:00:00\n",
			wantLine: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestPairReader(tt.log, time.Now())
			_, err := r.ReadAll(context.Background())

			var ordering *OrderingError
			require.True(t, errors.As(err, &ordering), "error = %v, want *OrderingError", err)
			assert.Equal(t, tt.wantLine, ordering.Line)
		})
	}
}

func TestPairReader_MalformedLineAborts(t *testing.T) {
	log := `i 2020/01/01 09:00:00 Acme
o 2020/01/01 10:00:00
x 2020/01/01 11:00:00 bad
o 2020/01/01 12:00:00
`
	r := newTestPairReader(log, time.Now())
	pairs, err := r.ReadAll(context.Background())

	var malformed *MalformedLineError
	require.True(t, errors.As(err, &malformed), "error = %v, want *MalformedLineError", err)
	assert.Equal(t, 3, malformed.Line)
	assert.Nil(t, pairs)
}
