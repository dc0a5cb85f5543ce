package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/rci-backend-go/internal/apperrors"
	"github.com/jengzang/rci-backend-go/internal/models"
	"github.com/jengzang/rci-backend-go/internal/rci"
)

// rawLog builds a sensor log whose rows all carry a 50 Hz, 1 g wave
func rawLog(t *testing.T, coordinates ...string) string {
	t.Helper()
	wave := make([]float64, int(rci.SampleRate))
	for i := range wave {
		wave[i] = math.Sin(2 * math.Pi * 50 * float64(i) / rci.SampleRate)
	}
	b, err := json.Marshal(wave)
	require.NoError(t, err)

	var sb strings.Builder
	sb.WriteString("X,Y,Z,pdop,coordinate\n")
	for _, c := range coordinates {
		fmt.Fprintf(&sb, "%q,%q,%q,2,%q\n", b, b, b, c)
	}
	return sb.String()
}

func TestRCIService_Calculate(t *testing.T) {
	svc := NewRCIService(nil)

	result, err := svc.Calculate(context.Background(), "raw.csv", strings.NewReader(rawLog(t, "-7.8,110.36")))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Computed)
	assert.Equal(t, "0.169914", result.Rows[0][len(result.Header)-1])

	_, err = svc.Calculate(context.Background(), "raw.csv", strings.NewReader("X,Y\n1,2\n"))
	assert.ErrorIs(t, err, apperrors.ErrEmptyInput)
	assert.Contains(t, err.Error(), "raw.csv")
}

func TestRCIService_CalculateAndStore(t *testing.T) {
	readings := newTestReadingService(t)
	svc := NewRCIService(readings)
	ctx := context.Background()

	upload, err := svc.CalculateAndStore(ctx, "raw.csv", strings.NewReader(rawLog(t, "-7.8,110.36", "-7.79,110.38")))
	require.NoError(t, err)
	assert.Equal(t, "processed_raw.csv", upload.FileName)
	assert.Equal(t, 2, upload.Stored)

	stored, err := readings.GetReadings(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, models.Reading{Value: 0.169914, Latitude: -7.8, Longitude: 110.36}, stored[0])
}

func TestRCIService_CalculateAndStoreWithoutCoordinates(t *testing.T) {
	svc := NewRCIService(newTestReadingService(t))

	_, err := svc.CalculateAndStore(context.Background(), "raw.csv", strings.NewReader("X,Y,Z\n1,1,1\n"))
	assert.ErrorIs(t, err, apperrors.ErrEmptyInput)
}

func TestProcessedFileName(t *testing.T) {
	assert.Equal(t, "processed_trip.csv", ProcessedFileName("trip.csv"))
	assert.Equal(t, "processed_trip.csv", ProcessedFileName(`C:\logs\trip.csv`))
	assert.Equal(t, "processed_data.csv", ProcessedFileName(""))
}
