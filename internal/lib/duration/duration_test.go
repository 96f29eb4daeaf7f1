package duration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/jornal-destaque/internal/models"
)

func TestFor(t *testing.T) {
	tests := []struct {
		name    string
		subType models.SubscriptionType
		want    time.Duration
		wantErr bool
	}{
		{
			name:    "daily is one day",
			subType: models.SubscriptionDaily,
			want:    24 * time.Hour,
		},
		{
			name:    "weekly is seven days",
			subType: models.SubscriptionWeekly,
			want:    7 * 24 * time.Hour,
		},
		{
			name:    "monthly is a fixed thirty days",
			subType: models.SubscriptionMonthly,
			want:    30 * 24 * time.Hour,
		},
		{
			name:    "yearly is a fixed 365 days",
			subType: models.SubscriptionYearly,
			want:    365 * 24 * time.Hour,
		},
		{
			name:    "unknown type fails",
			subType: models.SubscriptionType("quinzenal"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := For(tt.subType)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEndDate_MonthlyIsNotCalendarAware(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	end, err := EndDate(models.SubscriptionMonthly, start)
	require.NoError(t, err)

	// 30 суток от 1 января — это 31 января, а не 1 февраля.
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), end)
}

func TestEndDate_YearlyIgnoresLeapDay(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	end, err := EndDate(models.SubscriptionYearly, start)
	require.NoError(t, err)

	// 2024 високосный: 365 суток заканчиваются 31 декабря, не 1 января.
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), end)
}
