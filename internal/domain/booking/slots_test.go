package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDailySlots(t *testing.T) {
	slots := GenerateDailySlots(DefaultStartHour, DefaultSlotCount)

	require.Len(t, slots, DefaultSlotCount)
	assert.Equal(t, "06:00 - 07:00", slots[0])
	assert.Equal(t, "20:00 - 21:00", slots[len(slots)-1])
}

func TestGenerateDailySlots_CustomWindow(t *testing.T) {
	slots := GenerateDailySlots(9, 3)

	require.Len(t, slots, 3)
	assert.Equal(t, []string{"09:00 - 10:00", "10:00 - 11:00", "11:00 - 12:00"}, slots)
}

func TestSlotEndHour(t *testing.T) {
	tests := []struct {
		name     string
		slot     string
		expected int
		wantErr  bool
	}{
		{
			name:     "with spaces",
			slot:     "10:00 - 11:00",
			expected: 11,
		},
		{
			name:     "without spaces",
			slot:     "10:00-11:00",
			expected: 11,
		},
		{
			name:    "garbage",
			slot:    "morning",
			wantErr: true,
		},
		{
			name:    "missing end",
			slot:    "10:00",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hour, err := slotEndHour(tt.slot)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, hour)
		})
	}
}

func TestCanRate(t *testing.T) {
	booking := Booking{
		Status:   StatusApproved,
		Date:     "2024-06-01",
		TimeSlot: "10:00 - 11:00",
	}

	tests := []struct {
		name     string
		booking  Booking
		now      time.Time
		expected bool
	}{
		{
			name:     "just before slot end",
			booking:  booking,
			now:      time.Date(2024, 6, 1, 10, 59, 59, 0, time.UTC),
			expected: false,
		},
		{
			name:     "exactly at slot end",
			booking:  booking,
			now:      time.Date(2024, 6, 1, 11, 0, 0, 0, time.UTC),
			expected: false,
		},
		{
			name:     "just after slot end",
			booking:  booking,
			now:      time.Date(2024, 6, 1, 11, 0, 1, 0, time.UTC),
			expected: true,
		},
		{
			name:     "next day",
			booking:  booking,
			now:      time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC),
			expected: true,
		},
		{
			name: "pending booking is not rateable",
			booking: Booking{
				Status:   StatusPending,
				Date:     "2024-06-01",
				TimeSlot: "10:00 - 11:00",
			},
			now:      time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC),
			expected: false,
		},
		{
			name: "completed booking is not rateable again",
			booking: Booking{
				Status:   StatusCompleted,
				Date:     "2024-06-01",
				TimeSlot: "10:00 - 11:00",
			},
			now:      time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC),
			expected: false,
		},
		{
			name: "broken slot label is not rateable",
			booking: Booking{
				Status:   StatusApproved,
				Date:     "2024-06-01",
				TimeSlot: "morning",
			},
			now:      time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanRate(tt.booking, tt.now))
		})
	}
}
