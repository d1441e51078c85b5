package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		nums    []int64
		wantErr string
	}{
		{
			name: "valid selection",
			nums: []int64{1, 5, 12, 23, 30, 37},
		},
		{
			name: "valid selection - unsorted",
			nums: []int64{37, 1, 23, 5, 30, 12},
		},
		{
			name:    "too few numbers",
			nums:    []int64{1, 2, 3, 4, 5},
			wantErr: "exactly 6 numbers",
		},
		{
			name:    "too many numbers",
			nums:    []int64{1, 2, 3, 4, 5, 6, 7},
			wantErr: "exactly 6 numbers",
		},
		{
			name:    "empty selection",
			nums:    nil,
			wantErr: "exactly 6 numbers",
		},
		{
			name:    "duplicate number",
			nums:    []int64{1, 2, 3, 4, 5, 5},
			wantErr: "appears more than once",
		},
		{
			name:    "number below range",
			nums:    []int64{0, 2, 3, 4, 5, 6},
			wantErr: "outside the valid range",
		},
		{
			name:    "number above range",
			nums:    []int64{1, 2, 3, 4, 5, 38},
			wantErr: "outside the valid range",
		},
		{
			name:    "negative number",
			nums:    []int64{-1, 2, 3, 4, 5, 6},
			wantErr: "outside the valid range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateSelection(tt.nums, DefaultPickCount, DefaultMaxNumber)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMatchCount(t *testing.T) {
	t.Parallel()

	winning := []int64{3, 9, 14, 21, 28, 35}

	tests := []struct {
		name      string
		selection []int64
		want      int
	}{
		{
			name:      "no matches",
			selection: []int64{1, 2, 4, 5, 6, 7},
			want:      0,
		},
		{
			name:      "all matches",
			selection: []int64{3, 9, 14, 21, 28, 35},
			want:      6,
		},
		{
			name:      "all matches - different order",
			selection: []int64{35, 28, 21, 14, 9, 3},
			want:      6,
		},
		{
			name:      "partial matches",
			selection: []int64{3, 9, 14, 1, 2, 4},
			want:      3,
		},
		{
			name:      "single match",
			selection: []int64{35, 1, 2, 4, 5, 6},
			want:      1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, MatchCount(tt.selection, winning))
		})
	}
}
