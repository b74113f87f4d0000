package timestamppkg

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    time.Time
		wantErr error
	}{
		{
			name:  "RFC3339",
			input: "2020-11-02T14:00:00Z",
			want:  time.Date(2020, 11, 2, 14, 0, 0, 0, time.UTC),
		},
		{
			name:  "WithoutSeconds",
			input: "2020-11-02T14:00Z",
			want:  time.Date(2020, 11, 2, 14, 0, 0, 0, time.UTC),
		},
		{
			name:  "Nano",
			input: "2020-11-02T14:00:00.123456789Z",
			want:  time.Date(2020, 11, 2, 14, 0, 0, 123456789, time.UTC),
		},
		{
			name:  "OffsetConvertedToUTC",
			input: "2020-11-02T16:00:00+02:00",
			want:  time.Date(2020, 11, 2, 14, 0, 0, 0, time.UTC),
		},
		{
			name:    "Empty",
			input:   "",
			wantErr: ErrInvalidTimestamp,
		},
		{
			name:    "DateOnly",
			input:   "2020-11-02",
			wantErr: ErrInvalidTimestamp,
		},
		{
			name:    "Garbage",
			input:   "yesterday",
			wantErr: ErrInvalidTimestamp,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tc.input)
			if err != tc.wantErr {
				t.Fatalf("Parse(%q) returned error %v, want %v", tc.input, err, tc.wantErr)
			}

			if !got.Equal(tc.want) {
				t.Errorf("Parse(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}
