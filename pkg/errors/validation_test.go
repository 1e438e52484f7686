package errors

import (
	"testing"
)

func TestValidateDimensions(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		wantErr bool
	}{
		{"typical", 1600, 1200, false},
		{"minimum", 100, 100, false},
		{"maximum", 8192, 8192, false},
		{"below minimum still positive", 10, 10, false},
		{"above maximum", 20000, 20000, false},

		{"zero width", 0, 600, true},
		{"zero height", 800, 0, true},
		{"negative width", -800, 600, true},
		{"negative height", 800, -600, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimensions(tt.w, tt.h)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDimensions(%d, %d) error = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidDimensions) {
				t.Errorf("ValidateDimensions(%d, %d) returned wrong error code: %v", tt.w, tt.h, err)
			}
		})
	}
}

func TestClampDimension(t *testing.T) {
	tests := []struct {
		name  string
		input int
		want  int
	}{
		{"in range", 1600, 1600},
		{"at minimum", MinDimension, MinDimension},
		{"at maximum", MaxDimension, MaxDimension},
		{"below minimum", 10, MinDimension},
		{"zero", 0, MinDimension},
		{"above maximum", 100000, MaxDimension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampDimension(tt.input); got != tt.want {
				t.Errorf("ClampDimension(%d) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidDimensions,
		ErrCodeInvalidTemplate,
		ErrCodeInvalidFormat,
		ErrCodeInvalidSeed,
		ErrCodeNotFound,
		ErrCodeSurfaceAlloc,
		ErrCodeRegionCapacity,
		ErrCodeInternal,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
