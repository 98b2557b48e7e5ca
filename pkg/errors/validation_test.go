package errors

import (
	"math"
	"testing"
)

func TestValidateDimensions(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		height  int
		wantErr bool
	}{
		{"1x1", 1, 1, false},
		{"wide", 100, 1, false},
		{"tall", 1, 100, false},
		{"square", 16, 16, false},

		{"zero width", 0, 5, true},
		{"zero height", 5, 0, true},
		{"negative width", -1, 5, true},
		{"negative height", 5, -3, true},
		{"overflow", math.MaxInt / 2, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimensions(tt.width, tt.height)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDimensions(%d, %d) error = %v, wantErr %v", tt.width, tt.height, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidDimensions) {
				t.Errorf("ValidateDimensions(%d, %d) code = %v, want %v", tt.width, tt.height, GetCode(err), ErrCodeInvalidDimensions)
			}
		})
	}
}

func TestValidateCellLimit(t *testing.T) {
	if err := ValidateCellLimit(10, 10, 100); err != nil {
		t.Errorf("ValidateCellLimit at limit: %v", err)
	}
	if err := ValidateCellLimit(10, 11, 100); err == nil {
		t.Error("ValidateCellLimit over limit should fail")
	}
}

func TestValidateResolution(t *testing.T) {
	tests := []struct {
		resolution int
		wantErr    bool
	}{
		{-1, true},
		{0, true},
		{1, true},
		{2, false},
		{32, false},
	}

	for _, tt := range tests {
		err := ValidateResolution(tt.resolution)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateResolution(%d) error = %v, wantErr %v", tt.resolution, err, tt.wantErr)
		}
		if err != nil && GetCode(err) != ErrCodeInvalidResolution {
			t.Errorf("ValidateResolution(%d) code = %v", tt.resolution, GetCode(err))
		}
	}
}

func TestValidateImageSize(t *testing.T) {
	tests := []struct {
		name                  string
		width, height, pixels int
		wantErr               bool
	}{
		{"small", 2, 1, 16, false},
		{"max cells at default resolution", 1024, 1024, 16, false},
		{"side overflows", 2, 1, 1 << 62, true},
		{"height overflows", 1, 3, math.MaxInt / 2, true},
		{"area overflows", 1 << 20, 1 << 20, 1 << 12, true},
		{"rgba buffer overflows", 1, 1, 1 << 31, true},
		{"negative", -1, 1, 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImageSize(tt.width, tt.height, tt.pixels)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateImageSize(%d, %d, %d) error = %v, wantErr %v", tt.width, tt.height, tt.pixels, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidResolution) {
				t.Errorf("ValidateImageSize() code = %v, want %v", GetCode(err), ErrCodeInvalidResolution)
			}
		})
	}
}

func TestValidatePixelLimit(t *testing.T) {
	tests := []struct {
		name                             string
		width, height, resolution, scale int
		limit                            int
		wantErr                          bool
	}{
		{"under limit", 10, 10, 10, 1, 10000, false},
		{"at limit", 10, 10, 5, 2, 10000, false},
		{"scale pushes over", 10, 10, 5, 3, 10000, true},
		{"resolution pushes over", 10, 10, 11, 1, 10000, true},
		{"max cells at default resolution", 1024, 1024, 16, 1, MaxPixels, false},
		{"max cells scaled", 1024, 1024, 16, 2, MaxPixels, true},
		{"huge resolution", 2, 1, 100000, 1, MaxPixels, true},
		{"factor overflows", 1, 1, math.MaxInt / 2, 4, MaxPixels, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePixelLimit(tt.width, tt.height, tt.resolution, tt.scale, tt.limit)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePixelLimit() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidResolution) {
				t.Errorf("ValidatePixelLimit() code = %v, want %v", GetCode(err), ErrCodeInvalidResolution)
			}
		})
	}
}

func TestValidateScale(t *testing.T) {
	if err := ValidateScale(1); err != nil {
		t.Errorf("ValidateScale(1) error = %v", err)
	}
	if err := ValidateScale(0); err == nil {
		t.Error("ValidateScale(0) should fail")
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "maze.png", false},
		{"nested", "out/mazes/maze.png", false},
		{"absolute", "/tmp/maze.svg", false},

		{"empty", "", true},
		{"null byte", "maze\x00.png", true},
		{"newline", "maze\n.png", true},
		{"directory", "out/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
