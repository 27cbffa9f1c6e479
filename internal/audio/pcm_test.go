package audio

import (
	"math"
	"testing"
)

func TestDecodePCM16(t *testing.T) {
	samples := []int16{0, 1000, -1000, 32767, -32768}
	data := EncodePCM16(samples)

	decoded, err := DecodePCM16(data)
	if err != nil {
		t.Fatalf("DecodePCM16 failed: %v", err)
	}
	if len(decoded) != len(samples) {
		t.Fatalf("Expected %d samples, got %d", len(samples), len(decoded))
	}
	for i, s := range samples {
		if decoded[i] != s {
			t.Errorf("Sample %d: expected %d, got %d", i, s, decoded[i])
		}
	}
}

func TestDecodePCM16_Invalid(t *testing.T) {
	if _, err := DecodePCM16(nil); err == nil {
		t.Error("Expected error for empty data")
	}
	if _, err := DecodePCM16([]byte{0x01}); err == nil {
		t.Error("Expected error for odd-length data")
	}
}

func TestResample_Downsample(t *testing.T) {
	// 0.1 seconds at 48kHz down to 16kHz.
	samples := make([]int16, 4800)
	for i := range samples {
		samples[i] = int16(i % 1000)
	}

	out := Resample(samples, 48000, 16000)
	expectedLen := 1600
	tolerance := 50
	if len(out) < expectedLen-tolerance || len(out) > expectedLen+tolerance {
		t.Errorf("Expected around %d samples, got %d", expectedLen, len(out))
	}
}

func TestResample_SameRate(t *testing.T) {
	samples := []int16{1, 2, 3}
	out := Resample(samples, 16000, 16000)
	if len(out) != 3 || out[0] != 1 || out[2] != 3 {
		t.Errorf("Expected samples passed through unchanged, got %v", out)
	}
}

func TestResample_PreservesLevel(t *testing.T) {
	// A constant signal must stay constant through interpolation.
	samples := make([]int16, 480)
	for i := range samples {
		samples[i] = 5000
	}
	out := Resample(samples, 48000, 16000)
	for i, s := range out {
		if s != 5000 {
			t.Fatalf("Sample %d: expected 5000, got %d", i, s)
		}
	}
}

func TestCalculateRMS(t *testing.T) {
	samples := []int16{100, -100, 100, -100}
	rms := CalculateRMS(samples)
	if math.Abs(rms-100.0) > 0.001 {
		t.Errorf("Expected RMS 100, got %f", rms)
	}
}

func TestCalculateRMS_Empty(t *testing.T) {
	if rms := CalculateRMS(nil); rms != 0 {
		t.Errorf("Expected RMS 0 for empty input, got %f", rms)
	}
}
