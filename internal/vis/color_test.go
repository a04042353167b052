package vis

import "testing"

// TestBlendHexEndpoints tests that t=0 and t=1 return the exact inputs
func TestBlendHexEndpoints(t *testing.T) {
	if got := BlendHex("#27ae60", "#e67e22", 0); got != "#27ae60" {
		t.Errorf("t=0 should return base, got %s", got)
	}
	if got := BlendHex("#27ae60", "#e67e22", 1); got != "#e67e22" {
		t.Errorf("t=1 should return target, got %s", got)
	}
}

// TestBlendHexClamps tests out-of-range blend factors
func TestBlendHexClamps(t *testing.T) {
	if got := BlendHex("#000000", "#ffffff", -0.5); got != "#000000" {
		t.Errorf("Negative t should clamp to base, got %s", got)
	}
	if got := BlendHex("#000000", "#ffffff", 2.0); got != "#ffffff" {
		t.Errorf("t>1 should clamp to target, got %s", got)
	}
}

// TestBlendHexMidpoint tests linear interpolation halfway
func TestBlendHexMidpoint(t *testing.T) {
	if got := BlendHex("#000000", "#ff0000", 0.5); got != "#800000" {
		t.Errorf("Expected #800000 at midpoint, got %s", got)
	}
}

// TestBlendHexMalformed tests that unparseable colors fall back to base
func TestBlendHexMalformed(t *testing.T) {
	if got := BlendHex("not-a-color", "#ffffff", 0.5); got != "not-a-color" {
		t.Errorf("Malformed base should pass through, got %s", got)
	}
	if got := BlendHex("#123456", "nope", 0.5); got != "#123456" {
		t.Errorf("Malformed target should return base, got %s", got)
	}
}
