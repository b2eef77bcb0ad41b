// SPDX-License-Identifier: Unlicense OR MIT

package textshape

import "testing"

func tag(s string) [4]byte {
	var t [4]byte
	copy(t[:], s)
	return t
}

func TestFingerprintFeaturesEmpty(t *testing.T) {
	if fp := FingerprintFeatures(nil); fp != "" {
		t.Fatalf("FingerprintFeatures(nil) = %q, want empty", fp)
	}
}

func TestFingerprintFeaturesOrderIndependent(t *testing.T) {
	a := []FeatureSetting{{Tag: tag("liga"), Value: 1}, {Tag: tag("kern"), Value: 0}}
	b := []FeatureSetting{{Tag: tag("kern"), Value: 0}, {Tag: tag("liga"), Value: 1}}
	fa, fb := FingerprintFeatures(a), FingerprintFeatures(b)
	if fa != fb {
		t.Fatalf("fingerprints differ by order: %q vs %q", fa, fb)
	}
}

func TestFingerprintFeaturesDistinguishesValues(t *testing.T) {
	a := []FeatureSetting{{Tag: tag("liga"), Value: 1}}
	b := []FeatureSetting{{Tag: tag("liga"), Value: 0}}
	if FingerprintFeatures(a) == FingerprintFeatures(b) {
		t.Fatal("fingerprints should differ when a feature value differs")
	}
}

func TestFingerprintFeaturesLastDuplicateWins(t *testing.T) {
	a := []FeatureSetting{{Tag: tag("liga"), Value: 0}, {Tag: tag("liga"), Value: 1}}
	b := []FeatureSetting{{Tag: tag("liga"), Value: 1}}
	if FingerprintFeatures(a) != FingerprintFeatures(b) {
		t.Fatal("a repeated tag should collapse to its last value")
	}
}
