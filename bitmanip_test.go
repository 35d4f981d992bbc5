package loglog

import "testing"

func TestOnesTo(t *testing.T) {
	testCases := []struct {
		startPos, endPos uint
		expectResult     uint64
	}{
		{0, 0, 1},
		{63, 63, 1 << 63},
		{2, 4, 4 + 8 + 16},
		{56, 63, 0xFF00000000000000},
		{0, 31, 0xFFFFFFFF},
		{0, 63, all1s},
	}

	for i, testCase := range testCases {
		actualResult := onesFromTo(testCase.startPos, testCase.endPos)
		if testCase.expectResult != actualResult {
			t.Errorf("Case %d actual result was %v", i, actualResult)
		}
	}
}

func TestExtractShift(t *testing.T) {
	testCases := []struct {
		input            uint64
		startPos, endPos uint
		expectResult     uint64
	}{
		{0, 0, 63, 0},
		{0xAABBCCDD00, 8, 47, 0xAABBCCDD},
		{0xFF00000000000000, 56, 63, 0xFF},
		{0xFF, 0, 7, 0xFF},
		{0xABCD, 0, 3, 0xD},
	}

	for i, testCase := range testCases {
		actualResult := extractShift(testCase.input, testCase.startPos, testCase.endPos)
		if testCase.expectResult != actualResult {
			t.Errorf("Case %d actual result was %v", i, actualResult)
		}
	}
}

func TestTrailingZeros(t *testing.T) {
	testCases := []struct {
		input        uint64
		limit        uint
		expectResult uint
	}{
		{1, 60, 0},
		{8, 60, 3},
		{1 << 40, 60, 40},
		{1 << 40, 28, 28},
		{0, 60, 60}, // zero must not count past the available bits
		{0, 28, 28},
	}

	for i, testCase := range testCases {
		actualResult := trailingZeros(testCase.input, testCase.limit)
		if testCase.expectResult != actualResult {
			t.Errorf("Case %d actual result was %v", i, actualResult)
		}
	}
}
