package ofiqruntime

import "testing"

func TestMeasureFromID(t *testing.T) {
	// Every declared measure maps back to itself.
	for m, name := range measureNames {
		got, ok := MeasureFromID(int32(m))
		if !ok {
			t.Errorf("MeasureFromID(%#x) ok = false, want true (%s)", int32(m), name)
		}
		if got != m {
			t.Errorf("MeasureFromID(%#x) = %v, want %v", int32(m), got, m)
		}
	}

	// Ids outside the enumerated range are rejected.
	for _, id := range []int32{0, 0x40, 0x5d, -1, 0x7fff} {
		if _, ok := MeasureFromID(id); ok {
			t.Errorf("MeasureFromID(%#x) ok = true, want false", id)
		}
	}
}

func TestMeasureString(t *testing.T) {
	tests := []struct {
		measure QualityMeasure
		want    string
	}{
		{MeasureUnifiedQualityScore, "UnifiedQualityScore"},
		{MeasureSharpness, "Sharpness"},
		{MeasureLeftwardCrop, "LeftwardCropOfTheFaceImage"},
		{MeasureNoHeadCoverings, "NoHeadCoverings"},
		{QualityMeasure(0x99), "QualityMeasure(0x99)"},
	}

	for _, tt := range tests {
		if got := tt.measure.String(); got != tt.want {
			t.Errorf("%#x String() = %q, want %q", int32(tt.measure), got, tt.want)
		}
	}
}

func TestMeasureIDsContiguous(t *testing.T) {
	// The native id space is contiguous from UnifiedQualityScore through
	// NoHeadCoverings; a hole would mean the enumeration drifted from the
	// native header.
	if got := KnownMeasureCount(); got != 28 {
		t.Fatalf("KnownMeasureCount() = %d, want 28", got)
	}
	for id := int32(MeasureUnifiedQualityScore); id <= int32(MeasureNoHeadCoverings); id++ {
		if _, ok := MeasureFromID(id); !ok {
			t.Errorf("gap in measure ids at %#x", id)
		}
	}
}

func TestStateAndReturnCodeStrings(t *testing.T) {
	stateTests := []struct {
		state EngineState
		want  string
	}{
		{StateUninitialized, "uninitialized"},
		{StateInitialized, "initialized"},
		{StateDisposed, "disposed"},
		{EngineState(7), "invalid"},
	}
	for _, tt := range stateTests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("EngineState(%d).String() = %q, want %q", int32(tt.state), got, tt.want)
		}
	}

	codeTests := []struct {
		code ReturnCode
		want string
	}{
		{ReturnCodeSuccess, "Success"},
		{ReturnCodeFailureToAssess, "FailureToAssess"},
		{ReturnCodeInternalError, "InternalError"},
		{ReturnCodeNotImplemented, "NotImplemented"},
		{ReturnCodeNotConfigured, "NotConfigured"},
		{ReturnCode(9), "ReturnCode(9)"},
	}
	for _, tt := range codeTests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("ReturnCode(%d).String() = %q, want %q", int32(tt.code), got, tt.want)
		}
	}
}
