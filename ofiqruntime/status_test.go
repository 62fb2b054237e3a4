package ofiqruntime

import (
	"errors"
	"strings"
	"testing"
)

func TestTranslateStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   nativeStatus
		wantKind error
		contains []string
	}{
		{
			name:   "success is nil",
			status: nativeStatus{Code: statusSuccess},
		},
		{
			name:     "generic error",
			status:   nativeStatus{Code: statusError, Message: "assessment failed"},
			wantKind: ErrNativeCall,
			contains: []string{"assessment failed", "(Code: 1)"},
		},
		{
			name:     "invalid parameter",
			status:   nativeStatus{Code: statusInvalidParameter, Message: "null image pointer"},
			wantKind: ErrNativeCall,
			contains: []string{"null image pointer", "(Code: 2)"},
		},
		{
			name:     "out of memory",
			status:   nativeStatus{Code: statusOutOfMemory, Message: "allocation failed"},
			wantKind: ErrNativeCall,
			contains: []string{"(Code: 3)"},
		},
		{
			name:     "configuration error maps to ErrConfiguration",
			status:   nativeStatus{Code: statusConfigurationError, Message: "missing model files"},
			wantKind: ErrConfiguration,
			contains: []string{"missing model files", "(Code: 4)"},
		},
		{
			name:     "unsupported image format maps to ErrImageLoad",
			status:   nativeStatus{Code: statusUnsupportedImageFormat, Message: "2 channels"},
			wantKind: ErrImageLoad,
			contains: []string{"(Code: 5)"},
		},
		{
			name:     "empty message gets placeholder",
			status:   nativeStatus{Code: statusError},
			wantKind: ErrNativeCall,
			contains: []string{"Unknown error"},
		},
		{
			name:     "unknown code stays a native call error",
			status:   nativeStatus{Code: 42, Message: "future status"},
			wantKind: ErrNativeCall,
			contains: []string{"(Code: 42)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateStatus("AssessQuality", tt.status)

			if tt.wantKind == nil {
				if err != nil {
					t.Fatalf("translateStatus() = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Fatal("translateStatus() = nil, want error")
			}
			if !errors.Is(err, tt.wantKind) {
				t.Errorf("error = %v, want kind %v", err, tt.wantKind)
			}

			var oe *OfiqError
			if !errors.As(err, &oe) {
				t.Fatalf("error type = %T, want *OfiqError", err)
			}
			if oe.Op != "AssessQuality" {
				t.Errorf("Op = %q, want AssessQuality", oe.Op)
			}
			if oe.Code != int(tt.status.Code) {
				t.Errorf("Code = %d, want %d", oe.Code, int(tt.status.Code))
			}
			for _, want := range tt.contains {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q does not contain %q", err.Error(), want)
				}
			}
		})
	}
}
