// Package ofiqruntime provides Go bindings to the OFIQ native library.
// This file contains the audited conversion routines that copy native result
// arrays into owned Go values. All fixed-stride pointer walking in the
// package happens here, through the checked foreignArray reader from abi.go.
package ofiqruntime

import "fmt"

// convertAssessment copies a native assessment into an owned Assessment.
//
// A zero measure count or nil measures pointer is a valid native result (the
// engine can short-circuit before scoring) and yields an empty measures
// slice, not an error. An unrecognized measure id aborts the conversion with
// a data-integrity error - the binding and the library disagree on the ABI,
// and scores read off a wrong layout are worse than no scores.
//
// The returned Assessment holds no reference into native memory.
func convertAssessment(na nativeAssessment) (*Assessment, error) {
	out := &Assessment{OverallQuality: na.overall}
	if na.count <= 0 || na.measures == nil {
		out.Measures = []QualityMeasureResult{}
		return out, nil
	}

	arr := foreignArray{base: na.measures, count: int(na.count), stride: measureResultStride}
	measures := make([]QualityMeasureResult, 0, arr.count)

	for i := 0; i < arr.count; i++ {
		p, err := arr.elem(i)
		if err != nil {
			return nil, err
		}

		id := readInt32(p, measureResultOffID)
		measure, known := MeasureFromID(id)
		if !known {
			return nil, &OfiqError{
				Op:      "convertAssessment",
				Code:    -1,
				Message: fmt.Sprintf("unknown measure id 0x%x at index %d", id, i),
				Err:     ErrDataIntegrity,
			}
		}

		r := QualityMeasureResult{
			Measure:      measure,
			RawScore:     readFloat64(p, measureResultOffRaw),
			QualityValue: readFloat64(p, measureResultOffQuality),
			Code:         ReturnCode(readInt32(p, measureResultOffCode)),
		}
		if !r.IsSuccess() {
			// Not-computed sentinel: both scores become NaN regardless of
			// whatever the native side left in the fields.
			r.RawScore = failureScore()
			r.QualityValue = failureScore()
		}
		measures = append(measures, r)
	}

	out.Measures = measures
	return out, nil
}

// convertPreprocessing copies native preprocessing artifacts into an owned
// Preprocessing. Empty face or landmark arrays are valid (no face detected).
func convertPreprocessing(np nativePreprocessing) (*Preprocessing, error) {
	out := &Preprocessing{
		Faces:     []FaceBox{},
		Landmarks: []Landmark{},
		Pose:      HeadPose{Yaw: np.yaw, Pitch: np.pitch, Roll: np.roll},
	}

	if np.faceCount > 0 && np.faces != nil {
		arr := foreignArray{base: np.faces, count: int(np.faceCount), stride: faceBoxStride}
		faces := make([]FaceBox, 0, arr.count)
		for i := 0; i < arr.count; i++ {
			p, err := arr.elem(i)
			if err != nil {
				return nil, err
			}
			faces = append(faces, FaceBox{
				X:      int(readInt32(p, faceBoxOffX)),
				Y:      int(readInt32(p, faceBoxOffY)),
				Width:  int(readInt32(p, faceBoxOffWidth)),
				Height: int(readInt32(p, faceBoxOffHeight)),
			})
		}
		out.Faces = faces
	}

	if np.landmarkCount > 0 && np.landmarks != nil {
		arr := foreignArray{base: np.landmarks, count: int(np.landmarkCount), stride: landmarkStride}
		landmarks := make([]Landmark, 0, arr.count)
		for i := 0; i < arr.count; i++ {
			p, err := arr.elem(i)
			if err != nil {
				return nil, err
			}
			landmarks = append(landmarks, Landmark{
				X: readFloat32(p, landmarkOffX),
				Y: readFloat32(p, landmarkOffY),
			})
		}
		out.Landmarks = landmarks
	}

	return out, nil
}
