// Package ofiqruntime provides Go bindings to the OFIQ native library.
// This file contains the quality-measure enumeration defined by ISO/IEC 29794-5.
package ofiqruntime

import "fmt"

// QualityMeasure identifies one scored facial-image attribute.
// The numeric values are the measure ids used by ofiq_lib on the wire; they
// must not be renumbered.
type QualityMeasure int32

// Quality measures per ISO/IEC 29794-5, in the id order ofiq_lib assigns them.
const (
	MeasureUnifiedQualityScore      QualityMeasure = 0x41
	MeasureBackgroundUniformity     QualityMeasure = 0x42
	MeasureIlluminationUniformity   QualityMeasure = 0x43
	MeasureLuminanceMean            QualityMeasure = 0x44
	MeasureLuminanceVariance        QualityMeasure = 0x45
	MeasureUnderExposurePrevention  QualityMeasure = 0x46
	MeasureOverExposurePrevention   QualityMeasure = 0x47
	MeasureDynamicRange             QualityMeasure = 0x48
	MeasureSharpness                QualityMeasure = 0x49
	MeasureCompressionArtifacts     QualityMeasure = 0x4a
	MeasureNaturalColour            QualityMeasure = 0x4b
	MeasureSingleFacePresent        QualityMeasure = 0x4c
	MeasureEyesOpen                 QualityMeasure = 0x4d
	MeasureMouthClosed              QualityMeasure = 0x4e
	MeasureEyesVisible              QualityMeasure = 0x4f
	MeasureMouthOcclusionPrevention QualityMeasure = 0x50
	MeasureFaceOcclusionPrevention  QualityMeasure = 0x51
	MeasureInterEyeDistance         QualityMeasure = 0x52
	MeasureHeadSize                 QualityMeasure = 0x53
	MeasureLeftwardCrop             QualityMeasure = 0x54
	MeasureRightwardCrop            QualityMeasure = 0x55
	MeasureMarginAbove              QualityMeasure = 0x56
	MeasureMarginBelow              QualityMeasure = 0x57
	MeasureHeadPoseYaw              QualityMeasure = 0x58
	MeasureHeadPosePitch            QualityMeasure = 0x59
	MeasureHeadPoseRoll             QualityMeasure = 0x5a
	MeasureExpressionNeutrality     QualityMeasure = 0x5b
	MeasureNoHeadCoverings          QualityMeasure = 0x5c
)

// measureNames maps each known measure id to its display name.
// A native measure id missing from this table is a data-integrity error,
// not something to drop silently.
var measureNames = map[QualityMeasure]string{
	MeasureUnifiedQualityScore:      "UnifiedQualityScore",
	MeasureBackgroundUniformity:     "BackgroundUniformity",
	MeasureIlluminationUniformity:   "IlluminationUniformity",
	MeasureLuminanceMean:            "LuminanceMean",
	MeasureLuminanceVariance:        "LuminanceVariance",
	MeasureUnderExposurePrevention:  "UnderExposurePrevention",
	MeasureOverExposurePrevention:   "OverExposurePrevention",
	MeasureDynamicRange:             "DynamicRange",
	MeasureSharpness:                "Sharpness",
	MeasureCompressionArtifacts:     "CompressionArtifacts",
	MeasureNaturalColour:            "NaturalColour",
	MeasureSingleFacePresent:        "SingleFacePresent",
	MeasureEyesOpen:                 "EyesOpen",
	MeasureMouthClosed:              "MouthClosed",
	MeasureEyesVisible:              "EyesVisible",
	MeasureMouthOcclusionPrevention: "MouthOcclusionPrevention",
	MeasureFaceOcclusionPrevention:  "FaceOcclusionPrevention",
	MeasureInterEyeDistance:         "InterEyeDistance",
	MeasureHeadSize:                 "HeadSize",
	MeasureLeftwardCrop:             "LeftwardCropOfTheFaceImage",
	MeasureRightwardCrop:            "RightwardCropOfTheFaceImage",
	MeasureMarginAbove:              "MarginAboveOfTheFaceImage",
	MeasureMarginBelow:              "MarginBelowOfTheFaceImage",
	MeasureHeadPoseYaw:              "HeadPoseYaw",
	MeasureHeadPosePitch:            "HeadPosePitch",
	MeasureHeadPoseRoll:             "HeadPoseRoll",
	MeasureExpressionNeutrality:     "ExpressionNeutrality",
	MeasureNoHeadCoverings:          "NoHeadCoverings",
}

// MeasureFromID maps a native measure id to the QualityMeasure enumeration.
// The second return value reports whether the id is known.
func MeasureFromID(id int32) (QualityMeasure, bool) {
	m := QualityMeasure(id)
	_, ok := measureNames[m]
	return m, ok
}

// String returns the display name of the measure.
// Unknown values format as "QualityMeasure(0xNN)".
func (m QualityMeasure) String() string {
	if name, ok := measureNames[m]; ok {
		return name
	}
	return fmt.Sprintf("QualityMeasure(0x%x)", int32(m))
}

// KnownMeasureCount returns the number of measures this binding recognizes.
func KnownMeasureCount() int {
	return len(measureNames)
}
