package triage

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ImageAnalysis is the triage outcome for an uploaded medical image.
type ImageAnalysis struct {
	Type           string   `json:"type"`
	Findings       []string `json:"findings"`
	RiskLevel      string   `json:"risk_level"`
	Recommendation string   `json:"recommendation"`
	Confidence     float64  `json:"confidence"`
}

type imageRule struct {
	triggers []string
	analysis ImageAnalysis
}

var imageRules = []imageRule{
	{
		triggers: []string{"skin", "mole"},
		analysis: ImageAnalysis{
			Type:           "dermatology",
			Findings:       []string{"Asymmetric borders detected", "Color variation noted"},
			RiskLevel:      "medium",
			Recommendation: "Recommend dermatological review within 2 weeks",
			Confidence:     0.78,
		},
	},
	{
		triggers: []string{"eye"},
		analysis: ImageAnalysis{
			Type:           "ophthalmology",
			Findings:       []string{"Redness in conjunctiva", "No corneal involvement"},
			RiskLevel:      "low",
			Recommendation: "Consistent with allergic conjunctivitis - routine follow-up",
			Confidence:     0.85,
		},
	},
}

var generalImageAnalysis = ImageAnalysis{
	Type:           "general",
	Findings:       []string{"No immediate abnormalities detected"},
	RiskLevel:      "low",
	Recommendation: "Clinical correlation recommended",
	Confidence:     0.72,
}

// AnalyzeImage triages an upload by the keywords in its file name.
func AnalyzeImage(fileName string) (ImageAnalysis, error) {
	name, err := normalize(filepath.Base(strings.TrimSpace(fileName)))
	if err != nil {
		return ImageAnalysis{}, err
	}
	if name == "." || name == "/" {
		return ImageAnalysis{}, fmt.Errorf("%w: file name is empty", ErrInvalidInput)
	}

	analysis := generalImageAnalysis
	for _, r := range imageRules {
		if containsAny(name, r.triggers) {
			analysis = r.analysis
			break
		}
	}
	analysis.Findings = append([]string(nil), analysis.Findings...)
	return analysis, nil
}
