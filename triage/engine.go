package triage

import (
    "strconv"
    "strings"

    "screening-service/models"
)

// Input carries the raw intake fields the rule cascade inspects. BP
// values stay as the raw strings the patient typed; parsing happens
// inside the crisis check so a malformed value fails the comparison
// instead of erroring.
type Input struct {
    Age                int
    Gender             string
    Symptoms           string
    BPSystolic         string
    BPDiastolic        string
    ExistingConditions []string
    ScreeningAnswers   map[string]bool
}

// emergencyKeywords is the fixed phrase set scanned case-insensitively
// in the free-text symptoms.
var emergencyKeywords = []string{
    "chest pain",
    "can't breathe",
    "difficulty breathing",
    "bleeding heavily",
    "unconscious",
    "seizure",
    "face drooping",
    "slurred speech",
}

// Evaluate runs the safety checks in fixed priority order and returns
// the first matching verdict, or nil when the case is safe to hand to
// the inference service. Verdicts are total: they are never merged
// with model output.
//
// Known behavior: a blood pressure value that does not parse as an
// integer (e.g. "180a") is treated as absent and silently skips the
// crisis check rather than raising an error.
func Evaluate(in Input) *models.AIDiagnosis {
    // 1. Pediatric check
    if in.Age > 0 && in.Age < 12 {
        return pediatricVerdict()
    }

    // 2. Hypertensive crisis check
    sys, sysErr := strconv.Atoi(strings.TrimSpace(in.BPSystolic))
    dia, diaErr := strconv.Atoi(strings.TrimSpace(in.BPDiastolic))
    if (sysErr == nil && sys >= 180) || (diaErr == nil && dia >= 120) {
        return hypertensiveCrisisVerdict()
    }

    // 3. Pregnancy check. The condition token match is case-sensitive,
    // the free-text match is not.
    lowerSymptoms := strings.ToLower(in.Symptoms)
    if containsCondition(in.ExistingConditions, "pregnant") || strings.Contains(lowerSymptoms, "pregnant") {
        return obstetricVerdict()
    }

    // 4. Emergency keyword / screening check
    hasBreathingDifficulty := in.ScreeningAnswers["difficulty_breathing"]
    for _, k := range emergencyKeywords {
        if strings.Contains(lowerSymptoms, k) {
            return emergencyVerdict()
        }
    }
    if hasBreathingDifficulty {
        return emergencyVerdict()
    }

    return nil
}

func containsCondition(conditions []string, token string) bool {
    for _, c := range conditions {
        if c == token {
            return true
        }
    }
    return false
}

func pediatricVerdict() *models.AIDiagnosis {
    return &models.AIDiagnosis{
        Confidence: 0,
        Diagnosis:  models.Diagnosis{Primary: "Pediatric Evaluation Required", Differential: []string{}},
        Analysis:   "HealthDost AI is optimized for adult screening. Children require high-fidelity examination by a qualified pediatrician due to distinct physiological needs.",
        Prescription: models.Prescription{
            Medicines:    []models.Medicine{},
            HomeRemedies: []string{"Maintain hydration", "Monitor temperature hourly"},
        },
        Precautions:               []string{"No OTC drugs for children without doctor's consent"},
        WhenToSeekDoctor:          []string{"Fever > 102°F", "Lethargy", "Decreased urination"},
        RecommendedSpecialization: "Pediatrician",
        UrgencyLevel:              "urgent",
    }
}

func hypertensiveCrisisVerdict() *models.AIDiagnosis {
    return &models.AIDiagnosis{
        Confidence: 100,
        Diagnosis:  models.Diagnosis{Primary: "Hypertensive Emergency / Crisis", Differential: []string{}},
        Analysis:   "CRITICAL: Your blood pressure is dangerously high (Hypertensive Crisis). This level of BP can cause immediate organ damage (stroke, heart attack, or kidney failure).",
        Prescription: models.Prescription{
            Medicines:    []models.Medicine{},
            HomeRemedies: []string{"Sit down quietly", "Do not panic", "Do not drink caffeine"},
        },
        Precautions:               []string{"DO NOT TAKE ANY OTC MEDICATION", "Stop all physical activity"},
        WhenToSeekDoctor:          []string{"Immediate Emergency Help Required"},
        RecommendedSpecialization: "Cardiologist",
        UrgencyLevel:              "emergency",
    }
}

func obstetricVerdict() *models.AIDiagnosis {
    return &models.AIDiagnosis{
        Confidence: 0,
        Diagnosis:  models.Diagnosis{Primary: "Obstetric Triage Required", Differential: []string{}},
        Analysis:   "Safety Protocol: Any symptoms during pregnancy require immediate verification by an OB/GYN to ensure both maternal and fetal safety.",
        Prescription: models.Prescription{
            Medicines:    []models.Medicine{},
            HomeRemedies: []string{"Rest in left lateral position", "Hydrate"},
        },
        Precautions:               []string{"Avoid all self-medication"},
        WhenToSeekDoctor:          []string{"Vaginal bleeding", "Fluid leakage", "Reduced fetal movement"},
        RecommendedSpecialization: "Gynecologist",
        UrgencyLevel:              "urgent",
    }
}

func emergencyVerdict() *models.AIDiagnosis {
    return &models.AIDiagnosis{
        Confidence: 0,
        Diagnosis:  models.Diagnosis{Primary: "Critical Clinical Emergency", Differential: []string{}},
        Analysis:   "EMERGENCY: Symptoms indicate a potentially life-threatening condition (Stroke, MI, or Respiratory Failure). Every minute counts.",
        Prescription: models.Prescription{
            Medicines:    []models.Medicine{},
            HomeRemedies: []string{},
        },
        Precautions:               []string{"IMMEDIATE HOSPITALIZATION REQUIRED", "Call 108 Emergency Service"},
        WhenToSeekDoctor:          []string{"Call Emergency Services Immediately"},
        RecommendedSpecialization: "Emergency Specialist",
        UrgencyLevel:              "emergency",
    }
}
