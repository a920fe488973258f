package models

// ScreeningInput is the normalized payload built once at the analysis
// boundary. The symptoms field is a composite narrative (free text plus
// the raw BP reading and the positive screening markers) so the rule
// layer and the inference service see exactly the same signal.
type ScreeningInput struct {
    Age                int      `json:"age"`
    Gender             string   `json:"gender"`
    Symptoms           string   `json:"symptoms"`
    Duration           string   `json:"duration"`
    Severity           string   `json:"severity"`
    ExistingConditions []string `json:"existingConditions"`
    CurrentMedications string   `json:"currentMedications"`
}

type Medicine struct {
    Name        string `json:"name"`
    Dosage      string `json:"dosage"`
    Duration    string `json:"duration"`
    Purpose     string `json:"purpose"`
    Precautions string `json:"precautions"`
}

type Diagnosis struct {
    Primary      string   `json:"primary"`
    Differential []string `json:"differential"`
}

type Prescription struct {
    Medicines    []Medicine `json:"medicines"`
    HomeRemedies []string   `json:"homeRemedies"`
}

// AIDiagnosis is the screening result. It is produced either by the
// triage rule layer (fixed verdicts, empty medicines) or by the remote
// inference service; the two are never merged.
type AIDiagnosis struct {
    Confidence                int          `json:"confidence"`
    Diagnosis                 Diagnosis    `json:"diagnosis"`
    Analysis                  string       `json:"analysis"`
    Prescription              Prescription `json:"prescription"`
    Precautions               []string     `json:"precautions"`
    WhenToSeekDoctor          []string     `json:"whenToSeekDoctor"`
    RecommendedSpecialization string       `json:"recommendedSpecialization"`
    UrgencyLevel              string       `json:"urgencyLevel"`
}

// Draft mirrors the in-progress intake form, keyed per identity.
type Draft struct {
    Symptoms         string          `json:"symptoms"`
    Duration         string          `json:"duration"`
    Severity         string          `json:"severity"`
    BPSys            string          `json:"bpSys"`
    BPDia            string          `json:"bpDia"`
    ScreeningAnswers map[string]bool `json:"screeningAnswers"`
    Medications      string          `json:"medications"`
    Conditions       []string        `json:"conditions"`
}
