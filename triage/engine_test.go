package triage

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func baseInput() Input {
    return Input{
        Age:                30,
        Gender:             "other",
        Symptoms:           "mild headache",
        BPSystolic:         "120",
        BPDiastolic:        "80",
        ExistingConditions: []string{"none"},
        ScreeningAnswers:   map[string]bool{},
    }
}

func TestPediatricVerdict(t *testing.T) {
    in := baseInput()
    in.Age = 8
    in.Symptoms = "fever"

    verdict := Evaluate(in)

    require.NotNil(t, verdict)
    assert.Equal(t, "Pediatric Evaluation Required", verdict.Diagnosis.Primary)
    assert.Equal(t, "Pediatrician", verdict.RecommendedSpecialization)
    assert.Equal(t, 0, verdict.Confidence)
    assert.Equal(t, "urgent", verdict.UrgencyLevel)
    assert.Empty(t, verdict.Prescription.Medicines)
}

func TestPediatricTakesPriorityOverEverything(t *testing.T) {
    in := baseInput()
    in.Age = 5
    in.Symptoms = "chest pain and can't breathe"
    in.BPSystolic = "195"
    in.BPDiastolic = "130"
    in.ExistingConditions = []string{"pregnant"}
    in.ScreeningAnswers = map[string]bool{"difficulty_breathing": true}

    verdict := Evaluate(in)

    require.NotNil(t, verdict)
    assert.Equal(t, "Pediatric Evaluation Required", verdict.Diagnosis.Primary)
}

func TestHypertensiveCrisis(t *testing.T) {
    in := baseInput()
    in.Age = 40
    in.Symptoms = "headache"
    in.BPSystolic = "190"
    in.BPDiastolic = "90"

    verdict := Evaluate(in)

    require.NotNil(t, verdict)
    assert.Equal(t, "Hypertensive Emergency / Crisis", verdict.Diagnosis.Primary)
    assert.Equal(t, "Cardiologist", verdict.RecommendedSpecialization)
    assert.Equal(t, 100, verdict.Confidence)
    assert.Equal(t, "emergency", verdict.UrgencyLevel)
    assert.Contains(t, verdict.Precautions, "DO NOT TAKE ANY OTC MEDICATION")
}

func TestHypertensiveCrisisDiastolicOnly(t *testing.T) {
    in := baseInput()
    in.BPSystolic = ""
    in.BPDiastolic = "125"

    verdict := Evaluate(in)

    require.NotNil(t, verdict)
    assert.Equal(t, "Cardiologist", verdict.RecommendedSpecialization)
}

func TestMalformedBPDoesNotFireCrisisCheck(t *testing.T) {
    in := baseInput()
    in.BPSystolic = "180a"
    in.BPDiastolic = "abc"

    assert.Nil(t, Evaluate(in))
}

func TestCrisisTakesPriorityOverPregnancy(t *testing.T) {
    in := baseInput()
    in.Symptoms = "I am pregnant and dizzy"
    in.BPSystolic = "185"

    verdict := Evaluate(in)

    require.NotNil(t, verdict)
    assert.Equal(t, "Cardiologist", verdict.RecommendedSpecialization)
}

func TestPregnancyFromSymptomTextIsCaseInsensitive(t *testing.T) {
    in := baseInput()
    in.Age = 25
    in.Symptoms = "I am PREGNANT and have nausea"

    verdict := Evaluate(in)

    require.NotNil(t, verdict)
    assert.Equal(t, "Obstetric Triage Required", verdict.Diagnosis.Primary)
    assert.Equal(t, "Gynecologist", verdict.RecommendedSpecialization)
    assert.Equal(t, "urgent", verdict.UrgencyLevel)
}

func TestPregnancyConditionTokenIsCaseSensitive(t *testing.T) {
    in := baseInput()
    in.ExistingConditions = []string{"Pregnant"}

    assert.Nil(t, Evaluate(in))

    in.ExistingConditions = []string{"pregnant"}
    verdict := Evaluate(in)
    require.NotNil(t, verdict)
    assert.Equal(t, "Gynecologist", verdict.RecommendedSpecialization)
}

func TestEmergencyKeywords(t *testing.T) {
    for _, symptoms := range []string{
        "sudden CHEST PAIN while walking",
        "my father has slurred speech and face drooping",
        "bleeding heavily since morning",
    } {
        in := baseInput()
        in.Symptoms = symptoms

        verdict := Evaluate(in)

        require.NotNil(t, verdict, "expected emergency verdict for %q", symptoms)
        assert.Equal(t, "Critical Clinical Emergency", verdict.Diagnosis.Primary)
        assert.Equal(t, "Emergency Specialist", verdict.RecommendedSpecialization)
        assert.Equal(t, "emergency", verdict.UrgencyLevel)
        assert.Empty(t, verdict.Prescription.Medicines)
        assert.Empty(t, verdict.Prescription.HomeRemedies)
    }
}

func TestBreathingScreeningFlagTriggersEmergency(t *testing.T) {
    in := baseInput()
    in.ScreeningAnswers = map[string]bool{"difficulty_breathing": true}

    verdict := Evaluate(in)

    require.NotNil(t, verdict)
    assert.Equal(t, "Critical Clinical Emergency", verdict.Diagnosis.Primary)
}

func TestBreathingScreeningFlagFalseIsSafe(t *testing.T) {
    in := baseInput()
    in.ScreeningAnswers = map[string]bool{"difficulty_breathing": false, "fever_high": true}

    assert.Nil(t, Evaluate(in))
}

func TestNoVerdictForBenignInput(t *testing.T) {
    assert.Nil(t, Evaluate(baseInput()))
}
