package knowledge

import "time"

func daysAgo(base time.Time, n int) time.Time {
	return base.AddDate(0, 0, -n)
}

func ptrTime(t time.Time) *time.Time { return &t }

// ConceptFixtures returns the demo medical concept set.
func ConceptFixtures() []*MedicalConcept {
	return []*MedicalConcept{
		{
			ID:          "CONCEPT_TYPHOID_FEVER",
			ConceptName: "Typhoid Fever",
			ConceptType: ConceptDiagnosis,
			Codes: map[string][]string{
				"ICD-10":       {"A01.0"},
				"ICD-11":       {"1A00.0"},
				"SNOMED_CT":    {"76495006"},
				"Layman_Terms": {"typhoid", "enteric fever"},
			},
			Description: "A bacterial infection due to Salmonella typhi that causes symptoms which may vary from mild to severe and usually begin 6 to 30 days after exposure.",
		},
		{
			ID:          "CONCEPT_ANTIBIOTIC_THERAPY",
			ConceptName: "Antibiotic Therapy",
			ConceptType: ConceptIntervention,
			Codes: map[string][]string{
				"ICD-9-CM_Procedure": {"99.21"},
				"ICD-10-PCS":         {"3E033BZ"},
				"SNOMED_CT":          {"186358002"},
				"Layman_Terms":       {"antibiotics", "meds for infection"},
			},
			Description: "Treatment using substances that kill or inhibit the growth of bacteria.",
		},
		{
			ID:          "CONCEPT_ACUTE_APPENDICITIS",
			ConceptName: "Acute Appendicitis",
			ConceptType: ConceptDiagnosis,
			Codes: map[string][]string{
				"ICD-10":       {"K35.80", "K35.2", "K35.3"},
				"ICD-11":       {"DB90.0"},
				"SNOMED_CT":    {"74492003", "195850000"},
				"Layman_Terms": {"appendicitis", "inflamed appendix"},
			},
			Description: "Inflammation of the appendix, a finger-like pouch attached to the large intestine.",
		},
		{
			ID:          "CONCEPT_APPENDECTOMY",
			ConceptName: "Appendectomy",
			ConceptType: ConceptProcedure,
			Codes: map[string][]string{
				"ICD-9-CM_Procedure": {"47.01", "47.09"},
				"ICD-10-PCS":         {"0DTJ0ZZ", "0DTJ4ZZ"},
				"CCI":                {"1.NE.53.LA"},
				"SNOMED_CT":          {"80146002"},
				"CPT":                {"44950", "44970"},
				"Layman_Terms":       {"appendix removal", "surgery for appendix"},
			},
			Description: "Surgical removal of the appendix.",
		},
		{
			ID:          "CONCEPT_AMI",
			ConceptName: "Acute Myocardial Infarction",
			ConceptType: ConceptDiagnosis,
			Codes: map[string][]string{
				"ICD-10":       {"I21.0", "I21.1", "I21.2", "I21.3", "I21.4"},
				"SNOMED_CT":    {"22298006"},
				"Layman_Terms": {"heart attack"},
			},
			Description: "Medical emergency in which the blood supply to a part of the heart is interrupted.",
		},
		{
			ID:          "CONCEPT_CABG",
			ConceptName: "Coronary Artery Bypass Graft",
			ConceptType: ConceptProcedure,
			Codes: map[string][]string{
				"ICD-9-CM_Procedure": {"36.10", "36.11", "36.12", "36.13", "36.14"},
				"ICD-10-PCS":         {"021009W", "02100AW", "02100ZW"},
				"CPT":                {"33510", "33533"},
				"SNOMED_CT":          {"232717009"},
				"Layman_Terms":       {"heart bypass surgery", "CABG"},
			},
			Description: "Surgical procedure to restore normal blood flow to an obstructed coronary artery.",
		},
		{
			ID:          "CONCEPT_MALIGNANT_LUNG_NEOPLASM",
			ConceptName: "Malignant Lung Neoplasm",
			ConceptType: ConceptDiagnosis,
			Codes: map[string][]string{
				"ICD-10":       {"C34.90"},
				"SNOMED_CT":    {"363358000"},
				"Layman_Terms": {"lung cancer"},
			},
			Description: "Cancer that originates in the tissues of the lungs or the cells lining the airways.",
		},
		{
			ID:          "CONCEPT_LOBECTOMY_LUNG",
			ConceptName: "Lobectomy of Lung",
			ConceptType: ConceptProcedure,
			Codes: map[string][]string{
				"ICD-9-CM_Procedure": {"32.4"},
				"ICD-10-PCS":         {"0BTB0ZZ"},
				"CPT":                {"32480"},
				"SNOMED_CT":          {"39214006"},
				"Layman_Terms":       {"lung lobe removal"},
			},
			Description: "Surgical removal of a lobe of the lung.",
		},
		{
			ID:          "CONCEPT_COMMON_COLD",
			ConceptName: "Common Cold",
			ConceptType: ConceptDiagnosis,
			Codes: map[string][]string{
				"ICD-10":       {"J00"},
				"SNOMED_CT":    {"82272006"},
				"Layman_Terms": {"cold", "sniffles"},
			},
			Description: "A common viral infectious disease of the upper respiratory tract.",
		},
		{
			ID:          "CONCEPT_COMPREHENSIVE_METABOLIC_PANEL",
			ConceptName: "Comprehensive Metabolic Panel",
			ConceptType: ConceptProcedure,
			Codes: map[string][]string{
				"CPT":          {"80053"},
				"SNOMED_CT":    {"271330001"},
				"Layman_Terms": {"CMP", "blood test panel"},
			},
			Description: "A blood test that measures 14 different substances in your blood. It provides important information about your body's chemical balance and metabolism.",
		},
		{
			ID:          "CONCEPT_MRI_JOINT",
			ConceptName: "MRI of Joint",
			ConceptType: ConceptProcedure,
			Codes: map[string][]string{
				"CPT":          {"73721"},
				"SNOMED_CT":    {"312857008"},
				"Layman_Terms": {"joint MRI"},
			},
			Description: "Magnetic resonance imaging of a joint to visualize soft tissues like ligaments and tendons.",
		},
	}
}

// PairingFixtures returns the demo clinical pairing set, dated relative to
// now.
func PairingFixtures(now time.Time) []*ClinicalPairing {
	return []*ClinicalPairing{
		{
			ID:               "PAIR_TYPHOID_ANTIBIOTICS",
			PrimaryConceptID: "CONCEPT_TYPHOID_FEVER",
			RelatedConceptID: "CONCEPT_ANTIBIOTIC_THERAPY",
			PairingCategory:  "Medical Management",
			RelationshipType: RelTreatmentFor,
			IsCritical:       false,
			CommonalityScore: 0.95,
			ConfidenceScore:  0.98,
			SourceType:       []string{"Clinical Guideline", "Expert Consensus"},
			SourceDetails:    []string{"WHO Guidelines on Typhoid", "Infectious Disease Society Recommendations"},
			Notes:            "Primary treatment. Specific antibiotic choice may vary based on local resistance patterns.",
			LastReviewed:     ptrTime(daysAgo(now, 30)),
			Status:           PairingActive,
		},
		{
			ID:                "PAIR_APPENDICITIS_APPENDECTOMY",
			PrimaryConceptID:  "CONCEPT_ACUTE_APPENDICITIS",
			RelatedConceptID:  "CONCEPT_APPENDECTOMY",
			PairingCategory:   "Surgical Intervention",
			RelationshipType:  RelTreatmentFor,
			IsCritical:        true,
			CriticalityReason: "Acute appendicitis often requires prompt surgical removal to prevent rupture and peritonitis.",
			CommonalityScore:  0.99,
			ConfidenceScore:   0.99,
			SourceType:        []string{"Clinical Guideline", "Surgical Textbooks"},
			SourceDetails:     []string{"American College of Surgeons Guidelines", "Schwartz's Principles of Surgery"},
			Notes:             "Appendectomy is the standard treatment for acute appendicitis.",
			LastReviewed:      ptrTime(daysAgo(now, 15)),
			Status:            PairingActive,
		},
		{
			ID:                "PAIR_AMI_CABG",
			PrimaryConceptID:  "CONCEPT_AMI",
			RelatedConceptID:  "CONCEPT_CABG",
			PairingCategory:   "Surgical Intervention",
			RelationshipType:  RelTreatmentFor,
			IsCritical:        true,
			CriticalityReason: "Acute Myocardial Infarction (especially STEMI) may require urgent CABG if percutaneous coronary intervention (PCI) is not suitable or fails, or if there is extensive coronary artery disease.",
			CommonalityScore:  0.60,
			ConfidenceScore:   0.90,
			SourceType:        []string{"Clinical Guideline", "Cardiology Expert Consensus"},
			SourceDetails:     []string{"ACC/AHA Guidelines for STEMI Management"},
			Notes:             "CABG is a critical intervention for specific AMI cases.",
			LastReviewed:      ptrTime(daysAgo(now, 60)),
			Status:            PairingActive,
		},
		{
			ID:                "PAIR_LUNG_CANCER_LOBECTOMY",
			PrimaryConceptID:  "CONCEPT_MALIGNANT_LUNG_NEOPLASM",
			RelatedConceptID:  "CONCEPT_LOBECTOMY_LUNG",
			PairingCategory:   "Surgical Intervention",
			RelationshipType:  RelTreatmentFor,
			IsCritical:        true,
			CriticalityReason: "Malignant lung neoplasm often requires surgical resection like lobectomy for curative intent in suitable candidates.",
			CommonalityScore:  0.70,
			ConfidenceScore:   0.95,
			SourceType:        []string{"Oncology Clinical Guideline", "Thoracic Surgery Standards"},
			SourceDetails:     []string{"NCCN Guidelines for Non-Small Cell Lung Cancer"},
			Notes:             "Lobectomy is a common surgical treatment for early-stage lung cancer.",
			LastReviewed:      ptrTime(daysAgo(now, 45)),
			Status:            PairingActive,
		},
	}
}

// FindingFixtures returns the demo critical findings log.
func FindingFixtures(now time.Time) []*CriticalFinding {
	return []*CriticalFinding{
		{
			ID:                "cf-001",
			AssessedOn:        daysAgo(now, 2),
			DiagnosisInfo:     []string{"ICD-10: I21.3"},
			ProcedureInfo:     []string{"ICD-9-CM: 36.10"},
			Reason:            "Acute STEMI diagnosis (mapped from I21.3) paired with coronary artery bypass graft procedure (mapped from 36.10) indicates a highly urgent and life-threatening situation.",
			Source:            SourceAIAssessment,
			ClaimID:           "CN-2025-05-006",
			ClinicalPairingID: "PAIR_AMI_CABG",
		},
		{
			ID:            "cf-002",
			AssessedOn:    daysAgo(now, 5),
			DiagnosisInfo: []string{"SNOMED_CT: C34.90"},
			ProcedureInfo: []string{"ICD-9-CM: 32.5"},
			Reason:        "Diagnosis of lung cancer concept (mapped from C34.90) combined with a major surgical procedure concept like lobectomy (mapped from 32.5) signifies a complex and severe condition.",
			Source:        SourceAIAssessment,
		},
		{
			ID:            "cf-003",
			AssessedOn:    daysAgo(now, 10),
			DiagnosisInfo: []string{"Layman: Traumatic brain injury"},
			ProcedureInfo: []string{"Term: Cranial sinus drainage"},
			Reason:        "Traumatic brain injury concept paired with surgical intervention on the cranial sinus points to a critical emergency.",
			Source:        SourceManualEntry,
		},
		{
			ID:            "cf-004",
			AssessedOn:    daysAgo(now, 1),
			DiagnosisInfo: []string{"ICD-10: N18.6"},
			ProcedureInfo: []string{"Intervention: Hemodialysis"},
			Reason:        "End-stage renal disease concept requiring hemodialysis represents a chronic, life-sustaining treatment for a critical organ failure.",
			Source:        SourceSystemRule,
		},
	}
}
