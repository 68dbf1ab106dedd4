package claims

import (
	"time"

	"github.com/google/uuid"
)

// Fixture batch identifiers, shared with the batches package fixtures.
const (
	FixtureBatchManual = "BATCH-MANUAL-20250527-001"
	FixtureBatchUpload = "BATCH-UPLOAD-20250530-001"
)

func at(base time.Time, daysAgo, hour, minute int) time.Time {
	d := base.AddDate(0, 0, -daysAgo)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, time.UTC)
}

// Fixtures returns the demo claim set, dated relative to now. Loaded by the
// seed command and by the in-memory adapter in demo mode.
func Fixtures(now time.Time) []*Claim {
	return []*Claim{
		{
			ID:               uuid.MustParse("0b54d9e2-8c1a-4f6e-9d3b-1a2b3c4d5e01"),
			ClaimNumber:      "CN-2025-05-001",
			PatientName:      "Budi Santoso",
			MemberID:         "MEM-12345",
			SubmissionDate:   at(now, 5, 9, 30),
			LastUpdateDate:   at(now, 1, 10, 5),
			Status:           StatusPendingReview,
			ProcessingStatus: ProcessingEnriched,
			RiskLevel:        RiskMedium,
			PredictedTATDays: 5,
			PolicyNumber:     "POL-ABC-001",
			PolicyHolderName: "PT Sejahtera Abadi",
			ProviderName:     "RS Harapan Kita",
			ProviderID:       "PROV-HK-001",
			ClaimAmount:      1500000,
			Currency:         "IDR",
			DiagnosisCodes: []CodedEntry{
				{Code: "J45.909", Description: "Unspecified asthma with exacerbation"},
			},
			ProcedureCodes: []CodedEntry{
				{Code: "99213", Description: "Office outpatient visit est, mod complexity"},
			},
			ClaimSource: "Manual",
			ClaimType:   "Professional (CMS-1500)",
			BatchID:     FixtureBatchManual,
			LineItems: []ClaimLineItem{
				{
					ID:                   "L001",
					ServiceDate:          at(now, 5, 0, 0),
					ProcedureCode:        "99213",
					ProcedureDescription: "Office outpatient visit, est, mod complexity",
					DiagnosisCodes:       []string{"J45.909"},
					Units:                1,
					ChargeAmount:         800000,
					Status:               "Pending",
				},
				{
					ID:                   "L002",
					ServiceDate:          at(now, 5, 0, 0),
					ProcedureCode:        "J1030",
					ProcedureDescription: "Injection, methylprednisolone acetate, 80 mg",
					DiagnosisCodes:       []string{"J45.909"},
					Units:                1,
					ChargeAmount:         700000,
					Status:               "Pending",
				},
			},
			ClaimDetailsFull:       "Patient Budi Santoso visited RS Harapan Kita for asthma exacerbation. Received consultation and medication. Claim includes doctor fees and pharmacy charges.",
			MemberDetailsContext:   "Budi Santoso, Male, 35 years old. Policy active since 2022. No recent high-value claims. Standard plan coverage.",
			ProviderDetailsContext: "RS Harapan Kita, general hospital, accredited. Moderate claim volume. No history of fraudulent activity.",
			ClaimHistorySummary:    "Previous claims: 2 minor consultations in the last 2 years, both approved quickly.",
			Documents: []Document{
				{Name: "KTP_Budi_S.pdf", URL: "#", Category: "KTP"},
				{Name: "SEP_CLAIM001_2025.pdf", URL: "#", Category: "SEP"},
				{Name: "Diagnosis_Sheet_Asthma_2025.pdf", URL: "#", Category: "Diagnosis Sheet"},
			},
			AuditTrail: []AuditEvent{
				{Timestamp: at(now, 5, 9, 30), Event: "Claim Submitted", User: "System (Portal)"},
				{Timestamp: at(now, 4, 11, 0), Event: "Initial Validation Passed", User: "Rule Engine"},
				{Timestamp: at(now, 1, 10, 5), Event: "Assigned for Data Quality Review", User: "System", Details: "Assigned to John Doe for data quality check"},
			},
			DataQualityReview: &DataQualityReview{
				Status:     ReviewNoDecision,
				Flags:      []ReviewFlag{},
				Notes:      "Awaiting data quality review.",
				ReviewedBy: "System",
				ReviewDate: ptrTime(at(now, 1, 10, 5)),
			},
		},
		{
			ID:               uuid.MustParse("0b54d9e2-8c1a-4f6e-9d3b-1a2b3c4d5e05"),
			ClaimNumber:      "CN-2025-05-005",
			PatientName:      "Agus Wijaya",
			MemberID:         "MEM-99887",
			SubmissionDate:   at(now, 7, 10, 0),
			LastUpdateDate:   at(now, 1, 15, 0),
			Status:           StatusApproved,
			ProcessingStatus: ProcessingProcessed,
			RiskLevel:        RiskHigh,
			PredictedTATDays: 2,
			PolicyNumber:     "POL-JKL-005",
			PolicyHolderName: "Warung Makan Sederhana",
			ProviderName:     "Klinik Cepat Sehat",
			ProviderID:       "PROV-KCS-005",
			ClaimAmount:      7500000,
			ApprovedAmount:   ptrFloat(7500000),
			Currency:         "IDR",
			DiagnosisCodes: []CodedEntry{
				{Code: "J00", Description: "Common cold"},
			},
			ProcedureCodes: []CodedEntry{
				{Code: "80053", Description: "Comprehensive metabolic panel"},
				{Code: "73721", Description: "MRI, lower extremity, non-contrast (ankle)"},
				{Code: "99214", Description: "Office outpatient visit, est, mod-high complexity"},
			},
			ClaimSource: "File Upload",
			ClaimType:   "Professional (CMS-1500)",
			BatchID:     FixtureBatchUpload,
			LineItems: []ClaimLineItem{
				{ID: "L005-1", ServiceDate: at(now, 7, 0, 0), ProcedureCode: "99214", DiagnosisCodes: []string{"J00"}, Units: 1, ChargeAmount: 1500000, Status: "Approved"},
				{ID: "L005-2", ServiceDate: at(now, 7, 0, 0), ProcedureCode: "80053", DiagnosisCodes: []string{"J00"}, Units: 1, ChargeAmount: 2500000, Status: "Approved"},
				{ID: "L005-3", ServiceDate: at(now, 7, 0, 0), ProcedureCode: "73721", DiagnosisCodes: []string{"J00"}, Units: 1, ChargeAmount: 3500000, Status: "Approved"},
			},
			ClaimDetailsFull:       "Patient Agus Wijaya presented with symptoms of common cold. Received office visit, comprehensive blood panel, and an MRI of the ankle. Claim submitted by Klinik Cepat Sehat.",
			MemberDetailsContext:   "Agus Wijaya, Male, 45 years old. Policy active for 5 years. Occasional minor claims for outpatient visits.",
			ProviderDetailsContext: "Klinik Cepat Sehat, new clinic with low overall volume but several recent high-cost claims for routine diagnoses.",
			ClaimHistorySummary:    "Primarily low-cost claims for common illnesses in the past.",
			Documents: []Document{
				{Name: "Referral_Scan_2025.pdf", URL: "#", Category: "Medical Record"},
			},
			AuditTrail: []AuditEvent{
				{Timestamp: at(now, 7, 10, 0), Event: "Claim Submitted via File Upload", User: "System (Batch Upload)"},
				{Timestamp: at(now, 6, 14, 30), Event: "Initial Validation Passed", User: "Rule Engine"},
				{Timestamp: at(now, 5, 9, 0), Event: "AI Enrichment Completed", User: "ClaimFlow AI"},
				{Timestamp: at(now, 1, 15, 5), Event: "Data Quality Review Flagged for FWA", User: "Analyst User (Rina)", Details: "Marked as potential waste and abuse due to unnecessary high-cost diagnostics for common cold."},
			},
			DataQualityReview: &DataQualityReview{
				Status:     ReviewFlaggedFWA,
				Flags:      []ReviewFlag{FlagPotentialWaste, FlagPotentialAbuse, FlagPatternAnomaly},
				Notes:      "Excessive and medically unnecessary diagnostic tests (CMP, MRI ankle) for a common cold (J00). High complexity visit for a simple diagnosis. This claim is not suitable for AI training as is and requires FWA investigation.",
				ReviewedBy: "Rina P. (Analyst)",
				ReviewDate: ptrTime(at(now, 1, 15, 5)),
			},
		},
		{
			ID:               uuid.MustParse("0b54d9e2-8c1a-4f6e-9d3b-1a2b3c4d5e09"),
			ClaimNumber:      "CN-2025-05-009",
			PatientName:      "Fitriani Sari",
			MemberID:         "MEM-ABUSE-001",
			SubmissionDate:   at(now, 2, 11, 20),
			LastUpdateDate:   at(now, 1, 9, 45),
			Status:           StatusFlaggedForAudit,
			ProcessingStatus: ProcessingReviewRequired,
			RiskLevel:        RiskHigh,
			PredictedTATDays: 11,
			PolicyNumber:     "POL-CORP-D-444",
			PolicyHolderName: "PT Niaga Sentosa",
			ProviderName:     "RSIA Bunda Sejati",
			ProviderID:       "PROV-RSIABS-001",
			ClaimAmount:      25000000,
			Currency:         "IDR",
			DiagnosisCodes: []CodedEntry{
				{Code: "O82.0", Description: "Caesarean delivery without indication"},
			},
			ProcedureCodes: []CodedEntry{
				{Code: "59510", Description: "Routine obstetric care including antepartum care, cesarean delivery, and postpartum care"},
				{Code: "49255", Description: "Omentectomy, epiploectomy, resection of omentum"},
			},
			ClaimSource:            "File Upload",
			ClaimType:              "Institutional (UB-04)",
			BatchID:                FixtureBatchUpload,
			ClaimDetailsFull:       "Patient Fitriani Sari underwent a cesarean section. The claim includes separate charges for the C-section and an omentectomy. Medical notes review from specialist obstetrician indicates no cord entanglement, no placenta previa, no breech presentation, suggesting a lack of strong medical indication for a C-section.",
			MedicalRecordSummary:   "EMR Note (Obstetrician Specialist): Patient requested elective C-section. Fetal monitoring normal. No cord entanglement, no placenta previa, no breech presentation observed on final ultrasound. Discussed risks/benefits with patient. Proceeded with C-section as per patient preference.",
			MemberDetailsContext:   "Fitriani Sari, Female, 29 years old. Policy active for 3 years.",
			ProviderDetailsContext: "RSIA Bunda Sejati, a maternity hospital. Has shown patterns of upcoding in the past.",
			ClaimHistorySummary:    "Previous claims for routine check-ups.",
			Documents:              []Document{},
			AuditTrail: []AuditEvent{
				{Timestamp: at(now, 2, 11, 21), Event: "Claim Ingested from File", User: "System (Batch)"},
				{Timestamp: at(now, 1, 9, 46), Event: "AI Abuse Alert: Unbundling Detected", User: "ClaimFlow AI", Details: "Omentectomy (49255) is likely bundled with C-Section (59510)."},
			},
			DataQualityReview: &DataQualityReview{
				Status:     ReviewFlaggedFWA,
				Flags:      []ReviewFlag{FlagPotentialAbuse, FlagUnbundling},
				Notes:      "AI flagged for potential abuse due to unbundling. Omentectomy (49255) is typically included in the global package for a Cesarean delivery (59510) and should not be billed separately. This has inflated the claim value above the regional average. Requires review by Medical Advisor.",
				ReviewedBy: "ClaimFlow AI",
				ReviewDate: ptrTime(at(now, 1, 9, 46)),
			},
		},
		{
			ID:               uuid.MustParse("0b54d9e2-8c1a-4f6e-9d3b-1a2b3c4d5e10"),
			ClaimNumber:      "CN-2025-05-010",
			PatientName:      "Dewi Anggraini",
			MemberID:         "MEM-ABUSE-002",
			SubmissionDate:   at(now, 2, 11, 15),
			LastUpdateDate:   at(now, 1, 16, 30),
			Status:           StatusFlaggedForAudit,
			ProcessingStatus: ProcessingReviewRequired,
			RiskLevel:        RiskHigh,
			PredictedTATDays: 11,
			PolicyNumber:     "POL-CORP-E-555",
			PolicyHolderName: "PT Jasa Konsultasi",
			ProviderName:     "Klinik Harapan Ibu",
			ProviderID:       "PROV-KHI-001",
			ClaimAmount:      25000000,
			Currency:         "IDR",
			DiagnosisCodes: []CodedEntry{
				{Code: "O82.0", Description: "Caesarean delivery without indication"},
			},
			ProcedureCodes: []CodedEntry{
				{Code: "59510", Description: "Routine obstetric care including antepartum care, cesarean delivery, and postpartum care"},
				{Code: "49255", Description: "Omentectomy, epiploectomy, resection of omentum"},
			},
			ClaimSource:            "File Upload",
			ClaimType:              "Institutional (UB-04)",
			BatchID:                FixtureBatchUpload,
			ClaimDetailsFull:       "Pasien Dewi Anggraini menjalani operasi caesar. Klaim mencakup biaya terpisah untuk C-section dan omentectomy. Catatan perawat jaga menyebutkan tidak ada indikasi medis yang jelas untuk operasi caesar.",
			MedicalRecordSummary:   "EMR Note (Nurse): Patient admitted for elective C-section. No signs of fetal distress noted in observation logs. Vital signs stable pre-op.",
			MemberDetailsContext:   "Dewi Anggraini, Wanita, 31 tahun. Polis aktif selama 2 tahun.",
			ProviderDetailsContext: "Klinik Harapan Ibu, klinik bersalin. Beberapa klaim terakhir menunjukkan pola penagihan yang tinggi.",
			ClaimHistorySummary:    "Klaim sebelumnya untuk pemeriksaan rutin.",
			Documents:              []Document{},
			AuditTrail: []AuditEvent{
				{Timestamp: at(now, 2, 11, 15), Event: "Claim Ingested from File", User: "System (Batch)"},
				{Timestamp: at(now, 1, 16, 32), Event: "AI Abuse Alert: Unbundling Detected", User: "ClaimFlow AI", Details: "Omentectomy (49255) is likely bundled with C-Section (59510). Source of medical info is from nurse notes."},
			},
			DataQualityReview: &DataQualityReview{
				Status:     ReviewFlaggedFWA,
				Flags:      []ReviewFlag{FlagPotentialAbuse, FlagUnbundling, FlagInconsistent},
				Notes:      "AI menandai potensi penyalahgunaan karena unbundling. Omentectomy (49255) biasanya termasuk dalam paket global untuk C-section (59510). Disarankan untuk meminta klarifikasi dari dokter spesialis yang bertanggung jawab.",
				ReviewedBy: "ClaimFlow AI",
				ReviewDate: ptrTime(at(now, 1, 16, 32)),
			},
		},
		{
			ID:               uuid.MustParse("0b54d9e2-8c1a-4f6e-9d3b-1a2b3c4d5e02"),
			ClaimNumber:      "CN-2025-05-002",
			PatientName:      "Siti Aminah",
			MemberID:         "MEM-67890",
			SubmissionDate:   at(now, 10, 14, 0),
			LastUpdateDate:   at(now, 2, 17, 0),
			Status:           StatusApproved,
			ProcessingStatus: ProcessingProcessed,
			RiskLevel:        RiskLow,
			PredictedTATDays: 3,
			PolicyNumber:     "POL-XYZ-002",
			PolicyHolderName: "CV Jaya Makmur",
			ProviderName:     "Klinik Sehat Selalu",
			ProviderID:       "PROV-KSS-002",
			ClaimAmount:      450000,
			ApprovedAmount:   ptrFloat(450000),
			Currency:         "IDR",
			DiagnosisCodes: []CodedEntry{
				{Code: "J00", Description: "Acute nasopharyngitis (common cold)"},
			},
			ProcedureCodes: []CodedEntry{
				{Code: "99212", Description: "Office outpatient visit, est, low complexity"},
			},
			ClaimSource:            "Manual",
			ClaimType:              "Professional (CMS-1500)",
			BatchID:                FixtureBatchManual,
			ClaimDetailsFull:       "Patient Siti Aminah visited Klinik Sehat Selalu for a common cold. Routine consultation and basic medication.",
			MemberDetailsContext:   "Siti Aminah, Female, 28 years old. Policy active for 3 years. Clean claims history.",
			ProviderDetailsContext: "Klinik Sehat Selalu, small neighborhood clinic, consistent low-cost claims.",
			ClaimHistorySummary:    "One prior claim for a dental check-up, approved.",
			Documents: []Document{
				{Name: "Invoice_SA_2025.pdf", URL: "#", Category: "Invoice"},
			},
			AuditTrail: []AuditEvent{
				{Timestamp: at(now, 10, 14, 0), Event: "Claim Submitted", User: "System (Portal)"},
				{Timestamp: at(now, 9, 10, 0), Event: "Initial Validation Passed", User: "Rule Engine"},
				{Timestamp: at(now, 2, 17, 0), Event: "Claim Approved", User: "Auto-Adjudication"},
			},
			DataQualityReview: &DataQualityReview{
				Status:     ReviewAcceptedClean,
				Flags:      []ReviewFlag{},
				Notes:      "Routine low-value claim, documentation consistent. Suitable for AI training.",
				ReviewedBy: "John Doe (Analyst)",
				ReviewDate: ptrTime(at(now, 2, 16, 45)),
			},
		},
	}
}

func ptrTime(t time.Time) *time.Time { return &t }
func ptrFloat(f float64) *float64    { return &f }
