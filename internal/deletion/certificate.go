package deletion

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-content-vault/internal/utils"
	"github.com/MKhiriev/go-content-vault/models"
)

// buildCertificate derives the destruction certificate from a finished job.
// The self-hash covers every field of the canonical body, so re-hashing a
// stored certificate (minus the self-hash itself) must reproduce it.
func buildCertificate(job models.DeletionJob, method models.DeletionMethod, issuedAt time.Time) *models.DestructionCertificate {
	cert := models.DestructionCertificate{
		JobID:      job.ID,
		TargetID:   job.TargetID,
		Method:     method.Name,
		PassCount:  len(method.Passes),
		Patterns:   method.Passes,
		PreHash:    job.PreHash,
		PostHash:   job.PostHash,
		Verified:   job.VerificationToken != "",
		StartedAt:  job.StartedAt,
		FinishedAt: job.FinishedAt,
		IssuedAt:   issuedAt,
	}
	cert.SelfHash = CertificateSelfHash(cert)
	return &cert
}

// CertificateSelfHash computes the tamper-evidence hash over the canonical
// certificate body, excluding the SelfHash field.
func CertificateSelfHash(c models.DestructionCertificate) string {
	return utils.ChainHash(
		[]byte(c.JobID),
		[]byte(c.TargetID),
		[]byte(c.Method),
		[]byte(strconv.Itoa(c.PassCount)),
		[]byte(canonicalPatterns(c.Patterns)),
		[]byte(c.PreHash),
		[]byte(c.PostHash),
		[]byte(strconv.FormatBool(c.Verified)),
		[]byte(strconv.FormatInt(c.StartedAt.UnixNano(), 10)),
		[]byte(strconv.FormatInt(c.FinishedAt.UnixNano(), 10)),
		[]byte(strconv.FormatInt(c.IssuedAt.UnixNano(), 10)),
	)
}

// buildReport derives the compliance report for a finished job, successful
// or not. Reports carry the same self-hash scheme as certificates.
func buildReport(job models.DeletionJob, method models.DeletionMethod, generatedAt time.Time) *models.ComplianceReport {
	report := models.ComplianceReport{
		JobID:       job.ID,
		TargetID:    job.TargetID,
		Method:      method.Name,
		Status:      job.Status,
		Duration:    job.FinishedAt.Sub(job.StartedAt).String(),
		PreHash:     job.PreHash,
		PostHash:    job.PostHash,
		GeneratedAt: generatedAt,
	}
	report.SelfHash = ReportSelfHash(report)
	return &report
}

// ReportSelfHash computes the tamper-evidence hash over the canonical
// report body, excluding the SelfHash field.
func ReportSelfHash(r models.ComplianceReport) string {
	return utils.ChainHash(
		[]byte(r.JobID),
		[]byte(r.TargetID),
		[]byte(r.Method),
		[]byte(r.Status),
		[]byte(r.Duration),
		[]byte(r.PreHash),
		[]byte(r.PostHash),
		[]byte(strconv.FormatInt(r.GeneratedAt.UnixNano(), 10)),
	)
}

// canonicalPatterns renders a pass list as a stable string, e.g.
// "zeros,ones,bytes:5555,random".
func canonicalPatterns(patterns []models.PassPattern) string {
	parts := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p.Kind == models.PassBytes {
			parts = append(parts, string(p.Kind)+":"+hex.EncodeToString(p.Bytes))
			continue
		}
		parts = append(parts, string(p.Kind))
	}
	return strings.Join(parts, ",")
}
