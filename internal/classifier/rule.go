package classifier

import (
	"bytes"
	"context"

	"github.com/MKhiriev/go-content-vault/models"
)

// Signature is one content marker the rule classifier scans for. Weight
// contributes to the verdict confidence; the highest tier among matched
// signatures becomes the verdict tier.
type Signature struct {
	Token    []byte
	Category string
	Weight   float64
	Tier     models.RiskTier
}

// ruleClassifier is the deterministic in-process implementation of
// [Classifier]. It performs case-insensitive substring matching against a
// fixed signature set; identical content always yields an identical
// verdict, which matters for the rescan sweep.
type ruleClassifier struct {
	signatures []Signature
}

// NewRuleClassifier constructs a [Classifier] over the given signatures.
// With no signatures the default set is used.
func NewRuleClassifier(signatures ...Signature) Classifier {
	if len(signatures) == 0 {
		signatures = defaultSignatures()
	}
	return &ruleClassifier{signatures: signatures}
}

// Analyze implements [Classifier]. Confidence is the sum of matched weights
// capped at 1.0; the verdict is unsafe once any signature matched.
func (r *ruleClassifier) Analyze(ctx context.Context, content []byte, contentID string) (models.Verdict, error) {
	if err := ctx.Err(); err != nil {
		return models.Verdict{}, err
	}

	lowered := bytes.ToLower(content)

	verdict := models.Verdict{RiskTier: models.RiskTierLow}
	for _, sig := range r.signatures {
		if !bytes.Contains(lowered, sig.Token) {
			continue
		}

		verdict.IsUnsafe = true
		verdict.Confidence += sig.Weight
		verdict.Categories = appendUnique(verdict.Categories, sig.Category)
		if tierRank(sig.Tier) > tierRank(verdict.RiskTier) {
			verdict.RiskTier = sig.Tier
		}
	}

	if verdict.Confidence > 1.0 {
		verdict.Confidence = 1.0
	}

	return verdict, nil
}

func defaultSignatures() []Signature {
	return []Signature{
		{Token: []byte("malware"), Category: "malware", Weight: 0.9, Tier: models.RiskTierCritical},
		{Token: []byte("exploit"), Category: "malware", Weight: 0.8, Tier: models.RiskTierHigh},
		{Token: []byte("phishing"), Category: "fraud", Weight: 0.7, Tier: models.RiskTierHigh},
		{Token: []byte("credit card dump"), Category: "pii", Weight: 0.85, Tier: models.RiskTierHigh},
		{Token: []byte("password list"), Category: "credentials", Weight: 0.6, Tier: models.RiskTierMedium},
	}
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}

func tierRank(tier models.RiskTier) int {
	switch tier {
	case models.RiskTierCritical:
		return 4
	case models.RiskTierHigh:
		return 3
	case models.RiskTierMedium:
		return 2
	case models.RiskTierLow:
		return 1
	default:
		return 0
	}
}
