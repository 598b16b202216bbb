package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-content-vault/internal/quarantine"
	"github.com/MKhiriev/go-content-vault/models"
)

func unsafeAPI(t *testing.T) *testAPI {
	t.Helper()
	return newTestAPI(t, testClassifier{verdict: models.Verdict{
		IsUnsafe: true, Confidence: 0.9, Categories: []string{"malware"}, RiskTier: models.RiskTierHigh,
	}}, quarantine.Config{QuarantineThreshold: 0.7})
}

func TestEvents_ListAndGet(t *testing.T) {
	api := unsafeAPI(t)

	rr := api.do(t, http.MethodPost, "/api/items", models.AddItemRequest{
		Name: "bad.bin", Content: []byte("x"), Scan: true,
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	added := decodeBody[models.AddItemResponse](t, rr)
	require.NotNil(t, added.Event)

	rr = api.do(t, http.MethodGet, "/api/events", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	events := decodeBody[[]models.QuarantineEvent](t, rr)
	require.Len(t, events, 1)

	rr = api.do(t, http.MethodGet, "/api/events/"+added.Event.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	event := decodeBody[models.QuarantineEvent](t, rr)
	assert.Equal(t, added.ItemID, event.ItemID)

	rr = api.do(t, http.MethodGet, "/api/events/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestEvents_ReviewRelease(t *testing.T) {
	api := unsafeAPI(t)

	rr := api.do(t, http.MethodPost, "/api/items", models.AddItemRequest{
		Name: "fp.bin", Content: []byte("x"), Scan: true,
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	added := decodeBody[models.AddItemResponse](t, rr)

	rr = api.do(t, http.MethodPost, "/api/events/"+added.Event.ID+"/review", models.ReviewRequest{
		Outcome: "release", Notes: "false positive",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	event := decodeBody[models.QuarantineEvent](t, rr)
	assert.Equal(t, models.ActionReleased, event.Action)
	require.NotNil(t, event.Review)
	// рецензент берётся из токена, а не из тела запроса
	assert.Equal(t, "tester", event.Review.Reviewer)

	// элемент снова доступен
	rr = api.do(t, http.MethodGet, "/api/items/"+added.ItemID, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	// повторное ревью отклоняется
	rr = api.do(t, http.MethodPost, "/api/events/"+added.Event.ID+"/review", models.ReviewRequest{Outcome: "uphold"})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestEvents_ReviewUnknownOutcome(t *testing.T) {
	api := unsafeAPI(t)

	rr := api.do(t, http.MethodPost, "/api/items", models.AddItemRequest{
		Name: "bad.bin", Content: []byte("x"), Scan: true,
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	added := decodeBody[models.AddItemResponse](t, rr)

	rr = api.do(t, http.MethodPost, "/api/events/"+added.Event.ID+"/review", models.ReviewRequest{Outcome: "shrug"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPolicies_ListUpsertToggle(t *testing.T) {
	api := newTestAPI(t, testClassifier{}, quarantine.Config{})

	rr := api.do(t, http.MethodGet, "/api/policies", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	policies := decodeBody[[]models.SafetyPolicy](t, rr)
	require.NotEmpty(t, policies)

	rr = api.do(t, http.MethodPut, "/api/policies/custom-rule", models.SafetyPolicy{
		Name:     "custom",
		Priority: 10,
		Enabled:  true,
	})
	require.Equal(t, http.StatusOK, rr.Code)
	saved := decodeBody[models.SafetyPolicy](t, rr)
	assert.Equal(t, "custom-rule", saved.ID)

	rr = api.do(t, http.MethodPatch, "/api/policies/custom-rule", map[string]bool{"enabled": false})
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = api.do(t, http.MethodPatch, "/api/policies/no-such-policy", map[string]bool{"enabled": true})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRescan_AppliesNewPolicy(t *testing.T) {
	api := newTestAPI(t, testClassifier{verdict: models.Verdict{
		IsUnsafe: true, Confidence: 0.3, Categories: []string{"spyware"}, RiskTier: models.RiskTierLow,
	}}, quarantine.Config{QuarantineThreshold: 0.7})

	rr := api.do(t, http.MethodPost, "/api/items", models.AddItemRequest{
		Name: "grey.bin", Content: []byte("x"), Scan: true,
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	added := decodeBody[models.AddItemResponse](t, rr)
	require.Equal(t, models.ActionPassed, added.Event.Action)

	rr = api.do(t, http.MethodPut, "/api/policies/spyware-sweep", models.SafetyPolicy{
		Name:     "spyware sweep",
		Priority: 200,
		Enabled:  true,
		Rules: []models.SafetyRule{{
			Name:       "catch-spyware",
			Action:     models.PolicyActionQuarantine,
			Threshold:  0.2,
			Categories: []string{"spyware"},
			Enabled:    true,
		}},
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = api.do(t, http.MethodPost, "/api/rescan", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	result := decodeBody[map[string]int](t, rr)
	assert.Equal(t, 1, result["changed"])

	rr = api.do(t, http.MethodGet, "/api/items/"+added.ItemID, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
