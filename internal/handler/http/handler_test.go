package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-content-vault/internal/audit"
	"github.com/MKhiriev/go-content-vault/internal/crypto"
	"github.com/MKhiriev/go-content-vault/internal/deletion"
	"github.com/MKhiriev/go-content-vault/internal/logger"
	"github.com/MKhiriev/go-content-vault/internal/quarantine"
	"github.com/MKhiriev/go-content-vault/internal/store"
	"github.com/MKhiriev/go-content-vault/internal/utils"
	"github.com/MKhiriev/go-content-vault/internal/vault"
	"github.com/MKhiriev/go-content-vault/models"
)

// testClassifier — управляемый классификатор для тестов API.
type testClassifier struct {
	verdict models.Verdict
	err     error
}

func (c testClassifier) Analyze(context.Context, []byte, string) (models.Verdict, error) {
	if c.err != nil {
		return models.Verdict{}, c.err
	}
	return c.verdict, nil
}

type testAPI struct {
	handler *Handler
	router  *chi.Mux
	token   string
}

const (
	testPassphrase = "vault-passphrase"
	testSignKey    = "test-sign-key"
	testIssuer     = "content-vault-test"
)

// newTestAPI собирает полный стек (vault + engine + deleter + ledger) поверх
// in-memory хранилищ и возвращает готовый роутер с валидным токеном.
func newTestAPI(t *testing.T, cls testClassifier, cfg quarantine.Config) *testAPI {
	t.Helper()

	ledger := audit.NewLedger(nil, logger.Nop())
	blobs := store.NewMemoryBlobStore()
	deleter := deletion.NewService(blobs, ledger, deletion.Config{}, logger.Nop())

	v := vault.NewService(store.NewMemoryCatalog(), blobs, crypto.NewGCMEngine(),
		crypto.NewLocalKeyProvider(testPassphrase, []byte("0123456789abcdef")),
		deleter, ledger, vault.Config{}, logger.Nop())
	require.NoError(t, v.Initialize(context.Background()))

	engine := quarantine.NewEngine(v, cls, store.NewMemoryEvents(), nil, cfg, logger.Nop())

	h := NewHandler(v, engine, deleter, ledger, Settings{
		Version:       "test",
		Passphrase:    testPassphrase,
		TokenSignKey:  testSignKey,
		TokenIssuer:   testIssuer,
		TokenDuration: time.Hour,
	}, logger.Nop())

	token, err := utils.GenerateJWTToken(testIssuer, "tester", time.Hour, testSignKey)
	require.NoError(t, err)

	return &testAPI{handler: h, router: h.Init(), token: token}
}

// do выполняет запрос с авторизацией и JSON-телом.
func (a *testAPI) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Authorization", "Bearer "+a.token)
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v))
	return v
}

func (a *testAPI) addItem(t *testing.T, name string, content []byte, scan bool) models.AddItemResponse {
	t.Helper()
	rr := a.do(t, http.MethodPost, "/api/items", models.AddItemRequest{
		Name: name, Content: content, Scan: scan,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decodeBody[models.AddItemResponse](t, rr)
}
