//go:build unit
// +build unit

package v1

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/crypto"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/keys"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/pkg/async"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*gin.Engine, *MockSubtleCrypto, *MockKeyringService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := new(MockSubtleCrypto)
	keyringService := new(MockKeyringService)

	r := gin.New()
	SetupRoutes(r, engine, keyringService)
	return r, engine, keyringService
}

func serve(r *gin.Engine, method, url, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func testKey(t *testing.T, usages ...crypto.KeyUsage) *crypto.CryptoKey {
	t.Helper()
	handle, err := crypto.NewAESHandle(make([]byte, 16))
	require.NoError(t, err)
	key, err := crypto.NewCryptoKey(crypto.CryptoKeyParams{
		Type:        crypto.KeyTypeSecret,
		Extractable: true,
		Algorithm:   crypto.KeyAlgorithm{Name: crypto.AlgorithmAESCBC, Length: 128},
		Usages:      usages,
		Handle:      handle,
	})
	require.NoError(t, err)
	return key
}

func testKeyMeta() *keys.KeyMeta {
	return &keys.KeyMeta{
		ID:              uuid.NewString(),
		Name:            "orders",
		Algorithm:       crypto.AlgorithmAESCBC,
		KeySize:         256,
		Type:            "secret",
		Extractable:     true,
		Usages:          []string{"encrypt", "decrypt"},
		DateTimeCreated: time.Now(),
	}
}

func TestSubtleHandler_Digest(t *testing.T) {
	r, engine, _ := setupRouter(t)

	engine.On("Digest", mock.Anything, crypto.AlgorithmName("SHA-256"), []byte("abc")).
		Return(async.Resolved([]byte{0xde, 0xad}))

	w := serve(r, http.MethodPost, "/api/v1/subtle/digest", `{"algorithm":"SHA-256","data":"YWJj"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":"3q0="}`, w.Body.String())
	engine.AssertExpectations(t)
}

func TestSubtleHandler_Digest_AlgorithmObject(t *testing.T) {
	r, engine, _ := setupRouter(t)

	engine.On("Digest", mock.Anything, crypto.AlgorithmObject(map[string]any{"name": "sha-1"}), []byte(nil)).
		Return(async.Resolved([]byte{1}))

	w := serve(r, http.MethodPost, "/api/v1/subtle/digest", `{"algorithm":{"name":"sha-1"}}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSubtleHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"not supported", fmt.Errorf("%w: MD5", crypto.ErrNotSupported), http.StatusNotImplemented, "NotSupportedError"},
		{"syntax", fmt.Errorf("%w: bad", crypto.ErrSyntax), http.StatusBadRequest, "SyntaxError"},
		{"data", fmt.Errorf("%w: bad", crypto.ErrData), http.StatusBadRequest, "DataError"},
		{"operation", fmt.Errorf("%w: bad", crypto.ErrOperation), http.StatusUnprocessableEntity, "OperationError"},
		{"invalid access", fmt.Errorf("%w: bad", crypto.ErrInvalidAccess), http.StatusForbidden, "InvalidAccessError"},
		{"outside taxonomy", errors.New("entropy exhausted"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, engine, _ := setupRouter(t)
			engine.On("Digest", mock.Anything, mock.Anything, mock.Anything).Return(async.Rejected[[]byte](tt.err))

			w := serve(r, http.MethodPost, "/api/v1/subtle/digest", `{"algorithm":"MD5","data":""}`)

			assert.Equal(t, tt.status, w.Code)
			var response ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.kind, response.Kind)
			assert.NotEmpty(t, response.Message)
		})
	}
}

func TestSubtleHandler_Digest_InvalidBody(t *testing.T) {
	r, _, _ := setupRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"algorithm":`},
		{"missing algorithm", `{"data":"YWJj"}`},
		{"data not base64", `{"algorithm":"SHA-256","data":"%%%"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, http.MethodPost, "/api/v1/subtle/digest", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	w := serve(r, http.MethodPost, "/api/v1/subtle/digest", `{"algorithm":42}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "SyntaxError")
}

func TestSubtleHandler_Encrypt(t *testing.T) {
	r, engine, keyringService := setupRouter(t)

	keyID := uuid.NewString()
	key := testKey(t, crypto.UsageEncrypt)
	keyringService.On("Load", mock.Anything, keyID).Return(key, nil)
	engine.On("Encrypt", mock.Anything, mock.Anything, key, []byte("hello")).Return(async.Resolved([]byte("cipher")))

	body := fmt.Sprintf(`{"keyId":%q,"algorithm":{"name":"AES-CBC","iv":"AAECAwQFBgcICQoLDA0ODw=="},"data":"aGVsbG8="}`, keyID)
	w := serve(r, http.MethodPost, "/api/v1/subtle/encrypt", body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":"Y2lwaGVy"}`, w.Body.String())

	algorithm := engine.Calls[0].Arguments.Get(1).(crypto.AlgorithmIdentifier)
	assert.Equal(t, "AES-CBC", algorithm.Members()["name"])
	keyringService.AssertExpectations(t)
}

func TestSubtleHandler_Decrypt_KeyNotFound(t *testing.T) {
	r, engine, keyringService := setupRouter(t)

	keyID := uuid.NewString()
	keyringService.On("Load", mock.Anything, keyID).Return(nil, fmt.Errorf("%w: %s", keys.ErrKeyNotFound, keyID))

	body := fmt.Sprintf(`{"keyId":%q,"algorithm":{"name":"AES-CBC","iv":"AAECAwQFBgcICQoLDA0ODw=="},"data":"aGVsbG8="}`, keyID)
	w := serve(r, http.MethodPost, "/api/v1/subtle/decrypt", body)

	assert.Equal(t, http.StatusNotFound, w.Code)
	engine.AssertNotCalled(t, "Decrypt", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubtleHandler_Encrypt_InvalidKeyID(t *testing.T) {
	r, _, keyringService := setupRouter(t)

	w := serve(r, http.MethodPost, "/api/v1/subtle/encrypt", `{"keyId":"nope","algorithm":"AES-CBC","data":""}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	keyringService.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
}

func TestSubtleHandler_DeriveBits(t *testing.T) {
	r, engine, _ := setupRouter(t)

	key := testKey(t, crypto.UsageDeriveBits)
	length := uint32(128)
	engine.On("ImportKey", mock.Anything, crypto.KeyFormatRaw, crypto.RawKeyData([]byte("password")), crypto.AlgorithmName(crypto.AlgorithmPBKDF2), false, []crypto.KeyUsage{crypto.UsageDeriveBits}).
		Return(async.Resolved(key))
	engine.On("DeriveBits", mock.Anything, mock.Anything, key, &length).Return(async.Resolved([]byte{0xff}))

	body := `{"password":"cGFzc3dvcmQ=","algorithm":{"name":"PBKDF2","salt":"c2FsdA==","iterations":1000,"hash":"SHA-256"},"length":128}`
	w := serve(r, http.MethodPost, "/api/v1/subtle/derive-bits", body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":"/w=="}`, w.Body.String())
	engine.AssertExpectations(t)
}

func TestKeyHandler_Generate(t *testing.T) {
	r, _, keyringService := setupRouter(t)

	meta := testKeyMeta()
	keyringService.On("Generate", mock.Anything, &keys.GenerateRequest{
		Name:      "orders",
		Algorithm: "AES-CBC",
		Length:    256,
		Usages:    []crypto.KeyUsage{crypto.UsageEncrypt, crypto.UsageDecrypt},
	}).Return(meta, nil)

	w := serve(r, http.MethodPost, "/api/v1/keys", `{"name":"orders","algorithm":"AES-CBC","length":256,"usages":["encrypt","decrypt"]}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), meta.ID)
	keyringService.AssertExpectations(t)
}

func TestKeyHandler_Generate_Validation(t *testing.T) {
	r, _, keyringService := setupRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"algorithm":"AES-CBC","length":256,"usages":["encrypt"]}`},
		{"bad length", `{"name":"x","algorithm":"AES-CBC","length":100,"usages":["encrypt"]}`},
		{"no usages", `{"name":"x","algorithm":"AES-CBC","length":128,"usages":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, http.MethodPost, "/api/v1/keys", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	keyringService.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestKeyHandler_Import(t *testing.T) {
	r, _, keyringService := setupRouter(t)

	meta := testKeyMeta()
	keyringService.On("Import", mock.Anything, mock.MatchedBy(func(request *keys.ImportRequest) bool {
		return request.Format == crypto.KeyFormatJwk && request.KeyData.JWK != nil && request.KeyData.JWK.K == "AAECAwQFBgcICQoLDA0ODw"
	})).Return(meta, nil)

	body := `{"name":"orders","format":"jwk","algorithm":"AES-CBC","jwk":{"kty":"oct","k":"AAECAwQFBgcICQoLDA0ODw"},"usages":["encrypt"]}`
	w := serve(r, http.MethodPost, "/api/v1/keys/import", body)

	assert.Equal(t, http.StatusCreated, w.Code)
	keyringService.AssertExpectations(t)
}

func TestKeyHandler_ListMetadata(t *testing.T) {
	r, _, keyringService := setupRouter(t)

	keyringService.On("List", mock.Anything, mock.MatchedBy(func(query *keys.KeyMetaQuery) bool {
		return query.Algorithm == "AES-CTR" && query.Limit == 5
	})).Return([]*keys.KeyMeta{testKeyMeta(), testKeyMeta()}, nil)

	w := serve(r, http.MethodGet, "/api/v1/keys?algorithm=AES-CTR&limit=5", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var response []KeyMetaResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response, 2)

	w = serve(r, http.MethodGet, "/api/v1/keys?sortOrder=sideways", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestKeyHandler_GetMetadataByID(t *testing.T) {
	r, _, keyringService := setupRouter(t)

	meta := testKeyMeta()
	missing := uuid.NewString()
	keyringService.On("GetByID", mock.Anything, meta.ID).Return(meta, nil)
	keyringService.On("GetByID", mock.Anything, missing).Return(nil, keys.ErrKeyNotFound)

	w := serve(r, http.MethodGet, "/api/v1/keys/"+meta.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"orders"`)

	w = serve(r, http.MethodGet, "/api/v1/keys/"+missing, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestKeyHandler_Export(t *testing.T) {
	r, _, keyringService := setupRouter(t)

	keyID := uuid.NewString()
	keyringService.On("Export", mock.Anything, keyID, crypto.KeyFormatRaw).
		Return(&crypto.ExportedKey{Format: crypto.KeyFormatRaw, Raw: []byte{1, 2, 3}}, nil)
	keyringService.On("Export", mock.Anything, keyID, crypto.KeyFormatJwk).
		Return(&crypto.ExportedKey{Format: crypto.KeyFormatJwk, JWK: &crypto.JSONWebKey{Kty: "oct", K: "AQID"}}, nil)
	keyringService.On("Export", mock.Anything, keyID, crypto.KeyFormatSpki).
		Return(nil, fmt.Errorf("%w: spki", crypto.ErrNotSupported))

	w := serve(r, http.MethodGet, "/api/v1/keys/"+keyID+"/export?format=raw", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"format":"raw","raw":"AQID"}`, w.Body.String())

	w = serve(r, http.MethodGet, "/api/v1/keys/"+keyID+"/export", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"format":"jwk","jwk":{"kty":"oct","k":"AQID"}}`, w.Body.String())

	w = serve(r, http.MethodGet, "/api/v1/keys/"+keyID+"/export?format=spki", "")
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestKeyHandler_DeleteByID(t *testing.T) {
	r, _, keyringService := setupRouter(t)

	keyID := uuid.NewString()
	keyringService.On("Delete", mock.Anything, keyID).Return(nil).Once()
	keyringService.On("Delete", mock.Anything, keyID).Return(keys.ErrKeyNotFound)

	w := serve(r, http.MethodDelete, "/api/v1/keys/"+keyID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(r, http.MethodDelete, "/api/v1/keys/"+keyID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetupRoutes_RoutesRegistered(t *testing.T) {
	r, _, _ := setupRouter(t)

	registered := map[string]bool{}
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, route := range []string{
		"POST /api/v1/subtle/digest",
		"POST /api/v1/subtle/encrypt",
		"POST /api/v1/subtle/decrypt",
		"POST /api/v1/subtle/derive-bits",
		"POST /api/v1/keys",
		"POST /api/v1/keys/import",
		"GET /api/v1/keys",
		"GET /api/v1/keys/:id",
		"GET /api/v1/keys/:id/export",
		"DELETE /api/v1/keys/:id",
	} {
		assert.True(t, registered[route], "route %s should be registered", route)
	}
}
