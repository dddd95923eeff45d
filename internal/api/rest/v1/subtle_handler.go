package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/crypto"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/keys"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/pkg/async"

	"github.com/gin-gonic/gin"
)

// SubtleHandler exposes the stateless engine operations
type SubtleHandler interface {
	Digest(ctx *gin.Context)
	Encrypt(ctx *gin.Context)
	Decrypt(ctx *gin.Context)
	DeriveBits(ctx *gin.Context)
}

type subtleHandler struct {
	engine         crypto.SubtleCrypto
	keyringService keys.KeyringService
}

// NewSubtleHandler creates a new SubtleHandler
func NewSubtleHandler(engine crypto.SubtleCrypto, keyringService keys.KeyringService) SubtleHandler {
	return &subtleHandler{
		engine:         engine,
		keyringService: keyringService,
	}
}

// Digest handles the POST request to hash data
// @Summary Hash data
// @Tags Subtle
// @Accept json
// @Produce json
// @Param requestBody body DigestRequest true "Algorithm and data"
// @Success 200 {object} BytesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 501 {object} ErrorResponse
// @Router /subtle/digest [post]
func (handler *subtleHandler) Digest(ctx *gin.Context) {
	var request DigestRequest
	if !bindRequest(ctx, &request) {
		return
	}

	algorithm, err := algorithmIdentifier(request.Algorithm)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	digest, err := handler.engine.Digest(ctx.Request.Context(), algorithm, request.Data).Await(ctx.Request.Context())
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, BytesResponse{Data: digest})
}

// Encrypt handles the POST request to encrypt data with a keyring key
// @Summary Encrypt data
// @Tags Subtle
// @Accept json
// @Produce json
// @Param requestBody body CipherRequest true "Key, algorithm parameters and plaintext"
// @Success 200 {object} BytesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /subtle/encrypt [post]
func (handler *subtleHandler) Encrypt(ctx *gin.Context) {
	handler.cipher(ctx, handler.engine.Encrypt)
}

// Decrypt handles the POST request to decrypt data with a keyring key
// @Summary Decrypt data
// @Tags Subtle
// @Accept json
// @Produce json
// @Param requestBody body CipherRequest true "Key, algorithm parameters and ciphertext"
// @Success 200 {object} BytesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /subtle/decrypt [post]
func (handler *subtleHandler) Decrypt(ctx *gin.Context) {
	handler.cipher(ctx, handler.engine.Decrypt)
}

type cipherFunc func(ctx context.Context, algorithm crypto.AlgorithmIdentifier, key *crypto.CryptoKey, data []byte) *async.Promise[[]byte]

func (handler *subtleHandler) cipher(ctx *gin.Context, run cipherFunc) {
	var request CipherRequest
	if !bindRequest(ctx, &request) {
		return
	}

	algorithm, err := algorithmIdentifier(request.Algorithm)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	key, err := handler.keyringService.Load(ctx.Request.Context(), request.KeyID)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	output, err := run(ctx.Request.Context(), algorithm, key, request.Data).Await(ctx.Request.Context())
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, BytesResponse{Data: output})
}

// DeriveBits handles the POST request to derive bits from a password with PBKDF2
// @Summary Derive bits with PBKDF2
// @Tags Subtle
// @Accept json
// @Produce json
// @Param requestBody body DeriveBitsRequest true "Password, PBKDF2 parameters and length"
// @Success 200 {object} BytesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /subtle/derive-bits [post]
func (handler *subtleHandler) DeriveBits(ctx *gin.Context) {
	var request DeriveBitsRequest
	if !bindRequest(ctx, &request) {
		return
	}

	algorithm, err := algorithmIdentifier(request.Algorithm)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	requestCtx := ctx.Request.Context()
	key, err := handler.engine.ImportKey(requestCtx, crypto.KeyFormatRaw, crypto.RawKeyData(request.Password), crypto.AlgorithmName(crypto.AlgorithmPBKDF2), false, []crypto.KeyUsage{crypto.UsageDeriveBits}).Await(requestCtx)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	bits, err := handler.engine.DeriveBits(requestCtx, algorithm, key, request.Length).Await(requestCtx)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, BytesResponse{Data: bits})
}

// bindRequest decodes and validates the JSON body, answering 400 on failure
func bindRequest(ctx *gin.Context, request interface{ Validate() error }) bool {
	if err := ctx.ShouldBindJSON(request); err != nil {
		abortWithMessage(ctx, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	if err := request.Validate(); err != nil {
		abortWithMessage(ctx, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
