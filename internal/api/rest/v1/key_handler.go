package v1

import (
	"fmt"
	"net/http"

	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/crypto"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/keys"

	"github.com/gin-gonic/gin"
)

// KeyHandler defines the interface for handling keyring operations
type KeyHandler interface {
	Generate(ctx *gin.Context)
	Import(ctx *gin.Context)
	ListMetadata(ctx *gin.Context)
	GetMetadataByID(ctx *gin.Context)
	Export(ctx *gin.Context)
	DeleteByID(ctx *gin.Context)
}

type keyHandler struct {
	keyringService keys.KeyringService
}

// NewKeyHandler creates a new KeyHandler
func NewKeyHandler(keyringService keys.KeyringService) KeyHandler {
	return &keyHandler{
		keyringService: keyringService,
	}
}

// Generate handles the POST request to generate and store an AES key
// @Summary Generate an AES key
// @Tags Key
// @Accept json
// @Produce json
// @Param requestBody body GenerateKeyRequest true "Key parameters"
// @Success 201 {object} KeyMetaResponse
// @Failure 400 {object} ErrorResponse
// @Failure 501 {object} ErrorResponse
// @Router /keys [post]
func (handler *keyHandler) Generate(ctx *gin.Context) {
	var request GenerateKeyRequest
	if !bindRequest(ctx, &request) {
		return
	}

	meta, err := handler.keyringService.Generate(ctx.Request.Context(), &keys.GenerateRequest{
		Name:      request.Name,
		Algorithm: request.Algorithm,
		Length:    request.Length,
		Usages:    keyUsages(request.Usages),
	})
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, newKeyMetaResponse(meta))
}

// Import handles the POST request to store externally supplied key material
// @Summary Import an AES key
// @Tags Key
// @Accept json
// @Produce json
// @Param requestBody body ImportKeyRequest true "Key material"
// @Success 201 {object} KeyMetaResponse
// @Failure 400 {object} ErrorResponse
// @Failure 501 {object} ErrorResponse
// @Router /keys/import [post]
func (handler *keyHandler) Import(ctx *gin.Context) {
	var request ImportKeyRequest
	if !bindRequest(ctx, &request) {
		return
	}

	keyData := crypto.RawKeyData(request.Raw)
	if request.JWK != nil {
		keyData = crypto.JWKKeyData(request.JWK)
	}

	meta, err := handler.keyringService.Import(ctx.Request.Context(), &keys.ImportRequest{
		Name:      request.Name,
		Format:    crypto.KeyFormat(request.Format),
		KeyData:   keyData,
		Algorithm: request.Algorithm,
		Usages:    keyUsages(request.Usages),
	})
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, newKeyMetaResponse(meta))
}

// ListMetadata handles the GET request to list key metadata with optional query parameters
// @Summary List key metadata
// @Description Fetch key metadata filtered by algorithm and creation date, with pagination and sorting options.
// @Tags Key
// @Produce json
// @Param algorithm query string false "AES-CBC or AES-CTR"
// @Param dateTimeCreated query string false "Key Creation Date (RFC3339)"
// @Param limit query int false "Limit the number of results"
// @Param offset query int false "Offset the results"
// @Param sortBy query string false "Sort by a specific field"
// @Param sortOrder query string false "Sort order (asc/desc)"
// @Success 200 {array} KeyMetaResponse
// @Failure 400 {object} ErrorResponse
// @Router /keys [get]
func (handler *keyHandler) ListMetadata(ctx *gin.Context) {
	query := keys.NewKeyMetaQuery()
	if err := ctx.ShouldBindQuery(query); err != nil {
		abortWithMessage(ctx, http.StatusBadRequest, fmt.Sprintf("invalid query parameters: %v", err))
		return
	}
	if err := query.Validate(); err != nil {
		abortWithMessage(ctx, http.StatusBadRequest, err.Error())
		return
	}

	metas, err := handler.keyringService.List(ctx.Request.Context(), query)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	listResponse := make([]KeyMetaResponse, 0, len(metas))
	for _, meta := range metas {
		listResponse = append(listResponse, newKeyMetaResponse(meta))
	}

	ctx.JSON(http.StatusOK, listResponse)
}

// GetMetadataByID handles the GET request to retrieve key metadata by ID
// @Summary Retrieve key metadata by ID
// @Tags Key
// @Produce json
// @Param id path string true "Key ID"
// @Success 200 {object} KeyMetaResponse
// @Failure 404 {object} ErrorResponse
// @Router /keys/{id} [get]
func (handler *keyHandler) GetMetadataByID(ctx *gin.Context) {
	keyID := ctx.Param("id")

	meta, err := handler.keyringService.GetByID(ctx.Request.Context(), keyID)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newKeyMetaResponse(meta))
}

// Export handles the GET request to export a stored key
// @Summary Export a key as raw bytes or JWK
// @Tags Key
// @Produce json
// @Param id path string true "Key ID"
// @Param format query string false "raw or jwk (default jwk)"
// @Success 200 {object} ExportKeyResponse
// @Failure 404 {object} ErrorResponse
// @Failure 501 {object} ErrorResponse
// @Router /keys/{id}/export [get]
func (handler *keyHandler) Export(ctx *gin.Context) {
	keyID := ctx.Param("id")
	format := crypto.KeyFormat(ctx.DefaultQuery("format", string(crypto.KeyFormatJwk)))

	exported, err := handler.keyringService.Export(ctx.Request.Context(), keyID, format)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, ExportKeyResponse{
		Format: string(exported.Format),
		Raw:    exported.Raw,
		JWK:    exported.JWK,
	})
}

// DeleteByID handles the DELETE request to delete a key by ID
// @Summary Delete a key by ID
// @Tags Key
// @Produce json
// @Param id path string true "Key ID"
// @Success 204 {object} InfoResponse
// @Failure 404 {object} ErrorResponse
// @Router /keys/{id} [delete]
func (handler *keyHandler) DeleteByID(ctx *gin.Context) {
	keyID := ctx.Param("id")

	if err := handler.keyringService.Delete(ctx.Request.Context(), keyID); err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusNoContent, InfoResponse{Message: fmt.Sprintf("deleted key with id %s", keyID)})
}
