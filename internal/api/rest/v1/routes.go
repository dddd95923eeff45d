package v1

import (
	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/crypto"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/keys"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up all the API routes for version 1.
func SetupRoutes(r *gin.Engine, engine crypto.SubtleCrypto, keyringService keys.KeyringService) {
	v1 := r.Group(BasePath)

	subtleHandler := NewSubtleHandler(engine, keyringService)
	v1.POST("/subtle/digest", subtleHandler.Digest)
	v1.POST("/subtle/encrypt", subtleHandler.Encrypt)
	v1.POST("/subtle/decrypt", subtleHandler.Decrypt)
	v1.POST("/subtle/derive-bits", subtleHandler.DeriveBits)

	keyHandler := NewKeyHandler(keyringService)
	v1.POST("/keys", keyHandler.Generate)
	v1.POST("/keys/import", keyHandler.Import)
	v1.GET("/keys", keyHandler.ListMetadata)
	v1.GET("/keys/:id", keyHandler.GetMetadataByID)
	v1.GET("/keys/:id/export", keyHandler.Export)
	v1.DELETE("/keys/:id", keyHandler.DeleteByID)
}
