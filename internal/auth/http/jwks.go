package http

import (
	"net/http"

	"github.com/nusalapor/backend/pkg/httpx"
	"github.com/nusalapor/backend/pkg/jwtx"
)

// JWKSHandler exposes the public signing keys so other services (the report
// and article APIs) can verify access tokens locally.
//
//	@Summary		Get JWKS
//	@Description	Returns the JSON Web Key Set used to verify access tokens.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	JWKSResponse	"The JSON Web Key Set"
//	@Router			/.well-known/jwks.json [get].
func JWKSHandler(keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, JWKSResponse(keys.PublicJWKS()))
	}
}
