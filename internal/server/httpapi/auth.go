package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/hashzone/internal/common"
	"github.com/dmitrijs2005/hashzone/internal/server/auth"
)

// bearerToken extracts the credential from the Authorization header, or
// returns an empty string when none is present.
func bearerToken(r *http.Request) string {
	header := r.Header.Get(common.AuthorizationHeaderName)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// resolveUserID maps a bearer credential to a principal. API keys are
// looked up in the user registry; anything else is treated as a session
// token. An unresolvable credential yields common.ErrorUnauthorized.
func (s *Server) resolveUserID(r *http.Request, token string) (string, error) {
	userID, err := s.users.UserIDForAPIKey(r.Context(), token)
	if err == nil {
		return userID, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return "", err
	}

	userID, err = auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return "", common.ErrorUnauthorized
	}
	return userID, nil
}
