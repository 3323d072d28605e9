package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/hashzone/internal/common"
	"github.com/dmitrijs2005/hashzone/internal/server/auth"
	"github.com/dmitrijs2005/hashzone/internal/server/repositories/transfers"
	"github.com/dmitrijs2005/hashzone/internal/server/repositories/zones"
	"github.com/dmitrijs2005/hashzone/internal/server/services"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps domain errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, zones.ErrZoneExists):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeRequest reads a POST body into req and checks the type tag.
func decodeRequest(w http.ResponseWriter, r *http.Request, req any, wantType string) bool {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return false
	}
	type typed interface{ requestType() string }
	if t, ok := req.(typed); ok && t.requestType() != wantType {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return false
	}
	return true
}

func (r *initiateFileUploadRequest) requestType() string { return r.Type }
func (r *finalizeFileUploadRequest) requestType() string { return r.Type }
func (r *findFileRequest) requestType() string           { return r.Type }
func (r *addZoneRequest) requestType() string            { return r.Type }
func (r *getZoneRequest) requestType() string            { return r.Type }
func (r *getZonesRequest) requestType() string           { return r.Type }
func (r *setZoneInfoRequest) requestType() string        { return r.Type }
func (r *deleteZoneRequest) requestType() string         { return r.Type }
func (r *addUserRequest) requestType() string            { return r.Type }
func (r *resetUserAPIKeyRequest) requestType() string    { return r.Type }
func (r *setUserInfoRequest) requestType() string        { return r.Type }
func (r *createSessionTokenRequest) requestType() string { return r.Type }

// authenticatedUser resolves the bearer credential on the request,
// requiring one to be present.
func (s *Server) authenticatedUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusBadRequest, "Authorization token must be provided")
		return "", false
	}
	userID, err := s.resolveUserID(r, token)
	if err != nil {
		writeServiceError(w, err)
		return "", false
	}
	return userID, true
}

// ---- transfer endpoints ----

func (s *Server) initiateFileUpload(w http.ResponseWriter, r *http.Request) {
	var req initiateFileUploadRequest
	if !decodeRequest(w, r, &req, typeInitiateFileUploadRequest) {
		return
	}

	userID, ok := s.authenticatedUser(w, r)
	if !ok {
		return
	}

	zone, err := s.zones.GetZone(r.Context(), req.ZoneName, true)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !services.UserCanUpload(zone, userID) {
		writeError(w, http.StatusUnauthorized, "This user is not allowed to upload files to this zone")
		return
	}

	res, err := s.files.InitiateUpload(r.Context(), zone, userID, req.Size, req.Hash, req.HashAlg)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, initiateFileUploadResponse{
		Type:            typeInitiateFileUploadResponse,
		AlreadyExists:   res.AlreadyExists,
		AlreadyPending:  res.AlreadyPending,
		SignedUploadURL: res.SignedUploadURL,
		ObjectKey:       res.ObjectKey,
	})
}

func (s *Server) finalizeFileUpload(w http.ResponseWriter, r *http.Request) {
	var req finalizeFileUploadRequest
	if !decodeRequest(w, r, &req, typeFinalizeFileUploadRequest) {
		return
	}

	userID, ok := s.authenticatedUser(w, r)
	if !ok {
		return
	}

	zone, err := s.zones.GetZone(r.Context(), req.ZoneName, true)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !services.UserCanUpload(zone, userID) {
		writeError(w, http.StatusUnauthorized, "This user is not allowed to upload files to this zone")
		return
	}

	success, err := s.files.FinalizeUpload(r.Context(), zone, userID,
		req.Size, req.Hash, req.HashAlg, req.ObjectKey, transfers.ChannelUpload)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, finalizeFileUploadResponse{
		Type:    typeFinalizeFileUploadResponse,
		Success: success,
	})
}

func (s *Server) findFile(w http.ResponseWriter, r *http.Request) {
	var req findFileRequest
	if !decodeRequest(w, r, &req, typeFindFileRequest) {
		return
	}

	zone, err := s.zones.GetZone(r.Context(), req.ZoneName, true)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// downloads from public zones are allowed without a credential
	var userID string
	if token := bearerToken(r); token != "" {
		userID, err = s.resolveUserID(r, token)
		if err != nil {
			writeServiceError(w, err)
			return
		}
	}
	if !services.UserCanDownload(zone, userID) {
		writeError(w, http.StatusUnauthorized, "This user is not allowed to download files from this zone")
		return
	}

	res, err := s.files.FindFile(r.Context(), zone, userID, req.Hash, req.HashAlg)
	if errors.Is(err, common.ErrorNotFound) {
		writeJSON(w, http.StatusOK, findFileResponse{Type: typeFindFileResponse, Found: false})
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, findFileResponse{
		Type:      typeFindFileResponse,
		Found:     res.Found,
		URL:       res.URL,
		Size:      res.Size,
		BucketURI: res.BucketURI,
		ObjectKey: res.ObjectKey,
		CacheHit:  res.CacheHit,
	})
}

// ---- zone endpoints ----

func (s *Server) addZone(w http.ResponseWriter, r *http.Request) {
	var req addZoneRequest
	if !decodeRequest(w, r, &req, typeAddZoneRequest) {
		return
	}

	userID, ok := s.authenticatedUser(w, r)
	if !ok {
		return
	}
	if userID != req.UserID {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := s.zones.AddZone(r.Context(), req.ZoneName, req.UserID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, addZoneResponse{Type: typeAddZoneResponse})
}

func (s *Server) getZone(w http.ResponseWriter, r *http.Request) {
	var req getZoneRequest
	if !decodeRequest(w, r, &req, typeGetZoneRequest) {
		return
	}

	zone, err := s.zones.GetZone(r.Context(), req.ZoneName, false)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, getZoneResponse{
		Type: typeGetZoneResponse,
		Zone: zoneToInfo(zone),
	})
}

func (s *Server) getZones(w http.ResponseWriter, r *http.Request) {
	var req getZonesRequest
	if !decodeRequest(w, r, &req, typeGetZonesRequest) {
		return
	}

	zoneList, err := s.zones.GetZones(r.Context(), req.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	infos := make([]zoneInfo, 0, len(zoneList))
	for _, z := range zoneList {
		infos = append(infos, zoneToInfo(z))
	}

	writeJSON(w, http.StatusOK, getZonesResponse{Type: typeGetZonesResponse, Zones: infos})
}

func (s *Server) setZoneInfo(w http.ResponseWriter, r *http.Request) {
	var req setZoneInfoRequest
	if !decodeRequest(w, r, &req, typeSetZoneInfoRequest) {
		return
	}

	userID, ok := s.authenticatedUser(w, r)
	if !ok {
		return
	}

	zone, err := s.zones.GetZone(r.Context(), req.ZoneName, false)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !services.UserIsAdmin(zone, userID) {
		writeError(w, http.StatusUnauthorized,
			fmt.Sprintf("User %s is not authorized to modify this zone", userID))
		return
	}

	update := services.ZoneUpdate{
		Users:          req.Users,
		PublicDownload: req.PublicDownload,
		BucketURI:      req.BucketURI,
		Directory:      req.Directory,
		Credentials:    req.Credentials,
	}
	if err := s.zones.SetZoneInfo(r.Context(), req.ZoneName, update); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, setZoneInfoResponse{Type: typeSetZoneInfoResponse})
}

func (s *Server) deleteZone(w http.ResponseWriter, r *http.Request) {
	var req deleteZoneRequest
	if !decodeRequest(w, r, &req, typeDeleteZoneRequest) {
		return
	}

	userID, ok := s.authenticatedUser(w, r)
	if !ok {
		return
	}

	zone, err := s.zones.GetZone(r.Context(), req.ZoneName, false)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	// only the owner may remove a zone
	if zone.OwnerUserID != userID {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := s.zones.DeleteZone(r.Context(), req.ZoneName); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteZoneResponse{Type: typeDeleteZoneResponse})
}

// ---- user endpoints ----

func (s *Server) addUser(w http.ResponseWriter, r *http.Request) {
	var req addUserRequest
	if !decodeRequest(w, r, &req, typeAddUserRequest) {
		return
	}

	userID, ok := s.authenticatedUser(w, r)
	if !ok {
		return
	}
	if userID != req.UserID {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := s.users.AddUser(r.Context(), req.UserID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, addUserResponse{Type: typeAddUserResponse})
}

func (s *Server) resetUserAPIKey(w http.ResponseWriter, r *http.Request) {
	var req resetUserAPIKeyRequest
	if !decodeRequest(w, r, &req, typeResetUserAPIKeyRequest) {
		return
	}

	userID, ok := s.authenticatedUser(w, r)
	if !ok {
		return
	}
	if userID != req.UserID {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	apiKey, err := s.users.ResetAPIKey(r.Context(), req.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resetUserAPIKeyResponse{
		Type:   typeResetUserAPIKeyResponse,
		APIKey: apiKey,
	})
}

func (s *Server) setUserInfo(w http.ResponseWriter, r *http.Request) {
	var req setUserInfoRequest
	if !decodeRequest(w, r, &req, typeSetUserInfoRequest) {
		return
	}

	userID, ok := s.authenticatedUser(w, r)
	if !ok {
		return
	}
	if userID != req.UserID {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var name, email string
	if req.Name != nil {
		name = *req.Name
	}
	if req.Email != nil {
		email = *req.Email
	}
	if err := s.users.SetUserInfo(r.Context(), req.UserID, name, email); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, setUserInfoResponse{Type: typeSetUserInfoResponse})
}

// createSessionToken exchanges a valid API key for a short-lived token.
func (s *Server) createSessionToken(w http.ResponseWriter, r *http.Request) {
	var req createSessionTokenRequest
	if !decodeRequest(w, r, &req, typeCreateSessionTokenRequest) {
		return
	}

	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusBadRequest, "Authorization token must be provided")
		return
	}
	userID, err := s.users.UserIDForAPIKey(r.Context(), token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		writeServiceError(w, err)
		return
	}

	signed, err := auth.GenerateToken(userID, s.jwtSecret, sessionTokenValidity)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, createSessionTokenResponse{
		Type:   typeCreateSessionTokenResponse,
		Token:  signed,
		UserID: userID,
	})
}
