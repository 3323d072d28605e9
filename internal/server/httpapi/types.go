package httpapi

import "github.com/dmitrijs2005/hashzone/internal/server/models"

// Wire types for the JSON API. Every request and response carries a type
// tag so payloads are self-describing.

const (
	typeInitiateFileUploadRequest  = "initiateFileUploadRequest"
	typeInitiateFileUploadResponse = "initiateFileUploadResponse"
	typeFinalizeFileUploadRequest  = "finalizeFileUploadRequest"
	typeFinalizeFileUploadResponse = "finalizeFileUploadResponse"
	typeFindFileRequest            = "findFileRequest"
	typeFindFileResponse           = "findFileResponse"

	typeAddZoneRequest      = "addZoneRequest"
	typeAddZoneResponse     = "addZoneResponse"
	typeGetZoneRequest      = "getZoneRequest"
	typeGetZoneResponse     = "getZoneResponse"
	typeGetZonesRequest     = "getZonesRequest"
	typeGetZonesResponse    = "getZonesResponse"
	typeSetZoneInfoRequest  = "setZoneInfoRequest"
	typeSetZoneInfoResponse = "setZoneInfoResponse"
	typeDeleteZoneRequest   = "deleteZoneRequest"
	typeDeleteZoneResponse  = "deleteZoneResponse"

	typeAddUserRequest             = "addUserRequest"
	typeAddUserResponse            = "addUserResponse"
	typeResetUserAPIKeyRequest     = "resetUserApiKeyRequest"
	typeResetUserAPIKeyResponse    = "resetUserApiKeyResponse"
	typeSetUserInfoRequest         = "setUserInfoRequest"
	typeSetUserInfoResponse        = "setUserInfoResponse"
	typeCreateSessionTokenRequest  = "createSessionTokenRequest"
	typeCreateSessionTokenResponse = "createSessionTokenResponse"
)

type errorResponse struct {
	Error string `json:"error"`
}

type initiateFileUploadRequest struct {
	Type     string `json:"type"`
	Size     int64  `json:"size"`
	HashAlg  string `json:"hashAlg"`
	Hash     string `json:"hash"`
	ZoneName string `json:"zoneName"`
}

type initiateFileUploadResponse struct {
	Type            string `json:"type"`
	AlreadyExists   bool   `json:"alreadyExists"`
	AlreadyPending  bool   `json:"alreadyPending"`
	SignedUploadURL string `json:"signedUploadUrl,omitempty"`
	ObjectKey       string `json:"objectKey,omitempty"`
}

type finalizeFileUploadRequest struct {
	Type      string `json:"type"`
	ObjectKey string `json:"objectKey"`
	HashAlg   string `json:"hashAlg"`
	Hash      string `json:"hash"`
	ZoneName  string `json:"zoneName"`
	Size      int64  `json:"size"`
}

type finalizeFileUploadResponse struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
}

type findFileRequest struct {
	Type     string `json:"type"`
	HashAlg  string `json:"hashAlg"`
	Hash     string `json:"hash"`
	ZoneName string `json:"zoneName"`
}

type findFileResponse struct {
	Type      string `json:"type"`
	Found     bool   `json:"found"`
	URL       string `json:"url,omitempty"`
	Size      int64  `json:"size,omitempty"`
	BucketURI string `json:"bucketUri,omitempty"`
	ObjectKey string `json:"objectKey,omitempty"`
	CacheHit  bool   `json:"cacheHit,omitempty"`
}

type zoneInfo struct {
	ZoneName       string            `json:"zoneName"`
	UserID         string            `json:"userId"`
	Users          []models.ZoneUser `json:"users"`
	PublicDownload bool              `json:"publicDownload"`
	BucketURI      string            `json:"bucketUri,omitempty"`
	Directory      string            `json:"directory,omitempty"`
	Credentials    string            `json:"credentials,omitempty"`
}

func zoneToInfo(z *models.Zone) zoneInfo {
	users := z.Users
	if users == nil {
		users = []models.ZoneUser{}
	}
	return zoneInfo{
		ZoneName:       z.ZoneName,
		UserID:         z.OwnerUserID,
		Users:          users,
		PublicDownload: z.PublicDownload,
		BucketURI:      z.BucketURI,
		Directory:      z.Directory,
		Credentials:    z.Credentials,
	}
}

type addZoneRequest struct {
	Type     string `json:"type"`
	ZoneName string `json:"zoneName"`
	UserID   string `json:"userId"`
}

type addZoneResponse struct {
	Type string `json:"type"`
}

type getZoneRequest struct {
	Type     string `json:"type"`
	ZoneName string `json:"zoneName"`
}

type getZoneResponse struct {
	Type string   `json:"type"`
	Zone zoneInfo `json:"zone"`
}

type getZonesRequest struct {
	Type   string `json:"type"`
	UserID string `json:"userId,omitempty"`
}

type getZonesResponse struct {
	Type  string     `json:"type"`
	Zones []zoneInfo `json:"zones"`
}

type setZoneInfoRequest struct {
	Type           string             `json:"type"`
	ZoneName       string             `json:"zoneName"`
	Users          *[]models.ZoneUser `json:"users,omitempty"`
	PublicDownload *bool              `json:"publicDownload,omitempty"`
	BucketURI      *string            `json:"bucketUri,omitempty"`
	Credentials    *string            `json:"credentials,omitempty"`
	Directory      *string            `json:"directory,omitempty"`
}

type setZoneInfoResponse struct {
	Type string `json:"type"`
}

type deleteZoneRequest struct {
	Type     string `json:"type"`
	ZoneName string `json:"zoneName"`
}

type deleteZoneResponse struct {
	Type string `json:"type"`
}

type addUserRequest struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

type addUserResponse struct {
	Type string `json:"type"`
}

type resetUserAPIKeyRequest struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

type resetUserAPIKeyResponse struct {
	Type   string `json:"type"`
	APIKey string `json:"apiKey"`
}

type setUserInfoRequest struct {
	Type   string  `json:"type"`
	UserID string  `json:"userId"`
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
}

type setUserInfoResponse struct {
	Type string `json:"type"`
}

type createSessionTokenRequest struct {
	Type string `json:"type"`
}

type createSessionTokenResponse struct {
	Type   string `json:"type"`
	Token  string `json:"token"`
	UserID string `json:"userId"`
}
