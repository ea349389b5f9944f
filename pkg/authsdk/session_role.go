package authsdk

import (
	"context"
	"net/http"
)

// Protected calls one of the role-gated probe endpoints: tier is "", "petugas"
// or "admin".
func (s *Session) Protected(ctx context.Context, tier string) (*ProtectedResponse, error) {
	path := "/v1/auth/protected"
	if tier != "" {
		path += "/" + tier
	}

	resp, err := s.doAuthRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var out ProtectedResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// AssignOfficer promotes userID to petugas. Requires an admin session. An
// empty title means the server default.
func (s *Session) AssignOfficer(ctx context.Context, userID, title string) (*AssignRoleResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/auth/assign-role", map[string]string{
		"user_id":    userID,
		"role_title": title,
	})
	if err != nil {
		return nil, err
	}

	var out AssignRoleResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateOfficer registers a new petugas account. Requires an admin session.
func (s *Session) CreateOfficer(ctx context.Context, req RegisterRequest) (*CreateOfficerResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/auth/officers", req)
	if err != nil {
		return nil, err
	}

	var out CreateOfficerResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
