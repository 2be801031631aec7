package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/cart/internal/domain/identity"
	"github.com/storefront/cart/internal/interfaces/http/middleware"
)

type memorySlot struct {
	credential string
	stored     []string
	loggedOut  []string
	readErr    error
}

func (s *memorySlot) Credential(context.Context) (string, error) {
	return s.credential, s.readErr
}

func (s *memorySlot) Store(_ context.Context, credential, userID string) error {
	s.credential = credential
	s.stored = append(s.stored, userID)
	return nil
}

func (s *memorySlot) Logout(_ context.Context, userID string) error {
	s.credential = ""
	s.loggedOut = append(s.loggedOut, userID)
	return nil
}

type tokenResolver map[string]identity.Identity

func (r tokenResolver) Resolve(_ context.Context, credential string) (identity.Identity, error) {
	ident, ok := r[credential]
	if !ok {
		return identity.Identity{}, errors.New("token is expired")
	}
	return ident, nil
}

type recordingRevoker struct {
	revoked []string
	err     error
}

func (r *recordingRevoker) Revoke(_ context.Context, credential string) error {
	r.revoked = append(r.revoked, credential)
	return r.err
}

func newSessionRouter(slot *memorySlot, revoker CredentialRevoker) *gin.Engine {
	resolver := tokenResolver{"good": {UserID: "u1", Username: "ann", Roles: []string{"customer"}}}
	current := func() identity.Identity {
		if slot.credential == "" {
			return identity.Guest()
		}
		ident, _ := resolver.Resolve(context.Background(), slot.credential)
		ident.Credential = slot.credential
		return ident
	}
	engine := gin.New()
	engine.Use(middleware.RequestID())
	NewSessionHandler(slot, resolver, revoker, current).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func TestSessionHandler_SignInOut(t *testing.T) {
	slot := &memorySlot{}
	revoker := &recordingRevoker{}
	engine := newSessionRouter(slot, revoker)

	w, env := do(t, engine, http.MethodGet, "/api/v1/session", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authenticated":false}`, string(env.Data))

	w, env = do(t, engine, http.MethodPost, "/api/v1/session", `{"credential":"good"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authenticated":true,"userId":"u1","username":"ann","roles":["customer"]}`, string(env.Data))
	assert.Equal(t, []string{"u1"}, slot.stored)
	assert.NotContains(t, string(env.Data), "good")

	w, _ = do(t, engine, http.MethodDelete, "/api/v1/session", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"good"}, revoker.revoked)
	assert.Equal(t, []string{"u1"}, slot.loggedOut)
	assert.Empty(t, slot.credential)
}

func TestSessionHandler_RejectsInvalidCredential(t *testing.T) {
	slot := &memorySlot{}
	engine := newSessionRouter(slot, nil)

	w, env := do(t, engine, http.MethodPost, "/api/v1/session", `{"credential":"forged"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "ERR_UNAUTHORIZED", env.Error.Code)
	assert.Empty(t, slot.stored)

	w, _ = do(t, engine, http.MethodPost, "/api/v1/session", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionHandler_SignOutWithoutCredential(t *testing.T) {
	slot := &memorySlot{}
	revoker := &recordingRevoker{err: errors.New("redis down")}
	engine := newSessionRouter(slot, revoker)

	w, _ := do(t, engine, http.MethodDelete, "/api/v1/session", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, revoker.revoked)
	assert.Equal(t, []string{""}, slot.loggedOut)
}

func TestSessionHandler_SignOutRevokeFailureIsNotFatal(t *testing.T) {
	slot := &memorySlot{credential: "good"}
	revoker := &recordingRevoker{err: errors.New("redis down")}
	engine := newSessionRouter(slot, revoker)

	w, _ := do(t, engine, http.MethodDelete, "/api/v1/session", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"u1"}, slot.loggedOut)
}

func TestSessionHandler_SlotReadError(t *testing.T) {
	slot := &memorySlot{readErr: errors.New("disk unavailable")}
	engine := newSessionRouter(slot, nil)

	w, env := do(t, engine, http.MethodDelete, "/api/v1/session", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "ERR_INTERNAL", env.Error.Code)
}
