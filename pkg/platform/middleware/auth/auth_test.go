package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	id "kycmint/pkg/domain"
	"kycmint/pkg/requestcontext"
)

// MockJWTValidator is a testify mock for JWTValidator
type MockJWTValidator struct {
	mock.Mock
}

func (m *MockJWTValidator) ValidateToken(tokenString string) (*JWTClaims, error) {
	args := m.Called(tokenString)
	if claims := args.Get(0); claims != nil {
		return claims.(*JWTClaims), args.Error(1)
	}
	return nil, args.Error(1)
}

type capturingHandler struct {
	called bool
	ctx    context.Context
}

func (h *capturingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.ctx = r.Context()
	w.WriteHeader(http.StatusOK)
}

type AuthMiddlewareSuite struct {
	suite.Suite
	validator *MockJWTValidator
	next      *capturingHandler
	handler   http.Handler
}

func (s *AuthMiddlewareSuite) SetupTest() {
	s.validator = new(MockJWTValidator)
	s.next = &capturingHandler{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.handler = RequireAuth(s.validator, logger)(s.next)
}

func TestAuthMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareSuite))
}

func (s *AuthMiddlewareSuite) serve(header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/authorizations/redeem", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func (s *AuthMiddlewareSuite) TestValidTokenPopulatesCaller() {
	s.validator.On("ValidateToken", "good").Return(&JWTClaims{Subject: "alice.near", JTI: "j1"}, nil)

	w := s.serve("Bearer good")

	s.Equal(http.StatusOK, w.Code)
	s.True(s.next.called)
	s.Equal(id.AccountID("alice.near"), requestcontext.Caller(s.next.ctx))
	s.validator.AssertExpectations(s.T())
}

func (s *AuthMiddlewareSuite) TestMissingHeaderIsRejected() {
	w := s.serve("")

	s.Equal(http.StatusUnauthorized, w.Code)
	s.False(s.next.called)
	s.Contains(w.Header().Get("WWW-Authenticate"), "Bearer")
}

func (s *AuthMiddlewareSuite) TestNonBearerSchemeIsRejected() {
	w := s.serve("Basic abc")

	s.Equal(http.StatusUnauthorized, w.Code)
	s.False(s.next.called)
}

func (s *AuthMiddlewareSuite) TestInvalidTokenIsRejected() {
	s.validator.On("ValidateToken", "bad").Return(nil, errors.New("signature invalid"))

	w := s.serve("Bearer bad")

	s.Equal(http.StatusUnauthorized, w.Code)
	s.False(s.next.called)
}

func (s *AuthMiddlewareSuite) TestMalformedSubjectIsRejected() {
	s.validator.On("ValidateToken", "weird").Return(&JWTClaims{Subject: "Not An Account"}, nil)

	w := s.serve("Bearer weird")

	s.Equal(http.StatusUnauthorized, w.Code)
	s.False(s.next.called)
}
