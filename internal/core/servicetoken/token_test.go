package servicetoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	issuer := NewIssuer("topsecret", "gateway")
	validator := NewValidator("topsecret")

	token, err := issuer.Issue()
	require.NoError(t, err)

	service, err := validator.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "gateway", service)
}

func TestValidate_WrongSecret(t *testing.T) {
	issuer := NewIssuer("topsecret", "gateway")
	validator := NewValidator("othersecret")

	token, err := issuer.Issue()
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	require.Error(t, err)
}

func TestValidate_Expired(t *testing.T) {
	issuer := NewIssuer("topsecret", "gateway")
	issuer.now = func() time.Time { return time.Now().Add(-2 * DefaultTTL) }
	validator := NewValidator("topsecret")

	token, err := issuer.Issue()
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	require.Error(t, err)
}

func TestValidate_RejectsUnsignedAlg(t *testing.T) {
	claims := Claims{
		Service: "gateway",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewValidator("topsecret").ValidateToken(unsigned)
	require.Error(t, err)
}

func TestValidate_MissingServiceClaim(t *testing.T) {
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("topsecret"))
	require.NoError(t, err)

	_, err = NewValidator("topsecret").ValidateToken(signed)
	require.Error(t, err)
}

func TestValidate_Garbage(t *testing.T) {
	_, err := NewValidator("topsecret").ValidateToken("not-a-token")
	require.Error(t, err)
}
