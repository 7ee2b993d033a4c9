package queue

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBinder struct {
	accountID, namespace, token string
	calls                       int
	err                         error
}

func (b *fakeBinder) SetNamespaceToken(_ context.Context, accountID, namespace, token string) error {
	b.calls++
	if b.err != nil {
		return b.err
	}
	b.accountID, b.namespace, b.token = accountID, namespace, token
	return nil
}

func signedTestToken(t *testing.T) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "acc-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("downstream-secret"))
	require.NoError(t, err)
	return raw
}

func TestHandleMessageAttachesNamespaceToken(t *testing.T) {
	binder := &fakeBinder{}
	token := signedTestToken(t)

	body := []byte(`{"accountId":"acc-1","namespace":"prod","token":"` + token + `"}`)
	require.NoError(t, handleMessage(body, binder))

	assert.Equal(t, 1, binder.calls)
	assert.Equal(t, "acc-1", binder.accountID)
	assert.Equal(t, "prod", binder.namespace)
	assert.Equal(t, token, binder.token)
}

func TestHandleMessageRejectsNonJWTToken(t *testing.T) {
	binder := &fakeBinder{}

	body := []byte(`{"accountId":"acc-1","namespace":"prod","token":"not a jwt"}`)
	assert.Error(t, handleMessage(body, binder))
	assert.Zero(t, binder.calls, "garbage tokens must not reach the store")
}

func TestHandleMessageRejectsIncompleteEvent(t *testing.T) {
	binder := &fakeBinder{}
	token := signedTestToken(t)

	for _, body := range []string{
		`{"namespace":"prod","token":"` + token + `"}`,
		`{"accountId":"acc-1","token":"` + token + `"}`,
		`{"accountId":"acc-1","namespace":"prod"}`,
		`{not json`,
	} {
		assert.Error(t, handleMessage([]byte(body), binder), "body %s", body)
	}
	assert.Zero(t, binder.calls)
}
