package identity

import (
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionToken(payload string) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
	body := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return fmt.Sprintf("%s.%s.signature", header, body)
}

func TestSubjectFromAuthHeader(t *testing.T) {
	token := sessionToken(`{"sub":"user_2abc","exp":1736200000}`)

	sub, err := SubjectFromAuthHeader("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "user_2abc", sub)
}

func TestSubjectFromAuthHeaderRejectsBadInput(t *testing.T) {
	cases := []struct {
		name   string
		header string
	}{
		{"missing bearer prefix", sessionToken(`{"sub":"user_1"}`)},
		{"not a jwt", "Bearer just-a-token"},
		{"payload not base64", "Bearer a.!!!.c"},
		{"payload not json", "Bearer a." + base64.RawURLEncoding.EncodeToString([]byte("nope")) + ".c"},
		{"missing sub claim", "Bearer " + sessionToken(`{"exp":1736200000}`)},
		{"empty header", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := SubjectFromAuthHeader(tc.header)
			assert.Error(t, err)
		})
	}
}
